package controllers

import (
	"strings"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

func EnrollInCourse(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated course ID and optional batch ID
	courseID := c.Locals("courseID").(int)
	batchID, _ := c.Locals("batchID").(*uint)

	// Check if course exists and is published
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ? AND is_published = ?", courseID, false, "ACTIVE", true).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Validate batch if one was requested
	var batch courseModels.Batch
	if batchID != nil {
		if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", *batchID, courseID, false).First(&batch).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Batch not found for this course!", nil)
		}
		if batch.Status == courseModels.BatchCompleted {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Batch has already completed!", nil)
		}
		if batch.MaxStudents > 0 && batch.CurrentStudents >= batch.MaxStudents {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Batch is full!", nil)
		}
	}

	// Check if user is already enrolled; the existing record is returned so
	// the client can treat a repeat enroll as success
	var existingEnrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existingEnrollment).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", existingEnrollment)
	}

	// Snapshot total published lessons for the progress rollup
	var totalLessons int64
	database.Database.Db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Count(&totalLessons)

	// Create enrollment
	enrollment := courseModels.Enrollment{
		UserID:       userID,
		CourseID:     uint(courseID),
		BatchID:      batchID,
		Status:       courseModels.EnrollmentEnrolled,
		TotalLessons: int(totalLessons),
		EnrolledAt:   timeNow(),
	}

	// Save to database with transaction
	tx := database.Database.Db.Begin()
	if err := tx.Create(&enrollment).Error; err != nil {
		tx.Rollback()
		// The unique index on (user_id, course_id) turns a racing
		// double-enroll into a constraint error
		if isUniqueViolation(err) {
			database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existingEnrollment)
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", existingEnrollment)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}
	if batchID != nil {
		if err := tx.Model(&courseModels.Batch{}).Where("id = ?", *batchID).Update("current_students", batch.CurrentStudents+1).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
		}
	}
	tx.Commit()

	// Notification is best-effort; a failed email never rolls back the enrollment
	utils.SendEnrollmentEmail(user.Email, user.Name, course.Title)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", enrollment)
}

func GetEnrollments(c *fiber.Ctx) error {
	// Retrieve userId from JWT middleware
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	// Check if user exists
	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	// Retrieve validated filters and pagination request
	reqData, ok := c.Locals("validatedEnrollmentList").(*struct {
		Page     *int    `json:"page"`
		Limit    *int    `json:"limit"`
		CourseID *int    `json:"course_id"`
		Status   *string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Set default pagination
	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	// Fetch enrollments with filters, newest enrollment first
	db := database.Database.Db.Model(&courseModels.Enrollment{}).Where("user_id = ?", userID)
	if reqData.CourseID != nil {
		db = db.Where("course_id = ?", *reqData.CourseID)
	}
	if reqData.Status != nil {
		db = db.Where("status = ?", strings.ToUpper(*reqData.Status))
	}

	// Get total count
	var total int64
	db.Count(&total)

	// Fetch paginated data
	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	// Prepare response
	response := map[string]interface{}{
		"enrollments": enrollments,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", response)
}
