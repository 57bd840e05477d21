package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminGetStudentProgress gets one student's progress across the instructor's courses
func AdminGetStudentProgress(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetUserID := c.Locals("targetUserID").(int)

	var targetUser models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", targetUserID, false).First(&targetUser).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	query := database.Database.Db.Where("user_id = ?", targetUserID)
	if instructor.Role != "ADMIN" {
		var courseIDs []uint
		database.Database.Db.Model(&courseModels.Course{}).
			Where("instructor_id = ? AND is_deleted = ?", instructor.ID, false).
			Pluck("id", &courseIDs)
		query = query.Where("course_id IN ?", courseIDs)
	}

	var enrollments []courseModels.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	type CourseProgress struct {
		CourseID         uint       `json:"course_id"`
		CourseName       string     `json:"course_name"`
		Status           string     `json:"status"`
		Progress         int        `json:"progress"`
		CompletedLessons int        `json:"completed_lessons"`
		TotalLessons     int        `json:"total_lessons"`
		EnrolledAt       time.Time  `json:"enrolled_at"`
		CompletedAt      *time.Time `json:"completed_at"`
	}

	courseProgress := make([]CourseProgress, len(enrollments))
	for i, e := range enrollments {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		courseProgress[i] = CourseProgress{
			CourseID:         e.CourseID,
			CourseName:       course.Title,
			Status:           e.Status,
			Progress:         e.Progress,
			CompletedLessons: e.CompletedLessons,
			TotalLessons:     e.TotalLessons,
			EnrolledAt:       e.EnrolledAt,
			CompletedAt:      e.CompletedAt,
		}
	}

	// Quiz attempts summary for the same course set
	var attempts []courseModels.QuizAttempt
	attemptQuery := database.Database.Db.Where("user_id = ?", targetUserID)
	if instructor.Role != "ADMIN" {
		attemptQuery = attemptQuery.
			Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
			Joins("JOIN courses ON courses.id = quizzes.course_id").
			Where("courses.instructor_id = ?", instructor.ID)
	}
	attemptQuery.Find(&attempts)

	totalAttempts := len(attempts)
	passedAttempts := 0
	for _, attempt := range attempts {
		if attempt.IsPassed {
			passedAttempts++
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Student progress fetched successfully!", fiber.Map{
		"student": fiber.Map{
			"id":    targetUser.ID,
			"name":  targetUser.Name,
			"email": targetUser.Email,
		},
		"course_progress": courseProgress,
		"quiz_summary": fiber.Map{
			"total_attempts":  totalAttempts,
			"passed_attempts": passedAttempts,
		},
	})
}

// AdminDashboardStats gets aggregate stats for the instructor's courses
func AdminDashboardStats(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseScope := func(db *gorm.DB) *gorm.DB { return db }
	if instructor.Role != "ADMIN" {
		var courseIDs []uint
		database.Database.Db.Model(&courseModels.Course{}).
			Where("instructor_id = ? AND is_deleted = ?", instructor.ID, false).
			Pluck("id", &courseIDs)
		courseScope = func(db *gorm.DB) *gorm.DB { return db.Where("course_id IN ?", courseIDs) }
	}

	var totalCourses, publishedCourses, totalEnrollments, completedEnrollments int64
	var ungradedSubmissions, pendingCertificates int64

	courseQuery := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if instructor.Role != "ADMIN" {
		courseQuery = courseQuery.Where("instructor_id = ?", instructor.ID)
	}
	courseQuery.Count(&totalCourses)

	publishedQuery := database.Database.Db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true)
	if instructor.Role != "ADMIN" {
		publishedQuery = publishedQuery.Where("instructor_id = ?", instructor.ID)
	}
	publishedQuery.Count(&publishedCourses)

	database.Database.Db.Model(&courseModels.Enrollment{}).Scopes(courseScope).Count(&totalEnrollments)
	database.Database.Db.Model(&courseModels.Enrollment{}).Scopes(courseScope).
		Where("status = ?", courseModels.EnrollmentCompleted).Count(&completedEnrollments)

	submissionQuery := database.Database.Db.Model(&courseModels.Submission{}).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.status = ?", courseModels.SubmissionSubmitted)
	if instructor.Role != "ADMIN" {
		submissionQuery = submissionQuery.
			Joins("JOIN courses ON courses.id = assignments.course_id").
			Where("courses.instructor_id = ?", instructor.ID)
	}
	submissionQuery.Count(&ungradedSubmissions)

	database.Database.Db.Model(&courseModels.CertificateRequest{}).Scopes(courseScope).
		Where("status = ? AND is_deleted = ?", "PENDING", false).Count(&pendingCertificates)

	// Recent enrollments for the same course set
	type RecentEnrollment struct {
		UserName   string    `json:"user_name"`
		CourseName string    `json:"course_name"`
		EnrolledAt time.Time `json:"enrolled_at"`
	}

	var recentEnrollments []courseModels.Enrollment
	database.Database.Db.Scopes(courseScope).Order("enrolled_at desc").Limit(5).Find(&recentEnrollments)

	recent := make([]RecentEnrollment, len(recentEnrollments))
	for i, e := range recentEnrollments {
		var enrolledUser models.User
		var course courseModels.Course
		database.Database.Db.Where("id = ?", e.UserID).First(&enrolledUser)
		database.Database.Db.Where("id = ?", e.CourseID).First(&course)
		recent[i] = RecentEnrollment{
			UserName:   enrolledUser.Name,
			CourseName: course.Title,
			EnrolledAt: e.EnrolledAt,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", fiber.Map{
		"stats": fiber.Map{
			"total_courses":         totalCourses,
			"published_courses":     publishedCourses,
			"total_enrollments":     totalEnrollments,
			"completed_enrollments": completedEnrollments,
			"ungraded_submissions":  ungradedSubmissions,
			"pending_certificates":  pendingCertificates,
		},
		"recent_enrollments": recent,
	})
}
