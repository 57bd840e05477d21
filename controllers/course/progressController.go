package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// CourseProgressSnapshot is the derived course-level progress view
type CourseProgressSnapshot struct {
	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`
	Percentage       int `json:"percentage"`
}

// RecordLessonProgress records a visit to a lesson: accumulates time spent
// and optionally marks the lesson complete
func RecordLessonProgress(c *fiber.Ctx) error {
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

	// Retrieve validated IDs
	courseID := c.Locals("courseID").(int)
	lessonID := c.Locals("lessonID").(int)

	reqData, ok := c.Locals("validatedLessonProgress").(*struct {
		IsCompleted bool `json:"is_completed"`
		TimeSpent   int  `json:"time_spent"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check if user is enrolled in the course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, courseModels.EnrollmentEnrolled).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check the lesson belongs to the course
	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", lessonID, courseID, false, true).First(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this course!", nil)
	}

	progress, err := upsertLessonProgress(userID, uint(courseID), uint(lessonID), reqData.IsCompleted, reqData.TimeSpent)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record lesson progress!", nil)
	}

	// Roll lesson completion up into the course-level percentage
	updateEnrollmentProgress(userID, uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson progress recorded successfully!", progress)
}

// upsertLessonProgress creates or updates the single progress record per
// (user, course, lesson). Time spent accumulates across visits and never
// decreases; completed_at is set exactly once, on the first transition to
// completed.
func upsertLessonProgress(userID, courseID, lessonID uint, isCompleted bool, timeSpent int) (courseModels.LessonProgress, error) {
	db := database.Database.Db
	now := timeNow()

	var progress courseModels.LessonProgress
	if err := db.Where("user_id = ? AND course_id = ? AND lesson_id = ?", userID, courseID, lessonID).First(&progress).Error; err != nil {
		// First visit
		progress = courseModels.LessonProgress{
			UserID:         userID,
			CourseID:       courseID,
			LessonID:       lessonID,
			IsCompleted:    isCompleted,
			TimeSpent:      timeSpent,
			LastAccessedAt: now,
		}
		if isCompleted {
			progress.CompletedAt = &now
		}
		if err := db.Create(&progress).Error; err != nil {
			if isUniqueViolation(err) {
				// Lost a create race; fall through to the update path
				if err := db.Where("user_id = ? AND course_id = ? AND lesson_id = ?", userID, courseID, lessonID).First(&progress).Error; err != nil {
					return progress, err
				}
			} else {
				return progress, err
			}
		} else {
			return progress, nil
		}
	}

	// Repeat visit: accumulate time, latch completed_at on false -> true
	progress.TimeSpent += timeSpent
	if isCompleted && !progress.IsCompleted {
		progress.CompletedAt = &now
	}
	progress.IsCompleted = isCompleted
	progress.LastAccessedAt = now

	if err := db.Save(&progress).Error; err != nil {
		return progress, err
	}
	return progress, nil
}

// GetUserProgress gets the user's progress in a course
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	snapshot := computeCourseProgress(userID, uint(courseID))

	// Per-lesson records for the course view
	var lessonProgress []courseModels.LessonProgress
	database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&lessonProgress)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":      enrollment,
		"snapshot":        snapshot,
		"lesson_progress": lessonProgress,
	})
}

// computeCourseProgress derives the course completion snapshot by counting
// published lessons against completed progress records. Pure aggregation,
// no mutation.
func computeCourseProgress(userID, courseID uint) CourseProgressSnapshot {
	var totalLessons int64
	var completedLessons int64

	database.Database.Db.Model(&courseModels.Lesson{}).Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Count(&totalLessons)
	database.Database.Db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lesson_progresses.lesson_id = lessons.id").
		Where("lesson_progresses.user_id = ? AND lesson_progresses.course_id = ? AND lesson_progresses.is_completed = ? AND lessons.is_deleted = ? AND lessons.is_published = ?", userID, courseID, true, false, true).
		Count(&completedLessons)

	return CourseProgressSnapshot{
		CompletedLessons: int(completedLessons),
		TotalLessons:     int(totalLessons),
		Percentage:       roundPercentage(int(completedLessons), int(totalLessons)),
	}
}

// updateEnrollmentProgress updates the enrollment rollup after a lesson
// progress change. At 100% the enrollment transitions to COMPLETED; the
// completion timestamp is kept from the first time that happens.
func updateEnrollmentProgress(userID, courseID uint) {
	snapshot := computeCourseProgress(userID, courseID)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return
	}

	enrollment.CompletedLessons = snapshot.CompletedLessons
	enrollment.TotalLessons = snapshot.TotalLessons
	enrollment.Progress = snapshot.Percentage

	if snapshot.Percentage >= 100 && snapshot.TotalLessons > 0 && enrollment.Status == courseModels.EnrollmentEnrolled {
		enrollment.Status = courseModels.EnrollmentCompleted
		now := timeNow()
		enrollment.CompletedAt = &now

		// Completion email is best-effort
		var user models.User
		var course courseModels.Course
		if err := database.Database.Db.Where("id = ?", userID).First(&user).Error; err == nil {
			if err := database.Database.Db.Where("id = ?", courseID).First(&course).Error; err == nil {
				utils.SendCourseCompletionEmail(user.Email, user.Name, course.Title)
			}
		}
	}

	database.Database.Db.Save(&enrollment)
}
