package controllers

import (
	"errors"
	"math"
	"strings"
	"time"

	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// timeNow is swapped out in tests
var timeNow = time.Now

// isUniqueViolation reports whether err is a storage-level uniqueness
// constraint error. The unique indexes on enrollments, lesson progress and
// submissions are the only concurrency control for check-then-create races.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

// roundPercentage converts a completed/total ratio to an integer percentage.
// All percentages in API responses are integers, never fractional.
func roundPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// instructorFromContext retrieves the user loaded by the RequireRole middleware
func instructorFromContext(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("authUser").(models.User)
	return user, ok
}

// ownsCourse reports whether the user may manage the course. Admins may
// manage any course; instructors only their own.
func ownsCourse(user models.User, course courseModels.Course) bool {
	if user.Role == "ADMIN" {
		return true
	}
	return course.InstructorID == user.ID
}
