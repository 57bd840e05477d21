package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// RecordProgress validates a lesson progress update request
func RecordProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		lessonID, ok := parseIDParam(c, "lessonId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(struct {
			IsCompleted bool `json:"is_completed"`
			TimeSpent   int  `json:"time_spent"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.TimeSpent < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"time_spent": "Time spent cannot be negative!",
			})
		}

		c.Locals("courseID", courseID)
		c.Locals("lessonID", lessonID)
		c.Locals("validatedLessonProgress", reqData)
		return c.Next()
	}
}

// GetCourseProgress validates the course ID param
func GetCourseProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}
