package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// EnrollCourse validates the enroll request and its optional batch
func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			BatchID *uint `json:"batch_id"`
		})
		// Body is optional; enrolling without a batch is valid
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		if reqData.BatchID != nil && *reqData.BatchID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"batch_id": "Batch ID must be greater than 0!",
			})
		}

		c.Locals("courseID", courseID)
		c.Locals("batchID", reqData.BatchID)
		return c.Next()
	}
}

// GetUserEnrollments validates the enrollment listing query params
func GetUserEnrollments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page     *int    `json:"page"`
			Limit    *int    `json:"limit"`
			CourseID *int    `json:"course_id"`
			Status   *string `json:"status"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if reqData.CourseID != nil && *reqData.CourseID < 1 {
			errors["course_id"] = "Course ID must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedEnrollmentList", reqData)
		return c.Next()
	}
}
