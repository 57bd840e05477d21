package courseValidator

import (
	"strings"
	"time"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CourseBatches validates the course ID param for batch listing
func CourseBatches() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// CreateBatch validates a batch creation request
func CreateBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		reqData := new(struct {
			Name        string    `json:"name"`
			StartDate   time.Time `json:"start_date"`
			EndDate     time.Time `json:"end_date"`
			MaxStudents int       `json:"max_students"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		reqData.Name = strings.TrimSpace(reqData.Name)
		if reqData.Name == "" {
			errors["name"] = "Name is required!"
		}

		if reqData.StartDate.IsZero() {
			errors["start_date"] = "Start date is required!"
		}
		if reqData.EndDate.IsZero() {
			errors["end_date"] = "End date is required!"
		} else if !reqData.EndDate.After(reqData.StartDate) {
			errors["end_date"] = "End date must be after start date!"
		}

		if reqData.MaxStudents < 0 {
			errors["max_students"] = "Max students cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("courseID", courseID)
		c.Locals("validatedBatch", reqData)
		return c.Next()
	}
}

// UpdateBatch validates a batch update request
func UpdateBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batchID, ok := parseIDParam(c, "batchId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Batch ID!", nil)
		}

		reqData := new(struct {
			Name        string     `json:"name"`
			StartDate   *time.Time `json:"start_date"`
			EndDate     *time.Time `json:"end_date"`
			MaxStudents *int       `json:"max_students"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// When both dates are supplied the pair must still form a valid range;
		// a single-sided change is checked against the stored batch later
		if reqData.StartDate != nil && reqData.EndDate != nil && !reqData.EndDate.After(*reqData.StartDate) {
			errors["end_date"] = "End date must be after start date!"
		}

		if reqData.MaxStudents != nil && *reqData.MaxStudents < 0 {
			errors["max_students"] = "Max students cannot be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("batchID", batchID)
		c.Locals("validatedBatchUpdate", reqData)
		return c.Next()
	}
}

// DeleteBatch validates the batch ID param
func DeleteBatch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batchID, ok := parseIDParam(c, "batchId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Batch ID!", nil)
		}

		c.Locals("batchID", batchID)
		return c.Next()
	}
}
