package courseValidator

import (
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// CourseAssignments validates the course ID param for assignment listing
func CourseAssignments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseIDParam(c, "id")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

// SubmitAssignment validates an assignment submission request
func SubmitAssignment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignmentID, ok := parseIDParam(c, "assignmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Assignment ID!", nil)
		}

		reqData := new(struct {
			SubmissionText string `json:"submission_text"`
			SubmissionURL  string `json:"submission_url"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.SubmissionText = strings.TrimSpace(reqData.SubmissionText)
		reqData.SubmissionURL = strings.TrimSpace(reqData.SubmissionURL)

		if reqData.SubmissionText == "" && reqData.SubmissionURL == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"submission": "Either submission text or a submission URL is required!",
			})
		}

		c.Locals("assignmentID", assignmentID)
		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}

// GradeSubmission validates a grading request
func GradeSubmission() fiber.Handler {
	return func(c *fiber.Ctx) error {
		submissionID, ok := parseIDParam(c, "submissionId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Submission ID!", nil)
		}

		reqData := new(struct {
			Score    int    `json:"score"`
			Feedback string `json:"feedback"`
			Status   string `json:"status"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Upper bound depends on the assignment's max score, checked later
		if reqData.Score < 0 {
			errors["score"] = "Score cannot be negative!"
		}

		if reqData.Status != "" {
			validStatuses := map[string]bool{"GRADED": true, "RETURNED": true}
			if !validStatuses[strings.ToUpper(reqData.Status)] {
				errors["status"] = "Status must be GRADED or RETURNED!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("submissionID", submissionID)
		c.Locals("validatedGrade", reqData)
		return c.Next()
	}
}

// AssignmentSubmissions validates the assignment ID param
func AssignmentSubmissions() fiber.Handler {
	return func(c *fiber.Ctx) error {
		assignmentID, ok := parseIDParam(c, "assignmentId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Assignment ID!", nil)
		}

		c.Locals("assignmentID", assignmentID)
		return c.Next()
	}
}
