package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
)

// GetCourseAssignments lists published assignments of a course with the
// user's own submission state
func GetCourseAssignments(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	// Check enrollment
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var assignments []courseModels.Assignment
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Order("due_date asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	type AssignmentWithSubmission struct {
		courseModels.Assignment
		Submission *courseModels.Submission `json:"submission,omitempty"`
	}

	result := make([]AssignmentWithSubmission, len(assignments))
	for i, assignment := range assignments {
		result[i] = AssignmentWithSubmission{Assignment: assignment}

		var submission courseModels.Submission
		if err := database.Database.Db.Where("assignment_id = ? AND user_id = ?", assignment.ID, userID).First(&submission).Error; err == nil {
			result[i].Submission = &submission
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", fiber.Map{
		"assignments": result,
	})
}

// SubmitAssignment creates a submission for an assignment. Resubmission is
// rejected, not overwritten; the existing record is returned with the conflict.
func SubmitAssignment(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	reqData, ok := c.Locals("validatedSubmission").(*struct {
		SubmissionText string `json:"submission_text"`
		SubmissionURL  string `json:"submission_url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check assignment exists and is published
	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", assignmentID, false, true).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	// Check enrollment in the assignment's course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND status = ?", userID, assignment.CourseID, courseModels.EnrollmentEnrolled).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check for an existing submission; return it alongside the conflict
	var existingSubmission courseModels.Submission
	if err := database.Database.Db.Where("assignment_id = ? AND user_id = ?", assignmentID, userID).First(&existingSubmission).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assignment already submitted!", existingSubmission)
	}

	submission := courseModels.Submission{
		AssignmentID:   uint(assignmentID),
		UserID:         userID,
		SubmissionText: reqData.SubmissionText,
		SubmissionURL:  reqData.SubmissionURL,
		Status:         courseModels.SubmissionSubmitted,
		SubmittedAt:    timeNow(),
	}

	if err := database.Database.Db.Create(&submission).Error; err != nil {
		// The unique index on (assignment_id, user_id) catches a racing
		// double-submit
		if isUniqueViolation(err) {
			database.Database.Db.Where("assignment_id = ? AND user_id = ?", assignmentID, userID).First(&existingSubmission)
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Assignment already submitted!", existingSubmission)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", submission)
}

// GradeSubmission grades (or re-grades) a submission. The ownership chain
// submission -> assignment -> course -> instructor is checked at every level.
func GradeSubmission(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	submissionID := c.Locals("submissionID").(int)

	reqData, ok := c.Locals("validatedGrade").(*struct {
		Score    int    `json:"score"`
		Feedback string `json:"feedback"`
		Status   string `json:"status"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var submission courseModels.Submission
	if err := database.Database.Db.Where("id = ?", submissionID).First(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
	}

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", submission.AssignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !ownsCourse(instructor, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	// Score is bounded by the assignment's maximum
	if reqData.Score < 0 || reqData.Score > assignment.MaxScore {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"score": "Score must be between 0 and the assignment max score!",
		})
	}

	// Status is a label set by the grader, not a guarded state machine
	status := reqData.Status
	if status == "" {
		status = courseModels.SubmissionGraded
	}

	// Re-grading overwrites in place; no grading history is kept
	score := reqData.Score
	now := timeNow()
	submission.Score = &score
	submission.Feedback = reqData.Feedback
	submission.Status = status
	submission.GradedAt = &now

	if err := database.Database.Db.Save(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	// Notify the student; failure never affects the grade
	var student models.User
	if err := database.Database.Db.Where("id = ?", submission.UserID).First(&student).Error; err == nil {
		utils.SendAssignmentGradedEmail(student.Email, student.Name, assignment.Title, reqData.Score, assignment.MaxScore)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}

// GetAssignmentSubmissions lists all submissions for an assignment (instructor view)
func GetAssignmentSubmissions(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignmentID, false).First(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", assignment.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !ownsCourse(instructor, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	type SubmissionWithStudent struct {
		courseModels.Submission
		StudentName  string `json:"student_name"`
		StudentEmail string `json:"student_email"`
	}

	var submissions []courseModels.Submission
	if err := database.Database.Db.Where("assignment_id = ?", assignmentID).Order("submitted_at desc").Find(&submissions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
	}

	result := make([]SubmissionWithStudent, len(submissions))
	for i, s := range submissions {
		result[i] = SubmissionWithStudent{Submission: s}

		var student models.User
		if err := database.Database.Db.Where("id = ?", s.UserID).First(&student).Error; err == nil {
			result[i].StudentName = student.Name
			result[i].StudentEmail = student.Email
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submissions fetched successfully!", fiber.Map{
		"submissions": result,
		"total":       len(result),
	})
}
