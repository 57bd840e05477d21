package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"lms/models"
	courseModels "lms/models/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// authAsInstructor fakes both the JWT middleware and RequireRole
func authAsInstructor(user models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", user.ID)
		c.Locals("authUser", user)
		return c.Next()
	}
}

func createAssignment(t *testing.T, db *gorm.DB, courseID uint, maxScore int) courseModels.Assignment {
	t.Helper()
	assignment := courseModels.Assignment{
		CourseID:    courseID,
		Title:       "Test Assignment",
		MaxScore:    maxScore,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func TestSubmitAssignment(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)
	enroll(t, db, student.ID, course.ID, 1)
	assignment := createAssignment(t, db, course.ID, 100)

	app := fiber.New()
	app.Post("/assignment/:assignmentId/submit", authAs(student.ID), validators.SubmitAssignment(), SubmitAssignment)

	url := fmt.Sprintf("/assignment/%d/submit", assignment.ID)
	code, env := doJSON(t, app, http.MethodPost, url, map[string]string{"submission_text": "my answer"})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var submission courseModels.Submission
	require.NoError(t, json.Unmarshal(env.Data, &submission))
	assert.Equal(t, courseModels.SubmissionSubmitted, submission.Status)
	assert.Nil(t, submission.Score)

	// Resubmission is rejected and returns the original record
	code, env = doJSON(t, app, http.MethodPost, url, map[string]string{"submission_text": "second try"})
	assert.Equal(t, http.StatusConflict, code)

	var existing courseModels.Submission
	require.NoError(t, json.Unmarshal(env.Data, &existing))
	assert.Equal(t, submission.ID, existing.ID)
	assert.Equal(t, "my answer", existing.SubmissionText)
}

func TestSubmitAssignmentRequiresContent(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)
	enroll(t, db, student.ID, course.ID, 1)
	assignment := createAssignment(t, db, course.ID, 100)

	app := fiber.New()
	app.Post("/assignment/:assignmentId/submit", authAs(student.ID), validators.SubmitAssignment(), SubmitAssignment)

	code, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/assignment/%d/submit", assignment.ID), map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}

func newGradeApp(instructor models.User) *fiber.App {
	app := fiber.New()
	app.Post("/submission/:submissionId/grade", authAsInstructor(instructor), validators.GradeSubmission(), GradeSubmission)
	return app
}

func TestGradeSubmission(t *testing.T) {
	db := setupTestDB(t)

	instructor := createUser(t, db, "Instructor", "teacher@test.dev", "INSTRUCTOR")
	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, instructor.ID, 1)
	enroll(t, db, student.ID, course.ID, 1)
	assignment := createAssignment(t, db, course.ID, 50)

	submission := courseModels.Submission{
		AssignmentID: assignment.ID,
		UserID:       student.ID,
		Status:       courseModels.SubmissionSubmitted,
		SubmittedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&submission).Error)

	app := newGradeApp(instructor)
	url := fmt.Sprintf("/submission/%d/grade", submission.ID)

	code, env := doJSON(t, app, http.MethodPost, url, map[string]any{"score": 42, "feedback": "Nice work"})
	require.Equal(t, http.StatusOK, code, env.Message)

	var graded courseModels.Submission
	require.NoError(t, json.Unmarshal(env.Data, &graded))
	require.NotNil(t, graded.Score)
	assert.Equal(t, 42, *graded.Score)
	assert.Equal(t, courseModels.SubmissionGraded, graded.Status)
	assert.NotNil(t, graded.GradedAt)
	assert.Equal(t, "Nice work", graded.Feedback)

	// Re-grading overwrites in place
	code, env = doJSON(t, app, http.MethodPost, url, map[string]any{"score": 30, "status": "RETURNED", "feedback": "Please revise"})
	require.Equal(t, http.StatusOK, code, env.Message)
	require.NoError(t, json.Unmarshal(env.Data, &graded))
	assert.Equal(t, 30, *graded.Score)
	assert.Equal(t, courseModels.SubmissionReturned, graded.Status)
}

func TestGradeSubmissionScoreBounds(t *testing.T) {
	db := setupTestDB(t)

	instructor := createUser(t, db, "Instructor", "teacher@test.dev", "INSTRUCTOR")
	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, instructor.ID, 1)
	enroll(t, db, student.ID, course.ID, 1)
	assignment := createAssignment(t, db, course.ID, 50)

	submission := courseModels.Submission{
		AssignmentID: assignment.ID,
		UserID:       student.ID,
		Status:       courseModels.SubmissionSubmitted,
		SubmittedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&submission).Error)

	app := newGradeApp(instructor)
	code, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/submission/%d/grade", submission.ID), map[string]any{"score": 51})
	assert.Equal(t, http.StatusUnprocessableEntity, code, "score above the assignment max is rejected")
}

func TestGradeSubmissionOwnershipChain(t *testing.T) {
	db := setupTestDB(t)

	owner := createUser(t, db, "Owner", "owner@test.dev", "INSTRUCTOR")
	other := createUser(t, db, "Other", "other@test.dev", "INSTRUCTOR")
	admin := createUser(t, db, "Admin", "admin@test.dev", "ADMIN")
	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")

	course, _ := createPublishedCourse(t, db, owner.ID, 1)
	enroll(t, db, student.ID, course.ID, 1)
	assignment := createAssignment(t, db, course.ID, 100)

	submission := courseModels.Submission{
		AssignmentID: assignment.ID,
		UserID:       student.ID,
		Status:       courseModels.SubmissionSubmitted,
		SubmittedAt:  time.Now(),
	}
	require.NoError(t, db.Create(&submission).Error)

	url := fmt.Sprintf("/submission/%d/grade", submission.ID)
	body := map[string]any{"score": 10}

	code, _ := doJSON(t, newGradeApp(other), http.MethodPost, url, body)
	assert.Equal(t, http.StatusForbidden, code, "an instructor cannot grade another instructor's course")

	code, _ = doJSON(t, newGradeApp(owner), http.MethodPost, url, body)
	assert.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, newGradeApp(admin), http.MethodPost, url, body)
	assert.Equal(t, http.StatusOK, code, "admins may grade any course")
}
