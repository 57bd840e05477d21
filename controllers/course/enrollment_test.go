package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	courseModels "lms/models/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authAs fakes the JWT middleware for a known user
func authAs(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userId", userID)
		return c.Next()
	}
}

func newEnrollApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Post("/course/:id/enroll", authAs(userID), validators.EnrollCourse(), EnrollInCourse)
	return app
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, app *fiber.App, method, url string, body any) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestEnrollInCourse(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 3)
	app := newEnrollApp(student.ID)

	code, env := doJSON(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", course.ID), nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	var enrollment courseModels.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &enrollment))
	assert.Equal(t, student.ID, enrollment.UserID)
	assert.Equal(t, courseModels.EnrollmentEnrolled, enrollment.Status)
	assert.Equal(t, 3, enrollment.TotalLessons, "published lesson count is snapshotted at enroll time")
}

func TestEnrollInCourseTwiceReturnsExisting(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)
	app := newEnrollApp(student.ID)

	url := fmt.Sprintf("/course/%d/enroll", course.ID)
	code, env := doJSON(t, app, http.MethodPost, url, nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	var first courseModels.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &first))

	code, env = doJSON(t, app, http.MethodPost, url, nil)
	assert.Equal(t, http.StatusConflict, code)

	var second courseModels.Enrollment
	require.NoError(t, json.Unmarshal(env.Data, &second))
	assert.Equal(t, first.ID, second.ID, "the conflict response carries the existing enrollment")

	var count int64
	db.Model(&courseModels.Enrollment{}).Where("user_id = ? AND course_id = ?", student.ID, course.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEnrollInUnpublishedCourse(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course := courseModels.Course{InstructorID: 99, Title: "Draft", Status: "DRAFT"}
	require.NoError(t, db.Create(&course).Error)

	app := newEnrollApp(student.ID)
	code, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/course/%d/enroll", course.ID), nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEnrollWithBatchCapacity(t *testing.T) {
	db := setupTestDB(t)

	alice := createUser(t, db, "Alice", "alice@test.dev", "STUDENT")
	bob := createUser(t, db, "Bob", "bob@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)

	start := time.Now().AddDate(0, 0, 7)
	batch := courseModels.Batch{
		CourseID:    course.ID,
		Name:        "Tiny Cohort",
		StartDate:   start,
		EndDate:     start.AddDate(0, 1, 0),
		MaxStudents: 1,
		Status:      courseModels.BatchUpcoming,
	}
	require.NoError(t, db.Create(&batch).Error)

	url := fmt.Sprintf("/course/%d/enroll", course.ID)
	body := map[string]uint{"batch_id": batch.ID}

	code, env := doJSON(t, newEnrollApp(alice.ID), http.MethodPost, url, body)
	require.Equal(t, http.StatusOK, code, env.Message)

	var stored courseModels.Batch
	require.NoError(t, db.First(&stored, batch.ID).Error)
	assert.Equal(t, 1, stored.CurrentStudents)

	code, env = doJSON(t, newEnrollApp(bob.ID), http.MethodPost, url, body)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Batch is full!", env.Message)
}

func TestEnrollWithUnknownBatch(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)

	code, _ := doJSON(t, newEnrollApp(student.ID), http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), map[string]uint{"batch_id": 12345})
	assert.Equal(t, http.StatusNotFound, code)
}
