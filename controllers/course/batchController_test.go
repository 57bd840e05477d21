package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	courseModels "lms/models/course"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCourseBatchesRecomputesStaleStatus(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)

	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	freezeTime(t, now)

	// Stored status says UPCOMING but the dates say the batch is running
	stale := courseModels.Batch{
		CourseID:  course.ID,
		Name:      "Stale Cohort",
		StartDate: now.AddDate(0, 0, -1),
		EndDate:   now.AddDate(0, 1, 0),
		Status:    courseModels.BatchUpcoming,
	}
	require.NoError(t, db.Create(&stale).Error)

	app := fiber.New()
	app.Get("/course/:id/batches", authAs(student.ID), validators.CourseBatches(), GetCourseBatches)

	code, env := doJSON(t, app, http.MethodGet, fmt.Sprintf("/course/%d/batches", course.ID), nil)
	require.Equal(t, http.StatusOK, code, env.Message)

	var listing struct {
		Batches []courseModels.Batch `json:"batches"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Len(t, listing.Batches, 1)
	assert.Equal(t, courseModels.BatchOngoing, listing.Batches[0].Status)

	// The recomputed status is written back
	var stored courseModels.Batch
	require.NoError(t, db.First(&stored, stale.ID).Error)
	assert.Equal(t, courseModels.BatchOngoing, stored.Status)
}

func TestAdminDeleteBatchBlockedByEnrollments(t *testing.T) {
	db := setupTestDB(t)

	instructor := createUser(t, db, "Instructor", "teacher@test.dev", "INSTRUCTOR")
	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, instructor.ID, 1)

	now := time.Now()
	batch := courseModels.Batch{
		CourseID:  course.ID,
		Name:      "Busy Cohort",
		StartDate: now,
		EndDate:   now.AddDate(0, 1, 0),
		Status:    courseModels.BatchOngoing,
	}
	require.NoError(t, db.Create(&batch).Error)

	enrollment := enroll(t, db, student.ID, course.ID, 1)
	require.NoError(t, db.Model(&enrollment).Update("batch_id", batch.ID).Error)

	app := fiber.New()
	app.Delete("/admin/batch/:batchId", authAsInstructor(instructor), validators.DeleteBatch(), AdminDeleteBatch)

	code, _ := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/admin/batch/%d", batch.ID), nil)
	assert.Equal(t, http.StatusConflict, code)

	var stored courseModels.Batch
	require.NoError(t, db.First(&stored, batch.ID).Error)
	assert.False(t, stored.IsDeleted)
}
