package controllers

import (
	"testing"
	"time"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertLessonProgressAccumulatesTime(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, lessons := createPublishedCourse(t, db, 99, 2)
	enroll(t, db, student.ID, course.ID, 2)

	first, err := upsertLessonProgress(student.ID, course.ID, lessons[0].ID, false, 30)
	require.NoError(t, err)
	assert.Equal(t, 30, first.TimeSpent)
	assert.False(t, first.IsCompleted)
	assert.Nil(t, first.CompletedAt)

	second, err := upsertLessonProgress(student.ID, course.ID, lessons[0].ID, false, 15)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "repeat visits must update the same record")
	assert.Equal(t, 45, second.TimeSpent)

	var count int64
	db.Model(&courseModels.LessonProgress{}).Where("user_id = ? AND lesson_id = ?", student.ID, lessons[0].ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpsertLessonProgressCompletionLatch(t *testing.T) {
	db := setupTestDB(t)

	completedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	freezeTime(t, completedAt)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, lessons := createPublishedCourse(t, db, 99, 1)
	enroll(t, db, student.ID, course.ID, 1)

	progress, err := upsertLessonProgress(student.ID, course.ID, lessons[0].ID, true, 10)
	require.NoError(t, err)
	require.NotNil(t, progress.CompletedAt)
	assert.True(t, progress.CompletedAt.Equal(completedAt))

	// A later completed visit must not move the timestamp
	freezeTime(t, completedAt.Add(48*time.Hour))
	progress, err = upsertLessonProgress(student.ID, course.ID, lessons[0].ID, true, 5)
	require.NoError(t, err)
	require.NotNil(t, progress.CompletedAt)
	assert.True(t, progress.CompletedAt.Equal(completedAt), "completed_at is set once and never moved")
	assert.Equal(t, 15, progress.TimeSpent)
}

func TestUpdateEnrollmentProgressRollsUpToCompleted(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, lessons := createPublishedCourse(t, db, 99, 2)
	enroll(t, db, student.ID, course.ID, 2)

	_, err := upsertLessonProgress(student.ID, course.ID, lessons[0].ID, true, 10)
	require.NoError(t, err)
	updateEnrollmentProgress(student.ID, course.ID)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 50, enrollment.Progress)
	assert.Equal(t, 1, enrollment.CompletedLessons)
	assert.Equal(t, courseModels.EnrollmentEnrolled, enrollment.Status)
	assert.Nil(t, enrollment.CompletedAt)

	_, err = upsertLessonProgress(student.ID, course.ID, lessons[1].ID, true, 10)
	require.NoError(t, err)
	updateEnrollmentProgress(student.ID, course.ID)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 100, enrollment.Progress)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
}

func TestUpdateEnrollmentProgressKeepsCompletedStatus(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, lessons := createPublishedCourse(t, db, 99, 1)
	enroll(t, db, student.ID, course.ID, 1)

	_, err := upsertLessonProgress(student.ID, course.ID, lessons[0].ID, true, 10)
	require.NoError(t, err)
	updateEnrollmentProgress(student.ID, course.ID)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	require.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	firstCompletedAt := enrollment.CompletedAt

	// Un-completing the lesson recomputes the rollup but never demotes the
	// enrollment or clears its completion timestamp
	_, err = upsertLessonProgress(student.ID, course.ID, lessons[0].ID, false, 0)
	require.NoError(t, err)
	updateEnrollmentProgress(student.ID, course.ID)

	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&enrollment).Error)
	assert.Equal(t, 0, enrollment.Progress)
	assert.Equal(t, courseModels.EnrollmentCompleted, enrollment.Status)
	assert.NotNil(t, enrollment.CompletedAt)
	assert.True(t, enrollment.CompletedAt.Equal(*firstCompletedAt))
}

func TestComputeCourseProgressCountsOnlyPublishedLessons(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, lessons := createPublishedCourse(t, db, 99, 2)
	enroll(t, db, student.ID, course.ID, 2)

	draft := courseModels.Lesson{CourseID: course.ID, Title: "Draft Lesson", ContentType: "TEXT", OrderIndex: 2}
	require.NoError(t, db.Create(&draft).Error)

	_, err := upsertLessonProgress(student.ID, course.ID, lessons[0].ID, true, 10)
	require.NoError(t, err)

	snapshot := computeCourseProgress(student.ID, course.ID)
	assert.Equal(t, 2, snapshot.TotalLessons, "draft lessons are out of the denominator")
	assert.Equal(t, 1, snapshot.CompletedLessons)
	assert.Equal(t, 50, snapshot.Percentage)
}

func TestComputeCourseProgressEmptyCourse(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 0)
	enroll(t, db, student.ID, course.ID, 0)

	snapshot := computeCourseProgress(student.ID, course.ID)
	assert.Equal(t, 0, snapshot.TotalLessons)
	assert.Equal(t, 0, snapshot.Percentage, "a course with no lessons is 0%, not 100%")
}
