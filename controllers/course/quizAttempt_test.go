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
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func createQuiz(t *testing.T, db *gorm.DB, courseID uint, passingScore int, questions []courseModels.QuizQuestion) courseModels.Quiz {
	t.Helper()
	quiz := courseModels.Quiz{
		CourseID:     courseID,
		Title:        "Test Quiz",
		PassingScore: passingScore,
		IsPublished:  true,
	}
	require.NoError(t, db.Create(&quiz).Error)

	for i := range questions {
		questions[i].QuizID = quiz.ID
		questions[i].OrderIndex = i
		if questions[i].Options == nil {
			options, _ := json.Marshal([]string{"a", "b", "c", "d"})
			questions[i].Options = datatypes.JSON(options)
		}
		require.NoError(t, db.Create(&questions[i]).Error)
	}
	return quiz
}

func newQuizApp(userID uint) *fiber.App {
	app := fiber.New()
	app.Post("/course/:id/quiz/:quizId/submit", authAs(userID), validators.SubmitQuiz(), SubmitQuizAttempt)
	app.Get("/course/:id/quiz/:quizId/attempts", authAs(userID), validators.QuizAttempts(), GetQuizAttempts)
	return app
}

func TestSubmitQuizAttempt(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)
	enroll(t, db, student.ID, course.ID, 1)
	quiz := createQuiz(t, db, course.ID, 60, []courseModels.QuizQuestion{
		{CorrectAnswer: 0, Points: 5},
		{CorrectAnswer: 2, Points: 5},
	})

	app := newQuizApp(student.ID)
	url := fmt.Sprintf("/course/%d/quiz/%d/submit", course.ID, quiz.ID)

	code, env := doJSON(t, app, http.MethodPost, url, map[string]any{"answers": []int{0, 2}})
	require.Equal(t, http.StatusOK, code, env.Message)

	var result struct {
		Attempt   courseModels.QuizAttempt `json:"attempt"`
		IsPassed  bool                     `json:"is_passed"`
		Score     int                      `json:"score"`
		AnswerKey []AnswerKeyEntry         `json:"answer_key"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 10, result.Attempt.EarnedPoints)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.IsPassed)
	require.Len(t, result.AnswerKey, 2, "submission results reveal the answer key")
	assert.Equal(t, 0, result.AnswerKey[0].CorrectAnswer)
}

func TestSubmitQuizAttemptAnswerCountMismatch(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)
	enroll(t, db, student.ID, course.ID, 1)
	quiz := createQuiz(t, db, course.ID, 60, []courseModels.QuizQuestion{
		{CorrectAnswer: 0, Points: 5},
		{CorrectAnswer: 1, Points: 5},
	})

	app := newQuizApp(student.ID)
	code, env := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/quiz/%d/submit", course.ID, quiz.ID),
		map[string]any{"answers": []int{0}})
	assert.Equal(t, http.StatusBadRequest, code)

	var detail struct {
		Expected int `json:"expected"`
		Received int `json:"received"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, 2, detail.Expected)
	assert.Equal(t, 1, detail.Received)

	var count int64
	db.Model(&courseModels.QuizAttempt{}).Count(&count)
	assert.EqualValues(t, 0, count, "a rejected submission records no attempt")
}

func TestQuizAttemptsAreAppendOnly(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)
	enroll(t, db, student.ID, course.ID, 1)
	quiz := createQuiz(t, db, course.ID, 60, []courseModels.QuizQuestion{
		{CorrectAnswer: 0, Points: 10},
	})

	app := newQuizApp(student.ID)
	url := fmt.Sprintf("/course/%d/quiz/%d/submit", course.ID, quiz.ID)

	first := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	freezeTime(t, first)
	code, _ := doJSON(t, app, http.MethodPost, url, map[string]any{"answers": []int{1}})
	require.Equal(t, http.StatusOK, code)

	freezeTime(t, first.Add(time.Hour))
	code, _ = doJSON(t, app, http.MethodPost, url, map[string]any{"answers": []int{0}})
	require.Equal(t, http.StatusOK, code)

	var count int64
	db.Model(&courseModels.QuizAttempt{}).Where("quiz_id = ? AND user_id = ?", quiz.ID, student.ID).Count(&count)
	assert.EqualValues(t, 2, count, "every submission creates a new attempt")

	code, env := doJSON(t, app, http.MethodGet, fmt.Sprintf("/course/%d/quiz/%d/attempts", course.ID, quiz.ID), nil)
	require.Equal(t, http.StatusOK, code)

	var listing struct {
		Attempts []courseModels.QuizAttempt `json:"attempts"`
		Total    int                        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &listing))
	require.Equal(t, 2, listing.Total)
	assert.Equal(t, 100, listing.Attempts[0].Score, "newest attempt comes first")
}

func TestSubmitQuizAttemptRequiresEnrollment(t *testing.T) {
	db := setupTestDB(t)

	student := createUser(t, db, "Student", "student@test.dev", "STUDENT")
	course, _ := createPublishedCourse(t, db, 99, 1)
	quiz := createQuiz(t, db, course.ID, 60, []courseModels.QuizQuestion{
		{CorrectAnswer: 0, Points: 10},
	})

	app := newQuizApp(student.ID)
	code, _ := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/quiz/%d/submit", course.ID, quiz.ID),
		map[string]any{"answers": []int{0}})
	assert.Equal(t, http.StatusForbidden, code)
}
