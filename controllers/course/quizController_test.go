package controllers

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
)

func question(correct, points int) courseModels.QuizQuestion {
	return courseModels.QuizQuestion{CorrectAnswer: correct, Points: points}
}

func TestScoreQuiz(t *testing.T) {
	t.Run("all correct", func(t *testing.T) {
		questions := []courseModels.QuizQuestion{question(0, 5), question(1, 5), question(2, 10)}
		earned, total, pct := scoreQuiz(questions, []int{0, 1, 2})
		assert.Equal(t, 20, earned)
		assert.Equal(t, 20, total)
		assert.Equal(t, 100, pct)
	})

	t.Run("all wrong", func(t *testing.T) {
		questions := []courseModels.QuizQuestion{question(0, 5), question(1, 5)}
		earned, total, pct := scoreQuiz(questions, []int{3, 3})
		assert.Equal(t, 0, earned)
		assert.Equal(t, 10, total)
		assert.Equal(t, 0, pct)
	})

	t.Run("weighted partial credit", func(t *testing.T) {
		// The 10-point question dominates the percentage
		questions := []courseModels.QuizQuestion{question(0, 2), question(0, 10)}
		earned, total, pct := scoreQuiz(questions, []int{1, 0})
		assert.Equal(t, 10, earned)
		assert.Equal(t, 12, total)
		assert.Equal(t, 83, pct)
	})

	t.Run("zero point question contributes nothing", func(t *testing.T) {
		questions := []courseModels.QuizQuestion{question(0, 0), question(0, 5)}
		earned, total, pct := scoreQuiz(questions, []int{0, 1})
		assert.Equal(t, 0, earned)
		assert.Equal(t, 5, total)
		assert.Equal(t, 0, pct)
	})

	t.Run("quiz of only zero point questions scores zero", func(t *testing.T) {
		questions := []courseModels.QuizQuestion{question(0, 0), question(1, 0)}
		earned, total, pct := scoreQuiz(questions, []int{0, 1})
		assert.Equal(t, 0, earned)
		assert.Equal(t, 0, total)
		assert.Equal(t, 0, pct)
	})

	t.Run("empty quiz", func(t *testing.T) {
		earned, total, pct := scoreQuiz(nil, nil)
		assert.Equal(t, 0, earned)
		assert.Equal(t, 0, total)
		assert.Equal(t, 0, pct)
	})

	t.Run("percentage rounds to nearest integer", func(t *testing.T) {
		questions := []courseModels.QuizQuestion{question(0, 1), question(0, 1), question(0, 1)}
		earned, total, pct := scoreQuiz(questions, []int{0, 0, 9})
		assert.Equal(t, 2, earned)
		assert.Equal(t, 3, total)
		assert.Equal(t, 67, pct)
	})
}
