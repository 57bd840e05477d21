package controllers

import (
	"encoding/json"

	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// QuestionView is a question as shown to students: the correct answer is
// stripped. Listing views never reveal the answer key; only submission
// results do.
type QuestionView struct {
	ID           uint     `json:"id"`
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
	Points       int      `json:"points"`
	OrderIndex   int      `json:"order_index"`
}

// AnswerKeyEntry is revealed per question in submission results so the
// client can render a review screen
type AnswerKeyEntry struct {
	QuestionID    uint `json:"question_id"`
	CorrectAnswer int  `json:"correct_answer"`
	Points        int  `json:"points"`
}

// GetCourseQuizzes lists published quizzes of a course without answer keys
func GetCourseQuizzes(c *fiber.Ctx) error {
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

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	type QuizWithQuestions struct {
		courseModels.Quiz
		Questions []QuestionView `json:"questions"`
	}

	result := make([]QuizWithQuestions, len(quizzes))
	for i, quiz := range quizzes {
		var questions []courseModels.QuizQuestion
		database.Database.Db.Where("quiz_id = ?", quiz.ID).Order("order_index asc").Find(&questions)

		result[i] = QuizWithQuestions{Quiz: quiz, Questions: stripAnswerKey(questions)}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", fiber.Map{
		"quizzes": result,
	})
}

// stripAnswerKey converts questions to the student view without correct answers
func stripAnswerKey(questions []courseModels.QuizQuestion) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		var options []string
		json.Unmarshal(q.Options, &options)
		views[i] = QuestionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			Options:      options,
			Points:       q.Points,
			OrderIndex:   q.OrderIndex,
		}
	}
	return views
}

// scoreQuiz grades a positional answer set against the question list.
// A zero-point question can be answered correctly but contributes nothing
// to either sum; a quiz of only zero-point questions scores 0.
func scoreQuiz(questions []courseModels.QuizQuestion, answers []int) (earnedPoints, totalPoints, percentage int) {
	for i, q := range questions {
		totalPoints += q.Points
		if answers[i] == q.CorrectAnswer {
			earnedPoints += q.Points
		}
	}
	percentage = roundPercentage(earnedPoints, totalPoints)
	return earnedPoints, totalPoints, percentage
}

// SubmitQuizAttempt scores a submitted answer set and records an immutable attempt
func SubmitQuizAttempt(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	reqData, ok := c.Locals("validatedQuizAttempt").(*struct {
		Answers []int `json:"answers"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Check enrollment. Completed students can still retake quizzes.
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Check quiz exists and is published
	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ? AND is_published = ?", quizID, courseID, false, true).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var questions []courseModels.QuizQuestion
	database.Database.Db.Where("quiz_id = ?", quiz.ID).Order("order_index asc").Find(&questions)

	// One answer slot per question index, by position
	if len(reqData.Answers) != len(questions) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer count does not match question count!", fiber.Map{
			"expected": len(questions),
			"received": len(reqData.Answers),
		})
	}

	earnedPoints, totalPoints, percentage := scoreQuiz(questions, reqData.Answers)
	isPassed := percentage >= quiz.PassingScore

	answersJSON, _ := json.Marshal(reqData.Answers)
	now := timeNow()

	// Attempts are append-only; every submission creates a new record. The
	// server does not track elapsed time: the quiz time limit is enforced
	// client-side only.
	attempt := courseModels.QuizAttempt{
		QuizID:       quiz.ID,
		UserID:       userID,
		Answers:      datatypes.JSON(answersJSON),
		EarnedPoints: earnedPoints,
		TotalPoints:  totalPoints,
		Score:        percentage,
		IsPassed:     isPassed,
		StartedAt:    now,
		CompletedAt:  now,
	}

	if err := database.Database.Db.Create(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz attempt!", nil)
	}

	// Reveal the answer key in the result so the client can render a review screen
	answerKey := make([]AnswerKeyEntry, len(questions))
	for i, q := range questions {
		answerKey[i] = AnswerKeyEntry{QuestionID: q.ID, CorrectAnswer: q.CorrectAnswer, Points: q.Points}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempt submitted!", fiber.Map{
		"attempt":    attempt,
		"answer_key": answerKey,
		"is_passed":  isPassed,
		"score":      percentage,
	})
}

// GetQuizAttempts lists the user's attempts for a quiz, newest first;
// the latest attempt is the first element
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", quizID, courseID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var attempts []courseModels.QuizAttempt
	if err := database.Database.Db.Where("quiz_id = ? AND user_id = ?", quiz.ID, userID).Order("completed_at desc").Find(&attempts).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz attempts!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempts fetched successfully!", fiber.Map{
		"attempts": attempts,
		"total":    len(attempts),
	})
}
