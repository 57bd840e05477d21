package controllers

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminCreateQuiz creates a quiz with its ordered question set
func AdminCreateQuiz(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !ownsCourse(instructor, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData := new(struct {
		Title        string `json:"title"`
		Description  string `json:"description"`
		LessonID     *uint  `json:"lesson_id"`
		TimeLimit    *int   `json:"time_limit"`
		PassingScore int    `json:"passing_score"`
		Questions    []struct {
			QuestionText  string   `json:"question_text"`
			Options       []string `json:"options"`
			CorrectAnswer int      `json:"correct_answer"`
			Points        int      `json:"points"`
		} `json:"questions"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	errors := make(map[string]string)
	if strings.TrimSpace(reqData.Title) == "" {
		errors["title"] = "Title is required!"
	}
	if reqData.PassingScore < 0 || reqData.PassingScore > 100 {
		errors["passing_score"] = "Passing score must be between 0 and 100!"
	}
	if reqData.TimeLimit != nil && *reqData.TimeLimit <= 0 {
		errors["time_limit"] = "Time limit must be greater than 0!"
	}
	if len(reqData.Questions) == 0 {
		errors["questions"] = "At least one question is required!"
	}
	for i, q := range reqData.Questions {
		if strings.TrimSpace(q.QuestionText) == "" {
			errors["questions"] = fmt.Sprintf("Question %d has no text!", i+1)
		}
		if len(q.Options) < 2 || len(q.Options) > 6 {
			errors["questions"] = fmt.Sprintf("Question %d must have between 2 and 6 options!", i+1)
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			errors["questions"] = fmt.Sprintf("Question %d has an invalid correct answer index!", i+1)
		}
		if q.Points < 0 {
			errors["questions"] = fmt.Sprintf("Question %d has negative points!", i+1)
		}
	}
	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	// Optional lesson must belong to the course
	if reqData.LessonID != nil {
		var lesson courseModels.Lesson
		if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", *reqData.LessonID, courseID, false).First(&lesson).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this course!", nil)
		}
	}

	quiz := courseModels.Quiz{
		CourseID:     uint(courseID),
		LessonID:     reqData.LessonID,
		Title:        reqData.Title,
		Description:  reqData.Description,
		TimeLimit:    reqData.TimeLimit,
		PassingScore: reqData.PassingScore,
	}

	tx := database.Database.Db.Begin()
	if err := tx.Create(&quiz).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	questions := make([]courseModels.QuizQuestion, len(reqData.Questions))
	for i, q := range reqData.Questions {
		optionsJSON, _ := json.Marshal(q.Options)
		questions[i] = courseModels.QuizQuestion{
			QuizID:        quiz.ID,
			QuestionText:  q.QuestionText,
			Options:       datatypes.JSON(optionsJSON),
			CorrectAnswer: q.CorrectAnswer,
			Points:        q.Points,
			OrderIndex:    i,
		}
	}
	if err := tx.Create(&questions).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz questions!", nil)
	}
	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", fiber.Map{
		"quiz":      quiz,
		"questions": len(questions),
	})
}

// AdminPublishQuiz publishes a quiz
func AdminPublishQuiz(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quiz.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !ownsCourse(instructor, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	quiz.IsPublished = true
	if err := database.Database.Db.Save(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz published successfully!", quiz)
}

// AdminCreateAssignment creates an assignment for a course
func AdminCreateAssignment(c *fiber.Ctx) error {
	instructor, ok := instructorFromContext(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !ownsCourse(instructor, course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not own this course!", nil)
	}

	reqData, ok := c.Locals("validatedAssignment").(*struct {
		Title        string     `json:"title"`
		Instructions string     `json:"instructions"`
		LessonID     *uint      `json:"lesson_id"`
		DueDate      *time.Time `json:"due_date"`
		MaxScore     int        `json:"max_score"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.LessonID != nil {
		var lesson courseModels.Lesson
		if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", *reqData.LessonID, courseID, false).First(&lesson).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this course!", nil)
		}
	}

	assignment := courseModels.Assignment{
		CourseID:     uint(courseID),
		LessonID:     reqData.LessonID,
		Title:        reqData.Title,
		Instructions: reqData.Instructions,
		DueDate:      reqData.DueDate,
		MaxScore:     reqData.MaxScore,
	}

	if err := database.Database.Db.Create(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment created successfully!", assignment)
}

// AdminPublishAssignment publishes an assignment
func AdminPublishAssignment(c *fiber.Ctx) error {
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

	assignment.IsPublished = true
	if err := database.Database.Db.Save(&assignment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to publish assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignment published successfully!", assignment)
}
