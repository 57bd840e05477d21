package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz represents a multiple choice quiz attached to a course (and optionally a lesson)
type Quiz struct {
	gorm.Model
	CourseID     uint   `json:"course_id" gorm:"index;not null"`
	LessonID     *uint  `json:"lesson_id" gorm:"index"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	TimeLimit    *int   `json:"time_limit"`                     // minutes; enforced client-side only
	PassingScore int    `json:"passing_score" gorm:"default:0"` // percentage 0-100
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// QuizQuestion represents one question of a quiz with its options
type QuizQuestion struct {
	gorm.Model
	QuizID        uint           `json:"quiz_id" gorm:"index;not null"`
	QuestionText  string         `json:"question_text" gorm:"type:text"`
	Options       datatypes.JSON `json:"options"`        // JSON array of 2-6 option strings
	CorrectAnswer int            `json:"correct_answer"` // index into Options
	Points        int            `json:"points" gorm:"default:1"`
	OrderIndex    int            `json:"order_index" gorm:"default:0"`
}

// QuizAttempt represents one graded attempt of a student at a quiz.
// Attempts are append-only; a resubmission creates a new record and the
// latest attempt is the most recently completed one.
type QuizAttempt struct {
	gorm.Model
	QuizID       uint           `json:"quiz_id" gorm:"index;not null"`
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	Answers      datatypes.JSON `json:"answers"` // JSON array of selected option indexes
	EarnedPoints int            `json:"earned_points"`
	TotalPoints  int            `json:"total_points"`
	Score        int            `json:"score"` // percentage 0-100
	IsPassed     bool           `json:"is_passed" gorm:"default:false"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at"`
}
