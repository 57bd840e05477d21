package course

import (
	"time"

	"gorm.io/gorm"
)

// Submission statuses
const (
	SubmissionSubmitted = "SUBMITTED"
	SubmissionGraded    = "GRADED"
	SubmissionReturned  = "RETURNED"
)

// Assignment represents a graded task attached to a course (and optionally a lesson)
type Assignment struct {
	gorm.Model
	CourseID     uint       `json:"course_id" gorm:"index;not null"`
	LessonID     *uint      `json:"lesson_id" gorm:"index"`
	Title        string     `json:"title"`
	Instructions string     `json:"instructions" gorm:"type:text"`
	DueDate      *time.Time `json:"due_date"`
	MaxScore     int        `json:"max_score" gorm:"default:100"`
	IsPublished  bool       `json:"is_published" gorm:"default:false"`
	IsDeleted    bool       `gorm:"default:false"`
}

// Submission represents a student's deliverable for an assignment.
// One submission per (assignment, user); resubmission is rejected, not
// overwritten. Grading overwrites score/feedback in place.
type Submission struct {
	gorm.Model
	AssignmentID   uint       `json:"assignment_id" gorm:"not null;uniqueIndex:idx_submission_assignment_user"`
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_submission_assignment_user"`
	SubmissionText string     `json:"submission_text" gorm:"type:text"`
	SubmissionURL  string     `json:"submission_url"`
	Status         string     `json:"status" gorm:"default:'SUBMITTED'"` // SUBMITTED, GRADED, RETURNED
	Score          *int       `json:"score"`                             // 0..Assignment.MaxScore
	Feedback       string     `json:"feedback" gorm:"type:text"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	GradedAt       *time.Time `json:"graded_at"`
}
