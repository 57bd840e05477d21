package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentEnrolled  = "ENROLLED"
	EnrollmentCompleted = "COMPLETED"
	EnrollmentDropped   = "DROPPED"
)

// Enrollment tracks a user's enrollment in a course with progress.
// A user may enroll in a course at most once; the composite unique index
// turns a racing double-enroll into a constraint error.
type Enrollment struct {
	gorm.Model
	UserID           uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID         uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	BatchID          *uint      `json:"batch_id" gorm:"index"`
	Status           string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, COMPLETED, DROPPED
	Progress         int        `json:"progress" gorm:"default:0"`        // Completion percentage (0-100)
	CompletedLessons int        `json:"completed_lessons" gorm:"default:0"`
	TotalLessons     int        `json:"total_lessons" gorm:"default:0"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

// LessonProgress tracks a user's completion and time spent on a single lesson.
// One record per (user, course, lesson); repeat visits update it in place.
type LessonProgress struct {
	gorm.Model
	UserID         uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_progress_user_course_lesson"`
	CourseID       uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_progress_user_course_lesson"`
	LessonID       uint       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_progress_user_course_lesson"`
	IsCompleted    bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt    *time.Time `json:"completed_at"` // set once, on first completion
	TimeSpent      int        `json:"time_spent" gorm:"default:0"` // accumulated minutes
	LastAccessedAt time.Time  `json:"last_accessed_at"`
}
