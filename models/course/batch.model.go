package course

import (
	"time"

	"gorm.io/gorm"
)

// Batch statuses
const (
	BatchUpcoming  = "UPCOMING"
	BatchOngoing   = "ONGOING"
	BatchCompleted = "COMPLETED"
)

// Batch represents a scheduled cohort of a course with its own date range
type Batch struct {
	gorm.Model
	CourseID        uint      `json:"course_id" gorm:"index;not null"`
	Name            string    `json:"name"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	MaxStudents     int       `json:"max_students" gorm:"default:0"` // 0 = unlimited
	CurrentStudents int       `json:"current_students" gorm:"default:0"`
	Status          string    `json:"status" gorm:"default:'UPCOMING'"` // UPCOMING, ONGOING, COMPLETED
	IsDeleted       bool      `gorm:"default:false"`
}

// DeriveBatchStatus computes a batch status from its date range. The stored
// Status column is a cache of this value, refreshed on every date mutation.
func DeriveBatchStatus(startDate, endDate, now time.Time) string {
	if endDate.Before(now) {
		return BatchCompleted
	}
	if !startDate.After(now) {
		return BatchOngoing
	}
	return BatchUpcoming
}
