package controllers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestRoundPercentage(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		want      int
	}{
		{"no lessons", 0, 0, 0},
		{"nothing completed", 0, 5, 0},
		{"rounds down", 1, 3, 33},
		{"rounds up", 2, 3, 67},
		{"half", 1, 2, 50},
		{"all completed", 3, 3, 100},
		{"negative total", 1, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, roundPercentage(tt.completed, tt.total))
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, isUniqueViolation(errors.New(`duplicate key value violates unique constraint "idx_enrollment_user_course"`)))
	assert.True(t, isUniqueViolation(errors.New("UNIQUE constraint failed: enrollments.user_id, enrollments.course_id")))
	assert.False(t, isUniqueViolation(errors.New("connection refused")))
	assert.False(t, isUniqueViolation(gorm.ErrRecordNotFound))
}
