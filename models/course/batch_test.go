package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveBatchStatus(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		startDate time.Time
		endDate   time.Time
		want      string
	}{
		{"starts in the future", now.AddDate(0, 0, 7), now.AddDate(0, 1, 0), BatchUpcoming},
		{"currently running", now.AddDate(0, 0, -7), now.AddDate(0, 0, 7), BatchOngoing},
		{"already over", now.AddDate(0, -2, 0), now.AddDate(0, -1, 0), BatchCompleted},
		{"starts exactly now", now, now.AddDate(0, 1, 0), BatchOngoing},
		{"ends exactly now", now.AddDate(0, -1, 0), now, BatchOngoing},
		{"ended a second ago", now.AddDate(0, -1, 0), now.Add(-time.Second), BatchCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveBatchStatus(tt.startDate, tt.endDate, now))
		})
	}
}
