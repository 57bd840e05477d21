package utils

import (
	"testing"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRefreshBatchStatuses(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:RefreshBatchStatuses?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	now := time.Now()
	batches := []courseModels.Batch{
		// Stored status has drifted behind the dates
		{CourseID: 1, Name: "Started Yesterday", StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 1, 0), Status: courseModels.BatchUpcoming},
		{CourseID: 1, Name: "Ended Last Week", StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 0, -7), Status: courseModels.BatchOngoing},
		// Already correct, should stay untouched
		{CourseID: 1, Name: "Next Month", StartDate: now.AddDate(0, 1, 0), EndDate: now.AddDate(0, 2, 0), Status: courseModels.BatchUpcoming},
		// Deleted batches are skipped even when stale
		{CourseID: 1, Name: "Deleted", StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 1, 0), Status: courseModels.BatchUpcoming, IsDeleted: true},
	}
	for i := range batches {
		require.NoError(t, db.Create(&batches[i]).Error)
	}

	RefreshBatchStatuses()

	var got []courseModels.Batch
	require.NoError(t, db.Order("id asc").Find(&got).Error)
	require.Len(t, got, 4)
	assert.Equal(t, courseModels.BatchOngoing, got[0].Status)
	assert.Equal(t, courseModels.BatchCompleted, got[1].Status)
	assert.Equal(t, courseModels.BatchUpcoming, got[2].Status)
	assert.Equal(t, courseModels.BatchUpcoming, got[3].Status)
}
