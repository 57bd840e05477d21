package utils

import (
	"log"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/robfig/cron/v3"
)

// InitializeBatchScheduler sets up the daily batch status refresh
func InitializeBatchScheduler() {
	log.Println("[BATCH-SCHEDULER] Initializing batch scheduler...")

	c := cron.New()

	// Run daily at midnight to refresh batch statuses that drifted
	c.AddFunc("0 0 * * *", func() {
		log.Println("[BATCH-SCHEDULER] Running daily batch status refresh...")
		RefreshBatchStatuses()
	})

	c.Start()
	log.Println("[BATCH-SCHEDULER] Batch scheduler started - runs daily at midnight")
}

// RefreshBatchStatuses recomputes the stored status of every batch whose
// date range has crossed a boundary purely due to elapsed time. The stored
// status is only a cache of DeriveBatchStatus; this keeps it from drifting.
func RefreshBatchStatuses() {
	db := database.Database.Db
	now := time.Now()

	var batches []courseModels.Batch
	if err := db.Where("is_deleted = ?", false).Find(&batches).Error; err != nil {
		log.Printf("[BATCH-SCHEDULER] Error fetching batches: %v", err)
		return
	}

	refreshed := 0
	for _, batch := range batches {
		status := courseModels.DeriveBatchStatus(batch.StartDate, batch.EndDate, now)
		if status == batch.Status {
			continue
		}
		if err := db.Model(&batch).Update("status", status).Error; err != nil {
			log.Printf("[BATCH-SCHEDULER] Error updating batch %d: %v", batch.ID, err)
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		log.Printf("[BATCH-SCHEDULER] Refreshed %d batch statuses", refreshed)
	}
}
