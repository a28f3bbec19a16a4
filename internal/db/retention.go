package db

import (
	"log"
	"time"

	"gorm.io/gorm"
)

// runMessageRetentionOnce deletes staff messages older than the
// configured retention window.
func runMessageRetentionOnce(db *gorm.DB, days int) error {
	cutoff := time.Now().AddDate(0, 0, -days)
	return db.Where("created_at < ?", cutoff).Delete(&Message{}).Error
}

// StartMessageRetentionWorker launches a background goroutine that
// prunes old messages once at startup and then once per day. A
// non-positive days value disables pruning entirely.
func StartMessageRetentionWorker(db *gorm.DB, days int) {
	if days <= 0 {
		return
	}

	go func() {
		if err := runMessageRetentionOnce(db, days); err != nil {
			log.Printf("message retention error (startup): %v", err)
		}

		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := runMessageRetentionOnce(db, days); err != nil {
				log.Printf("message retention error: %v", err)
			}
		}
	}()
}
