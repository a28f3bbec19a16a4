package db

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// summaryWindowDays is how far back the worker recomputes summaries.
// Edits and manual marks for older days are rare enough that the
// owner can re-export instead.
const summaryWindowDays = 30

// runSummaryOnce recomputes DailySummary rows for the trailing window
// ending today (in loc). Rows are upserted per date.
func runSummaryOnce(db *gorm.DB, loc *time.Location) error {
	since := time.Now().In(loc).AddDate(0, 0, -summaryWindowDays).Format("2006-01-02")

	var records []AttendanceRecord
	if err := db.Where("date >= ?", since).
		Select("user_id", "date", "check_in", "check_out", "present").
		Find(&records).Error; err != nil {
		return err
	}

	type counts struct {
		presentUsers map[uint]bool
		checkedOut   int64
		open         int64
	}
	days := make(map[string]*counts)
	for _, rec := range records {
		c := days[rec.Date]
		if c == nil {
			c = &counts{presentUsers: make(map[uint]bool)}
			days[rec.Date] = c
		}
		if rec.Present {
			c.presentUsers[rec.UserID] = true
		}
		switch {
		case rec.CheckIn != nil && rec.CheckOut == nil:
			c.open++
		case rec.CheckOut != nil:
			c.checkedOut++
		}
	}

	for date, c := range days {
		row := DailySummary{
			Date:            date,
			PresentCount:    int64(len(c.presentUsers)),
			CheckedOutCount: c.checkedOut,
			OpenCount:       c.open,
		}
		var existing DailySummary
		err := db.Where("date = ?", date).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = db.Create(&row).Error
		} else if err == nil {
			err = db.Model(&existing).Updates(map[string]interface{}{
				"present_count":     row.PresentCount,
				"checked_out_count": row.CheckedOutCount,
				"open_count":        row.OpenCount,
			}).Error
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// StartSummaryWorker recomputes daily summaries once at startup and
// then every hour, so the dashboard stays fresh without re-aggregating
// on every page load.
func StartSummaryWorker(db *gorm.DB, loc *time.Location) {
	go func() {
		if err := runSummaryOnce(db, loc); err != nil {
			log.Printf("summary aggregation error (startup): %v", err)
		}

		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := runSummaryOnce(db, loc); err != nil {
				log.Printf("summary aggregation error: %v", err)
			}
		}
	}()
}
