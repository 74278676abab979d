package recorder

import (
	"time"

	"TaifexDaily/internal/model"
)

// Store persists daily records. The store is append-only: rows are never
// updated or deleted, and insertion order is not meaningful (the dashboard
// sorts by date).
type Store interface {
	// HasDate reports whether a record for the date already exists.
	// Check-then-append is not atomic; overlapping runs for the same date
	// must be prevented by whatever invokes the pipeline.
	HasDate(date time.Time) (bool, error)
	Append(rec *model.DailyRecord) error
	Dates() ([]time.Time, error)
	Close() error
}

// DateKey is the canonical string form of a record's date key.
func DateKey(date time.Time) string {
	return date.Format("2006-01-02")
}
