package recorder

import (
	"time"

	"TaifexDaily/internal/model"
)

// NoopStore is a no-op implementation used when SQLite is not configured.
// It reports every date as absent, so dry runs always reach the append path.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (n *NoopStore) HasDate(_ time.Time) (bool, error) { return false, nil }
func (n *NoopStore) Append(_ *model.DailyRecord) error { return nil }
func (n *NoopStore) Dates() ([]time.Time, error)       { return nil, nil }
func (n *NoopStore) Close() error                      { return nil }
