package fetcher

import (
	"time"

	"TaifexDaily/internal/model"
)

// QuoteFetcher returns the day's OHLC for the target instrument. This is
// the pipeline's hard dependency: any failure aborts the run.
type QuoteFetcher interface {
	FetchQuote(date time.Time) (*model.Quote, error)
	Name() string
}

// PositionFetcher returns the target counterparty's aggregate position.
// Soft dependency: on failure the pipeline records zero costs.
type PositionFetcher interface {
	FetchPosition(date time.Time) (*model.Position, error)
	Name() string
}

// PressureFetcher returns the scaled early-session sell-order aggregate.
// Soft dependency: on failure the pipeline records 0.
type PressureFetcher interface {
	FetchPressure(date time.Time) (float64, error)
	Name() string
}
