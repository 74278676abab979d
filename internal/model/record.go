package model

import "time"

// DailyRecord is the single persisted row for one trading date.
// Column order in the store follows the field order here; the dashboard
// reads it positionally, so it must not change without a migration.
type DailyRecord struct {
	Date         time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	UpperPass    int64
	MidPass      int64
	LowerPass    int64
	Divider      int64
	LongCost     int64 // 0 means unavailable, never negative
	ShortCost    int64 // 0 means unavailable, never negative
	SellPressure float64
}

// Quote holds one day's session prices for the target instrument.
type Quote struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

// Validate checks the price envelope. A violation means the endpoint's
// table shape drifted and we parsed the wrong cells.
func (q *Quote) Validate() error {
	if q.Open <= 0 || q.High <= 0 || q.Low <= 0 || q.Close <= 0 {
		return &InvariantViolationError{
			Detail: "non-positive price",
			Values: []float64{q.Open, q.High, q.Low, q.Close},
		}
	}
	if q.Low > q.Open || q.Open > q.High || q.Low > q.Close || q.Close > q.High {
		return &InvariantViolationError{
			Detail: "low <= open,close <= high violated",
			Values: []float64{q.Open, q.High, q.Low, q.Close},
		}
	}
	return nil
}

// Position holds one counterparty's aggregate futures position for a date.
// Valid distinguishes "fetched zeros" from "position data unavailable";
// only the persisted row flattens unavailable to zero costs.
type Position struct {
	LongVolume    float64
	LongNotional  float64 // thousands of currency units
	ShortVolume   float64
	ShortNotional float64 // thousands of currency units
	Valid         bool
}
