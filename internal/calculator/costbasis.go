package calculator

import "math"

// CostBasis returns the average per-contract price implied by one side's
// aggregate notional and volume. Notional arrives in thousands
// (notionalUnit rescales it) and pointValue converts currency to index
// points; both are instrument configuration, not derived values.
// Zero or negative volume yields 0, the "unavailable" sentinel.
func CostBasis(volume, notional, notionalUnit, pointValue float64) int64 {
	if volume <= 0 || pointValue <= 0 {
		return 0
	}
	return int64(math.Round(notional * notionalUnit / volume / pointValue))
}
