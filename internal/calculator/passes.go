package calculator

import (
	"errors"
	"math"
)

// passMultiplier is the fixed range multiplier behind the three pass levels.
const passMultiplier = 1.382

// Bands are the next-session reference levels derived from today's range.
type Bands struct {
	Upper int64
	Mid   int64
	Lower int64
}

// PassBands derives the three pass levels from the day's high and low.
// Rounding is half-away-from-zero (math.Round); tests pin this choice.
func PassBands(high, low float64) (Bands, error) {
	if high < low {
		return Bands{}, errors.New("high must be >= low")
	}
	rng := high - low
	return Bands{
		Upper: int64(math.Round(low + rng*passMultiplier)),
		Mid:   int64(math.Round((high + low) / 2)),
		Lower: int64(math.Round(high - rng*passMultiplier)),
	}, nil
}

// Divider returns the next-session bull/bear boundary (open+low+close)/3.
func Divider(open, low, closePrice float64) int64 {
	return int64(math.Round((open + low + closePrice) / 3))
}
