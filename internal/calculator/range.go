package calculator

import (
	"errors"
	"math"

	"FxSentinel/internal/model"
)

// TrailingRange scans the most recent window bars and returns the highest high
// and lowest low. Shorter series use every bar.
func TrailingRange(bars model.Series, window int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no bars provided")
	}
	if window <= 0 {
		return 0, 0, errors.New("window must be positive")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars.Tail(window) {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// NonDecreasing reports whether every value is >= the one before it.
func NonDecreasing(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			return false
		}
	}
	return true
}

// NonIncreasing reports whether every value is <= the one before it.
func NonIncreasing(values []float64) bool {
	for i := 1; i < len(values); i++ {
		if values[i] > values[i-1] {
			return false
		}
	}
	return true
}
