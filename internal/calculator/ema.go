package calculator

import (
	"errors"

	"FxSentinel/internal/model"
)

// EWMA returns the latest exponentially-weighted mean of values with
// alpha = 2/(span+1). Weights are normalised over the values available, so a
// series shorter than span still produces an average.
func EWMA(values []float64, span int) (float64, error) {
	if span <= 0 {
		return 0, errors.New("span must be positive")
	}
	if len(values) == 0 {
		return 0, errors.New("no values for EWMA calculation")
	}
	decay := 1 - 2/float64(span+1)
	var num, den float64
	for _, v := range values {
		num = v + decay*num
		den = 1 + decay*den
	}
	return num / den, nil
}

// CloseEWMA computes EWMA over the closing prices of the series.
func CloseEWMA(series model.Series, span int) (float64, error) {
	return EWMA(series.Closes(), span)
}
