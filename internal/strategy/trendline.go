package strategy

import (
	"FxSentinel/internal/calculator"
	"FxSentinel/internal/model"
)

// ConfirmTrendlineBreak reports whether the latest close has broken out of the
// range of the TrendlineLookback bars before it in the signal's direction.
func ConfirmTrendlineBreak(series model.Series, signal model.Signal, p Params) bool {
	n := series.Len()
	if p.TrendlineLookback <= 0 || n < p.TrendlineLookback+1 {
		return false
	}
	high, low, err := calculator.TrailingRange(series[:n-1], p.TrendlineLookback)
	if err != nil {
		return false
	}
	last := series[n-1].Close
	switch signal {
	case model.SignalBuy:
		return last > high
	case model.SignalSell:
		return last < low
	}
	return false
}
