package strategy

import (
	"FxSentinel/internal/calculator"
	"FxSentinel/internal/model"
)

// ClassifyBias derives the directional regime from swing structure of the last
// BiasLookback bars and the ordering of the fast and slow close EWMAs.
func ClassifyBias(series model.Series, p Params) model.Bias {
	if p.BiasLookback <= 0 || series.Len() < p.BiasLookback {
		return model.BiasNone
	}
	fast, err := calculator.CloseEWMA(series, p.FastSpan)
	if err != nil {
		return model.BiasNone
	}
	slow, err := calculator.CloseEWMA(series, p.SlowSpan)
	if err != nil {
		return model.BiasNone
	}

	recent := series.Tail(p.BiasLookback)
	highs := make([]float64, len(recent))
	lows := make([]float64, len(recent))
	for i, b := range recent {
		highs[i] = b.High
		lows[i] = b.Low
	}
	last := series.Last().Close

	switch {
	case calculator.NonDecreasing(highs) && calculator.NonDecreasing(lows) && last > fast && fast > slow:
		return model.BiasBullish
	case calculator.NonIncreasing(highs) && calculator.NonIncreasing(lows) && last < fast && fast < slow:
		return model.BiasBearish
	default:
		return model.BiasNone
	}
}
