package strategy

import "FxSentinel/internal/model"

// CandlePattern names the rule that confirmed the latest bar.
type CandlePattern string

const (
	PatternNone        CandlePattern = ""
	PatternPinBar      CandlePattern = "PIN_BAR"
	PatternEngulfing   CandlePattern = "ENGULFING"
	PatternDirectional CandlePattern = "DIRECTIONAL"
)

// DetectCandle checks the latest bar against signal. The bar must first be a
// momentum bar (body at least MinBodyRatio of its range); after that the pin
// bar, engulfing and plain directional rules are tried in order.
func DetectCandle(series model.Series, signal model.Signal, p Params) CandlePattern {
	if series.Len() < 2 {
		return PatternNone
	}
	last := series[series.Len()-1]
	prev := series[series.Len()-2]

	total := last.Range()
	if total == 0 {
		return PatternNone
	}
	body := last.Body()
	if body/total < p.MinBodyRatio {
		return PatternNone
	}

	switch signal {
	case model.SignalBuy:
		if last.LowerWick() > p.PinWickRatio*body {
			return PatternPinBar
		}
		if last.Bullish() && last.Close > prev.Open && last.Open < prev.Close {
			return PatternEngulfing
		}
		if last.Bullish() {
			return PatternDirectional
		}
	case model.SignalSell:
		if last.UpperWick() > p.PinWickRatio*body {
			return PatternPinBar
		}
		if last.Bearish() && last.Close < prev.Open && last.Open > prev.Close {
			return PatternEngulfing
		}
		if last.Bearish() {
			return PatternDirectional
		}
	}
	return PatternNone
}

// ConfirmCandle reports whether any candle rule confirms signal.
func ConfirmCandle(series model.Series, signal model.Signal, p Params) bool {
	return DetectCandle(series, signal, p) != PatternNone
}
