package strategy

import "FxSentinel/internal/model"

// Reason records why a pair was accepted or skipped in a cycle.
type Reason string

const (
	ReasonAccepted         Reason = "ACCEPTED"
	ReasonInsufficientData Reason = "INSUFFICIENT_DATA"
	ReasonNoSession        Reason = "NO_SESSION"
	ReasonNoBias           Reason = "NO_BIAS"
	ReasonNoTrigger        Reason = "NO_TRIGGER"
	ReasonOutsideZone      Reason = "OUTSIDE_ZONE"
	ReasonNoCandle         Reason = "NO_CANDLE"
	ReasonNoBreakout       Reason = "NO_BREAKOUT"
	ReasonSessionCap       Reason = "SESSION_CAP"
)

// Input is everything the decision needs for one pair in one cycle.
// Higher feeds bias, zones and the breakout reference bar; Execution feeds the
// entry price and the candle/trendline confirmers.
type Input struct {
	Pair      string
	Higher    model.Series
	Execution model.Series
	Session   model.Session
}

// Decision is the outcome of Evaluate.
type Decision struct {
	Pair    string
	Signal  model.Signal
	Bias    model.Bias
	Session model.Session
	Entry   float64
	Zones   []model.SRZone
	Pattern CandlePattern
	Reason  Reason
}

// Accepted reports whether every gate passed.
func (d Decision) Accepted() bool { return d.Reason == ReasonAccepted }

// Evaluate runs the gated decision for one pair. Gates short-circuit in order:
// data, session, bias, breakout trigger, SR zone, candle, trendline. The
// per-session trade cap is checked by the ledger when the trade is opened.
func Evaluate(in Input, p Params) Decision {
	d := Decision{
		Pair:    in.Pair,
		Signal:  model.SignalNone,
		Bias:    model.BiasNone,
		Session: in.Session,
	}

	need := p.RequiredBars()
	if in.Higher.Len() < need || in.Execution.Len() < need {
		d.Reason = ReasonInsufficientData
		return d
	}
	d.Entry = in.Execution.Last().Close

	if in.Session == model.SessionNone || in.Session == "" {
		d.Reason = ReasonNoSession
		return d
	}

	d.Bias = ClassifyBias(in.Higher, p)
	if d.Bias == model.BiasNone {
		d.Reason = ReasonNoBias
		return d
	}

	d.Zones = DetectZones(in.Higher, p)

	ref := in.Higher[in.Higher.Len()-p.BreakoutLookback]
	switch {
	case d.Entry > ref.High && d.Bias == model.BiasBullish:
		d.Signal = model.SignalBuy
	case d.Entry < ref.Low && d.Bias == model.BiasBearish:
		d.Signal = model.SignalSell
	default:
		d.Reason = ReasonNoTrigger
		return d
	}

	if !InAnyZone(d.Entry, d.Zones) {
		d.Reason = ReasonOutsideZone
		return d
	}
	d.Pattern = DetectCandle(in.Execution, d.Signal, p)
	if d.Pattern == PatternNone {
		d.Reason = ReasonNoCandle
		return d
	}
	if !ConfirmTrendlineBreak(in.Execution, d.Signal, p) {
		d.Reason = ReasonNoBreakout
		return d
	}

	d.Reason = ReasonAccepted
	return d
}

// RiskLevels returns stop-loss, take-profit and the risk-reward ratio for a
// trade entered at entry.
func RiskLevels(signal model.Signal, entry float64, p Params) (sl, tp, rr float64) {
	rr = p.TakeProfitOffset / p.StopLossOffset
	if signal == model.SignalSell {
		return entry + p.StopLossOffset, entry - p.TakeProfitOffset, rr
	}
	return entry - p.StopLossOffset, entry + p.TakeProfitOffset, rr
}
