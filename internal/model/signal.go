package model

import "time"

// Bias is the higher-timeframe directional regime.
type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNone    Bias = "NONE"
)

// Signal is the per-pair decision direction.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalNone Signal = "NONE"
)

// Session names a trading window.
type Session string

const (
	SessionLondon Session = "LONDON"
	SessionNY     Session = "NY"
	SessionNone   Session = "NONE"
)

// SRZone is a closed price interval acting as support or resistance.
type SRZone struct {
	Low  float64
	High float64
}

// Contains reports whether price lies in [Low, High].
func (z SRZone) Contains(price float64) bool {
	return z.Low <= price && price <= z.High
}

// Width returns High - Low.
func (z SRZone) Width() float64 { return z.High - z.Low }

// Trade is a paper trade opened on a confirmed signal. It is passed by value
// and never modified once created.
type Trade struct {
	ID         string
	Pair       string
	Signal     Signal
	Entry      float64
	StopLoss   float64
	TakeProfit float64
	RiskReward float64
	Session    Session
	OpenedAt   time.Time
}
