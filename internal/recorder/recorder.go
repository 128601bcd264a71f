package recorder

import (
	"time"

	"FxSentinel/internal/model"
)

// DecisionEvent is one pair's outcome in one cycle.
type DecisionEvent struct {
	Time     time.Time
	Pair     string
	Provider string
	Session  model.Session
	Bias     model.Bias
	Signal   model.Signal
	Entry    float64
	Pattern  string
	Reason   string
}

// Recorder journals trades and decisions for later analysis. The journal is
// write-only: nothing is read back on startup.
type Recorder interface {
	RecordTrade(trade *model.Trade) error
	RecordDecision(evt *DecisionEvent) error
	Close() error
}
