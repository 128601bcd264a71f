package ledger

import (
	"errors"
	"sync"

	"FxSentinel/internal/model"
)

// ErrSessionCapReached is returned by Open when the session already holds the
// maximum number of trades.
var ErrSessionCapReached = errors.New("session trade cap reached")

// Ledger is the in-memory paper-trading book. Trades are only appended and are
// kept for the lifetime of the process.
type Ledger struct {
	mu     sync.Mutex
	trades []model.Trade
}

// New creates an empty Ledger.
func New() *Ledger {
	return &Ledger{}
}

// Open appends trade unless its session already has maxPerSession trades.
// The count and the append happen under one lock.
func (l *Ledger) Open(trade model.Trade, maxPerSession int) (model.Trade, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.countLocked(trade.Session) >= maxPerSession {
		return model.Trade{}, ErrSessionCapReached
	}
	l.trades = append(l.trades, trade)
	return trade, nil
}

// CountBySession returns how many trades were opened in session.
func (l *Ledger) CountBySession(session model.Session) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.countLocked(session)
}

// Trades returns a copy of every recorded trade, oldest first.
func (l *Ledger) Trades() []model.Trade {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Trade, len(l.trades))
	copy(out, l.trades)
	return out
}

// Len returns the total number of trades.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.trades)
}

func (l *Ledger) countLocked(session model.Session) int {
	n := 0
	for _, t := range l.trades {
		if t.Session == session {
			n++
		}
	}
	return n
}
