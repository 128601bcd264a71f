package strategy

import (
	"fmt"
	"time"

	"FxSentinel/internal/model"
)

// SessionWindow is an inclusive UTC time-of-day range. Start and End are
// offsets from midnight.
type SessionWindow struct {
	Session model.Session
	Start   time.Duration
	End     time.Duration
}

// Contains reports whether the UTC time-of-day of t falls inside the window.
func (w SessionWindow) Contains(t time.Time) bool {
	tod := timeOfDay(t.UTC())
	return w.Start <= tod && tod <= w.End
}

// DefaultSessions returns London 07:00-10:00 followed by New York 13:00-16:00.
func DefaultSessions() []SessionWindow {
	return []SessionWindow{
		{Session: model.SessionLondon, Start: 7 * time.Hour, End: 10 * time.Hour},
		{Session: model.SessionNY, Start: 13 * time.Hour, End: 16 * time.Hour},
	}
}

// ActiveSession returns the first window containing now, or SessionNone.
func ActiveSession(now time.Time, windows []SessionWindow) model.Session {
	for _, w := range windows {
		if w.Contains(now) {
			return w.Session
		}
	}
	return model.SessionNone
}

// ParseClock parses an "HH:MM" string into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func timeOfDay(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}
