package strategy

import (
	"testing"
	"time"

	"FxSentinel/internal/model"
)

func at(h, m, s int) time.Time {
	return time.Date(2024, 3, 4, h, m, s, 0, time.UTC)
}

func TestActiveSession_Boundaries(t *testing.T) {
	windows := DefaultSessions()
	tests := []struct {
		now  time.Time
		want model.Session
	}{
		{at(6, 59, 0), model.SessionNone},
		{at(7, 0, 0), model.SessionLondon},
		{at(8, 30, 0), model.SessionLondon},
		{at(10, 0, 0), model.SessionLondon},
		{at(10, 0, 1), model.SessionNone},
		{at(10, 1, 0), model.SessionNone},
		{at(11, 0, 0), model.SessionNone},
		{at(12, 59, 59), model.SessionNone},
		{at(13, 0, 0), model.SessionNY},
		{at(16, 0, 0), model.SessionNY},
		{at(16, 1, 0), model.SessionNone},
		{at(23, 0, 0), model.SessionNone},
	}
	for _, tt := range tests {
		if got := ActiveSession(tt.now, windows); got != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.now.Format("15:04:05"), tt.want, got)
		}
	}
}

func TestActiveSession_UsesUTC(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, 3, 4, 17, 0, 0, 0, tokyo) // 08:00 UTC
	if got := ActiveSession(now, DefaultSessions()); got != model.SessionLondon {
		t.Errorf("expected LONDON for 08:00 UTC, got %s", got)
	}
}

func TestActiveSession_FirstWindowWinsOverlap(t *testing.T) {
	windows := []SessionWindow{
		{Session: model.SessionLondon, Start: 7 * time.Hour, End: 14 * time.Hour},
		{Session: model.SessionNY, Start: 13 * time.Hour, End: 16 * time.Hour},
	}
	if got := ActiveSession(at(13, 30, 0), windows); got != model.SessionLondon {
		t.Errorf("expected LONDON to win overlap, got %s", got)
	}
}

func TestParseClock(t *testing.T) {
	d, err := ParseClock("13:45")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != 13*time.Hour+45*time.Minute {
		t.Errorf("expected 13h45m, got %v", d)
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Error("expected error for invalid clock")
	}
}
