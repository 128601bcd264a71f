package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"FxSentinel/internal/collector"
	"FxSentinel/internal/ledger"
	"FxSentinel/internal/model"
	"FxSentinel/internal/recorder"
	"FxSentinel/internal/strategy"
)

var (
	londonOpen = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)
	midday     = time.Date(2024, 3, 4, 11, 0, 0, 0, time.UTC)
)

type fakeNotifier struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (f *fakeNotifier) Send(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, text)
	return nil
}

type fakeRecorder struct {
	trades    []model.Trade
	decisions []recorder.DecisionEvent
}

func (f *fakeRecorder) RecordTrade(t *model.Trade) error {
	f.trades = append(f.trades, *t)
	return nil
}

func (f *fakeRecorder) RecordDecision(evt *recorder.DecisionEvent) error {
	f.decisions = append(f.decisions, *evt)
	return nil
}

func (f *fakeRecorder) Close() error { return nil }

type panicProvider struct{}

func (panicProvider) Name() string { return "panic" }

func (panicProvider) FetchSeries(context.Context, string) (model.Series, error) {
	panic("provider exploded")
}

type harness struct {
	sched *Scheduler
	led   *ledger.Ledger
	note  *fakeNotifier
	rec   *fakeRecorder
	logs  *observer.ObservedLogs
}

func newHarness(t *testing.T, now time.Time, pairs []string, providers ...collector.Provider) *harness {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	h := &harness{
		led:  ledger.New(),
		note: &fakeNotifier{},
		rec:  &fakeRecorder{},
		logs: logs,
	}
	col := collector.NewCollector(log, providers...)
	h.sched = NewScheduler(context.Background(), col, h.led, h.note, h.rec, Options{
		Pairs:         pairs,
		MaxPerSession: 3,
	}, log)
	h.sched.Now = func() time.Time { return now }
	return h
}

func bullishSetup() model.Series {
	return collector.GenerateTrend(londonOpen.Add(-time.Hour), 1.1, 0.001, 60)
}

func TestRunCycle_ScenarioA_BuyInLondon(t *testing.T) {
	series := bullishSetup()
	h := newHarness(t, londonOpen, []string{"EUR/USD"}, &collector.MockProvider{Series: series})

	opened := h.sched.RunCycle(context.Background())
	if len(opened) != 1 {
		t.Fatalf("expected one trade, got %d", len(opened))
	}
	tr := opened[0]
	entry := series.Last().Close
	if tr.Signal != model.SignalBuy || tr.Entry != entry || tr.Pair != "EUR/USD" || tr.Session != model.SessionLondon {
		t.Errorf("unexpected trade: %+v", tr)
	}
	if tr.StopLoss != entry-0.01 || tr.TakeProfit != entry+0.02 || tr.RiskReward != 2 {
		t.Errorf("unexpected risk levels: sl=%f tp=%f rr=%f", tr.StopLoss, tr.TakeProfit, tr.RiskReward)
	}
	if tr.ID == "" || !tr.OpenedAt.Equal(londonOpen) {
		t.Errorf("expected id and open time, got %q %v", tr.ID, tr.OpenedAt)
	}

	if h.led.Len() != 1 {
		t.Errorf("expected trade in ledger, got %d", h.led.Len())
	}
	if len(h.note.msgs) != 1 || !strings.Contains(h.note.msgs[0], "Signal: BUY") {
		t.Errorf("expected one BUY alert, got %v", h.note.msgs)
	}
	if len(h.rec.trades) != 1 || h.rec.trades[0] != tr {
		t.Errorf("expected recorded trade equal to opened trade, got %+v", h.rec.trades)
	}
	if len(h.rec.decisions) != 1 || h.rec.decisions[0].Reason != string(strategy.ReasonAccepted) {
		t.Errorf("expected one accepted decision, got %+v", h.rec.decisions)
	}
}

func TestRunCycle_ScenarioB_OutsideSessions(t *testing.T) {
	h := newHarness(t, midday, []string{"EUR/USD"}, &collector.MockProvider{Series: bullishSetup()})

	if opened := h.sched.RunCycle(context.Background()); len(opened) != 0 {
		t.Fatalf("expected no trades outside sessions, got %d", len(opened))
	}
	if h.led.Len() != 0 || len(h.note.msgs) != 0 {
		t.Errorf("expected empty ledger and no alerts")
	}
	if len(h.rec.decisions) != 1 || h.rec.decisions[0].Reason != string(strategy.ReasonNoSession) {
		t.Errorf("expected NO_SESSION decision, got %+v", h.rec.decisions)
	}
}

func TestRunCycle_ScenarioC_SessionCap(t *testing.T) {
	h := newHarness(t, londonOpen, []string{"EUR/USD"}, &collector.MockProvider{Series: bullishSetup()})

	total := 0
	for i := 0; i < 4; i++ {
		total += len(h.sched.RunCycle(context.Background()))
	}
	if total != 3 {
		t.Fatalf("expected 3 trades opened, got %d", total)
	}
	if got := h.led.CountBySession(model.SessionLondon); got != 3 {
		t.Errorf("expected 3 LONDON trades in ledger, got %d", got)
	}
	last := h.rec.decisions[len(h.rec.decisions)-1]
	if last.Reason != string(strategy.ReasonSessionCap) {
		t.Errorf("expected 4th decision rejected by cap, got %s", last.Reason)
	}
	if len(h.note.msgs) != 3 {
		t.Errorf("expected 3 alerts, got %d", len(h.note.msgs))
	}
}

func TestRunCycle_CapIsPerSession(t *testing.T) {
	h := newHarness(t, londonOpen, []string{"EUR/USD"}, &collector.MockProvider{Series: bullishSetup()})
	for i := 0; i < 3; i++ {
		h.sched.RunCycle(context.Background())
	}

	h.sched.Now = func() time.Time { return time.Date(2024, 3, 4, 14, 0, 0, 0, time.UTC) }
	opened := h.sched.RunCycle(context.Background())
	if len(opened) != 1 || opened[0].Session != model.SessionNY {
		t.Fatalf("expected a NY trade after the LONDON cap, got %+v", opened)
	}
}

func TestRunCycle_NotifierFailureKeepsTrade(t *testing.T) {
	h := newHarness(t, londonOpen, []string{"EUR/USD"}, &collector.MockProvider{Series: bullishSetup()})
	h.note.err = errors.New("telegram down")

	opened := h.sched.RunCycle(context.Background())
	if len(opened) != 1 || h.led.Len() != 1 || len(h.rec.trades) != 1 {
		t.Fatalf("expected trade kept despite notification failure")
	}
	if h.logs.FilterMessage("send notification failed").Len() != 1 {
		t.Errorf("expected the delivery failure to be logged")
	}
}

func TestRunCycle_PanicAndFetchFailureSkipPair(t *testing.T) {
	good := &collector.MockProvider{ByPair: map[string]model.Series{"GBP/USD": bullishSetup()}}
	h := newHarness(t, londonOpen, []string{"EUR/USD", "GBP/USD"}, good)

	opened := h.sched.RunCycle(context.Background())
	if len(opened) != 1 || opened[0].Pair != "GBP/USD" {
		t.Fatalf("expected only GBP/USD to trade, got %+v", opened)
	}
	if h.logs.FilterMessage("no market data, skipping pair").Len() != 1 {
		t.Errorf("expected EUR/USD fetch failure to be logged")
	}

	p := newHarness(t, londonOpen, []string{"EUR/USD"}, panicProvider{})
	if opened := p.sched.RunCycle(context.Background()); len(opened) != 0 {
		t.Errorf("expected no trades from panicking provider")
	}
	if p.logs.FilterMessage("pair evaluation panicked").Len() != 1 {
		t.Errorf("expected the panic to be recovered and logged")
	}
}

func TestRunCycle_CancelledContext(t *testing.T) {
	mock := &collector.MockProvider{Series: bullishSetup()}
	h := newHarness(t, londonOpen, []string{"EUR/USD", "GBP/USD"}, mock)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if opened := h.sched.RunCycle(ctx); len(opened) != 0 || mock.Calls != 0 {
		t.Errorf("expected cancelled cycle to stop before fetching")
	}
}

func TestRunCycle_SplitTimeframes(t *testing.T) {
	// 60 one-minute bars resample to four 15m and twelve 5m bars; four higher
	// bars is short of the breakout lookback.
	h := newHarness(t, londonOpen, []string{"EUR/USD"}, &collector.MockProvider{Series: bullishSetup()})
	h.sched.Opts.SplitTimeframes = true

	higher, execution := h.sched.timeframes(bullishSetup())
	if len(higher) != 4 || len(execution) != 12 {
		t.Fatalf("expected 4 higher and 12 execution bars, got %d and %d", len(higher), len(execution))
	}
	h.sched.RunCycle(context.Background())
	if len(h.rec.decisions) != 1 || h.rec.decisions[0].Reason != string(strategy.ReasonInsufficientData) {
		t.Errorf("expected INSUFFICIENT_DATA with only 4 higher bars, got %+v", h.rec.decisions)
	}
}

func TestHandleCommand(t *testing.T) {
	h := newHarness(t, londonOpen, []string{"EUR/USD"}, &collector.MockProvider{Label: "mock", Series: bullishSetup()})
	if got := h.sched.HandleCommand("/trades"); !strings.Contains(got, "No paper trades") {
		t.Errorf("unexpected empty ledger reply: %q", got)
	}
	h.sched.RunCycle(context.Background())

	if got := h.sched.HandleCommand("/trades"); !strings.Contains(got, "EUR/USD BUY") {
		t.Errorf("expected trade in /trades reply, got %q", got)
	}
	status := h.sched.HandleCommand("/status")
	for _, want := range []string{"Session: LONDON", "LONDON trades: 1/3", "Providers: mock"} {
		if !strings.Contains(status, want) {
			t.Errorf("status missing %q:\n%s", want, status)
		}
	}
	if got := h.sched.HandleCommand("/unknown"); !strings.Contains(got, "/trades") {
		t.Errorf("expected help text, got %q", got)
	}
}

func TestRegister(t *testing.T) {
	h := newHarness(t, londonOpen, nil)
	if err := h.sched.Register(500 * time.Millisecond); err == nil {
		t.Error("expected error for sub-second interval")
	}
	if err := h.sched.Register(time.Minute); err != nil {
		t.Fatalf("register: %v", err)
	}
	if n := len(h.sched.Cron.Entries()); n != 1 {
		t.Errorf("expected one cron entry, got %d", n)
	}
}
