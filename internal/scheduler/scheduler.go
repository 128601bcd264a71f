package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"FxSentinel/internal/ledger"
	"FxSentinel/internal/model"
	"FxSentinel/internal/notifier"
	"FxSentinel/internal/recorder"
	"FxSentinel/internal/strategy"
)

// Fetcher returns the latest series for a pair from the provider chain.
type Fetcher interface {
	Fetch(ctx context.Context, pair string) (*model.PriceSeries, error)
	Names() []string
}

// Options are the trading settings the scheduler runs with.
type Options struct {
	Pairs           []string
	MaxPerSession   int
	Params          strategy.Params
	Sessions        []strategy.SessionWindow
	SplitTimeframes bool
	SendRetries     int
}

// Scheduler runs the signal cycle on a fixed delay and answers chat commands.
type Scheduler struct {
	Cron      *cron.Cron
	Collector Fetcher
	Ledger    *ledger.Ledger
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Opts      Options
	Now       func() time.Time
	Log       *zap.Logger
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. Cycles never overlap and a panicking
// cycle does not stop the cron runner.
func NewScheduler(ctx context.Context, col Fetcher, l *ledger.Ledger, n notifier.Notifier, rec recorder.Recorder, opts Options, log *zap.Logger) *Scheduler {
	opts.Params = opts.Params.WithDefaults()
	if len(opts.Sessions) == 0 {
		opts.Sessions = strategy.DefaultSessions()
	}
	cl := cronLogger{log.Sugar()}
	return &Scheduler{
		Cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		Collector: col,
		Ledger:    l,
		Notifier:  n,
		Recorder:  rec,
		Opts:      opts,
		Now:       time.Now,
		Log:       log,
		Ctx:       ctx,
	}
}

// Register schedules the cycle every interval, measured from the end of the
// previous run.
func (s *Scheduler) Register(interval time.Duration) error {
	if interval < time.Second {
		return fmt.Errorf("poll interval %s is below one second", interval)
	}
	s.Cron.Schedule(cron.Every(interval), cron.FuncJob(func() {
		s.RunCycle(s.Ctx)
	}))
	s.Log.Info("cycle registered", zap.Duration("interval", interval))
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	switch command {
	case "/trades":
		return notifier.FormatLedger(s.Ledger.Trades())
	case "/status":
		now := s.Now().UTC()
		counts := make(map[model.Session]int)
		for _, sess := range []model.Session{model.SessionLondon, model.SessionNY} {
			counts[sess] = s.Ledger.CountBySession(sess)
		}
		return notifier.FormatStatus(notifier.Status{
			Now:           now,
			Session:       strategy.ActiveSession(now, s.Opts.Sessions),
			Pairs:         s.Opts.Pairs,
			Providers:     s.Collector.Names(),
			MaxPerSession: s.Opts.MaxPerSession,
			Counts:        counts,
			TotalTrades:   s.Ledger.Len(),
		})
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(ctx context.Context, text string) {
	if err := notifier.SendWithRetry(ctx, s.Notifier, text, s.Opts.SendRetries, s.Log); err != nil {
		s.Log.Error("send notification failed", zap.Error(err))
	}
}

// cronLogger routes cron's own logging onto zap.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
