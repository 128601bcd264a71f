package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"FxSentinel/internal/collector"
	"FxSentinel/internal/ledger"
	"FxSentinel/internal/model"
	"FxSentinel/internal/notifier"
	"FxSentinel/internal/recorder"
	"FxSentinel/internal/strategy"
)

// Bucket sizes used when one fetched series is split into two timeframes.
const (
	HigherInterval    = 15 * time.Minute
	ExecutionInterval = 5 * time.Minute
)

// RunCycle evaluates every configured pair once, in order, and returns the
// trades opened. A failing or panicking pair is skipped.
func (s *Scheduler) RunCycle(ctx context.Context) (opened []model.Trade) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.Error("cycle panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	now := s.Now().UTC()
	session := strategy.ActiveSession(now, s.Opts.Sessions)
	s.Log.Debug("cycle started", zap.Time("now", now), zap.String("session", string(session)))

	for _, pair := range s.Opts.Pairs {
		if ctx.Err() != nil {
			s.Log.Info("cycle cancelled", zap.Error(ctx.Err()))
			return opened
		}
		if t := s.processPair(ctx, pair, now, session); t != nil {
			opened = append(opened, *t)
		}
	}

	s.Log.Info("cycle complete",
		zap.String("session", string(session)),
		zap.Int("pairs", len(s.Opts.Pairs)),
		zap.Int("opened", len(opened)))
	return opened
}

func (s *Scheduler) processPair(ctx context.Context, pair string, now time.Time, session model.Session) (opened *model.Trade) {
	defer func() {
		if r := recover(); r != nil {
			s.Log.Error("pair evaluation panicked",
				zap.String("pair", pair), zap.Any("panic", r), zap.Stack("stack"))
			opened = nil
		}
	}()

	ps, err := s.Collector.Fetch(ctx, pair)
	if err != nil {
		s.Log.Warn("no market data, skipping pair", zap.String("pair", pair), zap.Error(err))
		return nil
	}

	higher, execution := s.timeframes(ps.Bars)
	d := strategy.Evaluate(strategy.Input{
		Pair:      pair,
		Higher:    higher,
		Execution: execution,
		Session:   session,
	}, s.Opts.Params)

	if !d.Accepted() {
		s.Log.Debug("no trade",
			zap.String("pair", pair), zap.String("reason", string(d.Reason)), zap.String("bias", string(d.Bias)))
		s.recordDecision(now, ps.Provider, d)
		return nil
	}

	sl, tp, rr := strategy.RiskLevels(d.Signal, d.Entry, s.Opts.Params)
	trade := model.Trade{
		ID:         uuid.New().String(),
		Pair:       pair,
		Signal:     d.Signal,
		Entry:      d.Entry,
		StopLoss:   sl,
		TakeProfit: tp,
		RiskReward: rr,
		Session:    session,
		OpenedAt:   now,
	}

	if _, err := s.Ledger.Open(trade, s.Opts.MaxPerSession); err != nil {
		if errors.Is(err, ledger.ErrSessionCapReached) {
			d.Reason = strategy.ReasonSessionCap
			s.Log.Info("session trade cap reached",
				zap.String("pair", pair), zap.String("session", string(session)), zap.Int("cap", s.Opts.MaxPerSession))
		} else {
			s.Log.Error("open trade failed", zap.String("pair", pair), zap.Error(err))
		}
		s.recordDecision(now, ps.Provider, d)
		return nil
	}

	s.Log.Info("trade opened",
		zap.String("id", trade.ID),
		zap.String("pair", pair),
		zap.String("signal", string(trade.Signal)),
		zap.Float64("entry", trade.Entry),
		zap.Float64("sl", trade.StopLoss),
		zap.Float64("tp", trade.TakeProfit),
		zap.String("session", string(session)),
		zap.String("pattern", string(d.Pattern)),
		zap.String("provider", ps.Provider))

	s.recordDecision(now, ps.Provider, d)
	if err := s.Recorder.RecordTrade(&trade); err != nil {
		s.Log.Error("record trade failed", zap.String("id", trade.ID), zap.Error(err))
	}
	s.trySend(ctx, notifier.FormatTrade(&trade))
	return &trade
}

// timeframes returns the higher and execution series. Unless splitting is
// enabled the same fetched series feeds both.
func (s *Scheduler) timeframes(bars model.Series) (higher, execution model.Series) {
	if !s.Opts.SplitTimeframes {
		return bars, bars
	}
	return collector.Resample(bars, HigherInterval), collector.Resample(bars, ExecutionInterval)
}

func (s *Scheduler) recordDecision(now time.Time, provider string, d strategy.Decision) {
	if err := s.Recorder.RecordDecision(&recorder.DecisionEvent{
		Time:     now,
		Pair:     d.Pair,
		Provider: provider,
		Session:  d.Session,
		Bias:     d.Bias,
		Signal:   d.Signal,
		Entry:    d.Entry,
		Pattern:  string(d.Pattern),
		Reason:   string(d.Reason),
	}); err != nil {
		s.Log.Error("record decision failed", zap.String("pair", d.Pair), zap.Error(err))
	}
}
