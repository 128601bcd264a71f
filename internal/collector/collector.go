package collector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"FxSentinel/internal/model"
)

// ErrNoData is returned when every provider failed or returned no bars.
var ErrNoData = errors.New("no provider returned data")

// Collector tries its providers in order and returns the first non-empty series.
type Collector struct {
	Providers []Provider
	Log       *zap.Logger
	Now       func() time.Time
}

// NewCollector creates a Collector over an ordered provider list.
func NewCollector(log *zap.Logger, providers ...Provider) *Collector {
	return &Collector{Providers: providers, Log: log, Now: time.Now}
}

// Fetch returns the first successful provider's series for pair. Provider
// failures are logged and skipped; ErrNoData means the list was exhausted.
func (c *Collector) Fetch(ctx context.Context, pair string) (*model.PriceSeries, error) {
	for _, p := range c.Providers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bars, err := p.FetchSeries(ctx, pair)
		if err != nil {
			c.Log.Warn("provider fetch failed",
				zap.String("provider", p.Name()), zap.String("pair", pair), zap.Error(err))
			continue
		}
		if len(bars) == 0 {
			c.Log.Warn("provider returned no bars",
				zap.String("provider", p.Name()), zap.String("pair", pair))
			continue
		}
		c.Log.Debug("provider fetch ok",
			zap.String("provider", p.Name()), zap.String("pair", pair), zap.Int("bars", len(bars)))
		return &model.PriceSeries{
			Pair:      pair,
			Provider:  p.Name(),
			Bars:      bars,
			FetchedAt: c.Now(),
		}, nil
	}
	return nil, ErrNoData
}

// Names lists provider names in priority order.
func (c *Collector) Names() []string {
	names := make([]string, len(c.Providers))
	for i, p := range c.Providers {
		names[i] = p.Name()
	}
	return names
}
