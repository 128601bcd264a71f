package strategy

// Params holds every tunable of the signal pipeline. Price offsets are absolute
// price units and are applied to all pairs alike.
type Params struct {
	FastSpan          int     `yaml:"fast_span"`
	SlowSpan          int     `yaml:"slow_span"`
	BiasLookback      int     `yaml:"bias_lookback"`
	SRWindow          int     `yaml:"sr_window"`
	ZoneWidth         float64 `yaml:"zone_width"`
	MinBodyRatio      float64 `yaml:"min_body_ratio"`
	PinWickRatio      float64 `yaml:"pin_wick_ratio"`
	TrendlineLookback int     `yaml:"trendline_lookback"`
	BreakoutLookback  int     `yaml:"breakout_lookback"`
	MinBars           int     `yaml:"min_bars"`
	StopLossOffset    float64 `yaml:"stop_loss_offset"`
	TakeProfitOffset  float64 `yaml:"take_profit_offset"`
}

// DefaultParams returns the stock strategy settings.
func DefaultParams() Params {
	return Params{
		FastSpan:          50,
		SlowSpan:          200,
		BiasLookback:      3,
		SRWindow:          50,
		ZoneWidth:         0.01,
		MinBodyRatio:      0.6,
		PinWickRatio:      2,
		TrendlineLookback: 3,
		BreakoutLookback:  5,
		MinBars:           5,
		StopLossOffset:    0.01,
		TakeProfitOffset:  0.02,
	}
}

// WithDefaults fills zero fields from DefaultParams.
func (p Params) WithDefaults() Params {
	d := DefaultParams()
	if p.FastSpan == 0 {
		p.FastSpan = d.FastSpan
	}
	if p.SlowSpan == 0 {
		p.SlowSpan = d.SlowSpan
	}
	if p.BiasLookback == 0 {
		p.BiasLookback = d.BiasLookback
	}
	if p.SRWindow == 0 {
		p.SRWindow = d.SRWindow
	}
	if p.ZoneWidth == 0 {
		p.ZoneWidth = d.ZoneWidth
	}
	if p.MinBodyRatio == 0 {
		p.MinBodyRatio = d.MinBodyRatio
	}
	if p.PinWickRatio == 0 {
		p.PinWickRatio = d.PinWickRatio
	}
	if p.TrendlineLookback == 0 {
		p.TrendlineLookback = d.TrendlineLookback
	}
	if p.BreakoutLookback == 0 {
		p.BreakoutLookback = d.BreakoutLookback
	}
	if p.MinBars == 0 {
		p.MinBars = d.MinBars
	}
	if p.StopLossOffset == 0 {
		p.StopLossOffset = d.StopLossOffset
	}
	if p.TakeProfitOffset == 0 {
		p.TakeProfitOffset = d.TakeProfitOffset
	}
	return p
}

// RequiredBars is the smallest series length every confirmer can work with.
func (p Params) RequiredBars() int {
	n := p.MinBars
	for _, v := range []int{p.BreakoutLookback, p.TrendlineLookback + 1, p.BiasLookback, 2} {
		if v > n {
			n = v
		}
	}
	return n
}
