package collector

import (
	"context"
	"time"

	"FxSentinel/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	Label  string
	Series model.Series
	ByPair map[string]model.Series
	Err    error
	Calls  int
}

func (m *MockProvider) Name() string {
	if m.Label != "" {
		return m.Label
	}
	return "mock"
}

func (m *MockProvider) FetchSeries(_ context.Context, pair string) (model.Series, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if s, ok := m.ByPair[pair]; ok {
		return s, nil
	}
	return m.Series, nil
}

// GenerateTrend builds count one-minute bars starting at start, stepping the
// price by step per bar. Every bar closes in the trend direction with an 80%
// body.
func GenerateTrend(start time.Time, basePrice, step float64, count int) model.Series {
	bars := make(model.Series, count)
	for i := 0; i < count; i++ {
		p := basePrice + float64(i)*step
		b := model.Bar{Time: start.Add(time.Duration(i) * time.Minute), Volume: 1000}
		if step >= 0 {
			b.Low, b.High = p, p+step
			b.Open, b.Close = p+step*0.1, p+step*0.9
		} else {
			b.High, b.Low = p, p+step
			b.Open, b.Close = p+step*0.1, p+step*0.9
		}
		bars[i] = b
	}
	return bars
}
