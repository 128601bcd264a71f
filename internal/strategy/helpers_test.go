package strategy

import (
	"time"

	"FxSentinel/internal/model"
)

var baseTime = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

// risingSeries builds n bullish bars stepping up by 0.001, each closing near
// its high with an 80% body.
func risingSeries(n int) model.Series {
	bars := make(model.Series, n)
	for i := 0; i < n; i++ {
		low := 1.1 + float64(i)*0.001
		bars[i] = model.Bar{
			Time:  baseTime.Add(time.Duration(i) * time.Minute),
			Open:  low + 0.0001,
			High:  low + 0.001,
			Low:   low,
			Close: low + 0.0009,
		}
	}
	return bars
}

// fallingSeries mirrors risingSeries.
func fallingSeries(n int) model.Series {
	bars := make(model.Series, n)
	for i := 0; i < n; i++ {
		high := 1.2 - float64(i)*0.001
		bars[i] = model.Bar{
			Time:  baseTime.Add(time.Duration(i) * time.Minute),
			Open:  high - 0.0001,
			High:  high,
			Low:   high - 0.001,
			Close: high - 0.0009,
		}
	}
	return bars
}

func withLast(s model.Series, b model.Bar) model.Series {
	out := make(model.Series, len(s))
	copy(out, s)
	out[len(out)-1] = b
	return out
}
