package collector

import (
	"time"

	"FxSentinel/internal/model"
)

// Resample aggregates bars into buckets of the given interval aligned to the
// epoch (e.g. 5m buckets start at :00, :05, ...). Input must be chronological.
func Resample(bars model.Series, interval time.Duration) model.Series {
	if len(bars) == 0 || interval <= 0 {
		return nil
	}
	var out model.Series
	var cur model.Bar
	var curKey time.Time
	started := false

	for _, b := range bars {
		key := b.Time.Truncate(interval)
		if !started {
			cur = model.Bar{Time: key, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			curKey = key
			started = true
			continue
		}
		if !key.Equal(curKey) {
			out = append(out, cur)
			cur = model.Bar{Time: key, Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
			curKey = key
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	if started {
		out = append(out, cur)
	}
	return out
}
