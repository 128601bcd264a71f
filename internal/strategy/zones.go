package strategy

import (
	"FxSentinel/internal/calculator"
	"FxSentinel/internal/model"
)

// DetectZones returns the support band anchored at the window low and the
// resistance band anchored at the window high, each ZoneWidth wide.
func DetectZones(series model.Series, p Params) []model.SRZone {
	high, low, err := calculator.TrailingRange(series, p.SRWindow)
	if err != nil {
		return nil
	}
	return []model.SRZone{
		{Low: low, High: low + p.ZoneWidth},
		{Low: high - p.ZoneWidth, High: high},
	}
}

// InAnyZone reports whether price lies inside at least one zone.
func InAnyZone(price float64, zones []model.SRZone) bool {
	for _, z := range zones {
		if z.Contains(price) {
			return true
		}
	}
	return false
}
