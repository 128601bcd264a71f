package model

import "time"

// Bar represents a single OHLC price observation.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range returns High - Low.
func (b Bar) Range() float64 { return b.High - b.Low }

// Body returns the absolute distance between open and close.
func (b Bar) Body() float64 {
	if b.Close >= b.Open {
		return b.Close - b.Open
	}
	return b.Open - b.Close
}

// Bullish reports whether the bar closed above its open.
func (b Bar) Bullish() bool { return b.Close > b.Open }

// Bearish reports whether the bar closed below its open.
func (b Bar) Bearish() bool { return b.Close < b.Open }

// UpperWick is the distance from the top of the body to the high.
func (b Bar) UpperWick() float64 {
	top := b.Open
	if b.Close > top {
		top = b.Close
	}
	return b.High - top
}

// LowerWick is the distance from the bottom of the body to the low.
func (b Bar) LowerWick() float64 {
	bottom := b.Open
	if b.Close < bottom {
		bottom = b.Close
	}
	return bottom - b.Low
}

// Series is an ordered sequence of bars, oldest first.
type Series []Bar

// Len returns the number of bars.
func (s Series) Len() int { return len(s) }

// Last returns the most recent bar. It panics on an empty series.
func (s Series) Last() Bar { return s[len(s)-1] }

// Closes extracts closing prices in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, b := range s {
		closes[i] = b.Close
	}
	return closes
}

// Tail returns the trailing n bars, or the whole series when it is shorter.
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	if n <= 0 {
		return nil
	}
	return s[len(s)-n:]
}

// PriceSeries is one fetch result for a pair.
type PriceSeries struct {
	Pair      string
	Provider  string
	Bars      Series
	FetchedAt time.Time
}
