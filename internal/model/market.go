package model

import (
	"sort"
	"time"
)

// Bar represents a single daily candlestick. Timestamp is in milliseconds since epoch.
type Bar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// Time returns the bar timestamp as a time.Time.
func (b Bar) Time() time.Time { return time.UnixMilli(b.Timestamp) }

// Valid reports whether the bar can take part in indicator computation.
func (b Bar) Valid() bool { return b.Open > 0 && b.Close > 0 }

// PriceSeries holds an ordered, read-only sequence of daily bars.
type PriceSeries struct {
	Symbol    string
	FetchedAt time.Time

	bars []Bar
}

// NewPriceSeries builds a series from raw bars: invalid bars are dropped, the rest are sorted
// ascending by timestamp and duplicate timestamps collapse to the last occurrence.
// The input slice is not modified.
func NewPriceSeries(symbol string, bars []Bar) *PriceSeries {
	valid := make([]Bar, 0, len(bars))
	for _, b := range bars {
		if b.Valid() {
			valid = append(valid, b)
		}
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].Timestamp < valid[j].Timestamp })

	out := valid[:0]
	for _, b := range valid {
		if n := len(out); n > 0 && out[n-1].Timestamp == b.Timestamp {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return &PriceSeries{Symbol: symbol, FetchedAt: time.Now(), bars: out}
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.bars)
}

// Bar returns the i-th bar.
func (s *PriceSeries) Bar(i int) Bar { return s.bars[i] }

// Last returns the most recent bar, false when the series is empty.
func (s *PriceSeries) Last() (Bar, bool) {
	if s.Len() == 0 {
		return Bar{}, false
	}
	return s.bars[len(s.bars)-1], true
}

// Bars returns a copy of the bars.
func (s *PriceSeries) Bars() []Bar {
	out := make([]Bar, s.Len())
	copy(out, s.bars)
	return out
}

// Closes returns a copy of the close prices.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i, b := range s.bars {
		closes[i] = b.Close
	}
	return closes
}

// Timestamps returns the bar timestamps in order.
func (s *PriceSeries) Timestamps() []int64 {
	ts := make([]int64, s.Len())
	for i, b := range s.bars {
		ts[i] = b.Timestamp
	}
	return ts
}

// Quote is the latest trading snapshot of a symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"regularMarketPrice"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"regularMarketChange"`
	ChangePercent float64 `json:"regularMarketChangePercent"`
	DayHigh       float64 `json:"regularMarketDayHigh"`
	DayLow        float64 `json:"regularMarketDayLow"`
	Volume        float64 `json:"regularMarketVolume"`
}
