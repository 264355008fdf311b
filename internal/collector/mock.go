package collector

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"BorsaLens/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	Days      int
	DailyData map[string][]model.Bar
	Err       error
	// FailFirst makes the first N calls fail with a temporary error.
	FailFirst int32

	calls int32
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many fetches were attempted.
func (m *MockFetcher) Calls() int { return int(atomic.LoadInt32(&m.calls)) }

func (m *MockFetcher) attempt() error {
	n := atomic.AddInt32(&m.calls, 1)
	if n <= m.FailFirst {
		return &StatusError{Source: m.Name(), Code: 503, Body: "unavailable"}
	}
	return m.Err
}

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, _ Range) ([]model.Bar, error) {
	if err := m.attempt(); err != nil {
		return nil, err
	}
	if bars, ok := m.DailyData[symbol]; ok {
		return bars, nil
	}
	if m.DailyData != nil {
		return nil, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	days := m.Days
	if days == 0 {
		days = 300
	}
	return GenerateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchQuote(ctx context.Context, symbol string) (*model.Quote, error) {
	bars, err := m.FetchDailyBars(ctx, symbol, Range1M)
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("mock: no price data")
	}
	last := bars[len(bars)-1]
	prev := last.Open
	if len(bars) > 1 {
		prev = bars[len(bars)-2].Close
	}
	return newQuote(symbol, last.Close, prev, last.High, last.Low, last.Volume), nil
}

// GenerateMockBars builds count daily bars oscillating around basePrice, ending yesterday.
func GenerateMockBars(basePrice float64, count int) []model.Bar {
	if basePrice <= 0 {
		basePrice = 100
	}
	end := time.Now().Truncate(24 * time.Hour)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.05*math.Sin(float64(i)/8) + float64(i-count/2)*0.0005)
		bars[i] = model.Bar{
			Timestamp: end.AddDate(0, 0, -(count - i)).UnixMilli(),
			Open:      p * 0.999,
			High:      p * 1.005,
			Low:       p * 0.995,
			Close:     p,
			Volume:    1000000,
		}
	}
	return bars
}
