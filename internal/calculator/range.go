package calculator

import (
	"fmt"
	"math"

	"BorsaLens/internal/model"
)

// TradingDays52w is the number of trading days in 52 weeks.
const TradingDays52w = 252

// PeriodRange scans the most recent lookback bars and returns the highest high and lowest low.
func PeriodRange(series *model.PriceSeries, lookback int) (high, low float64, err error) {
	if lookback <= 0 {
		return 0, 0, fmt.Errorf("%w: lookback must be positive, got %d", ErrInvalidParameter, lookback)
	}
	n := series.Len()
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: no bars provided", ErrInsufficientData)
	}
	start := n - lookback
	if start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		b := series.Bar(i)
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return high, low, nil
}

// RangePosition returns where the current price sits within [low, high], clamped to 0.0~1.0.
func RangePosition(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, fmt.Errorf("%w: high must be >= low", ErrInvalidParameter)
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}

// PriceChange returns the percentage change from previous to current, 0 when previous is 0.
func PriceChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
