package calculator

import (
	"fmt"

	"BorsaLens/internal/model"
)

// DefaultMAPeriods are the short, medium and long term moving averages.
var DefaultMAPeriods = []int{20, 50, 200}

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("%w: period must be positive, got %d", ErrInvalidParameter, period)
	}
	if len(prices) < period {
		return 0, fmt.Errorf("%w: SMA(%d) needs %d prices, got %d", ErrInsufficientData, period, period, len(prices))
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// ComputeMA returns the simple moving average of closes, index-aligned to the series.
// Points before index period-1 are absent; a series shorter than period yields only absent points.
func ComputeMA(series *model.PriceSeries, period int) ([]model.IndicatorPoint, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: MA period must be positive, got %d", ErrInvalidParameter, period)
	}
	closes := series.Closes()
	out := make([]model.IndicatorPoint, len(closes))
	for i := range closes {
		out[i].Timestamp = series.Bar(i).Timestamp
		if i < period-1 {
			continue
		}
		avg, err := CalculateSMA(closes[i-period+1:i+1], period)
		if err != nil {
			return nil, err
		}
		out[i].Value = model.Some(avg)
	}
	return out, nil
}

// ComputeMultipleMA computes one MA line per period. Defaults to DefaultMAPeriods.
func ComputeMultipleMA(series *model.PriceSeries, periods ...int) (map[int][]model.IndicatorPoint, error) {
	if len(periods) == 0 {
		periods = DefaultMAPeriods
	}
	lines := make(map[int][]model.IndicatorPoint, len(periods))
	for _, p := range periods {
		line, err := ComputeMA(series, p)
		if err != nil {
			return nil, err
		}
		lines[p] = line
	}
	return lines, nil
}
