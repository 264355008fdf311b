package calculator

import (
	"fmt"

	"BorsaLens/internal/model"
)

// ComputeEMA returns the exponential moving average of closes. The first value is the simple
// mean of the first period closes, so the result has len(series)-period+1 elements and is
// not index-aligned to the series.
func ComputeEMA(series *model.PriceSeries, period int) ([]float64, error) {
	return emaOf(series.Closes(), period)
}

func emaOf(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: EMA period must be positive, got %d", ErrInvalidParameter, period)
	}
	if len(values) < period {
		return nil, fmt.Errorf("%w: EMA(%d) needs %d values, got %d", ErrInsufficientData, period, period, len(values))
	}

	multiplier := 2 / float64(period+1)
	ema := make([]float64, 0, len(values)-period+1)

	sum := 0.0
	for _, v := range values[:period] {
		sum += v
	}
	ema = append(ema, sum/float64(period))

	for _, v := range values[period:] {
		prev := ema[len(ema)-1]
		ema = append(ema, (v-prev)*multiplier+prev)
	}
	return ema, nil
}
