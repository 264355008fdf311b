package calculator

import (
	"fmt"

	"BorsaLens/internal/model"
)

// DefaultRSIPeriod is the classic Wilder lookback.
const DefaultRSIPeriod = 14

// ComputeRSI computes the Wilder-smoothed RSI, index-aligned to the series.
// Indices 0..period-1 are absent; the first value sits at index period.
//
// When the average loss is zero, rs is taken as 100 rather than infinity, so a series
// without any loss reads 100 - 100/101 instead of exactly 100.
func ComputeRSI(series *model.PriceSeries, period int) ([]model.IndicatorPoint, error) {
	if period <= 0 {
		return nil, fmt.Errorf("%w: RSI period must be positive, got %d", ErrInvalidParameter, period)
	}
	n := series.Len()
	if period > n-1 {
		return nil, fmt.Errorf("%w: RSI(%d) needs %d bars, got %d", ErrInsufficientData, period, period+1, n)
	}

	closes := series.Closes()
	gains := make([]float64, n-1)
	losses := make([]float64, n-1)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = -change
		}
	}

	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	out := make([]model.IndicatorPoint, n)
	for i := range out {
		out[i].Timestamp = series.Bar(i).Timestamp
	}
	out[period].Value = model.Some(rsiFrom(avgGain, avgLoss))

	p := float64(period)
	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*(p-1) + gains[i]) / p
		avgLoss = (avgLoss*(p-1) + losses[i]) / p
		out[i+1].Value = model.Some(rsiFrom(avgGain, avgLoss))
	}
	return out, nil
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	rs := 100.0
	if avgLoss != 0 {
		rs = avgGain / avgLoss
	}
	return 100.0 - 100.0/(1.0+rs)
}
