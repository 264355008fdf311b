package calculator

import (
	"fmt"

	"BorsaLens/internal/model"
)

// MACDParams holds the three MACD lookbacks.
type MACDParams struct {
	Short  int `yaml:"short" json:"short"`
	Long   int `yaml:"long" json:"long"`
	Signal int `yaml:"signal" json:"signal"`
}

// DefaultMACDParams is the conventional 12/26/9 setup.
var DefaultMACDParams = MACDParams{Short: 12, Long: 26, Signal: 9}

// Validate rejects non-positive periods and a short period that is not below the long one.
func (p MACDParams) Validate() error {
	if p.Short <= 0 || p.Long <= 0 || p.Signal <= 0 {
		return fmt.Errorf("%w: MACD periods must be positive, got %d/%d/%d", ErrInvalidParameter, p.Short, p.Long, p.Signal)
	}
	if p.Short >= p.Long {
		return fmt.Errorf("%w: MACD short period %d must be below long period %d", ErrInvalidParameter, p.Short, p.Long)
	}
	return nil
}

// ComputeMACD computes the MACD line, its signal line and histogram, index-aligned to the series.
// The MACD value first appears at index Long-1 and the signal at index Long+Signal-2.
func ComputeMACD(series *model.PriceSeries, params MACDParams) ([]model.MACDPoint, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if series.Len() < params.Long {
		return nil, fmt.Errorf("%w: MACD(%d) needs %d bars, got %d", ErrInsufficientData, params.Long, params.Long, series.Len())
	}

	emaShort, err := ComputeEMA(series, params.Short)
	if err != nil {
		return nil, err
	}
	emaLong, err := ComputeEMA(series, params.Long)
	if err != nil {
		return nil, err
	}

	// emaShort starts Long-Short bars earlier; right-align it to emaLong.
	offset := len(emaShort) - len(emaLong)
	macdLine := make([]float64, len(emaLong))
	for k := range emaLong {
		macdLine[k] = emaShort[k+offset] - emaLong[k]
	}

	var signalLine []float64
	if len(macdLine) >= params.Signal {
		if signalLine, err = emaOf(macdLine, params.Signal); err != nil {
			return nil, err
		}
	}

	start := params.Long - 1
	out := make([]model.MACDPoint, series.Len())
	for i := range out {
		out[i].Timestamp = series.Bar(i).Timestamp
		if i < start {
			continue
		}
		macdIdx := i - start
		out[i].MACD = model.Some(macdLine[macdIdx])
		if sigIdx := macdIdx - (params.Signal - 1); sigIdx >= 0 {
			out[i].Signal = model.Some(signalLine[sigIdx])
			out[i].Histogram = out[i].MACD.Sub(out[i].Signal)
		}
	}
	return out, nil
}
