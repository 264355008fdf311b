package strategy

import (
	"BorsaLens/internal/model"
)

// Thresholds are the RSI zone boundaries.
type Thresholds struct {
	Overbought float64 `yaml:"overbought" json:"overbought"`
	Oversold   float64 `yaml:"oversold" json:"oversold"`
}

// DefaultThresholds is the classic 70/30 split.
var DefaultThresholds = Thresholds{Overbought: 70, Oversold: 30}

// Evaluate returns the signals fired on the most recent bar of a. Earlier bars are history
// only: a signal already reported on a previous run is not repeated.
func Evaluate(a *model.Analysis, th Thresholds, maPeriod int) []model.Signal {
	if a == nil || a.Series.Len() == 0 {
		return nil
	}
	last, _ := a.Series.Last()

	var out []model.Signal
	if s, ok := macdCross(a, last); ok {
		out = append(out, s)
	}
	if s, ok := rsiZone(a, last, th); ok {
		out = append(out, s)
	}
	if s, ok := maCross(a, maPeriod); ok {
		out = append(out, s)
	}
	return out
}
