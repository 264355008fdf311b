package calculator

import (
	"fmt"

	"BorsaLens/internal/model"
)

// Request selects an indicator and its parameters. Period applies to MA and RSI.
type Request struct {
	Kind   model.IndicatorKind
	Period int
	MACD   MACDParams
}

// Result carries the output of exactly one indicator kind.
type Result struct {
	Kind   model.IndicatorKind    `json:"kind"`
	Period int                    `json:"period,omitempty"`
	Points []model.IndicatorPoint `json:"points,omitempty"`
	MACD   []model.MACDPoint      `json:"macd,omitempty"`
}

// DefaultPeriod returns the default lookback for MA and RSI.
func DefaultPeriod(kind model.IndicatorKind) int {
	switch kind {
	case model.KindMA:
		return DefaultMAPeriods[0]
	case model.KindRSI:
		return DefaultRSIPeriod
	}
	return 0
}

// Compute runs the engine selected by req.Kind. KindNone yields an empty result.
func Compute(series *model.PriceSeries, req Request) (*Result, error) {
	res := &Result{Kind: req.Kind}
	switch req.Kind {
	case model.KindNone:
		return res, nil
	case model.KindMA:
		res.Period = periodOrDefault(req)
		points, err := ComputeMA(series, res.Period)
		if err != nil {
			return nil, err
		}
		res.Points = points
	case model.KindRSI:
		res.Period = periodOrDefault(req)
		points, err := ComputeRSI(series, res.Period)
		if err != nil {
			return nil, err
		}
		res.Points = points
	case model.KindMACD:
		params := req.MACD
		if params == (MACDParams{}) {
			params = DefaultMACDParams
		}
		points, err := ComputeMACD(series, params)
		if err != nil {
			return nil, err
		}
		res.MACD = points
	default:
		return nil, fmt.Errorf("%w: unknown indicator kind %q", ErrInvalidParameter, string(req.Kind))
	}
	return res, nil
}

func periodOrDefault(req Request) int {
	if req.Period == 0 {
		return DefaultPeriod(req.Kind)
	}
	return req.Period
}

// Params configures the full indicator set computed for an analysis.
type Params struct {
	MAPeriods []int      `yaml:"ma_periods"`
	RSIPeriod int        `yaml:"rsi_period"`
	MACD      MACDParams `yaml:"macd"`
}

// DefaultParams returns MA 20/50/200, RSI 14 and MACD 12/26/9.
func DefaultParams() Params {
	return Params{
		MAPeriods: append([]int(nil), DefaultMAPeriods...),
		RSIPeriod: DefaultRSIPeriod,
		MACD:      DefaultMACDParams,
	}
}

// Validate checks every period before any computation starts.
func (p Params) Validate() error {
	for _, period := range p.MAPeriods {
		if period <= 0 {
			return fmt.Errorf("%w: MA period must be positive, got %d", ErrInvalidParameter, period)
		}
	}
	if p.RSIPeriod <= 0 {
		return fmt.Errorf("%w: RSI period must be positive, got %d", ErrInvalidParameter, p.RSIPeriod)
	}
	return p.MACD.Validate()
}
