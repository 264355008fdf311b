package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is an optional real number. The zero value is absent.
type Value struct {
	Float float64
	Valid bool
}

// Some returns a present Value.
func Some(v float64) Value { return Value{Float: v, Valid: true} }

// Get returns the value and whether it is present.
func (v Value) Get() (float64, bool) { return v.Float, v.Valid }

// Sub returns v - o when both are present, absent otherwise.
func (v Value) Sub(o Value) Value {
	if !v.Valid || !o.Valid {
		return Value{}
	}
	return Some(v.Float - o.Float)
}

func (v Value) String() string {
	if !v.Valid {
		return "-"
	}
	return strconv.FormatFloat(v.Float, 'f', 2, 64)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(v.Float)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*v = Value{}
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	*v = Some(f)
	return nil
}

// IndicatorPoint is one output sample of a single-line indicator, aligned to a series bar.
type IndicatorPoint struct {
	Timestamp int64 `json:"timestamp"`
	Value     Value `json:"value"`
}

// MACDPoint is one output sample of MACD. Histogram is MACD - Signal when both are present.
type MACDPoint struct {
	Timestamp int64 `json:"timestamp"`
	MACD      Value `json:"macd"`
	Signal    Value `json:"signal"`
	Histogram Value `json:"histogram"`
}

// LastValue returns the last present value of an indicator line.
func LastValue(points []IndicatorPoint) Value {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Value.Valid {
			return points[i].Value
		}
	}
	return Value{}
}

// Summary holds the headline numbers of an analysis.
type Summary struct {
	LastClose     float64       `json:"lastClose"`
	PrevClose     float64       `json:"prevClose"`
	Change        float64       `json:"change"`
	ChangePercent float64       `json:"changePercent"`
	High52w       float64       `json:"high52w"`
	Low52w        float64       `json:"low52w"`
	Position52w   float64       `json:"position52w"` // 0.0 ~ 1.0
	MA            map[int]Value `json:"ma"`
	RSI           Value         `json:"rsi"`
	MACD          MACDPoint     `json:"macd"`
}

// Analysis bundles a series with every indicator computed from it.
type Analysis struct {
	Symbol  string                   `json:"symbol"`
	Series  *PriceSeries             `json:"-"`
	MA      map[int][]IndicatorPoint `json:"ma"`
	RSI     []IndicatorPoint         `json:"rsi"`
	MACD    []MACDPoint              `json:"macd"`
	Summary Summary                  `json:"summary"`
}
