package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// IndicatorKind selects which indicator is shown. KindNone means no indicator.
type IndicatorKind string

const (
	KindNone IndicatorKind = ""
	KindMA   IndicatorKind = "MA"
	KindRSI  IndicatorKind = "RSI"
	KindMACD IndicatorKind = "MACD"
)

// IndicatorKinds lists the selectable kinds.
var IndicatorKinds = []IndicatorKind{KindMA, KindRSI, KindMACD}

// ParseIndicatorKind accepts MA, RSI, MACD (any case) and "", "none", "null", "off" for KindNone.
func ParseIndicatorKind(s string) (IndicatorKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "NONE", "NULL", "OFF":
		return KindNone, nil
	case "MA":
		return KindMA, nil
	case "RSI":
		return KindRSI, nil
	case "MACD":
		return KindMACD, nil
	}
	return KindNone, fmt.Errorf("unknown indicator kind %q", s)
}

func (k IndicatorKind) String() string {
	if k == KindNone {
		return "none"
	}
	return string(k)
}

func (k IndicatorKind) MarshalJSON() ([]byte, error) {
	if k == KindNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(k))
}

func (k *IndicatorKind) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decode indicator kind: %w", err)
	}
	if s == nil {
		*k = KindNone
		return nil
	}
	parsed, err := ParseIndicatorKind(*s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
