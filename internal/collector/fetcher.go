package collector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"BorsaLens/internal/model"
)

// Range is a lookback window for daily bars.
type Range string

const (
	Range1M Range = "1mo"
	Range3M Range = "3mo"
	Range6M Range = "6mo"
	Range1Y Range = "1y"
	Range2Y Range = "2y"
	Range5Y Range = "5y"
)

// DefaultRange covers enough history for MA200.
const DefaultRange = Range2Y

// ParseRange parses a range string; empty means DefaultRange.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return DefaultRange, nil
	case Range1M, Range3M, Range6M, Range1Y, Range2Y, Range5Y:
		return r, nil
	}
	return "", fmt.Errorf("unknown range %q", s)
}

// Duration returns the calendar span of the range.
func (r Range) Duration() time.Duration {
	day := 24 * time.Hour
	switch r {
	case Range1M:
		return 30 * day
	case Range3M:
		return 90 * day
	case Range6M:
		return 180 * day
	case Range1Y:
		return 365 * day
	case Range5Y:
		return 1825 * day
	default:
		return 730 * day
	}
}

// Fetcher defines the interface for fetching market data.
// Returned bars are sorted ascending by timestamp with invalid bars removed.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, rng Range) ([]model.Bar, error)
	FetchQuote(ctx context.Context, symbol string) (*model.Quote, error)
	Name() string
}

// FormatSymbol upper-cases and trims a symbol and appends the exchange suffix if missing.
func FormatSymbol(symbol, suffix string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	suffix = strings.ToUpper(suffix)
	if s == "" || suffix == "" || strings.HasSuffix(s, suffix) {
		return s
	}
	return s + suffix
}
