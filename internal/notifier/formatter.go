package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"BorsaLens/internal/model"
)

// Messages are sent with HTML parse mode: every dynamic string goes through html.EscapeString.

// FormatAnalysis renders the summary of a single symbol. Only the section of the selected
// indicator kind is shown; KindNone renders price information alone.
func FormatAnalysis(a *model.Analysis, kind model.IndicatorKind) string {
	var b strings.Builder
	s := a.Summary

	b.WriteString(fmt.Sprintf("📊 <b>%s</b>\n", html.EscapeString(a.Symbol)))
	b.WriteString(fmt.Sprintf("Close: %.2f (%+.2f, %+.2f%%)\n", s.LastClose, s.Change, s.ChangePercent))
	if s.High52w > 0 {
		b.WriteString(fmt.Sprintf("52w: %.2f - %.2f (position %.0f%%)\n", s.Low52w, s.High52w, s.Position52w*100))
	}

	switch kind {
	case model.KindMA:
		periods := make([]int, 0, len(s.MA))
		for p := range s.MA {
			periods = append(periods, p)
		}
		sort.Ints(periods)
		for _, p := range periods {
			v := s.MA[p]
			if !v.Valid {
				b.WriteString(fmt.Sprintf("MA%d: -\n", p))
				continue
			}
			b.WriteString(fmt.Sprintf("MA%d: %.2f (%+.1f%%)\n", p, v.Float, (s.LastClose-v.Float)/v.Float*100))
		}
	case model.KindRSI:
		b.WriteString(fmt.Sprintf("RSI: %s%s\n", s.RSI, rsiNote(s.RSI)))
	case model.KindMACD:
		m := s.MACD
		b.WriteString(fmt.Sprintf("MACD: %s | Signal: %s | Hist: %s\n", m.MACD, m.Signal, m.Histogram))
	}
	return b.String()
}

func rsiNote(v model.Value) string {
	switch {
	case !v.Valid:
		return ""
	case v.Float >= 70:
		return " (overbought)"
	case v.Float <= 30:
		return " (oversold)"
	default:
		return ""
	}
}

// FormatReport renders the daily report for all tracked symbols.
func FormatReport(analyses []*model.Analysis, kind model.IndicatorKind, signals []model.Signal, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("<b>BorsaLens daily report</b> | %s\n", now.Format("2006-01-02")))
	if kind != model.KindNone {
		b.WriteString(fmt.Sprintf("Indicator: %s\n", kind))
	}
	for _, a := range analyses {
		b.WriteString("\n")
		b.WriteString(FormatAnalysis(a, kind))
	}
	if len(signals) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatSignals(signals))
	}
	return b.String()
}

// FormatSignals renders one line per signal.
func FormatSignals(signals []model.Signal) string {
	if len(signals) == 0 {
		return "No signals today."
	}
	var b strings.Builder
	b.WriteString("🔔 <b>Signals</b>\n")
	for _, s := range signals {
		b.WriteString(fmt.Sprintf("%s %s: %s\n", signalIcon(s.Type), html.EscapeString(s.Symbol), html.EscapeString(s.Message)))
	}
	return b.String()
}

func signalIcon(t model.SignalType) string {
	switch t {
	case model.SignalMACDCrossUp, model.SignalPriceAboveMA, model.SignalRSIOversold:
		return "🟢"
	default:
		return "🔴"
	}
}

// FormatError renders a failure reply; err may carry a raw provider response body.
func FormatError(what string, err error) string {
	return fmt.Sprintf("❌ %s: %s", html.EscapeString(what), html.EscapeString(err.Error()))
}

// FormatStocks lists the tracked symbols.
func FormatStocks(stocks []model.Stock) string {
	var b strings.Builder
	b.WriteString("<b>Tracked stocks</b>\n")
	for _, s := range stocks {
		if s.Name != "" {
			b.WriteString(fmt.Sprintf("• %s (%s)\n", html.EscapeString(s.Symbol), html.EscapeString(s.Name)))
		} else {
			b.WriteString(fmt.Sprintf("• %s\n", html.EscapeString(s.Symbol)))
		}
	}
	return b.String()
}
