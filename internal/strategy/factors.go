package strategy

import (
	"fmt"

	"BorsaLens/internal/model"
)

// Crossover is a bar where the MACD line crossed its signal line.
type Crossover struct {
	Index     int
	Timestamp int64
	Up        bool
}

// Crossovers finds the bars where the MACD histogram changes sign. A zero or absent
// histogram carries no sign; the comparison is against the last bar that had one.
func Crossovers(points []model.MACDPoint) []Crossover {
	var out []Crossover
	prev := 0
	for i, p := range points {
		h, ok := p.Histogram.Get()
		if !ok || h == 0 {
			continue
		}
		sign := 1
		if h < 0 {
			sign = -1
		}
		if prev != 0 && sign != prev {
			out = append(out, Crossover{Index: i, Timestamp: p.Timestamp, Up: sign > 0})
		}
		prev = sign
	}
	return out
}

func macdCross(a *model.Analysis, last model.Bar) (model.Signal, bool) {
	n := len(a.MACD)
	if n == 0 {
		return model.Signal{}, false
	}
	cs := Crossovers(a.MACD)
	if len(cs) == 0 || cs[len(cs)-1].Index != n-1 {
		return model.Signal{}, false
	}
	c := cs[len(cs)-1]
	p := a.MACD[n-1]
	s := model.Signal{
		Symbol:    a.Symbol,
		Timestamp: last.Timestamp,
		Value:     p.Histogram.Float,
	}
	if c.Up {
		s.Type = model.SignalMACDCrossUp
		s.Message = fmt.Sprintf("MACD crossed above signal (%.2f > %s)", p.MACD.Float, p.Signal)
	} else {
		s.Type = model.SignalMACDCrossDown
		s.Message = fmt.Sprintf("MACD crossed below signal (%.2f < %s)", p.MACD.Float, p.Signal)
	}
	return s, true
}

func rsiZone(a *model.Analysis, last model.Bar, th Thresholds) (model.Signal, bool) {
	v, ok := a.Summary.RSI.Get()
	if !ok {
		return model.Signal{}, false
	}
	s := model.Signal{Symbol: a.Symbol, Timestamp: last.Timestamp, Value: v}
	switch {
	case v >= th.Overbought:
		s.Type = model.SignalRSIOverbought
		s.Message = fmt.Sprintf("RSI %.2f at or above %.0f", v, th.Overbought)
	case v <= th.Oversold:
		s.Type = model.SignalRSIOversold
		s.Message = fmt.Sprintf("RSI %.2f at or below %.0f", v, th.Oversold)
	default:
		return model.Signal{}, false
	}
	return s, true
}

// maCross compares the last two closes against the MA line of the given period.
func maCross(a *model.Analysis, period int) (model.Signal, bool) {
	line := a.MA[period]
	n := a.Series.Len()
	if n < 2 || len(line) != n {
		return model.Signal{}, false
	}
	prevMA, ok1 := line[n-2].Value.Get()
	lastMA, ok2 := line[n-1].Value.Get()
	if !ok1 || !ok2 {
		return model.Signal{}, false
	}
	prev, last := a.Series.Bar(n-2), a.Series.Bar(n-1)

	s := model.Signal{Symbol: a.Symbol, Timestamp: last.Timestamp, Value: lastMA}
	switch {
	case prev.Close <= prevMA && last.Close > lastMA:
		s.Type = model.SignalPriceAboveMA
		s.Message = fmt.Sprintf("close %.2f crossed above MA%d %.2f", last.Close, period, lastMA)
	case prev.Close >= prevMA && last.Close < lastMA:
		s.Type = model.SignalPriceBelowMA
		s.Message = fmt.Sprintf("close %.2f crossed below MA%d %.2f", last.Close, period, lastMA)
	default:
		return model.Signal{}, false
	}
	return s, true
}
