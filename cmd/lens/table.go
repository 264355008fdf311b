package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/model"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer, title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	return t
}

// renderIndicator prints the last rows of an indicator result next to the closes.
func renderIndicator(w io.Writer, series *model.PriceSeries, res *calculator.Result, last int) {
	t := newTable(w, fmt.Sprintf("%s %s", series.Symbol, label(res)))
	switch res.Kind {
	case model.KindMACD:
		t.AppendHeader(table.Row{"Date", "Close", "MACD", "Signal", "Histogram"})
	case model.KindNone:
		t.AppendHeader(table.Row{"Date", "Close"})
	default:
		t.AppendHeader(table.Row{"Date", "Close", label(res)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	start := 0
	if last > 0 && series.Len() > last {
		start = series.Len() - last
	}
	for i := start; i < series.Len(); i++ {
		bar := series.Bar(i)
		row := table.Row{bar.Time().UTC().Format(dateLayout), fmt.Sprintf("%.2f", bar.Close)}
		switch {
		case res.Kind == model.KindMACD:
			p := res.MACD[i]
			row = append(row, p.MACD.String(), p.Signal.String(), p.Histogram.String())
		case res.Kind != model.KindNone:
			row = append(row, res.Points[i].Value.String())
		}
		t.AppendRow(row)
	}
	t.Render()
}

func label(res *calculator.Result) string {
	switch res.Kind {
	case model.KindMA, model.KindRSI:
		return fmt.Sprintf("%s%d", res.Kind, res.Period)
	}
	return res.Kind.String()
}

// renderSummary prints the headline numbers of an analysis.
func renderSummary(w io.Writer, a *model.Analysis) {
	s := a.Summary
	t := newTable(w, a.Symbol)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRow(table.Row{"Close", fmt.Sprintf("%.2f", s.LastClose)})
	t.AppendRow(table.Row{"Change", fmt.Sprintf("%+.2f (%+.2f%%)", s.Change, s.ChangePercent)})
	t.AppendRow(table.Row{"52w range", fmt.Sprintf("%.2f - %.2f", s.Low52w, s.High52w)})
	t.AppendRow(table.Row{"52w position", fmt.Sprintf("%.0f%%", s.Position52w*100)})
	t.AppendSeparator()

	periods := make([]int, 0, len(s.MA))
	for p := range s.MA {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	for _, p := range periods {
		t.AppendRow(table.Row{fmt.Sprintf("MA%d", p), s.MA[p].String()})
	}
	t.AppendRow(table.Row{"RSI", s.RSI.String()})
	t.AppendRow(table.Row{"MACD", s.MACD.MACD.String()})
	t.AppendRow(table.Row{"Signal", s.MACD.Signal.String()})
	t.AppendRow(table.Row{"Histogram", s.MACD.Histogram.String()})
	t.Render()
}

// renderStocks prints the tracked stocks, with the latest quote when one is available.
func renderStocks(w io.Writer, stocks []model.Stock, quotes map[string]*model.Quote) {
	t := newTable(w, "Tracked stocks")
	header := table.Row{"Symbol", "Name"}
	if quotes != nil {
		header = append(header, "Price", "Change %")
	}
	t.AppendHeader(header)
	for _, s := range stocks {
		row := table.Row{s.Symbol, s.Name}
		if quotes != nil {
			if q, ok := quotes[s.Symbol]; ok {
				row = append(row, fmt.Sprintf("%.2f", q.Price), fmt.Sprintf("%+.2f", q.ChangePercent))
			} else {
				row = append(row, "-", "-")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}
