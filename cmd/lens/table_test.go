package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/collector"
	"BorsaLens/internal/model"
)

func TestRenderIndicator(t *testing.T) {
	series := model.NewPriceSeries("GARAN.IS", collector.GenerateMockBars(100, 60))

	res, err := calculator.Compute(series, calculator.Request{Kind: model.KindRSI})
	require.NoError(t, err)
	var buf bytes.Buffer
	renderIndicator(&buf, series, res, 5)
	out := buf.String()
	assert.Contains(t, out, "GARAN.IS RSI14")
	assert.Contains(t, out, series.Bar(59).Time().UTC().Format(dateLayout))
	assert.Contains(t, out, series.Bar(55).Time().UTC().Format(dateLayout))
	assert.NotContains(t, out, series.Bar(54).Time().UTC().Format(dateLayout))

	res, err = calculator.Compute(series, calculator.Request{Kind: model.KindMACD})
	require.NoError(t, err)
	buf.Reset()
	renderIndicator(&buf, series, res, 0)
	assert.Contains(t, buf.String(), "HISTOGRAM")
	assert.Contains(t, buf.String(), " - ")
}

func TestRenderSummaryAndStocks(t *testing.T) {
	series := model.NewPriceSeries("AKBNK.IS", collector.GenerateMockBars(50, 30))
	a, err := collector.Analyze(series, calculator.DefaultParams())
	require.NoError(t, err)

	var buf bytes.Buffer
	renderSummary(&buf, a)
	assert.Contains(t, buf.String(), "MA200")
	assert.Contains(t, buf.String(), "AKBNK.IS")

	buf.Reset()
	renderStocks(&buf, model.DefaultStocks, map[string]*model.Quote{"GARAN.IS": {Price: 101.5, ChangePercent: 1.2}})
	out := buf.String()
	assert.Contains(t, out, "101.50")
	assert.Contains(t, out, "+1.20")
	assert.Contains(t, out, "THYAO.IS")
}
