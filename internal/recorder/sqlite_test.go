package recorder

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BorsaLens/internal/calculator"
	"BorsaLens/internal/collector"
	"BorsaLens/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "db", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func analysis(t *testing.T, symbol string, days int) *model.Analysis {
	t.Helper()
	series := model.NewPriceSeries(symbol, collector.GenerateMockBars(100, days))
	a, err := collector.Analyze(series, calculator.DefaultParams())
	require.NoError(t, err)
	return a
}

func TestSQLiteRecorder_RecordSnapshot(t *testing.T) {
	r := openTestRecorder(t)
	a := analysis(t, "GARAN.IS", 300)

	require.NoError(t, r.RecordSnapshot(&Snapshot{RunID: "run-1", Analysis: a}))

	var (
		symbol, runID string
		closePrice    float64
		rsi, hist     sql.NullFloat64
		id            int64
	)
	row := r.db.QueryRow(`SELECT id, symbol, run_id, close, rsi, macd_histogram FROM indicator_snapshots`)
	require.NoError(t, row.Scan(&id, &symbol, &runID, &closePrice, &rsi, &hist))
	assert.Equal(t, "GARAN.IS", symbol)
	assert.Equal(t, "run-1", runID)
	assert.Equal(t, a.Summary.LastClose, closePrice)
	assert.True(t, rsi.Valid)
	assert.InDelta(t, a.Summary.RSI.Float, rsi.Float64, 1e-9)
	assert.True(t, hist.Valid)

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM ma_values WHERE snapshot_id = ? AND value IS NOT NULL`, id).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestSQLiteRecorder_AbsentValuesAreNull(t *testing.T) {
	r := openTestRecorder(t)
	a := analysis(t, "NEW.IS", 10)

	require.NoError(t, r.RecordSnapshot(&Snapshot{RunID: "run-2", Analysis: a}))

	var rsi, macd sql.NullFloat64
	require.NoError(t, r.db.QueryRow(`SELECT rsi, macd FROM indicator_snapshots WHERE symbol = 'NEW.IS'`).Scan(&rsi, &macd))
	assert.False(t, rsi.Valid)
	assert.False(t, macd.Valid)

	var nulls int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM ma_values WHERE value IS NULL`).Scan(&nulls))
	assert.Equal(t, 3, nulls)
}

func TestSQLiteRecorder_RecordSignal(t *testing.T) {
	r := openTestRecorder(t)
	require.NoError(t, r.RecordSignal(&SignalEvent{RunID: "run-3", Signal: model.Signal{
		Symbol: "THYAO.IS", Type: model.SignalRSIOversold, Timestamp: 1700000000000, Value: 25.5, Message: "oversold",
	}}))

	var typ string
	var value float64
	require.NoError(t, r.db.QueryRow(`SELECT signal_type, value FROM signals WHERE symbol = 'THYAO.IS'`).Scan(&typ, &value))
	assert.Equal(t, "RSI_OVERSOLD", typ)
	assert.Equal(t, 25.5, value)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordSnapshot(&Snapshot{}))
	assert.NoError(t, r.RecordSignal(&SignalEvent{}))
	assert.NoError(t, r.Close())
}
