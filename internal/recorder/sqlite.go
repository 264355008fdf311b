package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"BorsaLens/internal/model"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets readers query while a run is writing.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS indicator_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			run_id         TEXT,
			symbol         TEXT NOT NULL,
			bar_time       INTEGER,
			close          REAL,
			change_pct     REAL,
			high_52w       REAL,
			low_52w        REAL,
			position_52w   REAL,
			rsi            REAL,
			macd           REAL,
			macd_signal    REAL,
			macd_histogram REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol_ts ON indicator_snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS ma_values (
			snapshot_id INTEGER NOT NULL REFERENCES indicator_snapshots(id),
			period      INTEGER NOT NULL,
			value       REAL,
			PRIMARY KEY (snapshot_id, period)
		)`,

		`CREATE TABLE IF NOT EXISTS signals (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			run_id      TEXT,
			symbol      TEXT NOT NULL,
			signal_type TEXT NOT NULL,
			bar_time    INTEGER,
			value       REAL,
			message     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_symbol_ts ON signals(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func nullFloat(v model.Value) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v.Float, Valid: v.Valid}
}

func (r *SQLiteRecorder) RecordSnapshot(snap *Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := snap.Analysis
	sum := a.Summary
	var barTime int64
	if last, ok := a.Series.Last(); ok {
		barTime = last.Timestamp
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO indicator_snapshots
		(timestamp, run_id, symbol, bar_time, close, change_pct,
		 high_52w, low_52w, position_52w, rsi, macd, macd_signal, macd_histogram)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.RunID, a.Symbol, barTime, sum.LastClose, sum.ChangePercent,
		sum.High52w, sum.Low52w, sum.Position52w,
		nullFloat(sum.RSI), nullFloat(sum.MACD.MACD), nullFloat(sum.MACD.Signal), nullFloat(sum.MACD.Histogram),
	)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	periods := make([]int, 0, len(sum.MA))
	for p := range sum.MA {
		periods = append(periods, p)
	}
	sort.Ints(periods)
	for _, p := range periods {
		if _, err := tx.Exec(`INSERT INTO ma_values (snapshot_id, period, value) VALUES (?,?,?)`,
			id, p, nullFloat(sum.MA[p])); err != nil {
			return fmt.Errorf("insert ma value: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordSignal(evt *SignalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := evt.Signal
	_, err := r.db.Exec(`INSERT INTO signals
		(timestamp, run_id, symbol, signal_type, bar_time, value, message)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RunID, s.Symbol, string(s.Type), s.Timestamp, s.Value, s.Message,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
