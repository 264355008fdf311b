package recorder

import "BorsaLens/internal/model"

// Snapshot is the latest indicator reading of one symbol in one run.
type Snapshot struct {
	RunID    string
	Analysis *model.Analysis
}

// SignalEvent records a signal emitted during a run.
type SignalEvent struct {
	RunID  string
	Signal model.Signal
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordSnapshot(snap *Snapshot) error
	RecordSignal(evt *SignalEvent) error
	Close() error
}
