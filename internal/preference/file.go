package preference

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	log "github.com/sirupsen/logrus"

	"BorsaLens/internal/model"
)

// FileStore stores the selection as a JSON value ("MA", "RSI", "MACD" or null) in a file.
type FileStore struct {
	mu       sync.Mutex
	filePath string
}

// NewFileStore creates a FileStore, creating the parent directory if needed.
func NewFileStore(filePath string) (*FileStore, error) {
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create preference dir: %w", err)
		}
	}
	return &FileStore{filePath: filePath}, nil
}

// Load reads the saved selection. A missing file yields ErrNotSet; a corrupt file is
// reported as an error so callers can fall back to their default.
func (f *FileStore) Load(_ context.Context) (model.IndicatorKind, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.KindNone, ErrNotSet
		}
		return model.KindNone, err
	}
	var kind model.IndicatorKind
	if err := json.Unmarshal(data, &kind); err != nil {
		log.WithError(err).Errorf("corrupt preference file %s", f.filePath)
		return model.KindNone, fmt.Errorf("decode preference: %w", err)
	}
	return kind, nil
}

func (f *FileStore) Save(_ context.Context, kind model.IndicatorKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(kind)
	if err != nil {
		return err
	}
	return os.WriteFile(f.filePath, data, 0o644)
}

// Clear removes the saved selection.
func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
