package preference

import (
	"context"
	"errors"
	"sync"

	"BorsaLens/internal/model"
)

// ErrNotSet is returned by Load when no selection has been saved.
var ErrNotSet = errors.New("preference not set")

// Store persists which indicator a user last selected.
type Store interface {
	Load(ctx context.Context) (model.IndicatorKind, error)
	Save(ctx context.Context, kind model.IndicatorKind) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the selection in process memory. It behaves like FileStore: after Clear,
// Load reports ErrNotSet.
type MemoryStore struct {
	mu   sync.Mutex
	kind model.IndicatorKind
	set  bool
}

func NewMemoryStore(initial model.IndicatorKind) *MemoryStore {
	return &MemoryStore{kind: initial, set: true}
}

func (m *MemoryStore) Load(_ context.Context) (model.IndicatorKind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return model.KindNone, ErrNotSet
	}
	return m.kind, nil
}

func (m *MemoryStore) Save(_ context.Context, kind model.IndicatorKind) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kind = kind
	m.set = true
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kind = model.KindNone
	m.set = false
	return nil
}

// LoadOr returns the stored selection, or fallback when nothing was stored or the store fails.
func LoadOr(ctx context.Context, s Store, fallback model.IndicatorKind) model.IndicatorKind {
	kind, err := s.Load(ctx)
	if err != nil {
		return fallback
	}
	return kind
}
