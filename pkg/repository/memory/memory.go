package memory

import (
	"context"
	"sync"

	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory is a map-backed repository for tests and development
type Memory struct {
	watch *watchRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		watch: &watchRepository{},
	}
}

func (m *Memory) Watch() interfaces.WatchRepository {
	return m.watch
}

func (m *Memory) Close() error {
	return nil
}

type watchRepository struct {
	mu  sync.RWMutex
	cfg *model.WatchConfig
}

var _ interfaces.WatchRepository = &watchRepository{}

func (r *watchRepository) Get(ctx context.Context) (*model.WatchConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.cfg == nil {
		return nil, interfaces.ErrNotFound
	}
	return r.cfg.Clone(), nil
}

func (r *watchRepository) Save(ctx context.Context, cfg *model.WatchConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg = cfg.Clone()
	return nil
}

func (r *watchRepository) Delete(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cfg = nil
	return nil
}
