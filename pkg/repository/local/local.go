package local

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
)

// Local persists the watch configuration as a single JSON file on disk.
// Writes go through a temp file and rename so a crash mid-save never leaves
// a truncated record behind.
type Local struct {
	watch *watchRepository
}

var _ interfaces.Repository = &Local{}

func New(path string) *Local {
	return &Local{
		watch: &watchRepository{path: path},
	}
}

func (l *Local) Watch() interfaces.WatchRepository {
	return l.watch
}

func (l *Local) Close() error {
	return nil
}

// watchDoc is the on-disk persistence model
type watchDoc struct {
	Channel string   `json:"channel"`
	Users   []string `json:"users"`
}

type watchRepository struct {
	mu   sync.Mutex
	path string
}

var _ interfaces.WatchRepository = &watchRepository{}

func (r *watchRepository) Get(ctx context.Context) (*model.WatchConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, interfaces.ErrNotFound
		}
		return nil, goerr.Wrap(err, "failed to read watch config", goerr.V("path", r.path))
	}

	var doc watchDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, goerr.Wrap(err, "failed to decode watch config", goerr.V("path", r.path))
	}

	return &model.WatchConfig{
		Channel: doc.Channel,
		Users:   doc.Users,
	}, nil
}

func (r *watchRepository) Save(ctx context.Context, cfg *model.WatchConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc := watchDoc{
		Channel: cfg.Channel,
		Users:   cfg.Users,
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode watch config")
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create config directory", goerr.V("dir", dir))
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temp file", goerr.V("dir", dir))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to write watch config", goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to close temp file", goerr.V("path", tmpName))
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		_ = os.Remove(tmpName)
		return goerr.Wrap(err, "failed to replace watch config", goerr.V("path", r.path))
	}
	return nil
}

func (r *watchRepository) Delete(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return goerr.Wrap(err, "failed to remove watch config", goerr.V("path", r.path))
	}
	return nil
}
