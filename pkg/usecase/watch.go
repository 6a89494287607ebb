package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
	"github.com/kensho-lab/acwatch/pkg/domain/types"
)

// WatchUseCase mutates the roster and the notification destination. All
// mutation goes through one mutex so concurrent commands cannot interleave a
// read-modify-write with a save.
type WatchUseCase struct {
	mu   sync.Mutex
	repo interfaces.Repository
}

func NewWatchUseCase(repo interfaces.Repository) *WatchUseCase {
	return &WatchUseCase{
		repo: repo,
	}
}

// loadOrDefault reads the stored configuration, treating a missing record as
// an empty one.
func (u *WatchUseCase) loadOrDefault(ctx context.Context) (*model.WatchConfig, error) {
	cfg, err := u.repo.Watch().Get(ctx)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return model.NewWatchConfig(), nil
		}
		return nil, goerr.Wrap(err, "failed to load watch config")
	}
	return cfg, nil
}

// Get returns the current configuration, empty defaults when none is stored
func (u *WatchUseCase) Get(ctx context.Context) (*model.WatchConfig, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.loadOrDefault(ctx)
}

// RegisterUsers adds accounts given as a comma-separated list, trimming
// whitespace around each name. It returns the names that were actually
// added; already-registered names are skipped silently.
func (u *WatchUseCase) RegisterUsers(ctx context.Context, namesCSV string) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cfg, err := u.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}

	var added []string
	for _, name := range strings.Split(namesCSV, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := types.UserID(name).Validate(); err != nil {
			return nil, goerr.Wrap(err, "invalid user name")
		}
		if cfg.AddUser(name) {
			added = append(added, name)
		}
	}

	if err := u.repo.Watch().Save(ctx, cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to save watch config")
	}
	return added, nil
}

// UnregisterUser removes an account from the roster. Removing an absent name
// is a no-op, not an error.
func (u *WatchUseCase) UnregisterUser(ctx context.Context, name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	cfg, err := u.loadOrDefault(ctx)
	if err != nil {
		return err
	}

	cfg.RemoveUser(name)

	if err := u.repo.Watch().Save(ctx, cfg); err != nil {
		return goerr.Wrap(err, "failed to save watch config")
	}
	return nil
}

// ListUsers returns the roster sorted for display
func (u *WatchUseCase) ListUsers(ctx context.Context) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	cfg, err := u.loadOrDefault(ctx)
	if err != nil {
		return nil, err
	}
	return cfg.SortedUsers(), nil
}

// SetChannel overwrites the notification destination
func (u *WatchUseCase) SetChannel(ctx context.Context, channel string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if channel == "" {
		return goerr.New("channel is required")
	}

	cfg, err := u.loadOrDefault(ctx)
	if err != nil {
		return err
	}

	cfg.Channel = channel

	if err := u.repo.Watch().Save(ctx, cfg); err != nil {
		return goerr.Wrap(err, "failed to save watch config")
	}
	return nil
}
