package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/kensho-lab/acwatch/pkg/domain/model"
)

// ErrNotFound is returned by WatchRepository.Get when no prior state has
// been persisted. Callers treat it as "use empty defaults", not as fatal.
var ErrNotFound = goerr.New("watch config not found")

// Repository defines the interface for data persistence
type Repository interface {
	Watch() WatchRepository
	Close() error
}

// WatchRepository persists the single WatchConfig record
type WatchRepository interface {
	// Get retrieves the stored configuration, ErrNotFound if none exists
	Get(ctx context.Context) (*model.WatchConfig, error)

	// Save atomically overwrites the stored configuration
	Save(ctx context.Context, cfg *model.WatchConfig) error

	// Delete removes the stored configuration. Deleting an empty store is
	// not an error.
	Delete(ctx context.Context) error
}
