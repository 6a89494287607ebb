package interfaces

import (
	"context"

	"github.com/kensho-lab/acwatch/pkg/domain/model"
)

// Notifier delivers report output to the configured chat channel
type Notifier interface {
	// PostPages sends every page of one report run as a single message
	PostPages(ctx context.Context, channel string, pages []model.ReportPage) error

	// PostNotice sends a plain text notice
	PostNotice(ctx context.Context, channel string, text string) error
}
