package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the use case layer
var (
	// ErrChannelNotConfigured aborts a report run before any fetch
	ErrChannelNotConfigured = goerr.New("notification channel is not configured")

	// ErrReportInProgress rejects a trigger that overlaps a running report
	ErrReportInProgress = goerr.New("a report run is already in progress")
)
