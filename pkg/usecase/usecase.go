package usecase

import (
	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
)

type UseCases struct {
	Watch  *WatchUseCase
	Report *ReportUseCase
}

type Option func(*UseCases)

// WithReportOptions forwards options to the report use case
func WithReportOptions(opts ...ReportOption) Option {
	return func(uc *UseCases) {
		for _, opt := range opts {
			opt(uc.Report)
		}
	}
}

func New(repo interfaces.Repository, judge interfaces.JudgeClient, notifier interfaces.Notifier, opts ...Option) *UseCases {
	uc := &UseCases{
		Watch:  NewWatchUseCase(repo),
		Report: NewReportUseCase(repo, judge, notifier),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
