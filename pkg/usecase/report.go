package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
	"github.com/kensho-lab/acwatch/pkg/domain/types"
	"github.com/kensho-lab/acwatch/pkg/utils/logging"
)

// NoticeNobodySolved is sent when a whole run produces no pages
const NoticeNobodySolved = "昨日は誰もACしませんでした。"

// DefaultLookback is the rolling window of submissions per run
const DefaultLookback = 24 * time.Hour

// ReportSummary describes one completed report run
type ReportSummary struct {
	Users    int
	Problems int
	Pages    int
}

// ReportUseCase runs the submission-diff pipeline: fetch the shared problem
// datasets, compute each account's newly-accepted problems in the lookback
// window, and deliver the batched result. One run is all-or-nothing; a
// failed fetch for any account aborts the whole invocation.
type ReportUseCase struct {
	repo     interfaces.Repository
	judge    interfaces.JudgeClient
	notifier interfaces.Notifier
	now      func() time.Time
	lookback time.Duration

	// runMu rejects overlapping manual and scheduled runs
	runMu sync.Mutex
}

// ReportOption is a functional option for report configuration
type ReportOption func(*ReportUseCase)

// WithNow replaces the wall clock, mainly for tests
func WithNow(now func() time.Time) ReportOption {
	return func(u *ReportUseCase) {
		u.now = now
	}
}

// WithLookback overrides the rolling submission window
func WithLookback(d time.Duration) ReportOption {
	return func(u *ReportUseCase) {
		u.lookback = d
	}
}

func NewReportUseCase(repo interfaces.Repository, judge interfaces.JudgeClient, notifier interfaces.Notifier, opts ...ReportOption) *ReportUseCase {
	u := &ReportUseCase{
		repo:     repo,
		judge:    judge,
		notifier: notifier,
		now:      time.Now,
		lookback: DefaultLookback,
	}

	for _, opt := range opts {
		opt(u)
	}

	return u
}

// Run executes one report cycle. It returns ErrReportInProgress when another
// run is still in flight and ErrChannelNotConfigured when no destination has
// been set yet.
func (u *ReportUseCase) Run(ctx context.Context) (*ReportSummary, error) {
	if !u.runMu.TryLock() {
		return nil, ErrReportInProgress
	}
	defer u.runMu.Unlock()

	ctx = logging.With(ctx, logging.From(ctx).With("run_id", types.NewRunID()))

	cfg, err := u.repo.Watch().Get(ctx)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(err, "failed to load watch config")
		}
		cfg = model.NewWatchConfig()
	}
	if cfg.Channel == "" {
		return nil, ErrChannelNotConfigured
	}

	// The two catalog-wide datasets are shared across all accounts and
	// fetched once per run.
	var models map[string]model.ProblemModel
	var problems []model.Problem
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		models, err = u.judge.FetchProblemModels(egCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		problems, err = u.judge.FetchProblems(egCtx)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, goerr.Wrap(err, "failed to fetch shared judge datasets")
	}

	catalog := make(map[string]model.Problem, len(problems))
	for _, p := range problems {
		catalog[p.ID] = p
	}

	since := u.now().Add(-u.lookback).Unix()
	logger := logging.From(ctx)

	summary := &ReportSummary{}
	var pages []model.ReportPage
	for _, user := range cfg.SortedUsers() {
		submissions, err := u.judge.FetchUserSubmissions(ctx, user, since)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to fetch user submissions", goerr.V("user", user))
		}

		details := buildDetails(submissions, since, catalog, models)
		logger.Debug("collected accepted problems",
			"user", user,
			"submissions", len(submissions),
			"accepted", len(details))

		summary.Users++
		summary.Problems += len(details)
		pages = append(pages, model.BuildPages(user, details)...)
	}
	summary.Pages = len(pages)

	if len(pages) == 0 {
		if err := u.notifier.PostNotice(ctx, cfg.Channel, NoticeNobodySolved); err != nil {
			return nil, goerr.Wrap(err, "failed to post empty-run notice")
		}
		return summary, nil
	}

	if err := u.notifier.PostPages(ctx, cfg.Channel, pages); err != nil {
		return nil, goerr.Wrap(err, "failed to post report pages")
	}
	return summary, nil
}

// buildDetails reduces one account's submissions to at most one detail per
// distinct accepted problem. The first accepted submission seen for a
// problem is its representative for language and link.
func buildDetails(submissions []model.Submission, since int64, catalog map[string]model.Problem, models map[string]model.ProblemModel) []model.ProblemDetail {
	seen := make(map[string]bool, len(submissions))
	var details []model.ProblemDetail

	for i := range submissions {
		s := &submissions[i]
		if !s.IsAccepted() || s.EpochSecond < since {
			continue
		}
		if seen[s.ProblemID] {
			continue
		}
		seen[s.ProblemID] = true

		// A missing catalog entry degrades to an empty title; a missing
		// model entry reports the problem as unknown difficulty.
		var difficulty *int64
		if m, ok := models[s.ProblemID]; ok && m.Difficulty != nil {
			d := *m.Difficulty
			difficulty = &d
		}

		details = append(details, model.ProblemDetail{
			Title:         catalog[s.ProblemID].Title,
			Difficulty:    difficulty,
			Language:      s.Language,
			SubmissionURL: s.URL(),
		})
	}

	return details
}
