package worker

import (
	"context"
	"errors"
	"time"

	"github.com/kensho-lab/acwatch/pkg/usecase"
	"github.com/kensho-lab/acwatch/pkg/utils/errutil"
	"github.com/kensho-lab/acwatch/pkg/utils/logging"
)

// DailyReportWorker triggers one report run per day at a fixed local time.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - A failed cycle is contained: it is logged and the loop targets the next
//   day instead of dying with the error
type DailyReportWorker struct {
	report *usecase.ReportUseCase
	hour   int
	minute int
	loc    *time.Location
	now    func() time.Time
	stopCh chan struct{}
	doneCh chan struct{}
}

// Option is a functional option for worker configuration
type Option func(*DailyReportWorker)

// WithLocation sets the time zone the daily target is evaluated in
func WithLocation(loc *time.Location) Option {
	return func(w *DailyReportWorker) {
		w.loc = loc
	}
}

// WithClock replaces the wall clock, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(w *DailyReportWorker) {
		w.now = now
	}
}

// NewDailyReportWorker creates a worker that fires at hour:minute local time
func NewDailyReportWorker(report *usecase.ReportUseCase, hour, minute int, opts ...Option) *DailyReportWorker {
	w := &DailyReportWorker{
		report: report,
		hour:   hour,
		minute: minute,
		loc:    time.Local,
		now:    time.Now,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// NextActivation returns the next occurrence of hour:minute strictly after
// now, in now's location. The daily loop recomputes it from the wall clock
// on every cycle, so process suspension never accumulates drift.
func NextActivation(now time.Time, hour, minute int) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// Start begins the background report loop. It does not block.
func (w *DailyReportWorker) Start(ctx context.Context) error {
	logging.Default().Info("daily report worker starting",
		"hour", w.hour,
		"minute", w.minute,
		"location", w.loc.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *DailyReportWorker) Stop() {
	logging.Default().Info("daily report worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("daily report worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *DailyReportWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		now := w.now().In(w.loc)
		target := NextActivation(now, w.hour, w.minute)
		logging.From(ctx).Info("daily report scheduled",
			"next_run", target.Format(time.RFC3339),
			"sleep", target.Sub(now).String())

		timer := time.NewTimer(target.Sub(now))
		select {
		case <-timer.C:
			w.cycle(ctx)

		case <-w.stopCh:
			timer.Stop()
			logging.From(ctx).Info("daily report worker received stop signal")
			return

		case <-ctx.Done():
			timer.Stop()
			logging.From(ctx).Info("daily report worker context cancelled")
			return
		}
	}
}

// cycle performs one report run, containing any failure so one bad day does
// not kill all future cycles.
func (w *DailyReportWorker) cycle(ctx context.Context) {
	start := w.now()
	summary, err := w.report.Run(ctx)
	if err != nil {
		if errors.Is(err, usecase.ErrReportInProgress) {
			logging.From(ctx).Warn("daily report skipped: a run is already in flight")
			return
		}
		errutil.Log(ctx, err, "daily report failed (will retry next cycle)")
		return
	}

	logging.From(ctx).Info("daily report completed",
		"users", summary.Users,
		"problems", summary.Problems,
		"pages", summary.Pages,
		"duration", w.now().Sub(start).String())
}
