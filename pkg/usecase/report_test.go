package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
	"github.com/kensho-lab/acwatch/pkg/domain/types"
	"github.com/kensho-lab/acwatch/pkg/repository/local"
	"github.com/kensho-lab/acwatch/pkg/repository/memory"
	"github.com/kensho-lab/acwatch/pkg/usecase"
)

type judgeStub struct {
	models      map[string]model.ProblemModel
	problems    []model.Problem
	submissions map[string][]model.Submission
	fetchedFrom map[string]int64
	err         error
}

var _ interfaces.JudgeClient = &judgeStub{}

func (j *judgeStub) FetchProblemModels(ctx context.Context) (map[string]model.ProblemModel, error) {
	return j.models, j.err
}

func (j *judgeStub) FetchProblems(ctx context.Context) ([]model.Problem, error) {
	return j.problems, j.err
}

func (j *judgeStub) FetchUserSubmissions(ctx context.Context, user string, fromSecond int64) ([]model.Submission, error) {
	if j.err != nil {
		return nil, j.err
	}
	if j.fetchedFrom == nil {
		j.fetchedFrom = map[string]int64{}
	}
	j.fetchedFrom[user] = fromSecond
	return j.submissions[user], nil
}

type notifierSpy struct {
	channel string
	pages   []model.ReportPage
	notices []string
	entered chan struct{}
	block   chan struct{}
	err     error
}

var _ interfaces.Notifier = &notifierSpy{}

func (n *notifierSpy) PostPages(ctx context.Context, channel string, pages []model.ReportPage) error {
	if n.entered != nil {
		n.entered <- struct{}{}
	}
	if n.block != nil {
		<-n.block
	}
	n.channel = channel
	n.pages = append(n.pages, pages...)
	return n.err
}

func (n *notifierSpy) PostNotice(ctx context.Context, channel string, text string) error {
	n.channel = channel
	n.notices = append(n.notices, text)
	return n.err
}

func ptr(v int64) *int64 { return &v }

func fixedNow() time.Time {
	return time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)
}

func saveConfig(t *testing.T, repo interfaces.Repository, channel string, users ...string) {
	t.Helper()
	cfg := model.NewWatchConfig()
	cfg.Channel = channel
	for _, u := range users {
		cfg.AddUser(u)
	}
	gt.NoError(t, repo.Watch().Save(context.Background(), cfg)).Required()
}

func TestReportUseCase_Run(t *testing.T) {
	now := fixedNow()
	inWindow := now.Add(-2 * time.Hour).Unix()
	tooOld := now.Add(-30 * time.Hour).Unix()

	t.Run("dedup by problem and page color from max tier", func(t *testing.T) {
		repo := memory.New()
		saveConfig(t, repo, "C1", "alice")

		judge := &judgeStub{
			models: map[string]model.ProblemModel{
				"p_gray": {Difficulty: ptr(350)},
				"p_blue": {Difficulty: ptr(1650)},
				"p_red":  {Difficulty: ptr(2900)},
			},
			problems: []model.Problem{
				{ID: "p_gray", ContestID: "abc1", Title: "A. Gray"},
				{ID: "p_blue", ContestID: "abc1", Title: "B. Blue"},
				{ID: "p_red", ContestID: "abc1", Title: "C. Red"},
			},
			submissions: map[string][]model.Submission{
				"alice": {
					{ID: 1, EpochSecond: inWindow, ProblemID: "p_gray", ContestID: "abc1", Language: "Rust", Result: "AC"},
					{ID: 2, EpochSecond: inWindow, ProblemID: "p_blue", ContestID: "abc1", Language: "Rust", Result: "AC"},
					{ID: 3, EpochSecond: inWindow + 60, ProblemID: "p_blue", ContestID: "abc1", Language: "C++", Result: "AC"},
					{ID: 4, EpochSecond: inWindow, ProblemID: "p_red", ContestID: "abc1", Language: "Rust", Result: "AC"},
					{ID: 5, EpochSecond: inWindow, ProblemID: "p_red", ContestID: "abc1", Language: "Rust", Result: "WA"},
				},
			},
		}
		spy := &notifierSpy{}
		uc := usecase.NewReportUseCase(repo, judge, spy, usecase.WithNow(func() time.Time { return now }))

		summary, err := uc.Run(context.Background())
		gt.NoError(t, err).Required()
		gt.Value(t, summary.Users).Equal(1)
		gt.Value(t, summary.Problems).Equal(3)
		gt.Value(t, summary.Pages).Equal(1)

		gt.Value(t, spy.channel).Equal("C1")
		gt.Array(t, spy.pages).Length(1)
		page := spy.pages[0]
		gt.Array(t, page.Details).Length(3)
		gt.Value(t, page.Color()).Equal(types.ColorRed)

		// the first accepted submission is the representative
		gt.Value(t, page.Details[1].Language).Equal("Rust")
		gt.Value(t, page.Details[1].SubmissionURL).Equal("https://atcoder.jp/contests/abc1/submissions/2")

		// lookback window is now-24h
		gt.Value(t, judge.fetchedFrom["alice"]).Equal(now.Add(-24*time.Hour).Unix())
	})

	t.Run("out-of-window and missing joins degrade gracefully", func(t *testing.T) {
		repo := memory.New()
		saveConfig(t, repo, "C1", "alice")

		judge := &judgeStub{
			models:   map[string]model.ProblemModel{},
			problems: nil,
			submissions: map[string][]model.Submission{
				"alice": {
					{ID: 1, EpochSecond: tooOld, ProblemID: "p_old", ContestID: "abc1", Result: "AC"},
					{ID: 2, EpochSecond: inWindow, ProblemID: "p_new", ContestID: "abc1", Language: "Go", Result: "AC"},
				},
			},
		}
		spy := &notifierSpy{}
		uc := usecase.NewReportUseCase(repo, judge, spy, usecase.WithNow(func() time.Time { return now }))

		_, err := uc.Run(context.Background())
		gt.NoError(t, err).Required()
		gt.Array(t, spy.pages).Length(1)
		gt.Array(t, spy.pages[0].Details).Length(1)
		gt.Value(t, spy.pages[0].Details[0].Title).Equal("")
		gt.Value(t, spy.pages[0].Details[0].Color()).Equal(types.ColorBlack)
	})

	t.Run("empty run sends a single plain notice", func(t *testing.T) {
		repo := memory.New()
		saveConfig(t, repo, "C1", "alice", "bob")

		judge := &judgeStub{submissions: map[string][]model.Submission{}}
		spy := &notifierSpy{}
		uc := usecase.NewReportUseCase(repo, judge, spy, usecase.WithNow(func() time.Time { return now }))

		summary, err := uc.Run(context.Background())
		gt.NoError(t, err).Required()
		gt.Value(t, summary.Pages).Equal(0)
		gt.Array(t, spy.pages).Length(0)
		gt.Value(t, spy.notices).Equal([]string{usecase.NoticeNobodySolved})
	})

	t.Run("no channel configured fails before any fetch", func(t *testing.T) {
		repo := memory.New()
		saveConfig(t, repo, "", "alice")

		uc := usecase.NewReportUseCase(repo, &judgeStub{}, &notifierSpy{})
		_, err := uc.Run(context.Background())
		gt.Bool(t, errors.Is(err, usecase.ErrChannelNotConfigured)).True()
	})

	t.Run("missing stored config also fails as unconfigured", func(t *testing.T) {
		uc := usecase.NewReportUseCase(memory.New(), &judgeStub{}, &notifierSpy{})
		_, err := uc.Run(context.Background())
		gt.Bool(t, errors.Is(err, usecase.ErrChannelNotConfigured)).True()
	})

	t.Run("upstream failure aborts the whole run", func(t *testing.T) {
		repo := memory.New()
		saveConfig(t, repo, "C1", "alice")

		judge := &judgeStub{err: errors.New("upstream down")}
		spy := &notifierSpy{}
		uc := usecase.NewReportUseCase(repo, judge, spy)

		_, err := uc.Run(context.Background())
		gt.Error(t, err)
		gt.Array(t, spy.pages).Length(0)
		gt.Array(t, spy.notices).Length(0)
	})

	t.Run("overlapping run is rejected", func(t *testing.T) {
		repo := memory.New()
		saveConfig(t, repo, "C1", "alice")

		judge := &judgeStub{
			submissions: map[string][]model.Submission{
				"alice": {{ID: 1, EpochSecond: inWindow, ProblemID: "p", ContestID: "abc1", Result: "AC"}},
			},
		}
		block := make(chan struct{})
		entered := make(chan struct{}, 1)
		spy := &notifierSpy{block: block, entered: entered}
		uc := usecase.NewReportUseCase(repo, judge, spy, usecase.WithNow(func() time.Time { return now }))

		done := make(chan error, 1)
		go func() {
			_, err := uc.Run(context.Background())
			done <- err
		}()

		// wait until the first run parks inside the notifier
		<-entered

		_, err := uc.Run(context.Background())
		gt.Bool(t, errors.Is(err, usecase.ErrReportInProgress)).True()

		close(block)
		gt.NoError(t, <-done)
	})

	t.Run("restored state drives the run without re-registration", func(t *testing.T) {
		// persisted {channel: C1, users: [a..., b...]} read back at startup
		path := filepath.Join(t.TempDir(), "config.json")
		saveConfig(t, local.New(path), "C1", "alpha", "bravo")

		judge := &judgeStub{submissions: map[string][]model.Submission{}}
		spy := &notifierSpy{}
		uc := usecase.NewReportUseCase(local.New(path), judge, spy, usecase.WithNow(func() time.Time { return now }))

		summary, err := uc.Run(context.Background())
		gt.NoError(t, err).Required()
		gt.Value(t, summary.Users).Equal(2)
		gt.Value(t, spy.channel).Equal("C1")
		gt.Map(t, judge.fetchedFrom).HasKey("alpha")
		gt.Map(t, judge.fetchedFrom).HasKey("bravo")
	})
}
