package model_test

import (
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kensho-lab/acwatch/pkg/domain/model"
	"github.com/kensho-lab/acwatch/pkg/domain/types"
)

func ptr(v int64) *int64 { return &v }

func TestProblemDetail(t *testing.T) {
	t.Run("known difficulty", func(t *testing.T) {
		d := model.ProblemDetail{
			Title:         "ABC300 A. Exchange",
			Difficulty:    ptr(1650),
			Language:      "Rust (rustc 1.70.0)",
			SubmissionURL: "https://atcoder.jp/contests/abc300/submissions/1",
		}
		gt.Value(t, d.Color()).Equal(types.ColorBlue)
		gt.Value(t, d.FieldValue()).Equal("1650(青) | Rust (rustc 1.70.0) | <https://atcoder.jp/contests/abc300/submissions/1|提出>")
	})

	t.Run("low difficulty is normalized before display", func(t *testing.T) {
		d := model.ProblemDetail{Difficulty: ptr(350), Language: "Python"}
		gt.Value(t, d.Color()).Equal(types.ColorGray)
		n := types.NormalizeDifficulty(350)
		gt.Value(t, d.FieldValue()).Equal(fmt.Sprintf("%d(灰) | Python | <|提出>", n))
	})

	t.Run("missing difficulty reports unknown", func(t *testing.T) {
		d := model.ProblemDetail{Language: "C++"}
		gt.Value(t, d.Color()).Equal(types.ColorBlack)
		gt.Value(t, d.FieldValue()).Equal("不明 | C++ | <|提出>")
	})
}

func TestBuildPages(t *testing.T) {
	t.Run("thirty entries split into 25 and 5", func(t *testing.T) {
		details := make([]model.ProblemDetail, 30)
		for i := range details {
			details[i].Title = fmt.Sprintf("problem-%02d", i)
		}
		pages := model.BuildPages("alice", details)
		gt.Array(t, pages).Length(2)
		gt.Array(t, pages[0].Details).Length(25)
		gt.Array(t, pages[1].Details).Length(5)
		gt.Value(t, pages[0].Details[0].Title).Equal("problem-00")
		gt.Value(t, pages[1].Details[0].Title).Equal("problem-25")
		gt.Value(t, pages[1].Details[4].Title).Equal("problem-29")
	})

	t.Run("no pages for an empty list", func(t *testing.T) {
		gt.Array(t, model.BuildPages("alice", nil)).Length(0)
	})

	t.Run("page metadata", func(t *testing.T) {
		pages := model.BuildPages("alice", []model.ProblemDetail{
			{Difficulty: ptr(350)},
			{Difficulty: ptr(1650)},
			{Difficulty: ptr(2900)},
		})
		gt.Array(t, pages).Length(1)
		gt.Value(t, pages[0].Title()).Equal("alice さんが昨日ACした問題")
		gt.Value(t, pages[0].UserURL()).Equal("https://atcoder.jp/users/alice")
		gt.Value(t, pages[0].Color()).Equal(types.ColorRed)
	})

	t.Run("all-unknown page falls back to black", func(t *testing.T) {
		pages := model.BuildPages("bob", []model.ProblemDetail{{}, {}})
		gt.Array(t, pages).Length(1)
		gt.Value(t, pages[0].Color()).Equal(types.ColorBlack)
	})
}

func TestWatchConfig(t *testing.T) {
	t.Run("add trims and dedups", func(t *testing.T) {
		cfg := model.NewWatchConfig()
		gt.Bool(t, cfg.AddUser("  alice ")).True()
		gt.Bool(t, cfg.AddUser("alice")).False()
		gt.Bool(t, cfg.AddUser("   ")).False()
		gt.Array(t, cfg.Users).Length(1)
	})

	t.Run("remove absent user is a no-op", func(t *testing.T) {
		cfg := model.NewWatchConfig()
		gt.Bool(t, cfg.AddUser("alice")).True()
		gt.Bool(t, cfg.RemoveUser("bob")).False()
		gt.Bool(t, cfg.RemoveUser("alice")).True()
		gt.Array(t, cfg.Users).Length(0)
	})

	t.Run("sorted display order", func(t *testing.T) {
		cfg := model.NewWatchConfig()
		cfg.AddUser("carol")
		cfg.AddUser("alice")
		cfg.AddUser("bob")
		gt.Value(t, cfg.SortedUsers()).Equal([]string{"alice", "bob", "carol"})
		// insertion order is kept in storage
		gt.Value(t, cfg.Users).Equal([]string{"carol", "alice", "bob"})
	})

	t.Run("clone does not share the roster", func(t *testing.T) {
		cfg := model.NewWatchConfig()
		cfg.Channel = "C123"
		cfg.AddUser("alice")
		clone := cfg.Clone()
		clone.AddUser("bob")
		gt.Array(t, cfg.Users).Length(1)
		gt.Value(t, clone.Channel).Equal("C123")
	})
}

func TestSubmission(t *testing.T) {
	s := model.Submission{ID: 42, ContestID: "abc300", Result: "AC"}
	gt.Bool(t, s.IsAccepted()).True()
	gt.Value(t, s.URL()).Equal("https://atcoder.jp/contests/abc300/submissions/42")

	s.Result = "WA"
	gt.Bool(t, s.IsAccepted()).False()
}
