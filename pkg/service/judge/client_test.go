package judge_test

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/kensho-lab/acwatch/pkg/service/judge"
)

func TestFetchProblemModels(t *testing.T) {
	t.Run("decodes optional fields as absent", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Path).Equal("/problem-models.json")
			gt.Value(t, r.Header.Get("Accept-Encoding")).Equal("gzip")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"abc300_a": {"difficulty": 1650, "is_experimental": false, "slope": -0.0007, "irt_users": 1234},
				"ahc001_a": {}
			}`))
		}))
		defer srv.Close()

		c := judge.New(judge.WithResourceBaseURL(srv.URL))
		models, err := c.FetchProblemModels(context.Background())
		gt.NoError(t, err).Required()
		gt.Map(t, models).HasKey("abc300_a")

		withDiff := models["abc300_a"]
		gt.Value(t, *withDiff.Difficulty).Equal(int64(1650))
		gt.Value(t, *withDiff.IRTUsers).Equal(int64(1234))

		noDiff := models["ahc001_a"]
		gt.Value(t, noDiff.Difficulty).Nil()
		gt.Value(t, noDiff.IRTUsers).Nil()
	})

	t.Run("gzip-encoded body is unwrapped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Encoding", "gzip")
			gz := gzip.NewWriter(w)
			_, _ = gz.Write([]byte(`{"abc300_a": {"difficulty": 42}}`))
			_ = gz.Close()
		}))
		defer srv.Close()

		c := judge.New(judge.WithResourceBaseURL(srv.URL))
		models, err := c.FetchProblemModels(context.Background())
		gt.NoError(t, err).Required()
		gt.Value(t, *models["abc300_a"].Difficulty).Equal(int64(42))
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer srv.Close()

		c := judge.New(judge.WithResourceBaseURL(srv.URL))
		_, err := c.FetchProblemModels(context.Background())
		gt.Error(t, err)
	})

	t.Run("malformed payload is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"broken":`))
		}))
		defer srv.Close()

		c := judge.New(judge.WithResourceBaseURL(srv.URL))
		_, err := c.FetchProblemModels(context.Background())
		gt.Error(t, err)
	})
}

func TestFetchProblems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/problems.json")
		_, _ = w.Write([]byte(`[
			{"id": "abc300_a", "contest_id": "abc300", "problem_index": "A", "name": "Exchange", "title": "A. Exchange"}
		]`))
	}))
	defer srv.Close()

	c := judge.New(judge.WithResourceBaseURL(srv.URL))
	problems, err := c.FetchProblems(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, problems).Length(1)
	gt.Value(t, problems[0].ContestID).Equal("abc300")
	gt.Value(t, problems[0].Title).Equal("A. Exchange")
}

func TestFetchUserSubmissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gt.Value(t, r.URL.Path).Equal("/v3/user/submissions")
		gt.Value(t, r.URL.Query().Get("user")).Equal("alice")
		gt.Value(t, r.URL.Query().Get("from_second")).Equal("1700000000")
		_, _ = w.Write([]byte(`[
			{"id": 1, "epoch_second": 1700000100, "problem_id": "abc300_a", "contest_id": "abc300",
			 "user_id": "alice", "language": "Rust", "point": 100, "length": 120, "result": "AC",
			 "execution_time": 12},
			{"id": 2, "epoch_second": 1700000200, "problem_id": "abc300_b", "contest_id": "abc300",
			 "user_id": "alice", "language": "Rust", "point": 0, "length": 80, "result": "CE",
			 "execution_time": null}
		]`))
	}))
	defer srv.Close()

	c := judge.New(judge.WithAPIBaseURL(srv.URL))
	subs, err := c.FetchUserSubmissions(context.Background(), "alice", 1700000000)
	gt.NoError(t, err).Required()
	gt.Array(t, subs).Length(2)
	gt.Bool(t, subs[0].IsAccepted()).True()
	gt.Value(t, *subs[0].ExecutionTime).Equal(12)
	gt.Bool(t, subs[1].IsAccepted()).False()
	gt.Value(t, subs[1].ExecutionTime).Nil()
}
