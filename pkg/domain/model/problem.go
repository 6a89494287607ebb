package model

import "fmt"

// ResultAccepted is the judge verdict for a solution that passed all tests
const ResultAccepted = "AC"

// ProblemModel is one entry of the problem-models resource: the statistical
// difficulty estimation of a single problem. All fields are optional in the
// upstream payload and decode to nil when absent.
type ProblemModel struct {
	Slope            *float64 `json:"slope"`
	Intercept        *float64 `json:"intercept"`
	Variance         *float64 `json:"variance"`
	Difficulty       *int64   `json:"difficulty"`
	Discrimination   *float64 `json:"discrimination"`
	IRTLogLikelihood *float64 `json:"irt_loglikelihood"`
	IRTUsers         *int64   `json:"irt_users"`
	IsExperimental   bool     `json:"is_experimental"`
}

// Problem is one entry of the problem catalog resource
type Problem struct {
	ID           string `json:"id"`
	ContestID    string `json:"contest_id"`
	ProblemIndex string `json:"problem_index"`
	Name         string `json:"name"`
	Title        string `json:"title"`
}

// Submission is a single judge submission of a watched account
type Submission struct {
	ID            int64    `json:"id"`
	EpochSecond   int64    `json:"epoch_second"`
	ProblemID     string   `json:"problem_id"`
	ContestID     string   `json:"contest_id"`
	UserID        string   `json:"user_id"`
	Language      string   `json:"language"`
	Point         float64  `json:"point"`
	Length        int      `json:"length"`
	Result        string   `json:"result"`
	ExecutionTime *int     `json:"execution_time"`
}

// IsAccepted reports whether the submission passed all tests
func (s *Submission) IsAccepted() bool {
	return s.Result == ResultAccepted
}

// URL returns the submission page on atcoder.jp
func (s *Submission) URL() string {
	return fmt.Sprintf("https://atcoder.jp/contests/%s/submissions/%d", s.ContestID, s.ID)
}
