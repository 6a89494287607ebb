package interfaces

import (
	"context"

	"github.com/kensho-lab/acwatch/pkg/domain/model"
)

// JudgeClient fetches public datasets from the judge. All three operations
// are read-only; failures are propagated without retry.
type JudgeClient interface {
	// FetchProblemModels retrieves the difficulty model of every problem,
	// keyed by problem ID
	FetchProblemModels(ctx context.Context) (map[string]model.ProblemModel, error)

	// FetchProblems retrieves the global problem catalog
	FetchProblems(ctx context.Context) ([]model.Problem, error)

	// FetchUserSubmissions retrieves one account's submissions newer than
	// fromSecond (unix epoch seconds)
	FetchUserSubmissions(ctx context.Context, user string, fromSecond int64) ([]model.Submission, error)
}
