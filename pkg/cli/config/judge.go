package config

import (
	"github.com/urfave/cli/v3"

	"github.com/kensho-lab/acwatch/pkg/service/judge"
)

// Judge holds CLI flags for the judge API client
type Judge struct {
	resourceBaseURL string
	apiBaseURL      string
}

func (x *Judge) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "judge-resource-url",
			Usage:       "Base URL of the static problem datasets",
			Category:    "Judge",
			Value:       judge.DefaultResourceBaseURL,
			Sources:     cli.EnvVars("ACWATCH_JUDGE_RESOURCE_URL"),
			Destination: &x.resourceBaseURL,
		},
		&cli.StringFlag{
			Name:        "judge-api-url",
			Usage:       "Base URL of the submission API",
			Category:    "Judge",
			Value:       judge.DefaultAPIBaseURL,
			Sources:     cli.EnvVars("ACWATCH_JUDGE_API_URL"),
			Destination: &x.apiBaseURL,
		},
	}
}

// Configure creates the judge API client
func (x *Judge) Configure() *judge.Client {
	return judge.New(
		judge.WithResourceBaseURL(x.resourceBaseURL),
		judge.WithAPIBaseURL(x.apiBaseURL),
	)
}
