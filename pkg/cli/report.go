package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kensho-lab/acwatch/pkg/cli/config"
	"github.com/kensho-lab/acwatch/pkg/usecase"
	"github.com/kensho-lab/acwatch/pkg/utils/logging"
)

func cmdReport() *cli.Command {
	var appCfg config.App
	var repoCfg config.Repository
	var slackCfg config.Slack
	var judgeCfg config.Judge

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, judgeCfg.Flags()...)

	return &cli.Command{
		Name:    "report",
		Aliases: []string{"r"},
		Usage:   "Run one report cycle immediately and exit",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize slack client")
			}

			uc := usecase.New(repo, judgeCfg.Configure(), notifier,
				usecase.WithReportOptions(usecase.WithLookback(app.Report.Lookback())),
			)

			summary, err := uc.Report.Run(ctx)
			if err != nil {
				if errors.Is(err, usecase.ErrChannelNotConfigured) {
					color.Red("✗ No destination channel configured")
					fmt.Println("Set one with the `/acwatch channel` slash command or a [watch] seed in the config file.")
					return err
				}
				color.Red("✗ Report run failed")
				return err
			}

			color.Green("✓ Report delivered")
			fmt.Printf("  Accounts checked:  %d\n", summary.Users)
			fmt.Printf("  Accepted problems: %d\n", summary.Problems)
			fmt.Printf("  Pages posted:      %d\n", summary.Pages)
			if summary.Pages == 0 {
				color.Yellow("  (nobody solved anything, notice posted instead)")
			}
			return nil
		},
	}
}
