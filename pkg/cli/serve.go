package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/kensho-lab/acwatch/pkg/cli/config"
	httpctrl "github.com/kensho-lab/acwatch/pkg/controller/http"
	"github.com/kensho-lab/acwatch/pkg/domain/interfaces"
	"github.com/kensho-lab/acwatch/pkg/domain/model"
	"github.com/kensho-lab/acwatch/pkg/service/worker"
	"github.com/kensho-lab/acwatch/pkg/usecase"
	"github.com/kensho-lab/acwatch/pkg/utils/logging"
)

// seedWatchConfig writes the configuration file roster into the repository,
// but only when the repository holds nothing yet. A stored roster always
// wins over the seed.
func seedWatchConfig(ctx context.Context, repo interfaces.Repository, seed config.WatchSeed) error {
	if seed.Channel == "" && len(seed.Users) == 0 {
		return nil
	}

	if _, err := repo.Watch().Get(ctx); err == nil {
		logging.Default().Info("Repository already holds a roster, ignoring seed")
		return nil
	} else if !errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(err, "failed to read stored roster")
	}

	cfg := model.NewWatchConfig()
	cfg.Channel = seed.Channel
	for _, u := range seed.Users {
		cfg.AddUser(u)
	}
	if err := repo.Watch().Save(ctx, cfg); err != nil {
		return goerr.Wrap(err, "failed to seed roster")
	}

	logging.Default().Info("Seeded roster from configuration file",
		"channel", cfg.Channel,
		"users", cfg.SortedUsers(),
	)
	return nil
}

func cmdServe() *cli.Command {
	var addr string
	var appCfg config.App
	var repoCfg config.Repository
	var slackCfg config.Slack
	var judgeCfg config.Judge

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("ACWATCH_ADDR"),
			Destination: &addr,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, judgeCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the daily report worker and HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			app, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load application configuration")
			}
			loc, err := app.Report.Location()
			if err != nil {
				return err
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

			if err := seedWatchConfig(ctx, repo, app.Watch); err != nil {
				return err
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to initialize slack client")
			}
			logging.Default().Info("Slack client ready", "slack", slackCfg)

			uc := usecase.New(repo, judgeCfg.Configure(), notifier,
				usecase.WithReportOptions(usecase.WithLookback(app.Report.Lookback())),
			)

			reportWorker := worker.NewDailyReportWorker(uc.Report,
				app.Report.Hour, app.Report.Minute,
				worker.WithLocation(loc),
			)
			if err := reportWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start daily report worker")
			}

			httpOpts := []httpctrl.Options{}
			if slackCfg.IsCommandConfigured() {
				handler := httpctrl.NewCommandHandler(uc)
				httpOpts = append(httpOpts, httpctrl.WithSlackCommand(handler, slackCfg.SigningSecret()))
				logging.Default().Info("Slash command endpoint enabled")
			} else {
				logging.Default().Info("Slack signing secret not configured, slash commands disabled")
			}

			httpHandler, err := httpctrl.New(httpOpts...)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server",
					"addr", addr,
					"report_hour", app.Report.Hour,
					"report_minute", app.Report.Minute,
					"timezone", app.Report.Timezone,
				)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				reportWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				reportWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
