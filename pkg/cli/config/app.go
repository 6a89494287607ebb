package config

import (
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	"github.com/kensho-lab/acwatch/pkg/domain/types"
)

// AppConfig represents the application configuration file
type AppConfig struct {
	Report ReportConfig `toml:"report"`
	Watch  WatchSeed    `toml:"watch"`
}

// ReportConfig configures the daily report schedule
type ReportConfig struct {
	Hour          int    `toml:"hour"`
	Minute        int    `toml:"minute"`
	Timezone      string `toml:"timezone"`
	LookbackHours int    `toml:"lookback_hours"`
}

// WatchSeed is an optional initial roster applied when the repository
// holds no configuration yet
type WatchSeed struct {
	Channel string   `toml:"channel"`
	Users   []string `toml:"users"`
}

// Validate checks if the ReportConfig is valid
func (r *ReportConfig) Validate() error {
	if r.Hour < 0 || r.Hour > 23 {
		return goerr.Wrap(ErrInvalidConfig, "report hour must be between 0 and 23", goerr.V("hour", r.Hour))
	}
	if r.Minute < 0 || r.Minute > 59 {
		return goerr.Wrap(ErrInvalidConfig, "report minute must be between 0 and 59", goerr.V("minute", r.Minute))
	}
	if r.LookbackHours <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "lookback hours must be positive", goerr.V("lookback_hours", r.LookbackHours))
	}
	if _, err := time.LoadLocation(r.Timezone); err != nil {
		return goerr.Wrap(err, "invalid report timezone", goerr.V("timezone", r.Timezone))
	}
	return nil
}

// Location returns the report schedule timezone
func (r *ReportConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid report timezone", goerr.V("timezone", r.Timezone))
	}
	return loc, nil
}

// Lookback returns the report window as a duration
func (r *ReportConfig) Lookback() time.Duration {
	return time.Duration(r.LookbackHours) * time.Hour
}

// Validate checks if the WatchSeed is valid
func (w *WatchSeed) Validate() error {
	for _, u := range w.Users {
		if err := types.UserID(u).Validate(); err != nil {
			return goerr.Wrap(err, "invalid seed user")
		}
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	if err := a.Report.Validate(); err != nil {
		return err
	}
	if err := a.Watch.Validate(); err != nil {
		return err
	}
	return nil
}

// DefaultAppConfig returns the configuration used when no file is given
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Report: ReportConfig{
			Hour:          0,
			Minute:        0,
			Timezone:      "Asia/Tokyo",
			LookbackHours: 24,
		},
	}
}

// App holds the CLI flag pointing at the optional configuration file
type App struct {
	path string
}

func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path of the TOML application configuration file",
			Category:    "App",
			Sources:     cli.EnvVars("ACWATCH_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the application configuration. Without a file the
// defaults apply.
func (x *App) Configure() (*AppConfig, error) {
	if x.path == "" {
		return DefaultAppConfig(), nil
	}
	return LoadAppConfiguration(x.path)
}

// LoadAppConfiguration loads the application configuration from a TOML file
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, goerr.Wrap(ErrConfigNotFound, "no such file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	config := DefaultAppConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V(ConfigPathKey, path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return config, nil
}
