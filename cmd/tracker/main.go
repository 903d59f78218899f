package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/nhle/tracker/internal/commands"
	"github.com/nhle/tracker/internal/logutil"
	"github.com/nhle/tracker/internal/model"
	"github.com/nhle/tracker/internal/store"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func build() string {
	v, c := version, commit
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				if s.Key == "vcs.revision" {
					c = s.Value
				}
			}
		}
	}
	if len(c) > 7 {
		c = c[:7]
	}
	return fmt.Sprintf("%s (%s)", v, c)
}

func main() {
	ctx := context.Background()

	var logCloser func()

	flags := &commands.Flags{Clock: time.Now}

	app := &cli.Command{
		Name:      "tracker",
		Usage:     "Daily lists and weekly goals for an accountability group",
		UsageText: "tracker [global options] command [command options]",
		Description: `Keeps one daily task list and one weekly goal list per person.

Close a period with 'complete', rate every item green, yellow or red, and share
the summary. Unfinished items carry over into the next day or week.

Run 'tracker' with no arguments to open the interactive view.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, disabled), overrides log.level",
				Sources:     cli.EnvVars("TRACKER_LOG_LEVEL"),
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/tracker.log)",
				Sources:     cli.EnvVars("TRACKER_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TRACKER_CONFIG"),
				Value:       model.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory, overrides data_dir",
				Sources:     cli.EnvVars("TRACKER_DATA_DIR"),
				Destination: &flags.DataDir,
			},
			&cli.StringFlag{
				Name:        "user",
				Aliases:     []string{"u"},
				Usage:       "act as this user instead of the configured owner",
				Sources:     cli.EnvVars("TRACKER_USER"),
				Destination: &flags.User,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			cfg, err := model.LoadConfig(flags.ConfigPath)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if flags.DataDir != "" {
				cfg.DataDir = flags.DataDir
			}
			if flags.LogLevel != "" {
				cfg.Log.Level = flags.LogLevel
			}
			if flags.LogFile != "" {
				cfg.Log.File = flags.LogFile
			}
			if flags.User != "" {
				cfg.Owner = flags.User
			}
			if err := cfg.Validate(); err != nil {
				return ctx, fmt.Errorf("invalid config %s: %w", flags.ConfigPath, err)
			}

			logger, closer, err := logutil.New(cfg.Log.Level, cfg.LogFile())
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			s, err := store.Open(ctx, cfg)
			if err != nil {
				return ctx, fmt.Errorf("open store: %w", err)
			}

			flags.Config = cfg
			flags.Store = s
			flags.Log = logger
			log.Debug().Str("driver", cfg.Store.Driver).Str("owner", cfg.Owner).Msg("tracker started")

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if flags.Store != nil {
				if err := flags.Store.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close store")
					return err
				}
			}

			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)

	app = commands.NewShowCmd(flags).Register(app)
	app = commands.NewInitCmd(flags).Register(app)
	app = commands.NewItemsCmd(flags).Register(app)
	app = commands.NewStatusCmd(flags).Register(app)
	app = commands.NewShareCmd(flags).Register(app)
	app = commands.NewHistoryCmd(flags).Register(app)
	app = commands.NewStaleCmd(flags).Register(app)

	// Set TUI as default action when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'tracker --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
