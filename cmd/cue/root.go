package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/cue/internal/config"
	"github.com/vmunix/cue/internal/history"
	"github.com/vmunix/cue/internal/library"
	"github.com/vmunix/cue/internal/player"
	"github.com/vmunix/cue/internal/session"
	"github.com/vmunix/cue/pkg/guess"
)

var version = "dev"

var (
	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "cue",
	Short: "Track and resume media playback",
	Long: `cue - track and resume media playback

cue remembers how far you got in every file and series of your
library, resumes an external player at the right spot, and steps
through multi-episode series as you finish them.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("cue {{.Version}}\n")
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// app is the context constructed once per command invocation and
// threaded through explicitly.
type app struct {
	cfg *config.Config
	log *slog.Logger
	svc *library.Service
	hst *history.Log
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	store, err := session.NewStore(cfg.Storage.Sessions)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	// History is a convenience log; losing it should not block playback.
	hst, err := history.Open(cfg.Storage.History)
	if err != nil {
		logger.Warn("playback history unavailable", "error", err)
		hst = nil
	}

	driver := player.New(cfg.Player.Type, cfg.Player.Executable, logger)
	svc := library.New(store, driver, library.Options{
		Guess:   guess.Guess,
		History: hst,
		Logger:  logger,
	})

	return &app{cfg: cfg, log: logger, svc: svc, hst: hst}, nil
}

func (a *app) close() {
	if a.hst != nil {
		_ = a.hst.Close()
	}
}
