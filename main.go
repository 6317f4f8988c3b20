package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"studyplanner/internal/config"
	"studyplanner/internal/logging"
	"studyplanner/internal/metrics"
	"studyplanner/internal/store"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	dataFile   string
	backend    string
	logLevel   string
}

// app bundles the dependencies a command needs.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	recorder *metrics.Recorder
	store    *store.TaskStore
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:           "studyplanner",
		Short:         "Track study tasks and plan how to spend today's study time",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd, flags)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to config file (default: ./studyplanner.toml)")
	rootCmd.PersistentFlags().StringVar(&flags.dataFile, "data-file", "", "Task record file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.backend, "backend", "", "Storage backend: file or sqlite (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(menuCmd(flags))
	rootCmd.AddCommand(serveCmd(flags))
	rootCmd.AddCommand(listCmd(flags))
	rootCmd.AddCommand(planCmd(flags))
	rootCmd.AddCommand(importSampleCmd(flags))

	return rootCmd
}

// openApp loads configuration, builds the logger and opens the task store.
func openApp(ctx context.Context, flags *globalFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.dataFile != "" {
		cfg.DataFile = flags.dataFile
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Prefix: "studyplanner",
	})
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		logger.Debug("loaded config", "file", cfg.Source)
	}

	persister, err := openPersister(cfg, logger)
	if err != nil {
		return nil, err
	}

	recorder := metrics.New()
	s, err := store.Open(ctx, persister, store.WithLogger(logger), store.WithRecorder(recorder))
	if err != nil {
		persister.Close()
		return nil, err
	}

	logger.Debug("opened task store", "backend", cfg.Backend, "path", cfg.StoragePath(), "tasks", s.Len())

	return &app{
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		store:    s,
	}, nil
}

func openPersister(cfg *config.Config, logger *log.Logger) (store.Persister, error) {
	if dir := filepath.Dir(cfg.StoragePath()); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	switch cfg.Backend {
	case config.BackendSQLite:
		return store.NewSQLiteStore(cfg.SQLitePath)
	default:
		return store.NewFileStore(cfg.DataFile,
			store.SkipMalformed(cfg.SkipMalformed),
			store.WithFileLogger(logger),
		), nil
	}
}

func (a *app) Close() error {
	return a.store.Close()
}
