package main

import (
	"fmt"
	"log/slog"
	"os"

	"club-event-approval/internal/config"
	"club-event-approval/internal/infrastructure/db"
	"club-event-approval/internal/infrastructure/logging"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const programName = "club-event-approval"

var globalFlags = struct {
	debug bool
}{}

// commonRun loads configuration and installs the process logger.
func commonRun() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if globalFlags.debug {
		cfg.LogLevel = "debug"
	}
	logger := logging.Setup(os.Stdout, cfg.LogLevel).With("component", programName)
	return cfg, logger, nil
}

func openDB(cfg *config.Config, logger *slog.Logger) (*gorm.DB, error) {
	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(),
		db.WithLogLevel(logging.GormLevel(cfg.LogLevel)),
		db.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return gdb, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Club event application approval service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")
	rootCmd.AddCommand(serveCommand(), migrateCommand())

	if err := rootCmd.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}
