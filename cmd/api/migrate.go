package main

import (
	mysqlrepo "club-event-approval/internal/adapter/repository/mysql"

	"github.com/spf13/cobra"
)

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := commonRun()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			gdb, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			if sqlDB, err := gdb.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := mysqlrepo.AutoMigrate(gdb); err != nil {
				return err
			}
			logger.Info("schema migrated", "driver", cfg.DBDriver)
			return nil
		},
	}
}
