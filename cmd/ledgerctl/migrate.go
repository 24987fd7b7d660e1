package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Gowsikakho/expense-track/internal/database"
	"github.com/Gowsikakho/expense-track/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		_, manager, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(manager)

		if err := manager.RunMigrations(); err != nil {
			return err
		}
		logger.Get().Info("Migrations applied successfully")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [N]",
	Short: "Roll back N migrations (default 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count: %w", err)
			}
			steps = n
		}

		dbConfig, err := postgresConfig()
		if err != nil {
			return err
		}
		if err := database.MigrateDown(dbConfig.URL(), steps); err != nil {
			return err
		}
		logger.Get().Infof("Rolled back %d migration(s)", steps)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		dbConfig, err := postgresConfig()
		if err != nil {
			return err
		}
		version, dirty, err := database.Version(dbConfig.URL())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "version: %d, dirty: %v\n", version, dirty)
		return nil
	},
}

// postgresConfig returns the database config, rejecting SQLite which has no
// versioned migrations.
func postgresConfig() (*database.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	dbConfig := database.NewConfig(cfg)
	if dbConfig.Driver == database.DriverSQLite {
		return nil, fmt.Errorf("versioned migrations require DB_DRIVER=postgres")
	}
	return dbConfig, nil
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
