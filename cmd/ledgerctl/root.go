package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Gowsikakho/expense-track/internal/config"
	"github.com/Gowsikakho/expense-track/internal/database"
	"github.com/Gowsikakho/expense-track/internal/logger"
)

var flagEnvFile string

var rootCmd = &cobra.Command{
	Use:           "ledgerctl",
	Short:         "Expense ledger administration",
	Long:          "Apply migrations, close months and inspect savings for the expense ledger.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	defer logger.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ledgerctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "Load environment from this file before reading config")
}

// loadConfig reads configuration and initializes the logger.
func loadConfig() (*config.Config, error) {
	if flagEnvFile != "" {
		if err := loadEnvFile(flagEnvFile); err != nil {
			return nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	return cfg, nil
}

// openDB opens the configured database. Callers must Close the manager.
func openDB() (*config.Config, *database.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	manager, err := database.NewManager(database.NewConfig(cfg))
	if err != nil {
		return nil, nil, err
	}
	return cfg, manager, nil
}

func closeDB(manager *database.Manager) {
	if err := manager.Close(); err != nil {
		logger.Get().Warnf("failed to close database: %v", err)
	}
}
