package main

import (
	"fmt"

	"github.com/Gowsikakho/expense-track/internal/config"
	"github.com/Gowsikakho/expense-track/internal/database"
	"github.com/Gowsikakho/expense-track/internal/logger"
	"github.com/Gowsikakho/expense-track/internal/server"
	"github.com/Gowsikakho/expense-track/internal/validator"
)

// @title           Expense Track API
// @version         1.0
// @description     Personal finance ledger: budgets, expenses, monthly income, reconciliation into savings and spending analytics.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	validator.Register()

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	if appConfig.PipelineAPIKey == "" {
		log.Warn("PIPELINE_API_KEY is not set; pipeline endpoints will answer 503")
	}

	router := server.NewRouter(dbManager.DB(), appConfig)

	log.Infof("Starting expense-track API on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
