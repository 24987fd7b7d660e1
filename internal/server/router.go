// Package server assembles the HTTP stack: services, handlers, middleware and routes.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/Gowsikakho/expense-track/internal/config"
	"github.com/Gowsikakho/expense-track/internal/handlers"
	"github.com/Gowsikakho/expense-track/internal/metrics"
	"github.com/Gowsikakho/expense-track/internal/middleware"
	"github.com/Gowsikakho/expense-track/internal/services"

	_ "github.com/Gowsikakho/expense-track/internal/docs" // Import swagger docs
)

// NewRouter builds the gin engine serving the API against db.
func NewRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	categoryService := services.NewCategoryService(db)
	expenseService := services.NewExpenseService(db)
	analyticsService := services.NewAnalyticsService(db)
	ledgerService := services.NewLedgerService(db)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, auditService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	ledgerHandler := handlers.NewLedgerHandler(ledgerService, auditService, cfg.AutoClosePreviousMonth)
	pipelineHandler := handlers.NewPipelineHandler(ledgerService, cfg.ReconcileConcurrency)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics())
	}
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Scheduler routes
	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(cfg.PipelineAPIKey))
	pipeline.POST("/reconcile", pipelineHandler.ReconcileAll)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/spend", budgetHandler.GetBudgetsWithSpend)
	budgets.GET("/active", budgetHandler.GetActiveBudgets)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetUserCategories)
	categories.POST("/defaults", categoryHandler.SeedDefaultCategories)
	categories.GET("/:id", categoryHandler.GetCategoryByID)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.GetUserExpenses)
	expenses.GET("/recent", expenseHandler.GetRecentExpenses)
	expenses.GET("/:id", expenseHandler.GetExpenseByID)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	analytics := protected.Group("/analytics")
	analytics.GET("/categories", analyticsHandler.GetCategoryTotals)
	analytics.GET("/timeline", analyticsHandler.GetDailyTimeline)
	analytics.GET("/summary", analyticsHandler.GetMonthSummary)

	ledger := protected.Group("/ledger")
	ledger.PUT("/income/:month", ledgerHandler.SetIncome)
	ledger.GET("/income/:month", ledgerHandler.GetIncome)
	ledger.GET("/savings", ledgerHandler.GetCumulativeSavings)
	ledger.GET("/savings/history", ledgerHandler.GetSavingsHistory)
	ledger.POST("/savings/adjustments", ledgerHandler.AdjustSavings)
	ledger.GET("/:month/status", ledgerHandler.GetPeriodStatus)
	ledger.POST("/:month/reconcile", ledgerHandler.ReconcileMonth)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
