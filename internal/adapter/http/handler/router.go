package handler

import (
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	WalletSvc      ports.WalletService
	OperationSvc   ports.OperationService
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	walletHandler := NewWalletHandler(deps.WalletSvc)
	operationHandler := NewOperationHandler(deps.OperationSvc)

	v1 := r.Group("/api/v1")
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", walletHandler.Create)
		wallets.GET("", walletHandler.List)
		wallets.POST("/exchange", operationHandler.Exchange)
		wallets.GET("/:id", walletHandler.Get)
		wallets.POST("/:id/deposit", operationHandler.Deposit)
		wallets.POST("/:id/withdraw", operationHandler.Withdraw)
		wallets.POST("/:id/status", walletHandler.ChangeStatus)
		wallets.GET("/:id/transactions", walletHandler.ListTransactions)
	}

	return r
}
