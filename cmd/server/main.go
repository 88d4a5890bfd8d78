package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	identityapp "github.com/retailcore/backend/internal/application/identity"
	inventoryapp "github.com/retailcore/backend/internal/application/inventory"
	invoicingapp "github.com/retailcore/backend/internal/application/invoicing"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/invoicing"
	"github.com/retailcore/backend/internal/infrastructure/auth"
	"github.com/retailcore/backend/internal/infrastructure/config"
	"github.com/retailcore/backend/internal/infrastructure/logger"
	"github.com/retailcore/backend/internal/infrastructure/persistence"
	"github.com/retailcore/backend/internal/interfaces/http/handler"
	"github.com/retailcore/backend/internal/interfaces/http/middleware"
	"github.com/retailcore/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting retail core backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories outside transaction scopes serve read paths and admin use
	// cases; writes go through the scopes so each use case commits atomically.
	shopRepo := persistence.NewGormShopRepository(db.DB)
	invoicingScope := persistence.NewInvoicingTransactionScope(db.DB)
	inventoryScope := persistence.NewInventoryTransactionScope(db.DB)

	guard := identity.NewTenantGuard()
	jwtService := auth.NewJWTService(cfg.JWT)

	numberingScope := invoicing.NumberingScope(cfg.Invoice.NumberingScope)
	invoiceService := invoicingapp.NewInvoiceService(invoicingScope, guard, numberingScope, log)
	paymentService := invoicingapp.NewPaymentService(invoicingScope, guard, log)
	historyService := invoicingapp.NewItemHistoryService(invoicingScope, guard, log)
	stockService := inventoryapp.NewStockService(inventoryScope, guard, log)
	shopService := identityapp.NewShopService(shopRepo, guard, log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Invalid trusted proxies", zap.Error(err))
		}
	}

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuthMiddleware(
			middleware.JWTAuthMiddleware(jwtService, log),
			middleware.TenantMiddleware(guard),
		),
	)
	r.RegisterPublic(handler.NewSystemHandler(db))
	r.Register(handler.NewInvoiceHandler(invoiceService, paymentService, historyService, log))
	r.Register(handler.NewStockHandler(stockService))
	r.Register(handler.NewShopHandler(shopService))
	r.Setup()

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
