package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hwlicense/config"
	"hwlicense/database"
	_ "hwlicense/docs" // Swagger documentation
	"hwlicense/handlers"
	"hwlicense/logger"
	"hwlicense/middleware"
	"hwlicense/scheduler"
	"hwlicense/services"
	"hwlicense/signer"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Hardware License Server API
// @version 1.0
// @description Hardware-bound license issuance, activation and revocation server

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin token or JWT session token. Format: Bearer {token}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}

	if err := logger.Initialize(logger.Config{
		Level:    logger.ParseLevel(cfg.LogLevel),
		LogDir:   cfg.LogDir,
		MaxAge:   7,
		UseColor: true,
	}); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}

	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	logger.Info("License Server Starting")
	logger.Info("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}
	defer db.Close()

	store := services.NewLicenseStore(db)
	licenseService := services.NewLicenseService(store)

	var receiptSigner *signer.Signer
	if cfg.SigningKeyPath != "" {
		receiptSigner, err = signer.New(cfg.SigningKeyPath)
		if err != nil {
			logger.Fatal("Failed to load signing key: %v", err)
		}
		logger.Info("Activation receipt signing enabled (key: %s)", cfg.SigningKeyPath)
	} else {
		logger.Info("Activation receipt signing disabled")
	}

	licenseHandler := handlers.NewLicenseHandler(licenseService, receiptSigner)
	adminHandler := handlers.NewAdminHandler(licenseService, store)
	authHandler := handlers.NewAuthHandler(store, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx, licenseService)

	adminAuth := middleware.AdminAuth(cfg)
	sessionAuth := middleware.SessionAuth(cfg)

	mux := http.NewServeMux()

	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("/health",
		middleware.ChainMiddleware(
			handlers.Health,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// Client API (no auth)
	mux.HandleFunc("/check",
		middleware.ChainMiddleware(
			licenseHandler.Check,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// Management API (admin token or session)
	mux.HandleFunc("/generate",
		middleware.ChainMiddleware(
			adminHandler.Generate,
			middleware.LoggingMiddleware,
			adminAuth,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/admin/revoke",
		middleware.ChainMiddleware(
			adminHandler.Revoke,
			middleware.LoggingMiddleware,
			adminAuth,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/admin/licenses",
		middleware.ChainMiddleware(
			adminHandler.ListLicenses,
			middleware.LoggingMiddleware,
			adminAuth,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/admin/activations",
		middleware.ChainMiddleware(
			adminHandler.ListActivations,
			middleware.LoggingMiddleware,
			adminAuth,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/admin/stats",
		middleware.ChainMiddleware(
			adminHandler.Stats,
			middleware.LoggingMiddleware,
			adminAuth,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	// Dashboard auth API
	mux.HandleFunc("/api/admin/login",
		middleware.ChainMiddleware(
			authHandler.Login,
			middleware.LoggingMiddleware,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/me",
		middleware.ChainMiddleware(
			authHandler.Me,
			middleware.LoggingMiddleware,
			sessionAuth,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	mux.HandleFunc("/api/admin/change-password",
		middleware.ChainMiddleware(
			authHandler.ChangePassword,
			middleware.LoggingMiddleware,
			sessionAuth,
			middleware.CORSMiddleware,
			middleware.SetJSONHeader,
		))

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Warn("Received shutdown signal")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error: %v", err)
		}
	}()

	logger.Info("Server listening on %s", cfg.Addr)
	logger.Info("Swagger UI: http://localhost%s/swagger/index.html", cfg.Addr)
	logger.Info("Database: %s - %s", cfg.DBDriver, cfg.DBDSN)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("Server failed to start: %v", err)
	}

	logger.Info("Server stopped")
}
