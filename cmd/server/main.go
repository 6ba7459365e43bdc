// Package main initializes and starts the todo API server, setting up
// configuration, logging, the database connection, repositories, services,
// handlers, and graceful shutdown.
package main

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/ndavydov/gotodo/internal/config"
	"github.com/ndavydov/gotodo/internal/db"
	"github.com/ndavydov/gotodo/internal/logger"
	"github.com/ndavydov/gotodo/internal/middleware"
	"github.com/ndavydov/gotodo/internal/repository"
	"github.com/ndavydov/gotodo/internal/server/handler/http"
	"github.com/ndavydov/gotodo/internal/service"
	"github.com/ndavydov/gotodo/internal/token"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.TokenSecret == "" {
		zapLogger.Fatal("token secret is required (flag -s or TOKEN_SECRET)")
	}

	// Initialize PostgreSQL connection and bootstrap the schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}
	defer postgresDB.Close()

	// Periodically drop session rows whose tokens can no longer verify.
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	db.StartSessionSweeper(sweepCtx, postgresDB,
		time.Hour,
		options.TokenTTL,
		zapLogger,
	)

	// Initialize repositories for todos and users.
	todoRepo := repository.NewPostgresTodoRepository(postgresDB)
	userRepo := repository.NewPostgresUserRepository(postgresDB)

	// Initialize business-logic services.
	signer := token.NewManager(options.TokenSecret, options.TokenTTL)
	todoService := service.NewTodoService(todoRepo)
	authService := service.NewAuthService(userRepo, signer)

	// Create HTTP handlers for auth and todo endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	todoHandler := &http.TodoHandler{TodoService: todoService}

	// Build the router with middleware and routes, wrapped with CORS.
	router := http.NewRouter(authHandler, todoHandler, authService, zapLogger)
	c := cors.New(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.AuthHeader},
		AllowCredentials: true,
	})

	server := &nethttp.Server{
		Addr:              options.Addr,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Addr))
		if err := server.ListenAndServe(); err != nil && err != nethttp.ErrServerClosed {
			zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for SIGINT/SIGTERM and shut down gracefully.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	zapLogger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server shutdown error", zap.Error(err))
	}
}
