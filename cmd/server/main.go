package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xceptionalbae23/word-of-hope-ministries/api"
	dbfs "github.com/xceptionalbae23/word-of-hope-ministries/db"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/config"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/db"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	var envFile = flag.String("env", ".env", "Path to .env file (ignored when missing)")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		log.Fatalf("Invalid log_level %q: %v", cfg.LogLevel, err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	logger.Info("starting WOHI Ministries API", "version", version, "build_time", buildTime)

	ctx := context.Background()

	conn, err := db.New(ctx, cfg.DSN(), logger)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, conn, dbfs.Migrations); err != nil {
			log.Fatalf("Failed to migrate DB: %v", err)
		}
	}

	store, err := storage.New(ctx, cfg.Uploads)
	if err != nil {
		log.Fatalf("Failed to open upload store: %v", err)
	}

	handler, err := api.SetupRoutes(cfg, version, buildTime, conn, store)
	if err != nil {
		log.Fatalf("Failed to set up routes: %v", err)
	}

	// Write timeout stays generous for large video uploads.
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.APITimeout * 10,
		WriteTimeout:      cfg.APITimeout * 10,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	if err := conn.Close(); err != nil {
		logger.Error("closing DB", "err", err)
	}

	logger.Info("server exited")
}
