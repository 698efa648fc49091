package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	dbfs "github.com/xceptionalbae23/word-of-hope-ministries/db"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/config"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/db"
)

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" || cfg.DatabaseName == "" {
		fmt.Fprintln(os.Stderr, "Config error: MINISTRY_DATABASE_URL and MINISTRY_DATABASE_NAME are required")
		os.Exit(1)
	}
	if err := os.MkdirAll(cfg.DatabaseURL, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DSN(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database %s initialized successfully.\n", cfg.DatabaseFile())
}
