package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	dbfs "github.com/xceptionalbae23/word-of-hope-ministries/db"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/config"
	"github.com/xceptionalbae23/word-of-hope-ministries/internal/db"
)

// TestMigrateOnStart_TempWorkdir follows the server startup path: YAML config,
// validation, DSN, migration. All files stay inside a temporary directory.
func TestMigrateOnStart_TempWorkdir(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	cfgY := "addr: \":0\"\n" +
		"database_url: '" + tmpDir + "'\n" +
		"database_name: startup\n" +
		"migrate_on_start: true\n" +
		"admin:\n  password: secret\n" +
		"uploads:\n  driver: local\n  dir: '" + filepath.Join(tmpDir, "uploads") + "'\n"

	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfgY), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// allow insecure default JWTSecret for this test
	t.Setenv("MINISTRY_ENV", "development")

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate config: %v", err)
	}
	if !cfg.MigrateOnStart {
		t.Fatalf("expected migrate_on_start")
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, cfg.APITimeout)
	defer dbCancel()

	d, err := db.New(dbCtx, cfg.DSN(), nil)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer d.Close()

	if err := db.Migrate(dbCtx, d, dbfs.Migrations); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	var count int
	if err := d.QueryRow(ctx, `SELECT COUNT(1) FROM schema_migrations`).Scan(&count); err != nil {
		t.Fatalf("scan schema_migrations count: %v", err)
	}
	if count == 0 {
		t.Fatalf("expected migrations recorded, got 0")
	}

	if _, err := os.Stat(cfg.DatabaseFile()); err != nil {
		t.Fatalf("database file not created: %v", err)
	}
}
