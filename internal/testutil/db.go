package testutil

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"testing"

	"github.com/xxxsen/nextstep/internal/config"
	"github.com/xxxsen/nextstep/internal/db"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// OpenTestDB connects to a migrated postgres test database, or skips the
// test when TEST_DB_HOST is not set.
func OpenTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	port, _ := strconv.Atoi(envOr("TEST_DB_PORT", "5432"))
	conn, err := db.Open(context.Background(), config.DatabaseConfig{
		Host:     host,
		Port:     port,
		User:     envOr("TEST_DB_USER", "nextstep"),
		Password: envOr("TEST_DB_PASSWORD", "nextstep_pass"),
		DBName:   envOr("TEST_DB_NAME", "nextstep_test"),
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(context.Background(), conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}
