package db

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/nextstep/internal/config"
)

func TestSplitStatements(t *testing.T) {
	stmts := splitStatements(`-- header; with semicolon
CREATE TABLE a (id TEXT);

  -- indented comment
CREATE INDEX idx_a ON a (id);
;
`)
	require.Equal(t, []string{"CREATE TABLE a (id TEXT)", "CREATE INDEX idx_a ON a (id)"}, stmts)
}

func TestMigrationFilesSorted(t *testing.T) {
	files, err := migrationFiles()
	require.NoError(t, err)
	require.NotEmpty(t, files)
	require.Equal(t, "001_init.sql", files[0])

	content, err := migrationsFS.ReadFile("migrations/" + files[0])
	require.NoError(t, err)
	stmts := splitStatements(string(content))
	require.Contains(t, stmts[0], "CREATE EXTENSION IF NOT EXISTS vector")
}

func TestDSN(t *testing.T) {
	require.Equal(t, "postgres://x", DSN(config.DatabaseConfig{DSN: "postgres://x"}))
	require.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable",
		DSN(config.DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "d"}))
}
