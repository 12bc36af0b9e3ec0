// Package migrations holds the embedded database schema.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// RunSQLite executes all SQLite migrations in order.
func RunSQLite(ctx context.Context, db *sql.DB) error {
	for _, file := range upFiles("sqlite") {
		migration, err := migrationsFS.ReadFile("sqlite/" + file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		// CREATE TABLE IF NOT EXISTS keeps re-runs idempotent.
		if _, err := db.ExecContext(ctx, string(migration)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}
	return nil
}

// RunPostgres executes all PostgreSQL migrations in order.
func RunPostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, file := range upFiles("postgres") {
		migration, err := migrationsFS.ReadFile("postgres/" + file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}
		// Migration files hold multiple statements; the simple protocol
		// is required to run them in a single Exec.
		if _, err := pool.Exec(ctx, string(migration), pgx.QueryExecModeSimpleProtocol); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file, err)
		}
	}
	return nil
}

func upFiles(dir string) []string {
	entries, err := migrationsFS.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files
}
