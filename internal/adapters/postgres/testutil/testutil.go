// Package testutil opens the database the postgres contract tests run
// against. Tests skip cleanly when no database is configured, so the suite
// stays green on machines without Postgres.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/DFCPagro/DFCP-sub005/internal/adapters/postgres"
	"github.com/DFCPagro/DFCP-sub005/migrations"
)

// OpenMigratedPool connects to TEST_DATABASE_URL and brings the schema up to
// date. The pool is closed when the test finishes.
func OpenMigratedPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping postgres tests")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, url)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := migrations.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return pool
}
