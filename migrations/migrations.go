// Package migrations embeds the SQL schema and applies it in filename order.
// Files are idempotent (IF NOT EXISTS everywhere), so Apply can run on every
// startup and on every test run.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed *.sql
var fsys embed.FS

// Apply runs every embedded migration against the pool. Each file may hold
// multiple statements, so they are sent over the simple query protocol.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := fsys.ReadDir(".")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, name := range names {
		sql, err := fsys.ReadFile(name)
		if err != nil {
			return err
		}
		if _, err := conn.Conn().PgConn().Exec(ctx, string(sql)).ReadAll(); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
	}
	return nil
}
