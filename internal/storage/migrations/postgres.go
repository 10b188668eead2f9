package migrations

import (
	"context"
	"fmt"

	"trading-journal/internal/storage/postgres"
)

const createLedger = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// RunPostgresMigrations applies embedded SQL files not yet recorded in schema_migrations.
// Each file runs in its own transaction together with its ledger row.
// Returns the names of the files applied by this call.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) ([]string, error) {
	files, err := listMigrations(PostgresFS, "postgres")
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, createLedger); err != nil {
		return nil, fmt.Errorf("create migration ledger: %w", err)
	}

	var applied []string
	for _, f := range files {
		var done bool
		err := pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, f.Name).Scan(&done)
		if err != nil {
			return applied, fmt.Errorf("check migration %s: %w", f.Name, err)
		}
		if done {
			continue
		}

		if err := applyPostgres(ctx, pool, f); err != nil {
			return applied, err
		}
		applied = append(applied, f.Name)
	}

	return applied, nil
}

func applyPostgres(ctx context.Context, pool *postgres.Pool, f migrationFile) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", f.Name, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, f.SQL); err != nil {
		return fmt.Errorf("apply migration %s: %w", f.Name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, f.Name); err != nil {
		return fmt.Errorf("record migration %s: %w", f.Name, err)
	}
	return tx.Commit(ctx)
}
