package sqldb

import (
	"context"
	"fmt"
	"time"
)

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at TEXT NOT NULL
)`

// Migrate applies every pending migration, each in its own transaction.
// It returns the number of migrations applied.
func (d *DB) Migrate(ctx context.Context) (int, error) {
	if _, err := d.sql.ExecContext(ctx, createMigrationsTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := d.appliedVersions(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		err := d.Within(ctx, func(txCtx context.Context) error {
			for _, stmt := range m.statements(d.dialect) {
				if _, err := d.Exec(txCtx, stmt); err != nil {
					return err
				}
			}
			_, err := d.Exec(txCtx,
				`INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)`,
				m.Version, m.Name, FormatTime(time.Now()),
			)
			return err
		})
		if err != nil {
			return count, fmt.Errorf("apply migration %d_%s: %w", m.Version, m.Name, err)
		}
		if d.logger != nil {
			d.logger.Info("migration applied", "version", m.Version, "name", m.Name)
		}
		count++
	}
	return count, nil
}

// Status lists every known migration with its applied state.
func (d *DB) Status(ctx context.Context) ([]MigrationStatus, error) {
	if _, err := d.sql.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := d.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MigrationStatus, 0, len(migrations))
	for _, m := range migrations {
		at, ok := applied[m.Version]
		out = append(out, MigrationStatus{Version: m.Version, Name: m.Name, AppliedAt: at, IsApplied: ok})
	}
	return out, nil
}

func (d *DB) appliedVersions(ctx context.Context) (map[int]string, error) {
	rows, err := d.sql.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	out := map[int]string{}
	for rows.Next() {
		var (
			version int
			at      string
		)
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		out[version] = at
	}
	return out, rows.Err()
}
