package store

import (
	"cmp"
	"context"
	"database/sql"
	"fmt"
	"slices"
)

type migration struct {
	version int
	name    string
	sql     string
}

// migrations lists the schema history of the SQLite backend in version order.
var migrations = []migration{
	{
		version: 1,
		name:    "create_tasks",
		sql: `
		CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL DEFAULT '',
			duration_minutes INTEGER NOT NULL DEFAULT 0,
			priority INTEGER NOT NULL DEFAULT 0,
			due_date TEXT NOT NULL DEFAULT '',
			completed BOOLEAN NOT NULL DEFAULT FALSE
		);
		`,
	},
	{
		version: 2,
		name:    "index_tasks_plan_order",
		sql:     `CREATE INDEX IF NOT EXISTS idx_tasks_plan_order ON tasks(completed, priority, due_date);`,
	},
}

// runMigrations applies every pending migration in version order and
// returns the versions it applied.
func runMigrations(ctx context.Context, db *sql.DB) ([]int, error) {
	if _, err := db.ExecContext(ctx, schemaMigrationsDDL); err != nil {
		return nil, fmt.Errorf("failed to ensure schema_migrations table: %w", err)
	}

	ordered, err := sortedMigrations(migrations)
	if err != nil {
		return nil, err
	}

	done, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	var applied []int
	for _, m := range ordered {
		if _, ok := done[m.version]; ok {
			continue
		}
		if err := m.apply(ctx, db); err != nil {
			return applied, err
		}
		applied = append(applied, m.version)
	}

	return applied, nil
}

const schemaMigrationsDDL = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

func sortedMigrations(in []migration) ([]migration, error) {
	out := slices.Clone(in)
	slices.SortFunc(out, func(a, b migration) int {
		return cmp.Compare(a.version, b.version)
	})

	for i := 1; i < len(out); i++ {
		if out[i].version == out[i-1].version {
			return nil, fmt.Errorf("duplicate migration version: %d", out[i].version)
		}
	}

	return out, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[int]struct{}, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()

	versions := make(map[int]struct{})
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		versions[v] = struct{}{}
	}

	return versions, rows.Err()
}

func (m migration) String() string {
	return fmt.Sprintf("%03d_%s", m.version, m.name)
}

// apply runs the migration and records it in one transaction.
func (m migration) apply(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("migration %s: begin: %w", m, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.sql); err != nil {
		return fmt.Errorf("migration %s: %w", m, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, m.version, m.name); err != nil {
		return fmt.Errorf("migration %s: record: %w", m, err)
	}

	return tx.Commit()
}
