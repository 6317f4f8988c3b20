package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"studyplanner/internal/models"
)

// SQLiteStore persists tasks in a SQLite database. Save replaces every row
// inside a single transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A second connection to ":memory:" would see an empty database.
	db.SetMaxOpenConns(1)

	if _, err := runMigrations(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load retrieves all tasks ordered by id.
func (s *SQLiteStore) Load(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, subject, duration_minutes, priority, due_date, completed
		FROM tasks ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var task models.Task

		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Subject,
			&task.DurationMinutes,
			&task.Priority,
			&task.DueDate,
			&task.Completed,
		)
		if err != nil {
			return nil, &MalformedRecordError{Err: fmt.Errorf("failed to scan task: %w", err)}
		}

		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

// Save replaces the table contents with tasks.
func (s *SQLiteStore) Save(ctx context.Context, tasks []models.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, title, subject, duration_minutes, priority, due_date, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, t := range tasks {
		_, err := stmt.ExecContext(ctx, t.ID, t.Title, t.Subject, t.DurationMinutes, t.Priority, t.DueDate, t.Completed)
		if err != nil {
			return fmt.Errorf("failed to insert task %d: %w", t.ID, err)
		}
	}

	return tx.Commit()
}
