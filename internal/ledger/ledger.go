// Package ledger tracks ingestion run history in Postgres so the status
// CLI command and idempotent re-runs can see when each league was last
// ingested, how many records it produced, and whether it failed. The
// ledger is strictly best-effort: callers treat every error as
// non-fatal to the ingestion pipeline itself (see cmd/run.go).
package ledger

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"sort"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed sql/*.sql
var migrationFiles embed.FS

// Migration represents a single database migration.
type Migration struct {
	Name    string
	Content string
}

// Ledger wraps a database connection used to record ingestion run history.
type Ledger struct {
	*sql.DB
}

// Status values recorded for a run.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Run represents one league ingestion attempt.
type Run struct {
	League     string
	Status     string
	RowCount   int64
	Error      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

type Exec interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
}

// Connect establishes a connection to the PostgreSQL ledger database.
// If connStr is empty, it falls back to DATABASE_URL or a local default.
func Connect(connStr string) (*Ledger, error) {
	if connStr == "" {
		connStr = os.Getenv("DATABASE_URL")
		if connStr == "" {
			connStr = "host=localhost port=5432 user=postgres dbname=havf_dev sslmode=disable"
		}
	}

	sqlDB, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("open ledger database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping ledger database: %w", err)
	}

	return &Ledger{DB: sqlDB}, nil
}

func (l *Ledger) ensureMigrationsTable(ctx context.Context) error {
	_, err := l.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (l *Ledger) isApplied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := l.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func markApplied(ctx context.Context, exec Exec, name string) error {
	_, err := exec.ExecContext(ctx, `INSERT INTO schema_migrations (name, applied_at) VALUES ($1, $2)`, name, time.Now())
	return err
}

func (l *Ledger) loadMigrations() ([]Migration, error) {
	entries, err := migrationFiles.ReadDir("sql")
	if err != nil {
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		content, err := migrationFiles.ReadFile("sql/" + name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		migrations = append(migrations, Migration{Name: name, Content: string(content)})
	}

	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Name < migrations[j].Name })
	return migrations, nil
}

// Migrate runs all pending ledger migrations.
func (l *Ledger) Migrate(ctx context.Context) error {
	if err := l.ensureMigrationsTable(ctx); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	migrations, err := l.loadMigrations()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		applied, err := l.isApplied(ctx, migration.Name)
		if err != nil {
			return fmt.Errorf("check migration status for %s: %w", migration.Name, err)
		}
		if applied {
			continue
		}

		tx, err := l.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction for %s: %w", migration.Name, err)
		}

		if _, err := tx.ExecContext(ctx, migration.Content); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %s: %w", migration.Name, err)
		}

		if err := markApplied(ctx, tx, migration.Name); err != nil {
			tx.Rollback()
			return fmt.Errorf("mark migration %s applied: %w", migration.Name, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", migration.Name, err)
		}
	}

	return nil
}

// StartRun inserts a "running" row for a league ingestion attempt and
// returns its id so the caller can later mark it done or failed.
func (l *Ledger) StartRun(ctx context.Context, league string, startedAt time.Time) (int64, error) {
	var id int64
	err := l.QueryRowContext(ctx, `
		INSERT INTO ingestion_runs (league, status, started_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, league, StatusRunning, startedAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("start run for %s: %w", league, err)
	}
	return id, nil
}

// FinishRun marks a run as done (rowCount records written, no error) or
// failed (ingestErr non-nil).
func (l *Ledger) FinishRun(ctx context.Context, id int64, rowCount int64, ingestErr error) error {
	status := StatusDone
	var errText sql.NullString
	if ingestErr != nil {
		status = StatusFailed
		errText = sql.NullString{String: ingestErr.Error(), Valid: true}
	}

	_, err := l.ExecContext(ctx, `
		UPDATE ingestion_runs
		SET status = $1, row_count = $2, error = $3, finished_at = NOW()
		WHERE id = $4
	`, status, rowCount, errText, id)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", id, err)
	}
	return nil
}

// LatestRuns returns the most recent run per league, for the status CLI
// command's freshness display.
func (l *Ledger) LatestRuns(ctx context.Context) (map[string]Run, error) {
	rows, err := l.QueryContext(ctx, `
		SELECT DISTINCT ON (league) league, status, row_count, COALESCE(error, ''), started_at, finished_at
		FROM ingestion_runs
		ORDER BY league, started_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query latest runs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]Run)
	for rows.Next() {
		var run Run
		var finishedAt sql.NullTime
		if err := rows.Scan(&run.League, &run.Status, &run.RowCount, &run.Error, &run.StartedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finishedAt.Valid {
			run.FinishedAt = &finishedAt.Time
		}
		result[run.League] = run
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return result, nil
}
