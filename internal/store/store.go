// Package store persists queued commands in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var (
	// ErrNotFound is returned when a command id does not exist.
	ErrNotFound = errors.New("command not found")
	// ErrEmpty is returned by NextPending when no command is waiting.
	ErrEmpty = errors.New("queue is empty")
)

// Status is the lifecycle state of a queued command.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Command is a unit of work submitted to the agent.
type Command struct {
	ID          string
	Type        string
	Content     string
	Priority    int
	Status      Status
	Result      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

const schema = `
CREATE TABLE IF NOT EXISTS commands (
	id           TEXT PRIMARY KEY,
	type         TEXT NOT NULL,
	content      TEXT NOT NULL,
	priority     INTEGER NOT NULL DEFAULT 0,
	status       TEXT NOT NULL DEFAULT 'pending',
	result       TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL,
	completed_at TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_commands_status ON commands(status, priority DESC, created_at ASC);
`

// Store is a SQLite-backed command queue.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the queue database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Commands claimed by a previous process that died mid-run would
	// stay processing forever; hand them back to the queue.
	if _, err := db.Exec(`UPDATE commands SET status = ?, updated_at = ? WHERE status = ?`,
		StatusPending, time.Now().UTC(), StatusProcessing); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to recover in-flight commands: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Enqueue inserts a new pending command and returns it.
func (s *Store) Enqueue(ctx context.Context, cmdType, content string, priority int) (*Command, error) {
	now := time.Now().UTC()
	cmd := &Command{
		ID:        uuid.NewString(),
		Type:      cmdType,
		Content:   content,
		Priority:  priority,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO commands (id, type, content, priority, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		cmd.ID, cmd.Type, cmd.Content, cmd.Priority, cmd.Status, cmd.CreatedAt, cmd.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue command: %w", err)
	}
	return cmd, nil
}

// NextPending claims the highest-priority pending command, marking it
// processing before returning it. Returns ErrEmpty when nothing is queued.
func (s *Store) NextPending(ctx context.Context) (*Command, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, type, content, priority, status, result, created_at, updated_at, completed_at
		 FROM commands WHERE status = ?
		 ORDER BY priority DESC, created_at ASC LIMIT 1`, StatusPending)
	cmd, err := scanCommand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`UPDATE commands SET status = ?, updated_at = ? WHERE id = ?`,
		StatusProcessing, now, cmd.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	cmd.Status = StatusProcessing
	cmd.UpdatedAt = now
	return cmd, nil
}

// SetStatus updates a command's status and result. Completed and failed
// commands also record their completion time.
func (s *Store) SetStatus(ctx context.Context, id string, status Status, result string) error {
	now := time.Now().UTC()
	var completedAt any
	if status == StatusCompleted || status == StatusFailed {
		completedAt = now
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE commands SET status = ?, result = ?, updated_at = ?, completed_at = ? WHERE id = ?`,
		status, result, now, completedAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns a single command by id.
func (s *Store) Get(ctx context.Context, id string) (*Command, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, type, content, priority, status, result, created_at, updated_at, completed_at
		 FROM commands WHERE id = ?`, id)
	cmd, err := scanCommand(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return cmd, err
}

// List returns the most recent commands, newest first, up to limit.
func (s *Store) List(ctx context.Context, limit int) ([]*Command, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, type, content, priority, status, result, created_at, updated_at, completed_at
		 FROM commands ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cmds []*Command
	for rows.Next() {
		cmd, err := scanCommand(rows)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCommand(row scanner) (*Command, error) {
	var cmd Command
	var completedAt sql.NullTime
	err := row.Scan(&cmd.ID, &cmd.Type, &cmd.Content, &cmd.Priority, &cmd.Status,
		&cmd.Result, &cmd.CreatedAt, &cmd.UpdatedAt, &completedAt)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		cmd.CompletedAt = &t
	}
	return &cmd, nil
}
