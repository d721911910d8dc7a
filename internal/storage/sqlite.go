package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/duetick/duetick/internal/model"
)

const sqliteTimeLayout = time.RFC3339Nano

// SQLiteStore persists the task list in a sqlite database. Save replaces
// the whole table inside one transaction, so an observer always sees either
// the old list or the new one.
type SQLiteStore struct {
	db *sql.DB

	mu     sync.Mutex
	closed bool
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.db.Close()
}

func (s *SQLiteStore) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *SQLiteStore) Save(ctx context.Context, tasks []model.Task) error {
	if s.isClosed() {
		return ErrClosed
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return rollback(tx, fmt.Errorf("clear tasks: %w", err))
	}
	for _, t := range tasks {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tasks (id, title, description, due_date, is_complete, is_priority, repeat, warn_notification_id, final_notification_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Title, t.Description, mustTime(t.DueDate),
			boolInt(t.IsComplete), boolInt(t.IsPriority), string(t.Repeat),
			t.WarnNotificationID, t.FinalNotificationID,
		)
		if err != nil {
			return rollback(tx, fmt.Errorf("insert task %s: %w", t.ID, err))
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) Load(ctx context.Context) ([]model.Task, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, due_date, is_complete, is_priority, repeat, warn_notification_id, final_notification_id
		FROM tasks ORDER BY due_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			// Undecodable rows degrade to absence, same as a corrupt
			// JSON file in the file backend.
			continue
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

func rollback(tx *sql.Tx, err error) error {
	if rerr := tx.Rollback(); rerr != nil {
		err = fmt.Errorf("%w: %v", err, rerr)
	}
	return err
}

func mustTime(v time.Time) string {
	return v.UTC().Format(sqliteTimeLayout)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var out model.Task
	var due string
	var complete, priority int
	var repeat string
	if err := s.Scan(&out.ID, &out.Title, &out.Description, &due, &complete, &priority, &repeat, &out.WarnNotificationID, &out.FinalNotificationID); err != nil {
		return model.Task{}, err
	}
	dueAt, err := time.Parse(sqliteTimeLayout, due)
	if err != nil {
		return model.Task{}, fmt.Errorf("parse due date: %w", err)
	}
	out.DueDate = dueAt
	out.IsComplete = complete == 1
	out.IsPriority = priority == 1
	out.Repeat = model.Repeat(repeat)
	return out, nil
}
