package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/duetick/duetick/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{
			ID:                  "t1",
			Title:               "Buy milk",
			Description:         "Two liters",
			DueDate:             time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC),
			Repeat:              model.RepeatNone,
			WarnNotificationID:  "w1",
			FinalNotificationID: "f1",
		},
		{
			ID:         "t2",
			Title:      "Standup",
			DueDate:    time.Date(2026, 3, 3, 9, 30, 0, 0, time.UTC),
			IsComplete: true,
			IsPriority: true,
			Repeat:     model.RepeatDaily,
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}

	ctx := context.Background()
	if err := store.Save(ctx, sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].ID != "t1" || !got[0].DueDate.Equal(sampleTasks()[0].DueDate) {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
	if got[1].Repeat != model.RepeatDaily || !got[1].IsPriority {
		t.Fatalf("round trip lost fields: %+v", got[1])
	}
}

func TestFileStoreLoadMissingFileYieldsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.json")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d tasks", len(got))
	}
}

func TestFileStoreLoadCorruptFileYieldsEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o640); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list for corrupt file, got %d tasks", len(got))
	}
}

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		t.Fatalf("new sqlite store: %v", err)
	}
	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(got))
	}
	if got[0].Title != "Buy milk" || got[0].WarnNotificationID != "w1" {
		t.Fatalf("round trip mismatch: %+v", got[0])
	}
}

func TestSQLiteStoreSaveReplacesWholeList(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleTasks()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	replacement := []model.Task{{
		ID:      "t3",
		Title:   "Only survivor",
		DueDate: time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
		Repeat:  model.RepeatWeekly,
	}}
	if err := store.Save(ctx, replacement); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t3" {
		t.Fatalf("save did not replace list: %+v", got)
	}
}

func TestSQLiteStoreEmptyLoad(t *testing.T) {
	store := openTestSQLite(t)
	got, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}

func TestSQLiteStoreSkipsUndecodableRows(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	if err := store.Save(ctx, sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := store.db.Exec(`
		INSERT INTO tasks (id, title, description, due_date, is_complete, is_priority, repeat, warn_notification_id, final_notification_id)
		VALUES ('bad', 'Mangled', '', 'not-a-timestamp', 0, 0, 'none', '', '')`)
	if err != nil {
		t.Fatalf("insert mangled row: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load with mangled row: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the 2 decodable tasks, got %d", len(got))
	}
	for _, task := range got {
		if task.ID == "bad" {
			t.Fatalf("mangled row surfaced: %+v", task)
		}
	}
}

func TestSQLiteStoreClosedErrors(t *testing.T) {
	store := openTestSQLite(t)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if err := store.Save(context.Background(), sampleTasks()); !errors.Is(err, ErrClosed) {
		t.Fatalf("save after close: got %v, want ErrClosed", err)
	}
	if _, err := store.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("load after close: got %v, want ErrClosed", err)
	}
}

func TestMigrateDownDropsTable(t *testing.T) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	if err := MigrateDown(db); err != nil {
		t.Fatalf("migrate down: %v", err)
	}
	if _, err := db.Exec(`SELECT COUNT(*) FROM tasks`); err == nil {
		t.Fatal("expected tasks table to be gone after down migration")
	}
}
