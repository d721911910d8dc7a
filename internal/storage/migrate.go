package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

// Schema scripts ship inside the binary so opening an empty database
// file needs no tooling around it. Every script is idempotent
// (IF NOT EXISTS / IF EXISTS), so re-running the full set is safe.
//
//go:embed migrations/*.sql
var migrations embed.FS

// MigrateUp brings the tasks schema up to date by running every *.up.sql
// script in lexical order.
func MigrateUp(db *sql.DB) error {
	return runScripts(db, ".up.sql")
}

// MigrateDown tears the schema back down; used by tests.
func MigrateDown(db *sql.DB) error {
	return runScripts(db, ".down.sql")
}

func runScripts(db *sql.DB, suffix string) error {
	names, err := fs.Glob(migrations, "migrations/*"+suffix)
	if err != nil {
		return fmt.Errorf("list migration scripts: %w", err)
	}
	sort.Strings(names)
	for _, name := range names {
		script, err := migrations.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.Exec(string(script)); err != nil {
			return fmt.Errorf("run %s: %w", name, err)
		}
	}
	return nil
}
