// Package migrate applies the embedded agency schema to a DuckDB database.
package migrate

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var files embed.FS

// Step is one versioned schema change, named NNN_description.sql.
type Step struct {
	Version int
	Name    string
	SQL     string
}

// Runner applies pending Steps in version order.
type Runner struct{ db *sql.DB }

func NewRunner(db *sql.DB) *Runner { return &Runner{db: db} }

// Steps returns the embedded steps sorted by version.
func Steps() ([]Step, error) {
	names, err := fs.Glob(files, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	steps := make([]Step, 0, len(names))
	for _, full := range names {
		name := path.Base(full)
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			continue
		}
		ver, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("migration %s: bad version: %w", name, err)
		}
		body, err := files.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("migration %s: %w", name, err)
		}
		steps = append(steps, Step{Version: ver, Name: name, SQL: string(body)})
	}
	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	return steps, nil
}

func (r *Runner) ensureTable() error {
	_, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		name       VARCHAR NOT NULL,
		applied_at TIMESTAMP DEFAULT current_timestamp
	)`)
	return err
}

// Current returns the highest applied version, 0 when none.
func (r *Runner) Current() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, fmt.Errorf("schema_migrations: %w", err)
	}
	var v sql.NullInt64
	if err := r.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&v); err != nil {
		return 0, err
	}
	return int(v.Int64), nil
}

// Pending returns steps newer than the applied version.
func (r *Runner) Pending() ([]Step, error) {
	cur, err := r.Current()
	if err != nil {
		return nil, err
	}
	steps, err := Steps()
	if err != nil {
		return nil, err
	}
	var out []Step
	for _, s := range steps {
		if s.Version > cur {
			out = append(out, s)
		}
	}
	return out, nil
}

// Run applies every pending step, each in its own transaction.
func (r *Runner) Run() error {
	pending, err := r.Pending()
	if err != nil {
		return err
	}
	for _, s := range pending {
		if err := r.apply(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) apply(s Step) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s: %w", s.Name, err)
	}
	if _, err := tx.Exec(s.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("executing %s: %w", s.Name, err)
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version, name) VALUES (?, ?)", s.Version, s.Name); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("recording %s: %w", s.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", s.Name, err)
	}
	return nil
}
