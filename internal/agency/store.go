// Package agency keeps the agency dataset in DuckDB so the agency screen and
// the preview API can search and page it without going back to the backend.
package agency

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/paperlane/storefront/internal/agency/migrate"
	"github.com/paperlane/storefront/internal/logger"
	"github.com/paperlane/storefront/internal/model"
)

// Store manages the DuckDB connection holding the agencies table.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	lggr         logger.Logger
	QueryTimeout time.Duration
}

var _ model.AgencyQuerier = (*Store)(nil)

// NewStore opens or creates the database. An empty dbPath keeps it in memory.
func NewStore(dbPath string, lggr logger.Logger) (*Store, error) {
	if lggr == nil {
		lggr = logger.Nop()
	}
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, err
	}
	if err := migrate.NewRunner(db).Run(); err != nil {
		db.Close()
		return nil, fmt.Errorf("agency: migrate: %w", err)
	}

	return &Store{
		db:           db,
		lggr:         lggr.Named("agency"),
		QueryTimeout: 10 * time.Second,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) queryCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.QueryTimeout)
}

// Replace swaps the whole dataset in one transaction.
func (s *Store) Replace(records []model.AgencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM agencies"); err != nil {
		return fmt.Errorf("agency: clear: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO agencies (id, name, region, contact, email, templates, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("agency: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		var updated any
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.UTC()
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Region, r.Contact, r.Email, r.Templates, updated); err != nil {
			return fmt.Errorf("agency: insert %q: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("agency: commit: %w", err)
	}
	s.lggr.Debugw("dataset replaced", "rows", len(records))
	return nil
}
