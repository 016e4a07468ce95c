package agency

import (
	"database/sql"
	"strings"

	"github.com/paperlane/storefront/internal/model"
)

// matchClause matches the lowered query against every searchable column.
// An empty query matches all rows.
const matchClause = `
	WHERE ? = ''
	   OR contains(lower(name), ?)
	   OR contains(lower(region), ?)
	   OR contains(lower(contact), ?)
	   OR contains(lower(email), ?)`

func matchArgs(q string) []any {
	return []any{q, q, q, q, q}
}

// Count returns the number of stored agencies.
func (s *Store) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM agencies").Scan(&n)
	return n, err
}

// Search returns one page of agencies whose text columns contain query,
// case-insensitively, ordered by name. page is clamped to the valid range.
func (s *Store) Search(query string, page, pageSize int) (model.AgencyPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := s.queryCtx()
	defer cancel()

	q := strings.ToLower(strings.TrimSpace(query))
	pageSize = clampPageSize(pageSize)

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM agencies"+matchClause, matchArgs(q)...).Scan(&total); err != nil {
		return model.AgencyPage{}, err
	}

	pageCount := PageCount(total, pageSize)
	page = min(max(page, 1), pageCount)

	args := append(matchArgs(q), pageSize, (page-1)*pageSize)
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, region, contact, email, templates, updated_at
		FROM agencies`+matchClause+`
		ORDER BY lower(name), id
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return model.AgencyPage{}, err
	}
	defer rows.Close()

	out := make([]model.AgencyRecord, 0, pageSize)
	for rows.Next() {
		var r model.AgencyRecord
		var updated sql.NullTime
		if err := rows.Scan(&r.ID, &r.Name, &r.Region, &r.Contact, &r.Email, &r.Templates, &updated); err != nil {
			s.lggr.Warnw("scan error", "query", "Search", "err", err)
			continue
		}
		if updated.Valid {
			r.UpdatedAt = updated.Time.UTC()
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return model.AgencyPage{}, err
	}

	return model.AgencyPage{
		Rows:      out,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount,
	}, nil
}

// PageCount is the number of pages needed for total rows; at least one.
func PageCount(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

func clampPageSize(n int) int {
	if n <= 0 {
		return model.DefaultPageSize
	}
	return min(n, model.MaxPageSize)
}
