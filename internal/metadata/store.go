// Package metadata persists the structured projection of every note
// (title, path, tags, timestamps) and answers keyword, tag, and
// date-range queries against it.
package metadata

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/ziadkadry99/notebase/internal/db"
	"github.com/ziadkadry99/notebase/internal/notes"
)

// Record is the persisted projection of a note's non-content fields,
// primary-keyed by the note id. Upsert-only; no history.
type Record struct {
	ID         string
	Title      string
	Path       string
	Tags       string
	CreatedAt  float64
	ModifiedAt float64
}

// Store provides CRUD and query operations for note metadata.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Upsert inserts or fully replaces a record by id.
func (s *Store) Upsert(ctx context.Context, rec Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO notes (id, title, path, tags, created_at, modified_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Title, rec.Path, rec.Tags, rec.CreatedAt, rec.ModifiedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting note %s: %w", rec.ID, err)
	}
	return nil
}

// UpsertAll upserts multiple records, returning the count stored.
// A single failed record is counted out but does not abort the rest.
func (s *Store) UpsertAll(ctx context.Context, recs []Record) (int, error) {
	count := 0
	for _, rec := range recs {
		if err := s.Upsert(ctx, rec); err != nil {
			continue
		}
		count++
	}
	return count, nil
}

// Get retrieves a record by id. Returns nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, path, tags, created_at, modified_at
		FROM notes WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting note %s: %w", id, err)
	}
	return rec, nil
}

// ListAll returns every record, most-recently-modified first.
func (s *Store) ListAll(ctx context.Context) ([]Record, error) {
	return s.queryRecords(ctx, `
		SELECT id, title, path, tags, created_at, modified_at
		FROM notes ORDER BY modified_at DESC`)
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting notes: %w", err)
	}
	return n, nil
}

// FindByKeyword returns records whose title or tags contain the term as
// a substring. Sorted most-recently-modified first.
func (s *Store) FindByKeyword(ctx context.Context, term string) ([]Record, error) {
	like := "%" + term + "%"
	return s.queryRecords(ctx, `
		SELECT id, title, path, tags, created_at, modified_at
		FROM notes
		WHERE title LIKE ? OR tags LIKE ?
		ORDER BY modified_at DESC`, like, like)
}

// FindByDateRange returns records with modified_at within [start, end].
// Either bound may be nil; omitting both returns everything.
func (s *Store) FindByDateRange(ctx context.Context, start, end *float64) ([]Record, error) {
	var (
		clauses []string
		args    []any
	)
	if start != nil {
		clauses = append(clauses, "modified_at >= ?")
		args = append(args, *start)
	}
	if end != nil {
		clauses = append(clauses, "modified_at <= ?")
		args = append(args, *end)
	}

	query := "SELECT id, title, path, tags, created_at, modified_at FROM notes"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY modified_at DESC"

	return s.queryRecords(ctx, query, args...)
}

// DistinctTags returns the sorted set of every individual tag across
// all records, splitting each record's comma-joined tag string.
func (s *Store) DistinctTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT tags FROM notes WHERE tags IS NOT NULL AND tags != ''")
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, tag := range notes.SplitTags(tags) {
			seen[tag] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(seen))
	for tag := range seen {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out, nil
}

// Filter returns ids of records matching (OR across tags) AND (date
// range). Tag matching is deliberately loose: a record matches when any
// requested tag appears as a substring of its tag field, not an exact
// tag-membership test. Supplying no filters returns all ids.
func (s *Store) Filter(ctx context.Context, tags []string, start, end *float64) ([]string, error) {
	var (
		clauses []string
		args    []any
	)

	if len(tags) > 0 {
		tagClauses := make([]string, 0, len(tags))
		for _, tag := range tags {
			tagClauses = append(tagClauses, "tags LIKE ?")
			args = append(args, "%"+tag+"%")
		}
		clauses = append(clauses, "("+strings.Join(tagClauses, " OR ")+")")
	}
	if start != nil {
		clauses = append(clauses, "modified_at >= ?")
		args = append(args, *start)
	}
	if end != nil {
		clauses = append(clauses, "modified_at <= ?")
		args = append(args, *end)
	}

	query := "SELECT id FROM notes"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtering notes: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes a record by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting note %s: %w", id, err)
	}
	return nil
}

// ClearAll removes every record.
func (s *Store) ClearAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM notes"); err != nil {
		return fmt.Errorf("clearing notes: %w", err)
	}
	return nil
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var (
			rec                  Record
			createdAt, modifiedAt sql.NullFloat64
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Path, &rec.Tags, &createdAt, &modifiedAt); err != nil {
			return nil, err
		}
		rec.CreatedAt = createdAt.Float64
		rec.ModifiedAt = modifiedAt.Float64
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		rec                  Record
		createdAt, modifiedAt sql.NullFloat64
	)
	err := sc.Scan(&rec.ID, &rec.Title, &rec.Path, &rec.Tags, &createdAt, &modifiedAt)
	if err != nil {
		return nil, err
	}
	rec.CreatedAt = createdAt.Float64
	rec.ModifiedAt = modifiedAt.Float64
	return &rec, nil
}
