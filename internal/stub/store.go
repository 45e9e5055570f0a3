package stub

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // register sqlite as database/sql driver
)

var ErrNotFound = errors.New("not found")
var ErrDuplicate = errors.New("record already exists")

// Store is a sqlite-backed document store for the stub backend. Rows are
// kept as JSON documents keyed by (resource, primary key); composite keys
// are joined with "/". Insertion order is preserved for stable paging.
type Store struct {
	db *sql.DB
}

// OpenStore opens (and if needed creates) the stub database. Use
// ":memory:" for tests.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// single writer; sqlite serializes writes anyway
	db.SetMaxOpenConns(1)

	schema := `CREATE TABLE IF NOT EXISTS records (
		seq      INTEGER PRIMARY KEY AUTOINCREMENT,
		resource TEXT NOT NULL,
		pk       TEXT NOT NULL,
		doc      TEXT NOT NULL,
		UNIQUE(resource, pk)
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() {
	s.db.Close()
}

// CompositeKey joins primary key values into the stored key form.
func CompositeKey(values []string) string {
	return strings.Join(values, "/")
}

// List returns one page of a resource's documents in insertion order,
// plus the unpaged total.
func (s *Store) List(ctx context.Context, res string, page, pageSize int) ([]map[string]any, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE resource = ?", res).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", res, err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT doc FROM records WHERE resource = ? ORDER BY seq LIMIT ? OFFSET ?",
		res, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", res, err)
	}
	defer rows.Close()

	var docs []map[string]any
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		doc, err := decodeDoc(raw)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return docs, total, nil
}

// Get returns one document by its composite key.
func (s *Store) Get(ctx context.Context, res, pk string) (map[string]any, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT doc FROM records WHERE resource = ? AND pk = ?", res, pk).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", res, pk, err)
	}
	return decodeDoc(raw)
}

// Insert stores a new document; a key collision reports ErrDuplicate.
func (s *Store) Insert(ctx context.Context, res, pk string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", res, pk, err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO records (resource, pk, doc) VALUES (?, ?, ?)", res, pk, string(raw))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicate
		}
		return fmt.Errorf("insert %s/%s: %w", res, pk, err)
	}
	return nil
}

// Update replaces an existing document.
func (s *Store) Update(ctx context.Context, res, pk string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", res, pk, err)
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE records SET doc = ? WHERE resource = ? AND pk = ?", string(raw), res, pk)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", res, pk, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document by its composite key.
func (s *Store) Delete(ctx context.Context, res, pk string) error {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE resource = ? AND pk = ?", res, pk)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", res, pk, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of documents for a resource.
func (s *Store) Count(ctx context.Context, res string) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM records WHERE resource = ?", res).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", res, err)
	}
	return total, nil
}

func decodeDoc(raw string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}
