package store

import (
	"database/sql"
	"fmt"
	"time"
)

// GetDocument returns the document stored under key, or nil when absent.
func (s *Store) GetDocument(key string) (*Document, error) {
	d := &Document{}
	var updatedAt string
	err := s.db.QueryRow(
		`SELECT key, value, updated_at FROM documents WHERE key = ?`, key,
	).Scan(&d.Key, &d.Value, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document %q: %w", key, err)
	}
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return d, nil
}

// PutDocument replaces the whole value under key in a single write.
func (s *Store) PutDocument(key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, now,
	)
	if err != nil {
		return fmt.Errorf("put document %q: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteDocument(key string) error {
	_, err := s.db.Exec(`DELETE FROM documents WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete document %q: %w", key, err)
	}
	return nil
}
