// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SQLStore keeps entries in a single kv_entry table.
// Works with both SQLite and PostgreSQL.
type SQLStore struct {
	db      *sql.DB
	dialect string
}

// NewSQLStore creates the kv_entry table if needed and returns a store on top of it.
// Safe to call multiple times - uses IF NOT EXISTS.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect string) (*SQLStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLStore{db: db, dialect: dialect}, nil
}

func (s *SQLStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT entry_value FROM kv_entry WHERE entry_key = ?
	`), key).Scan(&value)

	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %q: %w", key, err)
	}
	return []byte(value), true, nil
}

func (s *SQLStore) Save(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO kv_entry (entry_key, entry_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (entry_key) DO UPDATE
		SET entry_value = excluded.entry_value, updated_at = excluded.updated_at
	`), key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`
		DELETE FROM kv_entry WHERE entry_key = ?
	`), key)
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL
func (s *SQLStore) rebind(query string) string {
	if s.dialect != TypePostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const schema = `
-- Key-value entries
CREATE TABLE IF NOT EXISTS kv_entry (
    entry_key TEXT PRIMARY KEY,
    entry_value TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
