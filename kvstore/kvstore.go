// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package kvstore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Backend type constants
const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
	TypeRedis    = "redis"
	TypeMemory   = "memory"
)

// Store is a flat key-value store holding text blobs.
// There is no transaction spanning more than one key.
type Store interface {
	// Load returns the value under key and whether it was present.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open connects to the backend named by storeType and prepares it for use.
func Open(ctx context.Context, storeType, url string) (Store, error) {
	switch storeType {
	case TypeMemory:
		return NewMemoryStore(), nil
	case TypeRedis:
		store, err := NewRedisStore(ctx, url)
		if err != nil {
			return nil, err
		}
		return store, nil
	case TypeSQLite, TypePostgres:
		conn, err := sql.Open(storeType, url)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := conn.PingContext(ctx); err != nil {
			conn.Close()
			return nil, fmt.Errorf("database ping failed: %w", err)
		}
		if storeType == TypeSQLite {
			// One writer at a time; also keeps ":memory:" on a single connection.
			conn.SetMaxOpenConns(1)
		}
		store, err := NewSQLStore(ctx, conn, storeType)
		if err != nil {
			conn.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", storeType)
	}
}
