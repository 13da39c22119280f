// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package kvstore provides the key-value storage that backs every persisted value.

# Opening a Store

Open selects a backend by type:

	store, err := kvstore.Open(ctx, kvstore.TypeSQLite, "file:evote.db")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

Supported types:

  - sqlite: modernc.org/sqlite, single connection (default)
  - postgres: github.com/lib/pq
  - redis: github.com/redis/go-redis/v9
  - memory: process-local map, for tests

# Schema

The SQL backends use one table, created with IF NOT EXISTS on open:

	kv_entry(entry_key TEXT PRIMARY KEY, entry_value TEXT, updated_at TIMESTAMP)

Save is an upsert. Queries are written with ? placeholders and rewritten to
$n for PostgreSQL.

# Consistency

Each Save and Delete touches exactly one key. Nothing spans keys, and
concurrent writers from different processes overwrite each other silently.
*/
package kvstore
