// Package localstore persists per-user JSON collections in a local SQLite
// database. Collections are serialized as JSON arrays under keys namespaced
// by user id (e.g. "bills:<userId>"), mirroring the key-value layout the
// dashboard frontend uses. There is no schema versioning; any shape change
// to a stored collection is a breaking change.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/smartwallet/bff-go/internal/domain"
)

// KV is a SQLite-backed key-value store for JSON blobs.
type KV struct {
	db *sql.DB
}

// Open creates (or opens) the database at dbPath and ensures the kv table
// exists. Parent directories are created as needed.
func Open(dbPath string) (*KV, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	const schema = `
		CREATE TABLE IF NOT EXISTS kv (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &KV{db: db}, nil
}

// Close closes the underlying database.
func (s *KV) Close() error {
	return s.db.Close()
}

// Get returns the raw value for key, or nil when the key does not exist.
func (s *KV) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &domain.ErrStorage{Op: "get", Key: key, Err: err}
	}
	return []byte(value), nil
}

// Put upserts the value for key.
func (s *KV) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().Unix(),
	)
	if err != nil {
		return &domain.ErrStorage{Op: "put", Key: key, Err: err}
	}
	return nil
}

// getCollection unmarshals the JSON array stored under key. A missing key
// yields an empty slice.
func getCollection[T any](ctx context.Context, kv *KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, &domain.ErrStorage{Op: "decode", Key: key, Err: err}
	}
	return items, nil
}

// putCollection marshals items and stores them under key.
func putCollection[T any](ctx context.Context, kv *KV, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return &domain.ErrStorage{Op: "encode", Key: key, Err: err}
	}
	return kv.Put(ctx, key, raw)
}
