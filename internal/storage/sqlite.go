// Package storage provides the durable local store for the client: the
// string-keyed slots backing the session plus a cache of fetched history.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cltpj/cltpj/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements service.SlotStore and service.HistoryCache on a
// single local SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (creating if needed) the local database.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("dbPath cannot be empty")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get reads a slot value, reporting whether the key was present at all.
func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, fmt.Errorf("key cannot be empty")
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read slot %q: %w", key, err)
	}

	return value, true, nil
}

// Set writes a slot value, replacing any prior value.
func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}

	return nil
}

// Delete removes a slot. Deleting an absent key is not an error.
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}

	return nil
}

// ReplaceHistory swaps the cached history for a freshly fetched list.
func (s *SQLiteStore) ReplaceHistory(ctx context.Context, recs []model.HistoryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM history_cache`); err != nil {
		return fmt.Errorf("failed to clear history cache: %w", err)
	}

	for _, rec := range recs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO history_cache (id, created_at, net_clt, net_pj, verdict, payload)
			VALUES (?, ?, ?, ?, ?, ?)
		`, rec.ID, rec.CreatedAt, rec.NetPayCLT, rec.NetPayPJ, rec.Verdict, rec.Payload)
		if err != nil {
			return fmt.Errorf("failed to cache history record %q: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// CachedHistory returns the locally cached history, newest first.
func (s *SQLiteStore) CachedHistory(ctx context.Context) ([]model.HistoryRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, net_clt, net_pj, verdict, payload
		FROM history_cache
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history cache: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []model.HistoryRecord
	for rows.Next() {
		var rec model.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.NetPayCLT, &rec.NetPayPJ, &rec.Verdict, &rec.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history cache: %w", err)
	}

	return recs, nil
}
