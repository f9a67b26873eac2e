package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
	_ "github.com/mattn/go-sqlite3"
)

const recordsSchema = `
	CREATE TABLE IF NOT EXISTS records (
		key        TEXT PRIMARY KEY,
		value      BLOB NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)
`

// RecordStore is a kvstore.Store on a single SQLite file.
type RecordStore struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and prepares the schema.
func Open(path string) (*RecordStore, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer keeps read-modify-write cycles serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(recordsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &RecordStore{db: db}, nil
}

func (s *RecordStore) Close() error {
	return s.db.Close()
}

func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kvstore.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (s *RecordStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

func (s *RecordStore) ListByPrefix(ctx context.Context, prefix string) ([]kvstore.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM records WHERE substr(key, 1, length(?)) = ? ORDER BY key`, prefix, prefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]kvstore.Record, 0)
	for rows.Next() {
		var rec kvstore.Record
		if err := rows.Scan(&rec.Key, &rec.Value); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *RecordStore) Update(ctx context.Context, key string, fn kvstore.UpdateFunc) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current []byte
	err = tx.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&current)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kvstore.ErrNotFound
		}
		return err
	}

	next, err := fn(current)
	if err != nil {
		if errors.Is(err, kvstore.ErrSkipUpdate) {
			return nil
		}
		return err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE records SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE key = ?`, next, key); err != nil {
		return err
	}
	return tx.Commit()
}
