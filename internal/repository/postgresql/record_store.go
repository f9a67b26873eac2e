package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
	"github.com/jackc/pgx/v5"
)

const recordsSchema = `
	CREATE TABLE IF NOT EXISTS records (
		key        TEXT PRIMARY KEY,
		value      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type recordStoreImpl struct {
	db *database.DB
}

// NewRecordStore returns a kvstore.Store backed by the records table.
func NewRecordStore(db *database.DB) kvstore.Store {
	return &recordStoreImpl{db: db}
}

// EnsureSchema creates the records table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *database.DB) error {
	if _, err := db.Exec(ctx, recordsSchema); err != nil {
		return fmt.Errorf("create records table: %w", err)
	}
	return nil
}

func (r *recordStoreImpl) Get(ctx context.Context, key string) ([]byte, error) {
	q := GetQuerier(ctx, r.db)

	var value []byte
	err := q.QueryRow(ctx, `SELECT value FROM records WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, kvstore.ErrNotFound
		}
		return nil, err
	}
	return value, nil
}

func (r *recordStoreImpl) Set(ctx context.Context, key string, value []byte) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO records (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	_, err := q.Exec(ctx, query, key, value)
	return err
}

func (r *recordStoreImpl) ListByPrefix(ctx context.Context, prefix string) ([]kvstore.Record, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT key, value FROM records WHERE starts_with(key, $1) ORDER BY key COLLATE "C"`, prefix)
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

// Update locks the row for the duration of fn so concurrent updates serialize.
func (r *recordStoreImpl) Update(ctx context.Context, key string, fn kvstore.UpdateFunc) error {
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		var current []byte
		err := tx.QueryRow(ctx, `SELECT value FROM records WHERE key = $1 FOR UPDATE`, key).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return kvstore.ErrNotFound
			}
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `UPDATE records SET value = $2, updated_at = NOW() WHERE key = $1`, key, next)
		return err
	})
	if errors.Is(err, kvstore.ErrSkipUpdate) {
		return nil
	}
	return err
}
