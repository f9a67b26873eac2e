package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrSkipUpdate can be returned by an UpdateFunc to leave the record untouched.
	ErrSkipUpdate = errors.New("update skipped")
)

// Record is a raw key/value pair as returned by prefix listings.
type Record struct {
	Key   string
	Value []byte
}

// UpdateFunc receives the current value and returns the replacement.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is the persistence collaborator of the HR core. Values are opaque JSON
// documents; typed access lives in repository/kv.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// ListByPrefix returns every record whose key starts with prefix, ordered by key.
	ListByPrefix(ctx context.Context, prefix string) ([]Record, error)
	// Update applies fn atomically to an existing record. Returns ErrNotFound
	// when the key is absent. Errors from fn are returned unchanged.
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// GetJSON loads key into dst.
func GetJSON(ctx context.Context, s Store, key string, dst any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON stores v under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}

// ListJSON decodes every record under prefix into a slice of T.
func ListJSON[T any](ctx context.Context, s Store, prefix string) ([]T, error) {
	records, err := s.ListByPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for _, rec := range records {
		var v T
		if err := json.Unmarshal(rec.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", rec.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// UpdateJSON decodes the record at key into T, lets fn mutate it and writes it back.
func UpdateJSON[T any](ctx context.Context, s Store, key string, fn func(v *T) error) error {
	return s.Update(ctx, key, func(current []byte) ([]byte, error) {
		var v T
		if err := json.Unmarshal(current, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if err := fn(&v); err != nil {
			return nil, err
		}
		return json.Marshal(v)
	})
}
