package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cmlabs-hris/univ-hr-backend-go/internal/pkg/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	N int `json:"n"`
}

func openStore(t *testing.T) *RecordStore {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "hr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRecordStore_GetSetList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "leave/missing")
	assert.ErrorIs(t, err, kvstore.ErrNotFound)

	require.NoError(t, kvstore.SetJSON(ctx, store, "leave/b", counter{N: 2}))
	require.NoError(t, kvstore.SetJSON(ctx, store, "leave/a", counter{N: 1}))
	require.NoError(t, kvstore.SetJSON(ctx, store, "leave_payload/a", counter{N: 9}))
	require.NoError(t, kvstore.SetJSON(ctx, store, "leave/b", counter{N: 3}))

	got, err := kvstore.ListJSON[counter](ctx, store, "leave/")
	require.NoError(t, err)
	assert.Equal(t, []counter{{N: 1}, {N: 3}}, got)
}

func TestRecordStore_Update(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	require.NoError(t, kvstore.SetJSON(ctx, store, "employee/e1", counter{}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, kvstore.UpdateJSON(ctx, store, "employee/e1", func(c *counter) error {
				c.N++
				return nil
			}))
		}()
	}
	wg.Wait()

	var got counter
	require.NoError(t, kvstore.GetJSON(ctx, store, "employee/e1", &got))
	assert.Equal(t, 10, got.N)

	err := store.Update(ctx, "employee/e1", func([]byte) ([]byte, error) { return nil, kvstore.ErrSkipUpdate })
	assert.NoError(t, err)

	err = store.Update(ctx, "employee/none", func(b []byte) ([]byte, error) { return b, nil })
	assert.ErrorIs(t, err, kvstore.ErrNotFound)
}
