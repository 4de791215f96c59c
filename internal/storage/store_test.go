package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	fileStore, err := NewFileStore(filepath.Join(t.TempDir(), "data", "accounts.json"))
	require.NoError(t, err)
	t.Cleanup(func() {
		sqliteStore.Close()
		fileStore.Close()
	})
	return map[string]Store{"sqlite": sqliteStore, "file": fileStore}
}

func TestStore_AccountLifecycle(t *testing.T) {
	ctx := context.Background()
	for name, st := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			err := st.CreateAccount(ctx, Account{Username: "hungryhippo", Email: "Eater@Example.com", PasswordHash: "h"})
			require.NoError(t, err)

			err = st.CreateAccount(ctx, Account{Username: "other", Email: "eater@example.com", PasswordHash: "x"})
			require.ErrorIs(t, err, ErrAccountExists)

			acc, err := st.GetAccount(ctx, "EATER@example.com")
			require.NoError(t, err)
			require.Equal(t, "eater@example.com", acc.Email)
			require.Equal(t, "hungryhippo", acc.Username)
			require.Equal(t, "h", acc.PasswordHash)

			_, err = st.GetAccount(ctx, "nobody@example.com")
			require.ErrorIs(t, err, ErrAccountNotFound)
		})
	}
}

func TestStore_HistoryUnionSemantics(t *testing.T) {
	ctx := context.Background()
	for name, st := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.CreateAccount(ctx, Account{Username: "hungryhippo", Email: "a@b.c", PasswordHash: "h"}))

			foods, err := st.GetHistory(ctx, "a@b.c")
			require.NoError(t, err)
			require.Empty(t, foods)

			require.NoError(t, st.AppendHistory(ctx, "a@b.c", "rendang"))
			require.NoError(t, st.AppendHistory(ctx, "a@b.c", "pho"))
			require.NoError(t, st.AppendHistory(ctx, "a@b.c", "rendang"))

			foods, err = st.GetHistory(ctx, "a@b.c")
			require.NoError(t, err)
			require.Equal(t, []string{"rendang", "pho"}, foods)

			require.NoError(t, st.RemoveHistory(ctx, "a@b.c", "rendang"))
			require.NoError(t, st.RemoveHistory(ctx, "a@b.c", "not-there"))
			foods, err = st.GetHistory(ctx, "a@b.c")
			require.NoError(t, err)
			require.Equal(t, []string{"pho"}, foods)
		})
	}
}

func TestStore_UnknownAccountHistory(t *testing.T) {
	ctx := context.Background()
	for name, st := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			foods, err := st.GetHistory(ctx, "ghost@x.y")
			require.NoError(t, err)
			require.Empty(t, foods)

			err = st.AppendHistory(ctx, "ghost@x.y", "pho")
			require.True(t, errors.Is(err, ErrAccountNotFound), "got %v", err)
		})
	}
}

func TestStore_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	for name, st := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, st.CreateAccount(ctx, Account{Username: "hungryhippo", Email: "a@b.c", PasswordHash: "h"}))
			var wg sync.WaitGroup
			for i := 0; i < 20; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = st.AppendHistory(ctx, "a@b.c", "satay")
				}()
			}
			wg.Wait()
			foods, err := st.GetHistory(ctx, "a@b.c")
			require.NoError(t, err)
			require.Equal(t, []string{"satay"}, foods)
		})
	}
}
