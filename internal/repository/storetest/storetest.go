// Package storetest holds the behaviour every repository.BlobStore must share.
package storetest

import (
	"context"
	"testing"

	"github.com/ganot/rbm-dashboard/internal/repository"
	"github.com/stretchr/testify/require"
)

// Run exercises store against the BlobStore contract. newStore must return
// an empty store on every call.
func Run(t *testing.T, newStore func(t *testing.T) repository.BlobStore) {
	t.Run("GetMissing", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Get(context.Background(), "missing.json")
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("PutGet", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		version, err := store.Put(ctx, "doc.json", []byte(`[1]`), repository.PutOptions{})
		require.NoError(t, err)
		require.NotEmpty(t, version)

		obj, err := store.Get(ctx, "doc.json")
		require.NoError(t, err)
		require.Equal(t, `[1]`, string(obj.Body))
		require.Equal(t, version, obj.Version)
	})

	t.Run("OverwriteChangesVersion", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		v1, err := store.Put(ctx, "doc.json", []byte(`[1]`), repository.PutOptions{})
		require.NoError(t, err)
		v2, err := store.Put(ctx, "doc.json", []byte(`[1,2]`), repository.PutOptions{})
		require.NoError(t, err)
		require.NotEqual(t, v1, v2)

		obj, err := store.Get(ctx, "doc.json")
		require.NoError(t, err)
		require.Equal(t, `[1,2]`, string(obj.Body))
	})

	t.Run("KeysAreIndependent", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Put(ctx, "a.json", []byte(`"a"`), repository.PutOptions{})
		require.NoError(t, err)
		_, err = store.Put(ctx, "b.json", []byte(`"b"`), repository.PutOptions{})
		require.NoError(t, err)

		obj, err := store.Get(ctx, "a.json")
		require.NoError(t, err)
		require.Equal(t, `"a"`, string(obj.Body))
	})

	t.Run("IfMatch", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		v1, err := store.Put(ctx, "doc.json", []byte(`[1]`), repository.PutOptions{})
		require.NoError(t, err)

		v2, err := store.Put(ctx, "doc.json", []byte(`[2]`), repository.PutOptions{IfMatch: v1})
		require.NoError(t, err)

		_, err = store.Put(ctx, "doc.json", []byte(`[3]`), repository.PutOptions{IfMatch: v1})
		require.ErrorIs(t, err, repository.ErrConflict)

		obj, err := store.Get(ctx, "doc.json")
		require.NoError(t, err)
		require.Equal(t, `[2]`, string(obj.Body))
		require.Equal(t, v2, obj.Version)
	})

	t.Run("IfMatchMissing", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Put(context.Background(), "doc.json", []byte(`[1]`), repository.PutOptions{IfMatch: "1"})
		require.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("IfNoneMatch", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.Put(ctx, "doc.json", []byte(`[1]`), repository.PutOptions{IfNoneMatch: true})
		require.NoError(t, err)

		_, err = store.Put(ctx, "doc.json", []byte(`[2]`), repository.PutOptions{IfNoneMatch: true})
		require.ErrorIs(t, err, repository.ErrConflict)
	})
}
