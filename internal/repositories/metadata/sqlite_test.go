package metadata

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/storage/storagetest"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	r := NewSQLiteRepository(storagetest.NewDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new"))) // upsert

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), v)

	require.NoError(t, r.Delete(ctx, "k"))
	v, err = r.Get(ctx, "k")
	require.NoError(t, err)
	require.Nil(t, v) // (nil, nil) если нет строки

	require.NoError(t, r.Delete(ctx, "k"))
}

func TestGetOrCreate_KeepsFirstValue(t *testing.T) {
	r := NewSQLiteRepository(storagetest.NewDB(t))
	ctx := context.Background()

	calls := 0
	gen := func() []byte {
		calls++
		return []byte{byte(calls)}
	}

	first, err := r.GetOrCreate(ctx, common.MetaDeviceSecret, gen)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, first)

	second, err := r.GetOrCreate(ctx, common.MetaDeviceSecret, gen)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGet_ClosedDB_IOFailure(t *testing.T) {
	db := storagetest.NewDB(t)
	r := NewSQLiteRepository(db)
	require.NoError(t, db.Close())

	_, err := r.Get(context.Background(), "k")
	require.ErrorIs(t, err, common.ErrIOFailure)
	require.Contains(t, err.Error(), "failed to get metadata[k]")
}
