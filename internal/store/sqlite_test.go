package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-favorites/internal/favorites"
	"quote-favorites/internal/market"
)

var _ favorites.Slot = (*Store)(nil)
var _ favorites.Slot = (*RedisSlot)(nil)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	st, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st, path
}

func TestStore_GetMissing(t *testing.T) {
	st, _ := openTemp(t)

	v, found, err := st.Get(context.Background(), "FavoriteQuotes")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	st, _ := openTemp(t)

	require.NoError(t, st.Set(ctx, "k", []byte(`[1]`)))
	require.NoError(t, st.Set(ctx, "k", []byte(`[2]`)))

	v, found, err := st.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[2]`, string(v))
}

func TestStore_FavoritesSurviveReopen(t *testing.T) {
	ctx := context.Background()
	st, path := openTemp(t)

	favs := favorites.NewStore(st, "")
	favs.Add(ctx, market.Quote{Symbol: "NESN", Name: "Nestle", Currency: "CHF"})
	favs.Add(ctx, market.Quote{Symbol: "ROG", Name: "Roche", Currency: "CHF"})
	require.NoError(t, favs.Flush(ctx))
	require.NoError(t, st.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got := favorites.NewStore(reopened, "").LoadAll(ctx)
	require.Len(t, got, 2)
	assert.Equal(t, "NESN", got[0].Symbol)
	assert.Equal(t, "ROG", got[1].Symbol)
}

func TestStore_NilReceiver(t *testing.T) {
	var st *Store
	_, _, err := st.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, st.Set(context.Background(), "k", nil))
	assert.NoError(t, st.Close())
}
