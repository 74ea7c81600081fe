package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/weblarek/storefront/internal/view"
)

func newTestStore(t *testing.T, ttl time.Duration) *Store {
	t.Helper()
	render, err := view.NewRenderer()
	require.NoError(t, err)

	return NewStore(StoreConfig{TTL: ttl}, Deps{
		Catalog: &stubCatalog{},
		Orders:  &stubOrders{},
		Render:  render,
		Logger:  zap.NewNop(),
	})
}

func TestStore_CreateAndGet(t *testing.T) {
	store := newTestStore(t, time.Minute)

	_, ok := store.Get("unknown")
	assert.False(t, ok)

	sess := store.Create(context.Background())
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, 1, store.Len())

	got, ok := store.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
}

func TestStore_Eviction(t *testing.T) {
	store := newTestStore(t, time.Minute)
	sess := store.Create(context.Background())

	// Not idle long enough yet.
	store.evict(time.Now().Add(30 * time.Second))
	_, ok := store.Get(sess.ID)
	assert.True(t, ok)

	// Get refreshed the idle timer, so eviction counts from now.
	store.evict(time.Now().Add(time.Minute))
	_, ok = store.Get(sess.ID)
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}
