package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"favsvc/internal/cache"
	apperrors "favsvc/internal/errors"
)

func newTestTokenStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = client.Close() })
	return NewTokenStore(client), mr
}

func TestTokenStore_Lifecycle(t *testing.T) {
	store, mr := newTestTokenStore(t)
	ctx := context.Background()

	sess := &Session{ID: "abc", UserID: 7, CSRFToken: "csrf", CreatedAt: time.Now().UTC().Truncate(time.Second)}
	require.NoError(t, store.StoreSession(ctx, sess, time.Hour))
	assert.True(t, mr.Exists("session:abc"))
	assert.Equal(t, time.Hour, mr.TTL("session:abc"))

	got, err := store.GetSession(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, uint64(7), got.UserID)
	assert.Equal(t, "csrf", got.CSRFToken)
	assert.True(t, sess.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, store.DeleteSession(ctx, "abc"))
	require.NoError(t, store.DeleteSession(ctx, "abc"))

	got, err = store.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenStore_Expiry(t *testing.T) {
	store, mr := newTestTokenStore(t)
	ctx := context.Background()

	require.NoError(t, store.StoreSession(ctx, &Session{ID: "abc", UserID: 1}, time.Minute))
	mr.FastForward(2 * time.Minute)

	got, err := store.GetSession(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTokenStore_Unavailable(t *testing.T) {
	store, mr := newTestTokenStore(t)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := store.GetSession(ctx, "abc")
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)

	err = store.StoreSession(ctx, &Session{ID: "abc", UserID: 1}, time.Minute)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestCSRF(t *testing.T) {
	a, err := NewCSRFToken()
	require.NoError(t, err)
	b, err := NewCSRFToken()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, ValidCSRF(a, a))
	assert.False(t, ValidCSRF(a, b))
	assert.False(t, ValidCSRF(a, ""))
	assert.False(t, ValidCSRF("", ""))
}
