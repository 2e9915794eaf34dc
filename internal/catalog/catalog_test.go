package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "favsvc/internal/errors"
)

func TestHTTPCatalog_ItemExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items/42":
			w.WriteHeader(http.StatusOK)
		case "/items/500":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewHTTPCatalog(srv.URL+"/", time.Second)
	ctx := context.Background()

	ok, err := c.ItemExists(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.ItemExists(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = c.ItemExists(ctx, 500)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestHTTPCatalog_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPCatalog(url, time.Second).ItemExists(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}
