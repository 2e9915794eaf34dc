package session

import (
	"context"
	"errors"

	apperrors "favsvc/internal/errors"
	"favsvc/internal/model"
)

// Identity is the resolved session of a request.
type Identity struct {
	SessionID string
	UserID    uint64
	CSRFToken string
}

type ctxKey int

const (
	identityKey ctxKey = iota
	scopeKey
)

// requestScope memoizes the current user for one request. It is created per
// request and never shared, so it needs no locking.
type requestScope struct {
	loaded bool
	user   *model.User
}

// WithScope returns a context carrying a fresh request scope.
func WithScope(ctx context.Context) context.Context {
	return context.WithValue(ctx, scopeKey, &requestScope{})
}

// WithIdentity attaches id to ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext returns the request's identity, or nil for anonymous requests.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(identityKey).(*Identity)
	return id
}

// UserLoader loads a user by id, returning apperrors.ErrUserNotFound when absent.
type UserLoader func(ctx context.Context, userID uint64) (*model.User, error)

// CurrentUser resolves the request's user through load, at most once per
// request scope. A session pointing at a deleted user resolves to nil.
func CurrentUser(ctx context.Context, load UserLoader) (*model.User, error) {
	id := FromContext(ctx)
	if id == nil {
		return nil, nil
	}

	scope, _ := ctx.Value(scopeKey).(*requestScope)
	if scope != nil && scope.loaded {
		return scope.user, nil
	}

	user, err := load(ctx, id.UserID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		user = nil
	}

	if scope != nil {
		scope.loaded = true
		scope.user = user
	}
	return user, nil
}
