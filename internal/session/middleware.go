package session

import (
	"errors"
	"net/http"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"favsvc/internal/auth"
	apperrors "favsvc/internal/errors"
)

const (
	// CookieName carries the session token for browser clients.
	CookieName = "pn_session"
	// CSRFHeader carries the anti-forgery token on state-changing requests.
	CSRFHeader = "X-CSRF-Token"
	// CSRFFormField is the form-post alternative to CSRFHeader.
	CSRFFormField = "nonce"
	// LoginCSRFCookie carries the anti-forgery token of a caller that has no
	// session yet. The login form submits the same value back.
	LoginCSRFCookie = "pn_csrf"

	contextKey    = "session"
	storageErrKey = "session_storage_err"
)

// Scope installs a fresh request scope for memoized lookups.
func Scope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(WithScope(req.Context())))
			return next(c)
		}
	}
}

// Resolve reads the session token from the Authorization header or the
// session cookie and attaches the identity to the request context. Requests
// without a usable token continue anonymously; an unreachable session store
// fails the request.
func Resolve(m *Manager) echo.MiddlewareFunc {
	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		ContextKey:  contextKey,
		TokenLookup: "header:Authorization:Bearer ,cookie:" + CookieName,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			id, err := m.Resolve(c.Request().Context(), token)
			if errors.Is(err, apperrors.ErrStorageUnavailable) {
				c.Set(storageErrKey, err)
			}
			return id, err
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if storageErr, ok := c.Get(storageErrKey).(error); ok {
				return storageErr
			}
			return nil
		},
		ContinueOnIgnoredError: true,
	})

	attach := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id, ok := c.Get(contextKey).(*Identity); ok && id != nil {
				req := c.Request()
				c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
			}
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return jwtMiddleware(attach(next))
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if FromContext(c.Request().Context()) == nil {
				return apperrors.ErrUnauthorized
			}
			return next(c)
		}
	}
}

// RequireCSRF rejects requests whose anti-forgery token does not match the
// session's. Requests without a session fail too.
func RequireCSRF() echo.MiddlewareFunc {
	return csrf(false)
}

// RequireCSRFWhenAuthenticated checks the token only if a session exists.
func RequireCSRFWhenAuthenticated() echo.MiddlewareFunc {
	return csrf(true)
}

func csrf(allowAnonymous bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := FromContext(c.Request().Context())
			if id == nil {
				if allowAnonymous {
					return next(c)
				}
				return apperrors.ErrForgeryCheckFailed
			}

			if !auth.ValidCSRF(id.CSRFToken, submittedCSRF(c)) {
				return apperrors.ErrForgeryCheckFailed
			}
			return next(c)
		}
	}
}

// RequireLoginCSRF guards login. The submitted token must match either the
// current session's token or the pre-session token cookie.
func RequireLoginCSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := submittedCSRF(c)
			if id := FromContext(c.Request().Context()); id != nil && auth.ValidCSRF(id.CSRFToken, token) {
				return next(c)
			}
			ck, err := c.Cookie(LoginCSRFCookie)
			if err != nil || !auth.ValidCSRF(ck.Value, token) {
				return apperrors.ErrForgeryCheckFailed
			}
			return next(c)
		}
	}
}

func submittedCSRF(c echo.Context) string {
	if token := c.Request().Header.Get(CSRFHeader); token != "" {
		return token
	}
	return c.FormValue(CSRFFormField)
}

// IssueLoginCSRF returns the caller's pre-session anti-forgery token, setting
// the cookie when the request does not carry one.
func IssueLoginCSRF(c echo.Context, ttl time.Duration) (string, error) {
	if ck, err := c.Cookie(LoginCSRFCookie); err == nil && ck.Value != "" {
		return ck.Value, nil
	}
	token, err := auth.NewCSRFToken()
	if err != nil {
		return "", err
	}
	c.SetCookie(&http.Cookie{
		Name:     LoginCSRFCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

// ClearLoginCSRF expires the pre-session token once it has been used.
func ClearLoginCSRF(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     LoginCSRFCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteStrictMode,
	})
}

// SetCookie stores the session token in an HttpOnly cookie.
func SetCookie(c echo.Context, token string, ttl time.Duration) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.IsTLS(),
		SameSite: http.SameSiteLaxMode,
	})
}
