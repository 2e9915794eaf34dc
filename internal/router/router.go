package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	"favsvc/internal/config"
	apperrors "favsvc/internal/errors"
	"favsvc/internal/handler"
	"favsvc/internal/logger"
	"favsvc/internal/session"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	sessions *session.Manager,
	authHandler *handler.AuthHandler,
	favoriteHandler *handler.FavoriteHandler,
) {
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = HTTPErrorHandler

	e.Use(middleware.RequestID())
	e.Use(logger.ContextLogger())
	e.Use(logger.RequestLogger())
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api",
		middleware.ContextTimeoutWithConfig(middleware.ContextTimeoutConfig{
			Timeout:      cfg.StorageTimeout,
			ErrorHandler: storageDeadline,
		}),
		session.Scope(),
		session.Resolve(sessions),
	)

	// Anonymous callers get the login token from GET /api/session.
	api.POST("/auth/login", authHandler.Login, session.RequireLoginCSRF())
	api.POST("/auth/logout", authHandler.Logout, session.RequireCSRFWhenAuthenticated())
	api.GET("/session", authHandler.Session)

	// RequireAuth runs first so anonymous callers get the login prompt rather
	// than a forgery failure.
	favorites := api.Group("/favorites", session.RequireAuth())
	favorites.GET("", favoriteHandler.List)
	favorites.POST("/toggle", favoriteHandler.Toggle, session.RequireCSRF())
	favorites.GET("/:item_id", favoriteHandler.Get)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// storageDeadline reports an expired request deadline as the storage
// failure it is, instead of echo's generic 503.
func storageDeadline(err error, c echo.Context) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, apperrors.ErrStorageUnavailable) {
		return fmt.Errorf("%w: %w", apperrors.ErrStorageUnavailable, err)
	}
	return err
}

// HTTPErrorHandler renders every failure as an errors.ErrorResponse.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *apperrors.HTTPError
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = http.StatusText(echoErr.Code)
		}
		httpErr = apperrors.NewHTTPError(echoErr.Code, msg, statusCode(echoErr.Code))
	} else {
		httpErr = apperrors.MapErrorToHTTP(err)
	}

	if httpErr.StatusCode >= http.StatusInternalServerError {
		log.Ctx(c.Request().Context()).Error().Err(err).Int("status", httpErr.StatusCode).Msg("request failed")
	}
	if httpErr.Retryable() {
		c.Response().Header().Set("Retry-After", "1")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.StatusCode)
	} else {
		err = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	if err != nil {
		log.Ctx(c.Request().Context()).Warn().Err(err).Msg("write error response")
	}
}

func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
