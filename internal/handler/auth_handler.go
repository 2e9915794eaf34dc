package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"favsvc/internal/model"
	"favsvc/internal/service"
	"favsvc/internal/session"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	sessionTTL  time.Duration
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{authService: authService, sessionTTL: sessionTTL}
}

// LoginRequest represents a login form or JSON body.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=190"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

// LoginResponse represents a successful login.
type LoginResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	CSRFToken    string       `json:"csrf_token"`
	SessionToken string       `json:"session_token"`
	User         UserResponse `json:"user"`
}

// MessageResponse is a bare outcome message.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SessionResponse describes the caller's session state.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
	CSRFToken     string        `json:"csrf_token,omitempty"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{ID: u.ID, Username: u.Username, DisplayName: u.Name()}
}

// Login godoc
// @Summary Log in with username and password
// @Tags auth
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param X-CSRF-Token header string true "Anti-forgery token from GET /session (or send it as form field nonce)"
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password are required")
	}

	result, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	session.SetCookie(c, result.SessionToken, h.sessionTTL)
	session.ClearLoginCSRF(c)
	return c.JSON(http.StatusOK, LoginResponse{
		Success:      true,
		Message:      result.Message,
		CSRFToken:    result.CSRFToken,
		SessionToken: result.SessionToken,
		User:         toUserResponse(result.User),
	})
}

// Logout godoc
// @Summary End the current session
// @Tags auth
// @Produce json
// @Param X-CSRF-Token header string false "Anti-forgery token, required when a session exists"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	session.ClearCookie(c)
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Logged out."})
}

// Session godoc
// @Summary Describe the caller's session
// @Description Anonymous callers receive the anti-forgery token the login form must submit.
// @Tags auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	ctx := c.Request().Context()
	user, err := h.authService.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		token, err := session.IssueLoginCSRF(c, h.sessionTTL)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, SessionResponse{Authenticated: false, CSRFToken: token})
	}

	resp := toUserResponse(user)
	return c.JSON(http.StatusOK, SessionResponse{
		Authenticated: true,
		User:          &resp,
		CSRFToken:     session.FromContext(ctx).CSRFToken,
	})
}
