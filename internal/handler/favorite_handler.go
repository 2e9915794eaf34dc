package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "favsvc/internal/errors"
	"favsvc/internal/service"
)

// FavoriteHandler serves the current user's favorites.
type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// ToggleRequest names the item to flip.
type ToggleRequest struct {
	ItemID int64 `json:"item_id" form:"item_id"`
}

// ToggleResponse reports the new favorite state.
type ToggleResponse struct {
	Success    bool   `json:"success"`
	IsFavorite bool   `json:"is_favorite"`
	Message    string `json:"message"`
}

// ListResponse holds favorite item ids, newest first.
type ListResponse struct {
	ItemIDs []int64 `json:"item_ids"`
}

// StatusResponse reports whether one item is a favorite.
type StatusResponse struct {
	ItemID     int64 `json:"item_id"`
	IsFavorite bool  `json:"is_favorite"`
}

// List godoc
// @Summary List favorite item ids
// @Tags favorites
// @Produce json
// @Security SessionAuth
// @Success 200 {object} ListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /favorites [get]
func (h *FavoriteHandler) List(c echo.Context) error {
	ids, err := h.favoriteService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{ItemIDs: ids})
}

// Toggle godoc
// @Summary Add or remove an item from favorites
// @Tags favorites
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security SessionAuth
// @Param X-CSRF-Token header string true "Anti-forgery token"
// @Param request body ToggleRequest true "Item to toggle"
// @Success 200 {object} ToggleResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /favorites/toggle [post]
func (h *FavoriteHandler) Toggle(c echo.Context) error {
	var req ToggleRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ErrInvalidInput
	}

	result, err := h.favoriteService.Toggle(c.Request().Context(), req.ItemID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ToggleResponse{
		Success:    true,
		IsFavorite: result.IsFavorite,
		Message:    result.Message,
	})
}

// Get godoc
// @Summary Check whether an item is a favorite
// @Tags favorites
// @Produce json
// @Security SessionAuth
// @Param item_id path int true "Item ID"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 503 {object} errors.ErrorResponse
// @Router /favorites/{item_id} [get]
func (h *FavoriteHandler) Get(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("item_id"), 10, 64)
	if err != nil {
		return apperrors.ErrInvalidInput
	}

	ok, err := h.favoriteService.IsFavorite(c.Request().Context(), itemID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, StatusResponse{ItemID: itemID, IsFavorite: ok})
}
