package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "favsvc/internal/errors"
)

// ContentCatalog answers whether an external content item exists.
type ContentCatalog interface {
	ItemExists(ctx context.Context, itemID int64) (bool, error)
}

// HTTPCatalog asks a content service: GET {baseURL}/items/{id} answers 200 for
// known items and 404 for unknown ones.
type HTTPCatalog struct {
	baseURL string
	client  *http.Client
}

var _ ContentCatalog = (*HTTPCatalog)(nil)

// NewHTTPCatalog creates a catalog client. Each lookup is bounded by timeout.
func NewHTTPCatalog(baseURL string, timeout time.Duration) *HTTPCatalog {
	return &HTTPCatalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// ItemExists implements ContentCatalog.
func (c *HTTPCatalog) ItemExists(ctx context.Context, itemID int64) (bool, error) {
	url := c.baseURL + "/items/" + strconv.FormatInt(itemID, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("build catalog request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("catalog lookup: %w: %w", apperrors.ErrStorageUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("catalog lookup: %w: status %d", apperrors.ErrStorageUnavailable, resp.StatusCode)
	}
}
