package orderapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// Identity headers read by the order API for customer requests.
const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
)

// ErrUnauthorized is returned when the admin token is missing or rejected.
var ErrUnauthorized = errors.New("order api: unauthorized")

// StatusError carries a non-success answer of the order API.
type StatusError struct {
	Code    int
	Message string
}

func (e StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("order api error: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("order api error: %d %s", e.Code, e.Message)
}

// Client lists orders visible to a viewer.
type Client interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
}

// HTTPClient implements Client over the JSON API.
type HTTPClient struct {
	baseURL    *url.URL
	viewer     model.Viewer
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

type listResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Orders  []model.Order `json:"orders"`
}

// NewHTTPClient creates order API client with default timeout. Admin viewers authenticate with token.
func NewHTTPClient(baseURL string, viewer model.Viewer, token string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse order api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("order api url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		viewer:  viewer,
		token:   token,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// ListOrders returns every order of the viewer's scope, history included.
func (c *HTTPClient) ListOrders(ctx context.Context) ([]model.Order, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/orders")
	if !c.viewer.Admin() {
		q := endpoint.Query()
		if c.viewer.UserID != "" {
			q.Set("userId", c.viewer.UserID)
		}
		if c.viewer.UserEmail != "" {
			q.Set("email", c.viewer.UserEmail)
		}
		endpoint.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.viewer.Admin() {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		if c.viewer.UserID != "" {
			req.Header.Set(HeaderUserID, c.viewer.UserID)
		}
		if c.viewer.UserEmail != "" {
			req.Header.Set(HeaderUserEmail, c.viewer.UserEmail)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var data listResponse
	decodeErr := json.Unmarshal(body, &data)

	switch resp.StatusCode {
	case http.StatusOK:
		if decodeErr != nil {
			return nil, fmt.Errorf("decode orders: %w", decodeErr)
		}
		return data.Orders, nil
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		c.logger.Debug("order api request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, StatusError{Code: resp.StatusCode, Message: data.Message}
	}
}
