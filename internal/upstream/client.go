package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shoplane/cartsync-backend/pkg/config"
	pkgerrors "github.com/shoplane/cartsync-backend/pkg/errors"
)

const (
	cartPath                  = "cart"
	cartItemsPath             = "cart/items"
	responseBodyReadLimit int64 = 1024
)

// Client is the typed gateway to the commerce backend's cart API. The backend
// owns authenticated carts; every call carries the shopper's bearer token and
// returns the updated server cart, which callers treat as the new
// authoritative view.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the gateway from configuration.
func NewClient(cfg config.UpstreamConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("upstream base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// AddItemParams is the payload for adding a line to the server cart.
type AddItemParams struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`

	// IdempotencyKey, when set, is sent as an Idempotency-Key header so a
	// replayed merge does not double-add lines.
	IdempotencyKey string `json:"-"`
}

// FetchCart returns the shopper's current server cart.
func (c *Client) FetchCart(ctx context.Context, token string) (*Cart, error) {
	return c.do(ctx, http.MethodGet, c.buildURL(cartPath), token, nil, "")
}

// AddItem appends or increments a line on the server cart.
func (c *Client) AddItem(ctx context.Context, token string, params AddItemParams) (*Cart, error) {
	if strings.TrimSpace(params.VariantID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}
	if params.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	payload, err := json.Marshal(params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal add item request")
	}
	return c.do(ctx, http.MethodPost, c.buildURL(cartItemsPath), token, payload, params.IdempotencyKey)
}

// UpdateItem sets the quantity of an existing server cart line.
func (c *Client) UpdateItem(ctx context.Context, token, itemID string, quantity int) (*Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	endpoint := c.buildURL(cartItemsPath, itemID) + "?quantity=" + strconv.Itoa(quantity)
	return c.do(ctx, http.MethodPut, endpoint, token, nil, "")
}

// RemoveItem deletes a line from the server cart.
func (c *Client) RemoveItem(ctx context.Context, token, itemID string) (*Cart, error) {
	if strings.TrimSpace(itemID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id is required")
	}
	return c.do(ctx, http.MethodDelete, c.buildURL(cartItemsPath, itemID), token, nil, "")
}

// ClearCart removes every line from the server cart.
func (c *Client) ClearCart(ctx context.Context, token string) (*Cart, error) {
	return c.do(ctx, http.MethodDelete, c.buildURL(cartItemsPath), token, nil, "")
}

func (c *Client) do(ctx context.Context, method, endpoint, token string, body []byte, idempotencyKey string) (*Cart, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "upstream client not configured")
	}
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build cart request")
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute cart request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, c.mapStatusError(resp)
	}

	// Malformed payloads map to an empty cart rather than an error; the
	// shopper sees an empty cart and the next fetch reconverges.
	var cart Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return &Cart{}, nil
	}
	return &cart, nil
}

func (c *Client) mapStatusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	cause := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return pkgerrors.Wrap(pkgerrors.CodeUnauthorized, cause, "upstream rejected credentials")
	case http.StatusNotFound:
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, cause, "cart item not found upstream")
	case http.StatusConflict:
		return pkgerrors.Wrap(pkgerrors.CodeConflict, cause, "upstream cart conflict")
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, cause, "upstream rejected cart request")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, cause, "cart request failed")
	}
}

func (c *Client) buildURL(path string, ids ...string) string {
	segments := []string{strings.TrimRight(c.baseURL, "/"), strings.Trim(path, "/")}
	for _, id := range ids {
		segments = append(segments, url.PathEscape(id))
	}
	return strings.Join(segments, "/")
}
