package poultry

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Credentials authorizes a request. session.User implements it.
type Credentials interface {
	AuthorizationHeader() string
}

// Client talks to the poultry REST API.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

const (
	defaultBaseURL   = "http://127.0.0.1:8080"
	defaultUserAgent = "flockdash/0.1"
	defaultTimeout   = 15 * time.Second

	flocksPath = "/api/poultry/flocks"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithLogger routes client logging (including resty's own warnings) to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			return
		}
		c.logger = logger
		c.http.SetLogger(logger.Sugar())
	}
}

// NewClient builds a Client for the API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	logger := zap.NewNop()
	rc := resty.New().
		SetBaseURL(base.String()).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", defaultUserAgent).
		SetTimeout(defaultTimeout).
		SetLogger(logger.Sugar())

	c := &Client{http: rc, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListFlocks retrieves every flock, in the order the backend returns them.
func (c *Client) ListFlocks(ctx context.Context, creds Credentials) ([]FlockRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []FlockRecord
	if err := c.do(ctx, creds, http.MethodGet, flocksPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateFlock posts a new flock. The record's FlockID is ignored by the backend.
func (c *Client) CreateFlock(ctx context.Context, creds Credentials, record FlockRecord) (*FlockRecord, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	record.FlockID = 0
	var created FlockRecord
	if err := c.do(ctx, creds, http.MethodPost, flocksPath, record, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateFlock replaces the flock identified by id.
func (c *Client) UpdateFlock(ctx context.Context, creds Credentials, id int64, record FlockRecord) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("flock id required")
	}
	record.FlockID = id
	return c.do(ctx, creds, http.MethodPut, flockPath(id), record, nil)
}

// DeleteFlock removes the flock identified by id.
func (c *Client) DeleteFlock(ctx context.Context, creds Credentials, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("flock id required")
	}
	return c.do(ctx, creds, http.MethodDelete, flockPath(id), nil, nil)
}

func flockPath(id int64) string {
	return flocksPath + "/" + strconv.FormatInt(id, 10)
}

func (c *Client) do(ctx context.Context, creds Credentials, method, path string, body, dest any) error {
	requestID := uuid.NewString()
	errBody := new(errorBody)

	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", requestID).
		SetError(errBody)
	if creds != nil {
		if auth := strings.TrimSpace(creds.AuthorizationHeader()); auth != "" {
			req.SetHeader("Authorization", auth)
		}
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if dest != nil {
		// Success bodies must decode as JSON whatever the content type says,
		// so a proxy or login page surfaces as an error instead of no rows.
		req.SetResult(dest).ForceContentType("application/json")
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		if resp != nil && resp.IsSuccess() {
			fields = append(fields, zap.Int("status", resp.StatusCode()), zap.String("content_type", resp.Header().Get("Content-Type")))
			c.logger.Warn("undecodable response", append(fields, zap.Error(err))...)
			return transportError("decode response", err)
		}
		c.logger.Warn("request failed", append(fields, zap.Error(err))...)
		return transportError("execute request", err)
	}
	fields = append(fields, zap.Int("status", resp.StatusCode()))
	if resp.IsError() {
		apiErr := serverError(resp.StatusCode(), errBody, resp.String())
		c.logger.Warn("api returned error", append(fields, zap.String("message", apiErr.Message))...)
		return apiErr
	}
	c.logger.Debug("request complete", fields...)
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
