// Package rest is the outbound client for the practice-management API.
// It carries the base URL, bearer credentials, JSON codec, and request
// logging; domain repositories layer their endpoints on top of it.
package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds every request. There is no automatic retry:
// failures surface immediately as inline messages.
const DefaultTimeout = 15 * time.Second

type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// WithLogger attaches a request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithToken attaches a bearer token to every request. The token's
// expiry claim is decoded (without signature verification, which is the
// backend's job) so an already-expired credential is flagged up front
// instead of as a run of 401s.
func WithToken(token string) Option {
	return func(c *Client) {
		c.http.SetAuthToken(token)
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return
		}
		exp, err := claims.GetExpirationTime()
		if err != nil || exp == nil {
			return
		}
		if exp.Before(time.Now()) {
			c.logger.Warn().Time("expired_at", exp.Time).Msg("auth token is expired")
		}
	}
}

// WithTransport replaces the underlying round tripper (tests).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.SetTransport(rt) }
}

func New(baseURL string, opts ...Option) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	c := &Client{http: hc, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Get issues a GET and decodes a 2xx body into out (when non-nil).
func (c *Client) Get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query map[string]string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, query, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, query map[string]string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, query, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, query map[string]string) error {
	return c.do(ctx, http.MethodDelete, path, query, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	evt := c.logger.Debug()
	if resp.IsError() {
		evt = c.logger.Error()
	}
	evt.
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode()).
		Dur("latency", resp.Time()).
		Msg("request")

	if resp.IsError() {
		return &StatusError{
			StatusCode: resp.StatusCode(),
			Method:     method,
			Path:       path,
			Body:       string(resp.Body()),
		}
	}
	return nil
}
