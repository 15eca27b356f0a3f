// Package backend is the HTTP client for the school REST backend. All paths
// live under /api and authenticated calls carry a bearer credential.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
)

const (
	apiPrefix      = "/api"
	maxBodyBytes   = 4 << 20
	DefaultTimeout = 15 * time.Second
)

// Call describes one finished backend request.
type Call struct {
	Method   string
	Route    string
	Status   int
	Duration time.Duration
	// Public is set for calls that are not bound to a session credential.
	Public bool
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Observe, when set, is invoked after every request.
	Observe func(Call)
	// OnInvalidate, when set, is invoked with the route after a rejected
	// credential has been invalidated.
	OnInvalidate func(route string)
	// HTTPClient overrides the default transport.
	HTTPClient *http.Client
}

// Client talks to the school backend. It holds no credential; use As to bind
// one.
type Client struct {
	base         string
	hc           *http.Client
	observe      func(Call)
	onInvalidate func(string)
	log          zerolog.Logger
}

// New builds a Client.
func New(cfg Config, log zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	observe := cfg.Observe
	if observe == nil {
		observe = func(Call) {}
	}
	onInvalidate := cfg.OnInvalidate
	if onInvalidate == nil {
		onInvalidate = func(string) {}
	}
	return &Client{
		base:         strings.TrimRight(cfg.BaseURL, "/"),
		hc:           hc,
		observe:      observe,
		onInvalidate: onInvalidate,
		log:          log,
	}
}

// request is one backend call. route is the low-cardinality label used for
// observation and logs; it defaults to path.
type request struct {
	method string
	path   string
	route  string
	query  url.Values
	body   any
	public bool
}

func (c *Client) do(ctx context.Context, token string, r request, out any) error {
	route := r.route
	if route == "" {
		route = r.path
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", r.method, route, err)
		}
		body = bytes.NewReader(payload)
	}

	target := c.base + apiPrefix + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", r.method, route, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.observe(Call{Method: r.method, Route: route, Duration: time.Since(start), Public: r.public})
		return fmt.Errorf("%s %s: %w", r.method, route, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	c.observe(Call{Method: r.method, Route: route, Status: resp.StatusCode, Duration: time.Since(start), Public: r.public})
	if err != nil {
		return fmt.Errorf("read %s %s: %w", r.method, route, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := newAPIError(resp.StatusCode, data)
		c.log.Debug().
			Str("method", r.method).
			Str("route", route).
			Int("status", resp.StatusCode).
			Str("message", apiErr.Message).
			Msg("backend call failed")
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", r.method, route, err)
	}
	return nil
}

// Credentials supplies the bearer token for session-bound calls and is told
// when the backend rejects it.
type Credentials interface {
	Token() string
	Invalidate(ctx context.Context, reason string)
}

// API is a Client bound to one session's credentials.
type API struct {
	c     *Client
	creds Credentials
}

// As binds the client to a credential source.
func (c *Client) As(creds Credentials) *API {
	return &API{c: c, creds: creds}
}

// call performs a session-bound request. A 401 on a non-public call
// invalidates the credential before the error is returned.
func (a *API) call(ctx context.Context, r request, out any) error {
	err := a.c.do(ctx, a.creds.Token(), r, out)
	if err != nil && !r.public && errors.Is(err, domain.ErrUnauthorized) {
		route := r.route
		if route == "" {
			route = r.path
		}
		a.c.log.Warn().Str("route", route).Msg("credential rejected, logging out")
		a.creds.Invalidate(ctx, route)
		a.c.onInvalidate(route)
	}
	return err
}

func (a *API) get(ctx context.Context, path, route string, out any) error {
	return a.call(ctx, request{method: http.MethodGet, path: path, route: route}, out)
}

func (a *API) getRaw(ctx context.Context, path, route string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := a.get(ctx, path, route, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Ping checks that the backend answers its health endpoint, which lives
// outside /api.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("backend health: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("backend health: status %d", resp.StatusCode)
	}
	return nil
}
