package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"lactalog-backend/internal/metrics"
)

// ErrNoSession is returned when a call is attempted without a bearer token.
var ErrNoSession = fmt.Errorf("upstream: no session token")

// Gateway is the authenticated fetch path for one login session. It attaches
// the bearer token to every call and, on a 401, renews the token once with the
// session's stored credentials and retries the original call exactly once.
// A second 401 is returned to the caller as-is; there is no loop and no
// backoff.
type Gateway struct {
	client *Client

	mu       sync.Mutex
	token    string
	email    string
	password string
}

// NewGateway builds the authenticated gateway for a session. The credentials
// are kept only for the single renewal attempt.
func (c *Client) NewGateway(token, email, password string) *Gateway {
	return &Gateway{client: c, token: token, email: email, password: password}
}

// Token returns the current bearer token.
func (g *Gateway) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// SetToken replaces the bearer token (used when restoring a cached session).
func (g *Gateway) SetToken(token string) {
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

// Credentials returns the stored renewal credentials.
func (g *Gateway) Credentials() (email, password string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.email, g.password
}

func (g *Gateway) renew(ctx context.Context) error {
	email, password := g.Credentials()
	token, err := g.client.PasswordGrant(ctx, email, password)
	if err != nil {
		return err
	}
	metrics.TokenRenewalsTotal.Inc()
	g.SetToken(token)
	return nil
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.client.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.Token())
	// The upstream rejects DELETE requests carrying a JSON content type
	if method == http.MethodDelete {
		req.Header.Set("Accept", "application/json")
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Do issues one authenticated call, renewing the token once on 401. Non-401
// error statuses are returned to the caller unchanged; callers decide what a
// 404 or 422 means for their screen.
func (g *Gateway) Do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	if g.Token() == "" {
		return nil, ErrNoSession
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("upstream: encode %s %s: %w", method, path, err)
		}
	}

	req, err := g.newRequest(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: %s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if err := g.renew(ctx); err != nil {
			return nil, fmt.Errorf("upstream: token renewal: %w", err)
		}
		req, err = g.newRequest(ctx, method, path, payload)
		if err != nil {
			return nil, err
		}
		resp, err = g.client.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("upstream: %s %s (retry): %w", method, path, err)
		}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	return resp, nil
}

// APIError is a non-2xx answer from the upstream, passed through to the
// handler layer which maps it onto the dashboard's error taxonomy.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream: status %d: %s", e.Status, e.Body)
}

// send issues a call and decodes the JSON answer into out (out may be nil for
// calls whose body is irrelevant).
func (g *Gateway) send(ctx context.Context, method, path string, body, out any) error {
	resp, err := g.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("upstream: decode %s %s: %w", method, path, err)
	}
	return nil
}
