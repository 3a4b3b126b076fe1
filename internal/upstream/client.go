package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the unauthenticated surface of the upstream dairy API:
// the liveness probe and the token endpoint. Everything else goes through a
// per-session Gateway.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// pingPayload is the sentinel shape the upstream answers on /ping. The API is
// considered alive when it answers pong or its known test-error detail.
type pingPayload struct {
	Ping   string `json:"ping"`
	Detail string `json:"detail"`
}

// Ping probes the upstream. Any network failure or unexpected payload counts
// as unhealthy; the login screen is gated on this.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	var payload pingPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false
	}
	return payload.Ping == "pong" || payload.Detail == "Error de prueba"
}

// ErrAuthenticationFailed signals bad credentials at the token endpoint.
var ErrAuthenticationFailed = errors.New("upstream: authentication failed")

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// PasswordGrant exchanges credentials for a bearer token via the upstream's
// form-encoded OAuth password grant.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (string, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {email},
		"password":   {password},
		"scope":      {""},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("upstream token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", ErrAuthenticationFailed
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("upstream token response: %w", err)
	}
	if tr.AccessToken == "" {
		return "", ErrAuthenticationFailed
	}
	return tr.AccessToken, nil
}
