// Package provider holds the HTTP plumbing shared by the enrichment clients.
package provider

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

// maxErrorBody caps how much of a non-2xx body is kept for logs.
const maxErrorBody = 512

// Client performs GET requests against a provider and decodes JSON replies.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Client rooted at baseURL.
// A zero timeout leaves the transport default in place.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a Client over a caller-supplied http.Client.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: hc}
}

// BaseURL returns the provider root.
func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON issues GET {base}{path}?{query} with header and decodes a 2xx body into dst.
// Failures are wrapped with ErrCanceled, ErrTransport, ErrStatus or ErrDecode.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, header http.Header, dst any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("%w: invalid base URL: %w", ErrTransport, err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrTransport, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
		return fmt.Errorf("%w: request failed: %w", ErrTransport, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())
		}
		return fmt.Errorf("%w: failed to parse response: %w", ErrDecode, err)
	}
	return nil
}

// StatusError reports a non-2xx provider reply.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Body)
}

// Is makes errors.Is(err, ErrStatus) hold for any StatusError.
func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// StatusCode extracts the provider status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
