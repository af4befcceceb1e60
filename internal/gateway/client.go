// Package gateway is the client of the remote field operations REST API.
//
// Every call is a single round trip: no retries, no caching, no pagination.
// Transport failures are returned as is and HTTP failures as *APIError, so
// callers can reduce them to a message for the user.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"fieldops-console/internal/session"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	userIDHeader   = "x-user-id"
)

// APIError is a non-2xx response. Message and Err hold the backend's
// "message" and "error" fields when the body carries them.
type APIError struct {
	StatusCode int
	Message    string
	Err        string
	Body       []byte
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	case e.Err != "":
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("api: request failed with status %d", e.StatusCode)
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
	userID  string
}

func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// WithHTTPClient replaces the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	cp := *c
	cp.http = hc
	return &cp
}

// For returns a client that identifies itself as the user of sess.
func (c *Client) For(sess session.Session) *Client {
	cp := *c
	cp.userID = sess.UserIDHeader()
	return &cp
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload any) (request, error) {
	req := request{method: method, path: path}
	if payload == nil {
		return req, nil
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("failed to encode request: %w", err)
	}
	req.body = bytes.NewReader(b)
	req.contentType = "application/json"
	return req, nil
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.userID != "" {
		req.Header.Set(userIDHeader, c.userID)
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("method", r.method).
			Str("path", r.path).
			Msg("api call failed")
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(started)).
		Msg("api call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], body...)
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: body}
	var fields struct {
		Message any `json:"message"`
		Error   any `json:"error"`
	}
	if json.Unmarshal(body, &fields) == nil {
		apiErr.Message = text(fields.Message)
		apiErr.Err = text(fields.Error)
	}
	return apiErr
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	}
	b, _ := json.Marshal(v)
	return string(b)
}
