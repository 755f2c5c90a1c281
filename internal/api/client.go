// Package api wraps the chat backend's HTTP API in typed, context-aware
// calls. The layer never swallows errors and never retries: idempotent
// reads may be retried by the caller, mutations must not be.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenSource supplies the bearer token for authenticated calls. The
// session store satisfies it; an empty string means unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the remote data access layer. All methods are safe for
// concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// New creates a client for the given base URL. The underlying http.Client
// carries a cookie jar: the logout endpoint is cookie-authenticated.
func New(baseURL string, tokens TokenSource, logger *zap.Logger) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
		tokens: tokens,
		logger: logger,
	}
}

// do performs one HTTP call. body and out may be nil. When authed is true
// the call fails with ErrNoToken before any I/O if the session has no
// token.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	token := ""
	if authed {
		token = c.tokens.Token()
		if token == "" {
			return ErrNoToken
		}
	}

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &NetworkError{URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RequestError{
			Status:  resp.StatusCode,
			Message: decodeServerError(resp),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &SchemaError{Endpoint: path, Reason: "invalid JSON: " + err.Error()}
		}
	}
	return nil
}

// decodeServerError extracts the {"error": "..."} message from an error
// response body. Best effort; an unreadable body yields an empty message.
func decodeServerError(resp *http.Response) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}
