// Package pocketbase is a typed REST client for the PocketBase API. It owns
// transport policy (headers, auth token injection, optional transient retry);
// callers get the backend's response bytes or a domain error.
package pocketbase

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

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pbmcp/internal/domain"
)

const defaultTimeout = 30 * time.Second

// maxSendAttempts bounds the transient-failure retry loop when retry is
// enabled with WithRetry.
const maxSendAttempts = 3

type Client struct {
	baseURL string
	http    *http.Client
	auth    *authStore
	logger  *zap.Logger
	retry   bool
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRetry enables bounded exponential backoff on transient transport
// failures. API-level errors (any decoded HTTP status) are never retried.
func WithRetry() Option {
	return func(c *Client) {
		c.retry = true
	}
}

func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		auth:    &authStore{},
		logger:  logger.Named("pocketbase"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the resolved backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// AuthToken returns the current session token, empty when unauthenticated.
func (c *Client) AuthToken() string {
	return c.auth.Token()
}

// AuthRecord returns the raw auth record from the last successful auth call.
func (c *Client) AuthRecord() json.RawMessage {
	return c.auth.Record()
}

// ClearAuth drops the current session token.
func (c *Client) ClearAuth() {
	c.auth.Clear()
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
}

// send issues one request and decodes the response into out when non-nil.
// With retry enabled, only transport-level failures are reattempted.
func (c *Client) send(ctx context.Context, op string, r request, out any) error {
	data, err := c.sendRaw(ctx, op, r)
	if err != nil {
		return err
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return domain.E(domain.CodeInternal, op, "decode response", err)
	}
	return nil
}

func (c *Client) sendRaw(ctx context.Context, op string, r request) (json.RawMessage, error) {
	if !c.retry {
		return c.do(ctx, op, r)
	}

	run := func() (json.RawMessage, error) {
		data, err := c.do(ctx, op, r)
		if err != nil {
			if code, ok := domain.CodeFrom(err); ok && code == domain.CodeUnavailable {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return data, nil
	}
	return backoff.Retry(ctx, run,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(maxSendAttempts),
	)
}

func (c *Client) do(ctx context.Context, op string, r request) (json.RawMessage, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, domain.E(domain.CodeInvalidArgument, op, "encode request body", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, domain.E(domain.CodeInvalidArgument, op, "build request", err)
	}
	if r.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.auth.Token(); token != "" {
		httpReq.Header.Set("Authorization", token)
	}

	requestID := uuid.NewString()
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("request_id", requestID),
			zap.String("method", r.method),
			zap.String("path", r.path),
			zap.Error(err))
		return nil, domain.E(domain.CodeUnavailable, op, "", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.E(domain.CodeUnavailable, op, "read response", err)
	}

	c.logger.Debug("request completed",
		zap.String("request_id", requestID),
		zap.String("method", r.method),
		zap.String("path", r.path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 400 {
		return nil, apiErrorFrom(op, resp.StatusCode, data)
	}
	return data, nil
}

// escapePath escapes a single path segment.
func escapePath(segment string) string {
	return url.PathEscape(segment)
}

func collectionPath(collection string) string {
	return "/api/collections/" + escapePath(collection)
}

func recordsPath(collection string) string {
	return collectionPath(collection) + "/records"
}

var errMissingCollection = errors.New("collection is required")

func requireCollection(op, collection string) error {
	if strings.TrimSpace(collection) == "" {
		return domain.E(domain.CodeInvalidArgument, op, errMissingCollection.Error(), errMissingCollection)
	}
	return nil
}

func requireField(op, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.E(domain.CodeInvalidArgument, op, fmt.Sprintf("%s is required", name), nil)
	}
	return nil
}
