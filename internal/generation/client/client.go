// Package client calls the blueprint generation endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noder-app/noder-backend/internal/auth"
	"github.com/noder-app/noder-backend/internal/blueprint/domain"
	"github.com/noder-app/noder-backend/internal/platform/logging"
	"github.com/noder-app/noder-backend/internal/platform/metrics"
)

const (
	DefaultTimeout = 90 * time.Second
	generatePath   = "/api/generateBlueprint"
	maxBodyBytes   = 4 << 20
)

var ErrEmptyQuery = errors.New("query is empty")

// UpstreamStatusError is returned when the generator answers with a non-2xx
// status. Message is the body's "error" field when present.
type UpstreamStatusError struct {
	Status  int
	Message string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("generator returned status %d: %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient is used by tests to inject a transport.
func NewWithHTTPClient(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type generateRequest struct {
	Query  string `json:"query"`
	Format string `json:"format"`
}

// Generate sends query to the generator and returns the raw response body.
// The body is not parsed here. A uid set with auth.WithUser is forwarded so
// the generator can rate-limit per user.
func (c *Client) Generate(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}
	logger := logging.FromContext(ctx)
	start := time.Now()

	b, err := json.Marshal(generateRequest{Query: query, Format: "json"})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if rid := logging.RequestID(ctx); rid != "" {
		req.Header.Set(logging.HeaderRequestID, rid)
	}
	if uid := auth.UserFromContext(ctx); uid != "" {
		req.Header.Set(auth.HeaderUserID, uid)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logger.LogError("generate", err)
		metrics.RecordUpstreamCall(time.Since(start), err)
		return "", &domain.NetworkFailureError{Op: "generate blueprint", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		logger.LogError("generate", err)
		metrics.RecordUpstreamCall(time.Since(start), err)
		return "", &domain.NetworkFailureError{Op: "read generator response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serr := &UpstreamStatusError{Status: resp.StatusCode, Message: errorMessage(body)}
		logger.LogWarnf("generate", "generator returned error status", "status", resp.StatusCode, "message", serr.Message)
		metrics.RecordUpstreamCall(time.Since(start), serr)
		return "", serr
	}

	metrics.RecordUpstreamCall(time.Since(start), nil)
	logger.LogInfof("generate", "generator responded", "bytes", len(body), "duration", time.Since(start))
	return string(body), nil
}

func errorMessage(body []byte) string {
	var eb struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}
	return strings.TrimSpace(string(body))
}
