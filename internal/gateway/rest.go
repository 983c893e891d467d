// Package gateway provides the HTTP clients for the auth and simulation
// services, plus the third-party sign-in flow.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/cltpj/cltpj/internal/common"
)

// Config holds the remote API configuration shared by both gateways.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Validate ensures all required fields are present.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: api base URL is required", common.ErrMissingConfig)
	}
	return nil
}

const defaultTimeout = 30 * time.Second

// restClient wraps a fasthttp client with JSON encoding and the status
// code mapping shared by both gateways.
type restClient struct {
	client  *fasthttp.Client
	logger  *slog.Logger
	baseURL string
	timeout time.Duration
}

func newRESTClient(cfg Config, logger *slog.Logger) (*restClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &restClient{
		client:  &fasthttp.Client{},
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// doJSON performs one request. in and out may be nil; out is decoded from
// the response body on a 2xx status. A 401 maps to ErrAuthRejected, any
// other non-2xx to ErrRequestFailed, and an undecodable success body to
// ErrInvalidResponse.
func (r *restClient) doJSON(ctx context.Context, method, path, token string, in, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		req.SetBody(body)
	}

	deadline := time.Now().Add(r.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	start := time.Now()
	if err := r.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%w: %s %s: %v", common.ErrRequestFailed, method, path, err)
	}

	status := resp.StatusCode()
	r.logger.Debug("Gateway call completed",
		"method", method,
		"path", path,
		"status", status,
		"duration", time.Since(start))

	switch {
	case status == fasthttp.StatusUnauthorized:
		return common.ErrAuthRejected
	case status == fasthttp.StatusTooManyRequests:
		return common.ErrRateLimit
	case status < 200 || status > 299:
		return fmt.Errorf("%w: %s %s returned status %d", common.ErrRequestFailed, method, path, status)
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidResponse, err)
	}

	return nil
}
