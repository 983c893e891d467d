package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/service"
)

// SimulationClient talks to the remote computation and history service.
type SimulationClient struct {
	rest      *restClient
	logger    *slog.Logger
	retryOpts service.RetryOptions
}

// NewSimulationClient creates a simulation gateway client.
func NewSimulationClient(cfg Config) (*SimulationClient, error) {
	logger := slog.Default().With("component", "simulation_gateway")

	rest, err := newRESTClient(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &SimulationClient{
		rest:   rest,
		logger: logger,
		retryOpts: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 1 * time.Second,
			MaxDelay:     15 * time.Second,
			Multiplier:   2.0,
		},
	}, nil
}

// Compute submits a simulation request. It runs exactly once: a retry of a
// submission is always a new user action, never automatic.
func (c *SimulationClient) Compute(ctx context.Context, token string, req model.SimulationRequest) (*model.SimulationResult, error) {
	var result model.SimulationResult
	if err := c.rest.doJSON(ctx, fasthttp.MethodPost, "/api/simulacao", token, req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListHistory fetches the stored simulation history. Reads are idempotent,
// so transient failures are retried.
func (c *SimulationClient) ListHistory(ctx context.Context, token string) ([]model.HistoryRecord, error) {
	var recs []model.HistoryRecord

	err := common.WithRetry(ctx, func() error {
		recs = nil
		return c.rest.doJSON(ctx, fasthttp.MethodGet, "/api/historico", token, nil, &recs)
	}, c.retryOpts)
	if err != nil {
		return nil, err
	}

	return recs, nil
}

// SaveHistory stores one simulation outcome. Not retried: a duplicate
// record is worse than a surfaced failure.
func (c *SimulationClient) SaveHistory(ctx context.Context, token string, rec model.HistoryRecord) error {
	return c.rest.doJSON(ctx, fasthttp.MethodPost, "/api/historico", token, rec, nil)
}
