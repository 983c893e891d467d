// Package history persists completed simulation results to the user's
// durable history and reads them back, with a local cache as fallback.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/engine"
	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/service"
)

// Verdict phrases for the one-line outcome summary.
const (
	VerdictCLT = "CLT leva vantagem"
	VerdictPJ  = "PJ leva vantagem"
	VerdictTie = "Empate técnico"
)

// Verdict derives the one-line "which regime wins" summary.
func Verdict(netCLT, netPJ float64) string {
	switch {
	case netCLT > netPJ:
		return VerdictCLT
	case netPJ > netCLT:
		return VerdictPJ
	default:
		return VerdictTie
	}
}

// Bridge submits results for durable storage. Its outcomes are independent
// of the coordinator's state: a failed save never invalidates a displayed
// result.
type Bridge struct {
	gateway service.SimulationGateway
	cache   service.HistoryCache
	logger  *slog.Logger
	now     func() time.Time
}

// NewBridge creates a history bridge. cache may be nil.
func NewBridge(gateway service.SimulationGateway, cache service.HistoryCache, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		gateway: gateway,
		cache:   cache,
		logger:  logger.With("component", "history"),
		now:     time.Now,
	}
}

// Save stores one computed result together with the inputs that produced
// it. It requires an authenticated session and performs no network call
// without one.
func (b *Bridge) Save(ctx context.Context, result *model.SimulationResult, draft *model.SimulationDraft, sess *model.Session) error {
	if sess == nil || sess.Token == "" {
		return common.ErrUnauthenticated
	}

	rec, err := buildRecord(result, draft, b.now())
	if err != nil {
		return err
	}

	if err := b.gateway.SaveHistory(ctx, sess.Token, rec); err != nil {
		return fmt.Errorf("%w: %v", common.ErrSaveFailed, err)
	}

	b.logger.Info("Simulation saved to history", "id", rec.ID, "verdict", rec.Verdict)

	return nil
}

// FetchHistory returns the stored history, newest first. History is
// supplementary: any retrieval failure degrades to the local cache and then
// to an empty list, never to an error.
func (b *Bridge) FetchHistory(ctx context.Context, sess *model.Session) []model.HistoryRecord {
	if sess == nil || sess.Token == "" {
		return nil
	}

	recs, err := b.gateway.ListHistory(ctx, sess.Token)
	if err != nil {
		b.logger.Warn("History fetch failed, falling back to local cache", "error", err)
		if b.cache != nil {
			cached, cacheErr := b.cache.CachedHistory(ctx)
			if cacheErr == nil {
				return cached
			}
			b.logger.Warn("History cache read failed", "error", cacheErr)
		}
		return nil
	}

	if b.cache != nil {
		if err := b.cache.ReplaceHistory(ctx, recs); err != nil {
			b.logger.Warn("Failed to refresh history cache", "error", err)
		}
	}

	return recs
}

func buildRecord(result *model.SimulationResult, draft *model.SimulationDraft, at time.Time) (model.HistoryRecord, error) {
	req, err := engine.BuildRequest(draft)
	if err != nil {
		return model.HistoryRecord{}, err
	}

	snapshot := model.DraftSnapshot{
		TaxRegime:   req.TaxRegime,
		BenefitsCLT: req.BenefitsCLT,
		BenefitsPJ:  req.BenefitsPJ,
		ReservePct:  req.ReservePct,
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return model.HistoryRecord{}, fmt.Errorf("failed to serialize draft snapshot: %w", err)
	}

	return model.HistoryRecord{
		ID:        uuid.NewString(),
		CreatedAt: at.UTC(),
		NetPayCLT: result.NetCLT(),
		NetPayPJ:  result.NetPayPJ,
		Verdict:   Verdict(result.NetCLT(), result.NetPayPJ),
		Payload:   string(payload),
	}, nil
}
