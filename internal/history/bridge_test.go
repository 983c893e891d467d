package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/gateway"
	"github.com/cltpj/cltpj/internal/model"
)

func testDraft() *model.SimulationDraft {
	return &model.SimulationDraft{
		SalaryCLT:  500000,
		SalaryPJ:   450000,
		TaxRegime:  model.RegimeSimplesNacional,
		ReservePct: 10,
		BenefitsCLT: model.BenefitCollection{
			Entries: []model.BenefitEntry{{Name: "VT", Amount: 50000}},
		},
	}
}

func testResult(netCLT, netPJ float64) *model.SimulationResult {
	return &model.SimulationResult{NetPayCLT: &netCLT, NetPayPJ: netPJ}
}

func TestVerdict(t *testing.T) {
	assert.Equal(t, VerdictCLT, Verdict(5000, 4000))
	assert.Equal(t, VerdictPJ, Verdict(4000, 5000))
	assert.Equal(t, VerdictTie, Verdict(4500, 4500))
}

func TestSaveRequiresSession(t *testing.T) {
	gw := &gateway.MockSimulationGateway{}
	b := NewBridge(gw, nil, nil)

	err := b.Save(context.Background(), testResult(4100, 4800), testDraft(), nil)
	assert.ErrorIs(t, err, common.ErrUnauthenticated)
	assert.Empty(t, gw.SaveHistoryCalls)
}

func TestSaveBuildsRecord(t *testing.T) {
	gw := &gateway.MockSimulationGateway{}
	b := NewBridge(gw, nil, nil)
	sess := &model.Session{Token: "tok", Identity: model.Identity{Email: "a@b.c"}}

	err := b.Save(context.Background(), testResult(4100, 4800), testDraft(), sess)
	require.NoError(t, err)

	require.Len(t, gw.SaveHistoryCalls, 1)
	rec := gw.SaveHistoryCalls[0]
	assert.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.InDelta(t, 4100, rec.NetPayCLT, 0.001)
	assert.InDelta(t, 4800, rec.NetPayPJ, 0.001)
	assert.Equal(t, VerdictPJ, rec.Verdict)
	assert.Contains(t, rec.Payload, `"VT"`)
	assert.Contains(t, rec.Payload, model.RegimeSimplesNacional)
}

func TestSaveFailureIsTyped(t *testing.T) {
	gw := &gateway.MockSimulationGateway{
		SaveHistoryFn: func(_ context.Context, _ string, _ model.HistoryRecord) error {
			return errors.New("boom")
		},
	}
	b := NewBridge(gw, nil, nil)
	sess := &model.Session{Token: "tok"}

	err := b.Save(context.Background(), testResult(4100, 4800), testDraft(), sess)
	assert.ErrorIs(t, err, common.ErrSaveFailed)
}

type stubCache struct {
	stored   []model.HistoryRecord
	replaced [][]model.HistoryRecord
	readErr  error
}

func (s *stubCache) ReplaceHistory(_ context.Context, recs []model.HistoryRecord) error {
	s.replaced = append(s.replaced, recs)
	s.stored = recs
	return nil
}

func (s *stubCache) CachedHistory(_ context.Context) ([]model.HistoryRecord, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.stored, nil
}

func TestFetchHistory(t *testing.T) {
	sess := &model.Session{Token: "tok"}

	t.Run("anonymous gets empty list without a call", func(t *testing.T) {
		gw := &gateway.MockSimulationGateway{}
		b := NewBridge(gw, nil, nil)

		assert.Empty(t, b.FetchHistory(context.Background(), nil))
		assert.Zero(t, gw.ListHistoryCalls)
	})

	t.Run("success refreshes the cache", func(t *testing.T) {
		recs := []model.HistoryRecord{{ID: "rec-1"}}
		gw := &gateway.MockSimulationGateway{
			ListHistoryFn: func(_ context.Context, _ string) ([]model.HistoryRecord, error) {
				return recs, nil
			},
		}
		cache := &stubCache{}
		b := NewBridge(gw, cache, nil)

		got := b.FetchHistory(context.Background(), sess)
		assert.Equal(t, recs, got)
		require.Len(t, cache.replaced, 1)
	})

	t.Run("failure falls back to the cache", func(t *testing.T) {
		gw := &gateway.MockSimulationGateway{
			ListHistoryFn: func(_ context.Context, _ string) ([]model.HistoryRecord, error) {
				return nil, common.ErrRequestFailed
			},
		}
		cache := &stubCache{stored: []model.HistoryRecord{{ID: "cached"}}}
		b := NewBridge(gw, cache, nil)

		got := b.FetchHistory(context.Background(), sess)
		require.Len(t, got, 1)
		assert.Equal(t, "cached", got[0].ID)
	})

	t.Run("failure with broken cache degrades to empty", func(t *testing.T) {
		gw := &gateway.MockSimulationGateway{
			ListHistoryFn: func(_ context.Context, _ string) ([]model.HistoryRecord, error) {
				return nil, common.ErrRequestFailed
			},
		}
		cache := &stubCache{readErr: errors.New("corrupt")}
		b := NewBridge(gw, cache, nil)

		assert.Empty(t, b.FetchHistory(context.Background(), sess))
	})
}
