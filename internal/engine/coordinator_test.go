package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cltpj/cltpj/internal/benefits"
	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/gateway"
	"github.com/cltpj/cltpj/internal/model"
)

type stubSessions struct {
	session *model.Session
}

func (s *stubSessions) Current() *model.Session { return s.session }

func validCoordinator(gw *gateway.MockSimulationGateway) *Coordinator {
	c := NewCoordinator(gw, &stubSessions{}, nil)
	c.SetSalaryCLT("5000,00")
	c.SetSalaryPJ("4500,00")
	c.SetTaxRegime(model.RegimeSimplesNacional)
	c.SetReservePct(10)
	return c
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Coordinator)
		wantField string
	}{
		{
			name:      "missing CLT salary",
			mutate:    func(c *Coordinator) { c.SetSalaryCLT("") },
			wantField: "salarioClt",
		},
		{
			name:      "zero PJ salary",
			mutate:    func(c *Coordinator) { c.SetSalaryPJ("0,00") },
			wantField: "salarioPj",
		},
		{
			name:      "reserve above range",
			mutate:    func(c *Coordinator) { c.SetReservePct(101) },
			wantField: "reservaEmergencia",
		},
		{
			name:      "empty tax regime",
			mutate:    func(c *Coordinator) { c.SetTaxRegime("") },
			wantField: "regimeTributario",
		},
		{
			name:      "unknown tax regime",
			mutate:    func(c *Coordinator) { c.SetTaxRegime("Lucro Real") },
			wantField: "regimeTributario",
		},
		{
			name: "unresolved custom benefit",
			mutate: func(c *Coordinator) {
				c.SetBenefitsCLT(benefits.ApplySelection(model.BenefitCollection{}, []string{benefits.CustomIndicator}))
			},
			wantField: "beneficios",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCoordinator(&gateway.MockSimulationGateway{})
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)

			var vErr *common.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}

	t.Run("complete draft passes", func(t *testing.T) {
		c := validCoordinator(&gateway.MockSimulationGateway{})
		assert.NoError(t, c.Validate())
	})

	t.Run("reserve of zero is allowed", func(t *testing.T) {
		c := validCoordinator(&gateway.MockSimulationGateway{})
		c.SetReservePct(0)
		assert.NoError(t, c.Validate())
	})
}

func TestSubmitOnInvalidDraftNeverCallsGateway(t *testing.T) {
	gw := &gateway.MockSimulationGateway{}
	c := NewCoordinator(gw, &stubSessions{}, nil)

	_, err := c.Submit(context.Background())

	var vErr *common.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Empty(t, gw.ComputeCalls)
	assert.Equal(t, StateEditing, c.State())
}

func TestSubmitAssemblesRequest(t *testing.T) {
	gw := &gateway.MockSimulationGateway{}
	c := validCoordinator(gw)

	col := benefits.ApplySelection(model.BenefitCollection{}, []string{"VT"})
	col = benefits.UpdateAmount(col, "VT", "500,00")
	c.SetBenefitsCLT(col)

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, gw.ComputeCalls, 1)
	req := gw.ComputeCalls[0]
	assert.InDelta(t, 5000.00, req.SalaryCLT, 0.0001)
	assert.InDelta(t, 4500.00, req.SalaryPJ, 0.0001)
	assert.Equal(t, model.RegimeSimplesNacional, req.TaxRegime)
	assert.Equal(t, 10, req.ReservePct)
	require.Len(t, req.BenefitsCLT, 1)
	assert.Equal(t, "VT", req.BenefitsCLT[0].Name)
	assert.InDelta(t, 500.00, req.BenefitsCLT[0].Value, 0.0001)
	assert.Equal(t, []string{"VT"}, req.BenefitNames)
}

func TestSubmitFlattensNamesAcrossRegimes(t *testing.T) {
	gw := &gateway.MockSimulationGateway{}
	c := validCoordinator(gw)

	c.SetBenefitsCLT(benefits.ApplySelection(model.BenefitCollection{}, []string{"VT", "VR"}))
	c.SetBenefitsPJ(benefits.AddCustom(model.BenefitCollection{}, "Contador", "200,00"))

	_, err := c.Submit(context.Background())
	require.NoError(t, err)

	require.Len(t, gw.ComputeCalls, 1)
	assert.Equal(t, []string{"VT", "VR", "Contador"}, gw.ComputeCalls[0].BenefitNames)
}

func TestSubmitSuccessTransitions(t *testing.T) {
	net := 4100.00
	gw := &gateway.MockSimulationGateway{
		ComputeFn: func(_ context.Context, _ string, _ model.SimulationRequest) (*model.SimulationResult, error) {
			return &model.SimulationResult{NetPayCLT: &net, NetPayPJ: 4800}, nil
		},
	}
	c := validCoordinator(gw)

	result, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, c.State())
	assert.InDelta(t, 4100.00, result.NetCLT(), 0.001)
	assert.Same(t, result, c.Result())
}

func TestSubmitGatewayFailureKeepsDraft(t *testing.T) {
	gw := &gateway.MockSimulationGateway{
		ComputeFn: func(_ context.Context, _ string, _ model.SimulationRequest) (*model.SimulationResult, error) {
			return nil, common.ErrRequestFailed
		},
	}
	c := validCoordinator(gw)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrRequestFailed)
	assert.Equal(t, StateFailed, c.State())

	// The draft survives untouched for an explicit user retry.
	draft := c.Draft()
	assert.Equal(t, model.CurrencyAmount(500000), draft.SalaryCLT)
	assert.Equal(t, model.RegimeSimplesNacional, draft.TaxRegime)

	// There is no automatic retry.
	assert.Len(t, gw.ComputeCalls, 1)
}

func TestSubmitStructurallyInvalidResponse(t *testing.T) {
	gw := &gateway.MockSimulationGateway{
		ComputeFn: func(_ context.Context, _ string, _ model.SimulationRequest) (*model.SimulationResult, error) {
			return &model.SimulationResult{NetPayPJ: 4800}, nil
		},
	}
	c := validCoordinator(gw)

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrInvalidResponse)
	assert.Equal(t, StateFailed, c.State())
	assert.Nil(t, c.Result())
}

func TestOnlyOneSubmissionInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	gw := &gateway.MockSimulationGateway{
		ComputeFn: func(_ context.Context, _ string, req model.SimulationRequest) (*model.SimulationResult, error) {
			close(entered)
			<-release
			net := req.SalaryCLT
			return &model.SimulationResult{NetPayCLT: &net}, nil
		},
	}
	c := validCoordinator(gw)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Submit(context.Background())
		assert.NoError(t, err)
	}()

	<-entered
	assert.Equal(t, StateSubmitting, c.State())

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, common.ErrSubmissionInFlight)

	close(release)
	wg.Wait()

	assert.Equal(t, StateSucceeded, c.State())
	assert.Len(t, gw.ComputeCalls, 1)
}

func TestResetAbandonsInFlightSubmission(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	gw := &gateway.MockSimulationGateway{
		ComputeFn: func(_ context.Context, _ string, req model.SimulationRequest) (*model.SimulationResult, error) {
			close(entered)
			<-release
			net := req.SalaryCLT
			return &model.SimulationResult{NetPayCLT: &net}, nil
		},
	}
	c := validCoordinator(gw)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background())
		errCh <- err
	}()

	<-entered
	c.Reset()
	close(release)

	assert.True(t, errors.Is(<-errCh, ErrAbandoned))
	assert.Equal(t, StateEditing, c.State())
	assert.Nil(t, c.Result())
	assert.Equal(t, model.CurrencyAmount(0), c.Draft().SalaryCLT)
}

func TestEditAfterFailureReturnsToEditing(t *testing.T) {
	gw := &gateway.MockSimulationGateway{
		ComputeFn: func(_ context.Context, _ string, _ model.SimulationRequest) (*model.SimulationResult, error) {
			return nil, common.ErrRequestFailed
		},
	}
	c := validCoordinator(gw)

	_, _ = c.Submit(context.Background())
	require.Equal(t, StateFailed, c.State())

	c.SetSalaryCLT("6000,00")
	assert.Equal(t, StateEditing, c.State())
}
