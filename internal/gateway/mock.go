package gateway

import (
	"context"

	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/service"
)

// MockAuthGateway is a mock implementation of service.AuthGateway for testing.
type MockAuthGateway struct {
	// Functions that can be set by tests to control behavior
	LoginFn    func(ctx context.Context, email, secret string) (string, error)
	RegisterFn func(ctx context.Context, email, secret string) (string, error)

	// Call tracking
	LoginCalls    int
	RegisterCalls int
}

// Login implements service.AuthGateway.
func (m *MockAuthGateway) Login(ctx context.Context, email, secret string) (string, error) {
	m.LoginCalls++
	if m.LoginFn != nil {
		return m.LoginFn(ctx, email, secret)
	}
	return "mock-token", nil
}

// Register implements service.AuthGateway.
func (m *MockAuthGateway) Register(ctx context.Context, email, secret string) (string, error) {
	m.RegisterCalls++
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, secret)
	}
	return "mock-token", nil
}

// MockSimulationGateway is a mock implementation of service.SimulationGateway.
type MockSimulationGateway struct {
	ComputeFn     func(ctx context.Context, token string, req model.SimulationRequest) (*model.SimulationResult, error)
	ListHistoryFn func(ctx context.Context, token string) ([]model.HistoryRecord, error)
	SaveHistoryFn func(ctx context.Context, token string, rec model.HistoryRecord) error

	// Call tracking
	ComputeCalls     []model.SimulationRequest
	ListHistoryCalls int
	SaveHistoryCalls []model.HistoryRecord
}

// Compute implements service.SimulationGateway.
func (m *MockSimulationGateway) Compute(ctx context.Context, token string, req model.SimulationRequest) (*model.SimulationResult, error) {
	m.ComputeCalls = append(m.ComputeCalls, req)
	if m.ComputeFn != nil {
		return m.ComputeFn(ctx, token, req)
	}

	net := req.SalaryCLT
	return &model.SimulationResult{NetPayCLT: &net}, nil
}

// ListHistory implements service.SimulationGateway.
func (m *MockSimulationGateway) ListHistory(ctx context.Context, token string) ([]model.HistoryRecord, error) {
	m.ListHistoryCalls++
	if m.ListHistoryFn != nil {
		return m.ListHistoryFn(ctx, token)
	}
	return []model.HistoryRecord{}, nil
}

// SaveHistory implements service.SimulationGateway.
func (m *MockSimulationGateway) SaveHistory(ctx context.Context, token string, rec model.HistoryRecord) error {
	m.SaveHistoryCalls = append(m.SaveHistoryCalls, rec)
	if m.SaveHistoryFn != nil {
		return m.SaveHistoryFn(ctx, token, rec)
	}
	return nil
}

// Reset clears all call tracking.
func (m *MockSimulationGateway) Reset() {
	m.ComputeCalls = nil
	m.ListHistoryCalls = 0
	m.SaveHistoryCalls = nil
}

// Ensure the mocks satisfy the service contracts.
var (
	_ service.AuthGateway       = (*MockAuthGateway)(nil)
	_ service.SimulationGateway = (*MockSimulationGateway)(nil)
)
