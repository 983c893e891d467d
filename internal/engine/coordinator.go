// Package engine owns the simulation draft lifecycle: editing, validation,
// request assembly, the single-flight submission to the remote gateway and
// the resulting success or failure state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/money"
	"github.com/cltpj/cltpj/internal/service"
)

// State is the coordinator's position in the draft lifecycle.
type State int

// Draft lifecycle states.
const (
	StateEditing State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrAbandoned is returned when a submission resolves after the draft it
// belonged to was reset. Its result must not be applied.
var ErrAbandoned = errors.New("submission abandoned")

// SessionSource supplies the current session so the coordinator can attach
// the user's token to gateway calls.
type SessionSource interface {
	Current() *model.Session
}

// Coordinator drives one simulation draft through
// Editing → Submitting → {Succeeded, Failed}.
type Coordinator struct {
	gateway  service.SimulationGateway
	sessions SessionSource
	logger   *slog.Logger
	draft    *model.SimulationDraft
	result   *model.SimulationResult
	mu       sync.Mutex
	state    State
	gen      uint64
}

// NewCoordinator creates a coordinator with a fresh empty draft.
func NewCoordinator(gateway service.SimulationGateway, sessions SessionSource, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		gateway:  gateway,
		sessions: sessions,
		logger:   logger.With("component", "coordinator"),
		draft:    NewDraft(),
		state:    StateEditing,
	}
}

// NewDraft returns an empty simulation draft.
func NewDraft() *model.SimulationDraft {
	return &model.SimulationDraft{}
}

// State returns the current lifecycle state.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Draft returns the working draft. Callers edit it only through the
// coordinator's setters.
func (c *Coordinator) Draft() model.SimulationDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.draft
}

// Result returns the last computed result, or nil.
func (c *Coordinator) Result() *model.SimulationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// SetSalaryCLT records the salaried-side base compensation from typed input.
func (c *Coordinator) SetSalaryCLT(raw string) {
	c.edit(func(d *model.SimulationDraft) { d.SalaryCLT = money.ParseTyped(raw) })
}

// SetSalaryPJ records the contractor-side base compensation from typed input.
func (c *Coordinator) SetSalaryPJ(raw string) {
	c.edit(func(d *model.SimulationDraft) { d.SalaryPJ = money.ParseTyped(raw) })
}

// SetTaxRegime records the contractor-side tax treatment selector.
func (c *Coordinator) SetTaxRegime(regime string) {
	c.edit(func(d *model.SimulationDraft) { d.TaxRegime = regime })
}

// SetReservePct records the emergency reserve percentage.
func (c *Coordinator) SetReservePct(pct int) {
	c.edit(func(d *model.SimulationDraft) { d.ReservePct = pct })
}

// SetBenefitsCLT replaces the salaried-side benefit collection.
func (c *Coordinator) SetBenefitsCLT(col model.BenefitCollection) {
	c.edit(func(d *model.SimulationDraft) { d.BenefitsCLT = col })
}

// SetBenefitsPJ replaces the contractor-side benefit collection.
func (c *Coordinator) SetBenefitsPJ(col model.BenefitCollection) {
	c.edit(func(d *model.SimulationDraft) { d.BenefitsPJ = col })
}

// edit applies a mutation and returns the coordinator to Editing. An edit
// after success or failure starts a new cycle over the same draft.
func (c *Coordinator) edit(fn func(*model.SimulationDraft)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fn(c.draft)
	if c.state == StateSucceeded || c.state == StateFailed {
		c.state = StateEditing
	}
}

// Validate checks every submission precondition and reports the first one
// that fails. A draft that fails validation never reaches the network.
func (c *Coordinator) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return validateDraft(c.draft)
}

func validateDraft(d *model.SimulationDraft) error {
	if !d.SalaryCLT.IsPositive() {
		return common.NewValidationError("salarioClt", "base compensation must be positive")
	}
	if !d.SalaryPJ.IsPositive() {
		return common.NewValidationError("salarioPj", "base compensation must be positive")
	}
	if d.ReservePct < 0 || d.ReservePct > 100 {
		return common.NewValidationError("reservaEmergencia", "reserve percentage must be between 0 and 100")
	}
	if d.TaxRegime == "" {
		return common.NewValidationError("regimeTributario", "tax regime must be selected")
	}
	if !model.ValidTaxRegime(d.TaxRegime) {
		return common.NewValidationError("regimeTributario", fmt.Sprintf("unknown tax regime %q", d.TaxRegime))
	}
	if !d.BenefitsCLT.Resolved() || !d.BenefitsPJ.Resolved() {
		return common.NewValidationError("beneficios", "a custom benefit is still unnamed")
	}
	return nil
}

// Submit freezes the draft into a request and sends it to the gateway.
// Only one submission may be in flight; a concurrent call is rejected, not
// queued. A failure leaves the draft untouched for the user to retry
// explicitly.
func (c *Coordinator) Submit(ctx context.Context) (*model.SimulationResult, error) {
	c.mu.Lock()

	if c.state == StateSubmitting {
		c.mu.Unlock()
		return nil, common.ErrSubmissionInFlight
	}

	if err := validateDraft(c.draft); err != nil {
		c.mu.Unlock()
		return nil, err
	}

	req, err := BuildRequest(c.draft)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	gen := c.gen
	c.state = StateSubmitting

	var token string
	if c.sessions != nil {
		if sess := c.sessions.Current(); sess != nil {
			token = sess.Token
		}
	}

	c.mu.Unlock()

	c.logger.Debug("Submitting simulation", "regime", req.TaxRegime, "benefits", len(req.BenefitNames))

	result, gwErr := c.gateway.Compute(ctx, token, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gen != gen {
		// The draft was reset while we were waiting; the resolution
		// belongs to a view that no longer exists.
		c.logger.Debug("Dropping stale submission result")
		return nil, ErrAbandoned
	}

	if gwErr != nil {
		c.state = StateFailed
		return nil, gwErr
	}

	if !result.Usable() {
		c.state = StateFailed
		return nil, fmt.Errorf("%w: response is missing the primary net-pay field", common.ErrInvalidResponse)
	}

	c.state = StateSucceeded
	c.result = result

	return result, nil
}

// Reset discards the draft and any result, including one still in flight.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	c.draft = NewDraft()
	c.result = nil
	c.state = StateEditing
}
