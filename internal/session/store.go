// Package session owns the authenticated identity and credential token,
// persists them across process restarts, and exposes the login,
// registration, third-party callback and logout transitions.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goccy/go-json"

	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/service"
)

// RestoreOutcome describes what Restore found in durable storage.
type RestoreOutcome int

const (
	// NoSession means storage held no usable session.
	NoSession RestoreOutcome = iota
	// RestoredSession means a well-formed session was loaded.
	RestoredSession
	// RepairedCorrupt means a token was present but the stored identity
	// did not parse; the identity slot was cleared and the store stays
	// anonymous.
	RepairedCorrupt
)

// Store is the single source of truth for "is the user authenticated".
type Store struct {
	slots   service.SlotStore
	auth    service.AuthGateway
	logger  *slog.Logger
	current *model.Session
	mu      sync.Mutex
}

// NewStore creates a session store over the given slot storage and auth
// gateway. It starts anonymous; call Restore to load a persisted session.
func NewStore(slots service.SlotStore, auth service.AuthGateway, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		slots:  slots,
		auth:   auth,
		logger: logger.With("component", "session"),
	}
}

// Current returns a snapshot of the session, or nil when anonymous.
func (s *Store) Current() *model.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	snapshot := *s.current
	return &snapshot
}

// Restore loads the persisted session, if any. A token with a malformed
// identity is a known gap (the two slots are written independently): the
// corrupt identity is deleted so the next restore does not trip over it,
// the token slot is left untouched, and the store remains anonymous.
func (s *Store) Restore(ctx context.Context) (RestoreOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, haveToken, err := s.slots.Get(ctx, service.SlotToken)
	if err != nil {
		return NoSession, fmt.Errorf("failed to read token slot: %w", err)
	}

	rawUser, haveUser, err := s.slots.Get(ctx, service.SlotUser)
	if err != nil {
		return NoSession, fmt.Errorf("failed to read user slot: %w", err)
	}

	if !haveToken || token == "" {
		return NoSession, nil
	}

	if !haveUser {
		return NoSession, nil
	}

	var identity model.Identity
	if err := json.Unmarshal([]byte(rawUser), &identity); err != nil || !identity.Wellformed() {
		s.logger.Warn("Discarding malformed persisted identity", "error", err)
		if delErr := s.slots.Delete(ctx, service.SlotUser); delErr != nil {
			return NoSession, fmt.Errorf("failed to clear corrupt identity: %w", delErr)
		}
		return RepairedCorrupt, nil
	}

	s.current = &model.Session{Identity: identity, Token: token}
	s.logger.Debug("Restored session", "email", identity.Email)

	return RestoredSession, nil
}

// Login exchanges credentials for a token via the auth gateway. On failure
// the store is left exactly as it was.
func (s *Store) Login(ctx context.Context, email, secret string) error {
	token, err := s.auth.Login(ctx, email, secret)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Only the email is known locally at this point; server-assigned
	// fields arrive with later responses.
	return s.adopt(ctx, model.Identity{Email: email}, token)
}

// Register exchanges registration data for a token, with the same contract
// as Login.
func (s *Store) Register(ctx context.Context, email, secret string) error {
	token, err := s.auth.Register(ctx, email, secret)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	return s.adopt(ctx, model.Identity{Email: email}, token)
}

// LoginFromCallback stores a token obtained from an already-completed
// third-party exchange. No further network call happens here. Missing
// parameters are a distinct error from a credential failure.
func (s *Store) LoginFromCallback(ctx context.Context, token, identityLabel, provider string) error {
	if token == "" || identityLabel == "" {
		return common.ErrMissingCallbackParams
	}

	return s.adopt(ctx, model.Identity{Email: identityLabel, Provider: provider}, token)
}

// Logout clears the in-memory and persisted session. It is idempotent.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil

	if err := s.slots.Delete(ctx, service.SlotToken); err != nil {
		return fmt.Errorf("failed to clear token slot: %w", err)
	}
	if err := s.slots.Delete(ctx, service.SlotUser); err != nil {
		return fmt.Errorf("failed to clear user slot: %w", err)
	}

	return nil
}

// adopt persists the new session and makes it current. The two slot
// writes are independent; a crash between them leaves a token without an
// identity, which Restore repairs.
func (s *Store) adopt(ctx context.Context, identity model.Identity, token string) error {
	rawUser, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to serialize identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.slots.Set(ctx, service.SlotToken, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	if err := s.slots.Set(ctx, service.SlotUser, string(rawUser)); err != nil {
		return fmt.Errorf("failed to persist identity: %w", err)
	}

	s.current = &model.Session{Identity: identity, Token: token}
	s.logger.Info("Session established", "email", identity.Email, "provider", identity.Provider)

	return nil
}
