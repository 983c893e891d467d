// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/cltpj/cltpj/internal/model"
)

// Slot keys in the durable local store.
const (
	SlotToken      = "token"
	SlotUser       = "user"
	SlotLastResult = "last_result"
)

// SlotStore is the durable string-keyed local store backing the session and
// the last-result cache. Reads distinguish "absent" from "empty".
type SlotStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// AuthGateway exchanges credentials for an opaque token. Third-party logins
// do not pass through it; their exchange is completed out-of-band and the
// session store receives the finished token directly.
type AuthGateway interface {
	Login(ctx context.Context, email, secret string) (token string, err error)
	Register(ctx context.Context, email, secret string) (token string, err error)
}

// SimulationGateway performs the remote comparison computation and owns
// durable history. The token may be empty for Compute; history operations
// require it.
type SimulationGateway interface {
	Compute(ctx context.Context, token string, req model.SimulationRequest) (*model.SimulationResult, error)
	ListHistory(ctx context.Context, token string) ([]model.HistoryRecord, error)
	SaveHistory(ctx context.Context, token string, rec model.HistoryRecord) error
}

// HistoryCache is the local fallback copy of fetched history.
type HistoryCache interface {
	ReplaceHistory(ctx context.Context, recs []model.HistoryRecord) error
	CachedHistory(ctx context.Context) ([]model.HistoryRecord, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
