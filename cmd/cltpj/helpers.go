package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/viper"

	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/config"
	"github.com/cltpj/cltpj/internal/gateway"
	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/service"
	"github.com/cltpj/cltpj/internal/session"
	"github.com/cltpj/cltpj/internal/storage"
)

// openStore opens the local SQLite store and brings its schema up to date.
// Callers own the returned store and must Close it.
func openStore(ctx context.Context) (*storage.SQLiteStore, error) {
	dbPath := viper.GetString("data.db")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		return nil, common.NewUserError("Could not open the local data store. Check permissions on "+dbPath, err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return store, nil
}

func apiConfig() gateway.Config {
	return gateway.Config{
		BaseURL: strings.TrimRight(viper.GetString("api.base_url"), "/"),
		Timeout: viper.GetDuration("api.timeout"),
	}
}

// newSessionStore builds the session store on top of the slot store and
// restores whatever session survived the previous run.
func newSessionStore(ctx context.Context, slots service.SlotStore) (*session.Store, error) {
	auth, err := gateway.NewAuthClient(apiConfig())
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(slots, auth, slog.Default())
	outcome, err := sessions.Restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	if outcome == session.RepairedCorrupt {
		slog.Warn("Stored identity was unreadable and has been discarded; sign in again to save simulations")
	}
	return sessions, nil
}

type cachedResult struct {
	Result *model.SimulationResult `json:"resultado"`
	Draft  *model.SimulationDraft  `json:"rascunho"`
}

// cacheLastResult stores the most recent successful simulation so export
// commands can run in a later invocation.
func cacheLastResult(ctx context.Context, slots service.SlotStore, result *model.SimulationResult, draft *model.SimulationDraft) {
	raw, err := json.Marshal(cachedResult{Result: result, Draft: draft})
	if err != nil {
		slog.Warn("Could not encode result for the export cache", "error", err)
		return
	}
	if err := slots.Set(ctx, service.SlotLastResult, string(raw)); err != nil {
		slog.Warn("Could not cache result for export", "error", err)
	}
}

// loadLastResult reads the cached simulation back. A missing or unreadable
// slot is reported as a user error since export is pointless without it.
func loadLastResult(ctx context.Context, slots service.SlotStore) (*cachedResult, error) {
	raw, found, err := slots.Get(ctx, service.SlotLastResult)
	if err != nil {
		return nil, fmt.Errorf("failed to read cached result: %w", err)
	}
	if !found {
		return nil, common.NewUserError("No simulation to export yet. Run 'cltpj simulate' first", nil)
	}

	var cached cachedResult
	if err := json.Unmarshal([]byte(raw), &cached); err != nil || cached.Result == nil {
		return nil, common.NewUserError("The cached simulation is unreadable. Run 'cltpj simulate' again", err)
	}
	return &cached, nil
}
