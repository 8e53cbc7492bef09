// Package strategy defines the pluggable per-bot-type execution contract and
// the reference arbitrage executor.
package strategy

import (
	"context"
	"sync"

	"arbidash/backend/internal/model"
)

// ExecutionResult is the outcome of one strategy execution. A "no opportunity
// found" tick is Success=false with a descriptive Error, not a Go error.
type ExecutionResult struct {
	Success bool         `json:"success"`
	Trade   *model.Trade `json:"trade,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Executor is the capability a bot type plugs into the scheduler. Execute
// returns a non-nil Go error only for programmer-error-class conditions;
// validation failures and empty scans are ordinary results.
type Executor interface {
	// Type returns the bot type tag this executor serves.
	Type() string

	// Validate reports whether the config carries everything the strategy
	// needs: positive capital limits and all required parameter keys.
	Validate(cfg *model.BotConfig) bool

	// Execute runs one tick against the given config.
	Execute(ctx context.Context, cfg *model.BotConfig) (*ExecutionResult, error)
}

// Registry maps bot type tags to executors. Registration at runtime is
// supported so new bot types need no scheduler changes; re-registering a
// type overwrites the previous executor (last write wins).
type Registry struct {
	mu        sync.RWMutex
	executors map[string]Executor
}

func NewRegistry() *Registry {
	return &Registry{
		executors: make(map[string]Executor),
	}
}

// Register binds an executor to its bot type, replacing any prior binding.
func (r *Registry) Register(ex Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.executors[ex.Type()] = ex
}

// Resolve returns the executor for a bot type, if one is registered.
func (r *Registry) Resolve(botType string) (Executor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ex, ok := r.executors[botType]
	return ex, ok
}
