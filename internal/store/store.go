// Package store provides the bot configuration store with interchangeable
// in-memory and Redis backends.
package store

import (
	"context"
	"errors"
	"time"

	"arbidash/backend/internal/model"
)

var (
	// ErrDuplicateID is returned by Create when the id is already taken.
	ErrDuplicateID = errors.New("bot id already exists")
	// ErrNotFound is returned when no bot exists for the given id.
	ErrNotFound = errors.New("bot not found")
)

// Store holds BotConfig records keyed by id. Implementations serialize all
// mutation internally; callers get copies, never shared pointers.
type Store interface {
	// Create inserts a new config, zeroing stats and stamping timestamps.
	// Fails with ErrDuplicateID if the id already exists.
	Create(ctx context.Context, bot *model.BotConfig) (*model.BotConfig, error)

	// Get returns the config for id, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.BotConfig, error)

	// List returns a snapshot of all configs in insertion order.
	List(ctx context.Context) ([]*model.BotConfig, error)

	// Update merges the non-nil fields of upd over the existing record and
	// refreshes UpdatedAt. Id and CreatedAt are never overwritten.
	Update(ctx context.Context, id string, upd *model.BotConfigUpdate) (*model.BotConfig, error)

	// UpdateStatus sets the lifecycle status. Enabled follows the status:
	// RUNNING enables the bot, PAUSED/STOPPED/IDLE disable it, ERROR leaves
	// the flag untouched (the bot stays scheduled).
	UpdateStatus(ctx context.Context, id string, status string) error

	// RecordExecution stamps LastExecutedAt and, when stats is non-nil,
	// replaces the embedded stats snapshot.
	RecordExecution(ctx context.Context, id string, stats *model.BotStats, executedAt time.Time) error
}

// initCreate normalizes a config for insertion: zeroed stats, IDLE status,
// fresh timestamps. Shared by both backends.
func initCreate(bot *model.BotConfig) {
	now := time.Now()
	bot.Stats = model.BotStats{}
	bot.Status = model.BotStatusIdle
	bot.Enabled = false
	bot.CreatedAt = now
	bot.UpdatedAt = now
	bot.LastExecutedAt = nil
}

// applyStatus mutates status and the derived enabled flag.
func applyStatus(bot *model.BotConfig, status string) {
	bot.Status = status
	switch status {
	case model.BotStatusRunning:
		bot.Enabled = true
	case model.BotStatusPaused, model.BotStatusStopped, model.BotStatusIdle:
		bot.Enabled = false
	}
	bot.UpdatedAt = time.Now()
}
