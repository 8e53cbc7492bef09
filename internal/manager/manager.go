// Package manager composes the store, registry, scheduler and ledger into
// the single facade the HTTP layer (or any other frontend) talks to.
package manager

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"arbidash/backend/internal/ledger"
	"arbidash/backend/internal/model"
	"arbidash/backend/internal/scheduler"
	"arbidash/backend/internal/store"
	"arbidash/backend/internal/util"
	"arbidash/backend/pkg/logger"

	"github.com/google/uuid"
)

// ErrInvalidFormat is returned by ImportConfig for payloads that do not
// parse; nothing is imported in that case.
var ErrInvalidFormat = errors.New("invalid snapshot format")

type Manager struct {
	store     store.Store
	ledger    *ledger.Ledger
	scheduler *scheduler.Scheduler
	log       *logger.Logger
}

func New(st store.Store, led *ledger.Ledger, sch *scheduler.Scheduler) *Manager {
	return &Manager{
		store:     st,
		ledger:    led,
		scheduler: sch,
		log:       logger.GetLogger(),
	}
}

// CreateBot registers a new bot configuration with zeroed stats. A missing
// id gets a generated one.
func (m *Manager) CreateBot(ctx context.Context, req *model.BotConfigRequest) (*model.BotConfig, error) {
	cfg := req.ToConfig()
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}

	bot, err := m.store.Create(ctx, cfg)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateID) {
			return nil, util.ErrConflict("Bot id already exists")
		}
		m.log.Errorf("Failed to create bot %s: %v", cfg.ID, err)
		return nil, util.ErrInternalServer("Failed to create bot")
	}

	m.log.Infof("Bot %s created (type=%s, capital=%.2f)", bot.ID, bot.Type, bot.Capital)
	return bot, nil
}

// UpdateBotConfig merges a partial payload over the stored config. Id,
// created_at and stats are never touched.
func (m *Manager) UpdateBotConfig(ctx context.Context, botID string, upd *model.BotConfigUpdate) (*model.BotConfig, error) {
	bot, err := m.store.Update(ctx, botID, upd)
	if err != nil {
		return nil, m.mapStoreErr(err)
	}
	return bot, nil
}

// ActivateBot schedules the bot. Fails without state change when no executor
// is registered for the bot's type.
func (m *Manager) ActivateBot(ctx context.Context, botID string) error {
	err := m.scheduler.Activate(ctx, botID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, scheduler.ErrNoExecutor):
		return util.NewAppError(400, util.ErrCodeNoExecutor, "No executor registered for this bot type")
	case errors.Is(err, scheduler.ErrInvalidConfig):
		return util.ErrValidation("Bot config fails strategy validation")
	case errors.Is(err, scheduler.ErrAlreadyRunning):
		return util.ErrBadRequest("Bot is already running")
	default:
		return m.mapStoreErr(err)
	}
}

// PauseBot deschedules the bot and marks it PAUSED. Idempotent.
func (m *Manager) PauseBot(ctx context.Context, botID string) error {
	if err := m.scheduler.Pause(ctx, botID); err != nil {
		return m.mapStoreErr(err)
	}
	return nil
}

// StopBot deschedules the bot and marks it STOPPED. Idempotent.
func (m *Manager) StopBot(ctx context.Context, botID string) error {
	if err := m.scheduler.Stop(ctx, botID); err != nil {
		return m.mapStoreErr(err)
	}
	return nil
}

func (m *Manager) GetBot(ctx context.Context, botID string) (*model.BotConfig, error) {
	bot, err := m.store.Get(ctx, botID)
	if err != nil {
		return nil, m.mapStoreErr(err)
	}
	return bot, nil
}

func (m *Manager) GetAllBots(ctx context.Context) ([]*model.BotConfig, error) {
	return m.store.List(ctx)
}

// GetBotTrades returns the full ordered trade history for a bot.
func (m *Manager) GetBotTrades(ctx context.Context, botID string) ([]model.Trade, error) {
	if _, err := m.store.Get(ctx, botID); err != nil {
		return nil, m.mapStoreErr(err)
	}
	return m.ledger.Trades(botID), nil
}

// GetBotStats returns the bot's aggregate; zero-valued for a bot that has
// never traded.
func (m *Manager) GetBotStats(ctx context.Context, botID string) (*model.BotStats, error) {
	bot, err := m.store.Get(ctx, botID)
	if err != nil {
		return nil, m.mapStoreErr(err)
	}
	stats := bot.Stats
	return &stats, nil
}

// GetOverallStats aggregates across all bots. Bots without positive capital
// are excluded from the ROI mean to keep the division sound.
func (m *Manager) GetOverallStats(ctx context.Context) (*model.OverallStats, error) {
	bots, err := m.store.List(ctx)
	if err != nil {
		return nil, err
	}

	overall := &model.OverallStats{
		TotalBots: len(bots),
		Bots:      make([]model.BotSummary, 0, len(bots)),
	}

	roiSum := 0.0
	roiCount := 0

	for _, bot := range bots {
		if bot.Status == model.BotStatusRunning {
			overall.ActiveBots++
		}
		overall.TotalProfit += bot.Stats.TotalProfit
		overall.TotalOperations += bot.Stats.TotalOperations

		roi := 0.0
		if bot.Capital > 0 {
			roi = bot.Stats.TotalProfit / bot.Capital * 100
			roiSum += roi
			roiCount++
		}

		overall.Bots = append(overall.Bots, model.BotSummary{
			BotID:           bot.ID,
			Name:            bot.Name,
			Type:            bot.Type,
			Status:          bot.Status,
			TotalOperations: bot.Stats.TotalOperations,
			TotalProfit:     bot.Stats.TotalProfit,
			WinRate:         util.RoundToPrecision(bot.Stats.WinRate, 2),
			ROI:             util.RoundToPrecision(roi, 4),
		})
	}

	if roiCount > 0 {
		overall.AverageROI = roiSum / float64(roiCount)
	}

	return overall, nil
}

// ExportConfig serializes every bot config plus an export timestamp.
func (m *Manager) ExportConfig(ctx context.Context) (string, error) {
	bots, err := m.store.List(ctx)
	if err != nil {
		return "", err
	}

	snapshot := model.ConfigSnapshot{
		Bots:       make([]model.BotConfig, 0, len(bots)),
		ExportedAt: time.Now(),
	}
	for _, bot := range bots {
		snapshot.Bots = append(snapshot.Bots, *bot)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportConfig inserts the snapshot's configs, silently skipping ids that
// already exist, and returns the number of newly inserted bots. A payload
// that does not parse imports nothing.
func (m *Manager) ImportConfig(ctx context.Context, payload string) (int, error) {
	var snapshot model.ConfigSnapshot
	if err := json.Unmarshal([]byte(payload), &snapshot); err != nil {
		return 0, util.WrapError(400, util.ErrCodeInvalidFormat, "Malformed config snapshot", ErrInvalidFormat)
	}

	imported := 0
	for i := range snapshot.Bots {
		bot := snapshot.Bots[i]
		if bot.ID == "" {
			continue
		}
		// Imported bots start over: fresh lifecycle, no claimed history.
		if _, err := m.store.Create(ctx, &bot); err != nil {
			if errors.Is(err, store.ErrDuplicateID) {
				continue
			}
			return imported, err
		}
		imported++
	}

	m.log.Infof("Imported %d bot configs (%d in snapshot)", imported, len(snapshot.Bots))
	return imported, nil
}

func (m *Manager) mapStoreErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return util.NewAppError(404, util.ErrCodeBotNotFound, "Bot not found")
	}
	return err
}
