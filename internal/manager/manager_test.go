package manager

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"arbidash/backend/internal/ledger"
	"arbidash/backend/internal/model"
	"arbidash/backend/internal/scheduler"
	"arbidash/backend/internal/store"
	"arbidash/backend/internal/strategy"
	"arbidash/backend/internal/util"
)

// tradeOnTick is a deterministic arbitrage stand-in: every execution yields
// one confirmed trade with a fixed profit.
type tradeOnTick struct {
	profit float64
}

func (f *tradeOnTick) Type() string { return model.BotTypeArbitrage }

func (f *tradeOnTick) Validate(cfg *model.BotConfig) bool { return true }

func (f *tradeOnTick) Execute(ctx context.Context, cfg *model.BotConfig) (*strategy.ExecutionResult, error) {
	now := time.Now()
	return &strategy.ExecutionResult{
		Success: true,
		Trade: &model.Trade{
			ID:        model.NewTradeID(cfg.ID, now),
			BotID:     cfg.ID,
			Timestamp: now,
			TokenIn:   "WETH",
			TokenOut:  "USDC",
			AmountIn:  100,
			AmountOut: 100 + f.profit,
			Profit:    f.profit,
			ROI:       f.profit,
			Status:    model.TradeStatusConfirmed,
		},
	}, nil
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	st := store.NewMemoryStore()
	led := ledger.New()
	registry := strategy.NewRegistry()
	registry.Register(&tradeOnTick{profit: 5})

	sched := scheduler.New(st, registry, led, nil)
	t.Cleanup(sched.Shutdown)

	return New(st, led, sched)
}

func botRequest(id string) *model.BotConfigRequest {
	return &model.BotConfigRequest{
		ID:                   id,
		Name:                 "test bot",
		Type:                 model.BotTypeArbitrage,
		Network:              "ethereum",
		Capital:              1000,
		MaxCapitalPerTrade:   100,
		CheckIntervalSeconds: 3600,
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestCreateBotGeneratesID(t *testing.T) {
	m := newTestManager(t)

	bot, err := m.CreateBot(context.Background(), botRequest(""))
	if err != nil {
		t.Fatalf("CreateBot: %v", err)
	}
	if bot.ID == "" {
		t.Error("no id generated")
	}
	if bot.Status != model.BotStatusIdle || bot.Stats.TotalOperations != 0 {
		t.Errorf("fresh bot not idle/zeroed: %+v", bot)
	}
}

func TestCreateBotDuplicate(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.CreateBot(ctx, botRequest("bot-1")); err != nil {
		t.Fatalf("CreateBot: %v", err)
	}

	_, err := m.CreateBot(ctx, botRequest("bot-1"))
	appErr := util.GetAppError(err)
	if appErr == nil || appErr.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate create err = %v, want 409 AppError", err)
	}
}

func TestUpdateBotConfigPartial(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	created, err := m.CreateBot(ctx, botRequest("bot-1"))
	if err != nil {
		t.Fatalf("CreateBot: %v", err)
	}

	capital := 2500.0
	bot, err := m.UpdateBotConfig(ctx, "bot-1", &model.BotConfigUpdate{Capital: &capital})
	if err != nil {
		t.Fatalf("UpdateBotConfig: %v", err)
	}
	if bot.Capital != 2500 {
		t.Errorf("Capital = %f, want 2500", bot.Capital)
	}
	if bot.Name != created.Name || bot.MaxCapitalPerTrade != created.MaxCapitalPerTrade {
		t.Error("unset fields changed by partial update")
	}

	_, err = m.UpdateBotConfig(ctx, "missing", &model.BotConfigUpdate{Capital: &capital})
	appErr := util.GetAppError(err)
	if appErr == nil || appErr.Code != util.ErrCodeBotNotFound {
		t.Fatalf("update missing bot err = %v, want BOT_NOT_FOUND", err)
	}
}

func TestActivateTradeAndStats(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.CreateBot(ctx, botRequest("bot-1")); err != nil {
		t.Fatalf("CreateBot: %v", err)
	}
	if err := m.ActivateBot(ctx, "bot-1"); err != nil {
		t.Fatalf("ActivateBot: %v", err)
	}

	// The first execution fires on activation; the hour-long interval keeps
	// it to exactly one.
	waitFor(t, "first trade", func() bool {
		stats, err := m.GetBotStats(ctx, "bot-1")
		return err == nil && stats.TotalOperations == 1
	})

	stats, err := m.GetBotStats(ctx, "bot-1")
	if err != nil {
		t.Fatalf("GetBotStats: %v", err)
	}
	if stats.SuccessfulOperations != 1 || stats.TotalProfit != 5 || stats.WinRate != 100 {
		t.Errorf("stats = %+v", stats)
	}

	trades, err := m.GetBotTrades(ctx, "bot-1")
	if err != nil {
		t.Fatalf("GetBotTrades: %v", err)
	}
	if len(trades) != 1 || trades[0].Profit != 5 {
		t.Errorf("trades = %+v", trades)
	}

	if err := m.PauseBot(ctx, "bot-1"); err != nil {
		t.Fatalf("PauseBot: %v", err)
	}
	bot, _ := m.GetBot(ctx, "bot-1")
	if bot.Status != model.BotStatusPaused {
		t.Errorf("status after pause = %s", bot.Status)
	}

	// History survives the pause.
	trades, _ = m.GetBotTrades(ctx, "bot-1")
	if len(trades) != 1 {
		t.Errorf("trade history lost on pause: %d entries", len(trades))
	}
}

func TestActivateNoExecutor(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	req := botRequest("grid-1")
	req.Type = model.BotTypeGrid
	if _, err := m.CreateBot(ctx, req); err != nil {
		t.Fatalf("CreateBot: %v", err)
	}

	err := m.ActivateBot(ctx, "grid-1")
	appErr := util.GetAppError(err)
	if appErr == nil || appErr.Code != util.ErrCodeNoExecutor {
		t.Fatalf("ActivateBot err = %v, want NO_EXECUTOR", err)
	}

	bot, _ := m.GetBot(ctx, "grid-1")
	if bot.Status != model.BotStatusIdle {
		t.Errorf("failed activation changed status to %s", bot.Status)
	}
}

func TestGetOverallStats(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.CreateBot(ctx, botRequest("bot-1")); err != nil {
		t.Fatalf("CreateBot: %v", err)
	}
	if _, err := m.CreateBot(ctx, botRequest("bot-2")); err != nil {
		t.Fatalf("CreateBot: %v", err)
	}

	if err := m.ActivateBot(ctx, "bot-1"); err != nil {
		t.Fatalf("ActivateBot: %v", err)
	}
	waitFor(t, "first trade", func() bool {
		stats, err := m.GetBotStats(ctx, "bot-1")
		return err == nil && stats.TotalOperations == 1
	})

	overall, err := m.GetOverallStats(ctx)
	if err != nil {
		t.Fatalf("GetOverallStats: %v", err)
	}
	if overall.TotalBots != 2 || overall.ActiveBots != 1 {
		t.Errorf("bot counts: %+v", overall)
	}
	if overall.TotalProfit != 5 || overall.TotalOperations != 1 {
		t.Errorf("aggregates: %+v", overall)
	}
	// bot-1 roi = 5/1000*100 = 0.5%, bot-2 roi = 0; mean over both.
	if overall.AverageROI != 0.25 {
		t.Errorf("AverageROI = %f, want 0.25", overall.AverageROI)
	}
	if len(overall.Bots) != 2 {
		t.Fatalf("summaries = %d, want 2", len(overall.Bots))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	if _, err := m.CreateBot(ctx, botRequest("bot-1")); err != nil {
		t.Fatalf("CreateBot: %v", err)
	}
	if _, err := m.CreateBot(ctx, botRequest("bot-2")); err != nil {
		t.Fatalf("CreateBot: %v", err)
	}

	snapshot, err := m.ExportConfig(ctx)
	if err != nil {
		t.Fatalf("ExportConfig: %v", err)
	}

	// Importing into the exporting instance inserts nothing.
	n, err := m.ImportConfig(ctx, snapshot)
	if err != nil {
		t.Fatalf("ImportConfig: %v", err)
	}
	if n != 0 {
		t.Errorf("re-import inserted %d bots, want 0", n)
	}

	// A fresh instance takes all of them.
	m2 := newTestManager(t)
	n, err = m2.ImportConfig(ctx, snapshot)
	if err != nil {
		t.Fatalf("ImportConfig (fresh): %v", err)
	}
	if n != 2 {
		t.Errorf("imported %d bots, want 2", n)
	}

	bots, _ := m2.GetAllBots(ctx)
	if len(bots) != 2 {
		t.Fatalf("bots after import = %d, want 2", len(bots))
	}
	for _, bot := range bots {
		if bot.Status != model.BotStatusIdle || bot.Stats.TotalOperations != 0 {
			t.Errorf("imported bot carries state: %+v", bot)
		}
	}
}

func TestImportMalformed(t *testing.T) {
	m := newTestManager(t)

	n, err := m.ImportConfig(context.Background(), "{not json")
	if n != 0 {
		t.Errorf("malformed import inserted %d bots", n)
	}
	if !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
	appErr := util.GetAppError(err)
	if appErr == nil || appErr.Code != util.ErrCodeInvalidFormat {
		t.Errorf("err = %v, want INVALID_FORMAT AppError", err)
	}
}
