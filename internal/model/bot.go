package model

import (
	"time"
)

// Bot status constants
const (
	BotStatusIdle    = "IDLE"
	BotStatusRunning = "RUNNING"
	BotStatusPaused  = "PAUSED"
	BotStatusError   = "ERROR"
	BotStatusStopped = "STOPPED"
)

// Bot type constants
const (
	BotTypeArbitrage = "arbitrage"
	BotTypeGrid      = "grid"
	BotTypeMomentum  = "momentum"
)

// BotConfig represents an arbitrage bot configuration
type BotConfig struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"` // arbitrage, grid, momentum
	Network string `json:"network"`

	// Capital limits
	Capital            float64 `json:"capital"`
	MaxCapitalPerTrade float64 `json:"max_capital_per_trade"`
	MinProfitThreshold float64 `json:"min_profit_threshold"`

	// Risk limits
	StopLoss     float64 `json:"stop_loss"`
	TakeProfit   float64 `json:"take_profit"`
	MaxDailyLoss float64 `json:"max_daily_loss"`

	// Execution parameters
	CheckIntervalSeconds int                    `json:"check_interval_seconds"`
	MaxGasPrice          float64                `json:"max_gas_price"` // gwei
	SlippageTolerance    float64                `json:"slippage_tolerance"`
	Parameters           map[string]interface{} `json:"parameters"` // strategy-specific keys

	// Lifecycle
	Enabled bool   `json:"enabled"`
	Status  string `json:"status"` // IDLE, RUNNING, PAUSED, ERROR, STOPPED

	// Statistics snapshot, maintained by the ledger
	Stats BotStats `json:"stats"`

	// Timestamps
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	LastExecutedAt *time.Time `json:"last_executed_at,omitempty"`
}

// BotStats is the derived per-bot aggregate. TotalOperations always equals
// SuccessfulOperations + FailedOperations; WinRate and AverageProfit are
// recomputed by the ledger, never mutated independently.
type BotStats struct {
	TotalOperations      int        `json:"total_operations"`
	SuccessfulOperations int        `json:"successful_operations"`
	FailedOperations     int        `json:"failed_operations"`
	TotalProfit          float64    `json:"total_profit"`
	TotalLoss            float64    `json:"total_loss"`
	WinRate              float64    `json:"win_rate"` // percent
	AverageProfit        float64    `json:"average_profit"`
	LastTradedAt         *time.Time `json:"last_traded_at,omitempty"`
}

// BotConfigRequest represents the request to create a bot
type BotConfigRequest struct {
	ID      string `json:"id"`
	Name    string `json:"name" binding:"required"`
	Type    string `json:"type" binding:"required,oneof=arbitrage grid momentum"`
	Network string `json:"network"`

	Capital            float64 `json:"capital" binding:"required,gt=0"`
	MaxCapitalPerTrade float64 `json:"max_capital_per_trade" binding:"required,gt=0"`
	MinProfitThreshold float64 `json:"min_profit_threshold" binding:"gte=0"`

	StopLoss     float64 `json:"stop_loss" binding:"gte=0"`
	TakeProfit   float64 `json:"take_profit" binding:"gte=0"`
	MaxDailyLoss float64 `json:"max_daily_loss" binding:"gte=0"`

	CheckIntervalSeconds int     `json:"check_interval_seconds" binding:"required,gte=1"`
	MaxGasPrice          float64 `json:"max_gas_price" binding:"gte=0"`
	SlippageTolerance    float64 `json:"slippage_tolerance" binding:"gte=0"`

	Parameters map[string]interface{} `json:"parameters"`
}

// ToConfig builds a fresh BotConfig from the request. Lifecycle fields,
// stats and timestamps are left for the store to initialize.
func (r *BotConfigRequest) ToConfig() *BotConfig {
	return &BotConfig{
		ID:                   r.ID,
		Name:                 r.Name,
		Type:                 r.Type,
		Network:              r.Network,
		Capital:              r.Capital,
		MaxCapitalPerTrade:   r.MaxCapitalPerTrade,
		MinProfitThreshold:   r.MinProfitThreshold,
		StopLoss:             r.StopLoss,
		TakeProfit:           r.TakeProfit,
		MaxDailyLoss:         r.MaxDailyLoss,
		CheckIntervalSeconds: r.CheckIntervalSeconds,
		MaxGasPrice:          r.MaxGasPrice,
		SlippageTolerance:    r.SlippageTolerance,
		Parameters:           r.Parameters,
	}
}

// BotConfigUpdate is a partial update payload. Nil fields are left untouched;
// id, created_at and stats are never writable through an update.
type BotConfigUpdate struct {
	Name    *string `json:"name"`
	Network *string `json:"network"`

	Capital            *float64 `json:"capital"`
	MaxCapitalPerTrade *float64 `json:"max_capital_per_trade"`
	MinProfitThreshold *float64 `json:"min_profit_threshold"`

	StopLoss     *float64 `json:"stop_loss"`
	TakeProfit   *float64 `json:"take_profit"`
	MaxDailyLoss *float64 `json:"max_daily_loss"`

	CheckIntervalSeconds *int     `json:"check_interval_seconds"`
	MaxGasPrice          *float64 `json:"max_gas_price"`
	SlippageTolerance    *float64 `json:"slippage_tolerance"`

	Parameters map[string]interface{} `json:"parameters"`
}

// Apply merges the non-nil fields over bot.
func (u *BotConfigUpdate) Apply(bot *BotConfig) {
	if u.Name != nil {
		bot.Name = *u.Name
	}
	if u.Network != nil {
		bot.Network = *u.Network
	}
	if u.Capital != nil {
		bot.Capital = *u.Capital
	}
	if u.MaxCapitalPerTrade != nil {
		bot.MaxCapitalPerTrade = *u.MaxCapitalPerTrade
	}
	if u.MinProfitThreshold != nil {
		bot.MinProfitThreshold = *u.MinProfitThreshold
	}
	if u.StopLoss != nil {
		bot.StopLoss = *u.StopLoss
	}
	if u.TakeProfit != nil {
		bot.TakeProfit = *u.TakeProfit
	}
	if u.MaxDailyLoss != nil {
		bot.MaxDailyLoss = *u.MaxDailyLoss
	}
	if u.CheckIntervalSeconds != nil {
		bot.CheckIntervalSeconds = *u.CheckIntervalSeconds
	}
	if u.MaxGasPrice != nil {
		bot.MaxGasPrice = *u.MaxGasPrice
	}
	if u.SlippageTolerance != nil {
		bot.SlippageTolerance = *u.SlippageTolerance
	}
	if u.Parameters != nil {
		bot.Parameters = u.Parameters
	}
}

// Clone returns a deep copy safe to hand out across goroutines.
func (b *BotConfig) Clone() *BotConfig {
	cp := *b
	if b.Parameters != nil {
		params := make(map[string]interface{}, len(b.Parameters))
		for k, v := range b.Parameters {
			params[k] = v
		}
		cp.Parameters = params
	}
	if b.LastExecutedAt != nil {
		t := *b.LastExecutedAt
		cp.LastExecutedAt = &t
	}
	if b.Stats.LastTradedAt != nil {
		t := *b.Stats.LastTradedAt
		cp.Stats.LastTradedAt = &t
	}
	return &cp
}
