package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arbidash/backend/internal/model"
	"arbidash/backend/internal/util"
	"arbidash/backend/pkg/logger"

	"github.com/google/uuid"
)

// TradingPair describes one two-venue scan target in the bot parameters.
type TradingPair struct {
	TokenIn  string `json:"tokenIn"`
	TokenOut string `json:"tokenOut"`
	Dex1     string `json:"dex1"`
	Dex2     string `json:"dex2"`
}

// ArbitrageParams are the strategy-specific keys required in
// BotConfig.Parameters for arbitrage bots.
type ArbitrageParams struct {
	Pairs       []TradingPair `json:"pairs"`
	MaxSlippage float64       `json:"maxSlippage"` // bps
	MinProfit   float64       `json:"minProfit"`   // percent price gap
}

// GasModel converts an estimated gas unit count into a USD cost via a flat
// native-token rate. Stand-in accounting, not an oracle.
type GasModel struct {
	Units     float64 // estimated units per arbitrage round-trip
	PriceGwei float64 // fallback gas price when the bot sets none
	NativeUSD float64 // native token to USD rate
}

func DefaultGasModel() GasModel {
	return GasModel{
		Units:     150000,
		PriceGwei: 30,
		NativeUSD: 2500,
	}
}

// CostUSD computes the gas cost for one trade at the given price in gwei.
func (g GasModel) CostUSD(priceGwei float64) float64 {
	if priceGwei <= 0 {
		priceGwei = g.PriceGwei
	}
	return g.Units * priceGwei * 1e-9 * g.NativeUSD
}

// ArbitrageExecutor scans the configured pairs for a two-venue price gap and
// synthesizes a confirmed Trade for the first one above the threshold.
type ArbitrageExecutor struct {
	prices PriceSource
	gas    GasModel
	log    *logger.Logger
}

func NewArbitrageExecutor(prices PriceSource, gas GasModel) *ArbitrageExecutor {
	return &ArbitrageExecutor{
		prices: prices,
		gas:    gas,
		log:    logger.GetLogger(),
	}
}

func (e *ArbitrageExecutor) Type() string {
	return model.BotTypeArbitrage
}

// Validate checks the capital limits and required parameter keys without
// touching any state.
func (e *ArbitrageExecutor) Validate(cfg *model.BotConfig) bool {
	if cfg.Capital <= 0 || cfg.MaxCapitalPerTrade <= 0 {
		return false
	}
	_, err := decodeParams(cfg)
	return err == nil
}

// Execute scans the configured pairs in list order and stops at the first
// opportunity (first-fit; ordering is part of the contract for
// reproducibility). It returns a Go error only when the price source itself
// breaks or yields nonsense.
func (e *ArbitrageExecutor) Execute(ctx context.Context, cfg *model.BotConfig) (*ExecutionResult, error) {
	params, err := decodeParams(cfg)
	if err != nil {
		return &ExecutionResult{Success: false, Error: err.Error()}, nil
	}
	if cfg.Capital <= 0 || cfg.MaxCapitalPerTrade <= 0 {
		return &ExecutionResult{Success: false, Error: "capital and max capital per trade must be positive"}, nil
	}

	for _, pair := range params.Pairs {
		priceA, err := e.prices.Price(ctx, pair.Dex1, pair.TokenIn, pair.TokenOut)
		if err != nil {
			return nil, fmt.Errorf("price lookup on %s: %w", pair.Dex1, err)
		}
		priceB, err := e.prices.Price(ctx, pair.Dex2, pair.TokenIn, pair.TokenOut)
		if err != nil {
			return nil, fmt.Errorf("price lookup on %s: %w", pair.Dex2, err)
		}
		if priceA <= 0 {
			return nil, fmt.Errorf("non-positive price %f for %s/%s on %s", priceA, pair.TokenIn, pair.TokenOut, pair.Dex1)
		}

		profitMargin := util.PercentDiff(priceA, priceB)
		if profitMargin < params.MinProfit {
			continue
		}

		trade, terr := e.buildTrade(cfg, pair, profitMargin)
		if terr != nil {
			return &ExecutionResult{Success: false, Error: terr.Error()}, nil
		}

		e.log.Debugf("Bot %s: %s/%s gap %.4f%% between %s and %s",
			cfg.ID, pair.TokenIn, pair.TokenOut, profitMargin, pair.Dex1, pair.Dex2)

		return &ExecutionResult{Success: true, Trade: trade}, nil
	}

	return &ExecutionResult{
		Success: false,
		Error:   fmt.Sprintf("no opportunity above %.4f%% across %d pairs", params.MinProfit, len(params.Pairs)),
	}, nil
}

// buildTrade synthesizes the simulated settlement for a found opportunity.
func (e *ArbitrageExecutor) buildTrade(cfg *model.BotConfig, pair TradingPair, profitMargin float64) (*model.Trade, error) {
	amountIn := cfg.MaxCapitalPerTrade
	if amountIn > cfg.Capital {
		amountIn = cfg.Capital
	}
	if amountIn <= 0 {
		return nil, fmt.Errorf("degenerate trade amount %f", amountIn)
	}

	gasCost := e.gas.CostUSD(cfg.MaxGasPrice)
	profit := profitMargin*amountIn/100 - gasCost
	roi := profit / amountIn * 100

	now := time.Now()
	txRef := uuid.New()

	return &model.Trade{
		ID:        model.NewTradeID(cfg.ID, now),
		BotID:     cfg.ID,
		Timestamp: now,
		TokenIn:   pair.TokenIn,
		TokenOut:  pair.TokenOut,
		AmountIn:  amountIn,
		AmountOut: amountIn + profit,
		Profit:    profit,
		ROI:       roi,
		GasUsed:   e.gas.Units,
		GasCost:   gasCost,
		TxHash:    fmt.Sprintf("0x%x", txRef[:]),
		Status:    model.TradeStatusConfirmed,
	}, nil
}

// decodeParams extracts the arbitrage parameters from the free-form map,
// checking key presence first: a zero value decoded from a missing key must
// not pass for a configured one.
func decodeParams(cfg *model.BotConfig) (*ArbitrageParams, error) {
	if cfg.Parameters == nil {
		return nil, fmt.Errorf("missing strategy parameters")
	}
	for _, key := range []string{"pairs", "minProfit", "maxSlippage"} {
		if _, ok := cfg.Parameters[key]; !ok {
			return nil, fmt.Errorf("missing required parameter %q", key)
		}
	}

	raw, err := json.Marshal(cfg.Parameters)
	if err != nil {
		return nil, fmt.Errorf("unreadable strategy parameters: %w", err)
	}
	var params ArbitrageParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("malformed strategy parameters: %w", err)
	}
	if len(params.Pairs) == 0 {
		return nil, fmt.Errorf("parameter \"pairs\" must list at least one trading pair")
	}

	return &params, nil
}
