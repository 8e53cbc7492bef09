package strategy

import (
	"context"
	"fmt"
	"math"
	"testing"

	"arbidash/backend/internal/model"
)

// stubPrices quotes a fixed price per venue, or fails for unknown venues.
type stubPrices struct {
	quotes map[string]float64
}

func (s *stubPrices) Price(ctx context.Context, venue, tokenIn, tokenOut string) (float64, error) {
	p, ok := s.quotes[venue]
	if !ok {
		return 0, fmt.Errorf("unknown venue %q", venue)
	}
	return p, nil
}

func arbBot(minProfit float64, pairs ...TradingPair) *model.BotConfig {
	ps := make([]map[string]interface{}, 0, len(pairs))
	for _, p := range pairs {
		ps = append(ps, map[string]interface{}{
			"tokenIn":  p.TokenIn,
			"tokenOut": p.TokenOut,
			"dex1":     p.Dex1,
			"dex2":     p.Dex2,
		})
	}
	return &model.BotConfig{
		ID:                   "bot-1",
		Name:                 "test",
		Type:                 model.BotTypeArbitrage,
		Capital:              10000,
		MaxCapitalPerTrade:   1000,
		CheckIntervalSeconds: 30,
		Parameters: map[string]interface{}{
			"pairs":       ps,
			"minProfit":   minProfit,
			"maxSlippage": 0.5,
		},
	}
}

// flatGas keeps the cost math trivial: 1e6 units * 1 gwei * $1000 = $1.
var flatGas = GasModel{Units: 1e6, PriceGwei: 1, NativeUSD: 1000}

func TestExecuteFindsOpportunity(t *testing.T) {
	prices := &stubPrices{quotes: map[string]float64{"uniswap": 2500, "sushiswap": 2525}}
	ex := NewArbitrageExecutor(prices, flatGas)

	bot := arbBot(0.5, TradingPair{TokenIn: "WETH", TokenOut: "USDC", Dex1: "uniswap", Dex2: "sushiswap"})

	res, err := ex.Execute(context.Background(), bot)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Success || res.Trade == nil {
		t.Fatalf("expected a trade, got %+v", res)
	}

	tr := res.Trade
	// 1% gap on $1000 with $1 gas: profit 10 - 1 = 9, roi 0.9%.
	if math.Abs(tr.Profit-9) > 1e-9 {
		t.Errorf("Profit = %f, want 9", tr.Profit)
	}
	if math.Abs(tr.ROI-0.9) > 1e-9 {
		t.Errorf("ROI = %f, want 0.9", tr.ROI)
	}
	if tr.AmountIn != 1000 {
		t.Errorf("AmountIn = %f, want 1000", tr.AmountIn)
	}
	if math.Abs(tr.AmountOut-1009) > 1e-9 {
		t.Errorf("AmountOut = %f, want 1009", tr.AmountOut)
	}
	if tr.Status != model.TradeStatusConfirmed {
		t.Errorf("Status = %q, want confirmed", tr.Status)
	}
	if tr.BotID != bot.ID || tr.TxHash == "" {
		t.Errorf("trade identity incomplete: %+v", tr)
	}
}

func TestExecuteNoOpportunity(t *testing.T) {
	// 0.2% gap, threshold 0.5%.
	prices := &stubPrices{quotes: map[string]float64{"uniswap": 2500, "sushiswap": 2505}}
	ex := NewArbitrageExecutor(prices, flatGas)

	bot := arbBot(0.5, TradingPair{TokenIn: "WETH", TokenOut: "USDC", Dex1: "uniswap", Dex2: "sushiswap"})

	res, err := ex.Execute(context.Background(), bot)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Success || res.Trade != nil {
		t.Fatalf("expected no trade, got %+v", res)
	}
	if res.Error == "" {
		t.Error("no-opportunity result carries no description")
	}
}

func TestExecuteFirstFit(t *testing.T) {
	// Both pairs clear the threshold; only the first may trade.
	prices := &stubPrices{quotes: map[string]float64{
		"uniswap":   100,
		"sushiswap": 102,
		"curve":     100,
		"balancer":  105,
	}}
	ex := NewArbitrageExecutor(prices, flatGas)

	bot := arbBot(1,
		TradingPair{TokenIn: "AAA", TokenOut: "BBB", Dex1: "uniswap", Dex2: "sushiswap"},
		TradingPair{TokenIn: "CCC", TokenOut: "DDD", Dex1: "curve", Dex2: "balancer"},
	)

	res, err := ex.Execute(context.Background(), bot)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected a trade, got %+v", res)
	}
	if res.Trade.TokenIn != "AAA" {
		t.Errorf("traded pair %s/%s, want first-listed AAA/BBB", res.Trade.TokenIn, res.Trade.TokenOut)
	}
}

func TestExecuteMissingParameter(t *testing.T) {
	prices := &stubPrices{quotes: map[string]float64{"uniswap": 2500, "sushiswap": 2525}}
	ex := NewArbitrageExecutor(prices, flatGas)

	bot := arbBot(0.5, TradingPair{TokenIn: "WETH", TokenOut: "USDC", Dex1: "uniswap", Dex2: "sushiswap"})
	delete(bot.Parameters, "minProfit")

	res, err := ex.Execute(context.Background(), bot)
	if err != nil {
		t.Fatalf("missing parameter must be a result, not an error: %v", err)
	}
	if res.Success {
		t.Fatal("Execute succeeded with missing minProfit")
	}
	if res.Error == "" {
		t.Error("failure result carries no description")
	}
}

func TestExecutePriceSourceError(t *testing.T) {
	prices := &stubPrices{quotes: map[string]float64{"uniswap": 2500}} // sushiswap missing
	ex := NewArbitrageExecutor(prices, flatGas)

	bot := arbBot(0.5, TradingPair{TokenIn: "WETH", TokenOut: "USDC", Dex1: "uniswap", Dex2: "sushiswap"})

	if _, err := ex.Execute(context.Background(), bot); err == nil {
		t.Fatal("broken price source must surface as a Go error")
	}
}

func TestValidate(t *testing.T) {
	ex := NewArbitrageExecutor(&stubPrices{}, flatGas)

	bot := arbBot(0.5, TradingPair{TokenIn: "WETH", TokenOut: "USDC", Dex1: "uniswap", Dex2: "sushiswap"})
	if !ex.Validate(bot) {
		t.Error("Validate rejected a complete config")
	}

	noCapital := arbBot(0.5, TradingPair{TokenIn: "WETH", TokenOut: "USDC", Dex1: "a", Dex2: "b"})
	noCapital.Capital = 0
	if ex.Validate(noCapital) {
		t.Error("Validate accepted zero capital")
	}

	noParams := arbBot(0.5, TradingPair{TokenIn: "WETH", TokenOut: "USDC", Dex1: "a", Dex2: "b"})
	noParams.Parameters = nil
	if ex.Validate(noParams) {
		t.Error("Validate accepted nil parameters")
	}
}

func TestGasModelFallbackPrice(t *testing.T) {
	g := GasModel{Units: 1e6, PriceGwei: 2, NativeUSD: 1000}

	if got := g.CostUSD(1); math.Abs(got-1) > 1e-9 {
		t.Errorf("CostUSD(1) = %f, want 1", got)
	}
	// Non-positive bot gas price falls back to the model default.
	if got := g.CostUSD(0); math.Abs(got-2) > 1e-9 {
		t.Errorf("CostUSD(0) = %f, want 2", got)
	}
}

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Resolve(model.BotTypeGrid); ok {
		t.Fatal("Resolve returned an executor for an empty registry")
	}

	first := NewArbitrageExecutor(&stubPrices{}, flatGas)
	second := NewArbitrageExecutor(&stubPrices{}, flatGas)
	r.Register(first)
	r.Register(second)

	got, ok := r.Resolve(model.BotTypeArbitrage)
	if !ok {
		t.Fatal("Resolve missed a registered type")
	}
	if got != second {
		t.Error("re-registration did not replace the executor")
	}
}

func TestSimulatedPriceSource(t *testing.T) {
	src := NewSimulatedPriceSource(1)

	p, err := src.Price(context.Background(), "uniswap", "WETH", "USDC")
	if err != nil {
		t.Fatalf("Price: %v", err)
	}
	if p < 2500*0.99 || p > 2500*1.01 {
		t.Errorf("price %f outside jitter band around 2500", p)
	}

	if _, err := src.Price(context.Background(), "uniswap", "", "USDC"); err == nil {
		t.Error("empty token accepted")
	}
}
