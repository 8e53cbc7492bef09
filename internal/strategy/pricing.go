package strategy

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
)

// PriceSource quotes a token pair on a venue. The production system would
// back this with on-chain pool reads; here it is a simulated feed.
type PriceSource interface {
	Price(ctx context.Context, venue, tokenIn, tokenOut string) (float64, error)
}

// SimulatedPriceSource produces randomized prices around a fixed base per
// token pair, with per-call jitter so two venues rarely agree exactly.
type SimulatedPriceSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// basePrices are rough USD reference levels for the common pairs; unknown
// pairs fall back to 100.
var basePrices = map[string]float64{
	"WETH/USDC":   2500,
	"WETH/DAI":    2500,
	"WBTC/USDC":   65000,
	"WMATIC/USDC": 0.8,
}

func NewSimulatedPriceSource(seed int64) *SimulatedPriceSource {
	return &SimulatedPriceSource{
		rng: rand.New(rand.NewSource(seed)),
	}
}

func (s *SimulatedPriceSource) Price(ctx context.Context, venue, tokenIn, tokenOut string) (float64, error) {
	if tokenIn == "" || tokenOut == "" {
		return 0, fmt.Errorf("price lookup with empty token (in=%q out=%q)", tokenIn, tokenOut)
	}

	base, ok := basePrices[tokenIn+"/"+tokenOut]
	if !ok {
		base = 100
	}

	s.mu.Lock()
	jitter := (s.rng.Float64() - 0.5) * 0.02 // +-1%
	s.mu.Unlock()

	return base * (1 + jitter), nil
}
