package model

import (
	"fmt"
	"time"
)

// Trade status constants
const (
	TradeStatusPending   = "pending"
	TradeStatusConfirmed = "confirmed"
	TradeStatusFailed    = "failed"
)

// Trade is an immutable record of one executed (simulated) strategy outcome.
// Trades are created only by a strategy executor and never mutated once
// appended to the ledger.
type Trade struct {
	ID        string    `json:"id"`
	BotID     string    `json:"bot_id"`
	Timestamp time.Time `json:"timestamp"`

	TokenIn   string  `json:"token_in"`
	TokenOut  string  `json:"token_out"`
	AmountIn  float64 `json:"amount_in"`
	AmountOut float64 `json:"amount_out"`

	Profit float64 `json:"profit"`
	ROI    float64 `json:"roi"` // percent of amount_in

	GasUsed float64 `json:"gas_used"`
	GasCost float64 `json:"gas_cost"` // USD

	TxHash string `json:"tx_hash"` // opaque settlement reference
	Status string `json:"status"`  // pending, confirmed, failed
}

// NewTradeID derives a trade identifier from the owning bot and timestamp.
func NewTradeID(botID string, ts time.Time) string {
	return fmt.Sprintf("%s-%d", botID, ts.UnixMilli())
}
