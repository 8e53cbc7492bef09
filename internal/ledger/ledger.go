// Package ledger keeps the append-only trade history per bot and folds each
// record into the bot's running statistics.
package ledger

import (
	"sync"

	"arbidash/backend/internal/model"
	"arbidash/backend/internal/util"
)

// Ledger is the only writer of BotStats. All mutation is serialized under a
// single lock; readers get copies.
type Ledger struct {
	mu     sync.RWMutex
	trades map[string][]model.Trade
	stats  map[string]*model.BotStats
}

func New() *Ledger {
	return &Ledger{
		trades: make(map[string][]model.Trade),
		stats:  make(map[string]*model.BotStats),
	}
}

// Record appends the trade to the bot's history and updates the aggregate:
// confirmed trades add to profit and the running mean, failed trades add to
// the loss total. Returns the updated stats snapshot.
func (l *Ledger) Record(botID string, trade model.Trade) model.BotStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.trades[botID] = append(l.trades[botID], trade)

	st, ok := l.stats[botID]
	if !ok {
		st = &model.BotStats{}
		l.stats[botID] = st
	}

	st.TotalOperations++
	ts := trade.Timestamp
	st.LastTradedAt = &ts

	switch trade.Status {
	case model.TradeStatusConfirmed:
		st.SuccessfulOperations++
		st.TotalProfit += trade.Profit
		if trade.Profit > 0 {
			// incremental mean over successful operations
			st.AverageProfit += (trade.Profit - st.AverageProfit) / float64(st.SuccessfulOperations)
		}
	case model.TradeStatusFailed:
		st.FailedOperations++
		st.TotalLoss += util.Abs(trade.Profit)
	}

	st.WinRate = float64(st.SuccessfulOperations) / float64(st.TotalOperations) * 100

	return *st
}

// Trades returns the full ordered history for a bot (insertion order).
func (l *Ledger) Trades(botID string) []model.Trade {
	l.mu.RLock()
	defer l.mu.RUnlock()

	src := l.trades[botID]
	out := make([]model.Trade, len(src))
	copy(out, src)
	return out
}

// Stats returns the aggregate for a bot, if it has any recorded trades.
func (l *Ledger) Stats(botID string) (model.BotStats, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	st, ok := l.stats[botID]
	if !ok {
		return model.BotStats{}, false
	}
	return *st, true
}
