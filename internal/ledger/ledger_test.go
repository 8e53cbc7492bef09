package ledger

import (
	"math"
	"testing"
	"testing/quick"
	"time"

	"arbidash/backend/internal/model"
)

func confirmedTrade(botID string, profit float64) model.Trade {
	now := time.Now()
	return model.Trade{
		ID:        model.NewTradeID(botID, now),
		BotID:     botID,
		Timestamp: now,
		TokenIn:   "WETH",
		TokenOut:  "USDC",
		AmountIn:  1000,
		AmountOut: 1000 + profit,
		Profit:    profit,
		ROI:       profit / 10,
		Status:    model.TradeStatusConfirmed,
	}
}

func failedTrade(botID string, loss float64) model.Trade {
	tr := confirmedTrade(botID, -loss)
	tr.Status = model.TradeStatusFailed
	return tr
}

func TestRecordConfirmedUpdatesAggregates(t *testing.T) {
	l := New()

	st := l.Record("bot-1", confirmedTrade("bot-1", 10))
	if st.TotalOperations != 1 || st.SuccessfulOperations != 1 || st.FailedOperations != 0 {
		t.Fatalf("unexpected counters after first trade: %+v", st)
	}
	if st.TotalProfit != 10 {
		t.Errorf("TotalProfit = %f, want 10", st.TotalProfit)
	}
	if st.WinRate != 100 {
		t.Errorf("WinRate = %f, want 100", st.WinRate)
	}
	if st.AverageProfit != 10 {
		t.Errorf("AverageProfit = %f, want 10", st.AverageProfit)
	}
	if st.LastTradedAt == nil {
		t.Error("LastTradedAt not stamped")
	}
}

func TestRecordFailedUpdatesLoss(t *testing.T) {
	l := New()

	l.Record("bot-1", confirmedTrade("bot-1", 10))
	st := l.Record("bot-1", failedTrade("bot-1", 4))

	if st.TotalOperations != 2 || st.SuccessfulOperations != 1 || st.FailedOperations != 1 {
		t.Fatalf("unexpected counters: %+v", st)
	}
	if st.TotalLoss != 4 {
		t.Errorf("TotalLoss = %f, want 4", st.TotalLoss)
	}
	if st.WinRate != 50 {
		t.Errorf("WinRate = %f, want 50", st.WinRate)
	}
	// The failed trade must not disturb the profit-side aggregates.
	if st.TotalProfit != 10 || st.AverageProfit != 10 {
		t.Errorf("profit aggregates moved: TotalProfit=%f AverageProfit=%f", st.TotalProfit, st.AverageProfit)
	}
}

func TestAverageProfitIncrementalMean(t *testing.T) {
	l := New()

	profits := []float64{10, 20, 30}
	var st model.BotStats
	for _, p := range profits {
		st = l.Record("bot-1", confirmedTrade("bot-1", p))
	}

	if math.Abs(st.AverageProfit-20) > 1e-9 {
		t.Errorf("AverageProfit = %f, want 20", st.AverageProfit)
	}
}

func TestTradesOrderAndIsolation(t *testing.T) {
	l := New()

	first := confirmedTrade("bot-1", 1)
	second := confirmedTrade("bot-1", 2)
	l.Record("bot-1", first)
	l.Record("bot-1", second)
	l.Record("bot-2", confirmedTrade("bot-2", 99))

	trades := l.Trades("bot-1")
	if len(trades) != 2 {
		t.Fatalf("len(trades) = %d, want 2", len(trades))
	}
	if trades[0].Profit != 1 || trades[1].Profit != 2 {
		t.Errorf("trades out of order: %+v", trades)
	}

	// The returned slice is a copy.
	trades[0].Profit = -100
	if l.Trades("bot-1")[0].Profit != 1 {
		t.Error("ledger history mutated through returned slice")
	}
}

func TestStatsUnknownBot(t *testing.T) {
	l := New()

	if _, ok := l.Stats("nope"); ok {
		t.Error("Stats returned ok for unknown bot")
	}
	if trades := l.Trades("nope"); len(trades) != 0 {
		t.Errorf("Trades for unknown bot = %d entries", len(trades))
	}
}

// TestCountersConsistent checks that after any sequence of outcomes the
// operation counters sum up and the win rate matches the success ratio.
func TestCountersConsistent(t *testing.T) {
	prop := func(outcomes []bool) bool {
		l := New()
		var st model.BotStats
		for _, ok := range outcomes {
			if ok {
				st = l.Record("bot-1", confirmedTrade("bot-1", 5))
			} else {
				st = l.Record("bot-1", failedTrade("bot-1", 5))
			}
		}
		if len(outcomes) == 0 {
			return true
		}
		if st.TotalOperations != st.SuccessfulOperations+st.FailedOperations {
			return false
		}
		want := float64(st.SuccessfulOperations) / float64(st.TotalOperations) * 100
		return math.Abs(st.WinRate-want) < 1e-9
	}
	if err := quick.Check(prop, nil); err != nil {
		t.Error(err)
	}
}
