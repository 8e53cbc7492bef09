package model

// BotSummary is the per-bot row in the overall dashboard stats.
type BotSummary struct {
	BotID           string  `json:"bot_id"`
	Name            string  `json:"name"`
	Type            string  `json:"type"`
	Status          string  `json:"status"`
	TotalOperations int     `json:"total_operations"`
	TotalProfit     float64 `json:"total_profit"`
	WinRate         float64 `json:"win_rate"`
	ROI             float64 `json:"roi"` // total_profit / capital, percent
}

// OverallStats aggregates across all bots. AverageROI is the mean ROI over
// bots with positive capital; zero-capital bots are excluded from the mean
// but still counted in the totals.
type OverallStats struct {
	TotalBots       int          `json:"total_bots"`
	ActiveBots      int          `json:"active_bots"`
	TotalProfit     float64      `json:"total_profit"`
	TotalOperations int          `json:"total_operations"`
	AverageROI      float64      `json:"average_roi"`
	Bots            []BotSummary `json:"bots"`
}
