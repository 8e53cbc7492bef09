package model

import "time"

// ConfigSnapshot is the export/import payload: all bot configurations plus
// the export timestamp.
type ConfigSnapshot struct {
	Bots       []BotConfig `json:"bots"`
	ExportedAt time.Time   `json:"exported_at"`
}
