package model

// WSMessageType represents the type of WebSocket message
type WSMessageType string

const (
	MessageTypeBotUpdate WSMessageType = "bot_update"
	MessageTypeTrade     WSMessageType = "trade"
	MessageTypeError     WSMessageType = "error"
	MessageTypePong      WSMessageType = "pong"
)

// WSMessage is the envelope for all WebSocket messages
type WSMessage struct {
	Type    WSMessageType `json:"type"`
	Payload interface{}   `json:"payload"`
}

// WSBotUpdatePayload represents a bot status/stats update pushed to the dashboard
type WSBotUpdatePayload struct {
	BotID   string   `json:"bot_id"`
	Status  string   `json:"status"`
	Enabled bool     `json:"enabled"`
	Stats   BotStats `json:"stats"`
}
