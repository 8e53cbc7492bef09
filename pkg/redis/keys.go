package redis

import "fmt"

// Redis key patterns for the application
// Following the pattern: entity:id or entity:id:attribute

// Bot keys
func BotKey(botID string) string {
	return fmt.Sprintf("bot:%s", botID)
}

func AllBotsKey() string {
	return "bots:all"
}

func BotsByStatusKey(status string) string {
	return fmt.Sprintf("bots_by_status:%s", status)
}

// Rate limiting keys
func RateLimitKey(identifier, action string) string {
	return fmt.Sprintf("rate_limit:%s:%s", action, identifier)
}
