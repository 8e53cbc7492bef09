package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"arbidash/backend/internal/config"
	"arbidash/backend/internal/model"
	"arbidash/backend/internal/store"
	"arbidash/backend/pkg/redis"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a few demo arbitrage bots so the dashboard has something to show.
func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize Redis
	redisClient, err := redis.New(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	botStore := store.NewRedisStore(redisClient)

	bots := []*model.BotConfig{
		{
			ID:                   uuid.New().String(),
			Name:                 "WETH/USDC Uniswap-Sushi",
			Type:                 model.BotTypeArbitrage,
			Network:              "ethereum",
			Capital:              10000,
			MaxCapitalPerTrade:   1000,
			MinProfitThreshold:   0.5,
			CheckIntervalSeconds: 30,
			MaxGasPrice:          50,
			SlippageTolerance:    0.5,
			Parameters: map[string]interface{}{
				"pairs": []map[string]interface{}{
					{
						"tokenIn":  "WETH",
						"tokenOut": "USDC",
						"dex1":     "uniswap",
						"dex2":     "sushiswap",
					},
				},
				"minProfit":   0.5,
				"maxSlippage": 0.5,
			},
		},
		{
			ID:                   uuid.New().String(),
			Name:                 "WBTC/USDT Curve-Balancer",
			Type:                 model.BotTypeArbitrage,
			Network:              "ethereum",
			Capital:              25000,
			MaxCapitalPerTrade:   2500,
			MinProfitThreshold:   0.3,
			CheckIntervalSeconds: 60,
			MaxGasPrice:          40,
			SlippageTolerance:    0.3,
			Parameters: map[string]interface{}{
				"pairs": []map[string]interface{}{
					{
						"tokenIn":  "WBTC",
						"tokenOut": "USDT",
						"dex1":     "curve",
						"dex2":     "balancer",
					},
				},
				"minProfit":   0.3,
				"maxSlippage": 0.3,
			},
		},
	}

	ctx := context.Background()

	for _, bot := range bots {
		created, err := botStore.Create(ctx, bot)
		if err != nil {
			log.Fatalf("Failed to seed bot %q: %v", bot.Name, err)
		}
		fmt.Printf("✓ Seeded bot %s (%s)\n", created.Name, created.ID)
	}

	fmt.Printf("✓ %d demo bots seeded\n", len(bots))
}
