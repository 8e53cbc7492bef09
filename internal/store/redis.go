package store

import (
	"context"
	"time"

	"arbidash/backend/internal/model"
	"arbidash/backend/pkg/redis"

	redislib "github.com/redis/go-redis/v9"
)

// RedisStore persists bot configs in Redis so they survive restarts.
// Keys: bot:<id> holds the JSON record, bots:all is the id set and
// bots_by_status:<status> the status indexes.
type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{
		redis: redisClient,
	}
}

func (s *RedisStore) Create(ctx context.Context, bot *model.BotConfig) (*model.BotConfig, error) {
	exists, err := s.redis.Exists(ctx, redis.BotKey(bot.ID))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateID
	}

	cp := bot.Clone()
	initCreate(cp)

	if err := s.redis.SetJSON(ctx, redis.BotKey(cp.ID), cp, 0); err != nil {
		return nil, err
	}
	if err := s.redis.SAdd(ctx, redis.AllBotsKey(), cp.ID); err != nil {
		return nil, err
	}
	if err := s.redis.SAdd(ctx, redis.BotsByStatusKey(cp.Status), cp.ID); err != nil {
		return nil, err
	}

	return cp, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*model.BotConfig, error) {
	var bot model.BotConfig
	err := s.redis.GetJSON(ctx, redis.BotKey(id), &bot)
	if err != nil {
		if err == redislib.Nil {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &bot, nil
}

func (s *RedisStore) List(ctx context.Context) ([]*model.BotConfig, error) {
	ids, err := s.redis.SMembers(ctx, redis.AllBotsKey())
	if err != nil {
		return nil, err
	}

	bots := make([]*model.BotConfig, 0, len(ids))
	for _, id := range ids {
		bot, err := s.Get(ctx, id)
		if err == nil {
			bots = append(bots, bot)
		}
	}
	return bots, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, upd *model.BotConfigUpdate) (*model.BotConfig, error) {
	bot, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	upd.Apply(bot)
	bot.UpdatedAt = time.Now()

	if err := s.redis.SetJSON(ctx, redis.BotKey(id), bot, 0); err != nil {
		return nil, err
	}
	return bot, nil
}

func (s *RedisStore) UpdateStatus(ctx context.Context, id string, status string) error {
	bot, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	oldStatus := bot.Status
	applyStatus(bot, status)

	if err := s.redis.SetJSON(ctx, redis.BotKey(id), bot, 0); err != nil {
		return err
	}

	if oldStatus != bot.Status {
		s.redis.SRem(ctx, redis.BotsByStatusKey(oldStatus), id)
		s.redis.SAdd(ctx, redis.BotsByStatusKey(bot.Status), id)
	}

	return nil
}

func (s *RedisStore) RecordExecution(ctx context.Context, id string, stats *model.BotStats, executedAt time.Time) error {
	bot, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if stats != nil {
		bot.Stats = *stats
	}
	t := executedAt
	bot.LastExecutedAt = &t
	bot.UpdatedAt = time.Now()

	return s.redis.SetJSON(ctx, redis.BotKey(id), bot, 0)
}
