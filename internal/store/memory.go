package store

import (
	"context"
	"sync"
	"time"

	"arbidash/backend/internal/model"
)

// MemoryStore is the default single-process backend: a mutex-guarded map
// plus an insertion-order index.
type MemoryStore struct {
	mu    sync.RWMutex
	bots  map[string]*model.BotConfig
	order []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bots: make(map[string]*model.BotConfig),
	}
}

func (s *MemoryStore) Create(ctx context.Context, bot *model.BotConfig) (*model.BotConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bots[bot.ID]; exists {
		return nil, ErrDuplicateID
	}

	cp := bot.Clone()
	initCreate(cp)
	s.bots[cp.ID] = cp
	s.order = append(s.order, cp.ID)

	return cp.Clone(), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*model.BotConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bot, ok := s.bots[id]
	if !ok {
		return nil, ErrNotFound
	}
	return bot.Clone(), nil
}

func (s *MemoryStore) List(ctx context.Context) ([]*model.BotConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bots := make([]*model.BotConfig, 0, len(s.order))
	for _, id := range s.order {
		bots = append(bots, s.bots[id].Clone())
	}
	return bots, nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, upd *model.BotConfigUpdate) (*model.BotConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bot, ok := s.bots[id]
	if !ok {
		return nil, ErrNotFound
	}

	upd.Apply(bot)
	bot.UpdatedAt = time.Now()

	return bot.Clone(), nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bot, ok := s.bots[id]
	if !ok {
		return ErrNotFound
	}

	applyStatus(bot, status)
	return nil
}

func (s *MemoryStore) RecordExecution(ctx context.Context, id string, stats *model.BotStats, executedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	bot, ok := s.bots[id]
	if !ok {
		return ErrNotFound
	}

	if stats != nil {
		bot.Stats = *stats
	}
	t := executedAt
	bot.LastExecutedAt = &t
	bot.UpdatedAt = time.Now()

	return nil
}
