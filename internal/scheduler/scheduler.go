// Package scheduler owns one repeating, cancellable tick loop per active bot.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"arbidash/backend/internal/ledger"
	"arbidash/backend/internal/model"
	"arbidash/backend/internal/store"
	"arbidash/backend/internal/strategy"
	"arbidash/backend/pkg/logger"
)

var (
	// ErrNoExecutor is returned by Activate when the bot's type has no
	// registered executor; the bot's state is left unchanged.
	ErrNoExecutor = errors.New("no executor registered for bot type")
	// ErrAlreadyRunning is returned by Activate when the bot already has a
	// live runner.
	ErrAlreadyRunning = errors.New("bot is already running")
	// ErrInvalidConfig is returned by Activate when the executor rejects the
	// bot's configuration; the bot's state is left unchanged.
	ErrInvalidConfig = errors.New("bot config fails strategy validation")
)

// Notifier receives push updates for the dashboard. May be nil.
type Notifier interface {
	NotifyBotUpdate(bot *model.BotConfig)
	NotifyTrade(trade *model.Trade)
}

// Scheduler starts and cancels bot runners. Each bot gets exactly one runner
// goroutine that executes ticks synchronously, so at most one execution per
// bot is ever in flight; ticker fires during a long execution coalesce.
type Scheduler struct {
	store    store.Store
	registry *strategy.Registry
	ledger   *ledger.Ledger
	notifier Notifier
	log      *logger.Logger

	mu      sync.Mutex
	runners map[string]*runner

	// interval derives the tick period from a config; tests override it.
	interval func(cfg *model.BotConfig) time.Duration
}

type runner struct {
	botID string
	exec  strategy.Executor
	cfg   *model.BotConfig
	stop  chan struct{}
	done  chan struct{}
}

func New(st store.Store, registry *strategy.Registry, led *ledger.Ledger, notifier Notifier) *Scheduler {
	return &Scheduler{
		store:    st,
		registry: registry,
		ledger:   led,
		notifier: notifier,
		log:      logger.GetLogger(),
		runners:  make(map[string]*runner),
		interval: func(cfg *model.BotConfig) time.Duration {
			return time.Duration(cfg.CheckIntervalSeconds) * time.Second
		},
	}
}

// Activate resolves the bot's executor, marks it RUNNING and starts its
// runner. The first execution happens immediately, then every
// CheckIntervalSeconds.
func (s *Scheduler) Activate(ctx context.Context, botID string) error {
	bot, err := s.store.Get(ctx, botID)
	if err != nil {
		return err
	}

	exec, ok := s.registry.Resolve(bot.Type)
	if !ok {
		return ErrNoExecutor
	}
	if !exec.Validate(bot) {
		return ErrInvalidConfig
	}

	s.mu.Lock()
	if _, exists := s.runners[botID]; exists {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}

	r := &runner{
		botID: botID,
		exec:  exec,
		cfg:   bot,
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	s.runners[botID] = r
	s.mu.Unlock()

	if err := s.store.UpdateStatus(ctx, botID, model.BotStatusRunning); err != nil {
		s.mu.Lock()
		delete(s.runners, botID)
		s.mu.Unlock()
		close(r.done)
		return err
	}

	go s.run(r)

	s.log.Infof("Bot %s activated (type=%s, interval=%ds)", botID, bot.Type, bot.CheckIntervalSeconds)
	s.notifyBot(ctx, botID)

	return nil
}

// Pause cancels the bot's runner (if any) and marks it PAUSED. Idempotent:
// pausing a paused or never-activated bot succeeds trivially.
func (s *Scheduler) Pause(ctx context.Context, botID string) error {
	return s.deschedule(ctx, botID, model.BotStatusPaused)
}

// Stop is identical to Pause except for the resulting status label.
func (s *Scheduler) Stop(ctx context.Context, botID string) error {
	return s.deschedule(ctx, botID, model.BotStatusStopped)
}

func (s *Scheduler) deschedule(ctx context.Context, botID string, status string) error {
	// Verify the bot exists before mutating anything.
	if _, err := s.store.Get(ctx, botID); err != nil {
		return err
	}

	s.mu.Lock()
	r, ok := s.runners[botID]
	if ok {
		delete(s.runners, botID)
	}
	s.mu.Unlock()

	if ok {
		close(r.stop)
		// Wait for the runner to exit so no tick executes after we return.
		<-r.done
	}

	if err := s.store.UpdateStatus(ctx, botID, status); err != nil {
		return err
	}

	s.log.Infof("Bot %s descheduled (status=%s)", botID, status)
	s.notifyBot(ctx, botID)

	return nil
}

// IsScheduled reports whether the bot currently has a live runner.
func (s *Scheduler) IsScheduled(botID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.runners[botID]
	return ok
}

// Shutdown cancels every runner and waits for them to drain. Store statuses
// are left as-is so a restart can resume RUNNING bots.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	runners := make([]*runner, 0, len(s.runners))
	for id, r := range s.runners {
		runners = append(runners, r)
		delete(s.runners, id)
	}
	s.mu.Unlock()

	for _, r := range runners {
		close(r.stop)
	}
	for _, r := range runners {
		<-r.done
	}
}

func (s *Scheduler) run(r *runner) {
	defer close(r.done)

	ticker := time.NewTicker(s.interval(r.cfg))
	defer ticker.Stop()

	s.tick(r)

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			s.tick(r)
		}
	}
}

// tick performs one execution against the freshest config. Executor hard
// failures flip the bot to ERROR but do not cancel the timer: the next
// successful execution flips it back to RUNNING (self-healing retry, no
// backoff).
func (s *Scheduler) tick(r *runner) {
	ctx := context.Background()

	cfg, err := s.store.Get(ctx, r.botID)
	if err != nil {
		s.log.Errorf("Bot %s: config load failed on tick: %v", r.botID, err)
		return
	}

	res, err := r.exec.Execute(ctx, cfg)
	now := time.Now()

	if err != nil {
		s.log.Errorf("Bot %s: execution failed: %v", r.botID, err)
		if serr := s.store.UpdateStatus(ctx, r.botID, model.BotStatusError); serr != nil {
			s.log.Errorf("Bot %s: status update failed: %v", r.botID, serr)
		}
		s.notifyBot(ctx, r.botID)
		return
	}

	if res.Success && res.Trade != nil {
		stats := s.ledger.Record(r.botID, *res.Trade)
		if serr := s.store.RecordExecution(ctx, r.botID, &stats, now); serr != nil {
			s.log.Errorf("Bot %s: stats persist failed: %v", r.botID, serr)
		}
		s.log.Infof("Bot %s traded %s/%s: profit=%.4f roi=%.4f%%",
			r.botID, res.Trade.TokenIn, res.Trade.TokenOut, res.Trade.Profit, res.Trade.ROI)
		if s.notifier != nil {
			s.notifier.NotifyTrade(res.Trade)
		}
	} else {
		s.log.Debugf("Bot %s: %s", r.botID, res.Error)
		if serr := s.store.RecordExecution(ctx, r.botID, nil, now); serr != nil {
			s.log.Errorf("Bot %s: execution stamp failed: %v", r.botID, serr)
		}
	}

	if cfg.Status == model.BotStatusError {
		if serr := s.store.UpdateStatus(ctx, r.botID, model.BotStatusRunning); serr != nil {
			s.log.Errorf("Bot %s: status update failed: %v", r.botID, serr)
		}
	}

	s.notifyBot(ctx, r.botID)
}

func (s *Scheduler) notifyBot(ctx context.Context, botID string) {
	if s.notifier == nil {
		return
	}
	if bot, err := s.store.Get(ctx, botID); err == nil {
		s.notifier.NotifyBotUpdate(bot)
	}
}
