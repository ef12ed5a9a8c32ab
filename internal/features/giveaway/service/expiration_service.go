package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"nerox-support-bot/internal/common/logger"
	"nerox-support-bot/internal/features/giveaway/repository"

	"github.com/rs/zerolog"
)

// ExpirationService guarantees every open giveaway reaches the ended state
// at or shortly after its deadline, across restarts. Near-term expiries get
// a one-shot timer; everything else is caught by the periodic sweep, which
// also serves as the durability backstop for timers lost to a restart.
type ExpirationService struct {
	ctx    context.Context
	cancel context.CancelFunc
	repo   repository.GiveawayRepository
	svc    GiveawayService
	logger zerolog.Logger
	wg     sync.WaitGroup

	sweepInterval time.Duration
	timerHorizon  time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	// processing dedupes a timer and a sweep firing for the same record at
	// the same instant.
	processing sync.Map

	now func() time.Time
}

func NewExpirationService(repo repository.GiveawayRepository, svc GiveawayService, sweepInterval, timerHorizon time.Duration) *ExpirationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &ExpirationService{
		ctx:           ctx,
		cancel:        cancel,
		repo:          repo,
		svc:           svc,
		logger:        logger.Component("expiration"),
		sweepInterval: sweepInterval,
		timerHorizon:  timerHorizon,
		timers:        make(map[string]*time.Timer),
		now:           time.Now,
	}
}

// Start runs the startup catch-up synchronously, then launches the sweep
// loop. Records that expired while the process was down are closed before
// the first tick.
func (s *ExpirationService) Start() {
	s.logger.Info().
		Dur("sweep_interval", s.sweepInterval).
		Dur("timer_horizon", s.timerHorizon).
		Msg("Starting expiration service")

	s.CatchUp()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.ctx.Done():
				return
			}
		}
	}()
}

// Stop cancels the sweep loop and all armed timers.
func (s *ExpirationService) Stop() {
	s.logger.Info().Msg("Stopping expiration service")
	s.cancel()

	s.mu.Lock()
	for id, timer := range s.timers {
		timer.Stop()
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info().Msg("Expiration service stopped")
}

// Arm schedules a one-shot close trigger for the record. Delays at or past
// the horizon are left to the sweep instead of holding a long in-memory
// timer.
func (s *ExpirationService) Arm(id string, remaining time.Duration) {
	if remaining >= s.timerHorizon {
		s.logger.Debug().
			Str("giveaway_id", id).
			Dur("remaining", remaining).
			Msg("Beyond timer horizon, sweep will close it")
		return
	}
	if remaining < 0 {
		remaining = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.timers[id]; ok {
		old.Stop()
	}
	s.timers[id] = time.AfterFunc(remaining, func() {
		s.mu.Lock()
		delete(s.timers, id)
		s.mu.Unlock()
		s.closeRecord(id)
	})
}

// CatchUp closes every record that expired while the process was down and
// arms timers for open records ending within the horizon.
func (s *ExpirationService) CatchUp() {
	ids, err := s.repo.ListIDs(s.ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to enumerate giveaways on startup")
		return
	}

	now := s.now()
	closed, open := 0, 0
	for _, id := range ids {
		giveaway, err := s.repo.Get(s.ctx, id)
		if err != nil {
			if !errors.Is(err, repository.ErrGiveawayNotFound) {
				s.logger.Error().Str("giveaway_id", id).Err(err).Msg("Failed to load giveaway")
			}
			continue
		}
		if giveaway.Ended {
			continue
		}
		if giveaway.HasExpired(now) {
			s.closeRecord(id)
			closed++
		} else {
			s.Arm(id, giveaway.Remaining(now))
			open++
		}
	}

	if closed > 0 || open > 0 {
		s.logger.Info().
			Int("closed", closed).
			Int("open", open).
			Msg("Startup catch-up complete")
	}
}

// Sweep enumerates all records and closes any open one that is past due.
func (s *ExpirationService) Sweep() {
	ids, err := s.repo.ListIDs(s.ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to enumerate giveaways")
		return
	}

	now := s.now()
	for _, id := range ids {
		giveaway, err := s.repo.Get(s.ctx, id)
		if err != nil {
			if !errors.Is(err, repository.ErrGiveawayNotFound) {
				s.logger.Error().Str("giveaway_id", id).Err(err).Msg("Failed to load giveaway")
			}
			continue
		}
		if giveaway.Ended || !giveaway.HasExpired(now) {
			continue
		}
		s.closeRecord(id)
	}
}

func (s *ExpirationService) closeRecord(id string) {
	if _, busy := s.processing.LoadOrStore(id, struct{}{}); busy {
		return
	}
	defer s.processing.Delete(id)

	if _, err := s.svc.Close(s.ctx, id); err != nil {
		if errors.Is(err, repository.ErrGiveawayNotFound) {
			return
		}
		s.logger.Error().Str("giveaway_id", id).Err(err).Msg("Failed to close giveaway")
	}
}
