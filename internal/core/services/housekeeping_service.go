package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/fuel_credit_app/internal/core/ports/repositories"
)

// HousekeepingService periodically deletes expired refresh token ledger rows.
type HousekeepingService struct {
	tokenRepo portsrepo.RefreshTokenRepository
	logger    *slog.Logger
	interval  time.Duration
	now       func() time.Time

	mu      sync.Mutex
	started bool
	stopped bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(tokenRepo portsrepo.RefreshTokenRepository, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		tokenRepo: tokenRepo,
		logger:    logger,
		interval:  interval,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start launches the background worker. Call Stop to shut it down.
// Starting twice, or after Stop, does nothing.
func (s *HousekeepingService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true
	go s.run()
	s.logger.Info("housekeeping service started", slog.Duration("interval", s.interval))
}

// Stop signals the worker and blocks until any in-progress sweep finishes.
// It is safe to call more than once, and before Start.
func (s *HousekeepingService) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	running := s.started
	s.mu.Unlock()

	if running {
		<-s.doneCh
	}
	s.logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Sweep(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Sweep deletes every ledger row already past its expiry and reports how
// many went.
func (s *HousekeepingService) Sweep(ctx context.Context) int64 {
	removed, err := s.tokenRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to delete expired refresh tokens", slog.String("error", err.Error()))
		return 0
	}
	s.logger.Info("housekeeping cleanup completed", slog.Int64("expired_refresh_tokens", removed))
	return removed
}
