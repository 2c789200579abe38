package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/leavedesk/internal/client/storage"
)

// HousekeepingService drops storage scopes that have not been written for
// longer than MaxAge. Only drivers whose rows outlive the process need it.
type HousekeepingService struct {
	Sweeper  storage.Sweeper
	Logger   *slog.Logger
	Interval time.Duration
	MaxAge   time.Duration
	Now      func() time.Time
}

// NewHousekeepingService creates the worker. A non-positive interval
// defaults to ten minutes.
func NewHousekeepingService(sweeper storage.Sweeper, logger *slog.Logger, interval, maxAge time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &HousekeepingService{
		Sweeper:  sweeper,
		Logger:   logger,
		Interval: interval,
		MaxAge:   maxAge,
		Now:      time.Now,
	}
}

// Run sweeps immediately and then on every tick until ctx is done.
func (s *HousekeepingService) Run(ctx context.Context) error {
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "max_age", s.MaxAge)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup(ctx)
	for {
		select {
		case <-ticker.C:
			s.cleanup(ctx)
		case <-ctx.Done():
			s.Logger.Info("housekeeping service stopped")
			return nil
		}
	}
}

func (s *HousekeepingService) cleanup(ctx context.Context) {
	if s.MaxAge <= 0 {
		return
	}
	n, err := s.Sweeper.DeleteStale(ctx, s.Now().Add(-s.MaxAge))
	if err != nil {
		s.Logger.Warn("housekeeping cleanup failed", "err", err)
		return
	}
	s.Logger.Debug("housekeeping cleanup completed", "stale_rows", n)
}
