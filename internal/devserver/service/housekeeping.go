package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically drops expired OTP challenges so the
// in-memory store does not grow without bound.
type HousekeepingService struct {
	Auth     *AuthService
	Logger   *slog.Logger
	Interval time.Duration
}

// NewHousekeepingService creates the worker. A non-positive interval
// defaults to one minute.
func NewHousekeepingService(auth *AuthService, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &HousekeepingService{Auth: auth, Logger: logger, Interval: interval}
}

// Run cleans up immediately and then on every tick until ctx is done.
func (s *HousekeepingService) Run(ctx context.Context) error {
	s.Logger.Info("housekeeping service started", "interval", s.Interval)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()
	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-ctx.Done():
			s.Logger.Info("housekeeping service stopped")
			return nil
		}
	}
}

func (s *HousekeepingService) cleanup() {
	n := s.Auth.PurgeExpired()
	s.Logger.Debug("housekeeping cleanup completed", "expired_challenges", n)
}
