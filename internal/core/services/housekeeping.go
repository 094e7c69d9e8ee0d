package services

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Purger deletes expired records and reports how many were removed.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// HousekeepingService periodically removes expired sessions and API tokens.
type HousekeepingService struct {
	Sessions  Purger
	APITokens Purger
	Logger    *slog.Logger
	Interval  time.Duration

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(sessions, apiTokens Purger, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HousekeepingService{
		Sessions:  sessions,
		APITokens: apiTokens,
		Logger:    logger,
		Interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("Housekeeping service started", slog.Duration("interval", s.Interval))
}

// Stop shuts down the worker and waits for an in-progress cleanup to finish.
func (s *HousekeepingService) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	<-s.doneCh
	s.Logger.Info("Housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.Cleanup(context.Background())

	for {
		select {
		case <-ticker.C:
			s.Cleanup(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// Cleanup runs one purge pass. A failure in one store does not stop the other.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	purge := func(name string, p Purger) {
		if p == nil {
			return
		}
		n, err := p.PurgeExpired(ctx)
		if err != nil {
			s.Logger.Error("Failed to purge expired records", slog.String("store", name), slog.String("error", err.Error()))
			return
		}
		s.Logger.Debug("Purged expired records", slog.String("store", name), slog.Int64("deleted", n))
	}
	purge("sessions", s.Sessions)
	purge("api_tokens", s.APITokens)
}
