package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/blog_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context) (int64, error) {
	p.calls.Add(1)
	return 1, p.err
}

func TestHousekeeping_CleanupRunsEveryStore(t *testing.T) {
	sessions := &countingPurger{err: assert.AnError}
	tokens := &countingPurger{}
	hk := services.NewHousekeepingService(sessions, tokens, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Hour)

	hk.Cleanup(context.Background())
	assert.Equal(t, int32(1), sessions.calls.Load())
	assert.Equal(t, int32(1), tokens.calls.Load(), "a failing store does not stop the next one")
}

func TestHousekeeping_StartStop(t *testing.T) {
	sessions := &countingPurger{}
	hk := services.NewHousekeepingService(sessions, nil, slog.New(slog.NewTextHandler(io.Discard, nil)), 10*time.Millisecond)

	hk.Start()
	assert.Eventually(t, func() bool { return sessions.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	hk.Stop()
	hk.Stop()

	after := sessions.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, sessions.calls.Load())
	assert.Equal(t, time.Hour, services.NewHousekeepingService(nil, nil, nil, 0).Interval)
}
