package store

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Janitor periodically evicts expired sessions.
type Janitor struct {
	store    Store
	interval time.Duration
	onSwept  func(n int)
	logger   *slog.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewJanitor creates a Janitor. onSwept, if non-nil, is called with the number
// of sessions removed by each sweep that removed any.
func NewJanitor(s Store, interval time.Duration, onSwept func(n int), logger *slog.Logger) *Janitor {
	return &Janitor{
		store:    s,
		interval: interval,
		onSwept:  onSwept,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

func (j *Janitor) Start(ctx context.Context) {
	j.wg.Add(1)
	go j.loop(ctx)
}

func (j *Janitor) Stop() {
	j.stopOnce.Do(func() { close(j.stopCh) })
	j.wg.Wait()
}

func (j *Janitor) loop(ctx context.Context) {
	defer j.wg.Done()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopCh:
			return
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			j.sweep(ctx, now)
		}
	}
}

func (j *Janitor) sweep(ctx context.Context, now time.Time) {
	n, err := j.store.Sweep(ctx, now)
	if err != nil {
		j.logger.Error("session sweep failed", "error", err)
		return
	}
	if n == 0 {
		return
	}
	j.logger.Info("expired sessions removed", "count", n)
	if j.onSwept != nil {
		j.onSwept(n)
	}
}
