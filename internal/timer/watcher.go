package timer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher reports progress.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

func withWatcherClock(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		w.now = now
	}
}

// Watcher periodically reports on every active batch: how far along the
// fermenting ones are, and which ready ones are still waiting to be
// shaped. Runs on a slower cycle than the supervisor (default: 1 hour).
type Watcher struct {
	store    domain.BatchStore
	notifier domain.Notifier
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(store domain.BatchStore, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		store:    store,
		notifier: notifier,
		log:      log,
		interval: 1 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("watcher started (interval=%s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check runs one watcher cycle across all active batches.
func (w *Watcher) check(ctx context.Context) {
	batches, err := w.store.ListActive(ctx)
	if err != nil {
		w.log.Error("watcher: listing active batches: %v", err)
		return
	}

	now := w.now()
	var ready []string
	for _, batch := range batches {
		w.log.Debug("watcher: batch=%s status=%s elapsed=%s",
			batch.ID, batch.Status, now.Sub(batch.StartedAt).Round(time.Second))

		if batch.Status == domain.BatchReady {
			ready = append(ready, batchName(batch))
			continue
		}
		if msg := w.progressMessage(batch, now); msg != "" {
			if err := w.notifier.Notify(ctx, msg); err != nil {
				w.log.Error("watcher: notify: %v", err)
			}
		}
	}

	// Ready batches are grouped so one nudge covers them all.
	if len(ready) > 0 {
		verb := "is"
		if len(ready) > 1 {
			verb = "are"
		}
		msg := fmt.Sprintf("[Watcher] Heads up, %s %s ready and waiting on you.", joinNames(ready), verb)
		if err := w.notifier.Notify(ctx, msg); err != nil {
			w.log.Error("watcher: notify: %v", err)
		}
	}
}

// progressMessage describes a fermenting batch, or returns "" when there
// is nothing worth saying.
func (w *Watcher) progressMessage(batch *domain.Batch, now time.Time) string {
	elapsed := now.Sub(batch.StartedAt)
	if elapsed < time.Minute {
		return ""
	}
	left := batch.ExpectedAt().Sub(now)
	if left <= 0 {
		// The supervisor will mark it ready on its next tick.
		return ""
	}
	return fmt.Sprintf("[Watcher] %s: %s in, about %s to go.", batchName(batch), formatRemaining(elapsed), formatRemaining(left))
}

// joinNames joins names as "a", "a and b" or "a, b and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " and " + names[len(names)-1]
}
