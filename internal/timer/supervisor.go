// Package timer implements the background supervisor that watches tracked
// batches and fires notifications as their fermentation milestones pass.
package timer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor checks milestones.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithNotifyCooldown sets the minimum time between overdue reminders.
func WithNotifyCooldown(d time.Duration) Option {
	return func(s *Supervisor) {
		s.notifyCooldown = d
	}
}

// WithMaxEscalation sets the escalation level after which the supervisor stops nagging.
func WithMaxEscalation(level int) Option {
	return func(s *Supervisor) {
		s.maxEscalation = level
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// WithWatcher enables the progress watcher with the given options.
func WithWatcher(opts ...WatcherOption) Option {
	return func(s *Supervisor) {
		s.watch = true
		s.watcherOpts = opts
	}
}

// Supervisor runs in the background and turns milestone times into
// notifications. Optionally runs a Watcher on a slower cycle for
// progress updates.
type Supervisor struct {
	store          domain.BatchStore
	notifier       domain.Notifier
	log            *logger.Logger
	tickInterval   time.Duration
	notifyCooldown time.Duration
	maxEscalation  int
	now            func() time.Time

	watch       bool
	watcherOpts []WatcherOption
	watcher     *Watcher

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// New creates a supervisor with the given dependencies and options.
func New(store domain.BatchStore, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		store:          store,
		notifier:       notifier,
		log:            log,
		tickInterval:   1 * time.Second,
		notifyCooldown: 5 * time.Minute,
		maxEscalation:  3,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background supervisor loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("batch supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)

	if s.watch {
		opts := append([]WatcherOption{withWatcherClock(s.now)}, s.watcherOpts...)
		s.watcher = NewWatcher(s.store, s.notifier, s.log, opts...)
		go s.watcher.Run(childCtx)
	}

	s.log.Info("batch supervisor started (tick=%s, cooldown=%s)", s.tickInterval, s.notifyCooldown)
}

// Stop shuts down the supervisor and its watcher.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info("batch supervisor stopped")
}

// Running reports whether the loop is active.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one cycle over every active batch.
func (s *Supervisor) tick(ctx context.Context) {
	batches, err := s.store.ListActive(ctx)
	if err != nil {
		s.log.Error("supervisor: listing active batches: %v", err)
		return
	}

	now := s.now()
	for _, batch := range batches {
		s.processBatch(ctx, batch, now)
	}
}

// errUnchanged aborts an Update when a tick has nothing to record.
var errUnchanged = errors.New("batch unchanged")

// alert is a notification decided inside a store update and sent once the
// update has been written.
type alert struct {
	msg    string
	urgent bool
}

// processBatch fires due milestones and escalates overdue batches. The
// change is applied to the stored batch, not the listed copy, so a batch
// finished since the listing is left alone and nothing is announced.
func (s *Supervisor) processBatch(ctx context.Context, batch *domain.Batch, now time.Time) {
	if !batch.Status.Active() {
		return
	}

	var alerts []alert
	err := s.store.Update(ctx, batch.ID, func(b *domain.Batch) error {
		if !b.Status.Active() {
			return domain.ErrBatchNotActive
		}
		alerts = s.advance(b, now)
		if len(alerts) == 0 {
			return errUnchanged
		}
		b.UpdatedAt = now
		return nil
	})
	switch {
	case errors.Is(err, errUnchanged):
		return
	case errors.Is(err, domain.ErrBatchNotActive), errors.Is(err, domain.ErrNotFound):
		s.log.Debug("batch %s: finished before tick, skipping", batch.ID)
		return
	case err != nil:
		s.log.Error("supervisor: updating batch %s: %v", batch.ID, err)
		return
	}

	for _, a := range alerts {
		notify := s.notifier.Notify
		if a.urgent {
			notify = s.notifier.NotifyUrgent
		}
		if err := notify(ctx, a.msg); err != nil {
			s.log.Error("supervisor: notifying batch %s: %v", batch.ID, err)
		}
	}
}

// advance moves b's milestones forward to now and returns what should be
// announced. It only mutates b.
func (s *Supervisor) advance(b *domain.Batch, now time.Time) []alert {
	var alerts []alert

	var due []*domain.Milestone
	for _, m := range b.Milestones {
		if !m.Fired && !now.Before(m.At) {
			due = append(due, m)
		}
	}

	if len(due) > 0 {
		// Several milestones can pass between ticks, e.g. when a batch is
		// started in the past. Only the latest one is announced.
		sort.SliceStable(due, func(i, j int) bool { return due[i].At.Before(due[j].At) })
		for _, m := range due {
			m.Fired = true
			if m.Kind != domain.MilestoneWindowOpens && b.Status == domain.BatchFermenting {
				b.Status = domain.BatchReady
			}
		}

		latest := due[len(due)-1]
		s.log.Debug("batch %s: milestone %q reached (%d due)", b.ID, latest.Kind, len(due))
		alerts = append(alerts, alert{
			msg:    s.milestoneMessage(b, latest, now),
			urgent: latest.Kind != domain.MilestoneWindowOpens,
		})
		latest.LastNotified = now
		if latest.Kind == domain.MilestoneOverdue {
			latest.EscalationLevel = 1
		}
	}

	// Overdue batches keep nagging until shaped or the escalation cap is hit.
	if over := b.Milestone(domain.MilestoneOverdue); over != nil && over.Fired && over.EscalationLevel > 0 {
		switch {
		case over.EscalationLevel > s.maxEscalation:
		case now.Sub(over.LastNotified) < s.notifyCooldown:
		default:
			alerts = append(alerts, alert{msg: s.escalationMessage(b, over.EscalationLevel, now)})
			over.LastNotified = now
			over.EscalationLevel++
		}
	}
	return alerts
}

// milestoneMessage returns the first announcement for a milestone.
func (s *Supervisor) milestoneMessage(batch *domain.Batch, m *domain.Milestone, now time.Time) string {
	switch m.Kind {
	case domain.MilestoneWindowOpens:
		left := batch.ExpectedAt().Sub(now)
		if left <= 0 {
			return fmt.Sprintf("[Batch] %s: rise window is open. Start checking the dough.", batchName(batch))
		}
		return fmt.Sprintf("[Batch] %s: rise window is open, expected in %s.", batchName(batch), formatRemaining(left))
	case domain.MilestoneExpected:
		return fmt.Sprintf("[Batch] %s should be at %s rise. Check it.", batchName(batch), domain.SnapRise(batch.Inputs.TargetRise))
	default:
		return s.escalationMessage(batch, 0, now)
	}
}

// escalationMessage returns an overdue message based on the escalation level.
func (s *Supervisor) escalationMessage(batch *domain.Batch, level int, now time.Time) string {
	over := formatRemaining(now.Sub(batch.ExpectedAt()))
	switch level {
	case 0:
		return fmt.Sprintf("[Batch] %s is past the estimated range. Check it now.", batchName(batch))
	case 1:
		return fmt.Sprintf("[Batch] %s is %s past expected -- shape it soon.", batchName(batch), over)
	case 2:
		return fmt.Sprintf("[Batch] %s, %s over. Overproofing.", batchName(batch), over)
	default:
		return fmt.Sprintf("[Batch] %s.", batchName(batch))
	}
}

func batchName(b *domain.Batch) string {
	if b.Label != "" {
		return b.Label
	}
	if len(b.ID) > 8 {
		return "batch " + b.ID[:8]
	}
	return "batch " + b.ID
}

// formatRemaining returns a duration the way people say it for dough:
// whole minutes, hours once there are enough of them.
func formatRemaining(d time.Duration) string {
	if d < time.Minute {
		return "under a minute"
	}
	return units.FormatTime(d.Hours())
}
