// Package engine implements the bulk fermentation estimator and the
// lifecycle of tracked batches.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
)

// Option configures the engine.
type Option func(*Engine)

// WithStore enables batch tracking backed by the given store.
func WithStore(store domain.BatchStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine estimates fermentation times and manages batches. It depends
// only on interfaces and is fully testable with fakes.
type Engine struct {
	data  domain.Dataset
	store domain.BatchStore
	log   *logger.Logger
	now   func() time.Time
}

// New creates an engine over the given dataset.
func New(data domain.Dataset, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		data: data,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StartBatch estimates the inputs and begins tracking a batch that started
// fermenting at startedAt. A zero startedAt means now.
func (e *Engine) StartBatch(ctx context.Context, label string, in domain.Inputs, startedAt time.Time) (*domain.Batch, error) {
	if e.store == nil {
		return nil, fmt.Errorf("batch tracking is not configured")
	}

	now := e.now()
	if startedAt.IsZero() {
		startedAt = now
	}

	res := e.EstimateInputs(in)
	batch := &domain.Batch{
		ID:        generateID(),
		Label:     label,
		Inputs:    in,
		Result:    res,
		Status:    domain.BatchFermenting,
		StartedAt: startedAt,
		UpdatedAt: now,
	}
	batch.Milestones = []*domain.Milestone{
		{Kind: domain.MilestoneWindowOpens, At: startedAt.Add(domain.HoursToDuration(res.MinTime))},
		{Kind: domain.MilestoneExpected, At: startedAt.Add(domain.HoursToDuration(res.EstimatedTime))},
		{Kind: domain.MilestoneOverdue, At: startedAt.Add(domain.HoursToDuration(res.MaxTime))},
	}

	if err := e.store.Save(ctx, batch); err != nil {
		return nil, fmt.Errorf("saving batch: %w", err)
	}

	e.log.Info("started batch %s %q: %.2fh expected (%.2f-%.2fh)", batch.ID, label, res.EstimatedTime, res.MinTime, res.MaxTime)
	for _, w := range res.Warnings {
		e.log.Warn("batch %s: %s", batch.ID, w)
	}
	return batch, nil
}

// Status returns a batch by ID.
func (e *Engine) Status(ctx context.Context, batchID string) (*domain.Batch, error) {
	if e.store == nil {
		return nil, domain.ErrNotFound
	}
	batch, err := e.store.Load(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("loading batch: %w", err)
	}
	return batch, nil
}

// ListActive returns batches that are still fermenting or ready.
func (e *Engine) ListActive(ctx context.Context) ([]*domain.Batch, error) {
	if e.store == nil {
		return nil, nil
	}
	return e.store.ListActive(ctx)
}

// Complete marks a batch as shaped; no further notifications are sent.
func (e *Engine) Complete(ctx context.Context, batchID string) error {
	return e.finish(ctx, batchID, domain.BatchCompleted)
}

// Abandon stops tracking a batch without completing it.
func (e *Engine) Abandon(ctx context.Context, batchID string) error {
	return e.finish(ctx, batchID, domain.BatchAbandoned)
}

func (e *Engine) finish(ctx context.Context, batchID string, status domain.BatchStatus) error {
	if e.store == nil {
		return domain.ErrNotFound
	}

	var elapsed time.Duration
	err := e.store.Update(ctx, batchID, func(b *domain.Batch) error {
		if !b.Status.Active() {
			return domain.ErrBatchNotActive
		}
		b.Status = status
		b.UpdatedAt = e.now()
		elapsed = b.UpdatedAt.Sub(b.StartedAt).Round(time.Minute)
		return nil
	})
	if err != nil {
		return err
	}

	e.log.Info("batch %s %s after %s", batchID, status, elapsed)
	return nil
}
