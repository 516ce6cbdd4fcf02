package domain

import "context"

// Dataset provides measured fermentation hours. Lookup is only defined for
// the canonical axis values; anything else returns ErrNotCanonical.
type Dataset interface {
	Lookup(starter, tempF float64, rise RiseTarget) (float64, error)
}

// BatchStore keeps tracked batches. The bundled implementation is
// in-memory; nothing is written to disk.
//
// Update is a read-modify-write under the store's lock: fn receives a
// copy of the stored batch, and the copy replaces it only when fn returns
// nil. The error from fn is returned unchanged.
type BatchStore interface {
	Save(ctx context.Context, batch *Batch) error
	Update(ctx context.Context, id string, fn func(*Batch) error) error
	Load(ctx context.Context, id string) (*Batch, error)
	Delete(ctx context.Context, id string) error
	ListActive(ctx context.Context) ([]*Batch, error)
}

// Notifier delivers messages to the user. Implementations can write to
// the terminal or play an audible chime.
type Notifier interface {
	Notify(ctx context.Context, message string) error
	NotifyUrgent(ctx context.Context, message string) error
}

// FormulaSource provides named dough formulas.
type FormulaSource interface {
	List(ctx context.Context) ([]*Formula, error)
	Get(ctx context.Context, id string) (*Formula, error)
	Search(ctx context.Context, query string) ([]*Formula, error)
}
