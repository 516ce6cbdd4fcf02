package domain

import "time"

// Batch is a dough in bulk fermentation being tracked against its estimate.
type Batch struct {
	ID         string
	Label      string
	Inputs     Inputs
	Result     Result
	Status     BatchStatus
	Milestones []*Milestone
	StartedAt  time.Time
	UpdatedAt  time.Time
}

// ExpectedAt returns the estimated completion timestamp.
func (b *Batch) ExpectedAt() time.Time {
	return b.StartedAt.Add(HoursToDuration(b.Result.EstimatedTime))
}

// Clone returns a deep copy so readers never share mutable state with
// the supervisor goroutine.
func (b *Batch) Clone() *Batch {
	c := *b
	if b.Inputs.Adjustments.FlourMix != nil {
		mix := *b.Inputs.Adjustments.FlourMix
		c.Inputs.Adjustments.FlourMix = &mix
	}
	if b.Result.Warnings != nil {
		c.Result.Warnings = append([]string{}, b.Result.Warnings...)
	}
	if b.Milestones != nil {
		c.Milestones = make([]*Milestone, len(b.Milestones))
		for i, m := range b.Milestones {
			mc := *m
			c.Milestones[i] = &mc
		}
	}
	return &c
}

// Milestone returns the batch milestone of the given kind, or nil.
func (b *Batch) Milestone(kind MilestoneKind) *Milestone {
	for _, m := range b.Milestones {
		if m.Kind == kind {
			return m
		}
	}
	return nil
}

// BatchStatus tracks the lifecycle of a batch.
type BatchStatus int

const (
	BatchFermenting BatchStatus = iota
	BatchReady
	BatchCompleted
	BatchAbandoned
)

// String returns a human-readable batch status.
func (s BatchStatus) String() string {
	switch s {
	case BatchFermenting:
		return "fermenting"
	case BatchReady:
		return "ready"
	case BatchCompleted:
		return "completed"
	case BatchAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Active reports whether the batch still needs watching.
func (s BatchStatus) Active() bool {
	return s == BatchFermenting || s == BatchReady
}

// MilestoneKind identifies a point on the fermentation timeline.
type MilestoneKind int

const (
	// MilestoneWindowOpens is reached at StartedAt + MinTime.
	MilestoneWindowOpens MilestoneKind = iota
	// MilestoneExpected is reached at StartedAt + EstimatedTime.
	MilestoneExpected
	// MilestoneOverdue is reached at StartedAt + MaxTime.
	MilestoneOverdue
)

// String returns a human-readable milestone kind.
func (k MilestoneKind) String() string {
	switch k {
	case MilestoneWindowOpens:
		return "window opens"
	case MilestoneExpected:
		return "expected done"
	case MilestoneOverdue:
		return "overdue"
	default:
		return "unknown"
	}
}

// Milestone is a scheduled notification for a batch.
type Milestone struct {
	Kind            MilestoneKind
	At              time.Time
	Fired           bool
	LastNotified    time.Time
	EscalationLevel int
}

// HoursToDuration converts fractional hours to a duration. Negative
// values are kept; callers decide how to present them.
func HoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
