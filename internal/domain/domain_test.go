package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapRise(t *testing.T) {
	tests := []struct {
		in   float64
		want RiseTarget
	}{
		{75, Rise75},
		{100, Rise100},
		{99.9, Rise75},
		{150, Rise75},
		{0, Rise75},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SnapRise(tt.in), "%v", tt.in)
	}
	assert.Equal(t, "75%", Rise75.String())
	assert.Equal(t, "100%", Rise100.String())
	assert.Equal(t, "unknown", RiseTarget(50).String())
}

func TestBatchStatus(t *testing.T) {
	tests := []struct {
		status BatchStatus
		name   string
		active bool
	}{
		{BatchFermenting, "fermenting", true},
		{BatchReady, "ready", true},
		{BatchCompleted, "completed", false},
		{BatchAbandoned, "abandoned", false},
		{BatchStatus(9), "unknown", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.status.String())
		assert.Equal(t, tt.active, tt.status.Active(), tt.name)
	}
}

func TestBatchClone(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	b := &Batch{
		ID:        "b1",
		Inputs:    Inputs{TemperatureF: 70, StarterPct: 15, TargetRise: 75, Adjustments: BaselineAdjustments()},
		Result:    Result{EstimatedTime: 6.5, Warnings: []string{"w"}},
		StartedAt: start,
		Milestones: []*Milestone{
			{Kind: MilestoneExpected, At: start.Add(6*time.Hour + 30*time.Minute)},
		},
	}

	c := b.Clone()
	require.Equal(t, b, c)

	c.Milestone(MilestoneExpected).Fired = true
	c.Inputs.Adjustments.FlourMix.Rye = 20
	c.Result.Warnings[0] = "changed"

	assert.False(t, b.Milestone(MilestoneExpected).Fired)
	assert.Zero(t, b.Inputs.Adjustments.FlourMix.Rye)
	assert.Equal(t, "w", b.Result.Warnings[0])
	assert.Nil(t, b.Milestone(MilestoneOverdue))
	assert.Equal(t, start.Add(6*time.Hour+30*time.Minute), b.ExpectedAt())
}

func TestHoursToDuration(t *testing.T) {
	assert.Equal(t, 90*time.Minute, HoursToDuration(1.5))
	assert.Equal(t, -30*time.Minute, HoursToDuration(-0.5))
}

func TestMilestoneKindString(t *testing.T) {
	assert.Equal(t, "window opens", MilestoneWindowOpens.String())
	assert.Equal(t, "expected done", MilestoneExpected.String())
	assert.Equal(t, "overdue", MilestoneOverdue.String())
	assert.Equal(t, "unknown", MilestoneKind(7).String())
}
