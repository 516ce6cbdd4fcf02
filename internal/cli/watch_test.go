package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/bulkferm/internal/dataset"
	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/engine"
	"github.com/hammamikhairi/bulkferm/internal/logger"
	"github.com/hammamikhairi/bulkferm/internal/storage"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

// fakePrinter records everything the session prints.
type fakePrinter struct {
	lines  []string
	hints  []string
	urgent []string
}

func (p *fakePrinter) Println(a ...interface{}) { p.lines = append(p.lines, fmt.Sprint(a...)) }
func (p *fakePrinter) PrintInfo(text string)    { p.lines = append(p.lines, text) }
func (p *fakePrinter) PrintHint(text string)    { p.hints = append(p.hints, text) }
func (p *fakePrinter) PrintUrgent(text string)  { p.urgent = append(p.urgent, text) }

func (p *fakePrinter) all() string {
	return strings.Join(p.lines, "\n")
}

var watchNow = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// newTestSession returns a session whose clock reads *now.
func newTestSession(t *testing.T) (*watchSession, *fakePrinter, *time.Time) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	now := watchNow
	clock := func() time.Time { return now }
	eng := engine.New(dataset.Default(), log,
		engine.WithStore(storage.NewMemoryStore(log)),
		engine.WithClock(clock))
	out := &fakePrinter{}
	return &watchSession{eng: eng, out: out, unit: units.Fahrenheit, log: log, now: clock}, out, &now
}

func TestWatchSessionAddAndStatus(t *testing.T) {
	s, out, now := newTestSession(t)
	ctx := context.Background()

	assert.False(t, s.handle(ctx, "add 70 15 75 country loaf"))
	*now = now.Add(time.Minute)
	assert.False(t, s.handle(ctx, "add 72 20"))
	assert.Contains(t, out.all(), "6 hours 30 minutes")

	out.lines = nil
	assert.False(t, s.handle(ctx, "status"))
	require.Len(t, out.lines, 2)
	assert.Equal(t, "1. country loaf: fermenting, 1 minute in, expected 2:30 PM", out.lines[0])
	assert.True(t, strings.HasPrefix(out.lines[1], "2. "), out.lines[1])

	active, err := s.eng.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, float64(domain.Rise75), active[1].Inputs.TargetRise)
	assert.Empty(t, active[1].Label)
}

func TestWatchSessionAddErrors(t *testing.T) {
	s, out, _ := newTestSession(t)
	ctx := context.Background()

	s.handle(ctx, "add")
	s.handle(ctx, "add 70 loaf")
	s.handle(ctx, "add 70 -3")
	assert.Len(t, out.hints, 2)
	require.Len(t, out.urgent, 1)
	assert.Contains(t, out.urgent[0], "--starter must not be negative")

	active, err := s.eng.ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestWatchSessionFinish(t *testing.T) {
	s, out, now := newTestSession(t)
	ctx := context.Background()

	s.handle(ctx, "add 70 15 white")
	*now = now.Add(time.Minute)
	s.handle(ctx, "add 70 15 rye")

	assert.False(t, s.handle(ctx, "done"))
	assert.Contains(t, out.hints, errAmbiguous.Error())

	assert.False(t, s.handle(ctx, "done 3"))
	assert.Contains(t, out.hints[len(out.hints)-1], "pick 1 to 2")

	assert.False(t, s.handle(ctx, "done 1"))
	assert.Contains(t, out.all(), "white shaped after 1 minute.")

	// Only rye is left, so no index is needed.
	assert.True(t, s.handle(ctx, "drop"))
	assert.Contains(t, out.all(), "rye dropped")
	assert.Contains(t, out.hints, "No batches left to watch.")

	assert.False(t, s.handle(ctx, "done"))
	assert.Equal(t, "no active batches", out.hints[len(out.hints)-1])
}

func TestWatchSessionCommands(t *testing.T) {
	s, out, _ := newTestSession(t)
	ctx := context.Background()

	assert.False(t, s.handle(ctx, "   "))
	assert.False(t, s.handle(ctx, "help"))
	assert.Len(t, out.hints, 5)

	assert.False(t, s.handle(ctx, "status"))
	assert.Equal(t, "No batches.", out.hints[len(out.hints)-1])

	assert.False(t, s.handle(ctx, "knead"))
	assert.Contains(t, out.hints[len(out.hints)-1], `Unknown command "knead"`)

	assert.True(t, s.handle(ctx, "QUIT"))
}

func TestWatchSessionRun(t *testing.T) {
	s, _, _ := newTestSession(t)
	input := make(chan string, 2)
	input <- "add 70 15"
	input <- "quit"

	done := make(chan struct{})
	go func() {
		s.run(context.Background(), input)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("session did not stop on quit")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.run(ctx, make(chan string))
}
