package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/bulkferm/internal/logger"
)

func TestWatcherReportsProgress(t *testing.T) {
	f := newFixture(t)
	w := NewWatcher(f.store, f.notifier, logger.New(logger.LevelOff, nil), withWatcherClock(f.clock.now))
	f.startBaseline(t, "country loaf", testStart)

	// Nothing to say right after the start.
	w.check(f.ctx)
	assert.Empty(t, f.notifier.messages)

	f.clock.set(2 * time.Hour)
	w.check(f.ctx)
	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "[Watcher] country loaf: 2 hours in, about 4 hours 30 minutes to go.", f.notifier.messages[0])
	assert.Empty(t, f.notifier.urgent)
}

func TestWatcherGroupsReadyBatches(t *testing.T) {
	f := newFixture(t)
	sup := f.supervisor()
	w := NewWatcher(f.store, f.notifier, logger.New(logger.LevelOff, nil), withWatcherClock(f.clock.now))

	f.startBaseline(t, "white", testStart)
	f.startBaseline(t, "rye", testStart.Add(time.Minute))

	f.clock.set(6*time.Hour + 31*time.Minute)
	sup.tick(f.ctx)
	f.notifier.messages = nil

	w.check(f.ctx)
	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "[Watcher] Heads up, white and rye are ready and waiting on you.", f.notifier.messages[0])
}

func TestJoinNames(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"a"}, "a"},
		{[]string{"a", "b"}, "a and b"},
		{[]string{"a", "b", "c"}, "a, b and c"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, joinNames(tt.in))
	}
}
