package notify

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/bulkferm/internal/logger"
)

func TestCLINotifier(t *testing.T) {
	var lines []string
	printFn := func(format string, a ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, a...))
	}
	clock := func() time.Time { return time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC) }
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), printFn, WithClock(clock))
	ctx := context.Background()

	require.NoError(t, n.Notify(ctx, "[Batch] loaf: rise window is open."))
	require.NoError(t, n.NotifyUrgent(ctx, "[Batch] loaf should be at 75% rise. Check it."))

	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "14:05")
	assert.Contains(t, lines[0], "rise window is open")
	assert.Contains(t, lines[1], "14:05")
	assert.Contains(t, lines[1], "should be at 75% rise")
}

func TestCLINotifierDefaultPrinter(t *testing.T) {
	n := NewCLINotifier(logger.New(logger.LevelOff, nil), nil)
	assert.NotNil(t, n.printFn)
	assert.NoError(t, n.Notify(context.Background(), "hello"))
}
