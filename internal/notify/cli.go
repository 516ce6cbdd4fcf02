// Package notify delivers batch notifications to the terminal.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*CLINotifier)(nil)

var (
	stampStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// PrintFunc is a function used to print formatted output.
// Matches the signature of both fmt.Printf and display.StatusBar.Printf.
type PrintFunc func(format string, a ...interface{})

// Option configures the notifier.
type Option func(*CLINotifier)

// WithClock replaces time.Now for the timestamp prefix.
func WithClock(now func() time.Time) Option {
	return func(n *CLINotifier) {
		n.now = now
	}
}

// CLINotifier writes notifications to the terminal, each prefixed with the
// local time so a scrolled-back log still reads as a timeline.
type CLINotifier struct {
	log     *logger.Logger
	printFn PrintFunc
	now     func() time.Time
}

// NewCLINotifier creates a terminal notifier.
// If printFn is nil, fmt.Printf is used.
func NewCLINotifier(log *logger.Logger, printFn PrintFunc, opts ...Option) *CLINotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	n := &CLINotifier{log: log, printFn: printFn, now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify prints a normal notification.
func (n *CLINotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s %s", n.stamp(), normalStyle.Render(message))
	return nil
}

// NotifyUrgent prints an urgent notification in bold red.
func (n *CLINotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s %s", n.stamp(), urgentStyle.Render(message))
	return nil
}

func (n *CLINotifier) stamp() string {
	return stampStyle.Render(n.now().Format("15:04"))
}
