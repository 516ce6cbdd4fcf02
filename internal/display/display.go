// Package display provides the terminal UI using Bubble Tea.
//
// The [UI] type manages a persistent batch status bar and an input
// prompt at the bottom of the terminal. All application output is
// printed above the rendered area via Program.Println / Printf,
// ensuring concurrent writes never garble the display.
package display

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/bulkferm/internal/domain"
)

const prompt = "bulkferm> "

// UI manages the terminal through Bubble Tea.
//
// Call [NewUI] then [UI.Run] (blocking). Other goroutines may
// safely call [UI.Println], [UI.Printf], and read from
// [UI.InputChan] at any time after [UI.WaitReady] returns.
type UI struct {
	program *tea.Program
	inputCh chan string
	readyCh chan struct{}
	quitCh  chan struct{}
	store   domain.BatchStore
	now     func() time.Time
	done    atomic.Bool
}

// NewUI creates the display. Call Run() to start.
func NewUI(store domain.BatchStore) *UI {
	return &UI{
		store:   store,
		now:     time.Now,
		inputCh: make(chan string, 16),
		readyCh: make(chan struct{}),
		quitCh:  make(chan struct{}),
	}
}

// Println prints a line above the prompt. Thread-safe. Falls back to
// fmt.Println before the program starts and after it exits.
func (u *UI) Println(a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Println(a...)
	} else {
		fmt.Println(a...)
	}
}

// Printf prints formatted text above the prompt on its own line.
// Thread-safe.
func (u *UI) Printf(format string, a ...interface{}) {
	if u.program != nil && !u.done.Load() {
		u.program.Printf(format, a...)
	} else {
		fmt.Printf(format+"\n", a...)
	}
}

// InputChan returns completed user-input lines.
func (u *UI) InputChan() <-chan string { return u.inputCh }

// PrintInfo prints an informational line.
func (u *UI) PrintInfo(text string) {
	u.Println(infoStyle.Render("  " + text))
}

// PrintHint prints a secondary/dimmed line.
func (u *UI) PrintHint(text string) {
	u.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an error or alert line.
func (u *UI) PrintUrgent(text string) {
	u.Println(urgentOutputStyle.Render("  " + text))
}

// PrintUserInput echoes the user's typed command into the scrollback.
func (u *UI) PrintUserInput(text string) {
	u.Println(promptStyle.Render("bulkferm") + secondaryStyle.Render("> ") + userInputEchoStyle.Render(text))
}

// WaitReady blocks until the Bubble Tea event loop is running.
func (u *UI) WaitReady() { <-u.readyCh }

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// QuitChan is closed when Run returns.
func (u *UI) QuitChan() <-chan struct{} { return u.quitCh }

// Run starts the Bubble Tea event loop. Blocks until quit.
func (u *UI) Run() error {
	m := newModel(u.store, u.now, u.inputCh, u.readyCh, u.PrintUserInput)
	u.program = tea.NewProgram(m)
	_, err := u.program.Run()
	u.done.Store(true)
	close(u.quitCh)
	return err
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	store   domain.BatchStore
	now     func() time.Time
	input   textinput.Model
	bar     progress.Model
	inputCh chan<- string
	readyCh chan struct{}
	echoFn  func(string) // prints user input into scrollback
	batches []batchInfo
	width   int
}

type batchInfo struct {
	label     string
	next      domain.MilestoneKind
	remaining time.Duration
	progress  float64 // elapsed / expected, capped at 1
	ready     bool
	overdue   bool
}

type tickMsg time.Time

func newModel(store domain.BatchStore, now func() time.Time, inputCh chan<- string, readyCh chan struct{}, echoFn func(string)) model {
	ti := textinput.New()
	// A plain-text prompt keeps the textinput width math correct.
	ti.Prompt = prompt
	ti.PromptStyle = promptStyle
	ti.TextStyle = userInputEchoStyle
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60 // updated on first WindowSizeMsg

	return model{
		store:   store,
		now:     now,
		input:   ti,
		bar:     progress.New(progress.WithSolidFill("#fde68a"), progress.WithWidth(12), progress.WithoutPercentage()),
		inputCh: inputCh,
		readyCh: readyCh,
		echoFn:  echoFn,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			v := m.input.Value()
			m.input.Reset()
			if strings.TrimSpace(v) != "" {
				m.inputCh <- v
				// Echo from a Cmd so Update never blocks on Println.
				echoFn := m.echoFn
				return m, func() tea.Msg {
					echoFn(v)
					return nil
				}
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > len(prompt) {
			m.input.Width = msg.Width - len(prompt)
		}
		return m, nil

	case tickMsg:
		m.refreshBatches()
		title := "bulkferm"
		if len(m.batches) > 0 {
			title = m.titleStr()
		}
		return m, tea.Batch(tickCmd(), tea.SetWindowTitle(title))
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) refreshBatches() {
	batches, err := m.store.ListActive(context.Background())
	if err != nil {
		return
	}
	now := m.now()
	m.batches = m.batches[:0]
	for _, b := range batches {
		m.batches = append(m.batches, summarize(b, now))
	}
}

// summarize reduces a batch to what the status bar shows: the next
// milestone and how far away it is.
func summarize(b *domain.Batch, now time.Time) batchInfo {
	info := batchInfo{
		label: b.Label,
		ready: b.Status == domain.BatchReady,
	}
	if info.label == "" && len(b.ID) >= 8 {
		info.label = b.ID[:8]
	}

	if expected := b.ExpectedAt().Sub(b.StartedAt); expected > 0 {
		info.progress = float64(now.Sub(b.StartedAt)) / float64(expected)
	} else {
		info.progress = 1
	}
	info.progress = min(max(info.progress, 0), 1)

	info.overdue = true
	for _, ms := range b.Milestones {
		if ms.Fired {
			continue
		}
		info.overdue = false
		info.next = ms.Kind
		info.remaining = ms.At.Sub(now)
		break
	}
	return info
}

func (info batchInfo) status() string {
	switch {
	case info.overdue:
		return "OVERDUE"
	case info.ready:
		return "ready, overdue in " + fmtDuration(info.remaining)
	default:
		return info.next.String() + " in " + fmtDuration(info.remaining)
	}
}

func (m model) titleStr() string {
	var p []string
	for _, b := range m.batches {
		p = append(p, b.label+": "+b.status())
	}
	return "bulkferm: " + strings.Join(p, " | ")
}

func (m model) View() string {
	var b strings.Builder

	if len(m.batches) > 0 {
		b.WriteString(m.renderBar())
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	b.WriteString(m.input.View())
	return b.String()
}

func (m model) renderBar() string {
	var parts []string
	for _, info := range m.batches {
		style := countdownStyle
		switch {
		case info.overdue:
			style = overdueStyle
		case info.ready:
			style = readyStyle
		}
		parts = append(parts,
			labelStyle.Render(info.label+" ")+
				m.bar.ViewAs(info.progress)+" "+
				style.Render(info.status()))
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "

	w := m.width
	if w <= 0 {
		w = 80
	}
	return barBg.Width(w).Render(content)
}

// fmtDuration renders a countdown like "5h07m" or "12m30s".
func fmtDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
