package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/bulkferm/internal/chime"
	"github.com/hammamikhairi/bulkferm/internal/display"
	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/engine"
	"github.com/hammamikhairi/bulkferm/internal/logger"
	"github.com/hammamikhairi/bulkferm/internal/notify"
	"github.com/hammamikhairi/bulkferm/internal/storage"
	"github.com/hammamikhairi/bulkferm/internal/timer"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

func (a *app) watchCmd() *cobra.Command {
	var (
		dough doughFlags
		label string
		start string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Track a batch and get reminders as it ferments",
		Long: `Start tracking a batch and stay in a status-bar UI that counts down to
the rise window, the expected finish and the end of the estimated range.

Commands inside the UI:
  status          show every batch
  add T S [R] [L] track another batch (temp, starter, rise, label)
  done [n]        mark a batch as shaped
  drop [n]        stop tracking a batch
  quit            exit

Examples:
  bulkferm watch --temp 72 --starter 20 --label "country loaf"
  bulkferm watch --temp 68 --starter 10 --start 07:15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := dough.inputs(cmd.Context(), a.cfg.Unit, a.formulas)
			if err != nil {
				return err
			}
			startAt := time.Now()
			if start != "" {
				if startAt, err = parseStart(start, startAt); err != nil {
					return err
				}
			}
			return a.runWatch(cmd.Context(), label, in, startAt)
		},
	}

	dough.register(cmd)
	cmd.Flags().StringVarP(&label, "label", "l", "", "name for the batch")
	cmd.Flags().StringVar(&start, "start", "", "time bulk started, HH:MM or \"now\" (default now)")
	return cmd
}

func (a *app) runWatch(ctx context.Context, label string, in domain.Inputs, startAt time.Time) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := storage.NewMemoryStore(a.log)
	eng := a.engine(engine.WithStore(store))
	ui := display.NewUI(store)

	var notifier domain.Notifier = notify.NewCLINotifier(a.log, ui.Printf)
	if a.cfg.Chime {
		player, err := chime.NewPlayer(a.log)
		if err != nil {
			a.log.Error("audio player init failed, chime disabled: %v", err)
		} else {
			chimer := chime.NewNotifier(notifier, player, a.log)
			defer chimer.Wait()
			defer player.Stop()
			notifier = chimer
		}
	}

	sup := timer.New(store, notifier, a.log,
		timer.WithTickInterval(a.cfg.TickInterval),
		timer.WithNotifyCooldown(a.cfg.NotifyCooldown),
		timer.WithMaxEscalation(a.cfg.MaxEscalation),
		timer.WithWatcher(timer.WithWatchInterval(a.cfg.WatchInterval)),
	)

	fmt.Println(display.RenderBanner("sourdough bulk fermentation"))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	session := &watchSession{eng: eng, out: ui, unit: a.cfg.Unit, log: a.log, now: time.Now}
	if _, err := session.start(ctx, label, in, startAt); err != nil {
		return err
	}

	sup.Start(ctx)
	defer sup.Stop()

	go func() {
		ui.WaitReady()
		session.run(ctx, ui.InputChan())
		ui.Quit()
	}()

	// Bubble Tea owns the terminal. Blocks until quit.
	if err := ui.Run(); err != nil {
		a.log.Error("display: %v", err)
		return err
	}
	return nil
}

// printer is the part of display.UI the session writes to.
type printer interface {
	Println(a ...interface{})
	PrintInfo(text string)
	PrintHint(text string)
	PrintUrgent(text string)
}

// watchSession interprets the commands typed into the watch UI.
type watchSession struct {
	eng  *engine.Engine
	out  printer
	unit units.Unit
	log  *logger.Logger
	now  func() time.Time
}

func (s *watchSession) run(ctx context.Context, input <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-input:
			if !ok {
				return
			}
			if s.handle(ctx, line) {
				return
			}
		}
	}
}

// handle runs one command line and reports whether the session is over.
func (s *watchSession) handle(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	s.log.Debug("watch command: %q", line)

	switch cmd, args := strings.ToLower(fields[0]), fields[1:]; cmd {
	case "help", "?":
		s.help()
	case "status", "ls", "list":
		s.status(ctx)
	case "add", "new":
		s.add(ctx, args)
	case "done", "shaped":
		return s.finish(ctx, args, s.eng.Complete, "shaped")
	case "drop", "abandon":
		return s.finish(ctx, args, s.eng.Abandon, "dropped")
	case "quit", "exit", "q":
		return true
	default:
		s.out.PrintHint(fmt.Sprintf("Unknown command %q. Type 'help'.", cmd))
	}
	return false
}

func (s *watchSession) start(ctx context.Context, label string, in domain.Inputs, startAt time.Time) (*domain.Batch, error) {
	batch, err := s.eng.StartBatch(ctx, label, in, startAt)
	if err != nil {
		return nil, err
	}
	s.out.Println(display.RenderResult(in, batch.Result, batch.StartedAt, s.unit))
	return batch, nil
}

func (s *watchSession) help() {
	for _, l := range []string{
		"status           show every batch",
		"add T S [R] [L]  track another batch started now",
		"done [n]         mark batch n as shaped",
		"drop [n]         stop tracking batch n",
		"quit             exit",
	} {
		s.out.PrintHint(l)
	}
}

func (s *watchSession) status(ctx context.Context) {
	batches, err := s.eng.ListActive(ctx)
	if err != nil {
		s.out.PrintUrgent(err.Error())
		return
	}
	if len(batches) == 0 {
		s.out.PrintHint("No batches.")
		return
	}
	now := s.now()
	for i, b := range batches {
		name := b.Label
		if name == "" {
			name = b.ID[:min(8, len(b.ID))]
		}
		s.out.PrintInfo(fmt.Sprintf("%d. %s: %s, %s in, expected %s",
			i+1, name, b.Status, units.FormatTime(now.Sub(b.StartedAt).Hours()), units.FormatTimeOfDay(b.ExpectedAt())))
	}
}

// add parses "temp starter [rise] [label...]".
func (s *watchSession) add(ctx context.Context, args []string) {
	if len(args) < 2 {
		s.out.PrintHint("Usage: add <temp> <starter> [rise] [label]")
		return
	}

	nums := make([]float64, 0, 3)
	rest := args
	for len(rest) > 0 && len(nums) < 3 {
		v, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			break
		}
		nums = append(nums, v)
		rest = rest[1:]
	}
	if len(nums) < 2 {
		s.out.PrintHint("Usage: add <temp> <starter> [rise] [label]")
		return
	}

	dough := doughFlags{temp: nums[0], starter: nums[1], rise: float64(domain.Rise75)}
	if len(nums) == 3 {
		dough.rise = nums[2]
	}
	base := domain.BaselineAdjustments()
	dough.wholeWheat, dough.rye, dough.protein = base.FlourMix.WholeWheat, base.FlourMix.Rye, base.FlourMix.ProteinContent
	dough.salt = base.SaltPercentage

	in, err := dough.inputs(ctx, s.unit, nil)
	if err != nil {
		s.out.PrintUrgent(err.Error())
		return
	}
	if _, err := s.start(ctx, strings.Join(rest, " "), in, s.now()); err != nil {
		s.out.PrintUrgent(err.Error())
	}
}

// finish applies op to the selected batch and reports whether nothing is
// left to watch.
func (s *watchSession) finish(ctx context.Context, args []string, op func(context.Context, string) error, verb string) bool {
	batch, err := s.pick(ctx, args)
	if err != nil {
		s.out.PrintHint(err.Error())
		return false
	}
	if err := op(ctx, batch.ID); err != nil {
		s.out.PrintUrgent(err.Error())
		return false
	}

	name := batch.Label
	if name == "" {
		name = "Batch"
	}
	s.out.PrintInfo(fmt.Sprintf("%s %s after %s.", name, verb, units.FormatTime(s.now().Sub(batch.StartedAt).Hours())))

	active, err := s.eng.ListActive(ctx)
	if err != nil {
		return false
	}
	if len(active) == 0 {
		s.out.PrintHint("No batches left to watch.")
		return true
	}
	return false
}

var errAmbiguous = errors.New("several batches are active, pick one by number (see 'status')")

// pick resolves a 1-based index into the active list. Without an argument
// it only succeeds when exactly one batch is active.
func (s *watchSession) pick(ctx context.Context, args []string) (*domain.Batch, error) {
	active, err := s.eng.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, errors.New("no active batches")
	}
	if len(args) == 0 {
		if len(active) > 1 {
			return nil, errAmbiguous
		}
		return active[0], nil
	}

	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(active) {
		return nil, fmt.Errorf("no batch %q, pick 1 to %d", args[0], len(active))
	}
	return active[n-1], nil
}
