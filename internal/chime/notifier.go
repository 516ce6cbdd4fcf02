package chime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/logger"
)

// Compile-time interface check.
var _ domain.Notifier = (*Notifier)(nil)

// Notifier wraps a text notifier and chimes on urgent messages. Chimes play
// in the background; one that arrives while another is playing is dropped.
type Notifier struct {
	text    domain.Notifier
	sounder Sounder
	pcm     []byte
	log     *logger.Logger

	busy atomic.Bool
	wg   sync.WaitGroup
}

// NewNotifier creates a notifier that prints through text and plays the
// default pattern through sounder.
func NewNotifier(text domain.Notifier, sounder Sounder, log *logger.Logger) *Notifier {
	return &Notifier{
		text:    text,
		sounder: sounder,
		pcm:     Pattern(),
		log:     log,
	}
}

// Notify passes the message through without sound.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	return n.text.Notify(ctx, message)
}

// NotifyUrgent prints the message and starts the chime.
func (n *Notifier) NotifyUrgent(ctx context.Context, message string) error {
	if err := n.text.NotifyUrgent(ctx, message); err != nil {
		return err
	}
	if !n.busy.CompareAndSwap(false, true) {
		n.log.Debug("chime: already playing, skipped")
		return nil
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer n.busy.Store(false)
		if err := n.sounder.Play(n.pcm); err != nil {
			n.log.Warn("chime: playback failed: %v", err)
		}
	}()
	return nil
}

// Wait blocks until any chime in flight has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
