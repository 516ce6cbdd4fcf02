package chime

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/hammamikhairi/bulkferm/internal/logger"
)

// Sounder plays raw PCM in the package output format.
type Sounder interface {
	Play(pcm []byte) error
}

// oto allows a single context per process.
var (
	otoOnce sync.Once
	otoCtx  *oto.Context
	otoErr  error
)

func audioContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		var ready chan struct{}
		otoCtx, ready, otoErr = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: ChannelCount,
			Format:       oto.FormatSignedInt16LE,
		})
		if otoErr == nil {
			<-ready
		}
	})
	return otoCtx, otoErr
}

// Player plays chimes on the system audio device.
type Player struct {
	ctx *oto.Context
	log *logger.Logger

	mu     sync.Mutex
	active *oto.Player
}

// NewPlayer opens the audio device. Returns an error when there is none,
// in which case callers fall back to silent notifications.
func NewPlayer(log *logger.Logger) (*Player, error) {
	ctx, err := audioContext()
	if err != nil {
		return nil, fmt.Errorf("opening audio device: %w", err)
	}
	log.Debug("chime player ready (rate=%d, channels=%d)", SampleRate, ChannelCount)
	return &Player{ctx: ctx, log: log}, nil
}

// Play blocks until the clip has played or Stop is called. The wait is
// bounded by the clip length plus a small margin so a stuck device
// cannot hang the caller.
func (p *Player) Play(pcm []byte) error {
	player := p.ctx.NewPlayer(bytes.NewReader(pcm))

	p.mu.Lock()
	p.active = player
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.active = nil
		p.mu.Unlock()
	}()

	player.Play()
	deadline := time.Now().Add(clipLength(pcm) + 500*time.Millisecond)
	for player.IsPlaying() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	p.log.Debug("chime played (%s)", clipLength(pcm))
	return player.Close()
}

// Stop cuts off the current chime, if any.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.active != nil {
		p.active.Pause()
	}
}

// clipLength is the playback duration of 16-bit PCM.
func clipLength(pcm []byte) time.Duration {
	samples := int64(len(pcm) / (2 * ChannelCount))
	return time.Duration(samples * int64(time.Second) / SampleRate)
}
