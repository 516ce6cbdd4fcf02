// Package chime plays a short audible alert when a batch needs attention.
package chime

import (
	"encoding/binary"
	"math"
	"time"
)

// Output format: 24kHz mono, signed 16-bit little endian.
const (
	SampleRate   = 24000
	ChannelCount = 1
	bytesPerSamp = 2
)

// fade is applied at both ends of a tone to avoid clicks.
const fade = 5 * time.Millisecond

// Tone returns PCM for a sine wave at freqHz lasting dur. Volume is
// clamped to [0, 1].
func Tone(freqHz float64, dur time.Duration, volume float64) []byte {
	volume = math.Max(0, math.Min(1, volume))
	n := samples(dur)
	fadeN := samples(fade)
	if fadeN*2 > n {
		fadeN = n / 2
	}

	buf := make([]byte, n*bytesPerSamp)
	for i := 0; i < n; i++ {
		env := 1.0
		switch {
		case fadeN > 0 && i < fadeN:
			env = float64(i) / float64(fadeN)
		case fadeN > 0 && i >= n-fadeN:
			env = float64(n-1-i) / float64(fadeN)
		}
		v := math.Sin(2*math.Pi*freqHz*float64(i)/SampleRate) * volume * env
		binary.LittleEndian.PutUint16(buf[i*bytesPerSamp:], uint16(int16(v*math.MaxInt16)))
	}
	return buf
}

// Silence returns dur worth of zero samples.
func Silence(dur time.Duration) []byte {
	return make([]byte, samples(dur)*bytesPerSamp)
}

// Pattern is the default two-note rising alert.
func Pattern() []byte {
	var out []byte
	out = append(out, Tone(880, 150*time.Millisecond, 0.5)...)
	out = append(out, Silence(80*time.Millisecond)...)
	out = append(out, Tone(1320, 250*time.Millisecond, 0.5)...)
	return out
}

func samples(dur time.Duration) int {
	if dur <= 0 {
		return 0
	}
	return int(int64(dur) * SampleRate / int64(time.Second))
}
