//go:build !((linux && cgo) || windows || darwin)

// ABOUTME: Stand-in renderer for builds without cgo audio support
// ABOUTME: Every Open fails with ErrAudioUnavailable so the player stays usable for playlist editing

package renderer

import (
	"time"

	"mediaplayer/player"
)

// AudioAvailable indicates whether audio playback is supported in this build.
// Audio requires cgo for the native sound libraries.
const AudioAvailable = false

// Beep is a no-op renderer
type Beep struct{}

// New creates a no-op renderer
func New(player.EventSink, func(string, ...interface{})) *Beep {
	return &Beep{}
}

// SetSink is a no-op
func (b *Beep) SetSink(player.EventSink) {}

// Open always fails
func (b *Beep) Open(path string) error {
	return ErrAudioUnavailable
}

// Play always fails
func (b *Beep) Play() error {
	return ErrAudioUnavailable
}

func (b *Beep) Pause() {}
func (b *Beep) Stop() {}
func (b *Beep) Seek(time.Duration) {}
func (b *Beep) SetVolume(float64) {}
func (b *Beep) SetSpeed(float64) {}
func (b *Beep) Position() time.Duration { return 0 }
func (b *Beep) Duration() time.Duration { return 0 }
func (b *Beep) Close() {}
