//go:build (linux && cgo) || windows || darwin

// ABOUTME: Audio renderer built on the beep speaker mixer
// ABOUTME: Decoder -> speed resampler -> volume -> pause control, with end/failure callbacks

package renderer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"

	"mediaplayer/player"
)

// AudioAvailable indicates whether audio playback is supported in this build
const AudioAvailable = true

const (
	outputRate       = beep.SampleRate(44100)
	resampleQuality  = 4
	speakerBufferLen = time.Second / 10
)

// Beep plays one file at a time through the default audio device
type Beep struct {
	mu sync.Mutex

	sink   player.EventSink
	debugf func(string, ...interface{})

	initialized bool
	src         *source
	path        string // File behind src, attached to every event
	ctrl        *beep.Ctrl
	resampler   *beep.Resampler
	volume      *effects.Volume
	queued      bool   // Stream is currently in the speaker mixer
	generation  uint64 // Bumped on every Open so stale end callbacks are ignored

	level float64
	speed float64
}

// New creates a renderer that reports events to sink
func New(sink player.EventSink, debugf func(string, ...interface{})) *Beep {
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	return &Beep{sink: sink, debugf: debugf, level: 1, speed: 1}
}

// SetSink replaces the event receiver
func (b *Beep) SetSink(sink player.EventSink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sink = sink
}

func (b *Beep) initSpeaker() error {
	if b.initialized {
		return nil
	}

	if err := speaker.Init(outputRate, outputRate.N(speakerBufferLen)); err != nil {
		return fmt.Errorf("%w: %v", ErrAudioUnavailable, err)
	}

	b.initialized = true

	return nil
}

// Open decodes path and prepares it paused at the start.
// The Opened event is delivered asynchronously.
func (b *Beep) Open(path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.initSpeaker(); err != nil {
		return err
	}

	b.closeLocked()

	src, err := openSource(path)
	if err != nil {
		return err
	}

	b.generation++
	b.src = src
	b.path = path
	b.resampler = beep.ResampleRatio(resampleQuality, b.ratioLocked(), src.streamer)
	b.volume = &effects.Volume{Streamer: b.resampler, Base: 2}
	b.applyLevelLocked()
	b.ctrl = &beep.Ctrl{Streamer: b.volume, Paused: true}

	b.debugf("[RENDERER] Opened %s (%s @ %d Hz)", path, src.Duration(), src.format.SampleRate)

	info := player.MediaInfo{Path: path, Duration: src.Duration()}
	if sink := b.sink; sink != nil {
		go sink.Opened(info)
	}

	return nil
}

// Play starts or resumes the opened stream
func (b *Beep) Play() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.src == nil {
		return fmt.Errorf("nothing to play: %w", player.ErrUnplayable)
	}

	speaker.Lock()
	b.ctrl.Paused = false
	speaker.Unlock()

	if !b.queued {
		b.queued = true
		gen := b.generation
		// Callbacks run under the speaker lock, which must not be held while taking b.mu
		speaker.Play(beep.Seq(b.ctrl, beep.Callback(func() { go b.finished(gen) })))
	}

	return nil
}

// finished reports the end of a drained stream
func (b *Beep) finished(gen uint64) {
	b.mu.Lock()
	if gen != b.generation || b.src == nil {
		b.mu.Unlock()

		return
	}

	b.queued = false
	streamErr := b.src.streamer.Err()
	path := b.path
	sink := b.sink
	b.mu.Unlock()

	if sink == nil {
		return
	}

	if streamErr != nil {
		sink.Failed(path, streamErr)
	} else {
		sink.Ended(path)
	}
}

// Pause holds the current position
func (b *Beep) Pause() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.ctrl == nil {
		return
	}

	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
}

// Stop pauses without unloading; callers rewind with Seek(0)
func (b *Beep) Stop() {
	b.Pause()
}

// Seek moves the stream position; ignored with nothing open
func (b *Beep) Seek(position time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.src == nil {
		return
	}

	speaker.Lock()
	err := b.src.Seek(position)
	speaker.Unlock()

	if err != nil {
		b.debugf("[RENDERER] Seek to %s failed: %v", position, err)
	}
}

// SetVolume maps a linear 0-1 level onto beep's logarithmic volume
func (b *Beep) SetVolume(level float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.level = level
	if b.volume == nil {
		return
	}

	speaker.Lock()
	b.applyLevelLocked()
	speaker.Unlock()
}

func (b *Beep) applyLevelLocked() {
	if b.level <= 0 {
		b.volume.Silent = true

		return
	}

	b.volume.Silent = false
	b.volume.Volume = math.Log2(b.level)
}

// SetSpeed changes the playback rate without re-opening the file
func (b *Beep) SetSpeed(ratio float64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ratio <= 0 {
		return
	}

	b.speed = ratio
	if b.resampler == nil {
		return
	}

	speaker.Lock()
	b.resampler.SetRatio(b.ratioLocked())
	speaker.Unlock()
}

// ratioLocked combines the source-to-output rate conversion with the speed factor
func (b *Beep) ratioLocked() float64 {
	if b.src == nil {
		return b.speed
	}

	return float64(b.src.format.SampleRate) / float64(outputRate) * b.speed
}

// Position returns the playback offset in the current file
func (b *Beep) Position() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.src == nil {
		return 0
	}

	speaker.Lock()
	defer speaker.Unlock()

	return b.src.Position()
}

// Duration returns the length of the current file
func (b *Beep) Duration() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.src == nil {
		return 0
	}

	return b.src.Duration()
}

// Close stops output and releases the current file
func (b *Beep) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeLocked()
}

func (b *Beep) closeLocked() {
	if b.src == nil {
		return
	}

	b.generation++
	speaker.Clear()

	if err := b.src.Close(); err != nil {
		b.debugf("[RENDERER] Close failed: %v", err)
	}

	b.src = nil
	b.ctrl = nil
	b.resampler = nil
	b.volume = nil
	b.queued = false
}
