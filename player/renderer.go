// ABOUTME: Interfaces for the collaborators the playback controller drives or reports to
// ABOUTME: Media renderer commands, renderer events, file-open requests and state observers

package player

import "time"

// Renderer decodes and plays one media file at a time.
// Implementations report asynchronous outcomes through an EventSink.
type Renderer interface {
	Open(path string) error
	Play() error
	Pause()
	Stop()
	Seek(position time.Duration)
	SetVolume(volume float64) // 0.0 - 1.0
	SetSpeed(ratio float64)
	Position() time.Duration
	Duration() time.Duration
}

// MediaInfo describes a file once the renderer has opened it
type MediaInfo struct {
	Path     string // File the renderer opened
	Duration time.Duration
	Width    int // Natural video width, 0 for audio-only media
	Height   int // Natural video height, 0 for audio-only media
}

// AudioOnly reports whether the media has no video frames
func (m MediaInfo) AudioOnly() bool {
	return m.Width == 0 || m.Height == 0
}

// EventSink receives renderer events.
// Renderers may call it from any goroutine; the receiver hands events to the owning loop.
// Every event names the file it belongs to so late events for a replaced file can be dropped.
type EventSink interface {
	Opened(info MediaInfo)
	Ended(path string)
	Failed(path string, err error)
}

// Opener asks the user for files to open; used when play is pressed on an empty playlist
type Opener interface {
	RequestOpen()
}

// Observer is notified after every controller transition
type Observer interface {
	StateChanged(snap Snapshot)
	Failed(err error)
}
