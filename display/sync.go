// ABOUTME: Derived view state kept in step with renderer callbacks and controller snapshots
// ABOUTME: Time readout, slider, audio/video mode, fullscreen with control auto-hide, volume/mute

// Package display holds the transient state a front end renders.
// Nothing here is authoritative: every field can be rebuilt from the
// playback controller and the renderer.
package display

import (
	"time"

	"mediaplayer/player"
)

// Tunables shared with front ends
const (
	ControlsHideDelay = 3 * time.Second // Idle time before controls hide in fullscreen
	TickInterval      = time.Second     // Position refresh period
	DefaultVolume     = 0.5             // Restored on unmute when no earlier volume is known
)

// State is a copy of everything a front end needs to draw the transport area
type State struct {
	Elapsed      time.Duration
	Duration     time.Duration
	ElapsedText  string
	DurationText string
	SliderMax    float64 // Seconds
	SliderValue  float64 // Seconds

	AudioOnly           bool // Show the album-art panel
	FullscreenAvailable bool // Only with video loaded and a non-empty playlist
	Fullscreen          bool
	ControlsVisible     bool
	PlaylistVisible     bool // Window chrome saved/restored around fullscreen

	Volume float64 // 0.0 - 1.0
	Muted  bool

	Notice string // One-shot message for the user
}

// Sync keeps State consistent with playback events
type Sync struct {
	state          State
	playing        bool
	seeking        bool
	lastVolume     float64
	activity       int  // Token bumped on every user activity, used to discard stale hide requests
	savedPlaylist  bool // Playlist visibility before entering fullscreen
	lastKnownVideo bool
}

// NewSync creates a windowed, audio-mode display at the given volume
func NewSync(volume float64) *Sync {
	s := &Sync{
		state: State{
			ElapsedText:     ZeroClock,
			DurationText:    ZeroClock,
			AudioOnly:       true,
			ControlsVisible: true,
			PlaylistVisible: true,
		},
		lastVolume: DefaultVolume,
	}
	s.SetVolume(volume)

	return s
}

// State returns a copy of the current view state
func (s *Sync) State() State {
	return s.state
}

// TakeNotice returns the pending notice and clears it
func (s *Sync) TakeNotice() string {
	n := s.state.Notice
	s.state.Notice = ""

	return n
}

// Notify records a one-shot user-facing message
func (s *Sync) Notify(msg string) {
	s.state.Notice = msg
}

// ========== Playback ==========

// Apply mirrors controller state that affects refresh and layout
func (s *Sync) Apply(snap player.Snapshot, playlistLen int) {
	s.playing = snap.State == player.Playing
	s.seeking = snap.Seeking

	if snap.State == player.Stopped {
		s.Reset()
	}

	if snap.Current == -1 {
		s.state.Duration = 0
		s.state.DurationText = ZeroClock
		s.state.SliderMax = 0
		s.lastKnownVideo = false
		s.state.AudioOnly = true
	}

	s.updateFullscreenAvailability(playlistLen)
}

// Tick refreshes the position readout; ignored while seeking or not playing
func (s *Sync) Tick(position, duration time.Duration) bool {
	if !s.playing || s.seeking {
		return false
	}

	if duration > 0 {
		s.state.Duration = duration
		s.state.DurationText = FormatClock(duration)
		s.state.SliderMax = duration.Seconds()
	}

	if position < 0 {
		position = 0
	}

	s.state.Elapsed = position
	s.state.ElapsedText = FormatClock(position)
	s.state.SliderValue = position.Seconds()

	return true
}

// Opened switches between audio and video layout for newly opened media
func (s *Sync) Opened(info player.MediaInfo, playlistLen int) {
	if info.Duration > 0 {
		s.state.Duration = info.Duration
		s.state.DurationText = FormatClock(info.Duration)
		s.state.SliderMax = info.Duration.Seconds()
	}

	s.lastKnownVideo = !info.AudioOnly()
	s.state.AudioOnly = info.AudioOnly()
	s.updateFullscreenAvailability(playlistLen)
}

// Failed records an error notice without touching playback state
func (s *Sync) Failed(err error) {
	if err != nil {
		s.state.Notice = err.Error()
	}
}

// SetSeekPreview shows the dragged position in the readout without touching the renderer
func (s *Sync) SetSeekPreview(seconds float64) {
	d := Seconds(seconds)
	if s.state.SliderMax > 0 && d.Seconds() > s.state.SliderMax {
		d = Seconds(s.state.SliderMax)
	}

	s.state.SliderValue = d.Seconds()
	s.state.ElapsedText = FormatClock(d)
}

// Reset puts the elapsed readout and slider back at zero
func (s *Sync) Reset() {
	s.state.Elapsed = 0
	s.state.ElapsedText = ZeroClock
	s.state.SliderValue = 0
}

func (s *Sync) updateFullscreenAvailability(playlistLen int) {
	s.state.FullscreenAvailable = s.lastKnownVideo && playlistLen > 0

	if !s.state.FullscreenAvailable && s.state.Fullscreen {
		s.exitFullscreen()
	}
}

// ========== Fullscreen and controls ==========

// ToggleFullscreen enters or leaves fullscreen; returns false when not available.
// Entering hides the controls until the next activity.
func (s *Sync) ToggleFullscreen() bool {
	if s.state.Fullscreen {
		s.exitFullscreen()

		return true
	}

	if !s.state.FullscreenAvailable {
		return false
	}

	s.savedPlaylist = s.state.PlaylistVisible
	s.state.Fullscreen = true
	s.state.PlaylistVisible = false
	s.state.ControlsVisible = false
	s.activity++

	return true
}

func (s *Sync) exitFullscreen() {
	s.state.Fullscreen = false
	s.state.PlaylistVisible = s.savedPlaylist
	s.state.ControlsVisible = true
	s.activity++
}

// TogglePlaylist shows or hides the playlist panel while windowed
func (s *Sync) TogglePlaylist() {
	if s.state.Fullscreen {
		return
	}

	s.state.PlaylistVisible = !s.state.PlaylistVisible
}

// Activity records mouse movement and returns a token for the matching HideIfIdle call.
// Controls become visible immediately.
func (s *Sync) Activity() int {
	s.activity++
	s.state.ControlsVisible = true

	return s.activity
}

// HideIfIdle hides the controls when token is still the latest activity and
// the display is fullscreen. Returns true when the controls were hidden.
func (s *Sync) HideIfIdle(token int) bool {
	if token != s.activity || !s.state.Fullscreen {
		return false
	}

	s.state.ControlsVisible = false

	return true
}

// ========== Volume ==========

// SetVolume sets volume in [0, 1], remembering the last non-zero level
func (s *Sync) SetVolume(v float64) float64 {
	switch {
	case v < 0:
		v = 0
	case v > 1:
		v = 1
	}

	s.state.Volume = v
	s.state.Muted = v == 0

	if v > 0 {
		s.lastVolume = v
	}

	return v
}

// SetVolumePercent accepts a 0-100 control value
func (s *Sync) SetVolumePercent(p float64) float64 {
	return s.SetVolume(p / 100)
}

// AdjustVolume nudges the volume by delta
func (s *Sync) AdjustVolume(delta float64) float64 {
	return s.SetVolume(s.state.Volume + delta)
}

// ToggleMute silences or restores the last non-zero volume; returns the new volume
func (s *Sync) ToggleMute() float64 {
	if s.state.Volume > 0 {
		s.lastVolume = s.state.Volume
		s.state.Volume = 0
		s.state.Muted = true

		return 0
	}

	return s.SetVolume(s.lastVolume)
}
