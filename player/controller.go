// ABOUTME: Playback state machine owning the current index, shuffle, repeat and history
// ABOUTME: Drives the media renderer and follows playlist edits so the current track stays put

// Package player implements the playback controller that sits between the
// playlist store and an external media renderer.
package player

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"mediaplayer/playlist"
)

const (
	defaultHistorySize = 50

	minSpeed = 0.25
	maxSpeed = 4.0
)

// ErrUnplayable marks a track the renderer could not open or play
var ErrUnplayable = errors.New("track cannot be played")

// TrackError reports which playlist entry failed and why
type TrackError struct {
	Path string
	Err  error
}

func (e *TrackError) Error() string {
	return fmt.Sprintf("cannot play %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the sentinel and the renderer's cause to errors.Is
func (e *TrackError) Unwrap() []error {
	return []error{ErrUnplayable, e.Err}
}

// Snapshot is a read-only copy of the controller state handed to observers
type Snapshot struct {
	State   State
	Current int            // -1 when no track is selected
	Entry   playlist.Entry // Zero value when Current is -1
	Shuffle bool
	Repeat  RepeatMode
	Seeking bool
	Volume  float64
	Speed   float64
}

// Options holds the optional collaborators of a Controller
type Options struct {
	Opener      Opener
	Observer    Observer
	Rand        *rand.Rand // Source for shuffle picks (nil = global source)
	HistorySize int
	Debugf      func(string, ...interface{})
}

// Controller is the playback state machine.
// It is not safe for concurrent use: every method must be called from the
// goroutine that owns the playlist store (the UI event loop).
type Controller struct {
	store    *playlist.Store
	renderer Renderer
	opener   Opener
	observer Observer
	rng      *rand.Rand
	debugf   func(string, ...interface{})

	current int
	state   State
	shuffle bool
	repeat  RepeatMode
	history *History
	seeking bool
	volume  float64
	speed   float64
	loaded  bool // Renderer holds the media of the current entry
}

// NewController creates a stopped controller and subscribes it to store changes
func NewController(store *playlist.Store, renderer Renderer, opts Options) *Controller {
	size := opts.HistorySize
	if size <= 0 {
		size = defaultHistorySize
	}

	debugf := opts.Debugf
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	c := &Controller{
		store:    store,
		renderer: renderer,
		opener:   opts.Opener,
		observer: opts.Observer,
		rng:      opts.Rand,
		debugf:   debugf,
		current:  -1,
		state:    Stopped,
		history:  NewHistory(size),
		volume:   1,
		speed:    1,
	}

	store.SetListener(c)

	return c
}

// SetObserver replaces the state observer
func (c *Controller) SetObserver(o Observer) {
	c.observer = o
}

// SetOpener replaces the file-open collaborator
func (c *Controller) SetOpener(o Opener) {
	c.opener = o
}

// Snapshot returns the current state
func (c *Controller) Snapshot() Snapshot {
	snap := Snapshot{
		State:   c.state,
		Current: c.current,
		Shuffle: c.shuffle,
		Repeat:  c.repeat,
		Seeking: c.seeking,
		Volume:  c.volume,
		Speed:   c.speed,
	}

	if e, ok := c.store.At(c.current); ok {
		snap.Entry = e
	}

	return snap
}

// Current returns the current index, or -1
func (c *Controller) Current() int {
	return c.current
}

// State returns the transport state
func (c *Controller) State() State {
	return c.state
}

// History exposes the previously played indices
func (c *Controller) History() *History {
	return c.history
}

// Store returns the playlist the controller plays from
func (c *Controller) Store() *playlist.Store {
	return c.store
}

// ========== Transport ==========

// PlayIndex starts the entry at index i. Invalid indices are ignored.
// If the renderer rejects the file the entry is dropped from the playlist
// and a *TrackError is returned (and reported to the observer).
func (c *Controller) PlayIndex(i int) error {
	return c.playIndex(i, true)
}

func (c *Controller) playIndex(i int, record bool) error {
	entry, ok := c.store.At(i)
	if !ok {
		return nil
	}

	if record && c.current != -1 && c.current != i {
		c.history.Push(c.current)
	}

	c.store.SetPlaying(i)
	c.current = i
	c.seeking = false

	c.debugf("[PLAYER] Opening %d: %s", i, entry.Path)

	c.loaded = false

	if err := c.renderer.Open(entry.Path); err != nil {
		return c.dropCurrent(err)
	}

	c.loaded = true

	c.renderer.SetVolume(c.volume)
	c.renderer.SetSpeed(c.speed)

	if err := c.renderer.Play(); err != nil {
		return c.dropCurrent(err)
	}

	c.state = Playing
	c.notify()

	return nil
}

// TogglePlayPause plays, pauses or resumes depending on the current state.
// With an empty playlist it asks the Opener for files instead.
func (c *Controller) TogglePlayPause() error {
	if c.store.Len() == 0 {
		if c.opener != nil {
			c.opener.RequestOpen()
		}

		return nil
	}

	switch c.state {
	case Playing:
		c.Pause()

		return nil
	case Paused:
		return c.resume()
	default:
		if c.current == -1 {
			return c.PlayIndex(0)
		}

		if !c.loaded {
			return c.playIndex(c.current, false)
		}

		return c.resume()
	}
}

// Pause pauses playback; no-op unless playing
func (c *Controller) Pause() {
	if c.state != Playing {
		return
	}

	c.renderer.Pause()
	c.state = Paused
	c.notify()
}

// resume continues the current entry where the renderer left it
func (c *Controller) resume() error {
	if c.current == -1 {
		return nil
	}

	if err := c.renderer.Play(); err != nil {
		return c.dropCurrent(err)
	}

	c.state = Playing
	c.notify()

	return nil
}

// Stop halts playback and rewinds; no-op if already stopped or nothing is loaded
func (c *Controller) Stop() {
	if c.state == Stopped || c.current == -1 {
		return
	}

	c.renderer.Stop()
	c.renderer.Seek(0)
	c.state = Stopped
	c.seeking = false
	c.notify()
}

// Next plays the following entry (random other entry when shuffling)
func (c *Controller) Next() error {
	n := c.store.Len()
	if n == 0 {
		return nil
	}

	if c.shuffle {
		return c.PlayIndex(c.randomOther(n))
	}

	if c.current < 0 {
		return c.PlayIndex(0)
	}

	return c.PlayIndex((c.current + 1) % n)
}

// Previous plays the preceding entry (random other entry when shuffling)
func (c *Controller) Previous() error {
	n := c.store.Len()
	if n == 0 {
		return nil
	}

	if c.shuffle {
		return c.PlayIndex(c.randomOther(n))
	}

	if c.current < 0 {
		return c.PlayIndex(n - 1)
	}

	return c.PlayIndex((c.current - 1 + n) % n)
}

// Back returns to the entry played before the current one.
// Falls back to Previous when there is no history.
func (c *Controller) Back() error {
	for {
		i, ok := c.history.Pop()
		if !ok {
			return c.Previous()
		}

		if i >= 0 && i < c.store.Len() && i != c.current {
			return c.playIndex(i, false)
		}
	}
}

// randomOther picks uniformly among indices other than current.
// A single-entry playlist degrades to that entry.
func (c *Controller) randomOther(n int) int {
	if n == 1 {
		return 0
	}

	if c.current < 0 || c.current >= n {
		return c.intN(n)
	}

	pick := c.intN(n - 1)
	if pick >= c.current {
		pick++
	}

	return pick
}

func (c *Controller) intN(n int) int {
	if c.rng != nil {
		return c.rng.IntN(n)
	}

	return rand.IntN(n)
}

// ========== Renderer events ==========

// OnOpened records the media length on the current entry.
// It reports false when the event belongs to a file that is no longer current.
func (c *Controller) OnOpened(info MediaInfo) bool {
	if !c.isCurrent(info.Path) {
		c.debugf("[PLAYER] Ignoring late open event for %s", info.Path)

		return false
	}

	if info.Duration > 0 {
		c.store.SetDuration(c.current, playlist.FormatLength(info.Duration))
	}

	c.notify()

	return true
}

// OnEnded advances according to the repeat mode.
// RepeatOff plays sequentially and stops after the last entry, ignoring shuffle.
// Events for another file, or arriving after a pause or stop, are ignored.
func (c *Controller) OnEnded(path string) error {
	if c.state != Playing || !c.isCurrent(path) {
		c.debugf("[PLAYER] Ignoring late end event for %s", path)

		return nil
	}

	switch c.repeat {
	case RepeatSingle:
		return c.PlayIndex(c.current)
	case RepeatAll:
		return c.Next()
	default:
		if c.current >= c.store.Len()-1 {
			c.Stop()

			return nil
		}

		return c.PlayIndex(c.current + 1)
	}
}

// OnFailed drops the current entry after the renderer reported an error for it.
// Failures of a file that is no longer current leave the playlist untouched.
func (c *Controller) OnFailed(path string, cause error) error {
	if !c.isCurrent(path) {
		c.debugf("[PLAYER] Ignoring late failure for %s: %v", path, cause)

		return nil
	}

	return c.dropCurrent(cause)
}

// isCurrent reports whether path is the file the renderer holds for the current entry
func (c *Controller) isCurrent(path string) bool {
	if c.current == -1 || !c.loaded {
		return false
	}

	entry, ok := c.store.At(c.current)

	return ok && playlist.SamePath(entry.Path, path)
}

// dropCurrent removes the failing entry and leaves the controller stopped with no track
func (c *Controller) dropCurrent(cause error) error {
	index := c.current
	entry, _ := c.store.At(index)

	c.renderer.Stop()
	c.current = -1
	c.state = Stopped
	c.seeking = false
	c.loaded = false

	// current is already -1, so the removal callback will not advance
	_ = c.store.Remove(index)

	err := &TrackError{Path: entry.Path, Err: cause}
	c.debugf("[PLAYER] Dropped unplayable entry %d: %v", index, err)

	if c.observer != nil {
		c.observer.Failed(err)
	}

	c.notify()

	return err
}

// ========== Modes ==========

// SetShuffle enables or disables shuffle
func (c *Controller) SetShuffle(enabled bool) {
	c.shuffle = enabled
	c.notify()
}

// ToggleShuffle flips shuffle and returns the new value
func (c *Controller) ToggleShuffle() bool {
	c.SetShuffle(!c.shuffle)

	return c.shuffle
}

// Shuffle reports whether shuffle is enabled
func (c *Controller) Shuffle() bool {
	return c.shuffle
}

// SetRepeat sets the repeat mode directly
func (c *Controller) SetRepeat(mode RepeatMode) {
	c.repeat = mode
	c.notify()
}

// CycleRepeat advances Off -> Single -> All -> Off and returns the new mode
func (c *Controller) CycleRepeat() RepeatMode {
	c.SetRepeat(c.repeat.Next())

	return c.repeat
}

// Repeat returns the repeat mode
func (c *Controller) Repeat() RepeatMode {
	return c.repeat
}

// ========== Seeking, volume, speed ==========

// BeginSeek suspends periodic time refresh while the user drags the position
func (c *Controller) BeginSeek() {
	if c.current == -1 {
		return
	}

	c.seeking = true
	c.notify()
}

// EndSeek applies the dragged position and resumes time refresh
func (c *Controller) EndSeek(seconds float64) {
	c.seeking = false

	if c.current != -1 {
		target := time.Duration(seconds * float64(time.Second))
		if target < 0 {
			target = 0
		}

		if d := c.renderer.Duration(); d > 0 && target > d {
			target = d
		}

		c.renderer.Seek(target)
	}

	c.notify()
}

// Seeking reports whether a seek drag is in progress
func (c *Controller) Seeking() bool {
	return c.seeking
}

// SetVolume sets the renderer volume, clamped to [0, 1]
func (c *Controller) SetVolume(v float64) float64 {
	c.volume = clamp(v, 0, 1)
	c.renderer.SetVolume(c.volume)
	c.notify()

	return c.volume
}

// SetSpeed sets the playback rate, clamped to a usable range
func (c *Controller) SetSpeed(ratio float64) float64 {
	c.speed = clamp(ratio, minSpeed, maxSpeed)
	c.renderer.SetSpeed(c.speed)
	c.notify()

	return c.speed
}

// Position returns the renderer position
func (c *Controller) Position() time.Duration {
	return c.renderer.Position()
}

// Duration returns the renderer's natural duration
func (c *Controller) Duration() time.Duration {
	return c.renderer.Duration()
}

// ========== playlist.Listener ==========

// EntryRemoved keeps the current index on its entry, or moves on when the
// current entry itself was removed
func (c *Controller) EntryRemoved(index int) {
	c.history.Removed(index)

	switch {
	case c.current == -1 || index > c.current:
		c.notify()
	case index < c.current:
		c.current--
		c.notify()
	default:
		c.currentRemoved(index)
	}
}

// currentRemoved moves to whatever entry slid into the removed slot
func (c *Controller) currentRemoved(index int) {
	wasStopped := c.state == Stopped
	c.current = -1

	if index >= c.store.Len() {
		c.renderer.Stop()
		c.state = Stopped
		c.seeking = false
		c.store.ClearPlaying()
		c.notify()

		return
	}

	c.loaded = false

	if wasStopped {
		c.current = index
		c.store.SetPlaying(index)
		c.notify()

		return
	}

	// Failures are reported to the observer by playIndex
	_ = c.playIndex(index, false)
}

// EntryMoved re-points the current index at the same entry after a reorder
func (c *Controller) EntryMoved(from, to int) {
	c.current = remapMoved(c.current, from, to)
	c.history.Moved(from, to)
	c.notify()
}

// Reset stops playback after the playlist was cleared or replaced
func (c *Controller) Reset() {
	if c.state != Stopped {
		c.renderer.Stop()
	}

	c.current = -1
	c.state = Stopped
	c.seeking = false
	c.loaded = false
	c.history.Clear()
	c.store.ClearPlaying()
	c.notify()
}

func (c *Controller) notify() {
	if c.observer != nil {
		c.observer.StateChanged(c.Snapshot())
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
