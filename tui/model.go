// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model wiring the playlist store, playback controller and display state

// Package tui provides the interactive terminal front end of the media player.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"mediaplayer/config"
	"mediaplayer/display"
	"mediaplayer/player"
	"mediaplayer/playlist"
	"mediaplayer/update"
)

// Layout constants for UI dimensions
const (
	artPanelWidth = 30 // Left "album art" panel shown for audio-only media
	panelPadding  = 2  // Horizontal spacing between panels

	// UI chrome heights (elements that reduce available viewport space)
	titleHeight     = 2 // Panel title bars
	headerHeight    = 1 // Column headers for playlist
	transportHeight = 2 // Progress bar and mode line
	inputHeight     = 1 // Prompt line
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 3
)

// Interaction constants
const (
	pageJumpSize          = 10              // Number of tracks to jump on PageUp/PageDown
	statusMessageDuration = 5 * time.Second // How long to show transient status messages
	seekStep              = 5.0             // Seconds moved per seek key press
	seekSettleDelay       = 400 * time.Millisecond
	volumeStep            = 0.05
	speedStep             = 0.25
	watchDebounce         = 100 * time.Millisecond
)

// inputMode selects what the prompt line is collecting
type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeOpen
	modeSave
	modeLoad
	modeConfirmUpdate
)

// Deps holds the collaborators the TUI drives
type Deps struct {
	Store    *playlist.Store
	Renderer player.Renderer
	Settings *config.Store
	Checker  *update.Checker
	OpenURL  func(string) error // Opens the download page
	Debugf   func(string, ...interface{})
}

// Options contains configuration for running the TUI
type Options struct {
	PlaylistPath string // Playlist file used by save/load and watched for external edits
	Watch        bool   // Reload the playlist when the file changes on disk
}

// model holds the TUI state
type model struct {
	// Shared state (pointers so copies made by Bubble Tea see one instance)
	store    *playlist.Store
	ctrl     *player.Controller
	sync     *display.Sync
	opener   *promptOpener
	settings *config.Store
	checker  *update.Checker
	guard    *update.Guard
	openURL  func(string) error

	cancelCheck context.CancelFunc // Aborts the running release check
	debugf   func(string, ...interface{})

	// Refresh timer
	tickEpoch int  // Increments each time the refresh timer restarts to drop stale ticks
	ticking   bool // A tick is scheduled for tickEpoch

	// Seek drag emulated with repeated key presses
	seekTarget float64
	seekToken  int

	// File watching
	playlistPath string
	watcher      *fsnotify.Watcher

	// Prompt line
	mode          inputMode
	input         textinput.Model
	filter        playlist.View
	updateURL     string
	playAfterOpen bool // The open prompt was raised by play on an empty playlist

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string    // Temporary status message (e.g., "Playlist saved")
	statusMsgAge time.Time // When status message was set
	theme        theme

	// Track browsing
	cursorPos int // Position within the filtered list
	viewport  viewport.Model
	bar       progress.Model
	help      help.Model
}

// Run starts the TUI with injected dependencies
func Run(opts Options, deps Deps) error {
	m := initModel(opts, deps)

	if opts.Watch && m.playlistPath != "" {
		watcher, err := newPlaylistWatcher(m.playlistPath)
		if err != nil {
			m.debugf("[WATCHER] Disabled: %v", err)
		} else {
			m.watcher = watcher
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	if s, ok := deps.Renderer.(interface{ SetSink(player.EventSink) }); ok {
		s.SetSink(programSink{send: p.Send})
	}

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if fm, ok := finalModel.(model); ok {
		fm.stopUpdateCheck()
		fm.ctrl.Stop()
	}

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(opts Options, deps Deps) model {
	debugf := deps.Debugf
	if debugf == nil {
		debugf = func(string, ...interface{}) {}
	}

	settings := config.DefaultSettings()
	if deps.Settings != nil {
		settings = deps.Settings.Settings()
	}

	sync := display.NewSync(settings.Volume)
	opener := &promptOpener{}

	ctrl := player.NewController(deps.Store, deps.Renderer, player.Options{
		Opener:   opener,
		Observer: displayObserver{sync: sync, store: deps.Store},
		Debugf:   debugf,
	})
	ctrl.SetVolume(settings.Volume)
	ctrl.SetShuffle(settings.Shuffle)
	ctrl.SetRepeat(player.ParseRepeatMode(settings.Repeat))

	input := textinput.New()
	input.CharLimit = 4096

	m := model{
		store:    deps.Store,
		ctrl:     ctrl,
		sync:     sync,
		opener:   opener,
		settings: deps.Settings,
		checker:  deps.Checker,
		guard:    &update.Guard{},
		openURL:  deps.OpenURL,
		debugf:   debugf,

		playlistPath: absPath(opts.PlaylistPath),

		input:  input,
		filter: deps.Store.Filter(""),

		theme:    themeFor(settings.Theme),
		viewport: viewport.New(0, 0), // Width and height set on first WindowSizeMsg
		help:     help.New(),
	}
	m.applyTheme()

	return m
}

// ========== Bubble Tea Lifecycle ==========

// Init initializes the model
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}

	if m.watcher != nil {
		cmds = append(cmds, waitForFileChange(m.watcher, m.debugf))
	}

	return tea.Batch(cmds...)
}

// ========== Helpers ==========

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(r[:maxLen])
	}

	return string(r[:maxLen-3]) + "..."
}

// absPath makes path absolute so watcher events compare equal; empty stays empty
func absPath(path string) string {
	if path == "" {
		return ""
	}

	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}

	return path
}

// setStatusMsg sets a transient status message with current timestamp
func (m *model) setStatusMsg(msg string) {
	m.statusMsg = msg
	m.statusMsgAge = time.Now()
}

// visible returns the store indices shown in the playlist panel
func (m *model) visible() []int {
	return m.filter.Indices()
}

// selected returns the store index under the cursor, or -1
func (m *model) selected() int {
	indices := m.visible()
	if m.cursorPos < 0 || m.cursorPos >= len(indices) {
		return -1
	}

	return indices[m.cursorPos]
}

// clampCursor keeps the cursor inside the filtered list
func (m *model) clampCursor() {
	n := len(m.visible())

	switch {
	case n == 0:
		m.cursorPos = 0
	case m.cursorPos >= n:
		m.cursorPos = n - 1
	case m.cursorPos < 0:
		m.cursorPos = 0
	}
}

// ensureCursorVisible adjusts viewport offset to keep cursor visible with middle-of-screen scrolling
func (m *model) ensureCursorVisible() {
	m.viewport.SetYOffset(scrollOffset(m.viewport.Height, m.cursorPos, len(m.visible())))
}

// refresh pulls derived state after any controller or store change
func (m *model) refresh() {
	m.sync.Apply(m.ctrl.Snapshot(), m.store.Len())

	if notice := m.sync.TakeNotice(); notice != "" {
		m.setStatusMsg(notice)
	}

	m.clampCursor()
	m.ensureCursorVisible()
	m.updateViewportContent()
}

// persist records a settings change, reporting failures in the status bar
func (m *model) persist(fn func(*config.Settings)) {
	if m.settings == nil {
		return
	}

	if err := m.settings.Update(fn); err != nil {
		m.debugf("[TUI] Failed to save settings: %v", err)
		m.setStatusMsg(fmt.Sprintf("Could not save settings: %v", err))
	}
}
