// ABOUTME: Messages and adapters that bring asynchronous events into the Bubble Tea loop
// ABOUTME: Renderer sink, controller observer, open prompt, refresh ticks and playlist file watching

package tui

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"mediaplayer/display"
	"mediaplayer/player"
	"mediaplayer/playlist"
	"mediaplayer/update"
)

// ========== Messages ==========

// Renderer events; path names the file that raised them
type (
	mediaOpenedMsg struct{ info player.MediaInfo }
	mediaEndedMsg  struct{ path string }
)

type mediaFailedMsg struct {
	path string
	err  error
}

// tickMsg refreshes the position readout; epoch drops ticks from a stopped timer
type tickMsg struct{ epoch int }

// hideControlsMsg fires ControlsHideDelay after the activity with the same token
type hideControlsMsg struct{ token int }

// seekCommitMsg ends a key-driven seek once presses stop arriving
type seekCommitMsg struct{ token int }

// updateResultMsg carries the outcome of a release check
type updateResultMsg struct {
	result update.Result
	err    error
}

// fileChangeMsg signals that a file in a watched directory changed on disk
type fileChangeMsg struct{ path string }

// reloadCompleteMsg carries entries read from the playlist file
type reloadCompleteMsg struct {
	entries []playlist.Entry
	skipped int
	force   bool // Apply even when the paths match the current playlist
	err     error
}

// probeCompleteMsg carries entries for paths typed at the open prompt
type probeCompleteMsg struct {
	entries   []playlist.Entry
	requested int
}

// browserOpenedMsg reports whether the download page could be opened
type browserOpenedMsg struct{ err error }

// ========== Adapters ==========

// programSink forwards renderer callbacks into the program as messages
type programSink struct {
	send func(tea.Msg)
}

func (s programSink) Opened(info player.MediaInfo) { s.send(mediaOpenedMsg{info: info}) }
func (s programSink) Ended(path string) { s.send(mediaEndedMsg{path: path}) }
func (s programSink) Failed(path string, err error) { s.send(mediaFailedMsg{path: path, err: err}) }

// displayObserver mirrors controller transitions into the display state
type displayObserver struct {
	sync  *display.Sync
	store *playlist.Store
}

func (o displayObserver) StateChanged(snap player.Snapshot) {
	o.sync.Apply(snap, o.store.Len())
}

func (o displayObserver) Failed(err error) {
	o.sync.Failed(err)
}

// promptOpener remembers that the controller asked for files
type promptOpener struct {
	requested bool
}

func (o *promptOpener) RequestOpen() {
	o.requested = true
}

// take reports and clears a pending request
func (o *promptOpener) take() bool {
	r := o.requested
	o.requested = false

	return r
}

// ========== Commands ==========

func tickCmd(epoch int) tea.Cmd {
	return tea.Tick(display.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{epoch: epoch}
	})
}

func hideControlsCmd(token int) tea.Cmd {
	return tea.Tick(display.ControlsHideDelay, func(time.Time) tea.Msg {
		return hideControlsMsg{token: token}
	})
}

func seekCommitCmd(token int) tea.Cmd {
	return tea.Tick(seekSettleDelay, func(time.Time) tea.Msg {
		return seekCommitMsg{token: token}
	})
}

// newPlaylistWatcher watches the directory holding path.
// Saves replace the file by rename, so watching the file itself would lose it.
func newPlaylistWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()

		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	return watcher, nil
}

// waitForFileChange returns a command that waits for writes in the watched directories.
// The receiver decides whether the changed file is the current playlist.
func waitForFileChange(watcher *fsnotify.Watcher, debugf func(string, ...interface{})) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					// Debounce: wait a bit for writers to finish
					time.Sleep(watchDebounce)

					return fileChangeMsg{path: filepath.Clean(event.Name)}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				// Log error but continue watching
				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}

// setPlaylistPath switches the file used by save/load and moves the watch to its directory
func (m *model) setPlaylistPath(path string) {
	path = absPath(path)
	oldDir := filepath.Dir(m.playlistPath)
	m.playlistPath = path

	newDir := filepath.Dir(path)
	if m.watcher == nil || oldDir == newDir {
		return
	}

	if err := m.watcher.Add(newDir); err != nil {
		m.debugf("[WATCHER] Failed to watch %s: %v", newDir, err)

		return
	}

	if err := m.watcher.Remove(oldDir); err != nil {
		m.debugf("[WATCHER] Failed to unwatch %s: %v", oldDir, err)
	}
}

// isPlaylistFile reports whether path is the current playlist file
func (m *model) isPlaylistFile(path string) bool {
	return m.playlistPath != "" && filepath.Clean(path) == filepath.Clean(m.playlistPath)
}

// reloadPlaylist reads and probes the playlist file in the background
func reloadPlaylist(store *playlist.Store, path string, force bool) tea.Cmd {
	return func() tea.Msg {
		entries, skipped, err := store.ReadFile(path)

		return reloadCompleteMsg{entries: entries, skipped: skipped, force: force, err: err}
	}
}

// probePaths reads tags for newly opened files in the background
func probePaths(store *playlist.Store, paths []string) tea.Cmd {
	return func() tea.Msg {
		return probeCompleteMsg{entries: store.ProbePaths(paths), requested: len(paths)}
	}
}
