// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and message handlers

package tui

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"mediaplayer/config"
	"mediaplayer/player"
	"mediaplayer/playlist"
	"mediaplayer/update"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()

		return m, nil

	case tickMsg:
		// Ignore ticks from a timer that was stopped or restarted
		if msg.epoch != m.tickEpoch || !m.ticking {
			return m, nil
		}

		if m.ctrl.State() != player.Playing {
			m.ticking = false

			return m, nil
		}

		m.sync.Tick(m.ctrl.Position(), m.ctrl.Duration())

		return m, tickCmd(m.tickEpoch)

	case mediaOpenedMsg:
		if !m.ctrl.OnOpened(msg.info) {
			return m, nil
		}

		m.sync.Opened(msg.info, m.store.Len())
		m.layout()
		m.refresh()

		return m, nil

	case mediaEndedMsg:
		cmd := m.afterPlayback(m.ctrl.OnEnded(msg.path))

		return m, cmd

	case mediaFailedMsg:
		cmd := m.afterPlayback(m.ctrl.OnFailed(msg.path, msg.err))

		return m, cmd

	case hideControlsMsg:
		if m.sync.HideIfIdle(msg.token) {
			m.layout()
		}

		return m, nil

	case seekCommitMsg:
		if msg.token != m.seekToken || !m.ctrl.Seeking() {
			return m, nil
		}

		m.ctrl.EndSeek(m.seekTarget)
		m.refresh()
		m.sync.Tick(m.ctrl.Position(), m.ctrl.Duration())

		cmd := m.syncTicker()

		return m, cmd

	case updateResultMsg:
		cmd := m.handleUpdateResult(msg)

		return m, cmd

	case browserOpenedMsg:
		if msg.err != nil {
			m.setStatusMsg(fmt.Sprintf("Could not open browser: %v", msg.err))
		}

		return m, nil

	case fileChangeMsg:
		cmds := []tea.Cmd{waitForFileChange(m.watcher, m.debugf)} // Continue watching

		if m.isPlaylistFile(msg.path) {
			m.debugf("[WATCHER] Playlist changed: %s", m.playlistPath)
			cmds = append(cmds, reloadPlaylist(m.store, m.playlistPath, false))
		}

		return m, tea.Batch(cmds...)

	case reloadCompleteMsg:
		m.handleReload(msg)

		cmd := m.syncTicker()

		return m, cmd

	case probeCompleteMsg:
		cmd := m.handleProbeComplete(msg)

		return m, cmd

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)

		return m, cmd

	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.handleInputKey(msg)
		}

		return m.handleKey(msg)
	}

	return m, nil
}

// ========== Playback helpers ==========

// afterPlayback refreshes derived state after a controller command and keeps the timer in step
func (m *model) afterPlayback(err error) tea.Cmd {
	if err != nil {
		m.debugf("[TUI] Playback error: %v", err)
	}

	if m.opener.take() {
		m.playAfterOpen = true
		m.beginInput(modeOpen, "Open: ", "")
	}

	m.refresh()

	return m.syncTicker()
}

// syncTicker starts the refresh timer when playback starts and stops it otherwise
func (m *model) syncTicker() tea.Cmd {
	playing := m.ctrl.State() == player.Playing

	switch {
	case playing && !m.ticking:
		m.tickEpoch++
		m.ticking = true

		return tickCmd(m.tickEpoch)
	case !playing && m.ticking:
		// Increment epoch to invalidate the pending tick
		m.tickEpoch++
		m.ticking = false
	}

	return nil
}

// seekBy moves the pending seek target, starting a seek if none is active
func (m *model) seekBy(delta float64) tea.Cmd {
	if m.ctrl.Current() == -1 {
		return nil
	}

	if !m.ctrl.Seeking() {
		m.seekTarget = m.ctrl.Position().Seconds()
		m.ctrl.BeginSeek()
	}

	m.seekTarget += delta
	if m.seekTarget < 0 {
		m.seekTarget = 0
	}

	if d := m.ctrl.Duration().Seconds(); d > 0 && m.seekTarget > d {
		m.seekTarget = d
	}

	m.sync.SetSeekPreview(m.seekTarget)
	m.seekToken++

	return seekCommitCmd(m.seekToken)
}

// ========== Key handling ==========

// handleKey handles keys when no prompt is active
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		return m.handleQuitKey()

	case key.Matches(msg, keys.PlayPause):
		cmd := m.afterPlayback(m.ctrl.TogglePlayPause())

		return m, cmd

	case key.Matches(msg, keys.PlaySelected):
		if idx := m.selected(); idx >= 0 {
			cmd := m.afterPlayback(m.ctrl.PlayIndex(idx))

			return m, cmd
		}

	case key.Matches(msg, keys.Stop):
		m.ctrl.Stop()

		cmd := m.afterPlayback(nil)

		return m, cmd

	case key.Matches(msg, keys.Next):
		cmd := m.afterPlayback(m.ctrl.Next())

		return m, cmd

	case key.Matches(msg, keys.Previous):
		cmd := m.afterPlayback(m.ctrl.Previous())

		return m, cmd

	case key.Matches(msg, keys.Back):
		cmd := m.afterPlayback(m.ctrl.Back())

		return m, cmd

	case key.Matches(msg, keys.Shuffle):
		on := m.ctrl.ToggleShuffle()
		m.persist(func(s *config.Settings) { s.Shuffle = on })
		m.setStatusMsg(fmt.Sprintf("Shuffle %s", onOff(on)))

	case key.Matches(msg, keys.Repeat):
		mode := m.ctrl.CycleRepeat()
		m.persist(func(s *config.Settings) { s.Repeat = mode.String() })
		m.setStatusMsg(fmt.Sprintf("Repeat %s", mode))

	case key.Matches(msg, keys.SeekBack):
		cmd := m.seekBy(-seekStep)

		return m, cmd

	case key.Matches(msg, keys.SeekForward):
		cmd := m.seekBy(seekStep)

		return m, cmd

	case key.Matches(msg, keys.VolumeUp):
		m.ctrl.SetVolume(m.sync.AdjustVolume(volumeStep))

	case key.Matches(msg, keys.VolumeDown):
		m.ctrl.SetVolume(m.sync.AdjustVolume(-volumeStep))

	case key.Matches(msg, keys.Mute):
		m.ctrl.SetVolume(m.sync.ToggleMute())

	case key.Matches(msg, keys.SpeedUp):
		m.ctrl.SetSpeed(m.ctrl.Snapshot().Speed + speedStep)

	case key.Matches(msg, keys.SpeedDown):
		m.ctrl.SetSpeed(m.ctrl.Snapshot().Speed - speedStep)

	case key.Matches(msg, keys.Fullscreen):
		if !m.sync.ToggleFullscreen() {
			m.setStatusMsg("Fullscreen is only available while a video is loaded")
		}

		m.layout()

	case key.Matches(msg, keys.TogglePlaylist):
		m.sync.TogglePlaylist()
		m.layout()

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, keys.PageUp):
		m.moveCursor(-pageJumpSize)

	case key.Matches(msg, keys.PageDown):
		m.moveCursor(pageJumpSize)

	case key.Matches(msg, keys.Home):
		m.cursorPos = 0
		m.refresh()

	case key.Matches(msg, keys.End):
		m.cursorPos = len(m.visible()) - 1
		m.refresh()

	case key.Matches(msg, keys.MoveUp):
		m.moveEntry(-1)

	case key.Matches(msg, keys.MoveDown):
		m.moveEntry(1)

	case key.Matches(msg, keys.Delete):
		m.deleteEntry()

		cmd := m.syncTicker()

		return m, cmd

	case key.Matches(msg, keys.Search):
		m.beginInput(modeSearch, "Search: ", m.filter.Pattern())

	case key.Matches(msg, keys.Open):
		m.playAfterOpen = false
		m.beginInput(modeOpen, "Open: ", "")

	case key.Matches(msg, keys.Save):
		m.beginInput(modeSave, "Save playlist to: ", m.playlistPath)

	case key.Matches(msg, keys.Load):
		m.beginInput(modeLoad, "Load playlist from: ", m.playlistPath)

	case key.Matches(msg, keys.Theme):
		m.cycleTheme()

	case key.Matches(msg, keys.CheckUpdate):
		cmd := m.startUpdateCheck()

		return m, cmd
	}

	m.refresh()

	return m, nil
}

// handleInputKey routes keys to the prompt line
func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == modeConfirmUpdate {
		return m.handleConfirmKey(msg)
	}

	switch msg.Type {
	case tea.KeyEsc:
		if m.mode == modeSearch {
			m.filter = m.store.Filter("")
		}

		m.playAfterOpen = false

		m.endInput()
		m.refresh()

		return m, nil

	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.endInput()

		cmd := m.submitInput(mode, value)

		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	// Search filters live while typing
	if m.mode == modeSearch {
		m.filter = m.store.Filter(m.input.Value())
		m.cursorPos = 0
		m.refresh()
	}

	return m, cmd
}

// handleConfirmKey answers the "open download page" question
func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch strings.ToLower(msg.String()) {
	case "y", "enter":
		url := m.updateURL
		m.endInput()

		if m.openURL == nil || url == "" {
			return m, nil
		}

		openURL := m.openURL

		return m, func() tea.Msg {
			return browserOpenedMsg{err: openURL(url)}
		}

	case "n", "esc":
		m.endInput()
		m.setStatusMsg("Update skipped")
	}

	return m, nil
}

// submitInput acts on a confirmed prompt
func (m *model) submitInput(mode inputMode, value string) tea.Cmd {
	switch mode {
	case modeSearch:
		m.filter = m.store.Filter(value)
		m.cursorPos = 0
		m.refresh()

	case modeOpen:
		paths := expandPaths(value)
		if len(paths) == 0 {
			m.playAfterOpen = false
			m.setStatusMsg("No playable files found")

			return nil
		}

		m.setStatusMsg(fmt.Sprintf("Reading %d file(s)...", len(paths)))

		return probePaths(m.store, paths)

	case modeSave:
		if value == "" {
			return nil
		}

		if err := m.store.SaveFile(value); err != nil {
			m.setStatusMsg(fmt.Sprintf("Save failed: %v", err))

			return nil
		}

		m.setPlaylistPath(value)
		m.setStatusMsg(fmt.Sprintf("Saved %d tracks to %s", m.store.Len(), value))

	case modeLoad:
		if value == "" {
			return nil
		}

		m.setPlaylistPath(value)

		return reloadPlaylist(m.store, m.playlistPath, true)
	}

	return nil
}

// beginInput focuses the prompt line
func (m *model) beginInput(mode inputMode, prompt, value string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

// endInput returns to normal key handling
func (m *model) endInput() {
	m.mode = modeNormal
	m.input.Blur()
	m.input.SetValue("")
}

// handleQuitKey saves settings and stops playback
func (m model) handleQuitKey() (tea.Model, tea.Cmd) {
	m.quitting = true

	snap := m.ctrl.Snapshot()
	m.persist(func(s *config.Settings) {
		s.Volume = m.sync.State().Volume
		s.Shuffle = snap.Shuffle
		s.Repeat = snap.Repeat.String()
	})

	m.stopUpdateCheck()
	m.ctrl.Stop()

	return m, tea.Quit
}

// moveCursor moves within the filtered list
func (m *model) moveCursor(delta int) {
	m.cursorPos += delta
	m.clampCursor()
	m.refresh()
}

// moveEntry reorders the selected entry; disabled while searching
func (m *model) moveEntry(delta int) {
	if m.filter.Pattern() != "" {
		m.setStatusMsg("Clear the search to reorder tracks")

		return
	}

	from := m.selected()
	if from < 0 {
		return
	}

	to := from + delta
	if err := m.store.Move(from, to); err != nil {
		return // Already at the edge
	}

	m.cursorPos = to
	m.refresh()
}

// deleteEntry removes the selected entry
func (m *model) deleteEntry() {
	idx := m.selected()
	if idx < 0 {
		return
	}

	entry, _ := m.store.At(idx)

	if err := m.store.Remove(idx); err != nil {
		m.debugf("[TUI] Remove failed: %v", err)

		return
	}

	m.setStatusMsg(fmt.Sprintf("Removed %s", entry.Title))
	m.refresh()
}

// cycleTheme switches to the next theme and persists it immediately
func (m *model) cycleTheme() {
	next := config.NextTheme(m.theme.name)
	m.theme = themeFor(next)
	m.applyTheme()

	if m.settings != nil {
		if err := m.settings.SetTheme(next); err != nil {
			m.debugf("[TUI] Failed to save theme: %v", err)
		}
	}

	m.setStatusMsg(fmt.Sprintf("Theme: %s", next))
	m.updateViewportContent()
}

// ========== Async results ==========

// startUpdateCheck runs one release check unless one is already running
func (m *model) startUpdateCheck() tea.Cmd {
	if m.checker == nil {
		m.setStatusMsg("Update checks are not configured")

		return nil
	}

	if err := m.guard.Begin(); err != nil {
		m.setStatusMsg(update.Message(err))

		return nil
	}

	m.setStatusMsg("Checking for updates...")

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCheck = cancel
	checker := m.checker

	return func() tea.Msg {
		res, err := checker.Check(ctx)

		return updateResultMsg{result: res, err: err}
	}
}

// stopUpdateCheck cancels a running release check, if any
func (m *model) stopUpdateCheck() {
	if m.cancelCheck != nil {
		m.cancelCheck()
		m.cancelCheck = nil
	}
}

// handleUpdateResult reports the check and offers the download page
func (m *model) handleUpdateResult(msg updateResultMsg) tea.Cmd {
	m.guard.Done()
	m.stopUpdateCheck()

	if msg.err != nil {
		m.debugf("[UPDATE] Check failed: %v", msg.err)
		m.setStatusMsg(update.Message(msg.err))

		return nil
	}

	if !msg.result.UpdateAvailable || msg.result.DownloadURL == "" {
		m.setStatusMsg(msg.result.Summary())

		return nil
	}

	m.updateURL = msg.result.DownloadURL
	m.mode = modeConfirmUpdate
	m.setStatusMsg(msg.result.Summary() + " Open the download page? (y/n)")

	return nil
}

// handleReload applies a playlist read from disk
func (m *model) handleReload(msg reloadCompleteMsg) {
	if msg.err != nil {
		m.setStatusMsg(fmt.Sprintf("Failed to load playlist: %v", msg.err))

		return
	}

	if !msg.force && samePaths(msg.entries, m.store.Paths()) {
		return // Our own save, or a write that changed nothing
	}

	duplicates := m.store.Replace(msg.entries)
	m.filter = m.store.Filter(m.filter.Pattern())
	m.cursorPos = 0

	status := fmt.Sprintf("Loaded %d tracks from %s", m.store.Len(), m.playlistPath)
	if msg.skipped > 0 {
		status += fmt.Sprintf(" (%d missing skipped)", msg.skipped)
	}

	if duplicates > 0 {
		status += fmt.Sprintf(" (%d duplicates removed)", duplicates)
	}

	m.setStatusMsg(status)
	m.refresh()
}

// handleProbeComplete adds opened files and starts playback if play triggered the prompt
func (m *model) handleProbeComplete(msg probeCompleteMsg) tea.Cmd {
	first := m.store.Len()
	added := 0

	for _, e := range msg.entries {
		if m.store.Add(e) {
			added++
		}
	}

	status := fmt.Sprintf("Added %d of %d file(s)", added, msg.requested)
	if dup := len(msg.entries) - added; dup > 0 {
		status += fmt.Sprintf(", %d already in playlist", dup)
	}

	m.setStatusMsg(status)

	var err error
	if m.playAfterOpen && added > 0 && m.ctrl.Current() == -1 {
		err = m.ctrl.PlayIndex(first)
	}

	m.playAfterOpen = false

	return m.afterPlayback(err)
}

// handleMouse shows the controls and schedules hiding them again
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	wasHidden := !m.sync.State().ControlsVisible
	token := m.sync.Activity()

	if wasHidden {
		m.layout()
	}

	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.moveCursor(-1)
		case tea.MouseButtonWheelDown:
			m.moveCursor(1)
		}
	}

	if !m.sync.State().Fullscreen {
		return nil
	}

	return hideControlsCmd(token)
}

// samePaths compares probed entries with the current store order
func samePaths(entries []playlist.Entry, paths []string) bool {
	if len(entries) != len(paths) {
		return false
	}

	for i, e := range entries {
		if e.Path != paths[i] {
			return false
		}
	}

	return true
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}
