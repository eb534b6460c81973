// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function, layout and all render helpers

package tui

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"mediaplayer/display"
	"mediaplayer/player"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Stopping playback and exiting...\n"
	}

	st := m.sync.State()

	sections := []string{m.renderTitle(), m.renderBody(st)}

	if st.ControlsVisible {
		sections = append(sections, m.renderTransport(st))
	}

	sections = append(sections, m.renderPrompt(), m.renderStatus())

	if st.ControlsVisible {
		sections = append(sections, m.renderHelp())
	}

	return strings.Join(sections, "\n")
}

// ========== Layout ==========

// bodyHeight returns the rows left for the media and playlist panels
func (m *model) bodyHeight(st display.State) int {
	chrome := titleHeight + inputHeight + statusBarHeight
	if st.ControlsVisible {
		chrome += transportHeight + helpHeight
	}

	return max(m.height-chrome, minViewportHeight+headerHeight)
}

// layout sizes the viewport, progress bar and help line for the window
func (m *model) layout() {
	st := m.sync.State()

	m.viewport.Width = max(m.width-artPanelWidth-panelPadding, minViewportWidth)
	m.viewport.Height = max(m.bodyHeight(st)-headerHeight, minViewportHeight)
	m.bar.Width = max(m.width-2*len(display.ZeroClock)-4, minViewportWidth)
	m.help.Width = m.width

	m.ensureCursorVisible()
	m.updateViewportContent()
}

// applyTheme restyles the bar and help line after a theme change
func (m *model) applyTheme() {
	width := m.bar.Width
	m.bar = progress.New(progress.WithGradient(m.theme.barFrom, m.theme.barTo), progress.WithoutPercentage())
	m.bar.Width = width

	m.help.Styles.ShortKey = m.theme.title
	m.help.Styles.ShortDesc = m.theme.help
	m.help.Styles.ShortSeparator = m.theme.help
}

// ========== Panels ==========

// renderTitle renders the application title with the loaded entry
func (m model) renderTitle() string {
	title := m.theme.title.Render("♪ mediaplayer")

	snap := m.ctrl.Snapshot()
	if snap.Current != -1 {
		title += "  " + m.theme.row.Render(truncate(fmt.Sprintf("%s · %s", snap.Entry.Title, snap.Entry.Artist), max(m.width-16, 10)))
	}

	return title + "\n"
}

// renderBody renders the media panel and, when shown, the playlist beside it
func (m model) renderBody(st display.State) string {
	height := m.bodyHeight(st)

	if !st.PlaylistVisible {
		return m.renderMedia(st, max(m.width, minViewportWidth), height)
	}

	left := m.renderMedia(st, artPanelWidth, height)

	right := lipgloss.NewStyle().
		Width(m.viewport.Width).
		Height(height).
		PaddingLeft(panelPadding).
		Render(m.renderPlaylist())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

// renderMedia renders the album-art panel for audio, or the video surface
func (m model) renderMedia(st display.State, width, height int) string {
	var content string

	snap := m.ctrl.Snapshot()

	switch {
	case snap.Current == -1:
		content = "♫\n\nNo media loaded\n\nPress o to open files"
	case st.AudioOnly:
		content = fmt.Sprintf("♫\n\n%s\n%s",
			truncate(snap.Entry.Title, max(width-4, 1)),
			truncate(snap.Entry.Artist, max(width-4, 1)))
	default:
		content = "▶ Video"
		if st.Fullscreen {
			content += "\n\n(f to leave fullscreen)"
		}
	}

	// Border takes one row and column on each side
	return m.theme.art.
		Width(max(width-2, 1)).
		Height(max(height-2, 1)).
		Render(content)
}

// renderPlaylist renders the playlist with viewport scrolling
func (m model) renderPlaylist() string {
	title := fmt.Sprintf("Playlist (%d)", m.store.Len())
	if p := m.filter.Pattern(); p != "" {
		title += fmt.Sprintf(" matching %q: %d", p, m.filter.Len())
	}

	titleW, artistW := m.columnWidths()
	header := fmt.Sprintf("  %-4s %-*s %-*s %8s", "#", titleW, "Title", artistW, "Artist", "Duration")

	// Viewport content is set in Update()
	return m.theme.title.Render(title) + "\n" + m.theme.header.Render(header) + "\n" + m.viewport.View()
}

// columnWidths splits the playlist width between title and artist
func (m *model) columnWidths() (int, int) {
	avail := max(m.viewport.Width-panelPadding-18, 12)
	titleW := avail * 3 / 5

	return titleW, avail - titleW
}

// updateViewportContent builds and sets the viewport content
// Renders ALL filtered entries - let viewport handle scrolling
func (m *model) updateViewportContent() {
	var b strings.Builder

	titleW, artistW := m.columnWidths()

	row := 0
	for idx, entry := range m.filter.All() {
		marker := "  "
		if entry.Playing {
			marker = "▶ "
		}

		line := fmt.Sprintf("%s%-4d %-*s %-*s %8s",
			marker,
			idx+1,
			titleW, truncate(entry.Title, titleW),
			artistW, truncate(entry.Artist, artistW),
			entry.DisplayDuration(),
		)

		switch {
		case row == m.cursorPos:
			line = m.theme.cursor.Render(line)
		case entry.Playing:
			line = m.theme.playing.Render(line)
		default:
			line = m.theme.row.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")

		row++
	}

	m.viewport.SetContent(b.String())
}

// renderTransport renders the position bar and the playback modes
func (m model) renderTransport(st display.State) string {
	pct := 0.0
	if st.SliderMax > 0 {
		pct = st.SliderValue / st.SliderMax
	}

	bar := m.theme.clock.Render(st.ElapsedText) + " " + m.bar.ViewAs(pct) + " " + m.theme.clock.Render(st.DurationText)

	snap := m.ctrl.Snapshot()

	volume := fmt.Sprintf("Vol %3.0f%%", st.Volume*100)
	if st.Muted {
		volume = "Muted"
	}

	modes := fmt.Sprintf("%s %s | Shuffle %s | Repeat %s | %s | Speed %.2fx",
		stateIcon(snap.State), snap.State, onOff(snap.Shuffle), snap.Repeat, volume, snap.Speed)

	if snap.Seeking {
		modes += " | Seeking"
	}

	return bar + "\n" + m.theme.mode.Render(modes)
}

// renderPrompt renders the active prompt, or a blank line
func (m model) renderPrompt() string {
	if m.mode == modeNormal || m.mode == modeConfirmUpdate {
		return ""
	}

	return m.theme.prompt.Render(m.input.View())
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	// Show status message if recent, or while a question is open
	if m.statusMsg != "" && (m.mode == modeConfirmUpdate || time.Since(m.statusMsgAge) < statusMessageDuration) {
		return m.theme.status.Width(m.width).Render(m.statusMsg)
	}

	status := fmt.Sprintf("%d tracks", m.store.Len())
	if n := m.filter.Len(); n > 0 {
		status += fmt.Sprintf(" | Track %d/%d", m.cursorPos+1, n)
	}

	if m.playlistPath != "" {
		status += " | " + m.playlistPath
	}

	return m.theme.status.Width(m.width).Render(status)
}

// renderHelp renders the help text
func (m model) renderHelp() string {
	return m.help.View(keys)
}

func stateIcon(s player.State) string {
	switch s {
	case player.Playing:
		return "▶"
	case player.Paused:
		return "⏸"
	default:
		return "■"
	}
}
