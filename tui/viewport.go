// ABOUTME: Playlist scrolling that keeps the cursor near the middle of the panel
// ABOUTME: The cursor moves freely near either end and the list scrolls in between

package tui

// scrollPhase names the part of the list the cursor is in
type scrollPhase int

const (
	phaseTop    scrollPhase = iota // Cursor moves, list pinned to the top
	phaseMiddle                    // Cursor held at the middle, list scrolls
	phaseBottom                    // List pinned to the end, cursor moves
)

// phaseOf classifies the cursor position for a panel of height lines
func phaseOf(height, cursor, total int) scrollPhase {
	if total == 0 || height < 1 {
		return phaseTop
	}

	middle := height / 2
	if cursor < middle {
		return phaseTop
	}

	if cursor < total-height+middle {
		return phaseMiddle
	}

	return phaseBottom
}

// scrollOffset returns the first visible row for the cursor position
func scrollOffset(height, cursor, total int) int {
	switch phaseOf(height, cursor, total) {
	case phaseTop:
		return 0
	case phaseMiddle:
		return cursor - height/2
	default:
		return max(total-height, 0)
	}
}
