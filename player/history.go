// ABOUTME: Bounded stack of previously played playlist indices
// ABOUTME: Keeps indices pointing at the same entries when the playlist is edited

package player

// History remembers which entries were playing before each jump
type History struct {
	stack   []int
	maxSize int
}

// NewHistory creates a history with the specified max stack size
func NewHistory(maxSize int) *History {
	return &History{
		stack:   []int{},
		maxSize: maxSize,
	}
}

// Push records an index, dropping the oldest when full
func (h *History) Push(index int) {
	h.stack = append(h.stack, index)

	if h.maxSize > 0 && len(h.stack) > h.maxSize {
		h.stack = h.stack[1:]
	}
}

// Pop returns the most recent index and true, or -1 and false when empty
func (h *History) Pop() (int, bool) {
	if len(h.stack) == 0 {
		return -1, false
	}

	index := h.stack[len(h.stack)-1]
	h.stack = h.stack[:len(h.stack)-1]

	return index, true
}

// Len returns the number of remembered indices
func (h *History) Len() int {
	return len(h.stack)
}

// Clear forgets everything
func (h *History) Clear() {
	h.stack = []int{}
}

// Removed drops references to a removed entry and shifts later ones down
func (h *History) Removed(index int) {
	kept := h.stack[:0]

	for _, i := range h.stack {
		switch {
		case i == index:
			continue
		case i > index:
			kept = append(kept, i-1)
		default:
			kept = append(kept, i)
		}
	}

	h.stack = kept
}

// Moved remaps indices after an entry moved from one position to another
func (h *History) Moved(from, to int) {
	for k, i := range h.stack {
		h.stack[k] = remapMoved(i, from, to)
	}
}

// remapMoved returns where index ends up after the entry at from moves to to
func remapMoved(index, from, to int) int {
	switch {
	case index == from:
		return to
	case from < index && index <= to:
		return index - 1
	case to <= index && index < from:
		return index + 1
	default:
		return index
	}
}
