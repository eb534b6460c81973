// ABOUTME: Playback state and repeat mode enums with string forms
// ABOUTME: Repeat cycles Off -> Single -> All -> Off

package player

// State is the transport state of the controller
type State int

// Transport states
const (
	Stopped State = iota
	Playing
	Paused
)

// String returns a human-readable representation of the state
func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// RepeatMode controls what happens when a track ends
type RepeatMode int

// Repeat modes
const (
	RepeatOff    RepeatMode = iota // Advance sequentially, stop after the last entry
	RepeatSingle                   // Replay the current entry
	RepeatAll                      // Advance with wraparound (or shuffle)
)

// Next returns the following mode in the Off -> Single -> All cycle
func (m RepeatMode) Next() RepeatMode {
	switch m {
	case RepeatOff:
		return RepeatSingle
	case RepeatSingle:
		return RepeatAll
	default:
		return RepeatOff
	}
}

// String returns a human-readable representation of the repeat mode
func (m RepeatMode) String() string {
	switch m {
	case RepeatSingle:
		return "single"
	case RepeatAll:
		return "all"
	default:
		return "off"
	}
}

// ParseRepeatMode converts a string to a RepeatMode, defaulting to RepeatOff
func ParseRepeatMode(s string) RepeatMode {
	switch s {
	case "single":
		return RepeatSingle
	case "all":
		return RepeatAll
	default:
		return RepeatOff
	}
}
