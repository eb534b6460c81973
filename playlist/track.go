// ABOUTME: Defines the Entry record for one playlist item and reads its display metadata
// ABOUTME: Probes audio file tags for title, artist and duration with filename fallbacks

package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dhowden/tag"
)

// Display defaults used when a file carries no usable tags
const (
	UnknownArtist    = "Unknown Artist"
	DefaultThumbnail = "Icons/musical-note.png"
	UnknownDuration  = "--:--"
)

// Entry represents one playlist item
type Entry struct {
	Path      string // Absolute file path, unique key (compared case-insensitively)
	Title     string // Track title (falls back to file name without extension)
	Artist    string // Artist name (falls back to UnknownArtist)
	Duration  string // Formatted duration, empty when not yet known
	Thumbnail string // Album art path shown in the album-art panel
	Playing   bool   // Derived display flag, true for at most one entry in a Store
}

// NewEntry builds an entry for path using only the file name
func NewEntry(path string) Entry {
	return Entry{
		Path:      path,
		Title:     titleFromPath(path),
		Artist:    UnknownArtist,
		Thumbnail: DefaultThumbnail,
	}
}

// DisplayDuration returns the duration or a placeholder when unknown
func (e Entry) DisplayDuration() string {
	if e.Duration == "" {
		return UnknownDuration
	}

	return e.Duration
}

// SamePath reports whether two paths refer to the same entry
// Comparison ignores case, matching how the player treats Windows paths
func SamePath(a, b string) bool {
	return strings.EqualFold(filepath.Clean(a), filepath.Clean(b))
}

// Probe builds an Entry for path, reading tags when the file has them.
// Files without readable tags still produce an entry with filename defaults;
// only a missing or unreadable file is an error.
func Probe(path string) (Entry, error) {
	entry := NewEntry(path)

	file, err := os.Open(path)
	if err != nil {
		return entry, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	metadata, err := tag.ReadFrom(file)
	if err != nil {
		// No tags (wav, video containers) is not fatal
		return entry, nil
	}

	if title := strings.TrimSpace(metadata.Title()); title != "" {
		entry.Title = title
	}

	if artist := strings.TrimSpace(metadata.Artist()); artist != "" {
		entry.Artist = artist
	}

	entry.Duration = durationFromRaw(metadata.Raw())

	return entry, nil
}

// durationFromRaw extracts a track length from raw tag frames when present
// ID3v2 stores it as TLEN in milliseconds
func durationFromRaw(raw map[string]interface{}) string {
	if raw == nil {
		return ""
	}

	for _, key := range []string{"TLEN", "TLE", "length"} {
		val, exists := raw[key]
		if !exists {
			continue
		}

		var ms int

		switch v := val.(type) {
		case string:
			ms, _ = strconv.Atoi(strings.TrimSpace(v))
		case int:
			ms = v
		}

		if ms > 0 {
			return FormatLength(time.Duration(ms) * time.Millisecond)
		}
	}

	return ""
}

// FormatLength renders a track length as m:ss, or h:mm:ss past an hour
func FormatLength(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%d:%02d", m, s)
}

// titleFromPath returns the file name without its extension
func titleFromPath(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// String returns a formatted string representation of the entry
func (e *Entry) String() string {
	return fmt.Sprintf("%-30s - %-30s %s", e.Artist, e.Title, e.DisplayDuration())
}
