// ABOUTME: Ordered in-memory playlist with duplicate policy, reordering and filtered views
// ABOUTME: Notifies a listener on removals, moves and resets so playback can follow its track

package playlist

import (
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/samber/lo"

	"mediaplayer/pool"
)

// ErrIndexOutOfRange is returned by mutators given an index outside [0, Len())
var ErrIndexOutOfRange = errors.New("playlist index out of range")

// Listener is told about structural changes that shift entry positions
type Listener interface {
	EntryRemoved(index int)
	EntryMoved(from, to int)
	Reset()
}

// Options configures a Store
type Options struct {
	AllowDuplicates bool // Accept entries whose path is already present
	ProbeWorkers    int  // Parallel tag readers for AddPaths/LoadFile (0 = NumCPU)
}

// Store is the ordered sequence of playlist entries.
// It is not safe for concurrent use; one goroutine owns it.
type Store struct {
	entries  []Entry
	opts     Options
	listener Listener
	probe    func(string) (Entry, error)
}

// NewStore creates an empty store
func NewStore(opts Options) *Store {
	return &Store{
		opts:  opts,
		probe: Probe,
	}
}

// SetListener registers the receiver of structural change notifications
func (s *Store) SetListener(l Listener) {
	s.listener = l
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// At returns the entry at index i
func (s *Store) At(i int) (Entry, bool) {
	if i < 0 || i >= len(s.entries) {
		return Entry{}, false
	}

	return s.entries[i], true
}

// Entries returns a copy of all entries in order
func (s *Store) Entries() []Entry {
	return append([]Entry{}, s.entries...)
}

// Paths returns all entry paths in order
func (s *Store) Paths() []string {
	return lo.Map(s.entries, func(e Entry, _ int) string { return e.Path })
}

// IndexOf returns the position of path, or -1
func (s *Store) IndexOf(path string) int {
	for i := range s.entries {
		if SamePath(s.entries[i].Path, path) {
			return i
		}
	}

	return -1
}

// Contains reports whether path is already in the store
func (s *Store) Contains(path string) bool {
	return lo.ContainsBy(s.entries, func(e Entry) bool { return SamePath(e.Path, path) })
}

// Add appends an entry. Returns false when it was rejected as a duplicate.
func (s *Store) Add(entry Entry) bool {
	if !s.opts.AllowDuplicates && s.Contains(entry.Path) {
		return false
	}

	entry.Playing = false
	s.entries = append(s.entries, entry)

	return true
}

// AddPaths probes each path for metadata and appends the results in order.
// Unreadable paths are skipped. Returns how many entries were added.
func (s *Store) AddPaths(paths []string) int {
	added := 0

	for _, entry := range s.probeAll(paths) {
		if s.Add(entry) {
			added++
		}
	}

	return added
}

// Remove deletes the entry at index i
func (s *Store) Remove(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("remove %d: %w", i, ErrIndexOutOfRange)
	}

	s.entries = append(s.entries[:i], s.entries[i+1:]...)

	if s.listener != nil {
		s.listener.EntryRemoved(i)
	}

	return nil
}

// Move relocates the entry at from so it ends up at index to
func (s *Store) Move(from, to int) error {
	if from < 0 || from >= len(s.entries) || to < 0 || to >= len(s.entries) {
		return fmt.Errorf("move %d -> %d: %w", from, to, ErrIndexOutOfRange)
	}

	if from == to {
		return nil
	}

	entry := s.entries[from]
	s.entries = append(s.entries[:from], s.entries[from+1:]...)
	s.entries = append(s.entries[:to], append([]Entry{entry}, s.entries[to:]...)...)

	if s.listener != nil {
		s.listener.EntryMoved(from, to)
	}

	return nil
}

// Clear removes every entry
func (s *Store) Clear() {
	s.entries = nil

	if s.listener != nil {
		s.listener.Reset()
	}
}

// Replace swaps the whole contents, applying the duplicate policy.
// Returns how many entries were rejected as duplicates.
func (s *Store) Replace(entries []Entry) int {
	s.entries = nil
	rejected := 0

	for _, e := range entries {
		if !s.Add(e) {
			rejected++
		}
	}

	if s.listener != nil {
		s.listener.Reset()
	}

	return rejected
}

// SetPlaying marks entry i as playing and every other entry as not playing
func (s *Store) SetPlaying(i int) {
	for j := range s.entries {
		s.entries[j].Playing = j == i
	}
}

// ClearPlaying unmarks every entry
func (s *Store) ClearPlaying() {
	s.SetPlaying(-1)
}

// SetDuration records a known length for the entry at index i
func (s *Store) SetDuration(i int, duration string) {
	if i >= 0 && i < len(s.entries) {
		s.entries[i].Duration = duration
	}
}

// Filter returns a lazy view over entries whose title or artist contains pattern
func (s *Store) Filter(pattern string) View {
	return View{store: s, pattern: strings.ToLower(strings.TrimSpace(pattern))}
}

// ProbePaths reads tags for paths without adding them.
// It only reads immutable store options, so it may run off the owning goroutine.
func (s *Store) ProbePaths(paths []string) []Entry {
	return s.probeAll(paths)
}

// probeAll reads tags for paths in parallel, dropping paths that cannot be opened
func (s *Store) probeAll(paths []string) []Entry {
	type result struct {
		entry Entry
		err   error
	}

	results := pool.Map(s.opts.ProbeWorkers, paths, func(p string) result {
		e, err := s.probe(p)

		return result{entry: e, err: err}
	})

	entries := make([]Entry, 0, len(results))

	for _, r := range results {
		if r.err == nil {
			entries = append(entries, r.entry)
		}
	}

	return entries
}

// View is a non-owning filtered window over a Store.
// It is evaluated on every iteration so it always reflects the live store.
type View struct {
	store   *Store
	pattern string
}

// Pattern returns the normalized filter text
func (v View) Pattern() string {
	return v.pattern
}

// Matches reports whether entry passes the filter
func (v View) Matches(e Entry) bool {
	if v.pattern == "" {
		return true
	}

	return strings.Contains(strings.ToLower(e.Title), v.pattern) ||
		strings.Contains(strings.ToLower(e.Artist), v.pattern)
}

// All yields (store index, entry) for every matching entry
func (v View) All() iter.Seq2[int, Entry] {
	return func(yield func(int, Entry) bool) {
		if v.store == nil {
			return
		}

		for i, e := range v.store.entries {
			if v.Matches(e) && !yield(i, e) {
				return
			}
		}
	}
}

// Indices returns the store indices of matching entries
func (v View) Indices() []int {
	var out []int

	for i := range v.All() {
		out = append(out, i)
	}

	return out
}

// Len counts matching entries
func (v View) Len() int {
	n := 0

	for range v.All() {
		n++
	}

	return n
}
