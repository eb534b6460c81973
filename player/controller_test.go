// ABOUTME: Unit tests for the playback controller state machine
// ABOUTME: Uses a recording fake renderer to check transitions, repeat/shuffle and playlist edits

package player

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"mediaplayer/playlist"
)

// fakeRenderer records commands and can be told to reject paths
type fakeRenderer struct {
	opened   []string
	calls    []string
	failOpen map[string]error
	position time.Duration
	duration time.Duration
	volume   float64
	speed    float64
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{failOpen: map[string]error{}}
}

func (f *fakeRenderer) Open(path string) error {
	f.calls = append(f.calls, "open")
	if err := f.failOpen[path]; err != nil {
		return err
	}

	f.opened = append(f.opened, path)

	return nil
}

func (f *fakeRenderer) Play() error { f.calls = append(f.calls, "play"); return nil }
func (f *fakeRenderer) Pause() { f.calls = append(f.calls, "pause") }
func (f *fakeRenderer) Stop() { f.calls = append(f.calls, "stop") }
func (f *fakeRenderer) Seek(p time.Duration) { f.calls = append(f.calls, "seek"); f.position = p }
func (f *fakeRenderer) SetVolume(v float64) { f.volume = v }
func (f *fakeRenderer) SetSpeed(r float64) { f.speed = r }
func (f *fakeRenderer) Position() time.Duration { return f.position }
func (f *fakeRenderer) Duration() time.Duration { return f.duration }
func (f *fakeRenderer) lastOpened() string { return f.opened[len(f.opened)-1] }
func (f *fakeRenderer) reset() { f.calls = nil; f.opened = nil }
func (f *fakeRenderer) called(name string) (n int) {
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}

	return n
}

// recordingObserver captures snapshots and failures
type recordingObserver struct {
	snaps    []Snapshot
	failures []error
}

func (r *recordingObserver) StateChanged(s Snapshot) { r.snaps = append(r.snaps, s) }
func (r *recordingObserver) Failed(err error) { r.failures = append(r.failures, err) }

type countingOpener struct{ requests int }

func (o *countingOpener) RequestOpen() { o.requests++ }

type fixture struct {
	store    *playlist.Store
	renderer *fakeRenderer
	observer *recordingObserver
	opener   *countingOpener
	ctrl     *Controller
}

func newFixture(names ...string) fixture {
	store := playlist.NewStore(playlist.Options{})
	for _, n := range names {
		store.Add(playlist.Entry{Path: "/music/" + n, Title: n})
	}

	f := fixture{
		store:    store,
		renderer: newFakeRenderer(),
		observer: &recordingObserver{},
		opener:   &countingOpener{},
	}

	f.ctrl = NewController(store, f.renderer, Options{
		Opener:   f.opener,
		Observer: f.observer,
		Rand:     rand.New(rand.NewPCG(1, 2)),
	})

	return f
}

// currentPath returns the file of the current entry, as the renderer would report it
func (f fixture) currentPath() string {
	e, _ := f.store.At(f.ctrl.Current())

	return e.Path
}

// playingCount returns how many entries carry the playing flag
func playingCount(s *playlist.Store) int {
	n := 0

	for _, e := range s.Entries() {
		if e.Playing {
			n++
		}
	}

	return n
}

func TestNewControllerIsStopped(t *testing.T) {
	f := newFixture("A.mp3")

	if f.ctrl.Current() != -1 || f.ctrl.State() != Stopped {
		t.Errorf("Expected stopped with no track, got current=%d state=%s", f.ctrl.Current(), f.ctrl.State())
	}
}

func TestPlayIndex(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")

	if err := f.ctrl.PlayIndex(1); err != nil {
		t.Fatalf("PlayIndex failed: %v", err)
	}

	if f.ctrl.Current() != 1 || f.ctrl.State() != Playing {
		t.Errorf("Expected playing index 1, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}

	if f.renderer.lastOpened() != "/music/B.mp3" {
		t.Errorf("Expected renderer to open B, got %s", f.renderer.lastOpened())
	}

	if e, _ := f.store.At(1); !e.Playing {
		t.Error("Expected entry 1 to be marked playing")
	}

	if err := f.ctrl.PlayIndex(2); err != nil {
		t.Fatal(err)
	}

	if playingCount(f.store) != 1 {
		t.Errorf("Expected exactly one playing entry, got %d", playingCount(f.store))
	}

	if f.ctrl.History().Len() != 1 {
		t.Errorf("Expected previous index pushed to history, got len %d", f.ctrl.History().Len())
	}
}

func TestPlayIndexInvalidIsNoop(t *testing.T) {
	f := newFixture("A.mp3")

	for _, i := range []int{-1, 1, 42} {
		if err := f.ctrl.PlayIndex(i); err != nil {
			t.Errorf("PlayIndex(%d): unexpected error %v", i, err)
		}
	}

	if len(f.renderer.calls) != 0 {
		t.Errorf("Expected no renderer calls, got %v", f.renderer.calls)
	}
}

func TestPlayIndexFailureDropsEntry(t *testing.T) {
	f := newFixture("A.mp3", "bad.avi", "C.mp3")
	f.renderer.failOpen["/music/bad.avi"] = errors.New("unsupported codec")

	err := f.ctrl.PlayIndex(1)
	if !errors.Is(err, ErrUnplayable) {
		t.Fatalf("Expected ErrUnplayable, got %v", err)
	}

	var trackErr *TrackError
	if !errors.As(err, &trackErr) || trackErr.Path != "/music/bad.avi" {
		t.Errorf("Expected TrackError for bad.avi, got %v", err)
	}

	if f.store.Len() != 2 || f.store.Contains("/music/bad.avi") {
		t.Errorf("Expected bad entry removed, store has %v", f.store.Paths())
	}

	if f.ctrl.Current() != -1 || f.ctrl.State() != Stopped {
		t.Errorf("Expected stopped with no track, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}

	if len(f.observer.failures) != 1 {
		t.Errorf("Expected one failure notification, got %d", len(f.observer.failures))
	}

	if len(f.renderer.opened) != 0 {
		t.Errorf("Expected no automatic advance, renderer opened %v", f.renderer.opened)
	}
}

func TestTogglePlayPause(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3")

	// Stopped, no current -> plays first entry
	if err := f.ctrl.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}

	if f.ctrl.Current() != 0 || f.ctrl.State() != Playing {
		t.Fatalf("Expected playing 0, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}

	_ = f.ctrl.TogglePlayPause()
	if f.ctrl.State() != Paused {
		t.Errorf("Expected paused, got %s", f.ctrl.State())
	}

	_ = f.ctrl.TogglePlayPause()
	if f.ctrl.State() != Playing {
		t.Errorf("Expected playing after resume, got %s", f.ctrl.State())
	}

	f.ctrl.Stop()
	f.renderer.reset()

	// Stopped with current -> resumes the same entry without reopening
	_ = f.ctrl.TogglePlayPause()
	if f.ctrl.State() != Playing || f.ctrl.Current() != 0 {
		t.Errorf("Expected resume of 0, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}

	if f.renderer.called("open") != 0 || f.renderer.called("play") != 1 {
		t.Errorf("Expected a single play without open, got %v", f.renderer.calls)
	}
}

func TestTogglePlayPauseEmptyRequestsOpen(t *testing.T) {
	f := newFixture()

	if err := f.ctrl.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}

	if f.opener.requests != 1 {
		t.Errorf("Expected open request, got %d", f.opener.requests)
	}

	if len(f.renderer.calls) != 0 {
		t.Errorf("Expected no renderer calls, got %v", f.renderer.calls)
	}
}

func TestStop(t *testing.T) {
	f := newFixture("A.mp3")

	f.ctrl.Stop()
	if len(f.renderer.calls) != 0 {
		t.Errorf("Stop with no track should be a no-op, got %v", f.renderer.calls)
	}

	_ = f.ctrl.PlayIndex(0)
	f.renderer.position = 42 * time.Second
	f.renderer.reset()

	f.ctrl.Stop()

	if f.ctrl.State() != Stopped || f.renderer.called("stop") != 1 || f.renderer.position != 0 {
		t.Errorf("Expected renderer stopped and rewound, got %v pos=%s", f.renderer.calls, f.renderer.position)
	}

	f.renderer.reset()
	f.ctrl.Stop()

	if len(f.renderer.calls) != 0 {
		t.Errorf("Second stop should be a no-op, got %v", f.renderer.calls)
	}
}

func TestNextPreviousReturnsToStart(t *testing.T) {
	for count := 1; count <= 5; count++ {
		names := make([]string, count)
		for i := range names {
			names[i] = string(rune('A'+i)) + ".mp3"
		}

		for start := 0; start < count; start++ {
			f := newFixture(names...)
			_ = f.ctrl.PlayIndex(start)

			_ = f.ctrl.Next()
			_ = f.ctrl.Previous()

			if f.ctrl.Current() != start {
				t.Errorf("count=%d start=%d: expected %d after next+previous, got %d", count, start, start, f.ctrl.Current())
			}
		}
	}
}

func TestSequentialNextVisitsEveryIndex(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3", "D.mp3")
	f.ctrl.SetRepeat(RepeatAll)
	_ = f.ctrl.PlayIndex(0)

	for cycle := 0; cycle < 2; cycle++ {
		seen := map[int]bool{}

		for range f.store.Len() {
			_ = f.ctrl.Next()
			seen[f.ctrl.Current()] = true
		}

		if len(seen) != f.store.Len() {
			t.Errorf("Cycle %d visited %d distinct indices, expected %d", cycle, len(seen), f.store.Len())
		}

		if f.ctrl.Current() != 0 {
			t.Errorf("Cycle %d should end back at 0, got %d", cycle, f.ctrl.Current())
		}
	}
}

func TestPreviousWraps(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")
	_ = f.ctrl.PlayIndex(0)
	_ = f.ctrl.Previous()

	if f.ctrl.Current() != 2 {
		t.Errorf("Expected wrap to 2, got %d", f.ctrl.Current())
	}
}

func TestShuffleNeverRepeatsCurrent(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")
	f.ctrl.SetShuffle(true)
	_ = f.ctrl.PlayIndex(0)

	for range 200 {
		before := f.ctrl.Current()
		_ = f.ctrl.Next()

		if f.ctrl.Current() == before {
			t.Fatalf("Shuffle next returned current index %d", before)
		}
	}
}

func TestShuffleSingleEntryDegrades(t *testing.T) {
	f := newFixture("A.mp3")
	f.ctrl.SetShuffle(true)
	_ = f.ctrl.PlayIndex(0)
	_ = f.ctrl.Next()

	if f.ctrl.Current() != 0 {
		t.Errorf("Expected single entry to stay current, got %d", f.ctrl.Current())
	}
}

func TestNextPreviousEmptyIsNoop(t *testing.T) {
	f := newFixture()

	_ = f.ctrl.Next()
	_ = f.ctrl.Previous()
	f.ctrl.Stop()

	if len(f.renderer.calls) != 0 || f.ctrl.Current() != -1 {
		t.Errorf("Expected silent no-ops, got calls %v current %d", f.renderer.calls, f.ctrl.Current())
	}
}

func TestOnEndedRepeatOffStopsAtEnd(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")
	_ = f.ctrl.PlayIndex(0)

	_ = f.ctrl.OnEnded(f.currentPath())
	if f.ctrl.Current() != 1 {
		t.Fatalf("Expected current 1, got %d", f.ctrl.Current())
	}

	_ = f.ctrl.OnEnded(f.currentPath())
	if f.ctrl.Current() != 2 {
		t.Fatalf("Expected current 2, got %d", f.ctrl.Current())
	}

	opened := len(f.renderer.opened)

	_ = f.ctrl.OnEnded(f.currentPath())
	if f.ctrl.State() != Stopped {
		t.Errorf("Expected stopped after last entry, got %s", f.ctrl.State())
	}

	if len(f.renderer.opened) != opened {
		t.Errorf("Expected no fourth advance, renderer opened %v", f.renderer.opened)
	}
}

func TestOnEndedRepeatOffIgnoresShuffle(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")
	f.ctrl.SetShuffle(true)
	_ = f.ctrl.PlayIndex(1)

	_ = f.ctrl.OnEnded(f.currentPath())
	if f.ctrl.Current() != 2 {
		t.Errorf("Expected sequential advance to 2, got %d", f.ctrl.Current())
	}

	_ = f.ctrl.OnEnded(f.currentPath())
	if f.ctrl.State() != Stopped {
		t.Errorf("Expected stop at end of list, got %s", f.ctrl.State())
	}
}

func TestOnEndedRepeatSingleReplays(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")
	f.ctrl.SetRepeat(RepeatSingle)
	_ = f.ctrl.PlayIndex(1)
	f.renderer.reset()

	_ = f.ctrl.OnEnded(f.currentPath())

	if f.ctrl.Current() != 1 {
		t.Errorf("Expected current to remain 1, got %d", f.ctrl.Current())
	}

	if len(f.renderer.opened) != 1 || f.renderer.lastOpened() != "/music/B.mp3" {
		t.Errorf("Expected B to be reopened, got %v", f.renderer.opened)
	}
}

func TestOnEndedRepeatAllWraps(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3")
	f.ctrl.SetRepeat(RepeatAll)
	_ = f.ctrl.PlayIndex(1)

	_ = f.ctrl.OnEnded(f.currentPath())

	if f.ctrl.Current() != 0 || f.ctrl.State() != Playing {
		t.Errorf("Expected wrap to 0 and playing, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}
}

func TestOnFailedDropsCurrent(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3")
	_ = f.ctrl.PlayIndex(0)

	err := f.ctrl.OnFailed(f.currentPath(), errors.New("file vanished"))
	if !errors.Is(err, ErrUnplayable) {
		t.Fatalf("Expected ErrUnplayable, got %v", err)
	}

	if f.store.Len() != 1 || f.ctrl.Current() != -1 || f.ctrl.State() != Stopped {
		t.Errorf("Expected entry dropped and stopped, got len=%d current=%d state=%s", f.store.Len(), f.ctrl.Current(), f.ctrl.State())
	}
}

func TestLateRendererEventsAreIgnored(t *testing.T) {
	tests := []struct {
		name string
		act  func(f fixture) // Runs after A started and before A's event arrives
		send func(f fixture) error
		want []string // Playlist paths afterwards
		cur  int
		st   State
	}{
		{
			name: "failure of a skipped file",
			act:  func(f fixture) { _ = f.ctrl.Next() },
			send: func(f fixture) error { return f.ctrl.OnFailed("/music/A.mp3", errors.New("decode error")) },
			want: []string{"/music/A.mp3", "/music/B.mp3", "/music/C.mp3"},
			cur:  1,
			st:   Playing,
		},
		{
			name: "end after stop",
			act:  func(f fixture) { f.ctrl.Stop() },
			send: func(f fixture) error { return f.ctrl.OnEnded("/music/A.mp3") },
			want: []string{"/music/A.mp3", "/music/B.mp3", "/music/C.mp3"},
			cur:  0,
			st:   Stopped,
		},
		{
			name: "end after pause",
			act:  func(f fixture) { f.ctrl.Pause() },
			send: func(f fixture) error { return f.ctrl.OnEnded("/music/A.mp3") },
			want: []string{"/music/A.mp3", "/music/B.mp3", "/music/C.mp3"},
			cur:  0,
			st:   Paused,
		},
		{
			name: "end of a skipped file",
			act:  func(f fixture) { _ = f.ctrl.PlayIndex(2) },
			send: func(f fixture) error { return f.ctrl.OnEnded("/music/A.mp3") },
			want: []string{"/music/A.mp3", "/music/B.mp3", "/music/C.mp3"},
			cur:  2,
			st:   Playing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("A.mp3", "B.mp3", "C.mp3")
			_ = f.ctrl.PlayIndex(0)
			tt.act(f)

			opened := len(f.renderer.opened)

			if err := tt.send(f); err != nil {
				t.Fatalf("Expected late event to be ignored, got %v", err)
			}

			paths := f.store.Paths()
			if len(paths) != len(tt.want) {
				t.Fatalf("Expected paths %v, got %v", tt.want, paths)
			}

			for i := range paths {
				if paths[i] != tt.want[i] {
					t.Errorf("Expected paths %v, got %v", tt.want, paths)

					break
				}
			}

			if f.ctrl.Current() != tt.cur || f.ctrl.State() != tt.st {
				t.Errorf("Expected current %d %s, got %d %s", tt.cur, tt.st, f.ctrl.Current(), f.ctrl.State())
			}

			if len(f.renderer.opened) != opened {
				t.Errorf("Expected nothing reopened, renderer opened %v", f.renderer.opened)
			}

			if len(f.observer.failures) != 0 {
				t.Errorf("Expected no failure reported, got %v", f.observer.failures)
			}
		})
	}
}

func TestLateOpenedKeepsDurationOnItsOwnEntry(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3")
	_ = f.ctrl.PlayIndex(0)
	_ = f.ctrl.Next()

	if f.ctrl.OnOpened(MediaInfo{Path: "/music/A.mp3", Duration: 2 * time.Minute}) {
		t.Error("Expected open event for A to be rejected while B is current")
	}

	if e, _ := f.store.At(1); e.Duration != "" {
		t.Errorf("Expected B duration untouched, got %q", e.Duration)
	}

	if !f.ctrl.OnOpened(MediaInfo{Path: "/music/B.mp3", Duration: time.Minute}) {
		t.Fatal("Expected open event for B to be accepted")
	}

	if e, _ := f.store.At(1); e.Duration != "1:00" {
		t.Errorf("Expected B duration 1:00, got %q", e.Duration)
	}
}

func TestCycleRepeat(t *testing.T) {
	f := newFixture()
	expected := []RepeatMode{RepeatSingle, RepeatAll, RepeatOff, RepeatSingle}

	for i, want := range expected {
		if got := f.ctrl.CycleRepeat(); got != want {
			t.Errorf("Step %d: expected %s, got %s", i, want, got)
		}
	}
}

func TestMovePreservesCurrentTrack(t *testing.T) {
	tests := []struct {
		name            string
		current         int
		from, to        int
		expectedCurrent int
	}{
		{"move current forward", 1, 1, 3, 3},
		{"move current backward", 2, 2, 0, 0},
		{"move other across current forward", 2, 0, 3, 1},
		{"move other across current backward", 1, 3, 0, 2},
		{"move other after current", 0, 2, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture("A.mp3", "B.mp3", "C.mp3", "D.mp3")
			_ = f.ctrl.PlayIndex(tt.current)
			playingPath := f.ctrl.Snapshot().Entry.Path

			if err := f.store.Move(tt.from, tt.to); err != nil {
				t.Fatal(err)
			}

			if f.ctrl.Current() != tt.expectedCurrent {
				t.Errorf("Expected current %d, got %d", tt.expectedCurrent, f.ctrl.Current())
			}

			e, _ := f.store.At(f.ctrl.Current())
			if e.Path != playingPath || !e.Playing {
				t.Errorf("Expected %s still playing at current, got %+v", playingPath, e)
			}
		})
	}
}

func TestRemoveCurrentAdvances(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")
	_ = f.ctrl.PlayIndex(1)

	if err := f.store.Remove(1); err != nil {
		t.Fatal(err)
	}

	if f.ctrl.Current() != 1 || f.ctrl.State() != Playing {
		t.Fatalf("Expected to play entry now at 1, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}

	if f.renderer.lastOpened() != "/music/C.mp3" {
		t.Errorf("Expected C to be opened, got %s", f.renderer.lastOpened())
	}
}

func TestRemoveCurrentWhileStoppedOpensReplacementOnPlay(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")
	_ = f.ctrl.PlayIndex(1)
	f.ctrl.Stop()

	if err := f.store.Remove(1); err != nil {
		t.Fatal(err)
	}

	if f.ctrl.Current() != 1 || f.ctrl.State() != Stopped {
		t.Fatalf("Expected stopped on index 1, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}

	f.renderer.reset()

	if err := f.ctrl.TogglePlayPause(); err != nil {
		t.Fatal(err)
	}

	if f.renderer.called("open") != 1 || f.renderer.lastOpened() != "/music/C.mp3" {
		t.Errorf("Expected C to be opened before playing, got %v", f.renderer.calls)
	}
}

func TestRemoveLastCurrentStops(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3")
	_ = f.ctrl.PlayIndex(1)

	if err := f.store.Remove(1); err != nil {
		t.Fatal(err)
	}

	if f.ctrl.Current() != -1 || f.ctrl.State() != Stopped {
		t.Errorf("Expected stopped with no track, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}

	if playingCount(f.store) != 0 {
		t.Error("Expected no playing entries")
	}
}

func TestRemoveBeforeCurrentShifts(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3")
	_ = f.ctrl.PlayIndex(2)

	if err := f.store.Remove(0); err != nil {
		t.Fatal(err)
	}

	if f.ctrl.Current() != 1 {
		t.Errorf("Expected current shifted to 1, got %d", f.ctrl.Current())
	}

	if e, _ := f.store.At(1); !e.Playing || e.Title != "C.mp3" {
		t.Errorf("Expected C still playing, got %+v", e)
	}
}

func TestClearStops(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3")
	_ = f.ctrl.PlayIndex(0)

	f.store.Clear()

	if f.ctrl.Current() != -1 || f.ctrl.State() != Stopped {
		t.Errorf("Expected stopped with no track, got %d %s", f.ctrl.Current(), f.ctrl.State())
	}

	if f.ctrl.History().Len() != 0 {
		t.Errorf("Expected history cleared, got %d", f.ctrl.History().Len())
	}
}

func TestBackUsesHistory(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3", "C.mp3", "D.mp3")
	_ = f.ctrl.PlayIndex(0)
	_ = f.ctrl.PlayIndex(3)
	_ = f.ctrl.PlayIndex(1)

	_ = f.ctrl.Back()
	if f.ctrl.Current() != 3 {
		t.Errorf("Expected back to 3, got %d", f.ctrl.Current())
	}

	_ = f.ctrl.Back()
	if f.ctrl.Current() != 0 {
		t.Errorf("Expected back to 0, got %d", f.ctrl.Current())
	}

	// History exhausted -> sequential previous with wrap
	_ = f.ctrl.Back()
	if f.ctrl.Current() != 3 {
		t.Errorf("Expected previous fallback to 3, got %d", f.ctrl.Current())
	}
}

func TestSeek(t *testing.T) {
	f := newFixture("A.mp3")
	f.renderer.duration = time.Minute

	f.ctrl.BeginSeek()
	if f.ctrl.Seeking() {
		t.Error("Seeking without a track should be ignored")
	}

	_ = f.ctrl.PlayIndex(0)
	f.ctrl.BeginSeek()

	if !f.ctrl.Seeking() {
		t.Fatal("Expected seeking")
	}

	f.ctrl.EndSeek(30)

	if f.ctrl.Seeking() || f.renderer.position != 30*time.Second {
		t.Errorf("Expected seek to 30s, got seeking=%v pos=%s", f.ctrl.Seeking(), f.renderer.position)
	}

	f.ctrl.EndSeek(500)

	if f.renderer.position != time.Minute {
		t.Errorf("Expected seek clamped to duration, got %s", f.renderer.position)
	}
}

func TestVolumeAndSpeedClamp(t *testing.T) {
	f := newFixture("A.mp3")

	if v := f.ctrl.SetVolume(1.7); v != 1 || f.renderer.volume != 1 {
		t.Errorf("Expected volume clamped to 1, got %.2f", v)
	}

	if v := f.ctrl.SetVolume(-0.5); v != 0 {
		t.Errorf("Expected volume clamped to 0, got %.2f", v)
	}

	if r := f.ctrl.SetSpeed(10); r != maxSpeed || f.renderer.speed != maxSpeed {
		t.Errorf("Expected speed clamped to %.2f, got %.2f", maxSpeed, r)
	}
}

func TestOnOpenedRecordsDuration(t *testing.T) {
	f := newFixture("A.mp3")
	_ = f.ctrl.PlayIndex(0)

	f.ctrl.OnOpened(MediaInfo{Path: "/music/A.mp3", Duration: 3*time.Minute + 5*time.Second})

	if e, _ := f.store.At(0); e.Duration != "3:05" {
		t.Errorf("Expected duration 3:05, got %q", e.Duration)
	}
}

func TestObserverSeesTransitions(t *testing.T) {
	f := newFixture("A.mp3", "B.mp3")
	_ = f.ctrl.PlayIndex(0)
	f.ctrl.Pause()

	last := f.observer.snaps[len(f.observer.snaps)-1]
	if last.State != Paused || last.Current != 0 || last.Entry.Title != "A.mp3" {
		t.Errorf("Unexpected last snapshot: %+v", last)
	}
}
