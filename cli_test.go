// ABOUTME: Tests for the non-interactive commands
// ABOUTME: Covers playlist add/list/clean through the command tree and update check output

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediaplayer/playlist"
	"mediaplayer/update"
)

// execute runs the command tree with a scratch settings file and captures stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...))

	err := cmd.Execute()

	return out.String(), err
}

// mediaFiles creates empty files with the given names
func mediaFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()

	paths := make([]string, len(names))

	for i, n := range names {
		paths[i] = filepath.Join(dir, n)
		if err := os.WriteFile(paths[i], nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	return paths
}

func TestPlaylistAddAndList(t *testing.T) {
	dir := t.TempDir()
	mediaFiles(t, dir, "one.mp3", "two.flac", "cover.jpg")
	list := filepath.Join(t.TempDir(), "mix.txt")

	out, err := execute(t, "playlist", "add", list, dir)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if !strings.Contains(out, "Added 2 tracks, 2 total") {
		t.Errorf("Unexpected add output: %q", out)
	}

	out, err = execute(t, "playlist", "list", list)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	for _, want := range []string{"one", "two", playlist.UnknownArtist} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected listing to contain %q, got:\n%s", want, out)
		}
	}

	if strings.Contains(out, "cover") {
		t.Error("Expected unsupported files to be left out")
	}
}

func TestPlaylistClean(t *testing.T) {
	dir := t.TempDir()
	files := mediaFiles(t, dir, "a.mp3", "b.mp3")
	list := filepath.Join(dir, "mix.txt")

	lines := []string{files[0], filepath.Join(dir, "gone.mp3"), files[1], files[0]}
	if err := playlist.WritePaths(list, lines); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "playlist", "clean", list)
	if err != nil {
		t.Fatalf("clean failed: %v", err)
	}

	if !strings.Contains(out, "Kept 2 of 4 entries") {
		t.Errorf("Unexpected clean output: %q", out)
	}

	got, err := playlist.ReadPaths(list)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 2 || got[0] != files[0] || got[1] != files[1] {
		t.Errorf("Expected [a b], got %v", got)
	}
}

func TestPlaylistListMissingFileIsEmpty(t *testing.T) {
	out, err := execute(t, "playlist", "list", filepath.Join(t.TempDir(), "none.txt"))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if !strings.Contains(out, "Title") {
		t.Errorf("Expected header only, got %q", out)
	}
}

func releaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(update.Release{TagName: tag, HTMLURL: "https://example.com/" + tag})
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestCheckUpdate(t *testing.T) {
	tests := []struct {
		name       string
		tag        string
		open       bool
		wantOut    string
		wantOpened string
	}{
		{"up to date", "v1.0.0", false, "latest version", ""},
		{"newer prints link", "v1.2.0", false, "Download: https://example.com/v1.2.0", ""},
		{"newer opens browser", "v1.2.0", true, "Version 1.2.0 is available", "https://example.com/v1.2.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := releaseServer(t, tt.tag)

			var out bytes.Buffer

			opened := ""
			openURL := func(u string) error {
				opened = u

				return nil
			}

			err := checkUpdate(context.Background(), &out, update.NewChecker(srv.URL, "1.0.0"), tt.open, openURL)
			if err != nil {
				t.Fatalf("checkUpdate failed: %v", err)
			}

			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("Expected output to contain %q, got %q", tt.wantOut, out.String())
			}

			if opened != tt.wantOpened {
				t.Errorf("Expected opened %q, got %q", tt.wantOpened, opened)
			}
		})
	}
}

func TestCheckUpdateReportsFriendlyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	err := checkUpdate(context.Background(), &bytes.Buffer{}, update.NewChecker(srv.URL, "1.0.0"), false, nil)
	if err == nil || err.Error() != update.Message(update.ErrMalformed) {
		t.Errorf("Expected malformed message, got %v", err)
	}
}

func TestAppVersionOverride(t *testing.T) {
	old := version
	defer func() { version = old }()

	version = "2.3.4"

	if got := appVersion(); got != "2.3.4" {
		t.Errorf("Expected ldflags version, got %s", got)
	}
}
