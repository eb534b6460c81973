// ABOUTME: Turns the text typed at the open prompt into playable file paths
// ABOUTME: Accepts several paths separated by ';' with ~ expanded to the home directory

package tui

import (
	"os"
	"path/filepath"
	"strings"

	"mediaplayer/playlist"
	"mediaplayer/renderer"
)

// pathSeparator splits several paths typed at the open prompt
const pathSeparator = ";"

// expandPaths returns the supported files named by input, in order and without repeats
func expandPaths(input string) []string {
	var paths []string

	for _, raw := range strings.Split(input, pathSeparator) {
		p := strings.Trim(strings.TrimSpace(raw), `"'`)
		if p == "" {
			continue
		}

		if strings.HasPrefix(p, "~"+string(filepath.Separator)) {
			if home, err := os.UserHomeDir(); err == nil {
				p = filepath.Join(home, p[2:])
			}
		}

		paths = append(paths, p)
	}

	return playlist.CollectFiles(paths, renderer.Supported)
}
