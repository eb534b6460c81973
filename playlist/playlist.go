// ABOUTME: Handles reading and writing plain-text playlist files
// ABOUTME: One absolute path per line; loading keeps only files that still exist on disk

// Package playlist holds the ordered track list behind the player.
// It reads track metadata from audio file tags (ID3, Vorbis, etc.),
// exposes filtered views for search, and imports/exports path-per-line playlist files.
package playlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// ReadPaths reads a playlist file and returns its non-empty lines in order
func ReadPaths(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open playlist: %w", err)
	}

	defer func() {
		_ = file.Close() // Explicitly ignore error for read-only file
	}()

	var paths []string

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		paths = append(paths, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading playlist: %w", err)
	}

	return paths, nil
}

// WritePaths writes paths one per line, replacing path atomically
func WritePaths(path string, paths []string) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".playlist-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create playlist: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	writer := bufio.NewWriter(tmp)
	for _, p := range paths {
		if _, err = writer.WriteString(p + "\n"); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("failed to write track: %w", err)
		}
	}

	if err = writer.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close playlist file: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace playlist: %w", err)
	}

	return nil
}

// SaveFile writes every entry path in store order
func (s *Store) SaveFile(path string) error {
	return WritePaths(path, s.Paths())
}

// ReadFile reads and probes the entries listed in a playlist file without touching the store.
// Paths that no longer exist are skipped; the number skipped is returned.
// It only reads immutable store options, so it may run off the owning goroutine.
func (s *Store) ReadFile(path string) ([]Entry, int, error) {
	paths, err := ReadPaths(path)
	if err != nil {
		return nil, 0, err
	}

	existing := make([]string, 0, len(paths))
	skipped := 0

	for _, p := range paths {
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			skipped++

			continue
		}

		existing = append(existing, p)
	}

	entries := s.probeAll(existing)
	skipped += len(existing) - len(entries)

	return entries, skipped, nil
}

// LoadFile replaces the store contents with the paths listed in a playlist file.
// Paths that no longer exist and rejected duplicates are skipped; the number skipped is returned.
func (s *Store) LoadFile(path string) (int, error) {
	entries, skipped, err := s.ReadFile(path)
	if err != nil {
		return 0, err
	}

	return skipped + s.Replace(entries), nil
}

// CollectFiles resolves paths to absolute file paths accepted by keep.
// Directories contribute their files one level deep; missing paths are skipped.
// Order is preserved and repeats are removed.
func CollectFiles(paths []string, keep func(string) bool) []string {
	var files []string

	for _, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}

		info, err := os.Stat(p)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			if keep(p) {
				files = append(files, p)
			}

			continue
		}

		children, err := os.ReadDir(p)
		if err != nil {
			continue
		}

		for _, c := range children {
			full := filepath.Join(p, c.Name())
			if !c.IsDir() && keep(full) {
				files = append(files, full)
			}
		}
	}

	return lo.Uniq(files)
}
