// ABOUTME: Persistent player settings stored as TOML
// ABOUTME: Handles loading/saving with fallback to defaults and immediate theme persistence

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
)

// Theme names accepted in the settings file
const (
	ThemeLight     = "Light"
	ThemeDark      = "Dark"
	ThemeLightGrey = "LightGrey"
)

// Themes lists the selectable themes in cycle order
var Themes = []string{ThemeLight, ThemeDark, ThemeLightGrey}

// DefaultUpdateEndpoint is the release-metadata URL used when none is configured
const DefaultUpdateEndpoint = "https://api.github.com/repos/mediaplayer/mediaplayer/releases/latest"

// Settings holds all user-tunable player settings
type Settings struct {
	Theme           string  `toml:"theme"` // Last selected theme
	AllowDuplicates bool    `toml:"allow_duplicates"`
	Volume          float64 `toml:"volume"` // 0.0 - 1.0

	// Playback modes remembered between sessions
	Repeat  string `toml:"repeat"` // off, single, all
	Shuffle bool   `toml:"shuffle"`

	UpdateEndpoint       string `toml:"update_endpoint"`
	UpdateTimeoutSeconds int    `toml:"update_timeout_seconds"`
}

// GetConfigPath returns the default settings file path.
// First tries the current directory, then falls back to ~/.config/mediaplayer/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./mediaplayer.toml"); err == nil {
		return "./mediaplayer.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./mediaplayer.toml"
	}

	return filepath.Join(home, ".config", "mediaplayer", "config.toml")
}

// DefaultSettings returns the settings used on first run
func DefaultSettings() Settings {
	return Settings{
		Theme:                ThemeLight,
		Volume:               1.0,
		Repeat:               "off",
		UpdateEndpoint:       DefaultUpdateEndpoint,
		UpdateTimeoutSeconds: 15,
	}
}

// LoadSettings loads settings from a TOML file.
// If the file doesn't exist, returns defaults. Keys missing from the file keep their defaults.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}

		return DefaultSettings(), fmt.Errorf("failed to read config file: %w", err)
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return DefaultSettings(), fmt.Errorf("failed to parse config file: %w", err)
	}

	return settings.normalized(), nil
}

// SaveSettings writes settings to a TOML file, creating the directory if needed
func SaveSettings(path string, settings Settings) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settings = settings.normalized()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(settings); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// normalized replaces out-of-range values with defaults
func (s Settings) normalized() Settings {
	defaults := DefaultSettings()

	if !ValidTheme(s.Theme) {
		s.Theme = defaults.Theme
	}

	if s.Volume < 0 || s.Volume > 1 {
		s.Volume = defaults.Volume
	}

	switch s.Repeat {
	case "off", "single", "all":
	default:
		s.Repeat = defaults.Repeat
	}

	if s.UpdateEndpoint == "" {
		s.UpdateEndpoint = defaults.UpdateEndpoint
	}

	if s.UpdateTimeoutSeconds <= 0 {
		s.UpdateTimeoutSeconds = defaults.UpdateTimeoutSeconds
	}

	return s
}

// ValidTheme reports whether name is a known theme
func ValidTheme(name string) bool {
	return slices.Contains(Themes, name)
}

// NextTheme returns the theme after current in cycle order
func NextTheme(current string) string {
	i := slices.Index(Themes, current)

	return Themes[(i+1)%len(Themes)]
}

// Store ties settings to the file they were loaded from
type Store struct {
	path     string
	settings Settings
}

// Open loads settings from path (defaults when the file is missing)
func Open(path string) (*Store, error) {
	settings, err := LoadSettings(path)

	return &Store{path: path, settings: settings}, err
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Settings returns a copy of the current settings
func (s *Store) Settings() Settings {
	return s.settings
}

// Update applies fn and writes the result
func (s *Store) Update(fn func(*Settings)) error {
	next := s.settings
	fn(&next)
	s.settings = next.normalized()

	return SaveSettings(s.path, s.settings)
}

// SetTheme records and immediately persists the selected theme
func (s *Store) SetTheme(name string) error {
	if !ValidTheme(name) {
		return fmt.Errorf("unknown theme %q", name)
	}

	return s.Update(func(st *Settings) { st.Theme = name })
}
