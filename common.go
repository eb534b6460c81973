// ABOUTME: Shared initialization code for all commands
// ABOUTME: Sets up the debug log, settings, playlist store and update checker

package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"mediaplayer/config"
	"mediaplayer/logging"
	"mediaplayer/playlist"
	"mediaplayer/update"
)

// app holds what every command needs
type app struct {
	logger   *zap.Logger
	debugf   func(string, ...interface{})
	settings *config.Store
}

// setup opens the debug log and the settings file.
// A broken settings file is reported and replaced by defaults rather than aborting.
func setup(debugLog bool, configPath string) (*app, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Enabled = debugLog

	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup debug log: %w", err)
	}

	if configPath == "" {
		configPath = config.GetConfigPath()
	}

	settings, err := config.Open(configPath)
	if err != nil {
		logger.Warn("settings unreadable, using defaults", zap.String("path", configPath), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}

	logger.Debug("started", zap.String("version", appVersion()), zap.String("config", configPath))

	return &app{
		logger:   logger,
		debugf:   logging.Debugf(logger),
		settings: settings,
	}, nil
}

// close flushes the debug log
func (a *app) close() {
	_ = a.logger.Sync()
}

// newStore creates an empty playlist store honouring the duplicate setting
func (a *app) newStore() *playlist.Store {
	return playlist.NewStore(playlist.Options{
		AllowDuplicates: a.settings.Settings().AllowDuplicates,
	})
}

// loadPlaylist fills store from path when the file exists
func (a *app) loadPlaylist(store *playlist.Store, path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		a.debugf("[MAIN] Playlist %s does not exist yet", path)

		return nil
	}

	skipped, err := store.LoadFile(path)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	a.debugf("[MAIN] Loaded %d entries from %s (%d skipped)", store.Len(), path, skipped)

	return nil
}

// newChecker builds the release checker from settings
func (a *app) newChecker() *update.Checker {
	s := a.settings.Settings()

	checker := update.NewChecker(s.UpdateEndpoint, appVersion())
	if s.UpdateTimeoutSeconds > 0 {
		checker.Timeout = time.Duration(s.UpdateTimeoutSeconds) * time.Second
	}

	return checker
}
