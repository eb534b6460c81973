// ABOUTME: Command tree for the player, playlist file tools and the update check
// ABOUTME: The root command starts the terminal player; subcommands run non-interactively

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"mediaplayer/logging"
	"mediaplayer/playlist"
	"mediaplayer/renderer"
	"mediaplayer/tui"
	"mediaplayer/update"
)

// defaultPlaylistName is created next to the settings file
const defaultPlaylistName = "playlist.txt"

// globalOptions are shared by every command
type globalOptions struct {
	debug      bool
	configPath string
}

// playOptions contains options for the interactive player
type playOptions struct {
	playlistPath string
	noWatch      bool
}

func newRootCmd() *cobra.Command {
	var (
		global globalOptions
		play   playOptions
	)

	root := &cobra.Command{
		Use:   "mediaplayer [files or directories...]",
		Short: "Terminal audio player with playlists",
		Long: "Plays MP3, WAV, FLAC and Ogg Vorbis files from a playlist.\n" +
			"Files and directories given as arguments are added to the playlist on start.",
		Args:          cobra.ArbitraryArgs,
		Version:       appVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlayer(global, play, args)
		},
	}

	root.PersistentFlags().BoolVar(&global.debug, "debug", false, "enable debug logging to "+logging.DefaultFile)
	root.PersistentFlags().StringVar(&global.configPath, "config", "", "settings file (default: ./mediaplayer.toml or ~/.config/mediaplayer/config.toml)")
	root.Flags().StringVarP(&play.playlistPath, "playlist", "p", "", "playlist file to load and save (default: playlist.txt next to the settings file)")
	root.Flags().BoolVar(&play.noWatch, "no-watch", false, "do not reload the playlist when it changes on disk")

	root.AddCommand(newCheckUpdateCmd(&global), newPlaylistCmd(&global))

	return root
}

// runPlayer starts the terminal player
func runPlayer(global globalOptions, opts playOptions, args []string) error {
	a, err := setup(global.debug, global.configPath)
	if err != nil {
		return err
	}
	defer a.close()

	playlistPath := opts.playlistPath
	if playlistPath == "" {
		playlistPath = filepath.Join(filepath.Dir(a.settings.Path()), defaultPlaylistName)
	}

	store := a.newStore()
	if err := a.loadPlaylist(store, playlistPath); err != nil {
		return err
	}

	if len(args) > 0 {
		added := store.AddPaths(playlist.CollectFiles(args, renderer.Supported))
		a.debugf("[MAIN] Added %d entries from arguments", added)
	}

	if !renderer.AudioAvailable {
		fmt.Fprintln(os.Stderr, "Warning: audio output is not available in this build")
	}

	r := renderer.New(nil, a.debugf)
	defer r.Close()

	return tui.Run(tui.Options{
		PlaylistPath: playlistPath,
		Watch:        !opts.noWatch,
	}, tui.Deps{
		Store:    store,
		Renderer: r,
		Settings: a.settings,
		Checker:  a.newChecker(),
		OpenURL:  browser.OpenURL,
		Debugf:   a.debugf,
	})
}

// ========== check-update ==========

func newCheckUpdateCmd(global *globalOptions) *cobra.Command {
	var open bool

	cmd := &cobra.Command{
		Use:   "check-update",
		Short: "Check whether a newer release is published",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := setup(global.debug, global.configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return checkUpdate(ctx, cmd.OutOrStdout(), a.newChecker(), open, browser.OpenURL)
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "open the download page when an update is available")

	return cmd
}

// checkUpdate runs one check and prints the outcome
func checkUpdate(ctx context.Context, w io.Writer, checker *update.Checker, open bool, openURL func(string) error) error {
	res, err := checker.Check(ctx)
	if err != nil {
		return errors.New(update.Message(err))
	}

	fmt.Fprintln(w, res.Summary())

	if !res.UpdateAvailable || res.DownloadURL == "" {
		return nil
	}

	if !open {
		fmt.Fprintf(w, "Download: %s\n", res.DownloadURL)

		return nil
	}

	if err := openURL(res.DownloadURL); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}

// ========== playlist ==========

func newPlaylistCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "playlist",
		Short: "Inspect and edit playlist files without starting the player",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <playlist>",
			Short: "Print the entries of a playlist with their tags",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(global, args[0], func(store *playlist.Store) error {
					return printPlaylist(cmd.OutOrStdout(), store)
				})
			},
		},
		&cobra.Command{
			Use:   "add <playlist> <files or directories...>",
			Short: "Append playable files to a playlist, creating it if needed",
			Args:  cobra.MinimumNArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withStore(global, args[0], func(store *playlist.Store) error {
					added := store.AddPaths(playlist.CollectFiles(args[1:], renderer.Supported))

					if err := store.SaveFile(args[0]); err != nil {
						return fmt.Errorf("failed to write playlist: %w", err)
					}

					fmt.Fprintf(cmd.OutOrStdout(), "Added %d tracks, %d total\n", added, store.Len())

					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clean <playlist>",
			Short: "Remove missing files and duplicates from a playlist",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return cleanPlaylist(cmd.OutOrStdout(), global, args[0])
			},
		},
	)

	return cmd
}

// withStore loads a playlist file into a fresh store and runs fn
func withStore(global *globalOptions, path string, fn func(*playlist.Store) error) error {
	a, err := setup(global.debug, global.configPath)
	if err != nil {
		return err
	}
	defer a.close()

	store := a.newStore()
	if err := a.loadPlaylist(store, path); err != nil {
		return err
	}

	return fn(store)
}

// printPlaylist writes a table of entries
func printPlaylist(w io.Writer, store *playlist.Store) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tTitle\tArtist\tDuration\tPath")
	fmt.Fprintln(tw, "---\t-----\t------\t--------\t----")

	for i, e := range store.Entries() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, e.Title, e.Artist, e.DisplayDuration(), e.Path)
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write table: %w", err)
	}

	return nil
}

// cleanPlaylist rewrites a playlist keeping only existing files, first occurrence wins
func cleanPlaylist(w io.Writer, global *globalOptions, path string) error {
	paths, err := playlist.ReadPaths(path)
	if err != nil {
		return fmt.Errorf("failed to read playlist: %w", err)
	}

	// Duplicates are always dropped here, whatever the settings say
	store := playlist.NewStore(playlist.Options{})

	return withStore(global, path, func(loaded *playlist.Store) error {
		for _, e := range loaded.Entries() {
			store.Add(e)
		}

		if err := store.SaveFile(path); err != nil {
			return fmt.Errorf("failed to write playlist: %w", err)
		}

		fmt.Fprintf(w, "Kept %d of %d entries\n", store.Len(), len(paths))

		return nil
	})
}
