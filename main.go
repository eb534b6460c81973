// ABOUTME: Entry point for mediaplayer application
// ABOUTME: Builds the command tree and routes to the player, playlist tools or the update check

// Package main provides the entry point for mediaplayer, a terminal audio player with playlists.
package main

import (
	"fmt"
	"os"
	"runtime/debug"
)

// version is the running release, overridden at build time with
// -ldflags "-X main.version=1.2.3"
var version = ""

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		return 1
	}

	return 0
}

// appVersion returns the ldflags version, then the module version, then a development marker
func appVersion() string {
	if version != "" {
		return version
	}

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	return "0.0.0-dev"
}
