// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "fmt"

// Set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func versionTemplate() string {
	return fmt.Sprintf("jpg2png %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}
