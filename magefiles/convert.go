//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts every JPEG under source recursively,
// writing PNGs to out/ and a run report to out/report.yaml.
// Usage: mage convert ./photos
func Convert(source string) error {
	mg.Deps(Build)
	fmt.Printf("[convert] %s -> out/\n", source)
	return sh.RunV(binPath, source, "--recursive", "--output", "out", "--report", "out/report.yaml")
}
