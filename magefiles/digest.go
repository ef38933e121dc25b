//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Scan digests every PDF in outlines/ and writes output/assignments_summary.csv.
func Scan() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "scan", "outlines", "--out", "output/assignments_summary.csv")
}

// Serve builds the CLI and runs the upload service in the foreground.
func Serve() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "serve")
}

// Export writes the stored summary to output/ as xlsx and pdf.
func Export() error {
	mg.Deps(Build)
	for _, ext := range []string{"xlsx", "pdf"} {
		out := fmt.Sprintf("output/assignments_summary.%s", ext)
		if err := sh.RunV(binPath, "summary", "export", "--out", out); err != nil {
			return err
		}
	}
	return nil
}

// Clean removes build output and generated summaries.
func Clean() error {
	for _, p := range []string{binDir, "output"} {
		if err := os.RemoveAll(p); err != nil {
			return fmt.Errorf("removing %s: %w", p, err)
		}
	}
	return nil
}
