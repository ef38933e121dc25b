// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// printRows writes rows as a fixed-width table.
func printRows(w io.Writer, rows []types.SummaryRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No assignments found.")
		return
	}

	fmt.Fprintf(w, "%-24s  %-12s  %-40s  %-8s  %s\n",
		"Source", "Subject", "Assignment", "Weight", "Due Date")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range rows {
		fmt.Fprintf(w, "%-24s  %-12s  %-40s  %-8s  %s\n",
			clip(r.Source, 24), clip(r.Subject, 12), clip(r.Assignment, 40),
			clip(r.Weight, 8), r.DueDate)
	}

	fmt.Fprintf(w, "\n%d assignments\n", len(rows))
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}

// printFailures lists failed sources.
func printFailures(w io.Writer, failures []types.Failure) {
	for _, f := range failures {
		fmt.Fprintf(w, "failed  %s: %s\n", f.Source, f.Error)
	}
}
