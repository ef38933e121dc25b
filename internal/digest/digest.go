// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest runs the extract-and-parse pipeline over a batch of PDFs,
// printing one status line per document and collecting summary rows.
package digest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/internal/pdftext"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

// Store is the subset of the summary store a digest run uses to skip
// documents that have not changed since they were last parsed.
type Store interface {
	Unchanged(ctx context.Context, source string, modTime time.Time, strategy string) (bool, error)
	Document(ctx context.Context, source string) (types.DocumentResult, error)
	Upsert(ctx context.Context, doc types.DocumentResult, modTime time.Time) error
}

// Options configures a run.
type Options struct {
	// Workers bounds concurrent documents. Zero uses runtime.NumCPU().
	Workers int

	// Store, when non-nil, receives every parsed document and lets
	// unchanged documents be reused instead of extracted again.
	Store Store
}

// Result holds the outcome of a run. Documents and Rows follow the order
// of the input paths regardless of completion order.
type Result struct {
	Digested int
	Skipped  int
	Failed   int

	Documents []types.DocumentResult
	Rows      []types.SummaryRow
	Failures  []types.Failure
}

// Total returns the number of documents processed.
func (r Result) Total() int {
	return r.Digested + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed.
func (r Result) HasFailures() bool {
	return r.Failed > 0
}

type status int

const (
	statusDigested status = iota
	statusSkipped
	statusFailed
)

type outcome struct {
	status status
	doc    types.DocumentResult
	err    error
}

// Source returns the document name recorded for path.
func Source(path string) string {
	return filepath.Base(path)
}

// Collect expands paths into a sorted, de-duplicated list of files. A
// directory contributes the .pdf files directly inside it; a file is taken
// as given.
func Collect(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				continue
			}
			add(filepath.Join(p, e.Name()))
		}
	}

	sort.Strings(out)
	return out, nil
}

// Run extracts and parses every path with s, printing a status line per
// document to w and a summary line at the end. A failing document is
// counted and reported; it does not stop the run. Run returns an error only
// when ctx is cancelled.
func Run(ctx context.Context, ex pdftext.Extractor, s parse.Strategy, paths []string, opts Options, w io.Writer) (Result, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]outcome, len(paths))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o := processOne(gctx, ex, s, path, opts.Store)
			outcomes[i] = o

			mu.Lock()
			defer mu.Unlock()
			switch o.status {
			case statusDigested:
				fmt.Fprintf(w, "digested %s (%d records)\n", o.doc.Source, len(o.doc.Records))
			case statusSkipped:
				fmt.Fprintf(w, "skipped %s (unchanged)\n", o.doc.Source)
			case statusFailed:
				fmt.Fprintf(w, "failed  %s: %v\n", Source(path), o.err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var result Result
	for i, o := range outcomes {
		switch o.status {
		case statusDigested:
			result.Digested++
		case statusSkipped:
			result.Skipped++
		case statusFailed:
			result.Failed++
			result.Failures = append(result.Failures, types.Failure{Source: Source(paths[i]), Error: o.err.Error()})
			continue
		}
		result.Documents = append(result.Documents, o.doc)
		result.Rows = append(result.Rows, parse.Rows(o.doc)...)
	}

	fmt.Fprintf(w, "\nDigest summary: %d digested, %d skipped, %d failed (total: %d)\n",
		result.Digested, result.Skipped, result.Failed, result.Total())
	return result, nil
}

func processOne(ctx context.Context, ex pdftext.Extractor, s parse.Strategy, path string, st Store) outcome {
	source := Source(path)

	info, err := os.Stat(path)
	if err != nil {
		return outcome{status: statusFailed, err: err}
	}

	if st != nil {
		same, err := st.Unchanged(ctx, source, info.ModTime(), s.Name())
		if err != nil {
			return outcome{status: statusFailed, err: err}
		}
		if same {
			doc, err := st.Document(ctx, source)
			if err == nil {
				return outcome{status: statusSkipped, doc: doc}
			}
		}
	}

	text, err := ex.FirstPage(ctx, path)
	if err != nil {
		return outcome{status: statusFailed, err: err}
	}
	doc := parse.ProcessDocument(source, text, s)

	if st != nil {
		if err := st.Upsert(ctx, doc, info.ModTime()); err != nil {
			return outcome{status: statusFailed, err: fmt.Errorf("storing %s: %w", source, err)}
		}
	}
	return outcome{status: statusDigested, doc: doc}
}
