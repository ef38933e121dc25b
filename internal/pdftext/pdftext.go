// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts the text of a PDF's first page with pluggable
// backends: the host pdftotext binary, pdftotext inside a poppler container,
// or an in-process reader.
package pdftext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/assignment-digest/internal/container"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

const (
	defaultPdftotext = "pdftotext"
	defaultImage     = "minidocks/poppler:latest"
	defaultTimeout   = 30 * time.Second
)

// pdfMagic is the signature every PDF file starts with.
var pdfMagic = []byte("%PDF-")

var (
	// ErrNotPDF is returned when a file does not start with the PDF signature.
	ErrNotPDF = errors.New("not a PDF file")

	// ErrUnknownBackend is returned by New for an unrecognized backend name.
	ErrUnknownBackend = errors.New("unknown extraction backend")
)

// Extractor returns the text of the first page of a PDF. A document with no
// pages yields an empty string and no error.
type Extractor interface {
	FirstPage(ctx context.Context, path string) (string, error)
}

// New returns the extractor selected by cfg.Backend. The auto backend uses
// pdftotext when it is on PATH, then a container runtime, then the native
// reader.
func New(ctx context.Context, cfg types.ExtractionConfig) (Extractor, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	switch cfg.Backend {
	case types.BackendPdftotext:
		return NewPdftotext(cfg.PdftotextBin, timeout), nil
	case types.BackendContainer:
		rt, err := container.DetectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewContainer(ctx, rt, cfg.Image, timeout)
	case types.BackendNative:
		return NewNative(), nil
	case "", types.BackendAuto:
		return auto(ctx, cfg.PdftotextBin, cfg.Image, timeout, defaultExec), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Backend)
}

func auto(ctx context.Context, bin, image string, timeout time.Duration, exec executor) Extractor {
	p := newPdftotext(bin, timeout, exec)
	if p.Available() {
		return p
	}
	if rt, err := container.DetectRuntime(ctx); err == nil {
		if c, err := NewContainer(ctx, rt, image, timeout); err == nil {
			return c
		}
	}
	return NewNative()
}

// checkSignature opens path and verifies it begins with the PDF signature.
func checkSignature(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("%s: %w", path, ErrNotPDF)
	}
	return nil
}

// normalize folds compatibility characters (ligatures, no-break spaces,
// full-width digits) so the line patterns see plain text.
func normalize(s string) string {
	return norm.NFKC.String(s)
}
