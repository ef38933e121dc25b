// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// firstPageArgs limits pdftotext to page one and keeps the physical layout,
// which preserves one table row per line.
var firstPageArgs = []string{"-f", "1", "-l", "1", "-layout"}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) ([]byte, []byte, error)
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

var defaultExec executor = osExecutor{}

// Pdftotext extracts text with the poppler pdftotext binary on the host.
type Pdftotext struct {
	bin     string
	timeout time.Duration
	exec    executor
}

// NewPdftotext returns a Pdftotext extractor. An empty bin uses "pdftotext"
// from PATH.
func NewPdftotext(bin string, timeout time.Duration) *Pdftotext {
	return newPdftotext(bin, timeout, defaultExec)
}

func newPdftotext(bin string, timeout time.Duration, exec executor) *Pdftotext {
	if bin == "" {
		bin = defaultPdftotext
	}
	return &Pdftotext{bin: bin, timeout: timeout, exec: exec}
}

// Available reports whether the binary can be found.
func (p *Pdftotext) Available() bool {
	_, err := p.exec.LookPath(p.bin)
	return err == nil
}

func (p *Pdftotext) FirstPage(ctx context.Context, path string) (string, error) {
	if err := checkSignature(path); err != nil {
		return "", err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	args := make([]string, 0, len(firstPageArgs)+2)
	args = append(args, firstPageArgs...)
	args = append(args, path, "-")

	out, stderr, err := p.exec.Output(ctx, p.bin, args...)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return "", fmt.Errorf("running %s on %s: %w: %s", p.bin, path, err, msg)
		}
		return "", fmt.Errorf("running %s on %s: %w", p.bin, path, err)
	}
	return normalize(string(out)), nil
}
