// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Native extracts text in-process. It reads page one row by row so tables
// come out one row per line, much like pdftotext -layout.
type Native struct{}

// NewNative returns a Native extractor.
func NewNative() *Native { return &Native{} }

func (n *Native) FirstPage(ctx context.Context, path string) (text string, err error) {
	if err := checkSignature(path); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reading %s: malformed PDF: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	if r.NumPage() < 1 {
		return "", nil
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return "", nil
	}

	rows, err := page.GetTextByRow()
	if err != nil {
		return "", fmt.Errorf("reading page 1 of %s: %w", path, err)
	}

	var b strings.Builder
	for _, row := range rows {
		line := joinRow(row.Content)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return normalize(b.String()), nil
}

// joinRow concatenates the text runs of a row, inserting a space where the
// gap between two runs is wider than a fraction of the font size.
func joinRow(runs []pdf.Text) string {
	var b strings.Builder
	var prevEnd float64
	for i, t := range runs {
		if t.S == "" {
			continue
		}
		if i > 0 && b.Len() > 0 && t.X-prevEnd > t.FontSize*0.15 {
			b.WriteByte(' ')
		}
		b.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
