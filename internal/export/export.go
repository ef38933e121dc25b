// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders summary rows as CSV, JSON, YAML, XLSX, or PDF.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// Format names an output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ErrUnknownFormat is returned for a format name or file extension that
// has no writer.
var ErrUnknownFormat = errors.New("unknown export format")

// columns is the header shared by every tabular format.
var columns = []string{"Source", "Subject", "Assignment", "Weight", "Due Date"}

// ParseFormat resolves a format name, accepting "yml" for YAML.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatCSV, FormatJSON, FormatYAML, FormatXLSX, FormatPDF:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, name)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

// Write renders rows to w in format f.
func Write(w io.Writer, f Format, rows []types.SummaryRow) error {
	if rows == nil {
		rows = []types.SummaryRow{}
	}
	switch f {
	case FormatCSV:
		if err := gocsv.Marshal(rows, w); err != nil {
			return fmt.Errorf("writing CSV: %w", err)
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("writing JSON: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("writing YAML: %w", err)
		}
		return enc.Close()
	case FormatXLSX:
		return writeXLSX(w, rows)
	case FormatPDF:
		return writePDF(w, rows)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, f)
}

// WriteFile writes rows to path in the format named by its extension,
// creating parent directories as needed.
func WriteFile(path string, rows []types.SummaryRow) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if err := Write(out, f, rows); err != nil {
		out.Close()
		os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

// cells returns the tabular values of r in column order.
func cells(r types.SummaryRow) []string {
	return []string{r.Source, r.Subject, r.Assignment, r.Weight, r.DueDate}
}
