// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/assignment-digest/internal/digest"
	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/internal/pdftext"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse one document and print its records",
	Long: `Parse runs extraction and parsing on a single PDF and prints the
document result as YAML or JSON. Nothing is stored.

With --text the file is read as already-extracted first-page text, which is
useful for checking how a strategy handles a layout.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindPreRun(extractionKeys, digestKeys),
	RunE:    runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	asText, _ := cmd.Flags().GetBool("text")
	format, _ := cmd.Flags().GetString("format")
	showText, _ := cmd.Flags().GetBool("show-text")
	path := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	strategy, err := parse.NewStrategy(cfg.Digest.Strategy)
	if err != nil {
		return err
	}

	var text string
	if asText {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		text = string(data)
	} else {
		ctx := context.Background()
		ex, err := pdftext.New(ctx, cfg.Extraction)
		if err != nil {
			return err
		}
		text, err = ex.FirstPage(ctx, path)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", path, err)
		}
	}

	if showText {
		fmt.Fprintln(os.Stderr, text)
	}

	doc := parse.ProcessDocument(digest.Source(path), text, strategy)
	return printDocument(doc, format)
}

func printDocument(doc types.DocumentResult, format string) error {
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	return fmt.Errorf("unsupported format %q: use yaml or json", format)
}

func init() {
	parseCmd.Flags().Bool("text", false, "treat the file as extracted plain text")
	parseCmd.Flags().Bool("show-text", false, "print the extracted text to stderr")
	parseCmd.Flags().String("format", "yaml", "output format: yaml or json")
	addExtractionFlags(parseCmd)
	addDigestFlags(parseCmd)

	rootCmd.AddCommand(parseCmd)
}
