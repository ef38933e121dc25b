// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/assignment-digest/internal/digest"
	"github.com/pdiddy/assignment-digest/internal/export"
	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/internal/pdftext"
)

var scanCmd = &cobra.Command{
	Use:   "scan [paths...]",
	Short: "Digest PDF outlines from files or directories",
	Long: `Scan extracts the first page of each PDF, parses its assessment
schedule, prints the combined table, and saves it to --out (CSV by default;
the extension picks csv, json, yaml, xlsx, or pdf).

Directories are searched for *.pdf files directly inside them. With a store
configured, results are synced to it and unchanged files are skipped.`,
	PreRunE: bindPreRun(extractionKeys, digestKeys, storeKeys),
	RunE:    runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")
	quiet, _ := cmd.Flags().GetBool("quiet")
	if len(args) == 0 {
		args = []string{"."}
	}

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	files, err := digest.Collect(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %v", args)
	}

	strategy, err := parse.NewStrategy(cfg.Digest.Strategy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ex, err := pdftext.New(ctx, cfg.Extraction)
	if err != nil {
		return err
	}

	opts := digest.Options{Workers: cfg.Digest.Workers}
	st, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		opts.Store = st
	}

	res, err := digest.Run(ctx, ex, strategy, files, opts, os.Stdout)
	if err != nil {
		return err
	}

	if !quiet {
		fmt.Println()
		printRows(os.Stdout, res.Rows)
	}

	if out != "" {
		if err := export.WriteFile(out, res.Rows); err != nil {
			return err
		}
		fmt.Printf("Saved summary to %s\n", out)
	}

	if res.HasFailures() {
		return fmt.Errorf("%d document(s) failed", res.Failed)
	}
	return nil
}

func init() {
	scanCmd.Flags().StringP("out", "o", defaultSummaryCSV, `summary file to write ("" to skip)`)
	scanCmd.Flags().BoolP("quiet", "q", false, "do not print the summary table")
	addExtractionFlags(scanCmd)
	addDigestFlags(scanCmd)
	addStoreFlags(scanCmd)

	rootCmd.AddCommand(scanCmd)
}
