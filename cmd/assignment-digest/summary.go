// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/assignment-digest/internal/export"
	"github.com/pdiddy/assignment-digest/internal/store"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Query the summary store (list, export, documents, delete)",
	Long: `Summary reads the SQLite store that scan and serve keep in sync.
Use subcommands to list or export assignment rows, list stored documents,
or remove documents.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return bindFlags(cmd, storeKeys)
	},
}

// --- list subcommand ---

var summaryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print stored assignment rows",
	Long: `List prints stored rows ordered by source and position. Filters match
case-insensitive substrings; --due-after and --due-before take YYYY-MM-DD
and skip rows whose due date could not be read.`,
	RunE: runSummaryList,
}

func runSummaryList(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	st, err := summaryStore()
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	rows, err := st.Rows(context.Background(), f)
	if err != nil {
		return err
	}

	if format == "table" || format == "" {
		printRows(os.Stdout, rows)
		return nil
	}
	ef, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	return export.Write(os.Stdout, ef, rows)
}

// --- export subcommand ---

var summaryExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write stored rows to a file",
	Long: `Export writes stored rows (optionally filtered) to --out. The file
extension selects the format: csv, json, yaml, xlsx, or pdf.`,
	RunE: runSummaryExport,
}

func runSummaryExport(cmd *cobra.Command, args []string) error {
	out, _ := cmd.Flags().GetString("out")

	st, err := summaryStore()
	if err != nil {
		return err
	}
	defer st.Close()

	f, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}
	rows, err := st.Rows(context.Background(), f)
	if err != nil {
		return err
	}
	if err := export.WriteFile(out, rows); err != nil {
		return err
	}
	fmt.Printf("Exported %d rows to %s\n", len(rows), out)
	return nil
}

// --- documents subcommand ---

var summaryDocumentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "List stored documents",
	RunE:  runSummaryDocuments,
}

func runSummaryDocuments(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := summaryStore()
	if err != nil {
		return err
	}
	defer st.Close()

	docs, err := st.Documents(context.Background())
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	}

	if len(docs) == 0 {
		fmt.Println("No documents stored.")
		return nil
	}
	fmt.Printf("%-32s  %-12s  %-10s  %-7s  %s\n", "Source", "Subject", "Strategy", "Records", "Processed")
	fmt.Println(strings.Repeat("-", 95))
	for _, d := range docs {
		fmt.Printf("%-32s  %-12s  %-10s  %-7d  %s\n",
			clip(d.Source, 32), clip(d.Subject, 12), d.Strategy, d.Records, d.ProcessedAt)
	}
	fmt.Printf("\n%d documents\n", len(docs))
	return nil
}

// --- delete subcommand ---

var summaryDeleteCmd = &cobra.Command{
	Use:   "delete <source>...",
	Short: "Remove documents and their rows from the store",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSummaryDelete,
}

func runSummaryDelete(cmd *cobra.Command, args []string) error {
	st, err := summaryStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var missing int
	for _, source := range args {
		err := st.Delete(context.Background(), source)
		switch {
		case errors.Is(err, store.ErrNotFound):
			fmt.Printf("not found %s\n", source)
			missing++
		case err != nil:
			return err
		default:
			fmt.Printf("deleted %s\n", source)
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d source(s) not found", missing)
	}
	return nil
}

// --- shared helpers ---

func summaryStore() (*store.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if cfg.Store.Dir == "" {
		return nil, fmt.Errorf("no store configured: set store.dir or --store-dir")
	}
	return store.Open(cfg.Store)
}

func filterFromFlags(cmd *cobra.Command) (store.Filter, error) {
	source, _ := cmd.Flags().GetString("source")
	subject, _ := cmd.Flags().GetString("subject")
	assignment, _ := cmd.Flags().GetString("assignment")
	after, _ := cmd.Flags().GetString("due-after")
	before, _ := cmd.Flags().GetString("due-before")
	limit, _ := cmd.Flags().GetInt("limit")

	f := store.Filter{
		Source:     source,
		Subject:    subject,
		Assignment: assignment,
		Limit:      limit,
	}
	var err error
	if after != "" {
		if f.DueAfter, err = time.Parse(time.DateOnly, after); err != nil {
			return f, fmt.Errorf("--due-after: %w", err)
		}
	}
	if before != "" {
		if f.DueBefore, err = time.Parse(time.DateOnly, before); err != nil {
			return f, fmt.Errorf("--due-before: %w", err)
		}
	}
	return f, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "filter by exact source file name")
	cmd.Flags().String("subject", "", "filter by subject code")
	cmd.Flags().String("assignment", "", "filter by assignment label")
	cmd.Flags().String("due-after", "", "only rows due on or after YYYY-MM-DD")
	cmd.Flags().String("due-before", "", "only rows due on or before YYYY-MM-DD")
	cmd.Flags().Int("limit", 0, "maximum rows (0 = all)")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	summaryCmd.PersistentFlags().String("store-dir", defaultStoreDir, "directory holding digest.db")

	addFilterFlags(summaryListCmd)
	summaryListCmd.Flags().String("format", "table", "output format: table, csv, json, or yaml")

	addFilterFlags(summaryExportCmd)
	summaryExportCmd.Flags().StringP("out", "o", defaultSummaryCSV, "output file; the extension selects the format")

	summaryDocumentsCmd.Flags().Bool("json", false, "output documents as JSON")

	// Wire subcommands.
	summaryCmd.AddCommand(summaryListCmd)
	summaryCmd.AddCommand(summaryExportCmd)
	summaryCmd.AddCommand(summaryDocumentsCmd)
	summaryCmd.AddCommand(summaryDeleteCmd)

	rootCmd.AddCommand(summaryCmd)
}
