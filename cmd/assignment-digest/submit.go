// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/assignment-digest/internal/digest"
	"github.com/pdiddy/assignment-digest/internal/export"
	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/internal/secrets"
	"github.com/pdiddy/assignment-digest/internal/submit"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

var submitCmd = &cobra.Command{
	Use:   "submit [paths...]",
	Short: "Upload PDFs to a running digest service",
	Long: `Submit sends PDF files to a digest service's /upload endpoint and
prints the records it returns. Directories expand to the PDFs inside them.

The bearer token comes from --token, ASSIGNMENT_DIGEST_UPLOAD_TOKEN, or
.secrets/upload-token. Rate-limited requests are retried.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	serverURL, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	retries, _ := cmd.Flags().GetInt("retries")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	out, _ := cmd.Flags().GetString("out")

	files, err := digest.Collect(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no PDF files found in %v", args)
	}

	if token == "" {
		token = viper.GetString("upload_token")
	}
	client := &submit.Client{
		BaseURL:    serverURL,
		Token:      secrets.Lookup(loadedSecrets, secrets.KeyUploadToken, token),
		MaxRetries: retries,
		Log:        os.Stderr,
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	resp, err := client.Upload(ctx, files)
	if err != nil {
		return err
	}

	var rows []types.SummaryRow
	for _, d := range resp.Documents {
		rows = append(rows, parse.Rows(d)...)
	}
	fmt.Printf("Job %s: %d document(s), %d failed\n\n", resp.JobID, len(resp.Documents), len(resp.Failures))
	printRows(os.Stdout, rows)
	printFailures(os.Stderr, resp.Failures)

	if out != "" {
		if err := export.WriteFile(out, rows); err != nil {
			return err
		}
		fmt.Printf("Saved summary to %s\n", out)
	}

	if len(resp.Failures) > 0 {
		return fmt.Errorf("%d document(s) failed", len(resp.Failures))
	}
	return nil
}

func init() {
	submitCmd.Flags().String("server", "http://localhost:8081", "digest service base URL")
	submitCmd.Flags().String("token", "", "bearer token for uploads")
	submitCmd.Flags().Int("retries", 3, "retries for rate-limited or unavailable responses")
	submitCmd.Flags().Duration("timeout", 5*time.Minute, "overall request timeout")
	submitCmd.Flags().StringP("out", "o", "", "also save the returned rows to this file")

	rootCmd.AddCommand(submitCmd)
}
