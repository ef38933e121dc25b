// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/internal/pdftext"
	"github.com/pdiddy/assignment-digest/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload and summary HTTP service",
	Long: `Serve starts an HTTP service that accepts PDF uploads on POST /upload,
parses them, and returns the records as JSON. GET /summary queries stored
results in any export format, /health reports liveness, and /metrics
exposes Prometheus counters.

When an upload token is configured (.secrets/upload-token or
ASSIGNMENT_DIGEST_UPLOAD_TOKEN), uploads require it as a bearer token.`,
	PreRunE: bindPreRun(extractionKeys, digestKeys, storeKeys, serverKeys),
	RunE:    runServe,
}

var serverKeys = map[string]string{
	"addr":               "server.addr",
	"upload-dir":         "server.upload_dir",
	"max-upload-mb":      "server.max_upload_mb",
	"summary-csv":        "server.summary_csv",
	"allowed-origins":    "server.allowed_origins",
	"uploads-per-second": "server.uploads_per_second",
	"upload-burst":       "server.upload_burst",
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
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

	opts := server.Options{
		Config:    cfg.Server,
		Extractor: ex,
		Strategy:  strategy,
		Workers:   cfg.Digest.Workers,
		Logger:    log.Logger,
	}

	st, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		opts.Store = st
		log.Info().Str("path", st.Path()).Msg("using summary store")
	} else {
		log.Warn().Msg("no store configured, results are kept in memory")
	}

	if cfg.Server.UploadToken == "" {
		log.Warn().Msg("no upload token configured, uploads are unauthenticated")
	}

	srv, err := server.New(opts)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx)
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8081)")
	serveCmd.Flags().String("upload-dir", "", "directory for uploaded files (default uploads)")
	serveCmd.Flags().Int64("max-upload-mb", 0, "maximum request body size in MiB")
	serveCmd.Flags().String("summary-csv", "", "CSV rewritten after each upload")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "CORS origins allowed to call the service")
	serveCmd.Flags().Float64("uploads-per-second", 0, "upload rate limit (0 disables)")
	serveCmd.Flags().Int("upload-burst", 0, "upload burst size")
	addExtractionFlags(serveCmd)
	addDigestFlags(serveCmd)
	addStoreFlags(serveCmd)

	rootCmd.AddCommand(serveCmd)
}
