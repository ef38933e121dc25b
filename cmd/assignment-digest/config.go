// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/assignment-digest/internal/secrets"
	"github.com/pdiddy/assignment-digest/internal/store"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

const (
	defaultStoreDir   = "data"
	defaultSummaryCSV = "assignments_summary.csv"
)

// setDefaults registers every config key so env variables such as
// ASSIGNMENT_DIGEST_EXTRACTION_BACKEND are picked up by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("extraction.backend", string(types.BackendAuto))
	v.SetDefault("extraction.pdftotext_bin", "")
	v.SetDefault("extraction.image", "minidocks/poppler:latest")
	v.SetDefault("extraction.timeout", 30*time.Second)

	v.SetDefault("digest.strategy", "sectioned")
	v.SetDefault("digest.workers", 0)

	v.SetDefault("store.dir", defaultStoreDir)

	v.SetDefault("server.addr", ":8081")
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_upload_mb", 64)
	v.SetDefault("server.summary_csv", defaultSummaryCSV)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.uploads_per_second", 2.0)
	v.SetDefault("server.upload_burst", 5)

	v.SetDefault("upload_token", "")
}

// loadConfig decodes the merged flag, env, file, and default settings.
func loadConfig(v *viper.Viper) (types.Config, error) {
	var cfg types.Config
	err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
	if err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.Server.UploadToken = secrets.Lookup(loadedSecrets, secrets.KeyUploadToken, v.GetString("upload_token"))
	return cfg, nil
}

// bindFlags maps command flags onto config keys. It runs in PreRunE so only
// the executing command's flags are bound.
func bindFlags(cmd *cobra.Command, keys map[string]string) error {
	for flag, key := range keys {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	return nil
}

var extractionKeys = map[string]string{
	"backend":       "extraction.backend",
	"pdftotext-bin": "extraction.pdftotext_bin",
	"image":         "extraction.image",
	"timeout":       "extraction.timeout",
}

func addExtractionFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", "", "text extraction backend: auto, pdftotext, container, or native")
	cmd.Flags().String("pdftotext-bin", "", "pdftotext binary name or path")
	cmd.Flags().String("image", "", "container image providing pdftotext")
	cmd.Flags().Duration("timeout", 0, "per-document extraction timeout")
}

var digestKeys = map[string]string{
	"strategy": "digest.strategy",
	"workers":  "digest.workers",
}

func addDigestFlags(cmd *cobra.Command) {
	cmd.Flags().String("strategy", "", "parsing strategy: sectioned or typed")
	cmd.Flags().Int("workers", 0, "documents processed concurrently (0 = number of CPUs)")
}

var storeKeys = map[string]string{
	"store-dir": "store.dir",
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.Flags().String("store-dir", defaultStoreDir, `directory holding digest.db ("" disables the store)`)
}

// mergeKeys combines flag-to-key maps.
func mergeKeys(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// bindPreRun returns a PreRunE that binds the given flag maps.
func bindPreRun(maps ...map[string]string) func(*cobra.Command, []string) error {
	keys := mergeKeys(maps...)
	return func(cmd *cobra.Command, _ []string) error {
		return bindFlags(cmd, keys)
	}
}

// openStore opens the summary store, or returns nil when none is configured.
func openStore(cfg types.StoreConfig) (*store.Store, error) {
	if cfg.Dir == "" {
		return nil, nil
	}
	return store.Open(cfg)
}
