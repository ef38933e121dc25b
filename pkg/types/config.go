// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ExtractionBackend identifies the PDF-to-text tool used for first pages.
type ExtractionBackend string

const (
	BackendAuto      ExtractionBackend = "auto"
	BackendPdftotext ExtractionBackend = "pdftotext"
	BackendContainer ExtractionBackend = "container"
	BackendNative    ExtractionBackend = "native"
)

// ExtractionConfig holds settings for first-page text extraction.
type ExtractionConfig struct {
	// Backend selects the extraction tool: auto, pdftotext, container, or native.
	Backend ExtractionBackend `json:"backend" yaml:"backend"`

	// PdftotextBin overrides the pdftotext binary name or path.
	PdftotextBin string `json:"pdftotext_bin,omitempty" yaml:"pdftotext_bin,omitempty"`

	// Image is the container image providing pdftotext (default "minidocks/poppler:latest").
	Image string `json:"image,omitempty" yaml:"image,omitempty"`

	// Timeout bounds a single extraction (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// DigestConfig holds settings for a batch digest run.
type DigestConfig struct {
	// Strategy names the parsing strategy: sectioned or typed.
	Strategy string `json:"strategy" yaml:"strategy"`

	// Workers bounds the number of documents processed concurrently.
	// Zero uses runtime.NumCPU().
	Workers int `json:"workers" yaml:"workers"`
}

// StoreConfig holds settings for the sqlite summary store.
type StoreConfig struct {
	// Dir is the directory containing digest.db. Empty disables the store.
	Dir string `json:"dir" yaml:"dir"`
}

// ServerConfig holds settings for the HTTP upload service.
type ServerConfig struct {
	// Addr is the listen address (default ":8081").
	Addr string `json:"addr" yaml:"addr"`

	// UploadDir is where uploaded PDFs are kept, one directory per job.
	UploadDir string `json:"upload_dir" yaml:"upload_dir"`

	// MaxUploadMB caps the multipart request size (default 64).
	MaxUploadMB int64 `json:"max_upload_mb" yaml:"max_upload_mb"`

	// SummaryCSV is rewritten with all stored rows after each upload when set.
	SummaryCSV string `json:"summary_csv,omitempty" yaml:"summary_csv,omitempty"`

	// UploadToken, when set, must be presented as a bearer token on /upload.
	UploadToken string `json:"-" yaml:"-"`

	// AllowedOrigins lists CORS origins; empty allows all.
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`

	// UploadsPerSecond and UploadBurst configure the /upload rate limiter.
	// Zero disables limiting.
	UploadsPerSecond float64 `json:"uploads_per_second" yaml:"uploads_per_second"`
	UploadBurst      int     `json:"upload_burst" yaml:"upload_burst"`
}

// Config groups all settings for the application.
type Config struct {
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Digest     DigestConfig     `json:"digest" yaml:"digest"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}
