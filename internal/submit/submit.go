// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package submit uploads PDFs to a running digest server.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/assignment-digest/internal/httputil"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

// Client talks to the upload endpoint of a digest server.
type Client struct {
	// BaseURL is the server root, e.g. "http://localhost:8081".
	BaseURL string

	// Token is sent as a bearer token when non-empty.
	Token string

	HTTP       *http.Client
	MaxRetries int

	// Log receives retry notices. Nil discards them.
	Log io.Writer
}

// Upload posts every path in one multipart request and returns the
// server's parsed documents and failures.
func (c *Client) Upload(ctx context.Context, paths []string) (types.UploadResponse, error) {
	var out types.UploadResponse
	if len(paths) == 0 {
		return out, fmt.Errorf("no files to submit")
	}

	endpoint, err := url.JoinPath(c.BaseURL, "upload")
	if err != nil {
		return out, fmt.Errorf("invalid server URL %q: %w", c.BaseURL, err)
	}

	body, contentType, err := multipartBody(paths)
	if err != nil {
		return out, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries, c.Log)
	if err != nil {
		return out, fmt.Errorf("posting to %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return out, fmt.Errorf("upload rejected: %s: %s", resp.Status, errorMessage(resp.Body))
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("decoding upload response: %w", err)
	}
	return out, nil
}

// multipartBody reads paths into an in-memory multipart form so the request
// can be replayed after a 429.
func multipartBody(paths []string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range paths {
		if err := addFile(mw, p); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func addFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	part, err := mw.CreateFormFile("files", filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// errorMessage extracts the "error" field of a JSON error body, falling
// back to the raw text.
func errorMessage(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4<<10))
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(data))
}
