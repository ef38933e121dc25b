// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/assignment-digest/internal/digest"
	"github.com/pdiddy/assignment-digest/internal/export"
	"github.com/pdiddy/assignment-digest/internal/store"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// handleUpload stores each uploaded file under a fresh job directory, runs
// the digest over them, and returns the parsed documents.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > 0 {
		s.metrics.uploadBytes.Observe(float64(r.ContentLength))
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadMB<<20)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("upload exceeds %d MB", s.cfg.MaxUploadMB))
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, `no files in form field "files"`)
		return
	}

	jobID := uuid.NewString()
	jobDir := filepath.Join(s.cfg.UploadDir, jobID)
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		s.log.Error().Err(err).Str("job", jobID).Msg("creating job directory")
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := saveUpload(jobDir, fh)
		if err != nil {
			s.log.Error().Err(err).Str("job", jobID).Str("file", fh.Filename).Msg("saving upload")
			writeError(w, http.StatusInternalServerError, "could not store upload")
			return
		}
		paths = append(paths, path)
	}

	logger := s.log.With().Str("job", jobID).Logger()
	res, err := digest.Run(r.Context(), s.ex, s.strategy, paths, digest.Options{
		Workers: s.workers,
		Store:   s.store,
	}, newLineWriter(logger))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.metrics.observe(res)

	if s.cfg.SummaryCSV != "" {
		if err := s.writeSummaryCSV(r); err != nil {
			logger.Error().Err(err).Str("path", s.cfg.SummaryCSV).Msg("writing summary CSV")
		}
	}

	resp := types.UploadResponse{JobID: jobID, Documents: res.Documents, Failures: res.Failures}
	if resp.Documents == nil {
		resp.Documents = []types.DocumentResult{}
	}
	if resp.Failures == nil {
		resp.Failures = []types.Failure{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeSummaryCSV(r *http.Request) error {
	s.summaryMu.Lock()
	defer s.summaryMu.Unlock()
	rows, err := s.store.Rows(r.Context(), store.Filter{})
	if err != nil {
		return err
	}
	return export.WriteFile(s.cfg.SummaryCSV, rows)
}

// saveUpload copies one multipart file into dir, keeping only the base name
// of the client-supplied file name and never overwriting an earlier file.
func saveUpload(dir string, fh *multipart.FileHeader) (string, error) {
	name := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(fh.Filename, `\`, "/")))
	if name == "/" || name == "." {
		name = "upload.pdf"
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(dir, name)
	ext := filepath.Ext(name)
	for i := 1; ; i++ {
		dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			path = filepath.Join(dir, fmt.Sprintf("%s-%d%s", strings.TrimSuffix(name, ext), i, ext))
			continue
		}
		if err != nil {
			return "", err
		}
		if _, err := io.Copy(dst, src); err != nil {
			dst.Close()
			return "", err
		}
		return path, dst.Close()
	}
}

// handleSummary returns stored rows as JSON, or as a download when format
// names another export format.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := parseFilter(q.Get("subject"), q.Get("assignment"), q.Get("due_after"), q.Get("due_before"), q.Get("limit"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	format := export.FormatJSON
	if name := q.Get("format"); name != "" {
		if format, err = export.ParseFormat(name); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rows, err := s.store.Rows(r.Context(), filter)
	if err != nil {
		s.log.Error().Err(err).Msg("querying summary")
		writeError(w, http.StatusInternalServerError, "could not read summary")
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format != export.FormatJSON {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="assignments_summary.%s"`, format))
	}
	if err := export.Write(w, format, rows); err != nil {
		s.log.Error().Err(err).Str("format", string(format)).Msg("writing summary")
	}
}

// parseFilter builds a store filter from query values. Dates use the
// 2006-01-02 layout.
func parseFilter(subject, assignment, after, before, limit string) (store.Filter, error) {
	f := store.Filter{Subject: subject, Assignment: assignment}
	var err error
	if after != "" {
		if f.DueAfter, err = time.Parse(time.DateOnly, after); err != nil {
			return f, fmt.Errorf("due_after: %w", err)
		}
	}
	if before != "" {
		if f.DueBefore, err = time.Parse(time.DateOnly, before); err != nil {
			return f, fmt.Errorf("due_before: %w", err)
		}
	}
	if limit != "" {
		if f.Limit, err = strconv.Atoi(limit); err != nil || f.Limit < 0 {
			return f, fmt.Errorf("limit: must be a non-negative integer")
		}
	}
	return f, nil
}
