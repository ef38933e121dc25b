// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/internal/store"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

// fakeExtractor returns the file body after the PDF signature as the page
// text, or an error for files that do not start with it.
type fakeExtractor struct{}

func (fakeExtractor) FirstPage(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text, ok := strings.CutPrefix(string(data), "%PDF-1.4\n")
	if !ok {
		return "", errors.New("not a PDF file")
	}
	return text, nil
}

const (
	groupPDF = "%PDF-1.4\nICT305 - Data Science\nGroup Assessment\nWeight: 50\nDue Date: 1 July 2025\nReport - 50%\n"
	essayPDF = "%PDF-1.4\nCOS101 – Intro to Systems\nIndividual Assessment\nEssay - 40% | due: 5 May 2025\n"
)

type upload struct {
	name, body string
}

// multipartBody builds a multipart form with the files under "files".
func multipartBody(t *testing.T, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, f.body)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newTestServer(t *testing.T, cfg types.ServerConfig, st Store) (*Server, http.Handler) {
	t.Helper()
	if cfg.UploadDir == "" {
		cfg.UploadDir = filepath.Join(t.TempDir(), "uploads")
	}
	s, err := New(Options{
		Config:    cfg,
		Extractor: fakeExtractor{},
		Strategy:  parse.Sectioned{},
		Store:     st,
		Workers:   2,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return s, s.Handler()
}

func postUpload(t *testing.T, h http.Handler, token string, files ...upload) *httptest.ResponseRecorder {
	t.Helper()
	body, ctype := multipartBody(t, files...)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_RequiresExtractor(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	_, h := newTestServer(t, types.ServerConfig{}, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"service":"assignment-digest"}`, rec.Body.String())
}

func TestUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	_, h := newTestServer(t, types.ServerConfig{UploadDir: dir}, nil)

	rec := postUpload(t, h, "",
		upload{"ict305.pdf", groupPDF},
		upload{"notes.pdf", "plain text"},
		upload{"../../cos101.pdf", essayPDF},
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp types.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.JobID)

	require.Len(t, resp.Documents, 2)
	assert.Equal(t, "ict305.pdf", resp.Documents[0].Source)
	assert.Equal(t, []types.AssignmentRecord{{
		Subject:    "ICT305 Data Science",
		Assignment: "Group Assessment (Report)",
		Weight:     "50",
		DueDate:    "1 July 2025",
	}}, resp.Documents[0].Records)
	assert.Equal(t, "cos101.pdf", resp.Documents[1].Source)

	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "notes.pdf", resp.Failures[0].Source)

	entries, err := os.ReadDir(filepath.Join(dir, resp.JobID))
	require.NoError(t, err)
	assert.Len(t, entries, 3, "uploads are kept inside the job directory")
}

func TestUpload_DuplicateNamesKept(t *testing.T) {
	_, h := newTestServer(t, types.ServerConfig{}, nil)

	rec := postUpload(t, h, "", upload{"outline.pdf", groupPDF}, upload{"outline.pdf", essayPDF})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 2)
	assert.Equal(t, "outline.pdf", resp.Documents[0].Source)
	assert.Equal(t, "outline-1.pdf", resp.Documents[1].Source)
}

func TestUpload_NoFiles(t *testing.T) {
	_, h := newTestServer(t, types.ServerConfig{}, nil)
	rec := postUpload(t, h, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_TooLarge(t *testing.T) {
	_, h := newTestServer(t, types.ServerConfig{MaxUploadMB: 1}, nil)
	rec := postUpload(t, h, "", upload{"big.pdf", "%PDF-1.4\n" + strings.Repeat("x", 2<<20)})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestUpload_BearerToken(t *testing.T) {
	_, h := newTestServer(t, types.ServerConfig{UploadToken: "s3cret"}, nil)

	rec := postUpload(t, h, "", upload{"a.pdf", groupPDF})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "Bearer")

	rec = postUpload(t, h, "wrong", upload{"a.pdf", groupPDF})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postUpload(t, h, "s3cret", upload{"a.pdf", groupPDF})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpload_RateLimited(t *testing.T) {
	_, h := newTestServer(t, types.ServerConfig{UploadsPerSecond: 0.001, UploadBurst: 1}, nil)

	assert.Equal(t, http.StatusOK, postUpload(t, h, "", upload{"a.pdf", groupPDF}).Code)

	rec := postUpload(t, h, "", upload{"b.pdf", groupPDF})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestUpload_WritesSummaryCSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "assignments_summary.csv")
	_, h := newTestServer(t, types.ServerConfig{SummaryCSV: csvPath}, nil)

	require.Equal(t, http.StatusOK, postUpload(t, h, "", upload{"ict305.pdf", groupPDF}).Code)
	require.Equal(t, http.StatusOK, postUpload(t, h, "", upload{"cos101.pdf", essayPDF}).Code)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "source,subject,assignment,weight,due_date", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "cos101.pdf,"))
	assert.True(t, strings.HasPrefix(lines[2], "ict305.pdf,"))
}

func TestSummary(t *testing.T) {
	st, err := store.Open(types.StoreConfig{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, h := newTestServer(t, types.ServerConfig{}, st)
	require.Equal(t, http.StatusOK, postUpload(t, h, "", upload{"ict305.pdf", groupPDF}, upload{"cos101.pdf", essayPDF}).Code)

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	t.Run("json", func(t *testing.T) {
		rec := get("/summary")
		require.Equal(t, http.StatusOK, rec.Code)
		var rows []types.SummaryRow
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 2)
		assert.Equal(t, "cos101.pdf", rows[0].Source)
		assert.Equal(t, "2025-05-05", rows[0].DueOn)
	})

	t.Run("filtered", func(t *testing.T) {
		rec := get("/summary?subject=ict305&due_before=2025-12-31")
		require.Equal(t, http.StatusOK, rec.Code)
		var rows []types.SummaryRow
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
		require.Len(t, rows, 1)
		assert.Equal(t, "Group Assessment (Report)", rows[0].Assignment)
	})

	t.Run("csv download", func(t *testing.T) {
		rec := get("/summary?format=csv")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "assignments_summary.csv")
		assert.True(t, strings.HasPrefix(rec.Body.String(), "source,subject,assignment,weight,due_date"))
	})

	t.Run("bad format", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get("/summary?format=docx").Code)
	})

	t.Run("bad date", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, get("/summary?due_after=5+May").Code)
	})
}

func TestMetrics(t *testing.T) {
	_, h := newTestServer(t, types.ServerConfig{}, nil)
	require.Equal(t, http.StatusOK, postUpload(t, h, "", upload{"ict305.pdf", groupPDF}, upload{"bad.pdf", "nope"}).Code)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `assignment_digest_documents_processed_total{outcome="digested"} 1`)
	assert.Contains(t, body, `assignment_digest_documents_processed_total{outcome="failed"} 1`)
	assert.Contains(t, body, "assignment_digest_records_emitted_total 1")
	assert.Contains(t, body, "assignment_digest_upload_bytes_count 1")
}

func TestCORSPreflight(t *testing.T) {
	_, h := newTestServer(t, types.ServerConfig{AllowedOrigins: []string{"https://moodle.example.edu"}}, nil)

	req := httptest.NewRequest(http.MethodOptions, "/upload", nil)
	req.Header.Set("Origin", "https://moodle.example.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "https://moodle.example.edu", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLineWriter(t *testing.T) {
	var buf bytes.Buffer
	lw := newLineWriter(zerolog.New(&buf))

	io.WriteString(lw, "digested a.pdf (1 records)\nfailed  b")
	io.WriteString(lw, ".pdf: bad\n\n")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"message":"digested a.pdf (1 records)"`)
	assert.Contains(t, lines[1], `"message":"failed  b.pdf: bad"`)
}
