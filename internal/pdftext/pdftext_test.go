// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// mockExecutor returns canned pdftotext output and records the last call.
type mockExecutor struct {
	onPath   map[string]bool
	stdout   string
	stderr   string
	err      error
	lastName string
	lastArgs []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.onPath[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Output(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	m.lastName = name
	m.lastArgs = args
	return []byte(m.stdout), []byte(m.stderr), m.err
}

// fakeRuntime implements container.Runtime without a container engine.
type fakeRuntime struct {
	haveImage bool
	output    string
	err       error
	gotImage  string
	gotCmd    []string
	gotInput  string
}

func (f *fakeRuntime) Name() string                   { return "docker" }
func (f *fakeRuntime) Available(context.Context) bool { return true }

func (f *fakeRuntime) ImageExists(_ context.Context, image string) error {
	if !f.haveImage {
		return errors.New("image " + image + " not found")
	}
	return nil
}

func (f *fakeRuntime) Run(_ context.Context, image string, cmd []string, stdin io.Reader, stdout io.Writer) error {
	f.gotImage = image
	f.gotCmd = cmd
	data, _ := io.ReadAll(stdin)
	f.gotInput = string(data)
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(stdout, f.output)
	return err
}

// writeFile creates a file with content in a temp dir and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckSignature(t *testing.T) {
	assert.NoError(t, checkSignature(writeFile(t, "ok.pdf", "%PDF-1.7\n...")))

	err := checkSignature(writeFile(t, "notes.pdf", "plain text pretending"))
	assert.ErrorIs(t, err, ErrNotPDF)

	err = checkSignature(writeFile(t, "short.pdf", "%P"))
	assert.ErrorIs(t, err, ErrNotPDF)

	err = checkSignature(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotPDF)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "final report", normalize("ﬁnal report"))
	assert.Equal(t, "Weight: 40%", normalize("Weight: ４０%"))
}

func TestPdftotext_FirstPage(t *testing.T) {
	path := writeFile(t, "outline.pdf", "%PDF-1.4 body")
	exec := &mockExecutor{stdout: "COS101 ﬁnal\fpage two"}

	p := newPdftotext("", time.Second, exec)
	got, err := p.FirstPage(context.Background(), path)

	require.NoError(t, err)
	assert.Equal(t, "COS101 final\fpage two", got)
	assert.Equal(t, "pdftotext", exec.lastName)
	assert.Equal(t, []string{"-f", "1", "-l", "1", "-layout", path, "-"}, exec.lastArgs)
}

func TestPdftotext_Errors(t *testing.T) {
	t.Run("not a pdf never runs the binary", func(t *testing.T) {
		exec := &mockExecutor{}
		_, err := newPdftotext("", 0, exec).FirstPage(context.Background(), writeFile(t, "a.pdf", "hello"))
		assert.ErrorIs(t, err, ErrNotPDF)
		assert.Empty(t, exec.lastName)
	})

	t.Run("tool failure carries stderr", func(t *testing.T) {
		exec := &mockExecutor{err: errors.New("exit status 1"), stderr: "Syntax Error: bad xref\n"}
		_, err := newPdftotext("/opt/poppler/pdftotext", 0, exec).FirstPage(context.Background(), writeFile(t, "a.pdf", "%PDF-1.4"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad xref")
		assert.Equal(t, "/opt/poppler/pdftotext", exec.lastName)
	})
}

func TestContainer_FirstPage(t *testing.T) {
	path := writeFile(t, "outline.pdf", "%PDF-1.4 body")
	rt := &fakeRuntime{haveImage: true, output: "Group Assessment\n"}

	c, err := NewContainer(context.Background(), rt, "", time.Second)
	require.NoError(t, err)

	got, err := c.FirstPage(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Group Assessment\n", got)
	assert.Equal(t, defaultImage, rt.gotImage)
	assert.Equal(t, []string{"pdftotext", "-f", "1", "-l", "1", "-layout", "-", "-"}, rt.gotCmd)
	assert.Equal(t, "%PDF-1.4 body", rt.gotInput)
}

func TestContainer_Errors(t *testing.T) {
	_, err := NewContainer(context.Background(), &fakeRuntime{}, "poppler:local", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poppler:local")

	rt := &fakeRuntime{haveImage: true, err: errors.New("container exited")}
	c, err := NewContainer(context.Background(), rt, "", 0)
	require.NoError(t, err)
	_, err = c.FirstPage(context.Background(), writeFile(t, "a.pdf", "%PDF-1.4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "container exited")
}

func TestNative_RejectsBadInput(t *testing.T) {
	n := NewNative()

	_, err := n.FirstPage(context.Background(), writeFile(t, "a.pdf", "not a pdf"))
	assert.ErrorIs(t, err, ErrNotPDF)

	_, err = n.FirstPage(context.Background(), writeFile(t, "b.pdf", "%PDF-1.4\ntruncated"))
	assert.Error(t, err)
}

func TestNative_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewNative().FirstPage(ctx, writeFile(t, "a.pdf", "%PDF-1.4"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestJoinRow(t *testing.T) {
	runs := []pdf.Text{
		{S: "Essay", X: 10, W: 30, FontSize: 10},
		{S: "-", X: 45, W: 4, FontSize: 10},
		{S: "40", X: 52, W: 10, FontSize: 10},
		{S: "%", X: 62, W: 6, FontSize: 10},
	}
	assert.Equal(t, "Essay - 40%", joinRow(runs))
	assert.Equal(t, "", joinRow(nil))
}

func TestNew(t *testing.T) {
	ex, err := New(context.Background(), types.ExtractionConfig{Backend: types.BackendNative})
	require.NoError(t, err)
	assert.IsType(t, &Native{}, ex)

	ex, err = New(context.Background(), types.ExtractionConfig{Backend: types.BackendPdftotext, PdftotextBin: "pdftotext-24"})
	require.NoError(t, err)
	require.IsType(t, &Pdftotext{}, ex)
	assert.Equal(t, "pdftotext-24", ex.(*Pdftotext).bin)
	assert.Equal(t, defaultTimeout, ex.(*Pdftotext).timeout)

	_, err = New(context.Background(), types.ExtractionConfig{Backend: "ocr"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.True(t, strings.Contains(err.Error(), "ocr"))
}

func TestAuto_PrefersHostPdftotext(t *testing.T) {
	exec := &mockExecutor{onPath: map[string]bool{"pdftotext": true}}
	ex := auto(context.Background(), "", "", time.Second, exec)
	assert.IsType(t, &Pdftotext{}, ex)
}
