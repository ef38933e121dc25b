// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pdiddy/assignment-digest/internal/container"
)

// Container extracts text by piping the PDF into pdftotext running inside a
// poppler image. The container has no network and sees only stdin.
type Container struct {
	runtime container.Runtime
	image   string
	timeout time.Duration
}

// NewContainer returns a Container extractor for rt. It verifies that the
// image exists locally before returning. An empty image uses the default
// poppler image.
func NewContainer(ctx context.Context, rt container.Runtime, image string, timeout time.Duration) (*Container, error) {
	if image == "" {
		image = defaultImage
	}
	if err := rt.ImageExists(ctx, image); err != nil {
		return nil, fmt.Errorf("poppler image not available in %s: %w", rt.Name(), err)
	}
	return &Container{runtime: rt, image: image, timeout: timeout}, nil
}

func (c *Container) FirstPage(ctx context.Context, path string) (string, error) {
	if err := checkSignature(path); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cmd := make([]string, 0, len(firstPageArgs)+3)
	cmd = append(cmd, defaultPdftotext)
	cmd = append(cmd, firstPageArgs...)
	cmd = append(cmd, "-", "-")

	var out bytes.Buffer
	if err := c.runtime.Run(ctx, c.image, cmd, f, &out); err != nil {
		return "", fmt.Errorf("extracting %s: %w", path, err)
	}
	return normalize(out.String()), nil
}
