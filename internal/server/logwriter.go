// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// lineWriter turns the digest's plain status lines into log events, one per
// non-empty line.
type lineWriter struct {
	mu  sync.Mutex
	log zerolog.Logger
	buf bytes.Buffer
}

func newLineWriter(log zerolog.Logger) *lineWriter {
	return &lineWriter{log: log}
}

func (l *lineWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadString('\n')
		if err != nil {
			// Partial line: keep it for the next write.
			l.buf.Reset()
			l.buf.WriteString(line)
			return len(p), nil
		}
		if line = strings.TrimSpace(line); line != "" {
			l.log.Info().Msg(line)
		}
	}
}
