// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/internal/store"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

// memoryStore keeps documents in process memory when no database is
// configured. Uploads always carry fresh files, so nothing is ever
// reported unchanged.
type memoryStore struct {
	mu   sync.RWMutex
	docs map[string]types.DocumentResult
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[string]types.DocumentResult)}
}

func (m *memoryStore) Unchanged(context.Context, string, time.Time, string) (bool, error) {
	return false, nil
}

func (m *memoryStore) Document(_ context.Context, source string) (types.DocumentResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.docs[source]
	if !ok {
		return d, store.ErrNotFound
	}
	return d, nil
}

func (m *memoryStore) Upsert(_ context.Context, doc types.DocumentResult, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.Source] = doc
	return nil
}

func (m *memoryStore) Rows(_ context.Context, f store.Filter) ([]types.SummaryRow, error) {
	m.mu.RLock()
	sources := make([]string, 0, len(m.docs))
	for src := range m.docs {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	var out []types.SummaryRow
	for _, src := range sources {
		if f.Source != "" && src != f.Source {
			continue
		}
		for _, r := range parse.Rows(m.docs[src]) {
			if matches(r, f) {
				out = append(out, r)
			}
		}
	}
	m.mu.RUnlock()

	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func matches(r types.SummaryRow, f store.Filter) bool {
	if f.Subject != "" && !strings.Contains(strings.ToLower(r.Subject), strings.ToLower(f.Subject)) {
		return false
	}
	if f.Assignment != "" && !strings.Contains(strings.ToLower(r.Assignment), strings.ToLower(f.Assignment)) {
		return false
	}
	if f.DueAfter.IsZero() && f.DueBefore.IsZero() {
		return true
	}
	if r.DueOn == "" {
		return false
	}
	if !f.DueAfter.IsZero() && r.DueOn < f.DueAfter.Format(time.DateOnly) {
		return false
	}
	if !f.DueBefore.IsZero() && r.DueOn > f.DueBefore.Format(time.DateOnly) {
		return false
	}
	return true
}
