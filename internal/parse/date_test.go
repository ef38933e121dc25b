// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

func TestExtractDate(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"due 5 May 2025", "5 May 2025"},
		{"Submit by 12 May 2025 at 5pm", "12 May 2025"},
		{"20 June 2025", "20 June 2025"},
		{"deadline 3 sept 2025", "3 sept 2025"},
		{"1 Jan 2026 or 2 Feb 2026", "1 Jan 2026"},
		{"2025-05-05", types.Unknown},
		{"Week 5", types.Unknown},
		{"worth 10 marks 2025", types.Unknown},
		{"", types.Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDate(tt.text))
		})
	}
}

func TestParseDate(t *testing.T) {
	got, ok := ParseDate("5 May 2025")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.May, 5, 0, 0, 0, 0, time.UTC), got)

	got, ok = ParseDate("12 Sept 2025")
	require.True(t, ok)
	assert.Equal(t, time.September, got.Month())

	_, ok = ParseDate("31 June 2025")
	assert.False(t, ok, "31 June does not exist")

	_, ok = ParseDate(types.Unknown)
	assert.False(t, ok)
}

func TestDueOn(t *testing.T) {
	assert.Equal(t, "2025-07-01", DueOn("1 July 2025"))
	assert.Equal(t, "", DueOn("end of week 6"))
	assert.Equal(t, "", DueOn(types.Unknown))
}
