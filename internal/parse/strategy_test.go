// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStrategy(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"", StrategySectioned},
		{"sectioned", StrategySectioned},
		{" Typed ", StrategyTyped},
		{"typed", StrategyTyped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStrategy(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Name())
		})
	}
}

func TestNewStrategy_Unknown(t *testing.T) {
	_, err := NewStrategy("regex")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
	assert.Contains(t, err.Error(), `"regex"`)
}

func TestStrategies_RecordInvariants(t *testing.T) {
	docs := [][]string{
		nil,
		{"Group Assessment", "Weight: 50", "Due Date: 1 July 2025", "Report - 50%"},
		{"Individual Assessment", "Essay - 40% due 5 May 2025", "Deadline: soon"},
		{"Practical", "Lab 1 - 10%", "Lab 2: 15% | due: 3 March 2025", "value - 5%"},
	}

	for _, s := range []Strategy{Sectioned{}, Typed{}} {
		for _, lines := range docs {
			for _, r := range s.Parse(lines) {
				assert.NotEmpty(t, r.Assignment, s.Name())
				assert.NotEmpty(t, r.Weight, s.Name())
				assert.NotEmpty(t, r.DueDate, s.Name())
				assert.Empty(t, r.Subject, "strategies leave the subject to ProcessDocument")
			}
		}
	}
}
