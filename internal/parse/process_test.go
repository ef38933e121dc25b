// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

const unitOutline = `COS101 – Intro to Systems
Unit Outline 2025

Individual Assessment
Essay - 40% due 5 May 2025
Presentation - 60% due 12 May 2025
`

func TestProcessDocument_StampsSubject(t *testing.T) {
	got := ProcessDocument("outline.pdf", unitOutline, Typed{})

	assert.Equal(t, "outline.pdf", got.Source)
	assert.Equal(t, "COS101 Intro to Systems", got.Subject)
	assert.Equal(t, StrategyTyped, got.Strategy)
	require.Len(t, got.Records, 2)
	for _, r := range got.Records {
		assert.Equal(t, "COS101 Intro to Systems", r.Subject)
	}
}

func TestProcessDocument_NoText(t *testing.T) {
	typed := ProcessDocument("blank.pdf", "", Typed{})
	assert.Equal(t, types.UnknownSubject, typed.Subject)
	assert.Equal(t, []types.AssignmentRecord{{
		Subject:    types.UnknownSubject,
		Assignment: types.DefaultAssessment,
		Weight:     types.Unknown,
		DueDate:    types.Unknown,
	}}, typed.Records)

	sectioned := ProcessDocument("blank.pdf", "", Sectioned{})
	assert.Empty(t, sectioned.Records)
}

func TestRows_FillsDueOn(t *testing.T) {
	d := ProcessDocument("outline.pdf", unitOutline+"Quiz - 5%\n", Typed{})

	rows := Rows(d)

	require.Len(t, rows, 3)
	assert.Equal(t, "outline.pdf", rows[0].Source)
	assert.Equal(t, "2025-05-05", rows[0].DueOn)
	assert.Equal(t, "2025-05-12", rows[1].DueOn)
	assert.Equal(t, types.Unknown, rows[2].DueDate)
	assert.Empty(t, rows[2].DueOn)
}
