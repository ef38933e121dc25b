// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		line string
		want Classification
	}{
		{"Group Assessment", Classification{Kind: KindHeader, Text: "Group Assessment"}},
		{"CASE STUDY ANALYSIS (Part B)", Classification{Kind: KindHeader, Text: "CASE STUDY ANALYSIS (Part B)"}},
		{"Practical Assessment - 30%", Classification{Kind: KindHeader, Text: "Practical Assessment - 30%"}},
		{"Weight: 50", Classification{Kind: KindWeight, Weight: "50"}},
		{"Weightage - 25%", Classification{Kind: KindWeight, Weight: "25"}},
		{"Value 40%", Classification{Kind: KindWeight, Weight: "40"}},
		{"Due Date: 1 July 2025", Classification{Kind: KindDue, Due: "1 July 2025"}},
		{"Deadlines: Friday of week 6", Classification{Kind: KindDue, Due: "Friday of week 6"}},
		{"deadline", Classification{Kind: KindDue, Due: types.Unknown}},
		{"Report - 50%", Classification{Kind: KindSubtask, Text: "Report", Weight: "50"}},
		{"Part A: Report | 20% | Due: 5 May 2025", Classification{Kind: KindSubtask, Text: "Part A: Report", Weight: "20", Due: "5 May 2025"}},
		{"Presentation - 30% | due: 12 May 2025", Classification{Kind: KindSubtask, Text: "Presentation", Weight: "30", Due: "12 May 2025"}},
		{"Mid-term Exam - 30%", Classification{Kind: KindSubtask, Text: "Mid-term Exam", Weight: "30"}},
		{"Submission: 11:59pm", Classification{Kind: KindUnrecognized}},
		{"Lecture notes", Classification{Kind: KindUnrecognized}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.line))
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// A header phrase wins over everything else on the same line.
	assert.Equal(t, KindHeader, Classify("Individual Assessment weight: 40%").Kind)
	// Weight wins over due.
	assert.Equal(t, KindWeight, Classify("Due date 5 May 2025, weight 20%").Kind)
	// Due wins over subtask.
	assert.Equal(t, KindDue, Classify("Deadline - 10%").Kind)
}

func TestSectioned_InheritsRunningValues(t *testing.T) {
	lines := []string{"Group Assessment", "Weight: 50", "Due Date: 1 July 2025", "Report - 50%"}

	got := Sectioned{}.Parse(lines)

	require.Len(t, got, 1)
	assert.Equal(t, types.AssignmentRecord{
		Assignment: "Group Assessment (Report)",
		Weight:     "50",
		DueDate:    "1 July 2025",
	}, got[0])
}

func TestSectioned_SubtaskOwnDateWins(t *testing.T) {
	lines := []string{
		"Individual Assessment",
		"Due Date: 1 July 2025",
		"Essay - 40% | due: 5 May 2025",
		"Reflection - 10%",
	}

	got := Sectioned{}.Parse(lines)

	require.Len(t, got, 2)
	assert.Equal(t, "5 May 2025", got[0].DueDate)
	assert.Equal(t, "1 July 2025", got[1].DueDate)
}

func TestSectioned_SubtaskBeforeHeaderIgnored(t *testing.T) {
	lines := []string{"Report - 50%", "Group Assessment"}

	got := Sectioned{}.Parse(lines)

	require.Len(t, got, 1)
	assert.Equal(t, types.AssignmentRecord{
		Assignment: "Group Assessment",
		Weight:     types.Unknown,
		DueDate:    types.Unknown,
	}, got[0])
}

func TestSectioned_HeaderResetsRunningValues(t *testing.T) {
	lines := []string{
		"Group Assessment",
		"Weight: 50",
		"Due Date: 1 July 2025",
		"Report - 50%",
		"Individual Assessment",
		"Essay - 20%",
	}

	got := Sectioned{}.Parse(lines)

	require.Len(t, got, 2)
	assert.Equal(t, types.AssignmentRecord{
		Assignment: "Individual Assessment (Essay)",
		Weight:     "20",
		DueDate:    types.Unknown,
	}, got[1])
}

func TestSectioned_FallbackRecord(t *testing.T) {
	lines := []string{
		"COS101 – Intro to Systems",
		"Case Study Analysis",
		"Value: 35%",
		"Deadline: 9 October 2025",
	}

	got := Sectioned{}.Parse(lines)

	require.Len(t, got, 1)
	assert.Equal(t, types.AssignmentRecord{
		Assignment: "Case Study Analysis",
		Weight:     "35",
		DueDate:    "9 October 2025",
	}, got[0])
}

func TestSectioned_NoHeaderYieldsNothing(t *testing.T) {
	assert.Empty(t, Sectioned{}.Parse(nil))
	assert.Empty(t, Sectioned{}.Parse([]string{"Essay - 40%", "Weight: 10"}))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "header", KindHeader.String())
	assert.Equal(t, "subtask", KindSubtask.String())
	assert.Equal(t, "unrecognized", Kind(99).String())
}
