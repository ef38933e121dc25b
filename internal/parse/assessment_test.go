// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectAssessmentType(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{name: "none", lines: []string{"Essay - 40%"}, want: "Assessment"},
		{name: "individual", lines: []string{"INDIVIDUAL ASSESSMENT 2"}, want: "Individual Assessment"},
		{name: "practical", lines: []string{"Practical lab report"}, want: "Practical Assessment"},
		{name: "group", lines: []string{"Group Assessment"}, want: "Group Assessment"},
		{
			name:  "priority beats line position",
			lines: []string{"Individual Assessment", "Practical work", "Group assessment brief"},
			want:  "Group Assessment",
		},
		{
			name:  "practical beats earlier individual",
			lines: []string{"Individual Assessment", "Practical"},
			want:  "Practical Assessment",
		},
		{
			name:  "individual alone is not enough",
			lines: []string{"Individual work"},
			want:  "Assessment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectAssessmentType(tt.lines))
		})
	}
}
