// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"strings"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// assessmentTypes is checked in order; a phrase is searched across every
// line before the next phrase is tried.
var assessmentTypes = []struct {
	phrase string
	label  string
}{
	{"group assessment", "Group Assessment"},
	{"practical", "Practical Assessment"},
	{"individual assessment", "Individual Assessment"},
}

// DetectAssessmentType returns the canonical label of the highest-priority
// assessment phrase found in any line, or types.DefaultAssessment.
func DetectAssessmentType(lines []string) string {
	lower := make([]string, len(lines))
	for i, l := range lines {
		lower[i] = strings.ToLower(l)
	}
	for _, at := range assessmentTypes {
		for _, l := range lower {
			if strings.Contains(l, at.phrase) {
				return at.label
			}
		}
	}
	return types.DefaultAssessment
}
