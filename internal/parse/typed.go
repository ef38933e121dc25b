// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

var (
	// typedMetaRe matches metadata lines such as "Weight: 30%" that would
	// otherwise look like subtasks.
	typedMetaRe = regexp.MustCompile(`(?i)^(weight|weightage|value)\s*[:\-]`)

	// typedSubtaskRe matches "name - NN% remainder".
	typedSubtaskRe = regexp.MustCompile(`^(.+?)\s*[-:]\s*(\d+)%\s*(.*)`)

	typedDueLineRe = regexp.MustCompile(`(?i)due date|deadline`)
)

// metadataNames are subtask names that are really metadata keywords.
var metadataNames = map[string]bool{"weight": true, "value": true, "weightage": true}

// Typed labels every percentage line as a subtask of the document's single
// detected assessment type. It always returns at least one record.
type Typed struct{}

func (Typed) Name() string { return StrategyTyped }

func (Typed) Parse(lines []string) []types.AssignmentRecord {
	kind := DetectAssessmentType(lines)

	var records []types.AssignmentRecord
	for _, line := range lines {
		if typedMetaRe.MatchString(line) {
			continue
		}
		m := typedSubtaskRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		if metadataNames[strings.ToLower(name)] {
			continue
		}
		records = append(records, types.AssignmentRecord{
			Assignment: kind + " (" + name + ")",
			Weight:     m[2],
			DueDate:    ExtractDate(m[3]),
		})
	}

	if len(records) > 0 {
		return records
	}

	due := types.Unknown
	for _, line := range lines {
		if typedDueLineRe.MatchString(line) {
			due = ExtractDate(line)
			break
		}
	}
	return []types.AssignmentRecord{{
		Assignment: kind,
		Weight:     types.Unknown,
		DueDate:    due,
	}}
}
