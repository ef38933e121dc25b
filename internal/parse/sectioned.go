// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// Kind is the outcome of classifying one line.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindHeader
	KindWeight
	KindDue
	KindSubtask
)

func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindWeight:
		return "weight"
	case KindDue:
		return "due"
	case KindSubtask:
		return "subtask"
	}
	return "unrecognized"
}

// Classification is a classified line. Only the fields relevant to Kind are
// set: Text for headers and subtasks, Weight for weights and subtasks, Due
// for due lines and subtasks that carry a date.
type Classification struct {
	Kind   Kind
	Text   string
	Weight string
	Due    string
}

// headerPhrases open a new assignment section.
var headerPhrases = []string{
	"group assessment",
	"individual assessment",
	"practical assessment",
	"case study analysis",
}

var (
	weightRe = regexp.MustCompile(`(?i)(weightage|weight|value)\s*[:\-]?\s*(\d+)%?`)

	dueRe = regexp.MustCompile(`(?i)(due date|deadlines|deadline)\s*[:\-]?\s*(.*)`)

	// subtaskRe matches "name - NN%" with an optional "| due: D Month YYYY".
	subtaskRe = regexp.MustCompile(`(?i)^(.+?)\s*[-:|]\s*(\d+)%(?:\s*\|\s*(?:due|deadline)?\s*[:\-]?\s*(` + datePattern + `))?`)
)

// Classify assigns a line to exactly one Kind. The checks run in a fixed
// order and the first match wins: header, weight, due, subtask.
func Classify(line string) Classification {
	lower := strings.ToLower(line)
	for _, p := range headerPhrases {
		if strings.Contains(lower, p) {
			return Classification{Kind: KindHeader, Text: line}
		}
	}

	if m := weightRe.FindStringSubmatch(line); m != nil {
		return Classification{Kind: KindWeight, Weight: m[2]}
	}

	if m := dueRe.FindStringSubmatch(line); m != nil {
		due := ExtractDate(m[2])
		if due == types.Unknown {
			if rest := strings.TrimSpace(m[2]); rest != "" {
				due = rest
			}
		}
		return Classification{Kind: KindDue, Due: due}
	}

	if m := subtaskRe.FindStringSubmatch(line); m != nil {
		return Classification{
			Kind:   KindSubtask,
			Text:   strings.TrimSpace(m[1]),
			Weight: m[2],
			Due:    m[3],
		}
	}

	return Classification{Kind: KindUnrecognized}
}

// Sectioned reads the document as a sequence of assessment sections. Weight
// and due lines set running values that subtasks inherit. It returns no
// records when no section header is seen.
type Sectioned struct{}

func (Sectioned) Name() string { return StrategySectioned }

func (Sectioned) Parse(lines []string) []types.AssignmentRecord {
	st := newSectionState()
	for _, line := range lines {
		st.apply(Classify(line))
	}
	return st.finish()
}

// sectionState is the per-document state machine: either no assignment is
// active, or one is, with its running weight and due date.
type sectionState struct {
	active     bool
	assignment string
	weight     string
	due        string
	records    []types.AssignmentRecord
}

func newSectionState() *sectionState {
	return &sectionState{weight: types.Unknown, due: types.Unknown}
}

func (s *sectionState) apply(c Classification) {
	switch c.Kind {
	case KindHeader:
		s.active = true
		s.assignment = c.Text
		s.weight = types.Unknown
		s.due = types.Unknown
	case KindWeight:
		s.weight = c.Weight
	case KindDue:
		s.due = c.Due
	case KindSubtask:
		if !s.active {
			return
		}
		weight := c.Weight
		if weight == "" {
			weight = s.weight
		}
		due := c.Due
		if due == "" {
			due = s.due
		}
		s.records = append(s.records, types.AssignmentRecord{
			Assignment: s.assignment + " (" + c.Text + ")",
			Weight:     weight,
			DueDate:    due,
		})
	}
}

// finish emits the active section as a record of its own when none of its
// subtasks were recorded.
func (s *sectionState) finish() []types.AssignmentRecord {
	if !s.active {
		return s.records
	}
	for _, r := range s.records {
		if strings.HasPrefix(r.Assignment, s.assignment) {
			return s.records
		}
	}
	return append(s.records, types.AssignmentRecord{
		Assignment: s.assignment,
		Weight:     s.weight,
		DueDate:    s.due,
	})
}
