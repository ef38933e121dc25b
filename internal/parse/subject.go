// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strings"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// subjectWindow is the number of leading lines searched for a course code.
const subjectWindow = 10

// subjectRe matches a course code (three capitals, optional space, three
// digits), an optional dash separator, and the course title.
var subjectRe = regexp.MustCompile(`^([A-Z]{3}\s?\d{3})\s*[–-]?\s*(.+)`)

// DetectSubject returns "<code> <title>" from the first matching line within
// the first ten lines, or types.UnknownSubject.
func DetectSubject(lines []string) string {
	if len(lines) > subjectWindow {
		lines = lines[:subjectWindow]
	}
	for _, line := range lines {
		m := subjectRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		code := strings.Join(strings.Fields(m[1]), "")
		return code + " " + strings.TrimSpace(m[2])
	}
	return types.UnknownSubject
}
