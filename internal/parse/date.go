// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// datePattern is "D[D] Month YYYY" with full or abbreviated English month
// names. Full names come first so "June" is not cut to "Jun".
const datePattern = `(\d{1,2})\s+(January|February|March|April|May|June|July|August|September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sept|Sep|Oct|Nov|Dec)\s+(\d{4})`

var dateRe = regexp.MustCompile(`(?i)\b` + datePattern + `\b`)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ExtractDate returns the first "D Month YYYY" date in text as written, or
// types.Unknown.
func ExtractDate(text string) string {
	if m := dateRe.FindString(text); m != "" {
		return m
	}
	return types.Unknown
}

// ParseDate converts a "D Month YYYY" date to a time.Time in UTC. It reports
// false for anything else, including impossible days such as 31 June.
func ParseDate(s string) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[3])
	month := months[strings.ToLower(m[2][:3])]

	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, false
	}
	return t, true
}

// DueOn returns the ISO form of a due date, or "" when it does not parse.
func DueOn(due string) string {
	t, ok := ParseDate(due)
	if !ok {
		return ""
	}
	return t.Format(time.DateOnly)
}
