// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import "github.com/pdiddy/assignment-digest/pkg/types"

// ProcessDocument parses one document's first-page text with s and stamps
// every record with the detected subject.
func ProcessDocument(source, text string, s Strategy) types.DocumentResult {
	lines := Lines(text)
	subject := DetectSubject(lines)

	records := s.Parse(lines)
	for i := range records {
		records[i].Subject = subject
	}

	return types.DocumentResult{
		Source:   source,
		Subject:  subject,
		Strategy: s.Name(),
		Records:  records,
	}
}

// Rows flattens a document result into summary rows with DueOn filled in.
func Rows(d types.DocumentResult) []types.SummaryRow {
	rows := d.Rows()
	for i := range rows {
		rows[i].DueOn = DueOn(rows[i].DueDate)
	}
	return rows
}
