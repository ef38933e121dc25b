// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data model shared by the parsing core, the batch
// digest, the summary store, and the outer surfaces.
package types

// Unknown marks a field that was not detected in the source text. It is a
// value, distinct from an empty string.
const Unknown = "—"

// UnknownSubject is the subject reported when no course code line is found.
const UnknownSubject = "Unknown Subject"

// DefaultAssessment is the assessment label used when no assessment type
// phrase is present.
const DefaultAssessment = "Assessment"

// AssignmentRecord is one assessable item recovered from a document.
type AssignmentRecord struct {
	// Subject is the detected course code and title (e.g. "COS101 Intro to Systems").
	Subject string `json:"subject" yaml:"subject"`

	// Assignment is the human-readable label, possibly composite as
	// "Group Assessment (Report)". Never empty.
	Assignment string `json:"assignment" yaml:"assignment"`

	// Weight is the percentage digits ("40") or Unknown.
	Weight string `json:"weight" yaml:"weight"`

	// DueDate is the due date as written in the source ("5 May 2025"), a raw
	// deadline remainder, or Unknown.
	DueDate string `json:"due_date" yaml:"due_date"`
}

// DocumentResult holds the records produced for one document.
type DocumentResult struct {
	// Source is the document name the records came from.
	Source string `json:"source" yaml:"source"`

	// Subject is the subject stamped on every record.
	Subject string `json:"subject" yaml:"subject"`

	// Strategy names the parsing strategy that produced the records.
	Strategy string `json:"strategy" yaml:"strategy"`

	Records []AssignmentRecord `json:"records" yaml:"records"`
}

// SummaryRow is the flat, tabular form of a record used by exports, the
// summary store, and the HTTP API.
type SummaryRow struct {
	Source     string `json:"source" yaml:"source" csv:"source"`
	Subject    string `json:"subject" yaml:"subject" csv:"subject"`
	Assignment string `json:"assignment" yaml:"assignment" csv:"assignment"`
	Weight     string `json:"weight" yaml:"weight" csv:"weight"`
	DueDate    string `json:"due_date" yaml:"due_date" csv:"due_date"`

	// DueOn is DueDate in ISO form (2006-01-02) when it parses, else empty.
	DueOn string `json:"due_on,omitempty" yaml:"due_on,omitempty" csv:"-"`
}

// Rows flattens the result into summary rows in record order.
func (d DocumentResult) Rows() []SummaryRow {
	rows := make([]SummaryRow, len(d.Records))
	for i, r := range d.Records {
		rows[i] = SummaryRow{
			Source:     d.Source,
			Subject:    r.Subject,
			Assignment: r.Assignment,
			Weight:     r.Weight,
			DueDate:    r.DueDate,
		}
	}
	return rows
}

// Failure records a document that could not be processed.
type Failure struct {
	Source string `json:"source" yaml:"source"`
	Error  string `json:"error" yaml:"error"`
}

// UploadResponse is the body returned by the upload endpoint.
type UploadResponse struct {
	JobID     string           `json:"jobId" yaml:"job_id"`
	Documents []DocumentResult `json:"documents" yaml:"documents"`
	Failures  []Failure        `json:"failures" yaml:"failures"`
}
