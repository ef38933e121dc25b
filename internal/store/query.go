// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/assignment-digest/pkg/types"
)

// Filter narrows the rows returned by Rows. Zero values match everything.
type Filter struct {
	// Source matches the document name exactly.
	Source string

	// Subject and Assignment match case-insensitive substrings.
	Subject    string
	Assignment string

	// DueAfter and DueBefore bound the parsed due date, inclusive. Rows
	// without a parseable due date are excluded when either bound is set.
	DueAfter  time.Time
	DueBefore time.Time

	// Limit caps the result count. Zero means no limit.
	Limit int
}

// Rows returns stored rows matching f, ordered by source then position.
func (s *Store) Rows(ctx context.Context, f Filter) ([]types.SummaryRow, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT source, subject, assignment, weight, due_date, due_on
		FROM records WHERE 1=1`)

	if f.Source != "" {
		qb.WriteString(` AND source = ?`)
		args = append(args, f.Source)
	}
	if f.Subject != "" {
		qb.WriteString(` AND instr(lower(subject), lower(?)) > 0`)
		args = append(args, f.Subject)
	}
	if f.Assignment != "" {
		qb.WriteString(` AND instr(lower(assignment), lower(?)) > 0`)
		args = append(args, f.Assignment)
	}
	if !f.DueAfter.IsZero() {
		qb.WriteString(` AND due_on >= ?`)
		args = append(args, f.DueAfter.Format(time.DateOnly))
	}
	if !f.DueBefore.IsZero() {
		qb.WriteString(` AND due_on <= ?`)
		args = append(args, f.DueBefore.Format(time.DateOnly))
	}

	qb.WriteString(` ORDER BY source, position`)

	if f.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying rows: %w", err)
	}
	defer rows.Close()

	var out []types.SummaryRow
	for rows.Next() {
		var (
			r     types.SummaryRow
			dueOn sql.NullString
		)
		if err := rows.Scan(&r.Source, &r.Subject, &r.Assignment, &r.Weight, &r.DueDate, &dueOn); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.DueOn = dueOn.String
		out = append(out, r)
	}
	return out, rows.Err()
}
