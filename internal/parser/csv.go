package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/akarlsen/rollcall/internal/domain"
)

// expectedHeader is the column layout of an attendance report export:
// one row per attendance, session-level columns repeated on every row.
var expectedHeader = []string{
	"session_id",
	"group_id",
	"group_name",
	"date",
	"member_id",
	"member_name",
	"duration_seconds",
}

const (
	colSessionID = iota
	colGroupID
	colGroupName
	colDate
	colMemberID
	colMemberName
	colDuration
)

// CSVParser parses attendance report CSV exports. The zero value is ready
// to use.
type CSVParser struct{}

// NewCSVParser creates the default attendance report parser.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse reads the whole source and returns the session record and its
// contribution, or a *ParseError listing every problem found. A file is
// rejected as a whole if any row is malformed or if the session-level
// columns disagree between rows.
func (p *CSVParser) Parse(name string, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{File: name, Problems: []string{"file is empty"}}
	}
	if err != nil {
		return nil, &ParseError{File: name, Problems: []string{fmt.Sprintf("reading header: %v", err)}}
	}
	if problems := checkHeader(header); len(problems) > 0 {
		return nil, &ParseError{File: name, Problems: problems}
	}

	var problems []string
	var warnings []string
	record := &domain.Record{Attendances: []domain.Attendance{}}
	contrib := &domain.Contribution{Attendances: []domain.ContribAttendance{}}
	seenMembers := make(map[string]bool)

	rowNum := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			problems = append(problems, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}

		if rowNum == 2 {
			record.ID = row[colSessionID]
			record.GroupID = row[colGroupID]
			record.Date = row[colDate]
			contrib.RecordID = row[colSessionID]
			contrib.GroupID = row[colGroupID]
			contrib.GroupName = row[colGroupName]
			contrib.Date = row[colDate]

			if record.ID == "" {
				problems = append(problems, "row 2: session_id is required")
			}
			if record.GroupID == "" {
				problems = append(problems, "row 2: group_id is required")
			}
			if _, err := time.Parse("2006-01-02", record.Date); err != nil {
				problems = append(problems, fmt.Sprintf("row 2: invalid date %q (expected YYYY-MM-DD)", record.Date))
			}
		} else {
			problems = append(problems, checkSessionColumns(rowNum, row, contrib)...)
		}

		memberID := row[colMemberID]
		if memberID == "" {
			problems = append(problems, fmt.Sprintf("row %d: member_id is required", rowNum))
			continue
		}
		if seenMembers[memberID] {
			problems = append(problems, fmt.Sprintf("row %d: duplicate member_id %q", rowNum, memberID))
			continue
		}
		seenMembers[memberID] = true

		dur, err := strconv.Atoi(row[colDuration])
		if err != nil {
			problems = append(problems, fmt.Sprintf("row %d: duration_seconds %q is not an integer", rowNum, row[colDuration]))
			continue
		}
		if dur < 0 {
			problems = append(problems, fmt.Sprintf("row %d: duration_seconds must not be negative (got %d)", rowNum, dur))
			continue
		}
		if dur == 0 {
			warnings = append(warnings, fmt.Sprintf("%s: row %d: member %q has zero duration", name, rowNum, memberID))
		}

		record.Attendances = append(record.Attendances, domain.Attendance{
			MemberID:        memberID,
			DurationSeconds: dur,
		})
		contrib.Attendances = append(contrib.Attendances, domain.ContribAttendance{
			MemberID:        memberID,
			MemberName:      row[colMemberName],
			DurationSeconds: dur,
		})
	}

	if rowNum == 1 {
		problems = append(problems, "file has a header but no attendance rows")
	}
	if len(problems) > 0 {
		return nil, &ParseError{File: name, Problems: problems}
	}

	return &Result{Record: record, Contribution: contrib, Warnings: warnings}, nil
}

func checkHeader(header []string) []string {
	if len(header) != len(expectedHeader) {
		return []string{fmt.Sprintf("expected %d columns, got %d", len(expectedHeader), len(header))}
	}
	var problems []string
	for i, want := range expectedHeader {
		if header[i] != want {
			problems = append(problems, fmt.Sprintf("column %d: expected %q, got %q", i+1, want, header[i]))
		}
	}
	return problems
}

// checkSessionColumns verifies that the repeated session-level columns on a
// later row agree with the values taken from the first data row.
func checkSessionColumns(rowNum int, row []string, contrib *domain.Contribution) []string {
	var problems []string
	if row[colSessionID] != contrib.RecordID {
		problems = append(problems, fmt.Sprintf("row %d: session_id %q differs from %q on row 2", rowNum, row[colSessionID], contrib.RecordID))
	}
	if row[colGroupID] != contrib.GroupID {
		problems = append(problems, fmt.Sprintf("row %d: group_id %q differs from %q on row 2", rowNum, row[colGroupID], contrib.GroupID))
	}
	if row[colDate] != contrib.Date {
		problems = append(problems, fmt.Sprintf("row %d: date %q differs from %q on row 2", rowNum, row[colDate], contrib.Date))
	}
	return problems
}
