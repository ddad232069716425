package validate

import (
	"fmt"
	"path"

	"github.com/akarlsen/rollcall/internal/domain"
)

// CheckDataset cross-validates the index against the records it references:
// every referenced record must exist, every member must actually appear in
// the attendance lists of the records its summary cites, and the stored
// totals must equal the recomputed sums. It never short-circuits; every
// finding is collected so a corrupt batch is diagnosed in one pass.
func CheckDataset(idx *domain.Index, records []*domain.Record) []Issue {
	byID := make(map[string]*domain.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	var issues []Issue

	for _, g := range idx.Groups {
		computed := 0
		for _, id := range g.RecordIDs {
			rec, ok := byID[id]
			if !ok {
				issues = append(issues, Issue{
					File:     recordFile(id),
					Type:     TypeMissingRecord,
					Message:  fmt.Sprintf("group %q references record %q which does not exist", g.ID, id),
					Severity: SeverityError,
				})
				continue
			}
			if rec.GroupID != g.ID {
				continue
			}
			for _, a := range rec.Attendances {
				computed += a.DurationSeconds
			}
		}
		if computed != g.TotalDurationSeconds {
			issues = append(issues, Issue{
				File:     "index.json",
				Type:     TypeDurationMismatch,
				Message:  fmt.Sprintf("group %q total is %d but records sum to %d", g.ID, g.TotalDurationSeconds, computed),
				Severity: SeverityError,
			})
		}
	}

	for _, m := range idx.Members {
		computed := 0
		for _, id := range m.RecordIDs {
			rec, ok := byID[id]
			if !ok {
				issues = append(issues, Issue{
					File:     recordFile(id),
					Type:     TypeMissingRecord,
					Message:  fmt.Sprintf("member %q references record %q which does not exist", m.ID, id),
					Severity: SeverityError,
				})
				continue
			}
			att, ok := findAttendance(rec, m.ID)
			if !ok {
				issues = append(issues, Issue{
					File:     recordFile(id),
					Type:     TypeMissingMemberAttendance,
					Message:  fmt.Sprintf("member %q references record %q but has no attendance in it", m.ID, id),
					Severity: SeverityError,
				})
				continue
			}
			computed += att.DurationSeconds
		}
		if computed != m.TotalDurationSeconds {
			issues = append(issues, Issue{
				File:     "index.json",
				Type:     TypeDurationMismatch,
				Message:  fmt.Sprintf("member %q total is %d but attendances sum to %d", m.ID, m.TotalDurationSeconds, computed),
				Severity: SeverityError,
			})
		}
	}

	return issues
}

func findAttendance(rec *domain.Record, memberID string) (domain.Attendance, bool) {
	for _, a := range rec.Attendances {
		if a.MemberID == memberID {
			return a, true
		}
	}
	return domain.Attendance{}, false
}

func recordFile(id string) string {
	return path.Join("records", id+".json")
}
