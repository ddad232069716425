// Package merge folds contributions into the cumulative dataset index.
package merge

import (
	"fmt"
	"time"

	"github.com/akarlsen/rollcall/internal/domain"
)

// DuplicateWarning reports a contribution whose record ID is already in the
// index. The contribution and its record are dropped from the run.
type DuplicateWarning struct {
	RecordID string
	File     string
}

func (w *DuplicateWarning) String() string {
	return fmt.Sprintf("record %q already present, skipping", w.RecordID)
}

// Merger applies one contribution at a time to an index. The clock is
// injected so that UpdatedAt stamping is deterministic under test.
type Merger struct {
	now func() time.Time
}

// NewMerger creates a Merger stamping UpdatedAt from now. A nil now falls
// back to time.Now.
func NewMerger(now func() time.Time) *Merger {
	if now == nil {
		now = time.Now
	}
	return &Merger{now: now}
}

// Merge returns a new index with the contribution applied. The input index
// is never mutated; callers can rely on the returned value being a fresh
// copy even when the contribution is rejected. A duplicate record ID yields
// the unchanged (copied) index plus a DuplicateWarning.
func (m *Merger) Merge(idx *domain.Index, c *domain.Contribution) (*domain.Index, *DuplicateWarning) {
	out := idx.Clone()

	if out.HasRecord(c.RecordID) {
		return out, &DuplicateWarning{RecordID: c.RecordID}
	}

	total := c.TotalDuration()

	gi := findGroup(out, c.GroupID)
	if gi < 0 {
		out.Groups = append(out.Groups, domain.GroupSummary{
			ID:        c.GroupID,
			Name:      c.GroupName,
			RecordIDs: []string{},
		})
		gi = len(out.Groups) - 1
	}
	out.Groups[gi].TotalDurationSeconds += total
	out.Groups[gi].RecordIDs = append(out.Groups[gi].RecordIDs, c.RecordID)

	for _, a := range c.Attendances {
		mi := findMember(out, a.MemberID)
		if mi < 0 {
			out.Members = append(out.Members, domain.MemberSummary{
				ID:        a.MemberID,
				Name:      a.MemberName,
				RecordIDs: []string{},
			})
			mi = len(out.Members) - 1
		}
		out.Members[mi].TotalDurationSeconds += a.DurationSeconds
		out.Members[mi].RecordIDs = append(out.Members[mi].RecordIDs, c.RecordID)
	}

	out.UpdatedAt = m.now().UTC().Format(time.RFC3339)
	return out, nil
}

func findGroup(idx *domain.Index, id string) int {
	for i := range idx.Groups {
		if idx.Groups[i].ID == id {
			return i
		}
	}
	return -1
}

func findMember(idx *domain.Index, id string) int {
	for i := range idx.Members {
		if idx.Members[i].ID == id {
			return i
		}
	}
	return -1
}
