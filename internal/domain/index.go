package domain

// GroupSummary aggregates every published record belonging to one group.
// TotalDurationSeconds must equal the sum of durations over all attendances
// in the records listed in RecordIDs; the consistency check enforces this
// before anything is published.
type GroupSummary struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	TotalDurationSeconds int      `json:"totalDurationSeconds"`
	RecordIDs            []string `json:"recordIds"`
}

// MemberSummary aggregates one member's attendance across all groups, with
// the same total-consistency requirement as GroupSummary.
type MemberSummary struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	TotalDurationSeconds int      `json:"totalDurationSeconds"`
	RecordIDs            []string `json:"recordIds"`
}

// Index is the aggregate root of the published dataset. It is rebuilt in
// full from each input batch; a publish replaces the previous index rather
// than patching it.
type Index struct {
	Groups    []GroupSummary  `json:"groups"`
	Members   []MemberSummary `json:"members"`
	UpdatedAt string          `json:"updatedAt"`
}

// NewIndex returns the empty index a batch aggregation starts from.
func NewIndex() *Index {
	return &Index{
		Groups:  []GroupSummary{},
		Members: []MemberSummary{},
	}
}

// Clone returns a deep copy. The merger works on copies so that a rejected
// contribution can hand back the caller's index untouched.
func (idx *Index) Clone() *Index {
	out := &Index{
		Groups:    make([]GroupSummary, len(idx.Groups)),
		Members:   make([]MemberSummary, len(idx.Members)),
		UpdatedAt: idx.UpdatedAt,
	}
	for i, g := range idx.Groups {
		g.RecordIDs = append([]string(nil), g.RecordIDs...)
		out.Groups[i] = g
	}
	for i, m := range idx.Members {
		m.RecordIDs = append([]string(nil), m.RecordIDs...)
		out.Members[i] = m
	}
	return out
}

// HasRecord reports whether recordID is already referenced by any group.
// Group membership is authoritative: every merged record lands in exactly
// one group's RecordIDs.
func (idx *Index) HasRecord(recordID string) bool {
	for _, g := range idx.Groups {
		for _, id := range g.RecordIDs {
			if id == recordID {
				return true
			}
		}
	}
	return false
}
