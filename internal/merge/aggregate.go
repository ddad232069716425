package merge

import "github.com/akarlsen/rollcall/internal/domain"

// Entry pairs a built record with its contribution. File names the source
// for duplicate warnings.
type Entry struct {
	File         string
	Record       *domain.Record
	Contribution *domain.Contribution
}

// AggregateResult is the outcome of folding a batch: the cumulative index,
// the records that survived duplicate rejection, and one warning per
// rejected contribution.
type AggregateResult struct {
	Index      *domain.Index
	Records    []*domain.Record
	Duplicates []*DuplicateWarning
}

// Aggregate folds entries into a fresh index, strictly left to right. Order
// decides which of two same-ID contributions wins: the first is kept, later
// ones are rejected and their records excluded from the output. Callers must
// therefore supply entries in a stable order (discovery order).
func (m *Merger) Aggregate(entries []Entry) *AggregateResult {
	result := &AggregateResult{Index: domain.NewIndex()}

	for _, e := range entries {
		next, dup := m.Merge(result.Index, e.Contribution)
		result.Index = next
		if dup != nil {
			dup.File = e.File
			result.Duplicates = append(result.Duplicates, dup)
			continue
		}
		result.Records = append(result.Records, e.Record)
	}

	return result
}
