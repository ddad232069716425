package merge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarlsen/rollcall/internal/domain"
)

var testTime = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testTime }

func contribS1() *domain.Contribution {
	return &domain.Contribution{
		RecordID:  "S1",
		GroupID:   "G1",
		GroupName: "Choir",
		Date:      "2025-03-10",
		Attendances: []domain.ContribAttendance{
			{MemberID: "M1", MemberName: "Ada", DurationSeconds: 3600},
			{MemberID: "M2", MemberName: "Ben", DurationSeconds: 1800},
		},
	}
}

func contribS2() *domain.Contribution {
	return &domain.Contribution{
		RecordID:  "S2",
		GroupID:   "G1",
		GroupName: "Choir",
		Date:      "2025-03-11",
		Attendances: []domain.ContribAttendance{
			{MemberID: "M1", MemberName: "Ada", DurationSeconds: 2700},
		},
	}
}

func TestMerge_AddsGroupAndMembers(t *testing.T) {
	m := NewMerger(fixedClock)

	idx, dup := m.Merge(domain.NewIndex(), contribS1())
	require.Nil(t, dup)

	require.Len(t, idx.Groups, 1)
	assert.Equal(t, "G1", idx.Groups[0].ID)
	assert.Equal(t, "Choir", idx.Groups[0].Name)
	assert.Equal(t, 5400, idx.Groups[0].TotalDurationSeconds)
	assert.Equal(t, []string{"S1"}, idx.Groups[0].RecordIDs)

	require.Len(t, idx.Members, 2)
	assert.Equal(t, 3600, idx.Members[0].TotalDurationSeconds)
	assert.Equal(t, "Ada", idx.Members[0].Name)
	assert.Equal(t, []string{"S1"}, idx.Members[1].RecordIDs)

	assert.Equal(t, "2025-03-15T12:00:00Z", idx.UpdatedAt)
}

func TestMerge_AccumulatesAcrossRecords(t *testing.T) {
	m := NewMerger(fixedClock)

	idx, dup := m.Merge(domain.NewIndex(), contribS1())
	require.Nil(t, dup)
	idx, dup = m.Merge(idx, contribS2())
	require.Nil(t, dup)

	require.Len(t, idx.Groups, 1)
	assert.Equal(t, 8100, idx.Groups[0].TotalDurationSeconds)
	assert.Equal(t, []string{"S1", "S2"}, idx.Groups[0].RecordIDs)

	require.Len(t, idx.Members, 2)
	assert.Equal(t, 6300, idx.Members[0].TotalDurationSeconds) // Ada: 3600+2700
	assert.Equal(t, []string{"S1", "S2"}, idx.Members[0].RecordIDs)
	assert.Equal(t, 1800, idx.Members[1].TotalDurationSeconds) // Ben
}

func TestMerge_DuplicateLeavesIndexUnchanged(t *testing.T) {
	m := NewMerger(fixedClock)

	once, dup := m.Merge(domain.NewIndex(), contribS1())
	require.Nil(t, dup)

	again, dup := m.Merge(once, contribS1())
	require.NotNil(t, dup)
	assert.Equal(t, "S1", dup.RecordID)
	// Merging the duplicate yields an index identical to merging only the
	// first occurrence.
	assert.Equal(t, once, again)
}

func TestMerge_NeverMutatesInput(t *testing.T) {
	m := NewMerger(fixedClock)

	base, _ := m.Merge(domain.NewIndex(), contribS1())
	snapshot := base.Clone()

	m.Merge(base, contribS2())
	m.Merge(base, contribS1()) // duplicate path

	assert.Equal(t, snapshot, base)
}

func TestMerge_EmptyInputNotMutated(t *testing.T) {
	m := NewMerger(fixedClock)

	empty := domain.NewIndex()
	m.Merge(empty, contribS1())

	assert.Empty(t, empty.Groups)
	assert.Empty(t, empty.Members)
	assert.Empty(t, empty.UpdatedAt)
}

func TestAggregate_DuplicateRejection(t *testing.T) {
	m := NewMerger(fixedClock)

	recA := &domain.Record{ID: "S1", GroupID: "G1", Date: "2025-03-10"}
	recB := &domain.Record{ID: "S1", GroupID: "G1", Date: "2025-03-10"}

	result := m.Aggregate([]Entry{
		{File: "report1.csv", Record: recA, Contribution: contribS1()},
		{File: "report1-copy.csv", Record: recB, Contribution: contribS1()},
	})

	// First occurrence wins; the second's record is dropped.
	require.Len(t, result.Records, 1)
	assert.Same(t, recA, result.Records[0])
	require.Len(t, result.Duplicates, 1)
	assert.Equal(t, "S1", result.Duplicates[0].RecordID)
	assert.Equal(t, "report1-copy.csv", result.Duplicates[0].File)
	assert.Equal(t, 5400, result.Index.Groups[0].TotalDurationSeconds)
}

func TestAggregate_OrderDecidesWinner(t *testing.T) {
	m := NewMerger(fixedClock)

	first := contribS1()
	second := contribS1()
	second.GroupName = "Renamed"

	result := m.Aggregate([]Entry{
		{File: "a.csv", Record: &domain.Record{ID: "S1"}, Contribution: first},
		{File: "b.csv", Record: &domain.Record{ID: "S1"}, Contribution: second},
	})

	assert.Equal(t, "Choir", result.Index.Groups[0].Name)
}

func TestAggregate_Empty(t *testing.T) {
	m := NewMerger(fixedClock)

	result := m.Aggregate(nil)
	assert.Empty(t, result.Records)
	assert.Empty(t, result.Duplicates)
	assert.Empty(t, result.Index.Groups)
}
