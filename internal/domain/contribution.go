package domain

// ContribAttendance is one attendance inside a merge contribution. Unlike
// the persisted Attendance it carries the member's display name, so the
// index can be built without re-reading record files.
type ContribAttendance struct {
	MemberID        string
	MemberName      string
	DurationSeconds int
}

// Contribution is the denormalized, merge-ready projection of a record.
// It exists only while a batch is being aggregated; nothing persists it.
type Contribution struct {
	RecordID    string
	GroupID     string
	GroupName   string
	Date        string
	Attendances []ContribAttendance
}

// TotalDuration returns the sum of all attendance durations in seconds.
func (c *Contribution) TotalDuration() int {
	total := 0
	for _, a := range c.Attendances {
		total += a.DurationSeconds
	}
	return total
}
