package domain

// Attendance is one member's presence in a session, as persisted inside a
// record file. Durations are whole seconds and never negative.
type Attendance struct {
	MemberID        string `json:"memberId"`
	DurationSeconds int    `json:"durationSeconds"`
}

// Record is one attendance session. It is created once from a single input
// file and immutable afterwards; the published dataset stores one file per
// record, named by ID. Record IDs must be unique across the whole dataset.
type Record struct {
	ID          string       `json:"id"`
	GroupID     string       `json:"groupId"`
	Date        string       `json:"date"` // YYYY-MM-DD
	Attendances []Attendance `json:"attendances"`
}
