// Package validate gates the pipeline: contract checks confirm the dataset
// has the published shape, consistency checks confirm the index agrees with
// the records it references. Any error-severity issue blocks publishing.
package validate

// Severity classifies an issue. Only error-severity issues gate a publish;
// warnings are informational.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue type labels used by the consistency checks and the aggregator's
// duplicate reporting.
const (
	TypeMissingRecord           = "missing-record"
	TypeMissingMemberAttendance = "missing-member-attendance"
	TypeDurationMismatch        = "duration-mismatch"
	TypeDuplicateRecord         = "duplicate-record"
	TypeInputWarning            = "input-warning"
	TypeTransformError          = "transform-error"
)

// Issue is one validation finding. File names the dataset file the finding
// concerns, Field the JSON path within it (contract checks only), Type the
// taxonomy label (consistency checks and pipeline-level findings).
type Issue struct {
	File     string   `json:"filePath,omitempty"`
	Field    string   `json:"fieldPath,omitempty"`
	Type     string   `json:"issueType,omitempty"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// HasErrors reports whether any issue in the list has error severity.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}
