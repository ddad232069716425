package validate

import "fmt"

// CheckIndexValue validates the shape of a generically decoded index
// document. The value is whatever encoding/json produced for the bytes
// about to be published, so these checks guard the wire format rather than
// the in-memory structs. A nil or non-object top level yields one blanket
// error and no field-level findings.
func CheckIndexValue(file string, v any) []Issue {
	obj, ok := v.(map[string]any)
	if !ok {
		return []Issue{blanket(file, "index is not an object")}
	}

	var issues []Issue
	groups, issues := requireList(issues, file, obj, "groups")
	members, issues := requireList(issues, file, obj, "members")
	issues = requireString(issues, file, obj, "", "updatedAt")

	for i, g := range groups {
		issues = checkSummary(issues, file, fmt.Sprintf("groups[%d]", i), g)
	}
	for i, m := range members {
		issues = checkSummary(issues, file, fmt.Sprintf("members[%d]", i), m)
	}
	return issues
}

// CheckRecordValue validates the shape of one generically decoded record
// document. Same blanket rule as CheckIndexValue for non-object input.
func CheckRecordValue(file string, v any) []Issue {
	obj, ok := v.(map[string]any)
	if !ok {
		return []Issue{blanket(file, "record is not an object")}
	}

	var issues []Issue
	issues = requireString(issues, file, obj, "", "id")
	issues = requireString(issues, file, obj, "", "groupId")
	issues = requireString(issues, file, obj, "", "date")

	raw, present := obj["attendances"]
	if !present {
		return issues
	}
	list, ok := raw.([]any)
	if !ok {
		return append(issues, fieldError(file, "attendances", "attendances is not a list"))
	}
	for i, a := range list {
		path := fmt.Sprintf("attendances[%d]", i)
		entry, ok := a.(map[string]any)
		if !ok {
			issues = append(issues, fieldError(file, path, "attendance is not an object"))
			continue
		}
		issues = requireString(issues, file, entry, path, "memberId")
		issues = requireNumber(issues, file, entry, path, "durationSeconds")
	}
	return issues
}

// checkSummary validates one group or member summary object.
func checkSummary(issues []Issue, file, path string, v any) []Issue {
	obj, ok := v.(map[string]any)
	if !ok {
		return append(issues, fieldError(file, path, "summary is not an object"))
	}
	issues = requireString(issues, file, obj, path, "id")
	issues = requireString(issues, file, obj, path, "name")
	issues = requireNumber(issues, file, obj, path, "totalDurationSeconds")

	key := join(path, "recordIds")
	raw, present := obj["recordIds"]
	if !present {
		return append(issues, fieldError(file, key, "missing key recordIds"))
	}
	if _, ok := raw.([]any); !ok {
		return append(issues, fieldError(file, key, "recordIds is not a list"))
	}
	return issues
}

func requireString(issues []Issue, file string, obj map[string]any, path, key string) []Issue {
	raw, present := obj[key]
	if !present {
		return append(issues, fieldError(file, join(path, key), "missing key "+key))
	}
	if _, ok := raw.(string); !ok {
		return append(issues, fieldError(file, join(path, key), key+" is not a string"))
	}
	return issues
}

func requireNumber(issues []Issue, file string, obj map[string]any, path, key string) []Issue {
	raw, present := obj[key]
	if !present {
		return append(issues, fieldError(file, join(path, key), "missing key "+key))
	}
	// encoding/json decodes every JSON number to float64.
	if _, ok := raw.(float64); !ok {
		return append(issues, fieldError(file, join(path, key), key+" is not a number"))
	}
	return issues
}

func requireList(issues []Issue, file string, obj map[string]any, key string) ([]any, []Issue) {
	raw, present := obj[key]
	if !present {
		return nil, append(issues, fieldError(file, key, "missing key "+key))
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, append(issues, fieldError(file, key, key+" is not a list"))
	}
	return list, issues
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func blanket(file, msg string) Issue {
	return Issue{File: file, Message: msg, Severity: SeverityError}
}

func fieldError(file, field, msg string) Issue {
	return Issue{File: file, Field: field, Message: msg, Severity: SeverityError}
}
