package reconcile

import "fmt"

// NotFoundError reports that a resource which was required to exist does not.
type NotFoundError struct {
	Kind     string
	NameOrID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Kind, e.NameOrID)
}

// AmbiguousResourceError reports that a lookup which must yield exactly one
// resource yielded zero or several.
type AmbiguousResourceError struct {
	Kind     string
	NameOrID string
	Matches  int
}

func (e *AmbiguousResourceError) Error() string {
	return fmt.Sprintf("%s %s is invalid or ambiguous (%d matches)", e.Kind, e.NameOrID, e.Matches)
}

// MissingPrerequisiteError reports that a field required for the requested
// state was not supplied.
type MissingPrerequisiteError struct {
	Field  string
	Reason string
}

func (e *MissingPrerequisiteError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s is required %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s is required", e.Field)
}
