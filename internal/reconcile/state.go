// Package reconcile contains the idempotent reconciliation logic for
// floating IPs and disk images: given a desired state and identifying
// attributes, it determines whether an action is required, performs the
// single minimal mutating call via the cloud client, and reports a
// normalized result plus a changed flag.
package reconcile

import "fmt"

// State is the desired state of a resource.
type State int

const (
	// StatePresent means the resource must exist after reconciliation.
	StatePresent State = iota
	// StateAbsent means the resource must not exist after reconciliation.
	StateAbsent
)

// ParseState parses the textual desired state.
func ParseState(s string) (State, error) {
	switch s {
	case "present":
		return StatePresent, nil
	case "absent":
		return StateAbsent, nil
	default:
		return StatePresent, fmt.Errorf("invalid state %q: must be present or absent", s)
	}
}

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	default:
		return "present"
	}
}
