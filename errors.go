package server

import "fmt"

// ErrorKind distinguishes the error categories spec.md §7 requires
// implementers to reproduce. This is not a type hierarchy — every
// value below is carried by the single ControlError type.
type ErrorKind int

const (
	// PathNotFound is returned by the pathfinder; the caller resets
	// the target and returns the agent to Idle.
	PathNotFound ErrorKind = iota
	// AssignmentFail is returned by a scheduler's "FAIL" action; the
	// agent remains in its current status, no command is emitted.
	AssignmentFail
	// UnresolvableConflict marks robots held stationary after the
	// controller's bounded resolution loop is exhausted.
	UnresolvableConflict
	// InvariantViolation marks a should-never-happen condition
	// (temporary obstacle on sea, both robots Dizzy yet colliding,
	// write to a full berth slot); the system continues best-effort.
	InvariantViolation
	// ProtocolError marks a fatal judge-protocol violation (missing OK
	// token, malformed integer); the process exits.
	ProtocolError
)

func (k ErrorKind) String() string {
	switch k {
	case PathNotFound:
		return "path-not-found"
	case AssignmentFail:
		return "assignment-fail"
	case UnresolvableConflict:
		return "unresolvable-conflict"
	case InvariantViolation:
		return "invariant-violation"
	case ProtocolError:
		return "protocol-error"
	default:
		return "unknown"
	}
}

// ControlError is the single error type used across the pipeline,
// tagged by Kind so callers can branch with errors.Is against the
// sentinel values below rather than string matching.
type ControlError struct {
	Kind    ErrorKind
	Message string
}

func (e *ControlError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is supports errors.Is(err, PathNotFound) etc. by comparing Kind,
// matching any ControlError carrying the same kind regardless of
// message text.
func (e *ControlError) Is(target error) bool {
	other, ok := target.(*ControlError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

// newError constructs a ControlError of the given kind.
func newError(kind ErrorKind, format string, args ...any) *ControlError {
	return &ControlError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Sentinel instances usable with errors.Is.
var (
	errPathNotFound         = &ControlError{Kind: PathNotFound, Message: "no path to goal"}
	errAssignmentFail       = &ControlError{Kind: AssignmentFail, Message: "no eligible candidate"}
	errUnresolvableConflict = &ControlError{Kind: UnresolvableConflict, Message: "conflict resolution loop exhausted"}
)
