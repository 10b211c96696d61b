package server

import (
	"errors"
	"testing"
)

func TestControlErrorIsMatchesByKindNotMessage(t *testing.T) {
	err := newError(PathNotFound, "no route from %v to %v", Point2d{X: 0, Y: 0}, Point2d{X: 9, Y: 9})

	if !errors.Is(err, errPathNotFound) {
		t.Fatalf("errors.Is(err, errPathNotFound) = false, want true despite differing messages")
	}
	if errors.Is(err, errAssignmentFail) {
		t.Fatalf("errors.Is(err, errAssignmentFail) = true, want false for a different kind")
	}
}

func TestControlErrorMessageFormatting(t *testing.T) {
	err := newError(InvariantViolation, "slot %d already occupied", 3)
	want := "invariant-violation: slot 3 already occupied"
	if got := err.Error(); got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		PathNotFound:         "path-not-found",
		AssignmentFail:       "assignment-fail",
		UnresolvableConflict: "unresolvable-conflict",
		InvariantViolation:   "invariant-violation",
		ProtocolError:        "protocol-error",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("%v.String() = %q, want %q", kind, got, want)
		}
	}
}
