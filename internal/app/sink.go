package app

import (
	"context"
	"fmt"

	server "portlogistics/server"
	"portlogistics/server/logging"
	"portlogistics/server/logging/assignment"
	"portlogistics/server/logging/collision"
)

// invariantSink adapts GameManager's InvariantSink seam onto the
// structured logging pipeline, routing UnresolvableConflict and
// InvariantViolation (spec.md §7's two "logged, not fatal" kinds) into
// the collision category and AssignmentFail into the assignment
// category; every other kind is published as a warning-level event in
// the system category, since it has no dedicated event type here.
type invariantSink struct {
	pub   logging.Publisher
	frame func() uint64
}

func newInvariantSink(pub logging.Publisher, frame func() uint64) *invariantSink {
	return &invariantSink{pub: pub, frame: frame}
}

func (s *invariantSink) Notify(kind server.ErrorKind, format string, args ...any) {
	if s == nil || s.pub == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	tick := uint64(0)
	if s.frame != nil {
		tick = s.frame()
	}
	switch kind {
	case server.UnresolvableConflict, server.InvariantViolation:
		collision.InvariantViolation(context.Background(), s.pub, tick, collision.InvariantViolationPayload{Message: msg}, map[string]any{
			"kind": kind.String(),
		})
	case server.AssignmentFail:
		assignment.AssignmentFailed(context.Background(), s.pub, tick, logging.EntityRef{}, assignment.AssignmentFailedPayload{
			Reason: msg,
		}, nil)
	default:
		s.pub.Publish(context.Background(), logging.Event{
			Tick:     tick,
			Severity: logging.SeverityWarn,
			Category: logging.CategorySystem,
			Payload:  msg,
		})
	}
}
