// Package collision carries structured events for conflicts
// RobotController detects between robots sharing a next-frame cell,
// and for the InvariantViolation error kind spec.md §7 names (a
// temporary obstacle on sea, two dizzy robots still reported
// colliding, a write to a full berth slot).
package collision

import (
	"context"

	"portlogistics/server/logging"
)

const (
	// EventConflictResolved is emitted when the controller resolves a
	// detected next-frame conflict between two robots.
	EventConflictResolved logging.EventType = "collision.conflict_resolved"
	// EventInvariantViolation is emitted for a best-effort invariant
	// breach the system logs and continues past.
	EventInvariantViolation logging.EventType = "collision.invariant_violation"
)

// ConflictResolvedPayload describes a resolved robot-robot conflict.
type ConflictResolvedPayload struct {
	OtherActorID int    `json:"otherActorId"`
	Kind         string `json:"kind"`
	Outcome      string `json:"outcome"`
}

// InvariantViolationPayload describes a logged invariant breach.
type InvariantViolationPayload struct {
	Message string `json:"message"`
}

// ConflictResolved publishes a debug event for a resolved conflict.
func ConflictResolved(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ConflictResolvedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventConflictResolved,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCollision,
		Payload:  payload,
		Extra:    extra,
	})
}

// InvariantViolation publishes an error event for a logged, best-effort
// invariant breach — the system continues running past it.
func InvariantViolation(ctx context.Context, pub logging.Publisher, tick uint64, payload InvariantViolationPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventInvariantViolation,
		Tick:     tick,
		Severity: logging.SeverityError,
		Category: logging.CategoryCollision,
		Payload:  payload,
		Extra:    extra,
	})
}
