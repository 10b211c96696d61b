// Package assignment carries structured events for the scheduling
// decisions RobotScheduler, ShipScheduler, and RobotController make
// each frame: assignment failures, berth claims, and unresolvable
// conflicts, mirroring spec.md §7's AssignmentFail/UnresolvableConflict
// error kinds in log form.
package assignment

import (
	"context"

	"portlogistics/server/logging"
)

const (
	// EventAssignmentFailed is emitted when a scheduler finds no valid target.
	EventAssignmentFailed logging.EventType = "assignment.failed"
	// EventBerthAssigned is emitted when a robot or ship is assigned a berth.
	EventBerthAssigned logging.EventType = "assignment.berth_assigned"
	// EventUnresolvableConflict is emitted after the controller's bounded
	// resolution loop exhausts its iterations with conflicts still pending.
	EventUnresolvableConflict logging.EventType = "assignment.unresolvable_conflict"
)

// AssignmentFailedPayload captures why a scheduler returned FAIL.
type AssignmentFailedPayload struct {
	Reason string `json:"reason"`
}

// BerthAssignedPayload captures a berth claim.
type BerthAssignedPayload struct {
	BerthID int `json:"berthId"`
}

// UnresolvableConflictPayload captures the agents held stationary.
type UnresolvableConflictPayload struct {
	OtherActorID int    `json:"otherActorId"`
	Kind         string `json:"kind"`
}

// AssignmentFailed publishes a scheduler-failure event.
func AssignmentFailed(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload AssignmentFailedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAssignmentFailed,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryAssignment,
		Payload:  payload,
		Extra:    extra,
	})
}

// BerthAssigned publishes a berth-assignment event.
func BerthAssigned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload BerthAssignedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventBerthAssigned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryAssignment,
		Payload:  payload,
		Extra:    extra,
	})
}

// UnresolvableConflict publishes a warning when the controller gives up
// resolving a conflict for this frame and holds both actors stationary.
func UnresolvableConflict(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload UnresolvableConflictPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventUnresolvableConflict,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: logging.CategoryAssignment,
		Payload:  payload,
		Extra:    extra,
	})
}
