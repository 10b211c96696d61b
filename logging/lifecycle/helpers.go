package lifecycle

import (
	"context"

	"portlogistics/server/logging"
)

const (
	// EventRobotSpawned is emitted when the asset manager buys a new robot.
	EventRobotSpawned logging.EventType = "lifecycle.robot_spawned"
	// EventRobotDeath is emitted when init marks a robot's spawn cell unreachable.
	EventRobotDeath logging.EventType = "lifecycle.robot_death"
	// EventShipSpawned is emitted when the asset manager buys a new ship.
	EventShipSpawned logging.EventType = "lifecycle.ship_spawned"
)

// RobotSpawnedPayload captures a new robot's spawn cell.
type RobotSpawnedPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RobotDeathPayload captures why a robot was marked dead.
type RobotDeathPayload struct {
	Reason string `json:"reason"`
}

// ShipSpawnedPayload captures a new ship's spawn cell.
type ShipSpawnedPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// RobotSpawned publishes a robot-purchase event.
func RobotSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RobotSpawnedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRobotSpawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}

// RobotDeath publishes a robot-death event.
func RobotDeath(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload RobotDeathPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventRobotDeath,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityWarn,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}

// ShipSpawned publishes a ship-purchase event.
func ShipSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ShipSpawnedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventShipSpawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "lifecycle",
		Payload:  payload,
		Extra:    extra,
	})
}
