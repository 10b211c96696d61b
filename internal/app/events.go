package app

import (
	"context"
	"strconv"

	server "portlogistics/server"
	"portlogistics/server/logging"
	"portlogistics/server/logging/assignment"
	"portlogistics/server/logging/economy"
	"portlogistics/server/logging/lifecycle"
)

// domainEventSink adapts GameManager's EventSink seam onto the
// structured logging pipeline's economy/lifecycle categories, the way
// invariantSink adapts InvariantSink onto the collision category.
type domainEventSink struct {
	pub   logging.Publisher
	frame func() uint64
}

func newDomainEventSink(pub logging.Publisher, frame func() uint64) *domainEventSink {
	return &domainEventSink{pub: pub, frame: frame}
}

func (s *domainEventSink) tick() uint64 {
	if s == nil || s.frame == nil {
		return 0
	}
	return s.frame()
}

func (s *domainEventSink) GoodsSpawned(pos server.Point2d, value int) {
	if s == nil || s.pub == nil {
		return
	}
	economy.GoodsSpawned(context.Background(), s.pub, s.tick(), logging.EntityRef{}, economy.GoodsSpawnedPayload{
		X: pos.X, Y: pos.Y, Value: value,
	}, nil)
}

func (s *domainEventSink) GoodsExpired(pos server.Point2d, value int) {
	if s == nil || s.pub == nil {
		return
	}
	economy.GoodsExpired(context.Background(), s.pub, s.tick(), logging.EntityRef{}, economy.GoodsExpiredPayload{
		X: pos.X, Y: pos.Y, Value: value,
	}, nil)
}

func (s *domainEventSink) GoodsDelivered(value, count int) {
	if s == nil || s.pub == nil {
		return
	}
	economy.GoodsDelivered(context.Background(), s.pub, s.tick(), logging.EntityRef{}, economy.GoodsDeliveredPayload{
		Value: value, Count: count,
	}, nil)
}

func (s *domainEventSink) AssetPurchased(kind string, price int, pos server.Point2d) {
	if s == nil || s.pub == nil {
		return
	}
	economy.AssetPurchased(context.Background(), s.pub, s.tick(), economy.AssetPurchasedPayload{
		Kind: kind, Price: price, X: pos.X, Y: pos.Y,
	}, nil)
}

func (s *domainEventSink) RobotSpawned(pos server.Point2d) {
	if s == nil || s.pub == nil {
		return
	}
	lifecycle.RobotSpawned(context.Background(), s.pub, s.tick(), logging.EntityRef{}, lifecycle.RobotSpawnedPayload{
		X: pos.X, Y: pos.Y,
	}, nil)
}

func (s *domainEventSink) ShipSpawned(pos server.Point2d) {
	if s == nil || s.pub == nil {
		return
	}
	lifecycle.ShipSpawned(context.Background(), s.pub, s.tick(), logging.EntityRef{}, lifecycle.ShipSpawnedPayload{
		X: pos.X, Y: pos.Y,
	}, nil)
}

func (s *domainEventSink) BerthAssigned(actorKind string, actorID, berthID int) {
	if s == nil || s.pub == nil {
		return
	}
	kind := logging.EntityKindRobot
	if actorKind == "ship" {
		kind = logging.EntityKindShip
	}
	actor := logging.EntityRef{ID: strconv.Itoa(actorID), Kind: kind}
	assignment.BerthAssigned(context.Background(), s.pub, s.tick(), actor, assignment.BerthAssignedPayload{
		BerthID: berthID,
	}, nil)
}

func (s *domainEventSink) RobotDeath(id server.RobotID, reason string) {
	if s == nil || s.pub == nil {
		return
	}
	actor := logging.EntityRef{ID: strconv.Itoa(int(id)), Kind: logging.EntityKindRobot}
	lifecycle.RobotDeath(context.Background(), s.pub, s.tick(), actor, lifecycle.RobotDeathPayload{
		Reason: reason,
	}, nil)
}
