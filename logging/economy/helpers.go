package economy

import (
	"context"

	"portlogistics/server/logging"
)

const (
	// EventGoodsSpawned is emitted when a new good appears on a frame's input.
	EventGoodsSpawned logging.EventType = "economy.goods_spawned"
	// EventGoodsExpired is emitted when a good's TTL reaches zero before it is picked up.
	EventGoodsExpired logging.EventType = "economy.goods_expired"
	// EventGoodsDelivered is emitted when a ship completes delivery of its hold.
	EventGoodsDelivered logging.EventType = "economy.goods_delivered"
	// EventAssetPurchased is emitted when the asset manager buys a robot or ship.
	EventAssetPurchased logging.EventType = "economy.asset_purchased"
)

// GoodsSpawnedPayload describes a newly spawned good.
type GoodsSpawnedPayload struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Value int `json:"value"`
}

// GoodsExpiredPayload describes a good that expired before being picked up.
type GoodsExpiredPayload struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Value int `json:"value"`
}

// GoodsDeliveredPayload describes a completed delivery.
type GoodsDeliveredPayload struct {
	Value int `json:"value"`
	Count int `json:"count"`
}

// AssetPurchasedPayload describes a purchase decision.
type AssetPurchasedPayload struct {
	Kind  string `json:"kind"`
	Price int    `json:"price"`
	X     int    `json:"x"`
	Y     int    `json:"y"`
}

// GoodsSpawned publishes a good-spawn event.
func GoodsSpawned(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload GoodsSpawnedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGoodsSpawned,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: "economy",
		Payload:  payload,
		Extra:    extra,
	})
}

// GoodsExpired publishes a goods-expiry event.
func GoodsExpired(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload GoodsExpiredPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGoodsExpired,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "economy",
		Payload:  payload,
		Extra:    extra,
	})
}

// GoodsDelivered publishes a successful-delivery event.
func GoodsDelivered(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload GoodsDeliveredPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventGoodsDelivered,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: "economy",
		Payload:  payload,
		Extra:    extra,
	})
}

// AssetPurchased publishes a robot/ship purchase event.
func AssetPurchased(ctx context.Context, pub logging.Publisher, tick uint64, payload AssetPurchasedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAssetPurchased,
		Tick:     tick,
		Severity: logging.SeverityInfo,
		Category: "economy",
		Payload:  payload,
		Extra:    extra,
	})
}
