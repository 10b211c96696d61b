package server

// EventSink receives notifications for domain lifecycle and economy
// moments the ambient logging stack cares about but the core pipeline
// has no business formatting itself: goods entering/leaving the table,
// deliveries, and asset purchases. GameManager checks for a nil sink
// before every call, so leaving Events unset is always safe.
type EventSink interface {
	GoodsSpawned(pos Point2d, value int)
	GoodsExpired(pos Point2d, value int)
	GoodsDelivered(value, count int)
	AssetPurchased(kind string, price int, pos Point2d)
	RobotSpawned(pos Point2d)
	ShipSpawned(pos Point2d)
	RobotDeath(id RobotID, reason string)
	BerthAssigned(actorKind string, actorID, berthID int)
}
