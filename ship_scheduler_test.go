package server

import "testing"

func shipSchedulerFixture() (*ShipScheduler, *Berth, *Ship) {
	m := openSeaMap()
	berth := NewBerth(0, Point2d{X: 0, Y: 0}, 10, 1)
	for _, c := range berth.Footprint() {
		m.SetCell(c, CellBerth)
	}
	sr := NewSeaRoute(m)
	spf := NewShipPathfinder(m, sr)
	deliverys := []DeliveryPoint{{ID: 0, Pos: Point2d{X: 100, Y: 100}}}
	params := DefaultParams()
	goods := NewGoodsTable()

	ss := NewShipScheduler(m, goods, []*Berth{berth}, deliverys, sr, spf, params)
	s := NewShip(0, VectorPosition{Pos: berth.TopLeft, Dir: East}, 10)
	s.Status = ShipLoading
	s.BerthID = berth.ID
	return ss, berth, s
}

// Scenario 6 (spec.md §8): a ship's remaining capacity drops below
// CapacityGap while delivery points exist, forcing immediate departure
// even though StillnessFrames has not hit the wait limit.
func TestUpdateLoadingCapacityTriggersDeparture(t *testing.T) {
	ss, berth, s := shipSchedulerFixture()
	g := ss.goods.Spawn(berth.Footprint()[0], 50, 0)
	berth.PlaceGoods(berth.Footprint()[0], g.ID)
	s.GoodsCount = s.Capacity - ss.params.CapacityGap + 1 // RemainingCapacity < CapacityGap

	ss.UpdateLoading(s, berth, 0)

	if s.Status != ShipMovingToDelivery {
		t.Fatalf("Status = %v after capacity trigger, want ShipMovingToDelivery", s.Status)
	}
	if !s.ShouldDept {
		t.Fatalf("ShouldDept = false after capacity trigger")
	}
	if len(berth.ReachedGoods) != 0 || berth.FreeSlot() != 0 {
		t.Fatalf("berth not drained by departure: ReachedGoods=%v FreeSlot=%d", berth.ReachedGoods, berth.FreeSlot())
	}
}

func TestUpdateLoadingStillnessLimitTriggersDeparture(t *testing.T) {
	ss, berth, s := shipSchedulerFixture()
	s.StillnessFrames = ss.params.ShipWaitTimeLimit

	ss.UpdateLoading(s, berth, 0)

	if s.Status != ShipMovingToDelivery {
		t.Fatalf("Status = %v after stillness-limit trigger, want ShipMovingToDelivery", s.Status)
	}
}

func TestUpdateLoadingStaysLoadingBelowAllThresholds(t *testing.T) {
	ss, berth, s := shipSchedulerFixture()

	ss.UpdateLoading(s, berth, 0)

	if s.Status != ShipLoading {
		t.Fatalf("Status = %v, want ShipLoading while under every departure threshold", s.Status)
	}
	if s.StillnessFrames != 1 {
		t.Fatalf("StillnessFrames = %d, want 1 after one idle UpdateLoading call", s.StillnessFrames)
	}
}

func TestUpdateLoadingDepartsNearGameEnd(t *testing.T) {
	ss, berth, s := shipSchedulerFixture()
	returnCost := ss.nearestDeliveryCost(berth)

	ss.UpdateLoading(s, berth, FinalFrame-returnCost-1)

	if s.Status != ShipMovingToDelivery {
		t.Fatalf("Status = %v near game end, want forced ShipMovingToDelivery departure", s.Status)
	}
}

func TestCompleteDeliveryUnloadsAndReturnsIdle(t *testing.T) {
	_, _, s := shipSchedulerFixture()
	ss := &ShipScheduler{}
	s.Status = ShipMovingToDelivery
	s.Destination = VectorPosition{Pos: Point2d{X: 5, Y: 5}, Dir: East}
	s.Pose = VectorPosition{Pos: Point2d{X: 5, Y: 5}, Dir: East}
	s.LoadGoods(3, 30)

	value := ss.CompleteDelivery(s)

	if value != 30 {
		t.Fatalf("CompleteDelivery() = %d, want 30", value)
	}
	if s.Status != ShipIdle {
		t.Fatalf("Status = %v after delivery, want ShipIdle", s.Status)
	}
}
