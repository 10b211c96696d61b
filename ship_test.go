package server

import "testing"

func TestNewShipIsIdle(t *testing.T) {
	s := NewShip(0, VectorPosition{Pos: Point2d{X: 0, Y: 0}, Dir: East}, 100)
	if !s.IsIdle() {
		t.Fatalf("freshly spawned ship is not idle")
	}
	if s.RemainingCapacity() != 100 {
		t.Fatalf("RemainingCapacity() = %d, want 100", s.RemainingCapacity())
	}
}

func TestShipLoadGoodsCapsAtCapacity(t *testing.T) {
	s := NewShip(0, VectorPosition{Pos: Point2d{X: 0, Y: 0}, Dir: East}, 10)

	admitted := s.LoadGoods(6, 60)
	if admitted != 6 {
		t.Fatalf("LoadGoods(6) admitted = %d, want 6", admitted)
	}

	// Only 4 slots remain; a 6-goods load should be clipped to 4.
	admitted = s.LoadGoods(6, 60)
	if admitted != 4 {
		t.Fatalf("LoadGoods(6) at near-capacity admitted = %d, want 4 (capacity trigger)", admitted)
	}
	if s.RemainingCapacity() != 0 {
		t.Fatalf("RemainingCapacity() = %d, want 0 once full", s.RemainingCapacity())
	}

	admitted = s.LoadGoods(1, 10)
	if admitted != 0 {
		t.Fatalf("LoadGoods() on a full ship admitted = %d, want 0", admitted)
	}
}

func TestShipUnloadClearsCargo(t *testing.T) {
	s := NewShip(0, VectorPosition{Pos: Point2d{X: 0, Y: 0}, Dir: East}, 10)
	s.LoadGoods(3, 30)

	value := s.Unload()
	if value != 30 {
		t.Fatalf("Unload() = %d, want 30", value)
	}
	if s.GoodsCount != 0 || s.LoadedValue != 0 {
		t.Fatalf("cargo not cleared after Unload(): count=%d value=%d", s.GoodsCount, s.LoadedValue)
	}
}

func TestShipSyncWorldStateForcesLoading(t *testing.T) {
	s := NewShip(0, VectorPosition{Pos: Point2d{X: 0, Y: 0}, Dir: East}, 10)
	s.Status = ShipMovingToBerth

	s.SyncWorldState(ShipWorldLoading)

	if s.Status != ShipLoading {
		t.Fatalf("Status = %v after world-reported loading, want ShipLoading", s.Status)
	}
}

func TestShipComparePriorityRecoveringLosesToNormal(t *testing.T) {
	normal := &Ship{ID: 1, State: ShipWorldNormal}
	recovering := &Ship{ID: 0, State: ShipWorldRecovering}

	if !shipComparePriority(normal, recovering) {
		t.Fatalf("normal ship did not outrank recovering ship despite higher id")
	}
}

func TestShipComparePriorityBlockingWins(t *testing.T) {
	a := &Ship{ID: 5, Destination: VectorPosition{Pos: Point2d{X: 1, Y: 1}}, Pose: VectorPosition{Pos: Point2d{X: 0, Y: 0}}}
	b := &Ship{ID: 0, Destination: VectorPosition{Pos: Point2d{X: 2, Y: 2}}, Pose: VectorPosition{Pos: Point2d{X: 1, Y: 1}}}

	if !shipComparePriority(a, b) {
		t.Fatalf("ship blocking the other's destination did not win priority")
	}
}

func TestShipComparePriorityTieBreakByLowerID(t *testing.T) {
	a := &Ship{ID: 2}
	b := &Ship{ID: 3}
	if !shipComparePriority(a, b) {
		t.Fatalf("lower-id ship did not win final tie-break")
	}
}
