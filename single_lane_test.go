package server

import "testing"

// corridorMap builds a straight 1-wide horizontal corridor along y=5
// from x=0 to x=9, flanked by open junction rooms at both ends, with
// everything else Obstacle.
func corridorMap() *Map {
	m := NewMap()
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			m.SetCell(Point2d{X: x, Y: y}, CellObstacle)
		}
	}
	for x := 2; x <= 7; x++ {
		m.SetCell(Point2d{X: x, Y: 5}, CellSpace)
	}
	// Junction rooms (>=3 passable neighbors) at each end of the corridor.
	for dy := 4; dy <= 6; dy++ {
		m.SetCell(Point2d{X: 1, Y: dy}, CellSpace)
		m.SetCell(Point2d{X: 8, Y: dy}, CellSpace)
	}
	m.SetCell(Point2d{X: 0, Y: 5}, CellSpace)
	m.SetCell(Point2d{X: 9, Y: 5}, CellSpace)
	return m
}

func TestSingleLaneManagerDiscoversCorridor(t *testing.T) {
	m := corridorMap()
	sm := NewSingleLaneManager(m)

	interior := Point2d{X: 4, Y: 5}
	id := sm.GetSingleLaneID(interior)
	if id == 0 {
		t.Fatalf("interior corridor cell %v was not assigned to any lane", interior)
	}

	junction := Point2d{X: 1, Y: 5}
	if sm.GetSingleLaneID(junction) == id {
		t.Fatalf("junction cell %v was incorrectly absorbed into lane %v", junction, id)
	}
}

func TestSingleLaneManagerEnterLeaveLockRoundTrip(t *testing.T) {
	m := corridorMap()
	sm := NewSingleLaneManager(m)
	id := sm.GetSingleLaneID(Point2d{X: 4, Y: 5})

	// The corridor's two junction cells are its entries; use those
	// exact coordinates, since Enter/IsLocked compare p against
	// lane.entries[0]/[1] directly.
	entry := Point2d{X: 1, Y: 5}
	opposite := Point2d{X: 8, Y: 5}
	if !sm.IsEnteringSingleLane(id, entry) || !sm.IsEnteringSingleLane(id, opposite) {
		t.Fatalf("expected %v and %v to be lane %v's entry points", entry, opposite, id)
	}

	if !sm.Enter(id, entry, East) {
		t.Fatalf("Enter() failed on an unlocked lane")
	}
	if !sm.IsLocked(id, opposite) {
		t.Fatalf("IsLocked() from the opposite entry = false, want true while occupied head-on")
	}

	sm.Leave(id, entry)
	if sm.IsLocked(id, opposite) {
		t.Fatalf("IsLocked() still true after the sole occupant left")
	}
}

func TestSingleLaneManagerZeroIDAlwaysPasses(t *testing.T) {
	m := corridorMap()
	sm := NewSingleLaneManager(m)

	if !sm.Enter(0, Point2d{X: 0, Y: 0}, East) {
		t.Fatalf("Enter(laneID=0, ...) = false, want true (not-in-a-lane sentinel always passes)")
	}
}
