package server

import "testing"

func openSeaMap() *Map {
	m := NewMap()
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			m.SetCell(Point2d{X: x, Y: y}, CellSea)
		}
	}
	return m
}

func TestSeaRouteStepCostInsideLaneVersusChannel(t *testing.T) {
	m := openSeaMap()
	sr := NewSeaRoute(m)

	// An interior cell with open water on both sides is a lane.
	if got := sr.StepCost(Point2d{X: 50, Y: 50}); got != 2 {
		t.Fatalf("StepCost in open water = %d, want 2", got)
	}

	// A single Sea cell pinched between Obstacle on both horizontal and
	// vertical sides is not a lane cell.
	narrow := Point2d{X: 60, Y: 60}
	m.SetCell(Point2d{X: 59, Y: 60}, CellObstacle)
	m.SetCell(Point2d{X: 61, Y: 60}, CellObstacle)
	m.SetCell(Point2d{X: 60, Y: 59}, CellObstacle)
	m.SetCell(Point2d{X: 60, Y: 61}, CellObstacle)
	if got := sr.StepCost(narrow); got != 1 {
		t.Fatalf("StepCost in pinched channel = %d, want 1", got)
	}
}

func TestSeaRouteGetPutPathRoundTrip(t *testing.T) {
	m := openSeaMap()
	sr := NewSeaRoute(m)

	start := VectorPosition{Pos: Point2d{X: 10, Y: 10}, Dir: East}
	dest := VectorPosition{Pos: Point2d{X: 20, Y: 10}, Dir: East}
	path := []VectorPosition{start, {Pos: Point2d{X: 15, Y: 10}, Dir: East}, dest}

	if _, ok := sr.GetPath(start, dest); ok {
		t.Fatalf("GetPath found an entry before PutPath was called")
	}

	sr.PutPath(start, dest, path)
	got, ok := sr.GetPath(start, dest)
	if !ok || len(got) != len(path) {
		t.Fatalf("GetPath() = (%v, %v), want cached path %v", got, ok, path)
	}
}

func TestSeaRouteGetPathFallsBackAndRotatesOrientation(t *testing.T) {
	m := openSeaMap()
	sr := NewSeaRoute(m)

	start := VectorPosition{Pos: Point2d{X: 10, Y: 10}, Dir: East}
	destPos := Point2d{X: 20, Y: 10}
	cachedDest := VectorPosition{Pos: destPos, Dir: East}
	path := []VectorPosition{start, {Pos: destPos, Dir: East}}
	sr.PutPath(start, cachedDest, path)

	wantDest := VectorPosition{Pos: destPos, Dir: North}
	got, ok := sr.GetPath(start, wantDest)
	if !ok {
		t.Fatalf("GetPath() fallback lookup failed")
	}
	if got[len(got)-1].Dir != North {
		t.Fatalf("GetPath() fallback did not rotate trailing pose to %v: got %v", North, got)
	}
	if got[0].Dir != East {
		t.Fatalf("GetPath() fallback rotated a non-trailing pose: got %v", got)
	}
}

func TestSeaRouteGetPathLengthSumsStepCosts(t *testing.T) {
	m := openSeaMap()
	sr := NewSeaRoute(m)
	path := []VectorPosition{
		{Pos: Point2d{X: 10, Y: 10}, Dir: East},
		{Pos: Point2d{X: 11, Y: 10}, Dir: East},
		{Pos: Point2d{X: 12, Y: 10}, Dir: East},
	}
	if got := sr.GetPathLength(path); got != 6 {
		t.Fatalf("GetPathLength() = %d, want 6 (3 lane cells at cost 2)", got)
	}
}
