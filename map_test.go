package server

import "testing"

func singleBerthMap() (*Map, *Berth) {
	m := NewMap()
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			m.SetCell(Point2d{X: x, Y: y}, CellSpace)
		}
	}
	b := NewBerth(0, Point2d{X: 0, Y: 0}, 10, 1)
	for _, c := range b.Footprint() {
		m.SetCell(c, CellBerth)
	}
	m.ComputeDistancesToBerthViaBFS(b.ID, b.Footprint())
	return m, b
}

// Scenario stated directly against the BFS primitive with a single seed
// cell at (0,0), not through Berth.Footprint() (which always seeds all 16
// cells of a 4x4 block): the footprint's nearest corner to (3,4) is (3,3),
// one step away, so routing the same scenario through a real berth would
// collapse the interesting case. Seeding the single point isolates the
// BFS distance-assignment logic itself.
func TestBerthDistanceBFSCorrectness(t *testing.T) {
	m := NewMap()
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			m.SetCell(Point2d{X: x, Y: y}, CellSpace)
		}
	}
	const berthID BerthID = 0
	m.SetCell(Point2d{X: 0, Y: 0}, CellBerth)
	m.ComputeDistancesToBerthViaBFS(berthID, []Point2d{{X: 0, Y: 0}})

	got := m.DistanceToBerth(berthID, Point2d{X: 3, Y: 4})
	if got != 7 {
		t.Fatalf("DistanceToBerth((3,4)) = %d, want 7", got)
	}
}

// Neighbors' tie-break reversal (spec.md §8 scenario 2) is stated for
// (0,0) and (0,1) on an unbounded grid; this map clips neighbors that
// fall outside the 200x200 grid, so an interior cell with the same
// parity is used to observe the same reversal rule without boundary
// clipping interfering.
func TestNeighborsTieBreakOrder(t *testing.T) {
	m, _ := singleBerthMap()

	even := m.Neighbors(Point2d{X: 50, Y: 50})
	wantEven := []Point2d{{X: 50, Y: 51}, {X: 50, Y: 49}, {X: 49, Y: 50}, {X: 51, Y: 50}}
	assertPointsEqual(t, even, wantEven, "(50,50)")

	odd := m.Neighbors(Point2d{X: 50, Y: 51})
	wantOdd := []Point2d{{X: 51, Y: 51}, {X: 49, Y: 51}, {X: 50, Y: 50}, {X: 50, Y: 52}}
	assertPointsEqual(t, odd, wantOdd, "(50,51)")
}

func assertPointsEqual(t *testing.T, got, want []Point2d, label string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %d neighbors, want %d", label, len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: neighbor %d = %v, want %v (full: got=%v want=%v)", label, i, got[i], want[i], got, want)
		}
	}
}

func TestTemporaryObstacleRoundTrip(t *testing.T) {
	m, _ := singleBerthMap()
	p := Point2d{X: 50, Y: 50}

	m.AddTemporaryObstacle(p)
	if m.Passable(p) {
		t.Fatalf("expected %v to be impassable after AddTemporaryObstacle", p)
	}
	if m.TemporaryObstacleCount() != 1 {
		t.Fatalf("expected 1 temporary obstacle, got %d", m.TemporaryObstacleCount())
	}

	m.RemoveTemporaryObstacle(p)
	if !m.Passable(p) {
		t.Fatalf("expected %v to be passable after RemoveTemporaryObstacle", p)
	}
	if m.TemporaryObstacleCount() != 0 {
		t.Fatalf("expected ref-count table empty at frame boundary, got %d", m.TemporaryObstacleCount())
	}
}

func TestTemporaryObstacleRefCounting(t *testing.T) {
	m, _ := singleBerthMap()
	p := Point2d{X: 60, Y: 60}

	m.AddTemporaryObstacle(p)
	m.AddTemporaryObstacle(p)
	m.RemoveTemporaryObstacle(p)
	if m.Passable(p) {
		t.Fatalf("cell should still be blocked while ref-count > 0")
	}
	m.RemoveTemporaryObstacle(p)
	if !m.Passable(p) {
		t.Fatalf("cell should be passable once ref-count reaches 0")
	}
}
