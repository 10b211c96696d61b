package server

import "sync"

// seaRouteKey is the memoization key for a precomputed ship route.
type seaRouteKey struct {
	start       VectorPosition
	destination VectorPosition
}

// SeaRoute memoizes (start, destination) -> path lookups for ship
// pathfinding and exposes the ship movement cost model: a step inside
// a sea lane costs 2, any other step costs 1 (original_source/map.cpp's
// isShipInSeaLane-driven cost function, spec.md §4.2). Constructed
// once by GameManager and shared by ShipScheduler.
//
// The mutex is present per spec.md §5's explicit note: single-threaded
// ship pathfinding does not need it today, but it is cheap insurance
// if ship pathfinding is ever parallelized.
type SeaRoute struct {
	mu    sync.Mutex
	cache map[seaRouteKey][]VectorPosition
	m     *Map
}

// NewSeaRoute returns an empty memo cache bound to m.
func NewSeaRoute(m *Map) *SeaRoute {
	return &SeaRoute{cache: make(map[seaRouteKey][]VectorPosition), m: m}
}

// StepCost returns the movement cost of stepping into p: 2 inside a sea
// lane cell, 1 otherwise.
func (sr *SeaRoute) StepCost(p Point2d) int {
	if sr.isSeaLaneCell(p) {
		return 2
	}
	return 1
}

// isSeaLaneCell reports whether p sits in a "sea lane": a Sea cell
// with both of its East-West or North-South neighbors also Sea,
// i.e. not a narrow dead-end channel. This is a direct generalization
// of map.cpp's isShipInSeaLane check, which only needs to classify
// cells the ship's footprint currently occupies.
func (sr *SeaRoute) isSeaLaneCell(p Point2d) bool {
	if sr.m.GetCell(p) != CellSea {
		return false
	}
	horizontal := sr.m.GetCell(p.Add(East.Delta())) == CellSea && sr.m.GetCell(p.Add(West.Delta())) == CellSea
	vertical := sr.m.GetCell(p.Add(North.Delta())) == CellSea && sr.m.GetCell(p.Add(South.Delta())) == CellSea
	return horizontal || vertical
}

// GetPath returns a cached path for (start, destination), falling back
// to scanning all four directions at destination.Pos if no exact
// VectorPosition match exists (original_source/ship.h's getPath
// fallback), then rotating the cached path's trailing suffix to match
// the actual requested orientation.
func (sr *SeaRoute) GetPath(start, destination VectorPosition) ([]VectorPosition, bool) {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	if path, ok := sr.cache[seaRouteKey{start, destination}]; ok {
		return path, true
	}
	for _, dir := range canonicalDirs {
		alt := VectorPosition{Pos: destination.Pos, Dir: dir}
		if path, ok := sr.cache[seaRouteKey{start, alt}]; ok {
			return rotateTrailingSuffix(path, destination.Dir), true
		}
	}
	return nil, false
}

// rotateTrailingSuffix corrects the final pose's orientation in path to
// wantDir, leaving every other hop untouched. Used when GetPath matched
// on position only.
func rotateTrailingSuffix(path []VectorPosition, wantDir Direction) []VectorPosition {
	if len(path) == 0 {
		return path
	}
	out := make([]VectorPosition, len(path))
	copy(out, path)
	out[len(out)-1].Dir = wantDir
	return out
}

// PutPath stores a freshly computed path under (start, destination).
func (sr *SeaRoute) PutPath(start, destination VectorPosition, path []VectorPosition) {
	sr.mu.Lock()
	defer sr.mu.Unlock()
	sr.cache[seaRouteKey{start, destination}] = path
}

// GetPathLength returns the sum of per-step movement costs along path,
// not merely its length, since sea-lane steps cost 2.
func (sr *SeaRoute) GetPathLength(path []VectorPosition) int {
	total := 0
	for _, pose := range path {
		total += sr.StepCost(pose.Pos)
	}
	return total
}

// FindDetourAndUpdatePath implements the ship's local replan when
// blocked mid-path (original_source/ship.h's
// findDetourAndUpdatePath): scan backward along the remaining path for
// the nearest still-passable waypoint behind the blockage, splice a
// fresh detour from the ship's current pose to that waypoint, and
// report the spliced path. If no waypoint on the existing path is
// viable, callers should retry with a different destination direction
// before falling back to a full re-plan.
func (sr *SeaRoute) FindDetourAndUpdatePath(pf *ShipPathfinder, current VectorPosition, remaining []VectorPosition, blocked map[Point2d]bool) ([]VectorPosition, bool) {
	for i := len(remaining) - 1; i >= 0; i-- {
		waypoint := remaining[i]
		if blocked[waypoint.Pos] {
			continue
		}
		detour, ok := pf.FindPath(current, waypoint, blocked)
		if !ok {
			continue
		}
		spliced := append(detour, remaining[i+1:]...)
		return spliced, true
	}
	return nil, false
}
