package server

// ShipPathfinder runs A* over oriented ship poses (VectorPosition),
// the second of the two distinct spatial models spec.md §4.2 requires
// the generic pathfinder to support: a 2x3 footprint rectangle that
// must stay clear of Obstacle/Sea-invalid cells and other ships'
// occupied footprints, with per-step cost from SeaRoute's sea-lane
// model instead of a flat 1.
type ShipPathfinder struct {
	m  *Map
	sr *SeaRoute
}

// NewShipPathfinder returns a pathfinder bound to m and sr.
func NewShipPathfinder(m *Map, sr *SeaRoute) *ShipPathfinder {
	return &ShipPathfinder{m: m, sr: sr}
}

// shipMoves enumerates the three actions available from any pose:
// move forward, rotate clockwise in place, rotate anticlockwise in place.
func shipMoves(v VectorPosition) []VectorPosition {
	return []VectorPosition{v.MoveForward(), v.ClockwiseRotation(), v.AntiClockwiseRotation()}
}

// footprintClear reports whether every cell of v's occupancy rectangle
// is in bounds, Sea or Berth (never Obstacle/Space-land), and not in
// blocked.
func (pf *ShipPathfinder) footprintClear(v VectorPosition, blocked map[Point2d]bool) bool {
	min, max := getShipOccupancyRect(v)
	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			p := Point2d{X: x, Y: y}
			if !pf.m.InBounds(p) {
				return false
			}
			switch pf.m.GetCell(p) {
			case CellSea, CellBerth:
			default:
				return false
			}
			if blocked != nil && blocked[p] {
				return false
			}
		}
	}
	return true
}

// heuristic is a Chebyshev-like estimate over the pivot cell plus a
// one-step charge for any outstanding rotation, cheap and admissible
// for the 3-action move set.
func (pf *ShipPathfinder) heuristic(v, goal VectorPosition) int {
	dx := absInt(v.Pos.X - goal.Pos.X)
	dy := absInt(v.Pos.Y - goal.Pos.Y)
	h := dx
	if dy > h {
		h = dy
	}
	if v.Dir != goal.Dir {
		h++
	}
	return h
}

// goalEquals reports whether v reaches goal: same Point2d regardless
// of heading, since SeaRoute corrects the final orientation by
// rotating the trailing suffix of the cached path (spec.md §4.2).
func (pf *ShipPathfinder) goalEquals(v, goal VectorPosition) bool {
	return v.Pos == goal.Pos
}

// FindPath runs A* from start to goal over ship poses, returning the
// path in start->goal order. blocked is an additional soft-obstacle
// set (other ships' current footprints) layered on top of the map's
// own Sea/Berth passability.
func (pf *ShipPathfinder) FindPath(start, goal VectorPosition, blocked map[Point2d]bool) ([]VectorPosition, bool) {
	if !pf.footprintClear(goal, nil) {
		return nil, false
	}

	gScore := map[VectorPosition]int{start: 0}
	parent := map[VectorPosition]VectorPosition{}
	closed := map[VectorPosition]bool{}

	pq := NewPriorityQueueWithRemove[VectorPosition, int64]()
	seq := 0
	packPriority := func(f, tieSeq int) int64 {
		return int64(f)<<32 | int64(tieSeq)
	}
	pq.Push(start, packPriority(pf.heuristic(start, goal), seq))
	seq++

	for !pq.Empty() {
		current, _ := pq.Pop()
		if pf.goalEquals(current, goal) {
			return reconstructShipPath(parent, start, current), true
		}
		if closed[current] {
			continue
		}
		closed[current] = true

		for _, next := range shipMoves(current) {
			if closed[next] || !pf.footprintClear(next, blocked) {
				continue
			}
			tentativeG := gScore[current] + pf.sr.StepCost(next.Pos)
			if existing, ok := gScore[next]; ok && existing <= tentativeG {
				continue
			}
			gScore[next] = tentativeG
			parent[next] = current
			f := tentativeG + pf.heuristic(next, goal)
			pq.Push(next, packPriority(f, seq))
			seq++
		}
	}
	return nil, false
}

func reconstructShipPath(parent map[VectorPosition]VectorPosition, start, goal VectorPosition) []VectorPosition {
	path := []VectorPosition{goal}
	cur := goal
	for cur != start {
		prev, ok := parent[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
