package server

// FailureReason tags why Pathfinder.FindPath failed to produce a path.
type FailureReason int

const (
	// FailureNone indicates success; zero value is never returned in an error case.
	FailureNone FailureReason = iota
	// FailureNoPath means goal is unreachable from start given the
	// current passable/obstacle set.
	FailureNoPath
	// FailureInvalidGoal means goal itself is out of bounds or impassable.
	FailureInvalidGoal
)

// PathResult is the outcome of a single FindPath call.
type PathResult struct {
	Path   []Point2d
	Reason FailureReason
	Ok     bool
}

// Pathfinder runs A* over a Map, optionally biased by extra soft
// obstacles (e.g. Map.IsCollisionRisk output) supplied per call.
// Grounded on original_source/map.cpp's pathfinding loop (run from
// robotController.cpp's runPathfinding) rewritten with the generic
// PriorityQueueWithRemove.
type Pathfinder struct {
	m *Map
}

// NewPathfinder returns a Pathfinder bound to m.
func NewPathfinder(m *Map) *Pathfinder {
	return &Pathfinder{m: m}
}

type openEntry struct {
	pos Point2d
	seq int
}

// FindPath runs A* from start to goal. softObstacles is an additional
// set of cells to treat as impassable for this call only (used for
// other robots' predicted positions) without mutating the Map's
// temporary-obstacle state. The heuristic is Manhattan distance.
// Tie-breaking between equal f-scores in the open set favors the
// lower g-cost, then earlier insertion order, for determinism.
func (pf *Pathfinder) FindPath(start, goal Point2d, softObstacles map[Point2d]bool) PathResult {
	if !pf.m.InBounds(goal) || !pf.m.Passable(goal) {
		return PathResult{Reason: FailureInvalidGoal}
	}
	if start == goal {
		return PathResult{Path: []Point2d{start}, Ok: true}
	}

	blocked := func(p Point2d) bool {
		if softObstacles != nil && softObstacles[p] {
			return p != goal
		}
		return false
	}

	gScore := map[Point2d]int{start: 0}
	parent := map[Point2d]Point2d{}
	closed := map[Point2d]bool{}

	pq := NewPriorityQueueWithRemove[Point2d, int64]()
	seq := 0
	packPriority := func(f, g, tieSeq int) int64 {
		// f dominates; then the lower g, then tieSeq (insertion order)
		// toward the earliest-discovered node, giving deterministic path
		// shapes. g stays below 2^16 and tieSeq below 2^24 on a 200x200 grid.
		return int64(f)<<40 | int64(g)<<24 | int64(tieSeq)
	}
	pq.Push(start, packPriority(start.ManhattanDistance(goal), 0, seq))
	seq++

	for !pq.Empty() {
		current, _ := pq.Pop()
		if current == goal {
			return PathResult{Path: reconstructPath(parent, start, goal), Ok: true}
		}
		if closed[current] {
			continue
		}
		closed[current] = true

		for _, next := range pf.m.Neighbors(current) {
			if closed[next] || blocked(next) {
				continue
			}
			tentativeG := gScore[current] + 1
			if existing, ok := gScore[next]; ok && existing <= tentativeG {
				continue
			}
			gScore[next] = tentativeG
			parent[next] = current
			f := tentativeG + next.ManhattanDistance(goal)
			pq.Push(next, packPriority(f, tentativeG, seq))
			seq++
		}
	}

	return PathResult{Reason: FailureNoPath}
}

func reconstructPath(parent map[Point2d]Point2d, start, goal Point2d) []Point2d {
	path := []Point2d{goal}
	cur := goal
	for cur != start {
		prev, ok := parent[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// reverse into start->goal order
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
