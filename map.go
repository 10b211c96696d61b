package server

import (
	"fmt"
	"strings"
)

// BerthID identifies a berth by its index in the Map's berth list.
type BerthID int

// Map owns the grid, per-berth distance fields, and the temporary
// obstacle bookkeeping shared by every frame's pathfinding calls.
// Grounded on original_source/map.cpp.
type Map struct {
	grid [MapRows][MapCols]Cell

	berthDistanceMap map[BerthID][MapRows][MapCols]int

	temporaryObstacles   []Point2d
	temporaryObstacleRef map[Point2d]int

	// robotPosition indexes robot cells by robot id for isCollisionRisk;
	// GameManager keeps it in sync every frame.
	robotPosition []Point2d
}

// NewMap constructs an empty 200x200 map of Space cells.
func NewMap() *Map {
	return &Map{
		berthDistanceMap:     make(map[BerthID][MapRows][MapCols]int),
		temporaryObstacleRef: make(map[Point2d]int),
	}
}

// SetCell assigns the cell kind at p, used only during init parsing.
func (m *Map) SetCell(p Point2d, cell Cell) {
	if !m.inBounds(p) {
		return
	}
	m.grid[p.X][p.Y] = cell
}

// GetCell returns the cell kind at p.
func (m *Map) GetCell(p Point2d) Cell {
	if !m.inBounds(p) {
		return CellObstacle
	}
	return m.grid[p.X][p.Y]
}

func (m *Map) inBounds(p Point2d) bool {
	return p.X >= 0 && p.X < MapRows && p.Y >= 0 && p.Y < MapCols
}

// InBounds reports whether p lies on the 200x200 grid.
func (m *Map) InBounds(p Point2d) bool {
	return m.inBounds(p)
}

// Passable reports whether a robot may occupy p: true for Space and
// Berth cells, false for Sea, Obstacle, and the transient Robot marker.
func (m *Map) Passable(p Point2d) bool {
	if !m.inBounds(p) {
		return false
	}
	switch m.grid[p.X][p.Y] {
	case CellSpace, CellBerth:
		return true
	default:
		return false
	}
}

// canonicalDirs is the tie-break base order referenced by spec.md §4.1.
var canonicalDirs = [4]Direction{East, West, North, South}

// Neighbors returns up to 4 passable in-bound cells adjacent to p. When
// (p.X+p.Y) is even the canonical {E,W,N,S} order is reversed; this
// alternation reduces "ugly" zig-zag A* paths and is behavioral, not
// cosmetic (spec.md §4.1) -- tests must preserve it exactly.
func (m *Map) Neighbors(p Point2d) []Point2d {
	results := make([]Point2d, 0, 4)
	for _, dir := range canonicalDirs {
		next := p.Add(dir.Delta())
		if m.inBounds(next) && m.Passable(next) {
			results = append(results, next)
		}
	}
	if (p.X+p.Y)%2 == 0 {
		for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
			results[i], results[j] = results[j], results[i]
		}
	}
	return results
}

// ComputeDistancesToBerthViaBFS runs a multi-source BFS from seedPositions
// (the berth's 4x4 footprint cells) over passable cells with unit edge
// weights, recording the result under id. Unreachable cells keep the
// `infinite` sentinel. Grounded on original_source/map.cpp's
// Map::computeDistancesToBerthViaBFS.
func (m *Map) ComputeDistancesToBerthViaBFS(id BerthID, seedPositions []Point2d) {
	var dis [MapRows][MapCols]int
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			dis[x][y] = infinite
		}
	}

	queue := make([]Point2d, 0, MapRows*MapCols)
	for _, pos := range seedPositions {
		if m.inBounds(pos) && m.Passable(pos) {
			if dis[pos.X][pos.Y] == infinite {
				dis[pos.X][pos.Y] = 0
				queue = append(queue, pos)
			}
		}
	}

	for head := 0; head < len(queue); head++ {
		current := queue[head]
		for _, dir := range canonicalDirs {
			next := current.Add(dir.Delta())
			if m.inBounds(next) && m.Passable(next) && dis[next.X][next.Y] == infinite {
				dis[next.X][next.Y] = dis[current.X][current.Y] + 1
				queue = append(queue, next)
			}
		}
	}

	m.berthDistanceMap[id] = dis
}

// DistanceToBerth returns the precomputed BFS distance from p to berth
// id, or the `infinite` sentinel if unreachable or unknown.
func (m *Map) DistanceToBerth(id BerthID, p Point2d) int {
	dis, ok := m.berthDistanceMap[id]
	if !ok || !m.inBounds(p) {
		return infinite
	}
	return dis[p.X][p.Y]
}

// IsBerthReachable reports whether p has a finite BFS distance to berth id.
func (m *Map) IsBerthReachable(id BerthID, p Point2d) bool {
	return m.DistanceToBerth(id, p) != infinite
}

// AddTemporaryObstacle marks p as occupied for the remainder of the
// current frame's pathfinding calls, ref-counted so nested push/pop
// pairs within one frame compose correctly. It fails loudly (panics)
// if called on a Sea or Obstacle cell, matching original_source/
// map.cpp's LOGE-and-return guard, made a hard invariant here since a
// caller that tries this has a logic bug worth surfacing immediately.
func (m *Map) AddTemporaryObstacle(p Point2d) {
	if !m.inBounds(p) {
		return
	}
	switch m.grid[p.X][p.Y] {
	case CellObstacle, CellSea:
		panic(fmt.Sprintf("server: temporary obstacle placed on impassable cell %s", p))
	}
	if m.temporaryObstacleRef[p] == 0 {
		m.grid[p.X][p.Y] = CellRobotMarker
		m.temporaryObstacles = append(m.temporaryObstacles, p)
	}
	m.temporaryObstacleRef[p]++
}

// RemoveTemporaryObstacle releases one reference to a temporary obstacle
// placed at p, restoring the cell to Space once the ref-count reaches 0.
func (m *Map) RemoveTemporaryObstacle(p Point2d) {
	count, ok := m.temporaryObstacleRef[p]
	if !ok {
		return
	}
	count--
	if count <= 0 {
		delete(m.temporaryObstacleRef, p)
		if m.grid[p.X][p.Y] == CellRobotMarker {
			m.grid[p.X][p.Y] = CellSpace
		}
	} else {
		m.temporaryObstacleRef[p] = count
	}
}

// ClearTemporaryObstacles releases every outstanding temporary obstacle,
// regardless of ref-count. Invariant (spec.md §8): the ref-count map is
// empty at every frame boundary, so GameManager calls this defensively
// between frames even though well-behaved callers should have already
// balanced their push/pop pairs.
func (m *Map) ClearTemporaryObstacles() {
	for _, p := range m.temporaryObstacles {
		if m.grid[p.X][p.Y] == CellRobotMarker {
			m.grid[p.X][p.Y] = CellSpace
		}
	}
	m.temporaryObstacles = m.temporaryObstacles[:0]
	m.temporaryObstacleRef = make(map[Point2d]int)
}

// TemporaryObstacleCount reports how many distinct cells currently carry
// a temporary obstacle, used by invariant checks and tests.
func (m *Map) TemporaryObstacleCount() int {
	return len(m.temporaryObstacleRef)
}

// SetRobotPositions records the current cell of every robot by id, used
// by IsCollisionRisk. GameManager refreshes this once per frame.
func (m *Map) SetRobotPositions(positions []Point2d) {
	m.robotPosition = positions
}

// IsCollisionRisk returns the set of passable cells within a Manhattan
// 2*framesAhead bubble around every other robot close enough to matter,
// for use as soft pathfinding obstacles. Only robots within Manhattan
// 2*framesAhead of robotID are considered, matching original_source/
// map.cpp's locality optimization.
func (m *Map) IsCollisionRisk(robotID int, framesAhead int) []Point2d {
	if robotID < 0 || robotID >= len(m.robotPosition) {
		return nil
	}
	self := m.robotPosition[robotID]
	obstacles := make([]Point2d, 0, 5*framesAhead)
	for i, pos := range m.robotPosition {
		if i == robotID {
			continue
		}
		if self.ManhattanDistance(pos) > 2*framesAhead {
			continue
		}
		for dx := -2 * framesAhead; dx <= 2*framesAhead; dx++ {
			for dy := -2 * framesAhead; dy <= 2*framesAhead; dy++ {
				if absInt(dx)+absInt(dy) > 2*framesAhead {
					continue
				}
				next := Point2d{X: pos.X + dx, Y: pos.Y + dy}
				if m.inBounds(next) && m.Passable(next) {
					obstacles = append(obstacles, next)
				}
			}
		}
	}
	return obstacles
}

// DrawMap renders an ASCII view of the grid, optionally overlaying a
// path and start/goal markers; it has no predecessor-map ("pointing")
// arrow overlay. Debug/test tooling only -- never on the
// judge output path. Grounded on original_source/map.cpp's
// Map::drawMap.
func (m *Map) DrawMap(path []Point2d, start, goal *Point2d) string {
	inPath := func(p Point2d) bool {
		for _, q := range path {
			if q == p {
				return true
			}
		}
		return false
	}

	var b strings.Builder
	fmt.Fprintln(&b, strings.Repeat("_", 3*MapCols))
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			p := Point2d{X: x, Y: y}
			switch {
			case start != nil && p == *start:
				b.WriteString(" A ")
			case goal != nil && p == *goal:
				b.WriteString(" Z ")
			case inPath(p):
				b.WriteString(" @ ")
			default:
				switch m.grid[x][y] {
				case CellObstacle:
					b.WriteString("###")
				case CellSea:
					b.WriteString("***")
				case CellBerth:
					b.WriteString(" B ")
				case CellSpace:
					b.WriteString(" . ")
				default:
					b.WriteString(" R ")
				}
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintln(&b, strings.Repeat("~", 3*MapCols))
	return b.String()
}
