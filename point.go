package server

import "fmt"

// Point2d is an integer grid coordinate. The zero value is the origin.
type Point2d struct {
	X, Y int
}

// Add returns the componentwise sum of p and other.
func (p Point2d) Add(other Point2d) Point2d {
	return Point2d{X: p.X + other.X, Y: p.Y + other.Y}
}

// ManhattanDistance returns |dx| + |dy| between p and other.
func (p Point2d) ManhattanDistance(other Point2d) int {
	return absInt(p.X-other.X) + absInt(p.Y-other.Y)
}

func (p Point2d) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Direction is a cardinal heading. Ships and the canonical neighbor
// enumeration order are expressed in terms of it.
type Direction uint8

const (
	East Direction = iota
	West
	North
	South
)

func (d Direction) String() string {
	switch d {
	case East:
		return "east"
	case West:
		return "west"
	case North:
		return "north"
	case South:
		return "south"
	default:
		return "unknown"
	}
}

// Delta returns the unit Point2d step for the direction.
func (d Direction) Delta() Point2d {
	switch d {
	case East:
		return Point2d{X: 1, Y: 0}
	case West:
		return Point2d{X: -1, Y: 0}
	case North:
		return Point2d{X: 0, Y: -1}
	case South:
		return Point2d{X: 0, Y: 1}
	default:
		return Point2d{}
	}
}

// Clockwise returns the direction one quarter turn clockwise from d,
// treating compass order as East->South->West->North->East.
func (d Direction) Clockwise() Direction {
	switch d {
	case East:
		return South
	case South:
		return West
	case West:
		return North
	case North:
		return East
	default:
		return d
	}
}

// AntiClockwise returns the direction one quarter turn counterclockwise.
func (d Direction) AntiClockwise() Direction {
	switch d {
	case East:
		return North
	case North:
		return West
	case West:
		return South
	case South:
		return East
	default:
		return d
	}
}

// directionCommandCode maps a Direction to the protocol's movement code
// (spec.md §6: 0 East, 1 West, 2 North, 3 South).
func directionCommandCode(d Direction) int {
	switch d {
	case East:
		return 0
	case West:
		return 1
	case North:
		return 2
	case South:
		return 3
	default:
		return 0
	}
}

// RotationDirection identifies the sense of a ship rotation command.
type RotationDirection int

const (
	RotationClockwise RotationDirection = iota
	RotationAntiClockwise
)

// VectorPosition is a ship's pose: the cell under its pivot plus its
// heading. A ship's footprint is a 2x3 rectangle oriented by Direction.
type VectorPosition struct {
	Pos Point2d
	Dir Direction
}

func (v VectorPosition) String() string {
	return fmt.Sprintf("%s@%s", v.Pos, v.Dir)
}

// MoveForward returns the pose one cell ahead of v along its heading.
func (v VectorPosition) MoveForward() VectorPosition {
	return VectorPosition{Pos: v.Pos.Add(v.Dir.Delta()), Dir: v.Dir}
}

// ClockwiseRotation returns the pose reached by rotating in place
// clockwise: the pivot cell is unchanged, only the heading turns.
func (v VectorPosition) ClockwiseRotation() VectorPosition {
	return VectorPosition{Pos: v.Pos, Dir: v.Dir.Clockwise()}
}

// AntiClockwiseRotation returns the pose reached by rotating in place
// anticlockwise.
func (v VectorPosition) AntiClockwiseRotation() VectorPosition {
	return VectorPosition{Pos: v.Pos, Dir: v.Dir.AntiClockwise()}
}

// occupancyRect returns the inclusive [min,max] corners of the 2x3
// footprint rectangle a ship occupies at pose v. The long axis of the
// rectangle trails behind the pivot along the heading.
func getShipOccupancyRect(v VectorPosition) (Point2d, Point2d) {
	x, y := v.Pos.X, v.Pos.Y
	switch v.Dir {
	case East:
		return Point2d{X: x - 2, Y: y}, Point2d{X: x, Y: y + 1}
	case West:
		return Point2d{X: x, Y: y - 1}, Point2d{X: x + 2, Y: y}
	case North:
		return Point2d{X: x, Y: y}, Point2d{X: x + 1, Y: y + 2}
	case South:
		return Point2d{X: x - 1, Y: y - 2}, Point2d{X: x, Y: y}
	default:
		return v.Pos, v.Pos
	}
}

// rectsOverlap reports whether two inclusive-corner rectangles intersect.
func rectsOverlap(aMin, aMax, bMin, bMax Point2d) bool {
	if aMax.X < bMin.X || bMax.X < aMin.X {
		return false
	}
	if aMax.Y < bMin.Y || bMax.Y < aMin.Y {
		return false
	}
	return true
}

// hasOverlap reports whether the ship occupancy rectangles of two poses
// intersect. A pose with Pos == {-1,-1} (no destination assigned) never
// overlaps anything.
func hasOverlap(a, b VectorPosition) bool {
	if a.Pos == (Point2d{-1, -1}) || b.Pos == (Point2d{-1, -1}) {
		return false
	}
	aMin, aMax := getShipOccupancyRect(a)
	bMin, bMax := getShipOccupancyRect(b)
	return rectsOverlap(aMin, aMax, bMin, bMax)
}
