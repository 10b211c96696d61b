package server

// ShipID identifies a ship by its fleet index.
type ShipID int

// ShipWorldState mirrors the judge's per-ship state field: 0 normal,
// 1 recovering, 2 loading.
type ShipWorldState int

const (
	ShipWorldNormal     ShipWorldState = 0
	ShipWorldRecovering ShipWorldState = 1
	ShipWorldLoading    ShipWorldState = 2
)

// ShipStatus is the scheduler's local finite state machine, kept
// distinct from ShipWorldState per the same state/status split used by
// Robot. Grounded on original_source/ship.h's ShipStatusSpace enum.
type ShipStatus int

const (
	ShipIdle ShipStatus = iota
	ShipMovingToBerth
	ShipLoading
	ShipMovingToDelivery
)

func (s ShipStatus) String() string {
	switch s {
	case ShipIdle:
		return "idle"
	case ShipMovingToBerth:
		return "moving-to-berth"
	case ShipLoading:
		return "loading"
	case ShipMovingToDelivery:
		return "moving-to-delivery"
	default:
		return "unknown"
	}
}

// noPose is the "no destination assigned" sentinel pose.
var noPose = VectorPosition{Pos: Point2d{X: -1, Y: -1}}

// Ship is one sea agent: its oriented pose, cargo, and the scheduler's
// path cursor over VectorPosition. Grounded on original_source/ship.h.
type Ship struct {
	ID ShipID

	Pose  VectorPosition
	State ShipWorldState

	GoodsCount  int
	LoadedValue int

	Status ShipStatus

	Destination VectorPosition
	// Path is a reversed stack of poses: the next hop is the last element.
	Path []VectorPosition
	// NextLocAndDir is this frame's intended pose.
	NextLocAndDir VectorPosition

	BerthID     BerthID
	HasBerth    bool
	DeliveryID  int
	HasDelivery bool

	Capacity int

	StillnessFrames int
	ShouldDept      bool
}

// NewShip returns a freshly spawned idle ship at pose with capacity
// (a class-wide constant shared by every ship per spec.md §3).
func NewShip(id ShipID, pose VectorPosition, capacity int) *Ship {
	return &Ship{
		ID:            id,
		Pose:          pose,
		State:         ShipWorldNormal,
		Status:        ShipIdle,
		Destination:   noPose,
		NextLocAndDir: pose,
		Capacity:      capacity,
	}
}

// RemainingCapacity returns the cargo slots still free.
func (s *Ship) RemainingCapacity() int {
	return s.Capacity - s.GoodsCount
}

// IsIdle reports whether the ship has no destination and an empty path.
func (s *Ship) IsIdle() bool {
	return s.Destination == noPose && len(s.Path) == 0
}

// IsMovingToBerth reports the ship's current local status.
func (s *Ship) IsMovingToBerth() bool { return s.Status == ShipMovingToBerth }

// IsMovingToDelivery reports the ship's current local status.
func (s *Ship) IsMovingToDelivery() bool { return s.Status == ShipMovingToDelivery }

// IsLoading reports the ship's current local status.
func (s *Ship) IsLoading() bool { return s.Status == ShipLoading }

// PathEmpty reports whether the path cursor has been fully consumed.
func (s *Ship) PathEmpty() bool {
	return len(s.Path) == 0
}

// PeekNext returns the next hop pose without consuming it, or the
// current pose if the path is empty.
func (s *Ship) PeekNext() VectorPosition {
	if len(s.Path) == 0 {
		return s.Pose
	}
	return s.Path[len(s.Path)-1]
}

// AdvancePath pops the consumed hop once the ship's Pose catches up.
func (s *Ship) AdvancePath() {
	if len(s.Path) == 0 {
		return
	}
	if s.Path[len(s.Path)-1] == s.Pose {
		s.Path = s.Path[:len(s.Path)-1]
	}
}

// SetPath installs a freshly computed path in start->goal order,
// dropping the leading current-pose entry so the stack's back is the
// next hop, matching Robot.SetPath's convention.
func (s *Ship) SetPath(path []VectorPosition) {
	if len(path) == 0 {
		s.Path = nil
		return
	}
	steps := path
	if steps[0] == s.Pose {
		steps = steps[1:]
	}
	reversed := make([]VectorPosition, len(steps))
	for i, p := range steps {
		reversed[len(steps)-1-i] = p
	}
	s.Path = reversed
}

// LoadGoods adds value worth of cargo, up to capacity. Reports how
// much was actually admitted (a berth may hold more goods than a
// ship's remaining capacity allows in one frame).
func (s *Ship) LoadGoods(count int, value int) int {
	admit := count
	if room := s.RemainingCapacity(); admit > room {
		admit = room
	}
	if admit <= 0 {
		return 0
	}
	s.GoodsCount += admit
	s.LoadedValue += value
	return admit
}

// Unload empties the cargo hold on delivery, returning the delivered value.
func (s *Ship) Unload() int {
	value := s.LoadedValue
	s.GoodsCount = 0
	s.LoadedValue = 0
	return value
}

// resetDeptStatus clears the departure flag, the berth assignment and
// the stillness counter (Destination is left as is), mirroring original_source/ship.h's
// Ship::resetDeptStatus.
func (s *Ship) resetDeptStatus() {
	s.ShouldDept = false
	s.HasBerth = false
	s.StillnessFrames = 0
}

// SyncWorldState applies the judge-reported state, forcing a Loading
// ship into the local Loading status, mirroring Robot.SyncWorldState's
// split between world state and local status. A recovering ship only
// has its State recorded; its status and path are left unchanged.
func (s *Ship) SyncWorldState(state ShipWorldState) {
	s.State = state
	if state == ShipWorldLoading {
		s.Status = ShipLoading
	}
}

// shipComparePriority implements original_source/ship.h's
// Ship::comparePriority: a recovering ship has lower priority than a
// normal one; a ship that would block the other's destination has
// higher priority; otherwise the ship with the longer remaining path
// has priority; ties broken by lower id. Returns true if a outranks b.
func shipComparePriority(a, b *Ship) bool {
	aRecovering := a.State == ShipWorldRecovering
	bRecovering := b.State == ShipWorldRecovering
	if aRecovering != bRecovering {
		return !aRecovering
	}
	aBlocksB := a.Destination.Pos == b.Pose.Pos
	bBlocksA := b.Destination.Pos == a.Pose.Pos
	if aBlocksB != bBlocksA {
		return aBlocksB
	}
	if len(a.Path) != len(b.Path) {
		return len(a.Path) > len(b.Path)
	}
	return a.ID < b.ID
}
