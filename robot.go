package server

// RobotID identifies a robot by its fleet index, assigned at init from
// the map's 'A' spawn cells and grown as the AssetManager buys more.
type RobotID int

// RobotStatus is the controller's local finite state machine for a
// robot, kept distinct from the world-reported WorldState per spec.md
// §9's re-architecting note.
type RobotStatus int

const (
	RobotIdle RobotStatus = iota
	RobotMovingToGoods
	RobotMovingToBerth
	RobotDizzy
	RobotDeath
	RobotUnloading
)

func (s RobotStatus) String() string {
	switch s {
	case RobotIdle:
		return "idle"
	case RobotMovingToGoods:
		return "moving-to-goods"
	case RobotMovingToBerth:
		return "moving-to-berth"
	case RobotDizzy:
		return "dizzy"
	case RobotDeath:
		return "death"
	case RobotUnloading:
		return "unloading"
	default:
		return "unknown"
	}
}

// WorldState is the read-only per-frame state reported by the judge for
// a robot: 0 means stunned (dizzy), 1 means normal.
type WorldState int

const (
	WorldStunned WorldState = 0
	WorldNormal  WorldState = 1
)

// noTarget is the sentinel "no claimed target" id, mirroring the
// original's -1 convention.
const noTarget = GoodsID(-1)

// Robot is one land agent: its world-reported position/state plus the
// controller's path cursor and scheduling intent. Grounded on
// spec.md §3 and original_source/robotController.cpp's RobotController
// state fields.
type Robot struct {
	ID     RobotID
	Pos    Point2d
	State  WorldState
	Status RobotStatus

	CarryingItem   bool
	CarryingItemID GoodsID

	TargetID    GoodsID
	Destination Point2d

	// Path is a reversed stack: the next hop is the last element.
	Path []Point2d

	// NextPos is this frame's intended cell, computed by the
	// controller before conflict resolution runs.
	NextPos Point2d

	BerthID   BerthID
	HasBerth  bool
	ClusterID int

	// LaneID and LaneEntry track an outstanding SingleLaneManager
	// reservation: LaneID != 0 means the robot currently holds the
	// lock entered from LaneEntry, the exact point Leave must be
	// called with to release it.
	LaneID    LaneID
	LaneEntry Point2d
}

// NewRobot returns a freshly spawned, idle robot at pos.
func NewRobot(id RobotID, pos Point2d) *Robot {
	return &Robot{
		ID:          id,
		Pos:         pos,
		State:       WorldNormal,
		Status:      RobotIdle,
		TargetID:    noTarget,
		Destination: pos,
		NextPos:     pos,
	}
}

// IsIdle reports whether the robot has no claimed target and an empty path.
func (r *Robot) IsIdle() bool {
	return r.TargetID == noTarget && len(r.Path) == 0
}

// PathEmpty reports whether the path cursor has been fully consumed.
func (r *Robot) PathEmpty() bool {
	return len(r.Path) == 0
}

// PeekNext returns the next hop without consuming it, or the current
// position if the path is empty.
func (r *Robot) PeekNext() Point2d {
	if len(r.Path) == 0 {
		return r.Pos
	}
	return r.Path[len(r.Path)-1]
}

// AdvancePath pops the consumed hop once the robot's Pos catches up to it.
func (r *Robot) AdvancePath() {
	if len(r.Path) == 0 {
		return
	}
	if r.Path[len(r.Path)-1] == r.Pos {
		r.Path = r.Path[:len(r.Path)-1]
	}
}

// SetPath installs a freshly computed A* path. path is expected in
// start->goal order (as returned by Pathfinder.FindPath); the first
// element (the robot's current cell) is dropped so the stack's back is
// the next hop.
func (r *Robot) SetPath(path []Point2d) {
	if len(path) == 0 {
		r.Path = nil
		return
	}
	steps := path
	if steps[0] == r.Pos {
		steps = steps[1:]
	}
	reversed := make([]Point2d, len(steps))
	for i, p := range steps {
		reversed[len(steps)-1-i] = p
	}
	r.Path = reversed
}

// ClearTarget resets to Idle with no claimed target or path, matching
// the invariant path==empty <=> (destination==pos || targetid==-1).
func (r *Robot) ClearTarget() {
	r.TargetID = noTarget
	r.Destination = r.Pos
	r.Path = nil
	r.Status = RobotIdle
}

// SyncWorldState applies the world-reported state, forcing Dizzy status
// on state==0 and releasing it back to the prior intent on recovery to
// state==1 (spec.md §9: state is read-only input, status is local FSM,
// transitions from state=0 force Dizzy; recovery syncs them).
func (r *Robot) SyncWorldState(state WorldState) {
	wasDizzy := r.Status == RobotDizzy
	r.State = state
	if state == WorldStunned {
		r.Status = RobotDizzy
		r.NextPos = r.Pos
		return
	}
	if wasDizzy {
		switch {
		case r.CarryingItem:
			r.Status = RobotMovingToBerth
		case r.TargetID != noTarget:
			r.Status = RobotMovingToGoods
		default:
			r.Status = RobotIdle
		}
	}
}

// comparePriority implements spec.md §4.6's tie-break: a robot carrying
// goods outranks one merely going to goods; within the same class, the
// robot with the shorter remaining path has priority; ties broken by
// lower id. Returns true if a has strictly higher priority than b.
func comparePriority(a, b *Robot) bool {
	if a.CarryingItem != b.CarryingItem {
		return a.CarryingItem
	}
	if len(a.Path) != len(b.Path) {
		return len(a.Path) < len(b.Path)
	}
	return a.ID < b.ID
}
