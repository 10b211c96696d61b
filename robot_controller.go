package server

// conflictKind classifies a pairwise collision detected between two
// robots' intended moves this frame (spec.md §4.6).
type conflictKind int

const (
	conflictTargetOverlap conflictKind = iota
	conflictSwapPositions
	conflictHeadOnAttempt
	conflictEntryAttemptWhileOccupied
)

type conflict struct {
	kind conflictKind
	i, j int // indices into the controller's robot slice, i<j
}

// RobotController runs the per-frame conflict detection/resolution
// pipeline. Grounded directly on original_source/robotController.cpp's
// runController, detectNextFrameConflict, and tryResolveConflict.
type RobotController struct {
	m      *Map
	pf     *Pathfinder
	lanes  *SingleLaneManager
	sink   InvariantSink
	params Params
}

// InvariantSink receives InvariantViolation / UnresolvableConflict
// notices, decoupling the controller from any particular logging
// backend (wired to the real structured logger by GameManager).
type InvariantSink interface {
	Notify(kind ErrorKind, format string, args ...any)
}

// NewRobotController returns a controller bound to m, pf, and lanes.
func NewRobotController(m *Map, pf *Pathfinder, lanes *SingleLaneManager, sink InvariantSink, params Params) *RobotController {
	return &RobotController{m: m, pf: pf, lanes: lanes, sink: sink, params: params}
}

// Run executes one frame's worth of pathfinding-and-resolve for robots,
// per spec.md §4.6's six numbered steps, bounded to 2 iterations.
func (rc *RobotController) Run(robots []*Robot, framesAhead int) {
	rc.planMissingPaths(robots)
	rc.computeNextPositions(robots)

	for iteration := 0; iteration < 2; iteration++ {
		conflicts := rc.detectConflicts(robots)
		if len(conflicts) == 0 {
			return
		}
		lastIteration := iteration == 1
		for _, c := range conflicts {
			rc.resolve(robots[c.i], robots[c.j], c.kind, lastIteration)
		}
		rc.m.ClearTemporaryObstacles()
		rc.reassignNextPositions(robots)
	}
}

// planMissingPaths runs the pathfinder for every robot in
// {MovingToGoods, MovingToBerth} with an empty path and a valid
// target/destination (spec.md §4.6 step 1).
func (rc *RobotController) planMissingPaths(robots []*Robot) {
	for _, r := range robots {
		if r.Status != RobotMovingToGoods && r.Status != RobotMovingToBerth {
			continue
		}
		if !r.PathEmpty() {
			continue
		}
		if r.Pos == r.Destination {
			continue
		}
		rc.findPathFor(r, nil)
	}
}

// findPathFor runs A* for r toward r.Destination, applying collision
// risk as soft obstacles, and resets the robot to Idle with
// PathNotFound on failure.
func (rc *RobotController) findPathFor(r *Robot, extraSoft map[Point2d]bool) {
	soft := rc.softObstaclesFor(r)
	for p := range extraSoft {
		soft[p] = true
	}
	result := rc.pf.FindPath(r.Pos, r.Destination, soft)
	if !result.Ok {
		if r.CarryingItem {
			r.HasBerth = false
		}
		r.ClearTarget()
		return
	}
	r.SetPath(result.Path)
}

func (rc *RobotController) softObstaclesFor(r *Robot) map[Point2d]bool {
	risk := rc.m.IsCollisionRisk(int(r.ID), 3)
	soft := make(map[Point2d]bool, len(risk))
	for _, p := range risk {
		soft[p] = true
	}
	return soft
}

// computeNextPositions peeks each robot's path end, per spec.md §4.6
// step 2: stay put if the path is empty or the robot is Dizzy.
func (rc *RobotController) computeNextPositions(robots []*Robot) {
	for _, r := range robots {
		if r.Status == RobotDizzy || r.Status == RobotDeath {
			r.NextPos = r.Pos
			continue
		}
		r.NextPos = r.PeekNext()
	}
}

// reassignNextPositions recomputes NextPos after resolution has
// re-pathed or frozen some robots.
func (rc *RobotController) reassignNextPositions(robots []*Robot) {
	rc.computeNextPositions(robots)
}

// detectConflicts performs the pairwise i<j scan per spec.md §4.6
// step 3.
func (rc *RobotController) detectConflicts(robots []*Robot) []conflict {
	var conflicts []conflict
	for i := 0; i < len(robots); i++ {
		ri := robots[i]
		if ri.Status == RobotDeath {
			continue
		}
		for j := i + 1; j < len(robots); j++ {
			rj := robots[j]
			if rj.Status == RobotDeath {
				continue
			}
			if kind, ok := rc.classify(ri, rj); ok {
				conflicts = append(conflicts, conflict{kind: kind, i: i, j: j})
			}
		}
	}
	return conflicts
}

func (rc *RobotController) classify(a, b *Robot) (conflictKind, bool) {
	if a.NextPos == b.NextPos {
		return conflictTargetOverlap, true
	}
	if a.NextPos == b.Pos && b.NextPos == a.Pos && a.Pos != a.NextPos {
		return conflictSwapPositions, true
	}

	laneA := rc.lanes.GetSingleLaneID(a.NextPos)
	laneB := rc.lanes.GetSingleLaneID(b.NextPos)
	if laneA != 0 && laneA == laneB && a.NextPos != b.NextPos {
		aEntering := rc.lanes.IsEnteringSingleLane(laneA, a.Pos)
		bEntering := rc.lanes.IsEnteringSingleLane(laneB, b.Pos)
		if aEntering && bEntering && a.Pos != b.Pos {
			return conflictHeadOnAttempt, true
		}
	}
	for _, pair := range [][2]*Robot{{a, b}, {b, a}} {
		entrant, other := pair[0], pair[1]
		laneID := rc.lanes.GetSingleLaneID(entrant.NextPos)
		if laneID == 0 {
			continue
		}
		if rc.lanes.GetSingleLaneID(entrant.Pos) != 0 {
			continue // already inside, not a fresh entry attempt
		}
		if rc.lanes.IsLocked(laneID, entrant.Pos) && rc.lanes.GetSingleLaneID(other.Pos) == laneID {
			return conflictEntryAttemptWhileOccupied, true
		}
	}
	return 0, false
}

// resolve dispatches to the exact case tables of spec.md §4.6 /
// SPEC_FULL.md §4.6, reproducing original_source/robotController.cpp's
// tryResolveConflict.
func (rc *RobotController) resolve(a, b *Robot, kind conflictKind, lastIteration bool) {
	switch kind {
	case conflictTargetOverlap:
		rc.resolveTargetOverlap(a, b, lastIteration)
	case conflictSwapPositions:
		rc.resolveSwapPositions(a, b, lastIteration)
	case conflictHeadOnAttempt, conflictEntryAttemptWhileOccupied:
		rc.resolveLaneContention(a, b, lastIteration)
	}
}

// waitInPlace pins r for this frame: NextPos stays at Pos, and the
// path cursor is pinned to peek at Pos too, so a later
// reassignNextPositions pass (computeNextPositions after resolution)
// cannot clobber the wait decision back to the path's real next hop.
// GameManager.applyRobotMoves pops the pin via the ordinary
// AdvancePath call once the frame commits, since it is a no-op move.
func (rc *RobotController) waitInPlace(r *Robot) {
	r.NextPos = r.Pos
	if r.Pos != r.Destination {
		rc.m.AddTemporaryObstacle(r.Pos)
	}
	if len(r.Path) > 0 && r.Path[len(r.Path)-1] != r.Pos {
		r.Path = append(r.Path, r.Pos)
	}
}

func (rc *RobotController) refind(r *Robot) {
	r.Path = nil
	rc.findPathFor(r, nil)
}

// resolveTargetOverlap implements SPEC_FULL.md §4.6's TargetOverlap
// table.
func (rc *RobotController) resolveTargetOverlap(a, b *Robot, lastIteration bool) {
	aStationary := a.NextPos == a.Pos
	bStationary := b.NextPos == b.Pos

	switch {
	case aStationary || bStationary:
		stationary, mover := a, b
		if bStationary {
			stationary, mover = b, a
		}
		if stationary.Pos == mover.Destination {
			rc.waitInPlace(mover)
		} else {
			rc.m.AddTemporaryObstacle(stationary.Pos)
			rc.refind(mover)
		}
		return
	case a.Status == RobotDizzy || b.Status == RobotDizzy:
		rc.sink.Notify(InvariantViolation, "dizzy robot reported with nonzero nextPos delta")
		return
	}

	aAtBDest := a.NextPos == b.Destination
	bAtADest := b.NextPos == a.Destination

	switch {
	case aAtBDest && bAtADest:
		rc.decideWhoWaits(a, b)
	case aAtBDest:
		rc.waitInPlace(b)
	case bAtADest:
		rc.waitInPlace(a)
	default:
		rc.decideWhoWaitsUnblocked(a, b)
	}
}

// decideWhoWaits makes the lower-priority robot wait while the other
// proceeds unchanged into the cell both already call their
// destination (spec.md §4.6). No refind runs here: the winner's path
// is already routed onto that cell, and original_source/
// robotController.cpp's matching branch
// (makeRobotWait(decideWhoWaits(robot1, robot2))) calls only
// makeRobotWait, never a refind, on either robot.
func (rc *RobotController) decideWhoWaits(a, b *Robot) {
	if comparePriority(a, b) {
		rc.waitInPlace(b)
	} else {
		rc.waitInPlace(a)
	}
}

// decideWhoWaitsUnblocked handles the "neither nextPos is the other's
// destination" branch: a robot whose destination is blocked (occupied
// by the other's current cell, or impassable) waits while the other
// re-finds; if both are blocked, both wait; if neither is blocked, the
// original source leaves a fixed choice as a TODO, and this repository
// makes it deterministic via comparePriority.
func (rc *RobotController) decideWhoWaitsUnblocked(a, b *Robot) {
	aBlocked := a.Destination == b.Pos || !rc.m.Passable(a.Destination)
	bBlocked := b.Destination == a.Pos || !rc.m.Passable(b.Destination)

	switch {
	case aBlocked && !bBlocked:
		rc.waitInPlace(a)
		rc.refind(b)
	case bBlocked && !aBlocked:
		rc.waitInPlace(b)
		rc.refind(a)
	case aBlocked && bBlocked:
		rc.waitInPlace(a)
		rc.waitInPlace(b)
	default:
		rc.decideWhoWaits(a, b)
	}
}

// resolveSwapPositions implements SPEC_FULL.md §4.6's SwapPositions table.
func (rc *RobotController) resolveSwapPositions(a, b *Robot, lastIteration bool) {
	if a.Status == RobotDizzy && b.Status == RobotDizzy {
		rc.sink.Notify(InvariantViolation, "both robots dizzy yet reported swapping positions")
		return
	}

	aDeadlocks := a.Destination == b.Pos
	bDeadlocks := b.Destination == a.Pos
	if aDeadlocks && bDeadlocks {
		rc.resolveDeadlock(a, b, lastIteration)
		return
	}

	if aDeadlocks {
		rc.m.AddTemporaryObstacle(a.Pos)
		rc.refind(b)
		rc.waitInPlace(a)
		return
	}
	if bDeadlocks {
		rc.m.AddTemporaryObstacle(b.Pos)
		rc.refind(a)
		rc.waitInPlace(b)
		return
	}

	// Both merely passing through: the lower-id robot waits.
	if a.ID < b.ID {
		rc.m.AddTemporaryObstacle(a.Pos)
		rc.waitInPlace(a)
		rc.refind(b)
	} else {
		rc.m.AddTemporaryObstacle(b.Pos)
		rc.waitInPlace(b)
		rc.refind(a)
	}
}

// resolveDeadlock implements resolveDeadlocks: move one robot to any
// free neighbor cell not occupied by the other; if none exists for
// either robot, both wait.
func (rc *RobotController) resolveDeadlock(a, b *Robot, lastIteration bool) {
	for _, pair := range [][2]*Robot{{a, b}, {b, a}} {
		mover, other := pair[0], pair[1]
		for _, n := range rc.m.Neighbors(mover.Pos) {
			if n != other.Pos && n != other.NextPos {
				mover.NextPos = n
				rc.sideStep(mover, n)
				return
			}
		}
	}
	rc.waitInPlace(a)
	rc.waitInPlace(b)
}

// sideStep commits a 3-step detour for mover: hop aside to n this
// frame, hold at the cell it sidestepped from, then resume its
// original path from there. Path is next-hop-last, so the resume
// cell (mover's current Pos) is pushed first and n goes on top of
// it, putting n on the path cursor so it survives reassignment
// instead of the soon-recomputed NextPos.
func (rc *RobotController) sideStep(mover *Robot, n Point2d) {
	mover.Path = append(mover.Path, mover.Pos, n)
}

// resolveLaneContention implements HeadOnAttempt and
// EntryAttemptWhileOccupied per spec.md §4.6's summary table: the
// lower-priority robot waits outside the lane while the other
// proceeds.
func (rc *RobotController) resolveLaneContention(a, b *Robot, lastIteration bool) {
	if comparePriority(a, b) {
		rc.waitInPlace(b)
	} else {
		rc.waitInPlace(a)
	}
	if lastIteration {
		rc.sink.Notify(UnresolvableConflict, "lane contention unresolved between robots %d and %d", a.ID, b.ID)
	}
}
