package server

// DeliveryPoint is a sea cell where a loaded ship completes delivery.
type DeliveryPoint struct {
	ID  int
	Pos Point2d
}

// ShipScheduler assigns berths and delivery points to ships and drives
// the Idle -> MovingToBerth -> Loading -> MovingToDelivery -> Idle
// status machine. Grounded on spec.md §4.7 and
// original_source/ship.h/gameManager.cpp.
//
// Inter-ship collision resolution relies on SeaRoute's path
// disjointness via memoized routes (admission control);
// shipComparePriority (ship.go, called from GameManager's
// resolveShipConflicts) is used only for the residual same-destination-cell race,
// matching this repository's documented resolution of spec.md §9's
// Open Question on inter-ship collision.
type ShipScheduler struct {
	m         *Map
	goods     *GoodsTable
	berths    []*Berth
	deliverys []DeliveryPoint
	sr        *SeaRoute
	spf       *ShipPathfinder
	params    Params

	berthShipCount map[BerthID]int
	berthWaitUntil map[BerthID]int
}

// NewShipScheduler returns a scheduler over the given goods table,
// berths, and delivery points. goods is the authoritative source for
// Goods.Value: every profit score and loaded-value tally below sums
// real values looked up here rather than counting goods ids.
func NewShipScheduler(m *Map, goods *GoodsTable, berths []*Berth, deliverys []DeliveryPoint, sr *SeaRoute, spf *ShipPathfinder, params Params) *ShipScheduler {
	return &ShipScheduler{
		m:              m,
		goods:          goods,
		berths:         berths,
		deliverys:      deliverys,
		sr:             sr,
		spf:            spf,
		params:         params,
		berthShipCount: make(map[BerthID]int),
		berthWaitUntil: make(map[BerthID]int),
	}
}

// sumGoodsValue returns the sum of Goods.Value over ids still present
// in the goods table, skipping any id already removed.
func (ss *ShipScheduler) sumGoodsValue(ids []GoodsID) int {
	total := 0
	for _, id := range ids {
		if g := ss.goods.Get(id); g != nil {
			total += g.Value
		}
	}
	return total
}

// AssignBerth implements the Idle -> MovingToBerth transition: pick the
// berth maximizing expected profit per frame, subject to the
// per-berth cap and hysteresis window.
func (ss *ShipScheduler) AssignBerth(s *Ship, currentFrame int) error {
	if s.Status != ShipIdle {
		return nil
	}

	var best *Berth
	var bestScore float64

	for _, b := range ss.berths {
		if ss.berthShipCount[b.ID] >= ss.params.MaxShipsPerBerth {
			continue
		}
		if wait, ok := ss.berthWaitUntil[b.ID]; ok && currentFrame < wait {
			continue
		}
		goalPose := VectorPosition{Pos: b.TopLeft, Dir: East}
		path, ok := ss.sr.GetPath(s.Pose, goalPose)
		if !ok {
			path, ok = ss.spf.FindPath(s.Pose, goalPose, nil)
			if !ok {
				continue
			}
			ss.sr.PutPath(s.Pose, goalPose, path)
		}
		travel := ss.sr.GetPathLength(path)
		if travel == 0 {
			travel = 1
		}

		value := ss.sumGoodsValue(b.UnreachedGoods) + ss.sumGoodsValue(b.ReachedGoods)

		// CentralizedTransport weighs the full round trip (pickup leg
		// plus the berth's nearest delivery leg) rather than only the
		// leg to the berth, spreading ships across berths instead of
		// funneling them all toward whichever is momentarily closest.
		denom := travel + 1
		if ss.params.CentralizedTransport {
			denom += ss.nearestDeliveryCost(b)
		}
		score := float64(value) / float64(denom)
		if best == nil || score > bestScore || (score == bestScore && b.ID < best.ID) {
			best = b
			bestScore = score
		}
	}

	if best == nil {
		return errAssignmentFail
	}

	s.BerthID = best.ID
	s.HasBerth = true
	s.Destination = VectorPosition{Pos: best.TopLeft, Dir: East}
	s.Status = ShipMovingToBerth
	ss.berthShipCount[best.ID]++
	ss.berthWaitUntil[best.ID] = currentFrame + ss.params.TimeToWait
	return nil
}

func (ss *ShipScheduler) nearestDeliveryCost(b *Berth) int {
	best := infinite
	for _, d := range ss.deliverys {
		c := b.TopLeft.ManhattanDistance(d.Pos)
		if c < best {
			best = c
		}
	}
	if best == infinite {
		return 0
	}
	return best
}

// UpdateLoading implements spec.md §4.7's Loading status rule: stays
// until remaining capacity < CAPACITY_GAP (or its remaining-capacity
// ratio drops below AbleDepartScale, original_source/params.h's
// ABLE_DEPART_SCALE) and a delivery slot exists, SHIP_WAIT_TIME_LIMIT
// frames pass with no new goods, or the frame budget before game-end
// forces departure.
func (ss *ShipScheduler) UpdateLoading(s *Ship, berth *Berth, currentFrame int) {
	if s.Status != ShipLoading {
		return
	}

	belowGap := s.RemainingCapacity() < ss.params.CapacityGap
	belowScale := float64(s.RemainingCapacity()) < ss.params.AbleDepartScale*float64(s.Capacity)
	if (belowGap || belowScale) && len(ss.deliverys) > 0 {
		ss.depart(s, berth, currentFrame)
		return
	}
	if s.StillnessFrames >= ss.params.ShipWaitTimeLimit {
		ss.depart(s, berth, currentFrame)
		return
	}
	framesLeft := FinalFrame - currentFrame
	returnCost := ss.nearestDeliveryCost(berth)
	if framesLeft <= returnCost+1 {
		ss.depart(s, berth, currentFrame)
		return
	}
	s.StillnessFrames++
}

// depart issues the departure transition: drains the berth into the
// ship's hold, sets ShouldDept, and moves status to MovingToDelivery.
func (ss *ShipScheduler) depart(s *Ship, berth *Berth, currentFrame int) {
	taken := berth.TakeGoods()
	value := ss.sumGoodsValue(taken)
	s.LoadGoods(len(taken), value)
	for _, id := range taken {
		ss.goods.Remove(id)
	}

	nearest, ok := ss.nearestDelivery(berth.TopLeft)
	if !ok {
		s.Status = ShipIdle
		s.resetDeptStatus()
		s.ShouldDept = true
		ss.berthShipCount[s.BerthID]--
		return
	}

	s.DeliveryID = nearest.ID
	s.HasDelivery = true
	s.Destination = VectorPosition{Pos: nearest.Pos, Dir: s.Pose.Dir}
	s.Status = ShipMovingToDelivery
	s.resetDeptStatus()
	s.ShouldDept = true
	ss.berthShipCount[s.BerthID]--
}

func (ss *ShipScheduler) nearestDelivery(from Point2d) (DeliveryPoint, bool) {
	var best DeliveryPoint
	bestDist := infinite
	found := false
	for _, d := range ss.deliverys {
		dist := from.ManhattanDistance(d.Pos)
		if dist < bestDist {
			bestDist = dist
			best = d
			found = true
		}
	}
	return best, found
}

// CompleteDelivery transitions a ship that has reached its delivery
// point back to Idle, returning the value delivered.
func (ss *ShipScheduler) CompleteDelivery(s *Ship) int {
	if s.Status != ShipMovingToDelivery || s.Pose.Pos != s.Destination.Pos {
		return 0
	}
	value := s.Unload()
	s.Destination = noPose
	s.HasDelivery = false
	s.Status = ShipIdle
	return value
}

// ArriveAtBerth transitions a ship whose pose reaches its berth
// destination into Loading.
func (ss *ShipScheduler) ArriveAtBerth(s *Ship) {
	if s.Status != ShipMovingToBerth || s.Pose.Pos != s.Destination.Pos {
		return
	}
	s.Status = ShipLoading
	s.StillnessFrames = 0
}
