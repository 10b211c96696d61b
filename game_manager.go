package server

// FrameInput is one frame's worth of world state, decoded by the
// protocol driver and handed to GameManager.Ingest. Grounded on
// spec.md §6's per-frame wire format.
type FrameInput struct {
	FrameNumber int
	Money       int
	NewGoods    []NewGoodsEntry
	Robots      []RobotFrameEntry
	Ships       []ShipFrameEntry
}

// NewGoodsEntry is one `x y value` triple from the per-frame goods list.
type NewGoodsEntry struct {
	Pos   Point2d
	Value int
}

// RobotFrameEntry is one `carrying x y state` record, in robot id order.
type RobotFrameEntry struct {
	Carrying bool
	Pos      Point2d
	State    WorldState
}

// ShipFrameEntry is one `state berthId` record, in ship id order.
type ShipFrameEntry struct {
	State    ShipWorldState
	BerthID  BerthID
	HasBerth bool
}

// InitInput is the once-only init payload: the map, berth records, and
// ship capacity.
type InitInput struct {
	MapRows  [MapRows]string
	Berths   []InitBerth
	Capacity int
}

// InitBerth is one `id x y transportTime loadingVelocity` init record.
type InitBerth struct {
	ID              BerthID
	TopLeft         Point2d
	TransportTime   int
	LoadingVelocity int
}

// GameManager orchestrates the fixed per-frame pipeline: ingest ->
// AssetManager -> RobotScheduler -> Pathfinder -> RobotController ->
// ShipScheduler -> command emission. Grounded on
// original_source/gameManager.cpp's initializeGame/processFrameData/
// update/outputCommands.
type GameManager struct {
	Map       *Map
	Goods     *GoodsTable
	Berths    []*Berth
	Robots    []*Robot
	Ships     []*Ship
	Deliverys []DeliveryPoint

	Lanes      *SingleLaneManager
	Pathfinder *Pathfinder
	ShipPF     *ShipPathfinder
	SeaRoute   *SeaRoute

	Scheduler     *RobotScheduler
	Controller    *RobotController
	ShipScheduler *ShipScheduler
	AssetMgr      *AssetManager

	params Params

	money        int
	currentFrame int

	commands *CommandBuffer
	sink     InvariantSink

	// Events is an optional ambient-stack hook for goods/asset lifecycle
	// notifications; nil by default and checked before every dispatch.
	Events EventSink
}

// NewGameManager wires every component together from an already-parsed
// InitInput, matching original_source/gameManager.cpp's initializeGame
// order: parse map (deriving robot spawns from 'A' cells, resolving
// spec.md §9's Open Question), parse berths, compute per-berth BFS
// fields, discover single lanes, mark unreachable robots Death, build
// the asset manager's block partitioning.
func NewGameManager(init InitInput, sink InvariantSink, params Params) *GameManager {
	m := NewMap()
	var spawnCells []Point2d
	var deliverys []DeliveryPoint
	deliveryID := 0

	for x := 0; x < MapRows; x++ {
		row := init.MapRows[x]
		for y := 0; y < MapCols && y < len(row); y++ {
			p := Point2d{X: x, Y: y}
			switch row[y] {
			case '.':
				m.SetCell(p, CellSpace)
			case '*':
				m.SetCell(p, CellSea)
				deliverys = append(deliverys, DeliveryPoint{ID: deliveryID, Pos: p})
				deliveryID++
			case '#':
				m.SetCell(p, CellObstacle)
			case 'A':
				m.SetCell(p, CellSpace)
				spawnCells = append(spawnCells, p)
			case 'B':
				m.SetCell(p, CellBerth)
			}
		}
	}

	berths := make([]*Berth, 0, len(init.Berths))
	for _, ib := range init.Berths {
		berths = append(berths, NewBerth(ib.ID, ib.TopLeft, ib.TransportTime, ib.LoadingVelocity))
	}
	for _, b := range berths {
		m.ComputeDistancesToBerthViaBFS(b.ID, b.Footprint())
	}

	robots := make([]*Robot, 0, len(spawnCells))
	for i, cell := range spawnCells {
		r := NewRobot(RobotID(i), cell)
		if !anyBerthReachable(m, berths, cell) {
			r.Status = RobotDeath
		}
		robots = append(robots, r)
	}

	lanes := NewSingleLaneManager(m)
	pf := NewPathfinder(m)
	sr := NewSeaRoute(m)
	spf := NewShipPathfinder(m, sr)

	gm := &GameManager{
		Map:        m,
		Goods:      NewGoodsTable(),
		Berths:     berths,
		Robots:     robots,
		Deliverys:  deliverys,
		Lanes:      lanes,
		Pathfinder: pf,
		ShipPF:     spf,
		SeaRoute:   sr,
		params:     params,
		commands:   NewCommandBuffer(4096, nil),
		sink:       sink,
	}

	gm.Scheduler = NewRobotScheduler(m, gm.Goods, berths, params)
	gm.Controller = NewRobotController(m, pf, lanes, sink, params)
	gm.ShipScheduler = NewShipScheduler(m, gm.Goods, berths, deliverys, sr, spf, params)
	gm.AssetMgr = NewAssetManager(m, berths, deliverys, params)

	for _, r := range gm.Robots {
		r.ClusterID = gm.AssetMgr.ClusterOf(r.Pos)
	}

	for i := 0; i < params.StartNum; i++ {
		gm.Ships = append(gm.Ships, NewShip(ShipID(i), VectorPosition{Pos: Point2d{X: -1, Y: -1}, Dir: East}, init.Capacity))
	}

	return gm
}

func anyBerthReachable(m *Map, berths []*Berth, from Point2d) bool {
	for _, b := range berths {
		if m.IsBerthReachable(b.ID, from) {
			return true
		}
	}
	return false
}

// Ingest applies one frame's world snapshot: records money/frame
// number, spawns new goods, and syncs every robot/ship's world state,
// per spec.md §6's per-frame format and §9's state/status split.
func (gm *GameManager) Ingest(in FrameInput) {
	gm.currentFrame = in.FrameNumber
	gm.money = in.Money

	for _, ng := range in.NewGoods {
		gm.Goods.Spawn(ng.Pos, ng.Value, in.FrameNumber)
		if gm.Events != nil {
			gm.Events.GoodsSpawned(ng.Pos, ng.Value)
		}
	}

	for i, entry := range in.Robots {
		if i >= len(gm.Robots) {
			break
		}
		r := gm.Robots[i]
		if r.Status == RobotDeath {
			continue
		}
		r.Pos = entry.Pos
		r.CarryingItem = entry.Carrying
		r.SyncWorldState(entry.State)
	}

	for i, entry := range in.Ships {
		if i >= len(gm.Ships) {
			break
		}
		s := gm.Ships[i]
		s.SyncWorldState(entry.State)
		if entry.HasBerth {
			s.BerthID = entry.BerthID
			s.HasBerth = true
		}
	}

	expired := gm.Goods.ExpireFrame(in.FrameNumber)
	for _, g := range expired {
		gm.releaseExpiredClaim(g.ID)
		if gm.Events != nil {
			gm.Events.GoodsExpired(g.Pos, g.Value)
		}
	}
}

// releaseExpiredClaim returns any robot claiming an expired good to
// Idle without emitting a `get` command, per spec.md §8 scenario 5.
func (gm *GameManager) releaseExpiredClaim(goodsID GoodsID) {
	for _, r := range gm.Robots {
		if r.TargetID == goodsID {
			r.ClearTarget()
		}
	}
}

// Update runs the fixed pipeline order (spec.md §2) for one frame:
// AssetManager -> RobotScheduler -> Pathfinder (inside RobotController)
// -> RobotController -> ShipScheduler.
func (gm *GameManager) Update() {
	gm.runAssetManager()
	gm.runRobotScheduler()
	gm.Controller.Run(gm.Robots, 3)
	gm.applyRobotMoves()
	gm.runShipScheduler()
}

func (gm *GameManager) runAssetManager() {
	// RobotFirst (original_source/params.h's robotFirst) decides which
	// purchase gm.money is checked against first when funds can only
	// cover one this frame; the original defaults to robots first.
	if gm.params.RobotFirst {
		gm.buyRobotIfNeeded()
		gm.buyShipIfNeeded()
	} else {
		gm.buyShipIfNeeded()
		gm.buyRobotIfNeeded()
	}
}

func (gm *GameManager) buyRobotIfNeeded() {
	totalRobots := 0
	for _, r := range gm.Robots {
		if r.Status != RobotDeath {
			totalRobots++
		}
	}
	if !gm.AssetMgr.NeedToBuyRobot(gm.money, totalRobots) {
		return
	}
	// GetProperRobotShop picks the land block shop nearest to the
	// probe point; the origin probe spreads new robots toward
	// whichever block's shop sits closest to the map's top-left,
	// matching the original's single-reference-point shop lookup.
	shop, ok := gm.AssetMgr.GetProperRobotShop(Point2d{})
	if !ok {
		return
	}
	gm.money -= RobotPrice
	r := NewRobot(RobotID(len(gm.Robots)), shop)
	r.ClusterID = gm.AssetMgr.ClusterOf(shop)
	gm.Robots = append(gm.Robots, r)
	gm.commands.Push(Command{Kind: CmdLbot, Pos: shop})
	gm.AssetMgr.AdvanceRobotPurchaseStep()
	if gm.Events != nil {
		gm.Events.AssetPurchased("robot", RobotPrice, shop)
		gm.Events.RobotSpawned(shop)
	}
}

func (gm *GameManager) buyShipIfNeeded() {
	if !gm.AssetMgr.NeedToBuyShip(gm.money, len(gm.Ships), gm.currentFrame) {
		return
	}
	shop, ok := gm.AssetMgr.GetProperShipShop(Point2d{})
	if !ok {
		return
	}
	gm.money -= ShipPrice
	s := NewShip(ShipID(len(gm.Ships)), VectorPosition{Pos: shop, Dir: East}, gm.Ships[0].Capacity)
	gm.Ships = append(gm.Ships, s)
	gm.commands.Push(Command{Kind: CmdLboat, Pos: shop})
	gm.AssetMgr.AdvanceShipPurchaseStep()
	if gm.Events != nil {
		gm.Events.AssetPurchased("ship", ShipPrice, shop)
		gm.Events.ShipSpawned(shop)
	}
}

func (gm *GameManager) runRobotScheduler() {
	gm.Scheduler.RebalanceClusters(gm.Robots, gm.currentFrame)
	for _, r := range gm.Robots {
		if r.Status == RobotDeath || r.Status == RobotDizzy {
			continue
		}
		if r.IsIdle() {
			_ = gm.Scheduler.AssignIdle(r, gm.currentFrame)
		}
		if r.CarryingItem && !r.HasBerth {
			_ = gm.Scheduler.AssignBerth(r)
			if r.HasBerth && gm.Events != nil {
				gm.Events.BerthAssigned("robot", int(r.ID), int(r.BerthID))
			}
		}
	}
}

// applyRobotMoves commits each robot's resolved NextPos, emitting the
// `move`/`get`/`pull` commands spec.md §6 defines, and advances path
// cursors and berth/goods state transitions on arrival.
func (gm *GameManager) applyRobotMoves() {
	for _, r := range gm.Robots {
		if r.Status == RobotDeath || r.Status == RobotDizzy {
			continue
		}
		if r.NextPos != r.Pos {
			delta := Point2d{X: r.NextPos.X - r.Pos.X, Y: r.NextPos.Y - r.Pos.Y}
			dir := deltaToDirection(delta)
			gm.advanceLaneOccupancy(r, dir)
			gm.commands.Push(Command{Kind: CmdMove, ID: int(r.ID), Dir: dir})
			r.Pos = r.NextPos
		}
		// Unconditional: waitInPlace may have pinned the path cursor to
		// Pos for this frame (no real move), and that pin must still be
		// popped once the frame commits so it doesn't linger and
		// permanently freeze the robot next frame.
		r.AdvancePath()

		if r.Status == RobotMovingToGoods && r.Pos == r.Destination {
			gm.handleGoodsArrival(r)
		}
		if r.Status == RobotMovingToBerth && r.Pos == r.Destination {
			gm.handleBerthArrival(r)
		}
	}
}

// advanceLaneOccupancy keeps SingleLaneManager's reservation state in
// sync with a robot's committed move: stepping from a lane's boundary
// cell into its interior reserves the lane, stepping out of it (to a
// cell the lane no longer contains) releases the same reservation,
// keyed by the entry point the reservation was taken under.
func (gm *GameManager) advanceLaneOccupancy(r *Robot, dir Direction) {
	nextLane := gm.Lanes.GetSingleLaneID(r.NextPos)
	if r.LaneID != 0 && nextLane != r.LaneID {
		gm.Lanes.Leave(r.LaneID, r.LaneEntry)
		r.LaneID = 0
	}
	if r.LaneID == 0 && nextLane != 0 && gm.Lanes.GetSingleLaneID(r.Pos) != nextLane {
		if gm.Lanes.Enter(nextLane, r.Pos, dir) {
			r.LaneID = nextLane
			r.LaneEntry = r.Pos
		}
	}
}

func (gm *GameManager) handleGoodsArrival(r *Robot) {
	g := gm.Goods.Get(r.TargetID)
	if g == nil || g.Expired(gm.currentFrame) {
		r.ClearTarget()
		return
	}
	gm.commands.Push(Command{Kind: CmdGet, ID: int(r.ID)})
	g.Status = GoodsCarried
	r.CarryingItem = true
	r.CarryingItemID = g.ID
	r.TargetID = noTarget
	r.Status = RobotUnloading
	r.Path = nil
}

func (gm *GameManager) handleBerthArrival(r *Robot) {
	berth := gm.berthByID(r.BerthID)
	if berth == nil {
		return
	}
	if !berth.PlaceGoods(r.Pos, r.CarryingItemID) {
		gm.sink.Notify(InvariantViolation, "robot %d could not deposit into berth %d, slot full", r.ID, berth.ID)
		return
	}
	gm.commands.Push(Command{Kind: CmdPull, ID: int(r.ID)})
	if g := gm.Goods.Get(r.CarryingItemID); g != nil {
		g.Status = GoodsDeliveredAtBerth
	}
	r.CarryingItem = false
	r.CarryingItemID = noTarget
	r.HasBerth = false
	r.ClearTarget()
}

func (gm *GameManager) berthByID(id BerthID) *Berth {
	for _, b := range gm.Berths {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func deltaToDirection(delta Point2d) Direction {
	switch {
	case delta.X > 0:
		return East
	case delta.X < 0:
		return West
	case delta.Y < 0:
		return North
	default:
		return South
	}
}

func (gm *GameManager) rebuildBerthGoodsLists() {
	unreached := make(map[BerthID][]GoodsID)
	for _, r := range gm.Robots {
		if r.CarryingItem && r.HasBerth {
			unreached[r.BerthID] = append(unreached[r.BerthID], r.CarryingItemID)
		}
	}
	for _, b := range gm.Berths {
		b.RebuildGoodsLists(unreached[b.ID])
	}
}

func (gm *GameManager) runShipScheduler() {
	gm.rebuildBerthGoodsLists()
	gm.planShipPaths()
	held := gm.resolveShipConflicts()

	for _, s := range gm.Ships {
		switch s.Status {
		case ShipIdle:
			if err := gm.ShipScheduler.AssignBerth(s, gm.currentFrame); err == nil && s.HasBerth {
				gm.commands.Push(Command{Kind: CmdBerth, ID: int(s.ID)})
				if gm.Events != nil {
					gm.Events.BerthAssigned("ship", int(s.ID), int(s.BerthID))
				}
			}
		case ShipMovingToBerth:
			gm.commitShipMove(s, held[s.ID])
			gm.ShipScheduler.ArriveAtBerth(s)
		case ShipLoading:
			berth := gm.berthByID(s.BerthID)
			if berth != nil {
				gm.ShipScheduler.UpdateLoading(s, berth, gm.currentFrame)
				if s.Status == ShipMovingToDelivery {
					gm.commands.Push(Command{Kind: CmdDept, ID: int(s.ID)})
				}
			}
		case ShipMovingToDelivery:
			gm.commitShipMove(s, held[s.ID])
			count := s.GoodsCount
			if value := gm.ShipScheduler.CompleteDelivery(s); value > 0 && gm.Events != nil {
				gm.Events.GoodsDelivered(value, count)
			}
		}
	}
}

// planShipPaths ensures every ship currently underway has a path,
// reusing SeaRoute's memo cache before falling back to a fresh
// ShipPathfinder search. A ship that already has a path but whose next
// hop is now blocked by another ship's current footprint first tries
// SeaRoute.FindDetourAndUpdatePath for a local repair before abandoning
// the path to a full re-plan.
func (gm *GameManager) planShipPaths() {
	for _, s := range gm.Ships {
		if s.Status != ShipMovingToBerth && s.Status != ShipMovingToDelivery {
			continue
		}
		blocked := gm.otherShipFootprints(s)

		if !s.PathEmpty() {
			if gm.ShipPF.footprintClear(s.PeekNext(), blocked) {
				continue
			}
			if spliced, ok := gm.SeaRoute.FindDetourAndUpdatePath(gm.ShipPF, s.Pose, reverseVectorPath(s.Path), blocked); ok {
				s.SetPath(spliced)
				continue
			}
			s.Path = nil
		}

		if path, ok := gm.SeaRoute.GetPath(s.Pose, s.Destination); ok {
			s.SetPath(path)
		} else if path, ok := gm.ShipPF.FindPath(s.Pose, s.Destination, blocked); ok {
			gm.SeaRoute.PutPath(s.Pose, s.Destination, path)
			s.SetPath(path)
		}
	}
}

// otherShipFootprints returns the occupied cells of every ship other
// than self at its current pose, the soft-obstacle set self's own path
// planning and detour search must route around.
func (gm *GameManager) otherShipFootprints(self *Ship) map[Point2d]bool {
	blocked := make(map[Point2d]bool)
	for _, other := range gm.Ships {
		if other.ID == self.ID || other.Pose.Pos == (Point2d{X: -1, Y: -1}) {
			continue
		}
		min, max := getShipOccupancyRect(other.Pose)
		for x := min.X; x <= max.X; x++ {
			for y := min.Y; y <= max.Y; y++ {
				blocked[Point2d{X: x, Y: y}] = true
			}
		}
	}
	return blocked
}

// reverseVectorPath returns path reversed, used to convert between
// Ship.Path's next-hop-last storage convention and the start->goal
// order FindPath/GetPath/FindDetourAndUpdatePath expect.
func reverseVectorPath(path []VectorPosition) []VectorPosition {
	out := make([]VectorPosition, len(path))
	for i, p := range path {
		out[len(path)-1-i] = p
	}
	return out
}

// resolveShipConflicts peeks every underway ship's intended next pose
// and, for any pair whose footprints would overlap this frame, holds
// the lower-priority ship (per shipComparePriority) in place. This is
// the residual same-destination-cell check layered on top of
// SeaRoute's path-disjointness admission control, matching
// original_source/ship.h's Ship::comparePriority.
func (gm *GameManager) resolveShipConflicts() map[ShipID]bool {
	type pending struct {
		ship *Ship
		next VectorPosition
	}
	var moving []pending
	for _, s := range gm.Ships {
		if s.Status != ShipMovingToBerth && s.Status != ShipMovingToDelivery {
			continue
		}
		s.NextLocAndDir = s.PeekNext()
		if s.NextLocAndDir == s.Pose {
			continue
		}
		moving = append(moving, pending{ship: s, next: s.NextLocAndDir})
	}

	held := make(map[ShipID]bool)
	for i := 0; i < len(moving); i++ {
		for j := i + 1; j < len(moving); j++ {
			a, b := moving[i], moving[j]
			if !hasOverlap(a.next, b.next) {
				continue
			}
			if shipComparePriority(a.ship, b.ship) {
				held[b.ship.ID] = true
			} else {
				held[a.ship.ID] = true
			}
		}
	}
	return held
}

// commitShipMove issues the rot/ship command for s's already-resolved
// NextLocAndDir and advances its path cursor, or does nothing if s lost
// this frame's conflict or has nowhere to go.
func (gm *GameManager) commitShipMove(s *Ship, heldThisFrame bool) {
	if s.PathEmpty() || heldThisFrame {
		return
	}
	next := s.NextLocAndDir
	if next == s.Pose {
		return
	}
	if next.Dir != s.Pose.Dir {
		bit := 0
		if next.Dir == s.Pose.Dir.AntiClockwise() {
			bit = 1
		}
		gm.commands.Push(Command{Kind: CmdRot, ID: int(s.ID), Bit: bit})
	} else {
		gm.commands.Push(Command{Kind: CmdShip, ID: int(s.ID)})
	}
	s.Pose = next
	s.AdvancePath()
}

// OutputCommands drains the staged command buffer for this frame's
// response, matching original_source/gameManager.cpp's outputCommands
// (every staged command line followed by a literal OK).
func (gm *GameManager) OutputCommands() []Command {
	return gm.commands.Drain()
}
