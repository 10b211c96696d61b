package server

// LandBlock is a connected component of passable (Space/Berth) cells.
type LandBlock struct {
	ID     int
	Cells  []Point2d
	Shop   Point2d
	Berths []BerthID
}

// SeaBlock is a connected component of Sea cells.
type SeaBlock struct {
	ID    int
	Cells []Point2d
	Shop  Point2d
}

// LandSeaBlock pairs a land block and sea block that share at least
// one berth adjacent to both regions, the unit the AssetManager grants
// at most one robot shop and one ship shop to.
type LandSeaBlock struct {
	Land *LandBlock
	Sea  *SeaBlock
}

// AssetManager decides when and where to purchase robots and ships.
// Grounded on spec.md §4.8 and
// original_source/earlyGameAssetManager.h.
type AssetManager struct {
	m         *Map
	berths    []*Berth
	deliverys []DeliveryPoint
	params    Params

	landBlocks  []*LandBlock
	seaBlocks   []*SeaBlock
	joint       []LandSeaBlock
	cellCluster map[Point2d]int

	robotPurchaseStep int
	shipPurchaseStep  int
}

// NewAssetManager partitions m into land/sea/joint blocks, picks a shop
// cell per block, and buckets every land block into one of
// params.ClusterCount clusters (spec.md §4.8), assigning each berth
// the cluster id of the land block it sits in. original_source/
// params.h's CLUSTERNUMS has no surviving partition algorithm in this
// pack, so the bucketing itself -- block id modulo cluster count -- is
// this repository's own choice (spec.md §9 Open Question), not a port.
func NewAssetManager(m *Map, berths []*Berth, deliverys []DeliveryPoint, params Params) *AssetManager {
	am := &AssetManager{
		m:         m,
		berths:    berths,
		deliverys: deliverys,
		params:    params,
	}
	am.landBlocks = am.divideLandConnectedBlocks()
	am.seaBlocks = am.divideSeaConnectedBlocks()
	am.joint = am.divideLandAndSeaConnectedBlocks()
	for _, lb := range am.landBlocks {
		lb.Shop = am.chooseShop(lb.Cells)
	}
	for _, sb := range am.seaBlocks {
		sb.Shop = am.chooseShop(sb.Cells)
	}
	am.assignClusters()
	return am
}

// assignClusters buckets every land block into one of params.ClusterCount
// clusters and propagates that id to the block's cells and berths.
func (am *AssetManager) assignClusters() {
	clusterCount := am.params.ClusterCount
	if clusterCount <= 0 {
		clusterCount = 1
	}
	am.cellCluster = make(map[Point2d]int)
	for _, lb := range am.landBlocks {
		cluster := lb.ID % clusterCount
		for _, c := range lb.Cells {
			am.cellCluster[c] = cluster
		}
		for _, bid := range lb.Berths {
			if b := am.berthByID(bid); b != nil {
				b.ClusterID = cluster
			}
		}
	}
}

// ClusterOf returns the cluster id of the land block containing p, or
// -1 if p is not part of any discovered land block (e.g. a sea cell).
func (am *AssetManager) ClusterOf(p Point2d) int {
	if cluster, ok := am.cellCluster[p]; ok {
		return cluster
	}
	return -1
}

// divideLandConnectedBlocks flood-fills over passable cells.
func (am *AssetManager) divideLandConnectedBlocks() []*LandBlock {
	visited := make(map[Point2d]bool)
	var blocks []*LandBlock
	id := 0
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			start := Point2d{X: x, Y: y}
			if visited[start] || !am.m.Passable(start) {
				continue
			}
			cells := am.floodFill(start, visited, am.m.Passable)
			block := &LandBlock{ID: id, Cells: cells}
			for _, b := range am.berths {
				for _, c := range cells {
					if c == b.TopLeft {
						block.Berths = append(block.Berths, b.ID)
						break
					}
				}
			}
			blocks = append(blocks, block)
			id++
		}
	}
	return blocks
}

// divideSeaConnectedBlocks flood-fills over Sea cells.
func (am *AssetManager) divideSeaConnectedBlocks() []*SeaBlock {
	visited := make(map[Point2d]bool)
	isSea := func(p Point2d) bool { return am.m.GetCell(p) == CellSea }
	var blocks []*SeaBlock
	id := 0
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			start := Point2d{X: x, Y: y}
			if visited[start] || !isSea(start) {
				continue
			}
			cells := am.floodFill(start, visited, isSea)
			blocks = append(blocks, &SeaBlock{ID: id, Cells: cells})
			id++
		}
	}
	return blocks
}

// divideLandAndSeaConnectedBlocks pairs a land block and sea block
// whenever they share a berth adjacent to both regions.
func (am *AssetManager) divideLandAndSeaConnectedBlocks() []LandSeaBlock {
	var joint []LandSeaBlock
	for _, lb := range am.landBlocks {
		for _, sb := range am.seaBlocks {
			if am.shareBerth(lb, sb) {
				joint = append(joint, LandSeaBlock{Land: lb, Sea: sb})
			}
		}
	}
	return joint
}

func (am *AssetManager) shareBerth(lb *LandBlock, sb *SeaBlock) bool {
	if len(lb.Berths) == 0 {
		return false
	}
	seaCells := make(map[Point2d]bool, len(sb.Cells))
	for _, c := range sb.Cells {
		seaCells[c] = true
	}
	for _, bid := range lb.Berths {
		berth := am.berthByID(bid)
		if berth == nil {
			continue
		}
		for _, n := range am.m.Neighbors(berth.TopLeft) {
			if seaCells[n] {
				return true
			}
		}
		for dx := -1; dx <= BerthFootprint; dx++ {
			for dy := -1; dy <= BerthFootprint; dy++ {
				p := Point2d{X: berth.TopLeft.X + dx, Y: berth.TopLeft.Y + dy}
				if seaCells[p] {
					return true
				}
			}
		}
	}
	return false
}

func (am *AssetManager) berthByID(id BerthID) *Berth {
	for _, b := range am.berths {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// floodFill is a plain BFS flood fill over cells satisfying pred,
// used by both the land and sea block partitioners.
func (am *AssetManager) floodFill(start Point2d, visited map[Point2d]bool, pred func(Point2d) bool) []Point2d {
	queue := []Point2d{start}
	visited[start] = true
	cells := []Point2d{start}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, dir := range canonicalDirs {
			next := cur.Add(dir.Delta())
			if !am.m.InBounds(next) || visited[next] || !pred(next) {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
			cells = append(cells, next)
		}
	}
	return cells
}

// chooseShop picks the cell minimizing its own
// landDistanceWeight*distToNearestBerth + deliveryDistanceWeight*distToNearestDelivery
// (spec.md §4.8); each cell is scored on its own, and no average over
// cells or berths is taken. Ties keep the first cell in cells.
func (am *AssetManager) chooseShop(cells []Point2d) Point2d {
	if len(cells) == 0 {
		return Point2d{X: -1, Y: -1}
	}
	best := cells[0]
	bestScore := -1.0
	for _, c := range cells {
		berthDist := am.nearestBerthDistance(c)
		deliveryDist := am.nearestDeliveryDistance(c)
		score := am.params.LandDistanceWeight*float64(berthDist) + am.params.DeliveryDistanceWeight*float64(deliveryDist)
		if bestScore < 0 || score < bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

func (am *AssetManager) nearestBerthDistance(p Point2d) int {
	best := infinite
	for _, b := range am.berths {
		d := am.m.DistanceToBerth(b.ID, p)
		if d < best {
			best = d
		}
	}
	if best == infinite {
		return 0
	}
	return best
}

func (am *AssetManager) nearestDeliveryDistance(p Point2d) int {
	best := infinite
	for _, d := range am.deliverys {
		dist := p.ManhattanDistance(d.Pos)
		if dist < best {
			best = dist
		}
	}
	if best == infinite {
		return 0
	}
	return best
}

// NeedToBuyRobot implements spec.md §4.8's robot purchase gate.
func (am *AssetManager) NeedToBuyRobot(funds, totalRobots int) bool {
	if funds < RobotPrice || totalRobots >= am.params.MaxRobotNum {
		return false
	}
	sched := am.params.RobotPurchaseAssign
	idx := am.robotPurchaseStep
	if idx >= len(sched.Thresholds) {
		idx = len(sched.Thresholds) - 1
	}
	return totalRobots < sched.Thresholds[idx]
}

// AdvanceRobotPurchaseStep records that a robot was bought, moving the
// staged schedule forward by its step size.
func (am *AssetManager) AdvanceRobotPurchaseStep() {
	sched := am.params.RobotPurchaseAssign
	idx := am.robotPurchaseStep
	if idx >= len(sched.StepSizes) {
		return
	}
	am.robotPurchaseStep += sched.StepSizes[idx]
}

// NeedToBuyShip implements spec.md §4.8's ship purchase gate, with the
// additional timeToBuyShip gate for the second ship onward.
func (am *AssetManager) NeedToBuyShip(funds, totalShips, currentFrame int) bool {
	if funds < ShipPrice || totalShips >= am.params.MaxShipNum {
		return false
	}
	if totalShips >= am.params.StartNum && currentFrame < am.params.TimeToBuyShip {
		return false
	}
	sched := am.params.ShipPurchaseAssign
	idx := am.shipPurchaseStep
	if idx >= len(sched.Thresholds) {
		idx = len(sched.Thresholds) - 1
	}
	return totalShips < sched.Thresholds[idx]
}

// AdvanceShipPurchaseStep records that a ship was bought.
func (am *AssetManager) AdvanceShipPurchaseStep() {
	sched := am.params.ShipPurchaseAssign
	idx := am.shipPurchaseStep
	if idx >= len(sched.StepSizes) {
		return
	}
	am.shipPurchaseStep += sched.StepSizes[idx]
}

// JointBlocks returns every discovered land/sea block pairing, used by
// tests and the debug monitor to render block topology.
func (am *AssetManager) JointBlocks() []LandSeaBlock {
	return am.joint
}

// RobotShops returns every land block's chosen shop cell.
func (am *AssetManager) RobotShops() []Point2d {
	shops := make([]Point2d, 0, len(am.landBlocks))
	for _, lb := range am.landBlocks {
		shops = append(shops, lb.Shop)
	}
	return shops
}

// ShipShops returns every sea block's chosen shop cell.
func (am *AssetManager) ShipShops() []Point2d {
	shops := make([]Point2d, 0, len(am.seaBlocks))
	for _, sb := range am.seaBlocks {
		shops = append(shops, sb.Shop)
	}
	return shops
}

// GetProperRobotShop returns the land-block shop cell closest to pos,
// the spawn cell for a freshly purchased robot.
func (am *AssetManager) GetProperRobotShop(pos Point2d) (Point2d, bool) {
	best := Point2d{}
	bestDist := infinite
	found := false
	for _, lb := range am.landBlocks {
		if lb.Shop == (Point2d{X: -1, Y: -1}) {
			continue
		}
		d := pos.ManhattanDistance(lb.Shop)
		if d < bestDist {
			bestDist = d
			best = lb.Shop
			found = true
		}
	}
	return best, found
}

// GetProperShipShop returns the sea-block shop cell closest to pos.
func (am *AssetManager) GetProperShipShop(pos Point2d) (Point2d, bool) {
	best := Point2d{}
	bestDist := infinite
	found := false
	for _, sb := range am.seaBlocks {
		if sb.Shop == (Point2d{X: -1, Y: -1}) {
			continue
		}
		d := pos.ManhattanDistance(sb.Shop)
		if d < bestDist {
			bestDist = d
			best = sb.Shop
			found = true
		}
	}
	return best, found
}
