package server

// berthSlots is the fixed 4x4 storage grid every berth carries.
const berthSlots = BerthFootprint * BerthFootprint

// Berth is a 4x4 dock where robots drop goods and ships load them.
// Grounded on spec.md §3; storage slots hold GoodsID, not goods
// pointers, per spec.md §9's re-architecting note on raw cross
// references.
type Berth struct {
	ID              BerthID
	TopLeft         Point2d
	TransportTime   int
	LoadingVelocity int
	ClusterID       int

	// Slots is a 16-cell array of (GoodsID, occupied) pairs mirroring
	// the 4x4 footprint. A zero-value slot is empty.
	Slots [berthSlots]BerthSlot

	// UnreachedGoods and ReachedGoods are rebuilt each frame from the
	// live goods table: goods en route to this berth vs. already
	// resting in a slot.
	UnreachedGoods []GoodsID
	ReachedGoods   []GoodsID
}

// BerthSlot is one of a berth's 16 storage cells.
type BerthSlot struct {
	GoodsID  GoodsID
	Occupied bool
}

// NewBerth constructs a berth with an empty slot table.
func NewBerth(id BerthID, topLeft Point2d, transportTime, loadingVelocity int) *Berth {
	return &Berth{
		ID:              id,
		TopLeft:         topLeft,
		TransportTime:   transportTime,
		LoadingVelocity: loadingVelocity,
		ClusterID:       -1,
	}
}

// Footprint returns the 16 cells of the berth's 4x4 area, the seed set
// BFS distance fields are computed from.
func (b *Berth) Footprint() []Point2d {
	cells := make([]Point2d, 0, berthSlots)
	for dx := 0; dx < BerthFootprint; dx++ {
		for dy := 0; dy < BerthFootprint; dy++ {
			cells = append(cells, Point2d{X: b.TopLeft.X + dx, Y: b.TopLeft.Y + dy})
		}
	}
	return cells
}

// FreeSlot returns the index of the first empty slot, or -1 if full.
func (b *Berth) FreeSlot() int {
	for i, s := range b.Slots {
		if !s.Occupied {
			return i
		}
	}
	return -1
}

// NearestEmptySlotCell returns the footprint cell of the empty slot
// nearest to from, used as a robot's drop-off destination. Reports
// false if the berth is full.
func (b *Berth) NearestEmptySlotCell(from Point2d) (Point2d, bool) {
	footprint := b.Footprint()
	best := -1
	bestDist := infinite
	for i, s := range b.Slots {
		if s.Occupied {
			continue
		}
		d := from.ManhattanDistance(footprint[i])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return Point2d{}, false
	}
	return footprint[best], true
}

// PlaceGoods stores goodsID in the slot at cell, which must be one of
// the berth's footprint cells. It is an InvariantViolation (logged by
// the caller, not here) to place into an already-occupied slot.
func (b *Berth) PlaceGoods(cell Point2d, goodsID GoodsID) (ok bool) {
	footprint := b.Footprint()
	for i, c := range footprint {
		if c == cell {
			if b.Slots[i].Occupied {
				return false
			}
			b.Slots[i] = BerthSlot{GoodsID: goodsID, Occupied: true}
			return true
		}
	}
	return false
}

// TakeGoods removes and returns every stored goods id (a ship loading
// drains the berth), emptying every slot.
func (b *Berth) TakeGoods() []GoodsID {
	var taken []GoodsID
	for i, s := range b.Slots {
		if s.Occupied {
			taken = append(taken, s.GoodsID)
			b.Slots[i] = BerthSlot{}
		}
	}
	return taken
}

// RebuildGoodsLists recomputes UnreachedGoods (goods whose claimed
// target destination is this berth but not yet stored) and
// ReachedGoods (goods currently occupying a slot), called once per
// frame by GameManager.
func (b *Berth) RebuildGoodsLists(unreached []GoodsID) {
	b.UnreachedGoods = unreached
	reached := make([]GoodsID, 0, berthSlots)
	for _, s := range b.Slots {
		if s.Occupied {
			reached = append(reached, s.GoodsID)
		}
	}
	b.ReachedGoods = reached
}
