package server

import "testing"

func TestNeedToBuyRobotGatesOnFundsAndSchedule(t *testing.T) {
	params := DefaultParams()
	am := &AssetManager{params: params}

	if am.NeedToBuyRobot(RobotPrice-1, 0) {
		t.Fatalf("NeedToBuyRobot() = true with insufficient funds")
	}
	if !am.NeedToBuyRobot(RobotPrice, 0) {
		t.Fatalf("NeedToBuyRobot() = false with sufficient funds and room under threshold %d", params.RobotPurchaseAssign.Thresholds[0])
	}

	// Advance totalRobots up to the first threshold and confirm the
	// gate closes exactly there.
	threshold := params.RobotPurchaseAssign.Thresholds[0]
	if am.NeedToBuyRobot(RobotPrice, threshold) {
		t.Fatalf("NeedToBuyRobot() = true at totalRobots == first threshold, want gate closed")
	}
}

func TestNeedToBuyRobotGatesOnMaxRobotNum(t *testing.T) {
	params := DefaultParams()
	am := &AssetManager{params: params}

	if am.NeedToBuyRobot(RobotPrice, params.MaxRobotNum) {
		t.Fatalf("NeedToBuyRobot() = true at totalRobots == MaxRobotNum, want gate closed")
	}
}

func TestAdvanceRobotPurchaseStepMovesThreshold(t *testing.T) {
	params := DefaultParams()
	am := &AssetManager{params: params}

	firstThreshold := params.RobotPurchaseAssign.Thresholds[0]
	if am.NeedToBuyRobot(RobotPrice, firstThreshold) {
		t.Fatalf("gate unexpectedly open before advancing the purchase step")
	}

	am.AdvanceRobotPurchaseStep()

	if !am.NeedToBuyRobot(RobotPrice, firstThreshold) {
		t.Fatalf("gate still closed at the same totalRobots after advancing the purchase step")
	}
}

func TestNeedToBuyShipGatesOnTimeToBuyShipForSecondShip(t *testing.T) {
	params := DefaultParams()
	am := &AssetManager{params: params}

	if am.NeedToBuyShip(ShipPrice, params.StartNum, 0) {
		t.Fatalf("NeedToBuyShip() = true for the second ship before TimeToBuyShip, want gated")
	}
	if !am.NeedToBuyShip(ShipPrice, params.StartNum, params.TimeToBuyShip) {
		t.Fatalf("NeedToBuyShip() = false for the second ship once TimeToBuyShip has elapsed")
	}
}

func TestNeedToBuyShipGatesOnMaxShipNum(t *testing.T) {
	params := DefaultParams()
	am := &AssetManager{params: params}

	if am.NeedToBuyShip(ShipPrice, params.MaxShipNum, params.TimeToBuyShip) {
		t.Fatalf("NeedToBuyShip() = true at totalShips == MaxShipNum, want gate closed")
	}
}

func TestAssetManagerFloodFillSeparatesDisjointLandBlocks(t *testing.T) {
	m := NewMap()
	for x := 0; x < MapRows; x++ {
		for y := 0; y < MapCols; y++ {
			m.SetCell(Point2d{X: x, Y: y}, CellObstacle)
		}
	}
	m.SetCell(Point2d{X: 1, Y: 1}, CellSpace)
	m.SetCell(Point2d{X: 50, Y: 50}, CellSpace)

	am := NewAssetManager(m, nil, nil, DefaultParams())
	if len(am.landBlocks) != 2 {
		t.Fatalf("len(landBlocks) = %d, want 2 disjoint single-cell blocks", len(am.landBlocks))
	}
	for _, lb := range am.landBlocks {
		if len(lb.Cells) != 1 {
			t.Fatalf("block %d has %d cells, want 1", lb.ID, len(lb.Cells))
		}
	}
}
