package monitor

import server "portlogistics/server"

// Build converts a GameManager's current state into the wire shape
// published to spectators. Called once per frame, after
// GameManager.Update, so the snapshot reflects the frame just resolved.
func Build(gm *server.GameManager, frame, money int) Snapshot {
	snap := Snapshot{Frame: frame, Money: money}

	for _, r := range gm.Robots {
		snap.Robots = append(snap.Robots, RobotView{
			ID:       int(r.ID),
			X:        r.Pos.X,
			Y:        r.Pos.Y,
			Status:   r.Status.String(),
			Carrying: r.CarryingItem,
		})
	}

	for _, s := range gm.Ships {
		snap.Ships = append(snap.Ships, ShipView{
			ID:     int(s.ID),
			X:      s.Pose.Pos.X,
			Y:      s.Pose.Pos.Y,
			Dir:    s.Pose.Dir.String(),
			Status: s.Status.String(),
			Load:   s.LoadedValue,
		})
	}

	for _, b := range gm.Berths {
		snap.Berths = append(snap.Berths, BerthView{
			ID:        int(b.ID),
			X:         b.TopLeft.X,
			Y:         b.TopLeft.Y,
			Unreached: len(b.UnreachedGoods),
			Reached:   len(b.ReachedGoods),
		})
	}

	for _, g := range gm.Goods.All() {
		snap.Goods = append(snap.Goods, GoodsView{
			ID:     int(g.ID),
			X:      g.Pos.X,
			Y:      g.Pos.Y,
			Value:  g.Value,
			Status: g.Status.String(),
		})
	}

	for _, p := range gm.AssetMgr.RobotShops() {
		snap.RobotShops = append(snap.RobotShops, PointView{X: p.X, Y: p.Y})
	}
	for _, p := range gm.AssetMgr.ShipShops() {
		snap.ShipShops = append(snap.ShipShops, PointView{X: p.X, Y: p.Y})
	}
	snap.JointBlockCount = len(gm.AssetMgr.JointBlocks())

	return snap
}
