// Package autoplay is a scripted player used by the headless runner and the
// demo mode of the viewers. It only reads snapshots and emits intents, the
// same way a human player's input layer does.
package autoplay

import (
	"sort"

	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/grid"
)

// coverageTiles is the radius, in tiles, used to score a build spot by how
// many path waypoints it covers.
const coverageTiles = 2.0

// repairBelow is the hp fraction under which a tower gets repaired.
const repairBelow = 0.5

// Player decides intents from snapshots. It is deterministic: the same map
// and snapshot sequence always yields the same intents.
type Player struct {
	defs  map[string]*config.TowerDef
	order []string
	spots []grid.Cell
	next  int // index into order
}

// New ranks the build spots of a level. Tower types are built in the
// level's listed order, cheapest first when the level allows every tower.
func New(catalog *config.Catalog, level *config.LevelConfig, m engine.MapView) *Player {
	p := &Player{defs: make(map[string]*config.TowerDef)}

	ids := level.AvailableTowers
	if len(ids) == 0 {
		ids = catalog.TowersFor(level)
	}
	for _, id := range ids {
		if def, ok := catalog.Towers.Get(id); ok {
			p.defs[id] = def
			p.order = append(p.order, id)
		}
	}
	p.spots = rankSpots(m)
	return p
}

// Spots returns the ranked build spots.
func (p *Player) Spots() []grid.Cell { return append([]grid.Cell(nil), p.spots...) }

func rankSpots(m engine.MapView) []grid.Cell {
	type scored struct {
		cell  grid.Cell
		score int
	}
	reach := coverageTiles * m.TileSize
	var all []scored
	for r, row := range m.Cells {
		for c, code := range row {
			if grid.CellCode(code) != grid.Buildable {
				continue
			}
			cell := grid.Cell{Row: r, Col: c}
			center := grid.Point{X: (float64(c) + 0.5) * m.TileSize, Y: (float64(r) + 0.5) * m.TileSize}
			n := 0
			for _, wp := range m.Waypoints {
				if center.Distance(wp) <= reach {
					n++
				}
			}
			if n > 0 {
				all = append(all, scored{cell, n})
			}
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	out := make([]grid.Cell, len(all))
	for i, s := range all {
		out[i] = s.cell
	}
	return out
}

// Plan returns the intents for one tick.
func (p *Player) Plan(snap engine.Snapshot) []engine.Intent {
	if snap.Phase == "won" || snap.Phase == "gameOver" || snap.Paused {
		return nil
	}
	var out []engine.Intent

	for _, g := range snap.GemDrops {
		out = append(out, engine.Intent{Kind: engine.IntentCollectGem, Target: ecs.EntityID(g.ID)})
	}
	for _, f := range snap.Features {
		if f.Kind == "chest" && !f.Opened {
			out = append(out, engine.Intent{Kind: engine.IntentOpenChest, Target: ecs.EntityID(f.ID)})
		}
	}

	gold := snap.Gold
	occupied := make(map[grid.Cell]bool, len(snap.Towers))
	for _, t := range snap.Towers {
		occupied[grid.Cell{Row: t.Row, Col: t.Col}] = true
		if t.MaxHP > 0 && t.HP < t.MaxHP*repairBelow {
			out = append(out, engine.Intent{Kind: engine.IntentRepair, Tower: ecs.EntityID(t.ID)})
		}
	}

	if len(p.order) > 0 {
		for {
			typeID := p.order[p.next%len(p.order)]
			cost := p.defs[typeID].Cost
			spot, ok := p.freeSpot(occupied)
			if !ok || gold < cost {
				break
			}
			out = append(out, engine.Intent{Kind: engine.IntentPlaceTower, TowerType: typeID, Cell: spot})
			occupied[spot] = true
			gold -= cost
			p.next++
		}
	}

	if up, ok := p.cheapestUpgrade(snap.Towers, gold); ok {
		out = append(out, up)
	}

	if snap.Phase == "building" {
		out = append(out, engine.Intent{Kind: engine.IntentStartNextWave})
	}
	return out
}

func (p *Player) freeSpot(occupied map[grid.Cell]bool) (grid.Cell, bool) {
	for _, c := range p.spots {
		if !occupied[c] {
			return c, true
		}
	}
	return grid.Cell{}, false
}

// cheapestUpgrade picks the affordable upgrade of the lowest tier tower.
func (p *Player) cheapestUpgrade(towers []engine.TowerView, gold int) (engine.Intent, bool) {
	best, bestCost := -1, 0
	for i, t := range towers {
		def, ok := p.defs[t.Type]
		if !ok {
			continue
		}
		cost, ok := def.UpgradeCost(t.Level + 1)
		if !ok || cost > gold {
			continue
		}
		if best < 0 || t.Level < towers[best].Level || (t.Level == towers[best].Level && cost < bestCost) {
			best, bestCost = i, cost
		}
	}
	if best < 0 {
		return engine.Intent{}, false
	}
	return engine.Intent{Kind: engine.IntentUpgrade, Tower: ecs.EntityID(towers[best].ID)}, true
}
