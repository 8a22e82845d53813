package entities

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/grid"
)

// NewGemDrop creates a gem pickup that auto-collects at autoCollectAt.
func NewGemDrop(em *ecs.EntityManager, x, y float64, amount int, autoCollectAt float64) ecs.EntityID {
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &components.GemDropComponent{Amount: amount, AutoCollectAt: autoCollectAt})
	return id
}

// NewFeature creates a static map feature entity at the center of its cell.
func NewFeature(em *ecs.EntityManager, g *grid.Grid, cell grid.Cell, kind components.FeatureKind, gold int) ecs.EntityID {
	pos := g.CellCenter(cell)
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: pos.X, Y: pos.Y})
	ecs.AddComponent(em, id, &components.FeatureComponent{Kind: kind, Cell: cell, Gold: gold})
	return id
}

// FeatureKindForCell maps a grid code to a feature kind. The second result
// is false for codes without a feature.
func FeatureKindForCell(code grid.CellCode) (components.FeatureKind, bool) {
	switch code {
	case grid.RuneDamage:
		return components.FeatureRuneDamage, true
	case grid.RuneSpeed:
		return components.FeatureRuneSpeed, true
	case grid.RuneRange:
		return components.FeatureRuneRange, true
	case grid.GoldDeposit:
		return components.FeatureDeposit, true
	case grid.Chest:
		return components.FeatureChest, true
	}
	return 0, false
}
