package systems

import (
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
)

// SelectTarget picks the enemy a tower fires at, or InvalidEntity.
//
// A tower-locked manual target wins, then the global focus target, as long as
// it is alive and in range. Otherwise the best in-range enemy by the tower's
// mode is chosen; ties keep the earlier-spawned enemy.
func SelectTarget(ctx *game.Context, towerPos grid.Point, tower *components.TowerComponent) ecs.EntityID {
	em := ctx.EM
	for _, manual := range []ecs.EntityID{tower.ManualTarget, ctx.FocusTarget} {
		if manual == ecs.InvalidEntity || !game.IsTargetableEnemy(em, manual) {
			continue
		}
		if p, _ := game.Position(em, manual); p.Distance(towerPos) <= tower.Range {
			return manual
		}
	}
	if tower.ManualTarget != ecs.InvalidEntity && !game.IsTargetableEnemy(em, tower.ManualTarget) {
		tower.ManualTarget = ecs.InvalidEntity
	}

	if tower.TargetMode == components.TargetFirst {
		for _, id := range game.EnemiesByProgress(em, ctx.Route) {
			if p, _ := game.Position(em, id); p.Distance(towerPos) <= tower.Range {
				return id
			}
		}
		return ecs.InvalidEntity
	}

	best := ecs.InvalidEntity
	var bestA, bestB float64
	for _, id := range game.EnemiesInRadius(em, towerPos, tower.Range) {
		hp, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		var a, b float64 // larger wins
		switch tower.TargetMode {
		case components.TargetStrong:
			a, b = hp.MaxHP, hp.HP
		case components.TargetWeak:
			a, b = -hp.HP, 0
		case components.TargetClose:
			p, _ := game.Position(em, id)
			a, b = -p.Distance(towerPos), 0
		}
		if best == ecs.InvalidEntity || a > bestA || (a == bestA && b > bestB) {
			best, bestA, bestB = id, a, b
		}
	}
	return best
}

// nearestUnhit returns the closest enemy to p within radius that is not in
// hit and lies within reach of the tower.
func nearestUnhit(ctx *game.Context, p, towerPos grid.Point, radius, reach float64, hit map[ecs.EntityID]bool) ecs.EntityID {
	best := ecs.InvalidEntity
	bestDist := math.Inf(1)
	for _, id := range game.EnemiesInRadius(ctx.EM, p, radius) {
		if hit[id] {
			continue
		}
		ep, _ := game.Position(ctx.EM, id)
		if ep.Distance(towerPos) > reach {
			continue
		}
		if d := ep.Distance(p); d < bestDist {
			best, bestDist = id, d
		}
	}
	return best
}
