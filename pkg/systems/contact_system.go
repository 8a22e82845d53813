package systems

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/game"
)

// ContactSystem resolves enemies that attack towers while walking: melee
// units in close range, ranged units at a distance, and kamikaze units that
// detonate on the first tower they reach.
type ContactSystem struct {
	ctx *game.Context
}

// NewContactSystem creates a contact system.
func NewContactSystem(ctx *game.Context) *ContactSystem {
	return &ContactSystem{ctx: ctx}
}

// Update applies contact damage for dtMs of sim time.
func (s *ContactSystem) Update(dtMs float64) {
	ctx := s.ctx
	contact := ctx.Tuning.Contact
	for _, id := range game.Enemies(ctx.EM) {
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](ctx.EM, id)
		if !enemy.AttacksTowers() {
			continue
		}
		pos, _ := game.Position(ctx.EM, id)

		switch {
		case enemy.Kamikaze:
			tower, ok := game.NearestTower(ctx.EM, pos, contact.MeleeRange)
			if !ok {
				continue
			}
			game.DamageTower(ctx, tower, id, float64(enemy.BlastDamage))
			removeEnemy(ctx, id, "detonated")
		case enemy.TowerDPS > 0:
			reach := contact.RangedAttackRange
			if enemy.Melee {
				reach = contact.MeleeRange
			}
			tower, ok := game.NearestTower(ctx.EM, pos, reach)
			if !ok {
				continue
			}
			game.DamageTower(ctx, tower, id, enemy.TowerDPS*dtMs/1000)
		}
	}
}
