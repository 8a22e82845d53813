package systems

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/game"
)

// HealSystem regenerates tower hit points by their auto-heal rate.
type HealSystem struct {
	ctx *game.Context
}

// NewHealSystem creates a heal system.
func NewHealSystem(ctx *game.Context) *HealSystem {
	return &HealSystem{ctx: ctx}
}

// Update heals every damaged tower for dtMs of sim time.
func (s *HealSystem) Update(dtMs float64) {
	for _, id := range game.Towers(s.ctx.EM) {
		tower, _ := ecs.GetComponent[*components.TowerComponent](s.ctx.EM, id)
		if tower.AutoHealRate <= 0 {
			continue
		}
		if hp, ok := ecs.GetComponent[*components.HealthComponent](s.ctx.EM, id); ok {
			hp.Heal(tower.AutoHealRate * dtMs / 1000)
		}
	}
}

// HealAllTowers restores a fraction of max hp to every tower.
func HealAllTowers(ctx *game.Context, fraction float64) {
	if fraction <= 0 {
		return
	}
	for _, id := range game.Towers(ctx.EM) {
		if hp, ok := ecs.GetComponent[*components.HealthComponent](ctx.EM, id); ok {
			hp.Heal(hp.MaxHP * fraction)
		}
	}
}
