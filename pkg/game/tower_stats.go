package game

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/utils"
)

// slow factors never reach a full stop
const minSlowFactor = 0.05

// ApplyTowerStats recomputes a tower's effective stats from its base tier:
// shop boosts first, then one multiplier per adjacent rune kind. It is called
// on build and after every upgrade and always starts from Base, so bonuses
// never compound.
func ApplyTowerStats(ctx *Context, id ecs.EntityID) {
	tower, ok := ecs.GetComponent[*components.TowerComponent](ctx.EM, id)
	if !ok {
		return
	}
	b := ctx.Boosts
	base := tower.Base

	damage := base.Damage * (1 + b.TowerDamage)
	interval := base.FireIntervalMs / (1 + b.TowerFireRate)
	rng := base.Range * (1 + b.TowerRange)

	runes := FeaturesAround(ctx.EM, ctx.Grid, tower.Cell)
	if runes[components.FeatureRuneDamage] && ctx.Runes.Damage > 0 {
		damage *= ctx.Runes.Damage
	}
	if runes[components.FeatureRuneSpeed] && ctx.Runes.Speed > 0 {
		interval /= ctx.Runes.Speed
	}
	if runes[components.FeatureRuneRange] && ctx.Runes.Range > 0 {
		rng *= ctx.Runes.Range
	}

	tower.Damage = damage
	tower.FireIntervalMs = interval
	tower.Range = rng
	tower.SplashRadius = base.SplashRadius * (1 + b.TowerAoe)
	tower.SlowDurationMs = base.SlowDurationMs
	tower.SlowFactor = base.SlowFactor
	if base.SlowFactor > 0 {
		tower.SlowFactor = utils.Clamp(base.SlowFactor*(1-b.TowerIcy), minSlowFactor, 1)
	}

	if def, ok := ctx.Catalog.Towers.Get(tower.TypeID); ok {
		tower.AutoHealRate = def.AutoHealRate + b.TowerAutoHeal
	}
}

// TowerMaxHP returns the hit points of a freshly built tower of a type.
func TowerMaxHP(ctx *Context, typeID string) float64 {
	def, ok := ctx.Catalog.Towers.Get(typeID)
	if !ok {
		return 0
	}
	return float64(def.MaxHP) * (1 + ctx.Boosts.TowerHealth)
}
