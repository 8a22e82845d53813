package systems

import (
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
	"github.com/decker502/towers/pkg/utils"
)

// BossSystem runs boss special attacks on their own timers.
type BossSystem struct {
	ctx *game.Context
}

// NewBossSystem creates a boss system.
func NewBossSystem(ctx *game.Context) *BossSystem {
	return &BossSystem{ctx: ctx}
}

// Update ticks ability timers and fires every ability that comes due.
func (s *BossSystem) Update(dtMs float64) {
	for _, id := range game.Enemies(s.ctx.EM) {
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.ctx.EM, id)
		if enemy.Ability == components.AbilityNone || enemy.AbilityDef == nil {
			continue
		}
		enemy.AbilityTimer -= dtMs
		if enemy.AbilityTimer > 0 {
			continue
		}
		enemy.AbilityTimer += enemy.AbilityDef.IntervalMs
		if enemy.AbilityTimer <= 0 {
			enemy.AbilityTimer = enemy.AbilityDef.IntervalMs
		}
		s.cast(id, enemy)
	}
}

func (s *BossSystem) cast(id ecs.EntityID, enemy *components.EnemyComponent) {
	ctx := s.ctx
	def := enemy.AbilityDef
	pos, _ := game.Position(ctx.EM, id)

	var targets []ecs.EntityID
	switch enemy.Ability {
	case components.AbilitySlam:
		targets = game.TowersInRadius(ctx.EM, pos, def.Radius)
	case components.AbilityBeam:
		if inRange := game.TowersInRadius(ctx.EM, pos, def.Radius); len(inRange) > 0 {
			targets = []ecs.EntityID{inRange[ctx.RNG.Intn(len(inRange))]}
		}
	case components.AbilityCone:
		targets = s.towersInCone(pos, enemy, def.Radius, def.HalfAngleDeg)
	}

	ctx.Emit(event.Event{
		Type:   event.BossAbility,
		Source: uint64(id),
		Kind:   enemy.Ability.String(),
		Amount: float64(len(targets)),
		X:      pos.X,
		Y:      pos.Y,
	})
	for _, t := range targets {
		game.DamageTower(ctx, t, id, float64(def.Damage))
	}
}

// towersInCone returns towers within length of the boss and inside the cone
// facing the waypoint it walks towards.
func (s *BossSystem) towersInCone(pos grid.Point, enemy *components.EnemyComponent, length, halfAngleDeg float64) []ecs.EntityID {
	route := s.ctx.Route
	idx := enemy.WaypointIndex
	if idx >= route.Len() {
		idx = route.Len() - 1
	}
	facing := route.Waypoints[idx]
	if facing == pos && idx > 0 {
		// standing on the waypoint: keep the heading of the last segment
		prev := route.Waypoints[idx-1]
		facing = grid.Point{X: pos.X + (pos.X - prev.X), Y: pos.Y + (pos.Y - prev.Y)}
	}
	hx, hy := facing.X-pos.X, facing.Y-pos.Y
	half := halfAngleDeg * math.Pi / 180

	var out []ecs.EntityID
	for _, t := range game.TowersInRadius(s.ctx.EM, pos, length) {
		tp, _ := game.Position(s.ctx.EM, t)
		// AngleBetween yields 0 for a tower on the boss itself
		if utils.AngleBetween(hx, hy, tp.X-pos.X, tp.Y-pos.Y) <= half {
			out = append(out, t)
		}
	}
	return out
}
