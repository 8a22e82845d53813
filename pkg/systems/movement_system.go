package systems

import (
	"log"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/utils"
)

// MovementSystem walks enemies along the route. It also expires slows and
// applies regeneration, and removes enemies that reach the exit.
type MovementSystem struct {
	ctx *game.Context
}

// NewMovementSystem creates a movement system.
func NewMovementSystem(ctx *game.Context) *MovementSystem {
	return &MovementSystem{ctx: ctx}
}

// Update advances every enemy by dtMs of sim time.
func (s *MovementSystem) Update(dtMs float64) {
	for _, id := range game.Enemies(s.ctx.EM) {
		if s.ctx.Phase.Ended() {
			return
		}
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](s.ctx.EM, id)
		hp, _ := ecs.GetComponent[*components.HealthComponent](s.ctx.EM, id)

		if enemy.SlowTimer > 0 {
			enemy.SlowTimer -= dtMs
			if enemy.SlowTimer <= 0 {
				enemy.SlowTimer = 0
				enemy.SlowFactor = 1
				enemy.Speed = enemy.BaseSpeed
			}
		}
		if enemy.RegenPerSec > 0 {
			hp.Heal(enemy.RegenPerSec * dtMs / 1000)
		}

		if s.advance(id, enemy, dtMs) {
			s.leak(id, enemy)
		}
	}
}

// advance moves an enemy and reports whether it walked past the last
// waypoint. Leftover movement carries over to the next waypoint.
func (s *MovementSystem) advance(id ecs.EntityID, enemy *components.EnemyComponent, dtMs float64) bool {
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.ctx.EM, id)
	if !ok {
		return false
	}
	route := s.ctx.Route
	reach := s.ctx.Tuning.WaypointReachDistance
	step := enemy.Speed * dtMs / 1000

	for enemy.WaypointIndex < route.Len() {
		wp := route.Waypoints[enemy.WaypointIndex]
		d := utils.Distance(pos.X, pos.Y, wp.X, wp.Y)
		if d <= reach || d <= step {
			pos.X, pos.Y = wp.X, wp.Y
			step -= d
			enemy.WaypointIndex++
			if step <= 0 {
				break
			}
			continue
		}
		pos.X, pos.Y, _ = utils.MoveTowards(pos.X, pos.Y, wp.X, wp.Y, step)
		break
	}
	return enemy.WaypointIndex >= route.Len()
}

// leak subtracts the enemy's contact damage from lives and ends the run when
// none are left.
func (s *MovementSystem) leak(id ecs.EntityID, enemy *components.EnemyComponent) {
	ctx := s.ctx
	lives := ctx.Ledger.LoseLives(enemy.ContactDamage)
	ctx.Stats.Leaks++
	pos, _ := game.Position(ctx.EM, id)
	ctx.EM.DestroyEntity(id)
	if ctx.FocusTarget == id {
		ctx.FocusTarget = ecs.InvalidEntity
	}
	ctx.Emit(event.Event{Type: event.EnemyLeaked, Target: uint64(id), Kind: enemy.TypeID, Amount: float64(enemy.ContactDamage), X: pos.X, Y: pos.Y})

	if lives == 0 {
		ctx.Phase = game.PhaseGameOver
		log.Printf("[MovementSystem] Base destroyed on wave %d", ctx.Wave.Number)
		ctx.Emit(event.Event{Type: event.GameOver, Amount: float64(ctx.Wave.Number)})
	}
}
