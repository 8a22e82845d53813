package systems

import (
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
)

// CombatSystem acquires targets and fires every tower whose interval has
// elapsed. The firing pattern depends on the tower kind.
type CombatSystem struct {
	ctx *game.Context
}

// NewCombatSystem creates a combat system.
func NewCombatSystem(ctx *game.Context) *CombatSystem {
	return &CombatSystem{ctx: ctx}
}

// Update fires ready towers at the current sim time.
func (s *CombatSystem) Update(dtMs float64) {
	now := s.ctx.Now()
	for _, id := range game.Towers(s.ctx.EM) {
		if s.ctx.Phase.Ended() {
			return
		}
		tower, _ := ecs.GetComponent[*components.TowerComponent](s.ctx.EM, id)
		if !tower.ReadyToFire(now) {
			continue
		}
		pos, _ := game.Position(s.ctx.EM, id)
		target := SelectTarget(s.ctx, pos, tower)
		if target == ecs.InvalidEntity {
			continue
		}

		switch tower.Kind {
		case components.TowerChain:
			s.fireChain(id, pos, tower, target)
		case components.TowerStacking:
			if tower.StackTarget == target {
				if tower.StackCount < tower.MaxStacks {
					tower.StackCount++
				}
			} else {
				tower.StackTarget = target
				tower.StackCount = 1
			}
			s.fireProjectile(id, pos, tower, target, tower.Damage*float64(tower.StackCount))
		default:
			s.fireProjectile(id, pos, tower, target, tower.Damage)
		}
		tower.LastFiredAt = now
		tower.HasFired = true
	}
}

func (s *CombatSystem) fireProjectile(id ecs.EntityID, pos grid.Point, tower *components.TowerComponent, target ecs.EntityID, damage float64) {
	tp, _ := game.Position(s.ctx.EM, target)
	speed := s.ctx.Tuning.ProjectileSpeed
	if tower.Trajectory == components.TrajectoryArc {
		speed = s.ctx.Tuning.ArcProjectileSpeed
	}
	entities.NewProjectile(s.ctx.EM, pos.X, pos.Y, components.ProjectileComponent{
		SourceTower:    id,
		Target:         target,
		TargetX:        tp.X,
		TargetY:        tp.Y,
		Damage:         damage,
		DamageType:     tower.DamageType,
		SplashRadius:   tower.SplashRadius,
		SlowFactor:     tower.SlowFactor,
		SlowDurationMs: tower.SlowDurationMs,
		Trajectory:     tower.Trajectory,
		Speed:          speed,
		TypeID:         tower.TypeID,
	})
	s.ctx.Emit(event.Event{
		Type:   event.ShotFired,
		Source: uint64(id),
		Target: uint64(target),
		Amount: damage,
		Kind:   tower.TypeID,
		Reason: tower.Trajectory.String(),
		X:      pos.X,
		Y:      pos.Y,
	})
}

// fireChain strikes the target, then jumps to the nearest enemy not yet hit
// within the chain radius of the last strike, losing a fraction of its
// damage per link.
func (s *CombatSystem) fireChain(id ecs.EntityID, pos grid.Point, tower *components.TowerComponent, target ecs.EntityID) {
	ctx := s.ctx
	chain := ctx.Tuning.Chain
	reach := tower.Range * chain.RangeFactor
	hit := map[ecs.EntityID]bool{}

	ctx.Emit(event.Event{Type: event.ShotFired, Source: uint64(id), Target: uint64(target), Amount: tower.Damage, Kind: tower.TypeID, X: pos.X, Y: pos.Y})

	damage := tower.Damage
	current := target
	for link := 0; link <= chain.MaxLinks; link++ {
		if link > 0 {
			damage *= chain.Decay
			if math.Round(damage) < 1 {
				return
			}
		}
		at, _ := game.Position(ctx.EM, current)
		hit[current] = true
		s.strike(id, current, damage, tower)

		next := nearestUnhit(ctx, at, pos, chain.Radius, reach, hit)
		if next == ecs.InvalidEntity {
			return
		}
		current = next
	}
}

func (s *CombatSystem) strike(source, target ecs.EntityID, damage float64, tower *components.TowerComponent) {
	_, killed := DamageEnemy(s.ctx, Hit{Source: source, Target: target, Raw: damage, Type: tower.DamageType})
	if !killed && tower.AppliesSlow() {
		ApplySlow(s.ctx, target, tower.SlowFactor, tower.SlowDurationMs)
	}
}
