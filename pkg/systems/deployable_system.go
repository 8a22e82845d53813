package systems

import (
	"errors"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
)

// ErrNoCharges is returned when a weapon has no charges left this level.
var ErrNoCharges = errors.New("no charges left")

// Deploy spends one charge of a weapon at a point. Kegs detonate at once;
// mines and gas clouds are placed and driven by DeployableSystem.
func Deploy(ctx *game.Context, kind components.DeployableKind, at grid.Point) (ecs.EntityID, error) {
	if ctx.Phase.Ended() {
		return ecs.InvalidEntity, game.ErrRunEnded
	}
	if !ctx.Grid.InBounds(ctx.Grid.PixelToCell(at)) {
		return ecs.InvalidEntity, game.ErrOutOfBounds
	}
	if ctx.Charges[kind] <= 0 {
		return ecs.InvalidEntity, ErrNoCharges
	}
	ctx.Charges[kind]--
	ctx.Stats.DeployablesUsed++
	ctx.Emit(event.Event{Type: event.DeployableUsed, Kind: kind.String(), Amount: float64(ctx.Charges[kind]), X: at.X, Y: at.Y})

	t := ctx.Tuning
	switch kind {
	case components.DeployKeg:
		blast(ctx, ecs.InvalidEntity, at, t.Keg.Radius, t.Keg.Damage*(1+ctx.Boosts.KegDamage), damageType(t.Keg.DamageType), false)
		return ecs.InvalidEntity, nil
	case components.DeployGas:
		return entities.NewDeployable(ctx.EM, at.X, at.Y, components.DeployableComponent{
			Kind:        kind,
			Radius:      t.Gas.Radius,
			DPS:         t.Gas.DPS * (1 + ctx.Boosts.GasDPS),
			SlowFactor:  t.Gas.SlowFactor,
			SlowMs:      t.Gas.SlowMs,
			DamageType:  damageType(t.Gas.DamageType),
			RemainingMs: t.Gas.LifetimeMs,
			PulseMs:     t.Gas.PulseMs,
			PulseTimer:  t.Gas.PulseMs,
		}), nil
	default:
		return entities.NewDeployable(ctx.EM, at.X, at.Y, components.DeployableComponent{
			Kind:          kind,
			Radius:        t.Mine.Radius,
			TriggerRadius: t.Mine.TriggerRadius,
			Damage:        t.Mine.Damage,
			DamageType:    damageType(t.Mine.DamageType),
		}), nil
	}
}

// DeployableSystem triggers mines and pulses gas clouds.
type DeployableSystem struct {
	ctx *game.Context
}

// NewDeployableSystem creates a deployable system.
func NewDeployableSystem(ctx *game.Context) *DeployableSystem {
	return &DeployableSystem{ctx: ctx}
}

// Update advances every placed weapon by dtMs of sim time.
func (s *DeployableSystem) Update(dtMs float64) {
	em := s.ctx.EM
	for _, id := range ecs.GetEntitiesWith2[*components.DeployableComponent, *components.PositionComponent](em) {
		d, _ := ecs.GetComponent[*components.DeployableComponent](em, id)
		pos, _ := game.Position(em, id)
		if !d.Active {
			continue
		}
		switch d.Kind {
		case components.DeployMine:
			if !groundEnemyWithin(s.ctx, pos, d.TriggerRadius) {
				continue
			}
			d.Active = false
			em.DestroyEntity(id)
			s.ctx.Emit(event.Event{Type: event.MineTriggered, Source: uint64(id), X: pos.X, Y: pos.Y})
			blast(s.ctx, id, pos, d.Radius, d.Damage, d.DamageType, true)
		case components.DeployGas:
			d.RemainingMs -= dtMs
			d.PulseTimer -= dtMs
			// a pulse due after the cloud expired never happens
			for d.PulseTimer <= 0 && d.PulseTimer <= d.RemainingMs && d.PulseMs > 0 {
				d.PulseTimer += d.PulseMs
				s.pulse(id, pos, d)
			}
			if d.RemainingMs <= 0 {
				d.Active = false
				em.DestroyEntity(id)
			}
		}
	}
}

func (s *DeployableSystem) pulse(id ecs.EntityID, pos grid.Point, d *components.DeployableComponent) {
	dmg := d.DPS * d.PulseMs / 1000
	for _, e := range game.EnemiesInRadius(s.ctx.EM, pos, d.Radius) {
		_, killed := DamageEnemy(s.ctx, Hit{Source: id, Target: e, Raw: dmg, Type: d.DamageType})
		if !killed {
			ApplySlow(s.ctx, e, d.SlowFactor, d.SlowMs)
		}
	}
}

// blast damages every enemy in radius once. Ground blasts skip flying units.
func blast(ctx *game.Context, source ecs.EntityID, at grid.Point, radius, damage float64, t components.DamageType, groundOnly bool) {
	for _, e := range game.EnemiesInRadius(ctx.EM, at, radius) {
		if groundOnly {
			if enemy, _ := ecs.GetComponent[*components.EnemyComponent](ctx.EM, e); enemy.Flying {
				continue
			}
		}
		DamageEnemy(ctx, Hit{Source: source, Target: e, Raw: damage, Type: t})
	}
}

func groundEnemyWithin(ctx *game.Context, p grid.Point, r float64) bool {
	for _, e := range game.EnemiesInRadius(ctx.EM, p, r) {
		if enemy, _ := ecs.GetComponent[*components.EnemyComponent](ctx.EM, e); !enemy.Flying {
			return true
		}
	}
	return false
}

// damageType resolves a validated tuning damage type.
func damageType(s string) components.DamageType {
	t, err := components.ParseDamageType(s)
	if err != nil {
		return components.DamagePhysical
	}
	return t
}
