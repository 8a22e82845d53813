package systems

import (
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
	"github.com/decker502/towers/pkg/utils"
)

// ProjectileSystem moves shots in flight and resolves their impact.
type ProjectileSystem struct {
	ctx *game.Context
}

// NewProjectileSystem creates a projectile system.
func NewProjectileSystem(ctx *game.Context) *ProjectileSystem {
	return &ProjectileSystem{ctx: ctx}
}

// Update advances every projectile by dtMs of sim time.
func (s *ProjectileSystem) Update(dtMs float64) {
	em := s.ctx.EM
	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		p, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
		pos, _ := ecs.GetComponent[*components.PositionComponent](em, id)
		step := p.Speed * dtMs / 1000

		if p.Trajectory == components.TrajectoryArc {
			if s.advanceArc(p, pos, step) {
				s.impact(id, p)
			}
			continue
		}

		if game.IsTargetableEnemy(em, p.Target) {
			tp, _ := game.Position(em, p.Target)
			p.TargetX, p.TargetY = tp.X, tp.Y
		}
		d := utils.Distance(pos.X, pos.Y, p.TargetX, p.TargetY)
		if d <= math.Max(s.ctx.Tuning.MinHitDistance, step) {
			pos.X, pos.Y = p.TargetX, p.TargetY
			s.impact(id, p)
			continue
		}
		pos.X, pos.Y, _ = utils.MoveTowards(pos.X, pos.Y, p.TargetX, p.TargetY, step)
	}
}

// advanceArc interpolates an arc shot towards its fixed landing point and
// reports whether it landed. Height peaks at the midpoint.
func (s *ProjectileSystem) advanceArc(p *components.ProjectileComponent, pos *components.PositionComponent, step float64) bool {
	total := utils.Distance(p.OriginX, p.OriginY, p.TargetX, p.TargetY)
	if total <= 0 {
		p.Progress = 1
	} else {
		p.Progress = math.Min(1, p.Progress+step/total)
	}
	pos.X = p.OriginX + (p.TargetX-p.OriginX)*p.Progress
	pos.Y = p.OriginY + (p.TargetY-p.OriginY)*p.Progress
	p.Height = 4 * s.ctx.Tuning.ArcHeight * p.Progress * (1 - p.Progress)
	return p.Progress >= 1
}

// impact applies a projectile's payload at its landing point and removes it.
// Splash shots damage every live enemy in radius; single-target shots only
// their target, and only while it is alive.
func (s *ProjectileSystem) impact(id ecs.EntityID, p *components.ProjectileComponent) {
	ctx := s.ctx
	ctx.EM.DestroyEntity(id)

	var victims []ecs.EntityID
	if p.SplashRadius > 0 {
		victims = game.EnemiesInRadius(ctx.EM, grid.Point{X: p.TargetX, Y: p.TargetY}, p.SplashRadius)
	} else if game.IsTargetableEnemy(ctx.EM, p.Target) {
		victims = []ecs.EntityID{p.Target}
	}

	slows := p.SlowFactor > 0 && p.SlowDurationMs > 0
	for _, v := range victims {
		_, killed := DamageEnemy(ctx, Hit{Source: p.SourceTower, Target: v, Raw: p.Damage, Type: p.DamageType})
		if !killed && slows {
			ApplySlow(ctx, v, p.SlowFactor, p.SlowDurationMs)
		}
	}
}
