package components

import "github.com/decker502/towers/pkg/ecs"

// ProjectileComponent is a shot in flight.
//
// Straight projectiles home on Target while it is alive and fly on to the
// last known (TargetX, TargetY) once it is gone. Arc projectiles ignore
// Target movement and interpolate from Origin to the fixed point, Progress in
// [0,1] driving the parabolic Height.
type ProjectileComponent struct {
	SourceTower    ecs.EntityID
	Target         ecs.EntityID
	TargetX        float64
	TargetY        float64
	OriginX        float64
	OriginY        float64
	Damage         float64
	DamageType     DamageType
	SplashRadius   float64
	SlowFactor     float64
	SlowDurationMs float64
	Trajectory     Trajectory
	Speed          float64 // px/s
	Progress       float64
	Height         float64
	TypeID         string // source tower type, for renderers
}
