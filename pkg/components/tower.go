package components

import (
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/grid"
)

// TowerComponent holds the state of a built tower.
//
// Base is the authored stat line of the current tier. The flat effective
// fields (Damage, Range...) are derived from Base by the economy code with
// profile boosts and rune multipliers, and recomputed from Base on every
// upgrade so rune bonuses never compound.
type TowerComponent struct {
	TypeID string
	Kind   TowerKind
	Cell   grid.Cell
	Level  int
	Base   config.TowerStats

	Damage         float64
	Range          float64
	FireIntervalMs float64
	SplashRadius   float64
	SlowFactor     float64 // 0 = no slow
	SlowDurationMs float64

	DamageType   DamageType
	Trajectory   Trajectory
	AutoHealRate float64 // hp per second
	TargetMode   TargetMode

	LastFiredAt float64 // sim ms
	HasFired    bool

	TotalInvestment int

	// ManualTarget is a player-locked enemy, validated every tick.
	ManualTarget ecs.EntityID

	// stacking towers
	StackTarget ecs.EntityID
	StackCount  int
	MaxStacks   int
}

// AppliesSlow reports whether hits from this tower slow enemies.
func (t *TowerComponent) AppliesSlow() bool {
	return t.SlowFactor > 0 && t.SlowDurationMs > 0
}

// ReadyToFire reports whether the fire interval has elapsed at time now.
func (t *TowerComponent) ReadyToFire(now float64) bool {
	return !t.HasFired || now-t.LastFiredAt >= t.FireIntervalMs
}
