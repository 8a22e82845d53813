package components

import "github.com/decker502/towers/pkg/config"

// EnemyComponent holds the state of a hostile unit walking the route.
type EnemyComponent struct {
	TypeID string

	BaseSpeed  float64 // px/s after difficulty and endless scaling
	Speed      float64 // current px/s, BaseSpeed x SlowFactor while slowed
	SlowTimer  float64 // remaining slow in ms
	SlowFactor float64

	Reward        int
	ContactDamage int
	BlastDamage   int
	Resistances   config.Resistances

	// WaypointIndex is the index of the waypoint being walked towards. It only
	// increases.
	WaypointIndex int

	Flying      bool
	Melee       bool
	Boss        bool
	Kamikaze    bool
	Splits      int
	SplitInto   string
	RegenPerSec float64
	TowerDPS    float64

	Ability      BossAbility
	AbilityDef   *config.BossAbilityDef
	AbilityTimer float64 // ms until next ability use

	Wave int // wave number that spawned the unit

	// multipliers the unit was spawned with, reused for split children
	HPScale     float64
	SpeedScale  float64
	RewardScale float64
}

// Resistance returns the attenuation for a damage type.
func (e *EnemyComponent) Resistance(t DamageType) float64 {
	switch t {
	case DamagePhysical:
		return e.Resistances.Physical
	case DamageMagical:
		return e.Resistances.Magical
	default:
		return 0
	}
}

// AttacksTowers reports whether the unit damages towers while walking.
func (e *EnemyComponent) AttacksTowers() bool {
	return e.Melee || e.TowerDPS > 0 || e.Kamikaze
}
