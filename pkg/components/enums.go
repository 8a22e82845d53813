package components

import (
	"fmt"

	"github.com/decker502/towers/pkg/config"
)

// TowerKind selects the firing pattern of a tower.
type TowerKind int

const (
	TowerProjectile TowerKind = iota // one projectile per shot
	TowerStacking                    // damage multiplied by consecutive hits on one target
	TowerChain                       // instant chain lightning
)

// ParseTowerKind maps a config kind name to TowerKind.
func ParseTowerKind(s string) (TowerKind, error) {
	switch s {
	case config.TowerKindProjectile, "":
		return TowerProjectile, nil
	case config.TowerKindStacking:
		return TowerStacking, nil
	case config.TowerKindChain:
		return TowerChain, nil
	}
	return 0, fmt.Errorf("unknown tower kind %q", s)
}

func (k TowerKind) String() string {
	switch k {
	case TowerStacking:
		return config.TowerKindStacking
	case TowerChain:
		return config.TowerKindChain
	default:
		return config.TowerKindProjectile
	}
}

// TargetMode is the acquisition priority of a tower.
type TargetMode int

const (
	TargetFirst  TargetMode = iota // furthest along the path
	TargetStrong                   // highest max hp, then hp
	TargetWeak                     // lowest hp
	TargetClose                    // nearest
)

// ParseTargetMode maps a mode name to TargetMode.
func ParseTargetMode(s string) (TargetMode, bool) {
	switch s {
	case "first":
		return TargetFirst, true
	case "strong":
		return TargetStrong, true
	case "weak":
		return TargetWeak, true
	case "close":
		return TargetClose, true
	}
	return TargetFirst, false
}

func (m TargetMode) String() string {
	switch m {
	case TargetStrong:
		return "strong"
	case TargetWeak:
		return "weak"
	case TargetClose:
		return "close"
	default:
		return "first"
	}
}

// DamageType selects which resistance attenuates a hit.
type DamageType int

const (
	DamagePhysical DamageType = iota
	DamageMagical
	DamagePure // ignores resistances
)

// ParseDamageType maps a config damage type to DamageType.
func ParseDamageType(s string) (DamageType, error) {
	switch s {
	case config.DamagePhysical, "":
		return DamagePhysical, nil
	case config.DamageMagical:
		return DamageMagical, nil
	case config.DamagePure:
		return DamagePure, nil
	}
	return 0, fmt.Errorf("unknown damage type %q", s)
}

func (d DamageType) String() string {
	switch d {
	case DamageMagical:
		return config.DamageMagical
	case DamagePure:
		return config.DamagePure
	default:
		return config.DamagePhysical
	}
}

// Trajectory is the flight model of a projectile.
type Trajectory int

const (
	TrajectoryStraight Trajectory = iota // homing
	TrajectoryArc                        // committed to the launch point
)

// ParseTrajectory maps a config trajectory to Trajectory.
func ParseTrajectory(s string) Trajectory {
	if s == config.TrajectoryArc {
		return TrajectoryArc
	}
	return TrajectoryStraight
}

func (t Trajectory) String() string {
	if t == TrajectoryArc {
		return config.TrajectoryArc
	}
	return config.TrajectoryStraight
}

// BossAbility is the special attack carried by a boss.
type BossAbility int

const (
	AbilityNone BossAbility = iota
	AbilitySlam
	AbilityBeam
	AbilityCone
)

// ParseBossAbility maps a config ability kind to BossAbility.
func ParseBossAbility(s string) BossAbility {
	switch s {
	case config.AbilitySlam:
		return AbilitySlam
	case config.AbilityBeam:
		return AbilityBeam
	case config.AbilityCone:
		return AbilityCone
	}
	return AbilityNone
}

func (a BossAbility) String() string {
	switch a {
	case AbilitySlam:
		return config.AbilitySlam
	case AbilityBeam:
		return config.AbilityBeam
	case AbilityCone:
		return config.AbilityCone
	default:
		return "none"
	}
}

// DeployableKind is a player weapon.
type DeployableKind int

const (
	DeployMine DeployableKind = iota
	DeployGas
	DeployKeg
)

// ParseDeployableKind maps a weapon name to DeployableKind.
func ParseDeployableKind(s string) (DeployableKind, bool) {
	switch s {
	case "mine":
		return DeployMine, true
	case "gas":
		return DeployGas, true
	case "keg":
		return DeployKeg, true
	}
	return 0, false
}

func (k DeployableKind) String() string {
	switch k {
	case DeployGas:
		return "gas"
	case DeployKeg:
		return "keg"
	default:
		return "mine"
	}
}

// FeatureKind is a static map feature derived from the grid.
type FeatureKind int

const (
	FeatureRuneDamage FeatureKind = iota
	FeatureRuneSpeed
	FeatureRuneRange
	FeatureDeposit
	FeatureChest
)

func (k FeatureKind) String() string {
	switch k {
	case FeatureRuneDamage:
		return "runeDamage"
	case FeatureRuneSpeed:
		return "runeSpeed"
	case FeatureRuneRange:
		return "runeRange"
	case FeatureDeposit:
		return "goldDeposit"
	default:
		return "chest"
	}
}

// IsRune reports whether the feature is a rune tile.
func (k FeatureKind) IsRune() bool {
	return k <= FeatureRuneRange
}
