package config

import (
	"errors"
	"fmt"

	"github.com/decker502/towers/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ErrUnknownTower is returned when level data references an undefined tower type.
var ErrUnknownTower = errors.New("unknown tower type")

// Tower firing patterns.
const (
	TowerKindProjectile = "projectile"
	TowerKindStacking   = "stacking"
	TowerKindChain      = "chain"
)

// Damage type tags shared by towers, deployables and enemy resistances.
const (
	DamagePhysical = "physical"
	DamageMagical  = "magical"
	DamagePure     = "pure"
)

// Projectile trajectories.
const (
	TrajectoryStraight = "straight"
	TrajectoryArc      = "arc"
)

// TowerTier is one authored upgrade tier. Tier 0 is the build tier and must
// set every combat stat; later tiers may omit a stat to keep the previous
// value.
type TowerTier struct {
	Cost           int      `yaml:"cost"` // ignored for tier 0, the build cost lives on TowerDef
	Damage         *float64 `yaml:"damage"`
	Range          *float64 `yaml:"range"`
	FireIntervalMs *float64 `yaml:"fireIntervalMs"`
	SplashRadius   *float64 `yaml:"splashRadius"`
	SlowFactor     *float64 `yaml:"slowFactor"`
	SlowDurationMs *float64 `yaml:"slowDurationMs"`
}

// TowerDef is the stat table for one tower type.
type TowerDef struct {
	Name         string      `yaml:"name"`
	Kind         string      `yaml:"kind"`       // projectile | stacking | chain
	DamageType   string      `yaml:"damageType"` // physical | magical | pure
	Trajectory   string      `yaml:"trajectory"` // straight | arc
	Cost         int         `yaml:"cost"`
	MaxHP        int         `yaml:"maxHp"`
	AutoHealRate float64     `yaml:"autoHealRate"` // hp per second
	MaxStacks    int         `yaml:"maxStacks"`    // stacking towers only
	Tiers        []TowerTier `yaml:"tiers"`
}

// TowerStats is the resolved stat line of a tower at one tier.
type TowerStats struct {
	Damage         float64
	Range          float64
	FireIntervalMs float64
	SplashRadius   float64
	SlowFactor     float64
	SlowDurationMs float64
}

// MaxLevel returns the highest reachable tier index.
func (d *TowerDef) MaxLevel() int {
	return len(d.Tiers) - 1
}

// UpgradeCost returns the gold needed to go from level-1 to level.
// The second result is false when the tier does not exist.
func (d *TowerDef) UpgradeCost(level int) (int, bool) {
	if level <= 0 || level >= len(d.Tiers) {
		return 0, false
	}
	return d.Tiers[level].Cost, true
}

// StatsAt folds tiers 0..level, each omitted field falling back to the
// previous tier's value.
func (d *TowerDef) StatsAt(level int) TowerStats {
	var s TowerStats
	if level >= len(d.Tiers) {
		level = len(d.Tiers) - 1
	}
	for i := 0; i <= level; i++ {
		t := d.Tiers[i]
		overlay(&s.Damage, t.Damage)
		overlay(&s.Range, t.Range)
		overlay(&s.FireIntervalMs, t.FireIntervalMs)
		overlay(&s.SplashRadius, t.SplashRadius)
		overlay(&s.SlowFactor, t.SlowFactor)
		overlay(&s.SlowDurationMs, t.SlowDurationMs)
	}
	return s
}

func overlay(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// TowersConfig is the layout of data/towers.yaml.
type TowersConfig struct {
	Towers map[string]*TowerDef `yaml:"towers"`
}

// Get returns the definition of a tower type.
func (c *TowersConfig) Get(typeID string) (*TowerDef, bool) {
	def, ok := c.Towers[typeID]
	return def, ok
}

// LoadTowers reads and validates a tower definition file.
func LoadTowers(path string) (*TowersConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tower file %s: %w", path, err)
	}
	cfg, err := ParseTowers(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseTowers decodes tower definitions from YAML.
func ParseTowers(data []byte) (*TowersConfig, error) {
	var cfg TowersConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tower YAML: %w", err)
	}
	for _, def := range cfg.Towers {
		applyTowerDefaults(def)
	}
	if err := validateTowerDefs(&cfg); err != nil {
		return nil, fmt.Errorf("invalid tower config: %w", err)
	}
	return &cfg, nil
}

func applyTowerDefaults(def *TowerDef) {
	if def.Kind == "" {
		def.Kind = TowerKindProjectile
	}
	if def.DamageType == "" {
		def.DamageType = DamagePhysical
	}
	if def.Trajectory == "" {
		def.Trajectory = TrajectoryStraight
	}
	if def.MaxHP == 0 {
		def.MaxHP = 100
	}
	if def.Kind == TowerKindStacking && def.MaxStacks == 0 {
		def.MaxStacks = 5
	}
}

func validateTowerDefs(cfg *TowersConfig) error {
	if len(cfg.Towers) == 0 {
		return fmt.Errorf("at least one tower type is required")
	}
	for id, def := range cfg.Towers {
		switch def.Kind {
		case TowerKindProjectile, TowerKindStacking, TowerKindChain:
		default:
			return fmt.Errorf("tower %s: unknown kind %q", id, def.Kind)
		}
		if err := validateDamageType(def.DamageType); err != nil {
			return fmt.Errorf("tower %s: %w", id, err)
		}
		if def.Trajectory != TrajectoryStraight && def.Trajectory != TrajectoryArc {
			return fmt.Errorf("tower %s: unknown trajectory %q", id, def.Trajectory)
		}
		if def.Cost <= 0 {
			return fmt.Errorf("tower %s: cost must be positive, got %d", id, def.Cost)
		}
		if def.MaxHP <= 0 {
			return fmt.Errorf("tower %s: maxHp must be positive, got %d", id, def.MaxHP)
		}
		if len(def.Tiers) == 0 {
			return fmt.Errorf("tower %s: at least one tier is required", id)
		}
		base := def.Tiers[0]
		if base.Damage == nil || base.Range == nil || base.FireIntervalMs == nil {
			return fmt.Errorf("tower %s: tier 0 must set damage, range and fireIntervalMs", id)
		}
		for i, tier := range def.Tiers {
			if i > 0 && tier.Cost <= 0 {
				return fmt.Errorf("tower %s: tier %d cost must be positive, got %d", id, i, tier.Cost)
			}
			if tier.FireIntervalMs != nil && *tier.FireIntervalMs <= 0 {
				return fmt.Errorf("tower %s: tier %d fireIntervalMs must be positive", id, i)
			}
			if tier.SlowFactor != nil && (*tier.SlowFactor < 0 || *tier.SlowFactor > 1) {
				return fmt.Errorf("tower %s: tier %d slowFactor must be in [0,1]", id, i)
			}
		}
	}
	return nil
}

func validateDamageType(t string) error {
	switch t {
	case DamagePhysical, DamageMagical, DamagePure:
		return nil
	}
	return fmt.Errorf("unknown damage type %q", t)
}
