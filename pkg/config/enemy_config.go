package config

import (
	"errors"
	"fmt"

	"github.com/decker502/towers/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ErrUnknownEnemy is returned when level or enemy data references an
// undefined enemy type.
var ErrUnknownEnemy = errors.New("unknown enemy type")

// Boss ability names.
const (
	AbilitySlam = "slam"
	AbilityBeam = "beam"
	AbilityCone = "cone"
)

// Resistances attenuates incoming damage by type. Values lie in [0,1).
type Resistances struct {
	Physical float64 `yaml:"physical"`
	Magical  float64 `yaml:"magical"`
}

// BossAbilityDef describes the periodic special attack of a boss.
type BossAbilityDef struct {
	Kind         string  `yaml:"kind"` // slam | beam | cone
	IntervalMs   float64 `yaml:"intervalMs"`
	Damage       int     `yaml:"damage"`
	Radius       float64 `yaml:"radius"`       // slam radius, beam range or cone length
	HalfAngleDeg float64 `yaml:"halfAngleDeg"` // cone only
}

// EnemyDef is the stat table for one enemy type.
type EnemyDef struct {
	Name          string          `yaml:"name"`
	HP            int             `yaml:"hp"`
	Speed         float64         `yaml:"speed"` // px per second
	Reward        int             `yaml:"reward"`
	ContactDamage int             `yaml:"contactDamage"` // lives lost on leak
	BlastDamage   int             `yaml:"blastDamage"`   // kamikaze tower damage
	Resistances   Resistances     `yaml:"resistances"`
	Flying        bool            `yaml:"flying"`
	Melee         bool            `yaml:"melee"`
	Boss          bool            `yaml:"boss"`
	Kamikaze      bool            `yaml:"kamikaze"`
	Splits        int             `yaml:"splits"`
	SplitInto     string          `yaml:"splitInto"`
	RegenPerSec   float64         `yaml:"regenPerSec"`
	TowerDPS      float64         `yaml:"towerDps"`
	Ability       *BossAbilityDef `yaml:"ability"`
}

// EnemiesConfig is the layout of data/enemies.yaml.
type EnemiesConfig struct {
	Enemies map[string]*EnemyDef `yaml:"enemies"`
}

// Get returns the definition of an enemy type.
func (c *EnemiesConfig) Get(typeID string) (*EnemyDef, bool) {
	def, ok := c.Enemies[typeID]
	return def, ok
}

// LoadEnemies reads and validates an enemy definition file.
func LoadEnemies(path string) (*EnemiesConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read enemy file %s: %w", path, err)
	}
	cfg, err := ParseEnemies(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseEnemies decodes enemy definitions from YAML.
func ParseEnemies(data []byte) (*EnemiesConfig, error) {
	var cfg EnemiesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse enemy YAML: %w", err)
	}
	for _, def := range cfg.Enemies {
		if def.Ability != nil && def.Ability.HalfAngleDeg == 0 {
			def.Ability.HalfAngleDeg = 30
		}
	}
	if err := validateEnemyDefs(&cfg); err != nil {
		return nil, fmt.Errorf("invalid enemy config: %w", err)
	}
	return &cfg, nil
}

func validateEnemyDefs(cfg *EnemiesConfig) error {
	if len(cfg.Enemies) == 0 {
		return fmt.Errorf("at least one enemy type is required")
	}
	for id, def := range cfg.Enemies {
		if def.HP <= 0 {
			return fmt.Errorf("enemy %s: hp must be positive, got %d", id, def.HP)
		}
		if def.Speed <= 0 {
			return fmt.Errorf("enemy %s: speed must be positive, got %v", id, def.Speed)
		}
		if def.Reward < 0 || def.ContactDamage < 0 || def.BlastDamage < 0 {
			return fmt.Errorf("enemy %s: reward, contactDamage and blastDamage cannot be negative", id)
		}
		if def.Kamikaze && def.BlastDamage == 0 {
			return fmt.Errorf("enemy %s: kamikaze units need blastDamage", id)
		}
		for name, r := range map[string]float64{"physical": def.Resistances.Physical, "magical": def.Resistances.Magical} {
			if r < 0 || r >= 1 {
				return fmt.Errorf("enemy %s: %s resistance must be in [0,1), got %v", id, name, r)
			}
		}
		if def.Splits < 0 {
			return fmt.Errorf("enemy %s: splits cannot be negative", id)
		}
		if def.Splits > 0 {
			child, ok := cfg.Enemies[def.SplitInto]
			if !ok {
				return fmt.Errorf("enemy %s splits into %q: %w", id, def.SplitInto, ErrUnknownEnemy)
			}
			if child.Splits > 0 {
				return fmt.Errorf("enemy %s: split child %s must not split again", id, def.SplitInto)
			}
		}
		if def.Ability != nil {
			switch def.Ability.Kind {
			case AbilitySlam, AbilityBeam, AbilityCone:
			default:
				return fmt.Errorf("enemy %s: unknown ability %q", id, def.Ability.Kind)
			}
			if def.Ability.IntervalMs <= 0 || def.Ability.Radius <= 0 {
				return fmt.Errorf("enemy %s: ability needs positive intervalMs and radius", id)
			}
		}
	}
	return nil
}
