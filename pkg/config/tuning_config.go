package config

import (
	"fmt"

	"github.com/decker502/towers/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ComboTuning controls the kill-streak bonus.
type ComboTuning struct {
	WindowMs    float64 `yaml:"windowMs"`
	Max         int     `yaml:"max"`
	Threshold   int     `yaml:"threshold"`
	BonusFactor float64 `yaml:"bonusFactor"`
}

// GemTuning controls enemy gem drops.
type GemTuning struct {
	BaseChance      float64 `yaml:"baseChance"`
	ChancePerReward float64 `yaml:"chancePerReward"`
	RewardPerGem    int     `yaml:"rewardPerGem"`
	PickupWindowMs  float64 `yaml:"pickupWindowMs"`
}

// ChainTuning controls storm tower chain lightning.
type ChainTuning struct {
	Radius      float64 `yaml:"radius"`
	RangeFactor float64 `yaml:"rangeFactor"`
	Decay       float64 `yaml:"decay"`
	MaxLinks    int     `yaml:"maxLinks"`
}

// ContactTuning controls enemies that attack towers.
type ContactTuning struct {
	MeleeRange        float64 `yaml:"meleeRange"`
	RangedAttackRange float64 `yaml:"rangedAttackRange"`
}

// RuneMultipliers are applied to towers adjacent to a rune tile.
type RuneMultipliers struct {
	Damage float64 `yaml:"damage"`
	Speed  float64 `yaml:"speed"` // fire interval is divided by this
	Range  float64 `yaml:"range"`
}

// DepositConfig is the periodic income of a gold deposit with an adjacent tower.
type DepositConfig struct {
	Income     int     `yaml:"income"`
	IntervalMs float64 `yaml:"intervalMs"`
}

// BlastTuning is shared by mines and powder kegs.
type BlastTuning struct {
	TriggerRadius float64 `yaml:"triggerRadius"` // mines only
	Radius        float64 `yaml:"radius"`
	Damage        float64 `yaml:"damage"`
	DamageType    string  `yaml:"damageType"`
}

// GasTuning controls gas clouds.
type GasTuning struct {
	Radius     float64 `yaml:"radius"`
	DPS        float64 `yaml:"dps"`
	SlowFactor float64 `yaml:"slowFactor"`
	SlowMs     float64 `yaml:"slowMs"`
	LifetimeMs float64 `yaml:"lifetimeMs"`
	PulseMs    float64 `yaml:"pulseMs"`
	DamageType string  `yaml:"damageType"`
}

// EndlessTuning controls procedural wave generation.
type EndlessTuning struct {
	HPPerWave     float64  `yaml:"hpPerWave"`
	SpeedPerWave  float64  `yaml:"speedPerWave"`
	SpeedCap      float64  `yaml:"speedCap"`
	RewardPerWave float64  `yaml:"rewardPerWave"`
	BaseCount     int      `yaml:"baseCount"`
	MaxGroups     int      `yaml:"maxGroups"`
	IntervalMs    float64  `yaml:"intervalMs"`
	BossEvery     int      `yaml:"bossEvery"`
	BossRoster    []string `yaml:"bossRoster"`
}

// DifficultyPreset scales a level at start.
type DifficultyPreset struct {
	GoldMult       float64 `yaml:"goldMult"`
	LivesMult      float64 `yaml:"livesMult"`
	EnemyHPMult    float64 `yaml:"enemyHpMult"`
	EnemySpeedMult float64 `yaml:"enemySpeedMult"`
	GemMult        float64 `yaml:"gemMult"`
}

// StarTuning maps the remaining lives ratio to a star rating.
type StarTuning struct {
	ThreeStarRatio float64 `yaml:"threeStarRatio"`
	TwoStarRatio   float64 `yaml:"twoStarRatio"`
}

// Tuning holds every global constant of the simulation.
// Times are milliseconds, distances pixels, speeds pixels per second.
type Tuning struct {
	TileSize              float64 `yaml:"tileSize"`
	MaxFrameDeltaMs       float64 `yaml:"maxFrameDeltaMs"`
	SellRefundRate        float64 `yaml:"sellRefundRate"`
	RepairCostPerHP       float64 `yaml:"repairCostPerHp"`
	ProjectileSpeed       float64 `yaml:"projectileSpeed"`
	ArcProjectileSpeed    float64 `yaml:"arcProjectileSpeed"`
	ArcHeight             float64 `yaml:"arcHeight"`
	MinHitDistance        float64 `yaml:"minHitDistance"`
	WaypointReachDistance float64 `yaml:"waypointReachDistance"`
	GroupStaggerMs        float64 `yaml:"groupStaggerMs"`
	WaveHealFraction      float64 `yaml:"waveHealFraction"`
	MenuAutoCloseMs       float64 `yaml:"menuAutoCloseMs"`
	ChestGold             int     `yaml:"chestGold"`

	Combo   ComboTuning     `yaml:"combo"`
	Gems    GemTuning       `yaml:"gems"`
	Chain   ChainTuning     `yaml:"chain"`
	Contact ContactTuning   `yaml:"contact"`
	Runes   RuneMultipliers `yaml:"runes"`
	Deposit DepositConfig   `yaml:"deposit"`
	Mine    BlastTuning     `yaml:"mine"`
	Keg     BlastTuning     `yaml:"keg"`
	Gas     GasTuning       `yaml:"gas"`
	Charges map[string]int  `yaml:"charges"` // mine | gas | keg

	Endless      EndlessTuning               `yaml:"endless"`
	Difficulties map[string]DifficultyPreset `yaml:"difficulties"`
	Stars        StarTuning                  `yaml:"stars"`
}

// DefaultTuning returns the built-in constants. LoadTuning decodes on top of
// these, so a tuning file only has to list what it changes.
func DefaultTuning() *Tuning {
	return &Tuning{
		TileSize:              64,
		MaxFrameDeltaMs:       250,
		SellRefundRate:        0.7,
		RepairCostPerHP:       0.5,
		ProjectileSpeed:       400,
		ArcProjectileSpeed:    300,
		ArcHeight:             48,
		MinHitDistance:        10,
		WaypointReachDistance: 5,
		GroupStaggerMs:        1000,
		WaveHealFraction:      0.2,
		MenuAutoCloseMs:       5000,
		ChestGold:             75,

		Combo:   ComboTuning{WindowMs: 2000, Max: 10, Threshold: 3, BonusFactor: 0.1},
		Gems:    GemTuning{BaseChance: 0.05, ChancePerReward: 0.002, RewardPerGem: 25, PickupWindowMs: 3000},
		Chain:   ChainTuning{Radius: 96, RangeFactor: 1.5, Decay: 0.8, MaxLinks: 4},
		Contact: ContactTuning{MeleeRange: 40, RangedAttackRange: 128},
		Runes:   RuneMultipliers{Damage: 2.0, Speed: 2.0, Range: 1.5},
		Deposit: DepositConfig{Income: 10, IntervalMs: 5000},
		Mine:    BlastTuning{TriggerRadius: 24, Radius: 64, Damage: 120, DamageType: DamagePhysical},
		Keg:     BlastTuning{Radius: 96, Damage: 200, DamageType: DamagePhysical},
		Gas: GasTuning{
			Radius: 80, DPS: 20, SlowFactor: 0.6, SlowMs: 500,
			LifetimeMs: 5000, PulseMs: 250, DamageType: DamageMagical,
		},
		Charges: map[string]int{"mine": 2, "gas": 1, "keg": 1},

		Endless: EndlessTuning{
			HPPerWave: 0.08, SpeedPerWave: 0.08, SpeedCap: 1.5, RewardPerWave: 0.05,
			BaseCount: 4, MaxGroups: 4, IntervalMs: 900, BossEvery: 5,
			BossRoster: []string{"troll_king", "warlock", "dragon"},
		},
		Difficulties: map[string]DifficultyPreset{
			"easy":      {GoldMult: 1.25, LivesMult: 1.5, EnemyHPMult: 0.8, EnemySpeedMult: 0.9, GemMult: 0.75},
			"normal":    {GoldMult: 1, LivesMult: 1, EnemyHPMult: 1, EnemySpeedMult: 1, GemMult: 1},
			"hard":      {GoldMult: 0.9, LivesMult: 0.75, EnemyHPMult: 1.3, EnemySpeedMult: 1.1, GemMult: 1.5},
			"nightmare": {GoldMult: 0.8, LivesMult: 0.5, EnemyHPMult: 1.7, EnemySpeedMult: 1.2, GemMult: 2.0},
		},
		Stars: StarTuning{ThreeStarRatio: 0.9, TwoStarRatio: 0.5},
	}
}

// LoadTuning reads a tuning file over DefaultTuning.
func LoadTuning(path string) (*Tuning, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file %s: %w", path, err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseTuning decodes YAML over DefaultTuning and validates the result.
func ParseTuning(data []byte) (*Tuning, error) {
	t := DefaultTuning()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse tuning YAML: %w", err)
	}
	if err := validateTuning(t); err != nil {
		return nil, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

// Difficulty returns a preset by name. Unknown names resolve to "normal".
func (t *Tuning) Difficulty(name string) (DifficultyPreset, bool) {
	if p, ok := t.Difficulties[name]; ok {
		return p, true
	}
	return DifficultyPreset{GoldMult: 1, LivesMult: 1, EnemyHPMult: 1, EnemySpeedMult: 1, GemMult: 1}, false
}

func validateTuning(t *Tuning) error {
	if t.TileSize <= 0 {
		return fmt.Errorf("tileSize must be positive")
	}
	if t.SellRefundRate < 0 || t.SellRefundRate > 1 {
		return fmt.Errorf("sellRefundRate must be in [0,1], got %v", t.SellRefundRate)
	}
	if t.ProjectileSpeed <= 0 || t.ArcProjectileSpeed <= 0 {
		return fmt.Errorf("projectile speeds must be positive")
	}
	if t.Combo.WindowMs <= 0 || t.Combo.Max < 1 {
		return fmt.Errorf("combo window and max must be positive")
	}
	if t.Chain.Decay <= 0 || t.Chain.Decay >= 1 {
		return fmt.Errorf("chain decay must be in (0,1), got %v", t.Chain.Decay)
	}
	if t.Gas.PulseMs <= 0 || t.Gas.LifetimeMs <= 0 {
		return fmt.Errorf("gas pulseMs and lifetimeMs must be positive")
	}
	for _, dt := range []string{t.Mine.DamageType, t.Keg.DamageType, t.Gas.DamageType} {
		if err := validateDamageType(dt); err != nil {
			return fmt.Errorf("deployable: %w", err)
		}
	}
	if t.Endless.BossEvery <= 0 || t.Endless.MaxGroups <= 0 {
		return fmt.Errorf("endless bossEvery and maxGroups must be positive")
	}
	if len(t.Endless.BossRoster) == 0 {
		return fmt.Errorf("endless bossRoster cannot be empty")
	}
	if _, ok := t.Difficulties["normal"]; !ok {
		return fmt.Errorf("difficulty preset \"normal\" is required")
	}
	for name, p := range t.Difficulties {
		if p.GoldMult <= 0 || p.LivesMult <= 0 || p.EnemyHPMult <= 0 || p.EnemySpeedMult <= 0 || p.GemMult < 0 {
			return fmt.Errorf("difficulty %s: multipliers must be positive", name)
		}
	}
	return nil
}
