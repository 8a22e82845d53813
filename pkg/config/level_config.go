package config

import (
	"fmt"

	"github.com/decker502/towers/pkg/embedded"
	"github.com/decker502/towers/pkg/grid"
	"gopkg.in/yaml.v3"
)

// Mission predicate names evaluated at level end.
const (
	MissionGoldReached   = "goldReached"   // gold ever held >= threshold
	MissionNoDeployables = "noDeployables" // no weapon charge spent
	MissionUniqueTowers  = "uniqueTowers"  // >= threshold distinct tower types built
	MissionNoTowerLost   = "noTowerLost"   // no tower destroyed by enemies
	MissionNoLeaks       = "noLeaks"       // no enemy reached the exit
	MissionMaxTowers     = "maxTowers"     // never more than threshold towers standing
)

// LevelConfig is one authored level.
type LevelConfig struct {
	Index           int              `yaml:"index"`
	Name            string           `yaml:"name"`
	StartingGold    int              `yaml:"startingGold"`
	StartingLives   int              `yaml:"startingLives"`
	WaveBonus       int              `yaml:"waveBonus"`
	TileSize        float64          `yaml:"tileSize"`
	Grid            [][]int          `yaml:"grid"`
	AvailableTowers []string         `yaml:"availableTowers"` // empty means every tower
	Runes           *RuneMultipliers `yaml:"runes"`           // overrides tuning when set
	Deposit         *DepositConfig   `yaml:"deposit"`         // overrides tuning when set
	Chests          []ChestConfig    `yaml:"chests"`
	Missions        []MissionConfig  `yaml:"missions"`
	Endless         EndlessPool      `yaml:"endless"`
	Waves           []WaveConfig     `yaml:"waves"`
}

// ChestConfig overrides the gold held by the chest at a cell.
type ChestConfig struct {
	Row  int `yaml:"row"`
	Col  int `yaml:"col"`
	Gold int `yaml:"gold"`
}

// MissionConfig is a bonus objective checked once at level end.
type MissionConfig struct {
	ID          string `yaml:"id"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Threshold   int    `yaml:"threshold"`
	RewardGems  int    `yaml:"rewardGems"`
}

// WeightedType is one entry of the endless spawn pool.
type WeightedType struct {
	Type   string `yaml:"type"`
	Weight int    `yaml:"weight"`
}

// EndlessPool lists the enemy types procedural waves draw from.
type EndlessPool struct {
	Pool []WeightedType `yaml:"pool"`
}

// WaveConfig is one scheduled batch of spawn groups.
type WaveConfig struct {
	Groups []GroupConfig `yaml:"groups"`
}

// GroupConfig spawns Count units of Type, one every IntervalMs.
type GroupConfig struct {
	Type       string  `yaml:"type"`
	Count      int     `yaml:"count"`
	IntervalMs float64 `yaml:"intervalMs"`
}

// TotalSpawns returns the number of units the wave schedules.
func (w WaveConfig) TotalSpawns() int {
	n := 0
	for _, g := range w.Groups {
		n += g.Count
	}
	return n
}

// LoadLevelConfig reads one level file and validates its structure
// including the spawn-to-exit path.
func LoadLevelConfig(path string) (*LevelConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level config file %s: %w", path, err)
	}
	cfg, err := ParseLevelConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseLevelConfig decodes and validates a level from YAML.
func ParseLevelConfig(data []byte) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse level config YAML: %w", err)
	}
	applyDefaults(&cfg)
	if err := validateLevelConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid level config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *LevelConfig) {
	if cfg.StartingGold == 0 {
		cfg.StartingGold = 200
	}
	if cfg.StartingLives == 0 {
		cfg.StartingLives = 20
	}
	if cfg.TileSize == 0 {
		cfg.TileSize = grid.DefaultTileSize
	}
	for i := range cfg.Waves {
		for j := range cfg.Waves[i].Groups {
			if cfg.Waves[i].Groups[j].IntervalMs == 0 {
				cfg.Waves[i].Groups[j].IntervalMs = 1000
			}
		}
	}
}

func validateLevelConfig(cfg *LevelConfig) error {
	if cfg.Name == "" {
		return fmt.Errorf("level name is required")
	}
	if cfg.Index < 0 {
		return fmt.Errorf("level index cannot be negative")
	}
	if cfg.StartingGold < 0 || cfg.StartingLives <= 0 {
		return fmt.Errorf("startingGold must be non-negative and startingLives positive")
	}

	g, err := grid.New(cfg.Grid, cfg.TileSize)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}
	if _, err := grid.ResolvePath(g); err != nil {
		return fmt.Errorf("path: %w", err)
	}
	for _, ch := range cfg.Chests {
		if g.At(grid.Cell{Row: ch.Row, Col: ch.Col}) != grid.Chest {
			return fmt.Errorf("chest override at (%d,%d) is not a chest cell", ch.Row, ch.Col)
		}
	}

	if len(cfg.Waves) == 0 {
		return fmt.Errorf("at least one wave is required")
	}
	for i, w := range cfg.Waves {
		if len(w.Groups) == 0 {
			return fmt.Errorf("wave %d: at least one group is required", i)
		}
		for j, grp := range w.Groups {
			if grp.Type == "" {
				return fmt.Errorf("wave %d group %d: type is required", i, j)
			}
			if grp.Count <= 0 {
				return fmt.Errorf("wave %d group %d: count must be positive", i, j)
			}
			if grp.IntervalMs < 0 {
				return fmt.Errorf("wave %d group %d: intervalMs cannot be negative", i, j)
			}
		}
	}

	for _, w := range cfg.Endless.Pool {
		if w.Weight <= 0 {
			return fmt.Errorf("endless pool entry %s: weight must be positive", w.Type)
		}
	}

	for _, m := range cfg.Missions {
		switch m.Type {
		case MissionGoldReached, MissionNoDeployables, MissionUniqueTowers,
			MissionNoTowerLost, MissionNoLeaks, MissionMaxTowers:
		default:
			return fmt.Errorf("mission %s: unknown type %q", m.ID, m.Type)
		}
		if m.ID == "" {
			return fmt.Errorf("mission id is required")
		}
	}
	return nil
}
