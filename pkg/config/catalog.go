package config

import (
	"fmt"
	"log"
	"sort"

	"github.com/decker502/towers/pkg/embedded"
)

// Default data locations inside the embedded filesystem.
const (
	TowersPath   = "data/towers.yaml"
	EnemiesPath  = "data/enemies.yaml"
	TuningPath   = "data/tuning.yaml"
	UpgradesPath = "data/upgrades.yaml"
	LevelsGlob   = "data/levels/*.yaml"
)

// Catalog bundles every definition a simulation needs.
type Catalog struct {
	Towers   *TowersConfig
	Enemies  *EnemiesConfig
	Tuning   *Tuning
	Upgrades *UpgradesConfig
	Levels   []*LevelConfig // sorted by Index
}

// LoadCatalog loads all data files from the embedded filesystem and
// cross-checks the references between them.
func LoadCatalog() (*Catalog, error) {
	towers, err := LoadTowers(TowersPath)
	if err != nil {
		return nil, err
	}
	enemies, err := LoadEnemies(EnemiesPath)
	if err != nil {
		return nil, err
	}
	tuning, err := LoadTuning(TuningPath)
	if err != nil {
		return nil, err
	}
	upgrades, err := LoadUpgrades(UpgradesPath)
	if err != nil {
		return nil, err
	}

	files, err := embedded.Glob(LevelsGlob)
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	levels := make([]*LevelConfig, 0, len(files))
	for _, f := range files {
		lvl, err := LoadLevelConfig(f)
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Index < levels[j].Index })

	c := &Catalog{Towers: towers, Enemies: enemies, Tuning: tuning, Upgrades: upgrades, Levels: levels}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	log.Printf("[Config] Loaded %d towers, %d enemies, %d levels", len(towers.Towers), len(enemies.Enemies), len(levels))
	return c, nil
}

// Level returns the level with the given index.
func (c *Catalog) Level(index int) (*LevelConfig, bool) {
	for _, l := range c.Levels {
		if l.Index == index {
			return l, true
		}
	}
	return nil, false
}

// Validate checks that every tower and enemy id referenced by levels and
// tuning is defined.
func (c *Catalog) Validate() error {
	for _, id := range c.Tuning.Endless.BossRoster {
		if _, ok := c.Enemies.Get(id); !ok {
			return fmt.Errorf("endless boss roster %q: %w", id, ErrUnknownEnemy)
		}
	}
	for _, l := range c.Levels {
		if err := c.ValidateLevel(l); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLevel checks one level against the tower and enemy tables.
func (c *Catalog) ValidateLevel(l *LevelConfig) error {
	for _, id := range l.AvailableTowers {
		if _, ok := c.Towers.Get(id); !ok {
			return fmt.Errorf("level %d tower %q: %w", l.Index, id, ErrUnknownTower)
		}
	}
	for i, w := range l.Waves {
		for _, g := range w.Groups {
			if _, ok := c.Enemies.Get(g.Type); !ok {
				return fmt.Errorf("level %d wave %d type %q: %w", l.Index, i, g.Type, ErrUnknownEnemy)
			}
		}
	}
	for _, p := range l.Endless.Pool {
		if _, ok := c.Enemies.Get(p.Type); !ok {
			return fmt.Errorf("level %d endless pool %q: %w", l.Index, p.Type, ErrUnknownEnemy)
		}
	}
	return nil
}

// RunesFor returns the rune multipliers in effect for a level.
func (c *Catalog) RunesFor(l *LevelConfig) RuneMultipliers {
	if l.Runes != nil {
		return *l.Runes
	}
	return c.Tuning.Runes
}

// DepositFor returns the deposit income in effect for a level.
func (c *Catalog) DepositFor(l *LevelConfig) DepositConfig {
	if l.Deposit != nil {
		return *l.Deposit
	}
	return c.Tuning.Deposit
}

// TowerAvailable reports whether a tower type may be built on a level.
func (c *Catalog) TowerAvailable(l *LevelConfig, typeID string) bool {
	if _, ok := c.Towers.Get(typeID); !ok {
		return false
	}
	if len(l.AvailableTowers) == 0 {
		return true
	}
	for _, id := range l.AvailableTowers {
		if id == typeID {
			return true
		}
	}
	return false
}

// TowersFor lists the tower types a level allows, cheapest first.
func (c *Catalog) TowersFor(l *LevelConfig) []string {
	var ids []string
	for id := range c.Towers.Towers {
		if c.TowerAvailable(l, id) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := c.Towers.Towers[ids[i]].Cost, c.Towers.Towers[ids[j]].Cost
		if a != b {
			return a < b
		}
		return ids[i] < ids[j]
	})
	return ids
}
