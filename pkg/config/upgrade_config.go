package config

import (
	"fmt"

	"github.com/decker502/towers/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// Meta-upgrade identifiers bought with gems in the shop.
const (
	UpgradeGoldStart     = "goldStartBoost"
	UpgradeGoldWave      = "goldWaveBoost"
	UpgradeBaseHealth    = "baseHealthBoost"
	UpgradeTowerDamage   = "towerDamageBoost"
	UpgradeTowerFireRate = "towerFireRateBoost"
	UpgradeTowerRange    = "towerRangeBoost"
	UpgradeTowerAoe      = "towerAoeBoost"
	UpgradeTowerIcy      = "towerIcyBoost"
	UpgradeTowerHealth   = "towerHealthBoost"
	UpgradeTowerAutoHeal = "towerAutoHealBoost"
	UpgradeMine          = "mineBoost"
	UpgradePowderKeg     = "powderKegBoost"
	UpgradeGasCloud      = "gasCloudBoost"
)

// UpgradeDef is one entry of the gem shop.
type UpgradeDef struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	BaseCost      int     `yaml:"baseCost"`
	CostIncrement int     `yaml:"costIncrement"`
	MaxLevel      int     `yaml:"maxLevel"`
	PerLevel      float64 `yaml:"perLevel"` // flat amount or fraction, see the upgrade's consumer
}

// Cost returns the gem price of buying the next level when the current
// level is `level`.
func (u *UpgradeDef) Cost(level int) int {
	return u.BaseCost + u.CostIncrement*level
}

// UpgradesConfig is the layout of data/upgrades.yaml.
type UpgradesConfig struct {
	Upgrades []*UpgradeDef `yaml:"upgrades"`
}

// Get returns an upgrade by id.
func (c *UpgradesConfig) Get(id string) (*UpgradeDef, bool) {
	for _, u := range c.Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// LoadUpgrades reads and validates the shop definitions.
func LoadUpgrades(path string) (*UpgradesConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upgrades file %s: %w", path, err)
	}
	var cfg UpgradesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse upgrades YAML from %s: %w", path, err)
	}
	if err := validateUpgrades(&cfg); err != nil {
		return nil, fmt.Errorf("invalid upgrades in %s: %w", path, err)
	}
	return &cfg, nil
}

func validateUpgrades(cfg *UpgradesConfig) error {
	seen := make(map[string]bool, len(cfg.Upgrades))
	for _, u := range cfg.Upgrades {
		if u.ID == "" {
			return fmt.Errorf("upgrade id is required")
		}
		if seen[u.ID] {
			return fmt.Errorf("duplicate upgrade %s", u.ID)
		}
		seen[u.ID] = true
		if u.BaseCost <= 0 || u.CostIncrement < 0 {
			return fmt.Errorf("upgrade %s: baseCost must be positive and costIncrement non-negative", u.ID)
		}
		if u.MaxLevel <= 0 {
			return fmt.Errorf("upgrade %s: maxLevel must be positive", u.ID)
		}
	}
	return nil
}
