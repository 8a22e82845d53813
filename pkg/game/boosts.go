package game

import (
	"math"

	"github.com/decker502/towers/pkg/config"
)

// Boosts are the run-wide bonuses bought in the gem shop, resolved from
// upgrade levels at level start.
type Boosts struct {
	StartGold  int
	WaveGold   int
	BaseHealth int

	// fractions, 0.06 = +6 %
	TowerDamage   float64
	TowerFireRate float64
	TowerRange    float64
	TowerAoe      float64
	TowerIcy      float64
	TowerHealth   float64

	TowerAutoHeal float64 // extra hp per second

	MineCharges int
	KegDamage   float64 // fraction
	GasDPS      float64 // fraction
}

// BoostsFor resolves upgrade levels against the shop table. Unknown ids and
// levels above an upgrade's max contribute nothing beyond the max.
func BoostsFor(levels map[string]int, shop *config.UpgradesConfig) Boosts {
	var b Boosts
	if shop == nil {
		return b
	}
	amount := func(id string) float64 {
		u, ok := shop.Get(id)
		if !ok {
			return 0
		}
		lvl := levels[id]
		if lvl > u.MaxLevel {
			lvl = u.MaxLevel
		}
		if lvl < 0 {
			lvl = 0
		}
		return float64(lvl) * u.PerLevel
	}
	whole := func(id string) int { return int(math.Round(amount(id))) }

	b.StartGold = whole(config.UpgradeGoldStart)
	b.WaveGold = whole(config.UpgradeGoldWave)
	b.BaseHealth = whole(config.UpgradeBaseHealth)
	b.TowerDamage = amount(config.UpgradeTowerDamage)
	b.TowerFireRate = amount(config.UpgradeTowerFireRate)
	b.TowerRange = amount(config.UpgradeTowerRange)
	b.TowerAoe = amount(config.UpgradeTowerAoe)
	b.TowerIcy = amount(config.UpgradeTowerIcy)
	b.TowerHealth = amount(config.UpgradeTowerHealth)
	b.TowerAutoHeal = amount(config.UpgradeTowerAutoHeal)
	b.MineCharges = whole(config.UpgradeMine)
	b.KegDamage = amount(config.UpgradePowderKeg)
	b.GasDPS = amount(config.UpgradeGasCloud)
	return b
}
