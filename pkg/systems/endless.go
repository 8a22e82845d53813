package systems

import (
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/utils"
)

// GeneratedWave is a procedurally built wave with its stat scaling.
type GeneratedWave struct {
	Config  config.WaveConfig
	Scaling entities.EnemyScaling
	Boss    bool
}

// GenerateEndlessWave builds wave n of an endless run. Group count grows
// every three waves up to the tuning cap, units per group grow by one per
// wave, and types are drawn from the level's weighted pool with the run's
// PRNG. Every bossEvery-th wave adds a boss group from the roster; after
// the roster is exhausted its last boss repeats in growing numbers.
func GenerateEndlessWave(ctx *game.Context, n int) GeneratedWave {
	t := ctx.Tuning.Endless
	pool := endlessPool(ctx.Level)

	groups := 1 + n/3
	if groups > t.MaxGroups {
		groups = t.MaxGroups
	}
	count := t.BaseCount + n

	var wave config.WaveConfig
	for i := 0; i < groups; i++ {
		wave.Groups = append(wave.Groups, config.GroupConfig{
			Type:       ctx.RNG.ChooseWeighted(pool),
			Count:      count,
			IntervalMs: t.IntervalMs,
		})
	}

	boss := false
	if t.BossEvery > 0 && n%t.BossEvery == 0 && len(t.BossRoster) > 0 {
		k := n / t.BossEvery
		idx := k - 1
		if idx >= len(t.BossRoster) {
			idx = len(t.BossRoster) - 1
		}
		wave.Groups = append(wave.Groups, config.GroupConfig{
			Type:       t.BossRoster[idx],
			Count:      1 + (k-1)/len(t.BossRoster),
			IntervalMs: t.IntervalMs * 2,
		})
		boss = true
	}

	return GeneratedWave{Config: wave, Scaling: game.EndlessScaling(n, t), Boss: boss}
}

// endlessPool returns the level's spawn pool, or every type its authored
// waves use when it has none.
func endlessPool(level *config.LevelConfig) []utils.Weighted {
	var pool []utils.Weighted
	for _, w := range level.Endless.Pool {
		pool = append(pool, utils.Weighted{ID: w.Type, Weight: w.Weight})
	}
	if len(pool) > 0 {
		return pool
	}
	seen := map[string]bool{}
	for _, w := range level.Waves {
		for _, g := range w.Groups {
			if !seen[g.Type] {
				seen[g.Type] = true
				pool = append(pool, utils.Weighted{ID: g.Type, Weight: 1})
			}
		}
	}
	return pool
}
