package systems

import (
	"errors"
	"log"

	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
)

// Wave start rejections.
var (
	ErrWaveInProgress = errors.New("wave in progress")
	ErrNoMoreWaves    = errors.New("no more waves")
)

// WaveSystem starts waves on request, spawns their groups through the
// scheduler and detects completion.
type WaveSystem struct {
	ctx *game.Context
}

// NewWaveSystem creates a wave system.
func NewWaveSystem(ctx *game.Context) *WaveSystem {
	return &WaveSystem{ctx: ctx}
}

// StartNextWave schedules the next authored wave, or a generated one once an
// endless run has played every authored wave.
func (s *WaveSystem) StartNextWave() error {
	ctx := s.ctx
	if ctx.Phase.Ended() {
		return game.ErrRunEnded
	}
	if ctx.Phase == game.PhaseWave {
		return ErrWaveInProgress
	}

	n := ctx.Wave.Number + 1
	var (
		wave    config.WaveConfig
		scaling = entities.NoScaling
		endless bool
		boss    bool
	)
	switch {
	case n <= len(ctx.Level.Waves):
		wave = ctx.Level.Waves[n-1]
	case ctx.Endless:
		g := GenerateEndlessWave(ctx, n)
		wave, scaling, endless, boss = g.Config, g.Scaling, true, g.Boss
	default:
		return ErrNoMoreWaves
	}

	ctx.Wave = game.WaveProgress{Number: n, Scheduled: wave.TotalSpawns(), Endless: endless, Boss: boss}
	ctx.Phase = game.PhaseWave
	scale := game.ScaleForSpawn(ctx.Preset, scaling)

	for i, grp := range wave.Groups {
		start := float64(i) * ctx.Tuning.GroupStaggerMs
		for k := 0; k < grp.Count; k++ {
			typeID := grp.Type
			ctx.Scheduler.After(start+float64(k)*grp.IntervalMs, func() {
				s.spawn(n, typeID, scale)
			})
		}
	}

	log.Printf("[WaveSystem] Wave %d started: %d units in %d groups (endless=%v)", n, ctx.Wave.Scheduled, len(wave.Groups), endless)
	ctx.Emit(event.Event{Type: event.WaveStarted, Amount: float64(n), Kind: waveKind(endless, boss)})
	return nil
}

// spawn places one unit at the route start. Spawns of a wave that is no
// longer current are dropped.
func (s *WaveSystem) spawn(waveNumber int, typeID string, scale entities.EnemyScaling) {
	ctx := s.ctx
	if ctx.Phase != game.PhaseWave || ctx.Wave.Number != waveNumber {
		return
	}
	ctx.Wave.Spawned++

	def, ok := ctx.Catalog.Enemies.Get(typeID)
	if !ok {
		log.Printf("[WaveSystem] Unknown enemy type %q", typeID)
		return
	}
	start := ctx.Route.Waypoints[0]
	next := 1
	if ctx.Route.Len() < 2 {
		next = 0
	}
	id, err := entities.NewEnemy(ctx.EM, typeID, def, scale, entities.SpawnPoint{X: start.X, Y: start.Y, WaypointIndex: next, Wave: waveNumber})
	if err != nil {
		log.Printf("[WaveSystem] Failed to spawn %s: %v", typeID, err)
		return
	}
	ctx.Emit(event.Event{Type: event.EnemySpawned, Target: uint64(id), Kind: typeID, X: start.X, Y: start.Y})
}

// Update completes the current wave once every unit has spawned and none is
// left alive.
func (s *WaveSystem) Update(dtMs float64) {
	ctx := s.ctx
	if ctx.Phase != game.PhaseWave {
		return
	}
	if ctx.Wave.Spawned < ctx.Wave.Scheduled || game.LiveEnemyCount(ctx.EM) > 0 {
		return
	}

	bonus := ctx.Level.WaveBonus + ctx.Boosts.WaveGold
	ctx.EarnGold(bonus, "wave")
	HealAllTowers(ctx, ctx.Tuning.WaveHealFraction)
	ctx.Stats.WavesCleared++
	ctx.Emit(event.Event{Type: event.WaveCompleted, Amount: float64(ctx.Wave.Number)})
	log.Printf("[WaveSystem] Wave %d cleared, bonus %d", ctx.Wave.Number, bonus)

	if !ctx.Endless && ctx.Wave.Number >= len(ctx.Level.Waves) {
		ctx.Phase = game.PhaseWon
		log.Printf("[WaveSystem] Level %d won with %d lives", ctx.Level.Index, ctx.Ledger.Lives())
		ctx.Emit(event.Event{Type: event.LevelWon, Amount: float64(ctx.Ledger.Lives())})
		return
	}
	ctx.Phase = game.PhaseBuilding
}

// HasNextWave reports whether StartNextWave can schedule another wave.
func (s *WaveSystem) HasNextWave() bool {
	return !s.ctx.Phase.Ended() && (s.ctx.Endless || s.ctx.Wave.Number < len(s.ctx.Level.Waves))
}

func waveKind(endless, boss bool) string {
	switch {
	case boss:
		return "boss"
	case endless:
		return "endless"
	default:
		return "authored"
	}
}
