// Package engine drives one level run. A Simulation owns the run context and
// its systems, accepts player intents, advances in fixed component order on
// every Tick and publishes snapshots and events for collaborators.
package engine

import (
	"errors"
	"fmt"
	"log"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/systems"
)

// ErrUnknownLevel is returned when the catalog has no level at the index.
var ErrUnknownLevel = errors.New("unknown level")

// Game speed multipliers accepted by set-game-speed.
const (
	MinSpeed = 1
	MaxSpeed = 3
)

// Options configures a new simulation.
type Options struct {
	Difficulty string
	Endless    bool
	Seed       int64
	// Profiles supplies shop upgrades at start and receives the level result.
	// Nil runs without progression.
	Profiles *game.ProfileManager
}

// updater is one per-tick system.
type updater interface {
	Update(dtMs float64)
}

// Simulation is a single level run.
type Simulation struct {
	ctx      *game.Context
	profiles *game.ProfileManager

	waves   *systems.WaveSystem
	systems []updater

	recorder *event.Recorder

	speed        int
	paused       bool
	closed       bool
	selectedType string
	menuTower    ecs.EntityID
	menuTimer    game.TimerID

	result *game.LevelResult
}

// NewSimulation loads a level from the catalog and builds the run. Data
// problems in the level are returned as errors.
func NewSimulation(catalog *config.Catalog, levelIndex int, opts Options) (*Simulation, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}
	level, ok := catalog.Level(levelIndex)
	if !ok {
		return nil, fmt.Errorf("level %d: %w", levelIndex, ErrUnknownLevel)
	}

	var upgrades map[string]int
	if opts.Profiles != nil {
		upgrades = opts.Profiles.Upgrades()
	}
	ctx, err := game.NewContext(catalog, level, game.Options{
		Difficulty: opts.Difficulty,
		Endless:    opts.Endless,
		Seed:       opts.Seed,
		Upgrades:   upgrades,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start level %d: %w", levelIndex, err)
	}

	s := &Simulation{
		ctx:      ctx,
		profiles: opts.Profiles,
		waves:    systems.NewWaveSystem(ctx),
		recorder: &event.Recorder{},
		speed:    MinSpeed,
	}
	// fixed tick order; the scheduler runs before these
	s.systems = []updater{
		systems.NewMovementSystem(ctx),
		systems.NewContactSystem(ctx),
		systems.NewBossSystem(ctx),
		systems.NewHealSystem(ctx),
		systems.NewCombatSystem(ctx),
		systems.NewProjectileSystem(ctx),
		systems.NewDeployableSystem(ctx),
		systems.NewEconomySystem(ctx),
		s.waves,
	}
	ctx.Events.SubscribeAll(s.recorder)

	log.Printf("[Simulation] Level %d %q loaded (difficulty=%s, endless=%v, gold=%d, lives=%d)",
		level.Index, level.Name, ctx.Difficulty, ctx.Endless, ctx.Ledger.Gold(), ctx.Ledger.Lives())
	return s, nil
}

// Context exposes the run state to in-process tools and tests. Renderers
// should use Snapshot instead.
func (s *Simulation) Context() *game.Context { return s.ctx }

// Subscribe registers a listener for every event the run dispatches.
func (s *Simulation) Subscribe(l event.Listener) { s.ctx.Events.SubscribeAll(l) }

// Speed returns the game speed multiplier.
func (s *Simulation) Speed() int { return s.speed }

// Paused reports whether the simulation is paused.
func (s *Simulation) Paused() bool { return s.paused }

// Ended reports whether the run is over.
func (s *Simulation) Ended() bool { return s.ctx.Phase.Ended() }

// Result returns the level result once the run has ended.
func (s *Simulation) Result() (game.LevelResult, bool) {
	if s.result == nil {
		return game.LevelResult{}, false
	}
	return *s.result, true
}

// Tick advances the run by dtMs of wall time and returns the events
// dispatched since the previous call, including those caused by intents.
// The step is clamped to maxFrameDeltaMs and multiplied by the game speed.
// A paused, ended or closed simulation does not advance.
func (s *Simulation) Tick(dtMs float64) []event.Event {
	if s.closed {
		return nil
	}
	ctx := s.ctx
	if s.paused || ctx.Phase.Ended() {
		return s.recorder.Drain()
	}
	if dtMs < 0 {
		dtMs = 0
	}
	if limit := ctx.Tuning.MaxFrameDeltaMs; limit > 0 && dtMs > limit {
		dtMs = limit
	}
	step := dtMs * float64(s.speed)

	ctx.Scheduler.Advance(step)
	for _, sys := range s.systems {
		if ctx.Phase.Ended() {
			break
		}
		sys.Update(step)
	}
	ctx.EM.RemoveMarkedEntities()
	if s.menuTower != ecs.InvalidEntity && !game.IsLiveTower(ctx.EM, s.menuTower) {
		s.closeMenu()
	}

	if ctx.Phase.Ended() && s.result == nil {
		s.finish()
	}
	return s.recorder.Drain()
}

// finish evaluates missions and stars and commits the result to the profile.
func (s *Simulation) finish() {
	ctx := s.ctx
	// drops still on the field are credited as if their window had elapsed
	for _, id := range ecs.GetEntitiesWith1[*components.GemDropComponent](ctx.EM) {
		game.CollectGem(ctx, id)
	}
	ctx.EM.RemoveMarkedEntities()

	won := ctx.Phase == game.PhaseWon
	stars := 0
	if won {
		stars = game.StarsFor(ctx.Ledger.Lives(), ctx.Ledger.MaxLives(), ctx.Tuning.Stars)
	}
	stats := *ctx.Stats
	stats.TowerTypes = make(map[string]bool, len(ctx.Stats.TowerTypes))
	for k, v := range ctx.Stats.TowerTypes {
		stats.TowerTypes[k] = v
	}
	s.result = &game.LevelResult{
		LevelIndex:    ctx.Level.Index,
		Difficulty:    ctx.Difficulty,
		Won:           won,
		Stars:         stars,
		LivesLeft:     ctx.Ledger.Lives(),
		GemsCollected: ctx.Ledger.Gems(),
		Stats:         stats,
		Missions:      game.EvaluateMissions(ctx.Level.Missions, ctx.Stats, ctx.Ledger.PeakGold(), won),
	}
	s.closeMenu()
	log.Printf("[Simulation] Level %d ended (won=%v, stars=%d, kills=%d, waves=%d)",
		ctx.Level.Index, won, stars, stats.Kills, stats.WavesCleared)

	if s.profiles == nil {
		return
	}
	gained, err := s.profiles.CommitLevelResult(*s.result)
	if err != nil {
		log.Printf("[Simulation] Failed to save level result: %v", err)
		return
	}
	log.Printf("[Simulation] Level result saved, %d gems credited", gained)
}

// Close tears the run down: pending timers are dropped so no deferred action
// fires on a dead run.
func (s *Simulation) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.ctx.Scheduler.Clear()
	s.menuTower = ecs.InvalidEntity
}
