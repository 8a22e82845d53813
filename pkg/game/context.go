package game

import (
	"fmt"
	"log"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/grid"
	"github.com/decker502/towers/pkg/utils"
)

// Phase is the lifecycle state of a level run.
type Phase int

const (
	// PhaseBuilding is the pause between waves.
	PhaseBuilding Phase = iota
	// PhaseWave means a wave is spawning or still has live enemies.
	PhaseWave
	PhaseGameOver
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhaseWave:
		return "wave"
	case PhaseGameOver:
		return "gameOver"
	case PhaseWon:
		return "won"
	default:
		return "building"
	}
}

// Ended reports whether the run is over.
func (p Phase) Ended() bool { return p == PhaseGameOver || p == PhaseWon }

// WaveProgress is the state of the current wave.
type WaveProgress struct {
	Number    int // 1-based count of started waves, 0 before the first
	Scheduled int
	Spawned   int
	Endless   bool // generated procedurally
	Boss      bool
}

// Options configures a run.
type Options struct {
	Difficulty string
	Endless    bool
	Seed       int64
	Upgrades   map[string]int // shop levels from the profile
}

// Context is the explicit state of one level run, handed to every system and
// economy call. Collaborators never receive it; they read snapshots.
type Context struct {
	Catalog *config.Catalog
	Tuning  *config.Tuning
	Level   *config.LevelConfig
	Grid    *grid.Grid
	Route   *grid.Route

	Difficulty string
	Preset     config.DifficultyPreset
	Boosts     Boosts
	Runes      config.RuneMultipliers
	Deposit    config.DepositConfig
	Endless    bool

	EM        *ecs.EntityManager
	Ledger    *Ledger
	Combo     *Combo
	Stats     *RunStats
	Scheduler *Scheduler
	Events    *event.Dispatcher
	RNG       *utils.PRNG

	Charges     map[components.DeployableKind]int
	FocusTarget ecs.EntityID // global manual target
	Phase       Phase
	Wave        WaveProgress
}

// NewContext validates a level and builds the run state: grid, route,
// ledger with difficulty and shop bonuses applied, and map feature entities.
// Data-integrity problems are returned as errors.
func NewContext(catalog *config.Catalog, level *config.LevelConfig, opts Options) (*Context, error) {
	if catalog == nil || level == nil {
		return nil, fmt.Errorf("catalog and level are required")
	}
	if err := catalog.ValidateLevel(level); err != nil {
		return nil, err
	}
	g, err := grid.New(level.Grid, level.TileSize)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", level.Index, err)
	}
	route, err := grid.ResolvePath(g)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", level.Index, err)
	}

	difficulty := opts.Difficulty
	if difficulty == "" {
		difficulty = DifficultyNormal
	}
	preset, ok := catalog.Tuning.Difficulty(difficulty)
	if !ok {
		log.Printf("[Context] Unknown difficulty %q, using normal", difficulty)
		difficulty = DifficultyNormal
		preset, _ = catalog.Tuning.Difficulty(difficulty)
	}
	boosts := BoostsFor(opts.Upgrades, catalog.Upgrades)

	ctx := &Context{
		Catalog:    catalog,
		Tuning:     catalog.Tuning,
		Level:      level,
		Grid:       g,
		Route:      route,
		Difficulty: difficulty,
		Preset:     preset,
		Boosts:     boosts,
		Runes:      catalog.RunesFor(level),
		Deposit:    catalog.DepositFor(level),
		Endless:    opts.Endless,
		EM:         ecs.NewEntityManager(),
		Ledger:     NewLedger(StartingGold(level, preset, boosts), StartingLives(level, preset, boosts)),
		Combo:      NewCombo(catalog.Tuning.Combo),
		Stats:      NewRunStats(),
		Scheduler:  NewScheduler(),
		Events:     event.NewDispatcher(),
		RNG:        utils.NewPRNG(opts.Seed),
		Charges:    make(map[components.DeployableKind]int),
		Phase:      PhaseBuilding,
	}

	for name, n := range catalog.Tuning.Charges {
		if kind, ok := components.ParseDeployableKind(name); ok {
			ctx.Charges[kind] = n
		}
	}
	ctx.Charges[components.DeployMine] += boosts.MineCharges

	ctx.spawnFeatures()
	return ctx, nil
}

func (c *Context) spawnFeatures() {
	chestGold := map[grid.Cell]int{}
	for _, ch := range c.Level.Chests {
		chestGold[grid.Cell{Row: ch.Row, Col: ch.Col}] = ch.Gold
	}
	for r := 0; r < c.Grid.Rows(); r++ {
		for col := 0; col < c.Grid.Cols(); col++ {
			cell := grid.Cell{Row: r, Col: col}
			kind, ok := entities.FeatureKindForCell(c.Grid.At(cell))
			if !ok {
				continue
			}
			gold := 0
			if kind == components.FeatureChest {
				gold = c.Tuning.ChestGold
				if g, ok := chestGold[cell]; ok {
					gold = g
				}
			}
			id := entities.NewFeature(c.EM, c.Grid, cell, kind, gold)
			if kind == components.FeatureDeposit {
				if f, ok := ecs.GetComponent[*components.FeatureComponent](c.EM, id); ok {
					f.IncomeTimer = c.Deposit.IntervalMs
				}
			}
		}
	}
}

// Now returns the simulation clock in ms.
func (c *Context) Now() float64 { return c.Scheduler.Now() }

// Emit stamps an event with the simulation time and dispatches it.
func (c *Context) Emit(e event.Event) {
	e.TimeMs = c.Now()
	c.Events.Dispatch(e)
}

// Deny emits an IntentDenied notification.
func (c *Context) Deny(intent, reason string) {
	c.Emit(event.Event{Type: event.IntentDenied, Kind: intent, Reason: reason})
}

// EarnGold credits gold and records it in the run stats.
func (c *Context) EarnGold(amount int, source string) {
	if amount <= 0 {
		return
	}
	c.Ledger.Earn(amount)
	c.Stats.GoldEarned += amount
	c.Emit(event.Event{Type: event.GoldEarned, Amount: float64(amount), Kind: source})
}
