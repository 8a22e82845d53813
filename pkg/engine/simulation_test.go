package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
)

func TestNewSimulationUnknownLevel(t *testing.T) {
	if _, err := NewSimulation(testCatalog, 99, Options{}); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("NewSimulation() error = %v, want ErrUnknownLevel", err)
	}
}

func TestTickClampsAndScales(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	clock := func() float64 { return sim.Snapshot().TimeMs }

	sim.Tick(1000)
	if clock() != 250 {
		t.Fatalf("clock after long frame = %v, want 250", clock())
	}
	sim.Tick(-5)
	if clock() != 250 {
		t.Fatalf("negative frame moved the clock to %v", clock())
	}
	if !sim.HandleIntent(Intent{Kind: IntentSetGameSpeed, Speed: 3}) {
		t.Fatal("speed 3 rejected")
	}
	sim.Tick(100)
	if clock() != 550 {
		t.Errorf("clock at 3x = %v, want 550", clock())
	}
}

func TestPauseFreezesRun(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	sim.HandleIntent(Intent{Kind: IntentSelectTowerType, TowerType: "ballista"})
	sim.HandleIntent(Intent{Kind: IntentTogglePause})

	sim.Tick(100)
	if sim.Snapshot().TimeMs != 0 {
		t.Fatal("paused simulation advanced")
	}
	if sim.HandleIntent(Intent{Kind: IntentPlaceTower, Cell: grid.Cell{Row: 0, Col: 0}}) {
		t.Fatal("tower placed while paused")
	}
	denied := eventsOf(sim.Tick(16), event.IntentDenied)
	if len(denied) != 1 || denied[0].Reason != ReasonPaused || denied[0].Kind != "place-tower" {
		t.Fatalf("denials = %+v", denied)
	}

	sim.HandleIntent(Intent{Kind: IntentTogglePause})
	sim.Tick(100)
	if sim.Paused() || sim.Snapshot().TimeMs != 100 {
		t.Errorf("resume failed: paused %v clock %v", sim.Paused(), sim.Snapshot().TimeMs)
	}
}

func TestPlaceTowerIntents(t *testing.T) {
	tests := []struct {
		name   string
		intent Intent
		ok     bool
		reason string
	}{
		{"no selection", Intent{Kind: IntentPlaceTower, Cell: grid.Cell{Row: 0, Col: 0}}, false, ReasonNoSelection},
		{"unavailable type", Intent{Kind: IntentSelectTowerType, TowerType: "laser"}, false, ReasonUnavailable},
		{"path cell", Intent{Kind: IntentPlaceTower, TowerType: "ballista", Cell: grid.Cell{Row: 1, Col: 1}}, false, game.ErrNotBuildable.Error()},
		{"built", Intent{Kind: IntentPlaceTower, TowerType: "ballista", Cell: grid.Cell{Row: 0, Col: 0}}, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := newTestSimulation(t, Options{})
			if got := sim.HandleIntent(tt.intent); got != tt.ok {
				t.Fatalf("HandleIntent() = %v, want %v", got, tt.ok)
			}
			denied := eventsOf(sim.Tick(0), event.IntentDenied)
			if tt.ok {
				if len(denied) != 0 {
					t.Errorf("unexpected denial %+v", denied)
				}
				snap := sim.Snapshot()
				if len(snap.Towers) != 1 || snap.Gold != 150 {
					t.Errorf("towers = %d gold = %d, want 1 and 150", len(snap.Towers), snap.Gold)
				}
				return
			}
			if len(denied) != 1 || denied[0].Reason != tt.reason {
				t.Errorf("denials = %+v, want reason %q", denied, tt.reason)
			}
		})
	}
}

func TestPlaceUsesSelection(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	sim.HandleIntent(Intent{Kind: IntentSelectTowerType, TowerType: "scout"})
	if !sim.HandleIntent(Intent{Kind: IntentPlaceTower, Cell: grid.Cell{Row: 0, Col: 0}}) {
		t.Fatal("place with selection rejected")
	}
	snap := sim.Snapshot()
	if snap.Selected != "scout" || snap.Towers[0].Type != "scout" {
		t.Errorf("selected %q built %q, want scout", snap.Selected, snap.Towers[0].Type)
	}
}

func TestMenuAutoCloses(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	sim.HandleIntent(Intent{Kind: IntentPlaceTower, TowerType: "ballista", Cell: grid.Cell{Row: 0, Col: 0}})
	id := ecs.EntityID(sim.Snapshot().Towers[0].ID)

	if sim.HandleIntent(Intent{Kind: IntentOpenTowerMenu, Tower: id + 1000}) {
		t.Fatal("menu opened for a missing tower")
	}
	if !sim.HandleIntent(Intent{Kind: IntentOpenTowerMenu, Tower: id}) {
		t.Fatal("menu rejected")
	}
	if sim.Snapshot().MenuTower != uint64(id) {
		t.Fatal("menu not open")
	}

	var closed int
	for i := 0; i < 19; i++ {
		closed += len(eventsOf(sim.Tick(250), event.MenuClosed))
	}
	if closed != 0 || sim.Snapshot().MenuTower == 0 {
		t.Fatal("menu closed early")
	}
	closed += len(eventsOf(sim.Tick(250), event.MenuClosed))
	if closed != 1 || sim.Snapshot().MenuTower != 0 {
		t.Errorf("menu still open after %v ms", sim.Snapshot().TimeMs)
	}
}

func TestSellClosesMenu(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	sim.HandleIntent(Intent{Kind: IntentPlaceTower, TowerType: "ballista", Cell: grid.Cell{Row: 0, Col: 0}})
	id := ecs.EntityID(sim.Snapshot().Towers[0].ID)
	sim.HandleIntent(Intent{Kind: IntentOpenTowerMenu, Tower: id})

	if !sim.HandleIntent(Intent{Kind: IntentSell, Tower: id}) {
		t.Fatal("sell rejected")
	}
	sim.Tick(16)
	snap := sim.Snapshot()
	if snap.MenuTower != 0 || len(snap.Towers) != 0 {
		t.Errorf("menu %d towers %d after sell", snap.MenuTower, len(snap.Towers))
	}
	if snap.Gold != 150+70 {
		t.Errorf("gold = %d, want 220", snap.Gold)
	}
	if sim.HandleIntent(Intent{Kind: IntentSell, Tower: id}) {
		t.Error("sold the same tower twice")
	}
}

func TestManualTargets(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	ctx := sim.Context()
	sim.HandleIntent(Intent{Kind: IntentPlaceTower, TowerType: "ballista", Cell: grid.Cell{Row: 0, Col: 0}})
	tower := ecs.EntityID(sim.Snapshot().Towers[0].ID)
	enemy, err := entities.NewEnemy(ctx.EM, "goblin", &config.EnemyDef{HP: 50, Speed: 1}, entities.NoScaling, entities.SpawnPoint{X: 96, Y: 96, WaypointIndex: 1})
	if err != nil {
		t.Fatalf("NewEnemy() error: %v", err)
	}

	if !sim.HandleIntent(Intent{Kind: IntentSetManualTarget, Tower: tower, Target: enemy}) {
		t.Fatal("tower lock rejected")
	}
	tc, _ := ecs.GetComponent[*components.TowerComponent](ctx.EM, tower)
	if tc.ManualTarget != enemy {
		t.Errorf("ManualTarget = %d, want %d", tc.ManualTarget, enemy)
	}

	if !sim.HandleIntent(Intent{Kind: IntentSetManualTarget, Target: enemy}) || ctx.FocusTarget != enemy {
		t.Errorf("focus = %d, want %d", ctx.FocusTarget, enemy)
	}
	if sim.HandleIntent(Intent{Kind: IntentSetManualTarget, Target: tower}) {
		t.Error("a tower was accepted as a target")
	}
	if !sim.HandleIntent(Intent{Kind: IntentSetManualTarget}) || ctx.FocusTarget != ecs.InvalidEntity {
		t.Error("clearing the focus failed")
	}
}

func TestGameSpeedValidation(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	for _, speed := range []int{0, 4, -1} {
		if sim.HandleIntent(Intent{Kind: IntentSetGameSpeed, Speed: speed}) {
			t.Errorf("speed %d accepted", speed)
		}
	}
	if sim.Speed() != 1 {
		t.Errorf("speed = %d, want 1", sim.Speed())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	sim.HandleIntent(Intent{Kind: IntentPlaceTower, TowerType: "ballista", Cell: grid.Cell{Row: 0, Col: 0}})

	snap := sim.Snapshot()
	snap.Towers[0].HP = 1
	snap.Charges["mine"] = 99
	m := sim.Map()
	m.Cells[0][0] = 9
	m.Waypoints[0].X = -1

	again := sim.Snapshot()
	if again.Towers[0].HP != 150 || again.Charges["mine"] != 2 {
		t.Error("snapshot shares memory with the simulation")
	}
	if m2 := sim.Map(); m2.Cells[0][0] != 0 || m2.Waypoints[0].X == -1 {
		t.Error("map view shares memory with the simulation")
	}
}

func TestWinCommitsResult(t *testing.T) {
	profiles := game.NewProfileManager(nil)
	sim := newTestSimulation(t, Options{Profiles: profiles})
	ctx := sim.Context()

	// skip to the end of the last authored wave
	ctx.Phase = game.PhaseWave
	ctx.Wave = game.WaveProgress{Number: len(ctx.Level.Waves)}
	events := sim.Tick(16)

	if len(eventsOf(events, event.LevelWon)) != 1 || !sim.Ended() {
		t.Fatal("level not won")
	}
	r, ok := sim.Result()
	if !ok || !r.Won || r.Stars != 3 {
		t.Fatalf("result = %+v", r)
	}
	p := profiles.Profile()
	if p.LevelsUnlocked != 2 || p.LevelStars[game.LevelKey(0)] != 3 {
		t.Errorf("unlocked %d stars %d", p.LevelsUnlocked, p.LevelStars[game.LevelKey(0)])
	}
	// meadow_no_leaks pays 10 gems, meadow_variety needs three tower types
	if p.Gems != game.DefaultStartingGems+10 {
		t.Errorf("gems = %d, want %d", p.Gems, game.DefaultStartingGems+10)
	}

	sim.Tick(16)
	if profiles.Profile().Totals.LevelsWon != 1 {
		t.Error("result committed more than once")
	}
}

func TestWinCreditsGemsLeftOnField(t *testing.T) {
	profiles := game.NewProfileManager(nil)
	sim := newTestSimulation(t, Options{Profiles: profiles})
	ctx := sim.Context()

	// the killing blow of the last wave drops a gem that has not been picked up
	entities.NewGemDrop(ctx.EM, 100, 100, 5, ctx.Now()+ctx.Tuning.Gems.PickupWindowMs)
	ctx.Phase = game.PhaseWave
	ctx.Wave = game.WaveProgress{Number: len(ctx.Level.Waves)}
	events := sim.Tick(16)

	if !sim.Ended() {
		t.Fatal("level not won")
	}
	if got := eventsOf(events, event.GemCollected); len(got) != 1 || got[0].Amount != 5 {
		t.Errorf("GemCollected events = %+v, want one for 5", got)
	}
	r, _ := sim.Result()
	if r.GemsCollected != 5 {
		t.Errorf("result gems = %d, want 5", r.GemsCollected)
	}
	if p := profiles.Profile(); p.Gems != game.DefaultStartingGems+10+5 {
		t.Errorf("profile gems = %d, want %d", p.Gems, game.DefaultStartingGems+10+5)
	}
	if n := len(sim.Snapshot().GemDrops); n != 0 {
		t.Errorf("gems left on field = %d", n)
	}
}

func TestGameOverCommitsLoss(t *testing.T) {
	profiles := game.NewProfileManager(nil)
	sim := newTestSimulation(t, Options{Profiles: profiles})
	ctx := sim.Context()
	last := ctx.Route.Len() - 1
	at := ctx.Route.Waypoints[last]
	if _, err := entities.NewEnemy(ctx.EM, "test", &config.EnemyDef{HP: 10, Speed: 50, ContactDamage: 100}, entities.NoScaling,
		entities.SpawnPoint{X: at.X, Y: at.Y, WaypointIndex: last}); err != nil {
		t.Fatalf("NewEnemy() error: %v", err)
	}

	events := sim.Tick(16)
	if len(eventsOf(events, event.GameOver)) != 1 {
		t.Fatal("no game over")
	}
	if r, _ := sim.Result(); r.Won || r.Stars != 0 {
		t.Errorf("result = %+v, want a loss", r)
	}
	if p := profiles.Profile(); p.Totals.LevelsLost != 1 || p.LevelsUnlocked != 1 {
		t.Errorf("totals %+v unlocked %d", p.Totals, p.LevelsUnlocked)
	}

	before := sim.Snapshot().TimeMs
	sim.Tick(100)
	if sim.Snapshot().TimeMs != before {
		t.Error("ended run kept advancing")
	}
}

func TestShopUpgradesApplyAtStart(t *testing.T) {
	profiles := game.NewProfileManager(nil)
	if _, err := profiles.BuyUpgrade(testCatalog.Upgrades, config.UpgradeTowerHealth); err != nil {
		t.Fatalf("BuyUpgrade() error: %v", err)
	}
	sim := newTestSimulation(t, Options{Profiles: profiles})
	sim.HandleIntent(Intent{Kind: IntentPlaceTower, TowerType: "ballista", Cell: grid.Cell{Row: 0, Col: 0}})
	if got := sim.Snapshot().Towers[0].MaxHP; got < 164.99 || got > 165.01 {
		t.Errorf("tower max hp = %v, want 165", got)
	}
}

func TestCloseDropsTimers(t *testing.T) {
	sim := newTestSimulation(t, Options{})
	if !sim.HandleIntent(Intent{Kind: IntentStartNextWave}) {
		t.Fatal("wave start rejected")
	}
	ctx := sim.Context()
	if ctx.Scheduler.Pending() != 8 {
		t.Fatalf("pending = %d, want 8", ctx.Scheduler.Pending())
	}
	sim.Close()
	if ctx.Scheduler.Pending() != 0 {
		t.Errorf("pending after close = %d", ctx.Scheduler.Pending())
	}
	if sim.Tick(16) != nil || sim.HandleIntent(Intent{Kind: IntentStartNextWave}) {
		t.Error("closed simulation still active")
	}
}

// script plays the same inputs against a simulation.
func script(sim *Simulation) []Snapshot {
	sim.HandleIntent(Intent{Kind: IntentPlaceTower, TowerType: "ballista", Cell: grid.Cell{Row: 2, Col: 3}})
	sim.HandleIntent(Intent{Kind: IntentPlaceTower, TowerType: "cannon", Cell: grid.Cell{Row: 3, Col: 5}})
	sim.HandleIntent(Intent{Kind: IntentSetGameSpeed, Speed: 2})
	var snaps []Snapshot
	for i := 0; i < 600 && !sim.Ended(); i++ {
		if i%150 == 0 {
			sim.HandleIntent(Intent{Kind: IntentStartNextWave})
		}
		sim.Tick(50)
		if i%60 == 0 {
			snaps = append(snaps, sim.Snapshot())
		}
	}
	return snaps
}

func TestRunsAreDeterministic(t *testing.T) {
	a := newTestSimulation(t, Options{Seed: 5})
	b := newTestSimulation(t, Options{Seed: 5})
	sa, sb := script(a), script(b)
	if len(sa) == 0 {
		t.Fatal("no snapshots recorded")
	}
	if !reflect.DeepEqual(sa, sb) {
		t.Error("identical inputs produced different runs")
	}
}
