package systems

import (
	"testing"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
)

// placeTower builds a tower without touching the ledger.
func placeTower(t *testing.T, ctx *game.Context, typeID string, cell grid.Cell) (ecs.EntityID, *components.TowerComponent) {
	t.Helper()
	def, ok := testCatalog.Towers.Get(typeID)
	if !ok {
		t.Fatalf("unknown tower %s", typeID)
	}
	id, err := entities.NewTower(ctx.EM, typeID, def, cell, ctx.Grid.CellCenter(cell), float64(def.MaxHP))
	if err != nil {
		t.Fatalf("NewTower() error: %v", err)
	}
	tower, _ := ecs.GetComponent[*components.TowerComponent](ctx.EM, id)
	return id, tower
}

func TestChainDecay(t *testing.T) {
	ctx := newTestContext(t, 0)
	rec := &event.Recorder{}
	ctx.Events.Subscribe(event.HitLanded, rec)

	_, tower := placeTower(t, ctx, "storm", grid.Cell{Row: 0, Col: 0})
	tower.Damage = 100
	tower.Range = 200
	tower.DamageType = components.DamagePure

	def := &config.EnemyDef{HP: 1000, Speed: 10}
	var line []ecs.EntityID
	for i := 0; i < 4; i++ {
		line = append(line, spawnAt(t, ctx, def, 32+float64(i)*50, 96))
	}
	tower.ManualTarget = line[0]

	NewCombatSystem(ctx).Update(16)

	got := rec.Drain()
	want := []float64{100, 80, 64, 51}
	if len(got) != len(want) {
		t.Fatalf("hits = %d, want %d", len(got), len(want))
	}
	for i, e := range got {
		if e.Amount != want[i] || e.Target != uint64(line[i]) {
			t.Errorf("link %d hit %d for %v, want %d for %v", i, e.Target, e.Amount, line[i], want[i])
		}
	}
}

func TestChainStopsBeyondRadius(t *testing.T) {
	ctx := newTestContext(t, 0)
	_, tower := placeTower(t, ctx, "storm", grid.Cell{Row: 0, Col: 0})
	tower.Range = 300

	def := &config.EnemyDef{HP: 1000, Speed: 10}
	a := spawnAt(t, ctx, def, 32, 96)
	b := spawnAt(t, ctx, def, 232, 96) // beyond chain radius of a
	tower.ManualTarget = a

	NewCombatSystem(ctx).Update(16)
	if hpOf(ctx, a) == 1000 {
		t.Error("primary target not hit")
	}
	if hpOf(ctx, b) != 1000 {
		t.Error("chain jumped beyond its radius")
	}
}

func TestFireIntervalGatesShots(t *testing.T) {
	ctx := newTestContext(t, 0)
	rec := &event.Recorder{}
	ctx.Events.Subscribe(event.ShotFired, rec)
	_, tower := placeTower(t, ctx, "ballista", grid.Cell{Row: 0, Col: 0})
	spawnAt(t, ctx, &config.EnemyDef{HP: 1000, Speed: 1}, 32, 96)

	combat := NewCombatSystem(ctx)
	combat.Update(16)
	ctx.Scheduler.Advance(tower.FireIntervalMs - 1)
	combat.Update(16)
	if rec.Len() != 1 {
		t.Fatalf("shots = %d, want 1", rec.Len())
	}
	ctx.Scheduler.Advance(1)
	combat.Update(16)
	if rec.Len() != 2 {
		t.Errorf("shots = %d, want 2", rec.Len())
	}
}

func TestStackingMultipliesOnSameTarget(t *testing.T) {
	ctx := newTestContext(t, 0)
	_, tower := placeTower(t, ctx, "scout", grid.Cell{Row: 0, Col: 0})
	a := spawnAt(t, ctx, &config.EnemyDef{HP: 1000, Speed: 1}, 32, 96)

	combat := NewCombatSystem(ctx)
	for i := 1; i <= tower.MaxStacks+2; i++ {
		combat.Update(16)
		ctx.Scheduler.Advance(tower.FireIntervalMs)
		want := i
		if want > tower.MaxStacks {
			want = tower.MaxStacks
		}
		if tower.StackCount != want || tower.StackTarget != a {
			t.Fatalf("shot %d stack = %d, want %d", i, tower.StackCount, want)
		}
	}

	b := spawnAt(t, ctx, &config.EnemyDef{HP: 1000, Speed: 1}, 40, 96)
	tower.ManualTarget = b
	combat.Update(16)
	if tower.StackCount != 1 || tower.StackTarget != b {
		t.Errorf("stack after target change = %d, want 1", tower.StackCount)
	}
}

func TestSplashMembership(t *testing.T) {
	ctx := newTestContext(t, 0)
	def := &config.EnemyDef{HP: 100, Speed: 1}
	inside := spawnAt(t, ctx, def, 330, 300)
	edge := spawnAt(t, ctx, def, 350, 300)
	outside := spawnAt(t, ctx, def, 351, 300)

	entities.NewProjectile(ctx.EM, 300, 300, components.ProjectileComponent{
		TargetX:      300,
		TargetY:      300,
		Damage:       40,
		SplashRadius: 50,
		Speed:        400,
	})
	NewProjectileSystem(ctx).Update(16)

	if hpOf(ctx, inside) != 60 || hpOf(ctx, edge) != 60 {
		t.Errorf("enemies within radius hp = %v, %v, want 60", hpOf(ctx, inside), hpOf(ctx, edge))
	}
	if hpOf(ctx, outside) != 100 {
		t.Errorf("enemy outside radius hp = %v, want 100", hpOf(ctx, outside))
	}
	if n := len(ecs.GetEntitiesWith1[*components.ProjectileComponent](ctx.EM)); n != 0 {
		t.Errorf("projectiles left = %d, want 0", n)
	}
}

func TestSplashSkipsEnemiesKilledThisTick(t *testing.T) {
	ctx := newTestContext(t, 0)
	rec := &event.Recorder{}
	ctx.Events.Subscribe(event.HitLanded, rec)
	def := &config.EnemyDef{HP: 100, Speed: 1}
	dead := spawnAt(t, ctx, def, 310, 300)
	a := spawnAt(t, ctx, def, 320, 300)
	b := spawnAt(t, ctx, def, 290, 300)

	entities.NewProjectile(ctx.EM, 300, 300, components.ProjectileComponent{
		TargetX:      300,
		TargetY:      300,
		Damage:       40,
		SplashRadius: 50,
		Speed:        400,
	})
	// another tower finishes it earlier in the same tick
	if _, killed := DamageEnemy(ctx, Hit{Target: dead, Raw: 1000, Type: components.DamagePure}); !killed {
		t.Fatal("enemy survived a lethal hit")
	}
	rec.Drain()
	NewProjectileSystem(ctx).Update(16)

	hit := map[uint64]int{}
	for _, e := range rec.Drain() {
		hit[e.Target]++
	}
	if hit[uint64(dead)] != 0 {
		t.Errorf("splash hit an enemy killed earlier in the tick")
	}
	if hit[uint64(a)] != 1 || hit[uint64(b)] != 1 {
		t.Errorf("splash hits = %v, want one each on %d and %d", hit, a, b)
	}
	if hpOf(ctx, a) != 60 || hpOf(ctx, b) != 60 {
		t.Errorf("victims hp = %v, %v, want 60", hpOf(ctx, a), hpOf(ctx, b))
	}
}

func TestSingleTargetSlowAndMiss(t *testing.T) {
	ctx := newTestContext(t, 0)
	target := spawnAt(t, ctx, &config.EnemyDef{HP: 100, Speed: 100}, 300, 300)

	entities.NewProjectile(ctx.EM, 295, 300, components.ProjectileComponent{
		Target:         target,
		TargetX:        300,
		TargetY:        300,
		Damage:         10,
		SlowFactor:     0.5,
		SlowDurationMs: 800,
		Speed:          400,
	})
	NewProjectileSystem(ctx).Update(16)
	e := enemyOf(ctx, target)
	if hpOf(ctx, target) != 90 || e.Speed != 50 || e.SlowTimer != 800 {
		t.Errorf("hp=%v speed=%v timer=%v, want 90, 50, 800", hpOf(ctx, target), e.Speed, e.SlowTimer)
	}

	// the target dies in flight: the shot lands on the last known point and
	// hits nothing
	entities.NewProjectile(ctx.EM, 100, 300, components.ProjectileComponent{Target: target, TargetX: 300, TargetY: 300, Damage: 10, Speed: 400})
	DamageEnemy(ctx, Hit{Target: target, Raw: 1000, Type: components.DamagePure})
	bystander := spawnAt(t, ctx, &config.EnemyDef{HP: 100, Speed: 1}, 300, 300)
	proj := NewProjectileSystem(ctx)
	for i := 0; i < 100; i++ {
		proj.Update(16)
	}
	if hpOf(ctx, bystander) != 100 {
		t.Errorf("single-target shot hit a bystander: hp %v", hpOf(ctx, bystander))
	}
}

func TestArcProjectileLandsOnLaunchPoint(t *testing.T) {
	ctx := newTestContext(t, 0)
	target := spawnAt(t, ctx, &config.EnemyDef{HP: 100, Speed: 1}, 400, 300)
	id := entities.NewProjectile(ctx.EM, 100, 300, components.ProjectileComponent{
		Target:       target,
		TargetX:      400,
		TargetY:      300,
		Damage:       30,
		SplashRadius: 20,
		Trajectory:   components.TrajectoryArc,
		Speed:        300,
	})
	// target walks away after launch
	pos, _ := ecs.GetComponent[*components.PositionComponent](ctx.EM, target)
	pos.X = 500

	sys := NewProjectileSystem(ctx)
	sys.Update(500)
	p, _ := ecs.GetComponent[*components.ProjectileComponent](ctx.EM, id)
	if !approx(p.Progress, 0.5) || !approx(p.Height, ctx.Tuning.ArcHeight) {
		t.Errorf("midflight progress=%v height=%v, want 0.5 and %v", p.Progress, p.Height, ctx.Tuning.ArcHeight)
	}
	sys.Update(500)
	if ctx.EM.IsAlive(id) {
		t.Error("arc projectile still in flight")
	}
	if hpOf(ctx, target) != 100 {
		t.Errorf("arc shot followed its target: hp %v", hpOf(ctx, target))
	}
}

func TestTargetModes(t *testing.T) {
	ctx := newTestContext(t, 0)
	_, tower := placeTower(t, ctx, "ballista", grid.Cell{Row: 0, Col: 1})
	tower.Range = 1000
	towerPos := ctx.Grid.CellCenter(grid.Cell{Row: 0, Col: 1})

	near := spawnAt(t, ctx, &config.EnemyDef{HP: 100, Speed: 1}, towerPos.X, towerPos.Y+40)
	big := spawnAt(t, ctx, &config.EnemyDef{HP: 500, Speed: 1}, 400, 400)
	weak := spawnAt(t, ctx, &config.EnemyDef{HP: 30, Speed: 1}, 420, 400)
	ahead := spawnAt(t, ctx, &config.EnemyDef{HP: 100, Speed: 1}, 300, 300)
	enemyOf(ctx, ahead).WaypointIndex = 6

	tests := []struct {
		mode components.TargetMode
		want ecs.EntityID
	}{
		{components.TargetFirst, ahead},
		{components.TargetStrong, big},
		{components.TargetWeak, weak},
		{components.TargetClose, near},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			tower.TargetMode = tt.mode
			if got := SelectTarget(ctx, towerPos, tower); got != tt.want {
				t.Errorf("SelectTarget() = %d, want %d", got, tt.want)
			}
		})
	}

	tower.TargetMode = components.TargetWeak
	ctx.FocusTarget = big
	if got := SelectTarget(ctx, towerPos, tower); got != big {
		t.Errorf("focus target ignored: got %d", got)
	}
	tower.ManualTarget = near
	if got := SelectTarget(ctx, towerPos, tower); got != near {
		t.Errorf("tower lock should beat focus: got %d", got)
	}
}

func TestNoTargetOutOfRange(t *testing.T) {
	ctx := newTestContext(t, 0)
	_, tower := placeTower(t, ctx, "ballista", grid.Cell{Row: 0, Col: 0})
	far := spawnAt(t, ctx, &config.EnemyDef{HP: 100, Speed: 1}, 900, 600)
	tower.ManualTarget = far
	if got := SelectTarget(ctx, ctx.Grid.CellCenter(grid.Cell{}), tower); got != ecs.InvalidEntity {
		t.Errorf("SelectTarget() = %d, want none", got)
	}
}
