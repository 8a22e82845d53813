package systems

import (
	"testing"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
)

func TestBasicKill(t *testing.T) {
	ctx := newTestContext(t, 0)
	rec := &event.Recorder{}
	ctx.Events.Subscribe(event.EnemyDied, rec)
	id := spawnAt(t, ctx, &config.EnemyDef{HP: 120, Speed: 50, Reward: 10}, 100, 100)
	gold := ctx.Ledger.Gold()

	want := []float64{70, 20}
	for i, w := range want {
		if _, killed := DamageEnemy(ctx, Hit{Target: id, Raw: 50}); killed {
			t.Fatalf("hit %d killed early", i+1)
		}
		if got := hpOf(ctx, id); got != w {
			t.Errorf("hp after hit %d = %v, want %v", i+1, got, w)
		}
	}
	if _, killed := DamageEnemy(ctx, Hit{Target: id, Raw: 50}); !killed {
		t.Fatal("third hit did not kill")
	}
	if ctx.EM.IsAlive(id) {
		t.Error("dead enemy still alive")
	}
	if ctx.Ledger.Gold() != gold+10 {
		t.Errorf("gold = %d, want %d", ctx.Ledger.Gold(), gold+10)
	}
	if rec.Len() != 1 || ctx.Stats.Kills != 1 {
		t.Errorf("died events = %d, kills = %d, want 1 and 1", rec.Len(), ctx.Stats.Kills)
	}
	if _, killed := DamageEnemy(ctx, Hit{Target: id, Raw: 50}); killed {
		t.Error("hit on a dead enemy reported a kill")
	}
}

func TestEffectiveDamageFloor(t *testing.T) {
	enemy := &components.EnemyComponent{Resistances: config.Resistances{Physical: 0.99, Magical: 0.5}}
	tests := []struct {
		name string
		raw  float64
		t    components.DamageType
		want float64
	}{
		{"tiny physical", 1, components.DamagePhysical, 1},
		{"fraction", 0.2, components.DamageMagical, 1},
		{"resisted", 30, components.DamageMagical, 15},
		{"rounding", 25, components.DamageMagical, 13},
		{"pure ignores", 30, components.DamagePure, 30},
		{"heavy physical", 1000, components.DamagePhysical, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveDamage(tt.raw, tt.t, enemy); got != tt.want {
				t.Errorf("EffectiveDamage(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSplitSpawnsChildren(t *testing.T) {
	ctx := newTestContext(t, 0)
	def, _ := testCatalog.Enemies.Get("slime")
	id := spawnAt(t, ctx, def, 200, 100)
	enemyOf(ctx, id).WaypointIndex = 4

	DamageEnemy(ctx, Hit{Target: id, Raw: 10000, Type: components.DamagePure})
	children := game.Enemies(ctx.EM)
	if len(children) != 2 {
		t.Fatalf("children = %d, want 2", len(children))
	}
	for _, c := range children {
		e := enemyOf(ctx, c)
		if e.TypeID != "slimeling" || e.WaypointIndex != 4 {
			t.Errorf("child type=%s waypoint=%d, want slimeling at 4", e.TypeID, e.WaypointIndex)
		}
		if p, _ := game.Position(ctx.EM, c); p.X != 200 || p.Y != 100 {
			t.Errorf("child at %+v, want parent position", p)
		}
	}
}

func TestSlowRefreshKeepsLongest(t *testing.T) {
	ctx := newTestContext(t, 0)
	id := spawnAt(t, ctx, &config.EnemyDef{HP: 100, Speed: 100}, 32, 96)
	move := NewMovementSystem(ctx)

	ApplySlow(ctx, id, 0.5, 1000)
	e := enemyOf(ctx, id)
	if e.Speed != 50 {
		t.Fatalf("slowed speed = %v, want 50", e.Speed)
	}
	move.Update(400)
	ApplySlow(ctx, id, 0.5, 300)
	if e.SlowTimer != 600 {
		t.Errorf("short slow shortened timer to %v, want 600", e.SlowTimer)
	}
	ApplySlow(ctx, id, 0.5, 2000)
	if e.SlowTimer != 2000 {
		t.Errorf("long slow timer = %v, want 2000", e.SlowTimer)
	}
	move.Update(2000)
	if e.Speed != 100 || e.SlowTimer != 0 {
		t.Errorf("after expiry speed=%v timer=%v, want 100 and 0", e.Speed, e.SlowTimer)
	}
}

func TestComboBonusOnKills(t *testing.T) {
	ctx := newTestContext(t, 0)
	gold := ctx.Ledger.Gold()
	for i := 0; i < 3; i++ {
		id := spawnAt(t, ctx, &config.EnemyDef{HP: 1, Speed: 10, Reward: 20}, 100, 100)
		DamageEnemy(ctx, Hit{Target: id, Raw: 5})
	}
	// 3 rewards + floor(1 * 20 * 0.1)
	if got := ctx.Ledger.Gold() - gold; got != 62 {
		t.Errorf("gold earned = %d, want 62", got)
	}
	if ctx.Combo.Count() != 3 {
		t.Errorf("combo = %d, want 3", ctx.Combo.Count())
	}
}

func TestFocusTargetClearedOnDeath(t *testing.T) {
	ctx := newTestContext(t, 0)
	id := spawnAt(t, ctx, &config.EnemyDef{HP: 10, Speed: 10}, 100, 100)
	ctx.FocusTarget = id
	DamageEnemy(ctx, Hit{Target: id, Raw: 50})
	if ctx.FocusTarget != ecs.InvalidEntity {
		t.Error("focus target kept after death")
	}
}
