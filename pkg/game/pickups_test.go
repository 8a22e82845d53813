package game

import (
	"errors"
	"testing"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/grid"
)

func TestGemDropChanceAndAmount(t *testing.T) {
	ctx := newTestContext(t, 0)
	tests := []struct {
		reward     int
		boss       bool
		wantChance float64
		wantAmount int
	}{
		{reward: 10, wantChance: 0.07, wantAmount: 1},
		{reward: 50, wantChance: 0.15, wantAmount: 3},
		{reward: 1000, wantChance: 1, wantAmount: 41},
		{reward: 10, boss: true, wantChance: 1, wantAmount: 1},
	}
	for _, tt := range tests {
		if got := GemDropChance(ctx, tt.reward, tt.boss); !approx(got, tt.wantChance) {
			t.Errorf("GemDropChance(%d, %v) = %v, want %v", tt.reward, tt.boss, got, tt.wantChance)
		}
		if got := GemDropAmount(ctx, tt.reward); got != tt.wantAmount {
			t.Errorf("GemDropAmount(%d) = %d, want %d", tt.reward, got, tt.wantAmount)
		}
	}
}

func TestGemAutoCollect(t *testing.T) {
	ctx := newTestContext(t, 0)
	id, ok := RollGemDrop(ctx, 50, true, 10, 10)
	if !ok {
		t.Fatal("boss drop did not roll")
	}
	ctx.Scheduler.Advance(ctx.Tuning.Gems.PickupWindowMs - 1)
	if ctx.Ledger.Gems() != 0 {
		t.Fatalf("gems collected before window: %d", ctx.Ledger.Gems())
	}
	ctx.Scheduler.Advance(1)
	if ctx.Ledger.Gems() != 3 {
		t.Errorf("gems = %d, want 3", ctx.Ledger.Gems())
	}
	if ctx.EM.IsAlive(id) {
		t.Error("collected gem still alive")
	}
}

func TestGemManualCollectIsNotDoubled(t *testing.T) {
	ctx := newTestContext(t, 0)
	id, _ := RollGemDrop(ctx, 50, true, 10, 10)
	if n, err := CollectGem(ctx, id); err != nil || n != 3 {
		t.Fatalf("CollectGem() = %d, %v", n, err)
	}
	ctx.EM.RemoveMarkedEntities()
	ctx.Scheduler.Advance(ctx.Tuning.Gems.PickupWindowMs)
	if ctx.Ledger.Gems() != 3 {
		t.Errorf("gems = %d, want 3", ctx.Ledger.Gems())
	}
	if _, err := CollectGem(ctx, id); !errors.Is(err, ErrNoSuchPickup) {
		t.Errorf("second collect error = %v, want ErrNoSuchPickup", err)
	}
}

func TestOpenChestOnce(t *testing.T) {
	ctx := newTestContext(t, 1)
	var chest ecs.EntityID
	for _, id := range ecs.GetEntitiesWith1[*components.FeatureComponent](ctx.EM) {
		f, _ := ecs.GetComponent[*components.FeatureComponent](ctx.EM, id)
		if f.Kind == components.FeatureChest && f.Cell == (grid.Cell{Row: 8, Col: 1}) {
			chest = id
		}
	}
	if chest == ecs.InvalidEntity {
		t.Fatal("chest at (8,1) not spawned")
	}
	gold := ctx.Ledger.Gold()
	if n, err := OpenChest(ctx, chest); err != nil || n != 120 {
		t.Fatalf("OpenChest() = %d, %v, want 120", n, err)
	}
	if _, err := OpenChest(ctx, chest); !errors.Is(err, ErrNoSuchPickup) {
		t.Errorf("reopen error = %v, want ErrNoSuchPickup", err)
	}
	if ctx.Ledger.Gold() != gold+120 {
		t.Errorf("gold = %d, want %d", ctx.Ledger.Gold(), gold+120)
	}
}
