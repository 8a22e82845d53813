package game

import (
	"errors"
	"math"
	"testing"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/grid"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func towerOf(t *testing.T, ctx *Context, id ecs.EntityID) *components.TowerComponent {
	t.Helper()
	tower, ok := ecs.GetComponent[*components.TowerComponent](ctx.EM, id)
	if !ok {
		t.Fatalf("entity %d has no tower component", id)
	}
	return tower
}

func TestBuildTowerRejections(t *testing.T) {
	ctx := newTestContext(t, 0)
	if _, err := BuildTower(ctx, "ballista", grid.Cell{Row: 0, Col: 0}); err != nil {
		t.Fatalf("BuildTower() error: %v", err)
	}

	tests := []struct {
		name   string
		typeID string
		cell   grid.Cell
		want   error
	}{
		{"unknown type", "laser", grid.Cell{Row: 0, Col: 1}, ErrTowerUnavailable},
		{"not offered on level", "storm", grid.Cell{Row: 0, Col: 1}, ErrTowerUnavailable},
		{"out of bounds", "ballista", grid.Cell{Row: -1, Col: 0}, ErrOutOfBounds},
		{"path cell", "ballista", grid.Cell{Row: 1, Col: 1}, ErrNotBuildable},
		{"rune cell", "ballista", grid.Cell{Row: 3, Col: 2}, ErrNotBuildable},
		{"occupied", "ballista", grid.Cell{Row: 0, Col: 0}, ErrCellOccupied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := ctx.Ledger.Gold()
			_, err := BuildTower(ctx, tt.typeID, tt.cell)
			if !errors.Is(err, tt.want) {
				t.Errorf("BuildTower() error = %v, want %v", err, tt.want)
			}
			if ctx.Ledger.Gold() != before {
				t.Errorf("gold changed on rejection: %d -> %d", before, ctx.Ledger.Gold())
			}
		})
	}
}

func TestGoldNeverNegative(t *testing.T) {
	ctx := newTestContext(t, 0)
	// 250 gold buys two ballistas
	cells := []grid.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}
	var errs []error
	for _, c := range cells {
		_, err := BuildTower(ctx, "ballista", c)
		errs = append(errs, err)
		if ctx.Ledger.Gold() < 0 {
			t.Fatalf("gold went negative: %d", ctx.Ledger.Gold())
		}
	}
	if errs[0] != nil || errs[1] != nil {
		t.Fatalf("first two builds failed: %v", errs)
	}
	if !errors.Is(errs[2], ErrInsufficientGold) {
		t.Errorf("third build error = %v, want ErrInsufficientGold", errs[2])
	}
	if ctx.Ledger.Gold() != 50 {
		t.Errorf("gold = %d, want 50", ctx.Ledger.Gold())
	}
	if _, ok := TowerAt(ctx.EM, cells[2]); ok {
		t.Error("rejected build placed a tower")
	}
}

func TestSellRefundsInvestment(t *testing.T) {
	ctx := newTestContext(t, 0)
	id, err := BuildTower(ctx, "ballista", grid.Cell{Row: 0, Col: 0})
	if err != nil {
		t.Fatalf("BuildTower() error: %v", err)
	}
	if err := UpgradeTower(ctx, id); err != nil {
		t.Fatalf("UpgradeTower() error: %v", err)
	}
	if got := towerOf(t, ctx, id).TotalInvestment; got != 160 {
		t.Fatalf("TotalInvestment = %d, want 160", got)
	}
	gold := ctx.Ledger.Gold()
	refund, err := SellTower(ctx, id)
	if err != nil {
		t.Fatalf("SellTower() error: %v", err)
	}
	if refund != 112 {
		t.Errorf("refund = %d, want 112", refund)
	}
	if ctx.Ledger.Gold() != gold+112 {
		t.Errorf("gold = %d, want %d", ctx.Ledger.Gold(), gold+112)
	}
	if ctx.EM.IsAlive(id) {
		t.Error("sold tower is still alive")
	}
	if _, err := SellTower(ctx, id); !errors.Is(err, ErrNoSuchTower) {
		t.Errorf("second sell error = %v, want ErrNoSuchTower", err)
	}
}

func TestUpgradeRecomputesFromBase(t *testing.T) {
	ctx := newTestContext(t, 0)
	ctx.Ledger.Earn(1000)

	// (2,2) touches the damage rune at (3,2)
	id, err := BuildTower(ctx, "ballista", grid.Cell{Row: 2, Col: 2})
	if err != nil {
		t.Fatalf("BuildTower() error: %v", err)
	}
	tower := towerOf(t, ctx, id)
	if tower.Damage != 50 {
		t.Errorf("damage at build = %v, want 50", tower.Damage)
	}

	if err := UpgradeTower(ctx, id); err != nil {
		t.Fatalf("UpgradeTower() error: %v", err)
	}
	if tower.Damage != 80 {
		t.Errorf("damage after upgrade = %v, want 80", tower.Damage)
	}
	if tower.FireIntervalMs != 800 {
		t.Errorf("fire interval fell back to %v, want 800", tower.FireIntervalMs)
	}

	if err := UpgradeTower(ctx, id); err != nil {
		t.Fatalf("second UpgradeTower() error: %v", err)
	}
	if err := UpgradeTower(ctx, id); !errors.Is(err, ErrMaxLevel) {
		t.Errorf("upgrade past max error = %v, want ErrMaxLevel", err)
	}
	if tower.Level != 2 {
		t.Errorf("level = %d, want 2", tower.Level)
	}
}

func TestUpgradeInsufficientGold(t *testing.T) {
	ctx := newTestContext(t, 0)
	id, _ := BuildTower(ctx, "ballista", grid.Cell{Row: 0, Col: 0})
	id2, _ := BuildTower(ctx, "ballista", grid.Cell{Row: 0, Col: 1})
	if id == ecs.InvalidEntity || id2 == ecs.InvalidEntity {
		t.Fatal("setup builds failed")
	}
	// 50 gold left, upgrade costs 60
	if err := UpgradeTower(ctx, id); !errors.Is(err, ErrInsufficientGold) {
		t.Fatalf("UpgradeTower() error = %v, want ErrInsufficientGold", err)
	}
	if towerOf(t, ctx, id).Level != 0 || ctx.Ledger.Gold() != 50 {
		t.Error("rejected upgrade changed state")
	}
}

func TestRepairTower(t *testing.T) {
	ctx := newTestContext(t, 0)
	id, _ := BuildTower(ctx, "ballista", grid.Cell{Row: 0, Col: 0})

	if _, err := RepairTower(ctx, id); !errors.Is(err, ErrFullHealth) {
		t.Errorf("repair at full hp error = %v, want ErrFullHealth", err)
	}

	DamageTower(ctx, id, ecs.InvalidEntity, 31)
	gold := ctx.Ledger.Gold()
	cost, err := RepairTower(ctx, id)
	if err != nil {
		t.Fatalf("RepairTower() error: %v", err)
	}
	if cost != 16 {
		t.Errorf("repair cost = %d, want 16", cost)
	}
	if ctx.Ledger.Gold() != gold-16 {
		t.Errorf("gold = %d, want %d", ctx.Ledger.Gold(), gold-16)
	}
	hp, _ := ecs.GetComponent[*components.HealthComponent](ctx.EM, id)
	if hp.HP != hp.MaxHP {
		t.Errorf("hp = %v, want %v", hp.HP, hp.MaxHP)
	}
}

func TestDamageTowerDestroys(t *testing.T) {
	ctx := newTestContext(t, 0)
	rec := &event.Recorder{}
	ctx.Events.Subscribe(event.TowerDestroyed, rec)

	id, _ := BuildTower(ctx, "ballista", grid.Cell{Row: 0, Col: 0})
	if DamageTower(ctx, id, ecs.InvalidEntity, 100) {
		t.Fatal("tower destroyed before reaching 0 hp")
	}
	if !DamageTower(ctx, id, ecs.InvalidEntity, 50) {
		t.Fatal("tower survived lethal damage")
	}
	if IsLiveTower(ctx.EM, id) {
		t.Error("destroyed tower is still live")
	}
	if ctx.Stats.TowersLost != 1 || ctx.Stats.TowersStanding != 0 {
		t.Errorf("stats lost=%d standing=%d, want 1 and 0", ctx.Stats.TowersLost, ctx.Stats.TowersStanding)
	}
	if rec.Len() != 1 {
		t.Errorf("TowerDestroyed events = %d, want 1", rec.Len())
	}
	if DamageTower(ctx, id, ecs.InvalidEntity, 10) {
		t.Error("damaging a destroyed tower reported a kill")
	}
}

func TestBoostsApplyToTowers(t *testing.T) {
	level, _ := testCatalog.Level(0)
	ctx, err := NewContext(testCatalog, level, Options{Upgrades: map[string]int{
		"towerDamageBoost": 2,
		"towerHealthBoost": 1,
		"goldStartBoost":   1,
	}})
	if err != nil {
		t.Fatalf("NewContext() error: %v", err)
	}
	if ctx.Ledger.Gold() != 270 {
		t.Errorf("starting gold = %d, want 270", ctx.Ledger.Gold())
	}
	id, _ := BuildTower(ctx, "ballista", grid.Cell{Row: 0, Col: 0})
	tower := towerOf(t, ctx, id)
	if !approx(tower.Damage, 26.5) {
		t.Errorf("damage = %v, want 26.5", tower.Damage)
	}
	hp, _ := ecs.GetComponent[*components.HealthComponent](ctx.EM, id)
	if !approx(hp.MaxHP, 165) {
		t.Errorf("max hp = %v, want 165", hp.MaxHP)
	}
}
