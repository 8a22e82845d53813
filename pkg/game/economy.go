package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/grid"
)

// Rejection reasons for player economy actions. A rejected action leaves the
// ledger and every entity untouched.
var (
	ErrInsufficientGold = errors.New("insufficient gold")
	ErrTowerUnavailable = errors.New("tower type not available")
	ErrOutOfBounds      = errors.New("cell out of bounds")
	ErrNotBuildable     = errors.New("cell is not buildable")
	ErrCellOccupied     = errors.New("cell is occupied")
	ErrNoSuchTower      = errors.New("no such tower")
	ErrMaxLevel         = errors.New("tower is at max level")
	ErrFullHealth       = errors.New("tower is at full health")
	ErrRunEnded         = errors.New("run has ended")
)

// BuildTower debits the build cost and places a tower on a cell.
func BuildTower(ctx *Context, typeID string, cell grid.Cell) (ecs.EntityID, error) {
	if ctx.Phase.Ended() {
		return ecs.InvalidEntity, ErrRunEnded
	}
	def, ok := ctx.Catalog.Towers.Get(typeID)
	if !ok || !ctx.Catalog.TowerAvailable(ctx.Level, typeID) {
		return ecs.InvalidEntity, fmt.Errorf("%s: %w", typeID, ErrTowerUnavailable)
	}
	if !ctx.Grid.InBounds(cell) {
		return ecs.InvalidEntity, ErrOutOfBounds
	}
	if !ctx.Grid.IsBuildable(cell) {
		return ecs.InvalidEntity, ErrNotBuildable
	}
	if _, occupied := TowerAt(ctx.EM, cell); occupied {
		return ecs.InvalidEntity, ErrCellOccupied
	}
	if !ctx.Ledger.Spend(def.Cost) {
		return ecs.InvalidEntity, ErrInsufficientGold
	}

	id, err := entities.NewTower(ctx.EM, typeID, def, cell, ctx.Grid.CellCenter(cell), TowerMaxHP(ctx, typeID))
	if err != nil {
		ctx.Ledger.Earn(def.Cost)
		return ecs.InvalidEntity, err
	}
	ApplyTowerStats(ctx, id)
	ctx.Stats.TowerBuilt(typeID)

	pos := ctx.Grid.CellCenter(cell)
	ctx.Emit(event.Event{Type: event.TowerBuilt, Source: uint64(id), Kind: typeID, Amount: float64(def.Cost), X: pos.X, Y: pos.Y})
	return id, nil
}

// UpgradeTower debits the next tier's cost and moves the tower to it.
func UpgradeTower(ctx *Context, id ecs.EntityID) error {
	if ctx.Phase.Ended() {
		return ErrRunEnded
	}
	tower, ok := liveTower(ctx, id)
	if !ok {
		return ErrNoSuchTower
	}
	def, ok := ctx.Catalog.Towers.Get(tower.TypeID)
	if !ok {
		return ErrTowerUnavailable
	}
	next := tower.Level + 1
	cost, ok := def.UpgradeCost(next)
	if !ok {
		return ErrMaxLevel
	}
	if !ctx.Ledger.Spend(cost) {
		return ErrInsufficientGold
	}

	tower.Level = next
	tower.Base = def.StatsAt(next)
	tower.TotalInvestment += cost
	ApplyTowerStats(ctx, id)

	ctx.Emit(event.Event{Type: event.TowerUpgraded, Source: uint64(id), Kind: tower.TypeID, Amount: float64(next)})
	return nil
}

// SellValue returns the refund for selling a tower.
func SellValue(ctx *Context, tower *components.TowerComponent) int {
	return int(math.Floor(float64(tower.TotalInvestment) * ctx.Tuning.SellRefundRate))
}

// SellTower refunds a fraction of everything invested in a tower and removes it.
func SellTower(ctx *Context, id ecs.EntityID) (int, error) {
	if ctx.Phase.Ended() {
		return 0, ErrRunEnded
	}
	tower, ok := liveTower(ctx, id)
	if !ok {
		return 0, ErrNoSuchTower
	}
	refund := SellValue(ctx, tower)
	ctx.Ledger.Earn(refund)
	ctx.Stats.TowerRemoved(false)
	ctx.EM.DestroyEntity(id)

	ctx.Emit(event.Event{Type: event.TowerSold, Source: uint64(id), Kind: tower.TypeID, Amount: float64(refund)})
	return refund, nil
}

// RepairCost returns the gold needed to restore a tower to full health.
func RepairCost(ctx *Context, hp *components.HealthComponent) int {
	return int(math.Ceil(hp.Missing() * ctx.Tuning.RepairCostPerHP))
}

// RepairTower restores a damaged tower to full health.
func RepairTower(ctx *Context, id ecs.EntityID) (int, error) {
	if ctx.Phase.Ended() {
		return 0, ErrRunEnded
	}
	tower, ok := liveTower(ctx, id)
	if !ok {
		return 0, ErrNoSuchTower
	}
	hp, ok := ecs.GetComponent[*components.HealthComponent](ctx.EM, id)
	if !ok || hp.Missing() <= 0 {
		return 0, ErrFullHealth
	}
	cost := RepairCost(ctx, hp)
	if !ctx.Ledger.Spend(cost) {
		return 0, ErrInsufficientGold
	}
	hp.HP = hp.MaxHP

	ctx.Emit(event.Event{Type: event.TowerRepaired, Source: uint64(id), Kind: tower.TypeID, Amount: float64(cost)})
	return cost, nil
}

// DamageTower applies enemy damage to a tower and destroys it at hp <= 0.
// Returns true when the tower was destroyed by this call.
func DamageTower(ctx *Context, id, source ecs.EntityID, amount float64) bool {
	if amount <= 0 || !IsLiveTower(ctx.EM, id) {
		return false
	}
	hp, ok := ecs.GetComponent[*components.HealthComponent](ctx.EM, id)
	if !ok {
		return false
	}
	hp.HP -= amount
	ctx.Emit(event.Event{Type: event.TowerDamaged, Source: uint64(source), Target: uint64(id), Amount: amount})
	if !hp.IsDead() {
		return false
	}

	tower, _ := ecs.GetComponent[*components.TowerComponent](ctx.EM, id)
	ctx.Stats.TowerRemoved(true)
	ctx.EM.DestroyEntity(id)
	pos, _ := Position(ctx.EM, id)
	ctx.Emit(event.Event{Type: event.TowerDestroyed, Source: uint64(source), Target: uint64(id), Kind: tower.TypeID, X: pos.X, Y: pos.Y})
	return true
}

// SetTargetMode changes a tower's acquisition priority.
func SetTargetMode(ctx *Context, id ecs.EntityID, mode components.TargetMode) error {
	tower, ok := liveTower(ctx, id)
	if !ok {
		return ErrNoSuchTower
	}
	tower.TargetMode = mode
	return nil
}

func liveTower(ctx *Context, id ecs.EntityID) (*components.TowerComponent, bool) {
	if !IsLiveTower(ctx.EM, id) {
		return nil, false
	}
	return ecs.GetComponent[*components.TowerComponent](ctx.EM, id)
}
