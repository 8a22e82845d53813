package systems

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
)

// EconomySystem runs the timed parts of the economy: combo window decay and
// gold deposit income. Gem pickups run on the scheduler.
type EconomySystem struct {
	ctx *game.Context
}

// NewEconomySystem creates an economy system.
func NewEconomySystem(ctx *game.Context) *EconomySystem {
	return &EconomySystem{ctx: ctx}
}

// Update advances economy timers by dtMs of sim time.
func (s *EconomySystem) Update(dtMs float64) {
	ctx := s.ctx
	if ctx.Combo.Update(dtMs) {
		ctx.Emit(event.Event{Type: event.ComboUpdated, Amount: 0})
	}

	deposit := ctx.Deposit
	if deposit.Income <= 0 || deposit.IntervalMs <= 0 {
		return
	}
	for _, id := range ecs.GetEntitiesWith1[*components.FeatureComponent](ctx.EM) {
		f, _ := ecs.GetComponent[*components.FeatureComponent](ctx.EM, id)
		if f.Kind != components.FeatureDeposit || !s.worked(f) {
			continue
		}
		f.IncomeTimer -= dtMs
		for f.IncomeTimer <= 0 {
			f.IncomeTimer += deposit.IntervalMs
			ctx.EarnGold(deposit.Income, "deposit")
		}
	}
}

// worked reports whether a tower stands next to the deposit.
func (s *EconomySystem) worked(f *components.FeatureComponent) bool {
	for _, n := range s.ctx.Grid.Neighbors8(f.Cell) {
		if _, ok := game.TowerAt(s.ctx.EM, n); ok {
			return true
		}
	}
	return false
}
