package game

import (
	"errors"
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
)

// ErrNoSuchPickup is returned when a gem or chest no longer exists.
var ErrNoSuchPickup = errors.New("no such pickup")

// GemDropChance returns the probability that an enemy with this reward drops
// gems on the current difficulty.
func GemDropChance(ctx *Context, reward int, boss bool) float64 {
	if boss {
		return 1
	}
	g := ctx.Tuning.Gems
	chance := (g.BaseChance + float64(reward)*g.ChancePerReward) * ctx.Preset.GemMult
	return math.Min(1, chance)
}

// GemDropAmount returns how many gems a drop from this reward tier holds.
func GemDropAmount(ctx *Context, reward int) int {
	per := ctx.Tuning.Gems.RewardPerGem
	if per <= 0 {
		return 1
	}
	return 1 + reward/per
}

// RollGemDrop rolls a drop for a killed enemy and, on success, places a gem
// pickup that auto-collects when its window elapses.
func RollGemDrop(ctx *Context, reward int, boss bool, x, y float64) (ecs.EntityID, bool) {
	if !ctx.RNG.Chance(GemDropChance(ctx, reward, boss)) {
		return ecs.InvalidEntity, false
	}
	amount := GemDropAmount(ctx, reward)
	due := ctx.Now() + ctx.Tuning.Gems.PickupWindowMs
	id := entities.NewGemDrop(ctx.EM, x, y, amount, due)

	ctx.Scheduler.At(due, func() {
		// may already be collected by hand
		CollectGem(ctx, id)
	})
	ctx.Emit(event.Event{Type: event.GemDropped, Target: uint64(id), Amount: float64(amount), X: x, Y: y})
	return id, true
}

// CollectGem credits a gem pickup and removes it.
func CollectGem(ctx *Context, id ecs.EntityID) (int, error) {
	if !ctx.EM.IsAlive(id) {
		return 0, ErrNoSuchPickup
	}
	gem, ok := ecs.GetComponent[*components.GemDropComponent](ctx.EM, id)
	if !ok {
		return 0, ErrNoSuchPickup
	}
	ctx.Ledger.AddGems(gem.Amount)
	ctx.Stats.GemsCollected += gem.Amount
	ctx.EM.DestroyEntity(id)
	ctx.Emit(event.Event{Type: event.GemCollected, Target: uint64(id), Amount: float64(gem.Amount)})
	return gem.Amount, nil
}

// OpenChest credits a chest's gold once.
func OpenChest(ctx *Context, id ecs.EntityID) (int, error) {
	if ctx.Phase.Ended() {
		return 0, ErrRunEnded
	}
	if !ctx.EM.IsAlive(id) {
		return 0, ErrNoSuchPickup
	}
	f, ok := ecs.GetComponent[*components.FeatureComponent](ctx.EM, id)
	if !ok || f.Kind != components.FeatureChest || f.Opened {
		return 0, ErrNoSuchPickup
	}
	f.Opened = true
	ctx.EarnGold(f.Gold, "chest")
	ctx.Emit(event.Event{Type: event.ChestOpened, Target: uint64(id), Amount: float64(f.Gold)})
	return f.Gold, nil
}
