package systems

import (
	"log"
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
)

// Hit is one application of damage to an enemy.
type Hit struct {
	Source ecs.EntityID // tower or deployable, may be InvalidEntity
	Target ecs.EntityID
	Raw    float64
	Type   components.DamageType
}

// EffectiveDamage applies resistance to raw damage. The result is rounded and
// never below 1. Pure damage ignores resistances.
func EffectiveDamage(raw float64, t components.DamageType, enemy *components.EnemyComponent) float64 {
	res := 0.0
	if t != components.DamagePure {
		res = enemy.Resistance(t)
	}
	return math.Max(1, math.Round(raw*(1-res)))
}

// DamageEnemy applies a hit and resolves the kill when it is lethal.
// Returns the damage dealt and whether the enemy died. Hits on enemies that
// are already dead or gone are ignored.
func DamageEnemy(ctx *game.Context, hit Hit) (float64, bool) {
	if !game.IsTargetableEnemy(ctx.EM, hit.Target) {
		return 0, false
	}
	enemy, _ := ecs.GetComponent[*components.EnemyComponent](ctx.EM, hit.Target)
	hp, _ := ecs.GetComponent[*components.HealthComponent](ctx.EM, hit.Target)

	dealt := EffectiveDamage(hit.Raw, hit.Type, enemy)
	hp.HP -= dealt
	pos, _ := game.Position(ctx.EM, hit.Target)
	ctx.Emit(event.Event{
		Type:   event.HitLanded,
		Source: uint64(hit.Source),
		Target: uint64(hit.Target),
		Amount: dealt,
		Kind:   hit.Type.String(),
		X:      pos.X,
		Y:      pos.Y,
	})

	if !hp.IsDead() {
		return dealt, false
	}
	killEnemy(ctx, hit.Target, hit.Source)
	return dealt, true
}

// ApplySlow slows an enemy. A longer remaining slow is never shortened.
func ApplySlow(ctx *game.Context, id ecs.EntityID, factor, durationMs float64) {
	if factor <= 0 || durationMs <= 0 || !game.IsTargetableEnemy(ctx.EM, id) {
		return
	}
	enemy, _ := ecs.GetComponent[*components.EnemyComponent](ctx.EM, id)
	enemy.SlowFactor = factor
	enemy.Speed = enemy.BaseSpeed * factor
	enemy.SlowTimer = math.Max(enemy.SlowTimer, durationMs)
}

// killEnemy pays the reward, rolls gems, spawns split children and removes
// the enemy.
func killEnemy(ctx *game.Context, id, source ecs.EntityID) {
	enemy, _ := ecs.GetComponent[*components.EnemyComponent](ctx.EM, id)
	pos, _ := game.Position(ctx.EM, id)

	bonus := ctx.Combo.RegisterKill(enemy.Reward)
	ctx.EarnGold(enemy.Reward, "kill")
	if bonus > 0 {
		ctx.EarnGold(bonus, "combo")
	}
	ctx.Emit(event.Event{Type: event.ComboUpdated, Amount: float64(ctx.Combo.Count())})

	ctx.Stats.Kills++
	if enemy.Boss {
		ctx.Stats.BossKills++
	}
	game.RollGemDrop(ctx, enemy.Reward, enemy.Boss, pos.X, pos.Y)

	ctx.EM.DestroyEntity(id)
	if ctx.FocusTarget == id {
		ctx.FocusTarget = ecs.InvalidEntity
	}
	ctx.Emit(event.Event{
		Type:   event.EnemyDied,
		Source: uint64(source),
		Target: uint64(id),
		Kind:   enemy.TypeID,
		Amount: float64(enemy.Reward),
		X:      pos.X,
		Y:      pos.Y,
	})

	if enemy.Splits > 0 {
		spawnSplit(ctx, enemy, pos.X, pos.Y)
	}
}

// removeEnemy takes an enemy off the board without a reward.
func removeEnemy(ctx *game.Context, id ecs.EntityID, reason string) {
	enemy, ok := ecs.GetComponent[*components.EnemyComponent](ctx.EM, id)
	if !ok {
		return
	}
	pos, _ := game.Position(ctx.EM, id)
	ctx.EM.DestroyEntity(id)
	if ctx.FocusTarget == id {
		ctx.FocusTarget = ecs.InvalidEntity
	}
	ctx.Emit(event.Event{Type: event.EnemyDied, Target: uint64(id), Kind: enemy.TypeID, Reason: reason, X: pos.X, Y: pos.Y})
}

// spawnSplit places the children of a splitting enemy at its position. They
// keep the parent's path progress and spawn scaling.
func spawnSplit(ctx *game.Context, parent *components.EnemyComponent, x, y float64) {
	def, ok := ctx.Catalog.Enemies.Get(parent.SplitInto)
	if !ok {
		log.Printf("[DamageSystem] Unknown split type %q", parent.SplitInto)
		return
	}
	scale := entities.EnemyScaling{HP: parent.HPScale, Speed: parent.SpeedScale, Reward: parent.RewardScale}
	at := entities.SpawnPoint{X: x, Y: y, WaypointIndex: parent.WaypointIndex, Wave: parent.Wave}
	for i := 0; i < parent.Splits; i++ {
		child, err := entities.NewEnemy(ctx.EM, parent.SplitInto, def, scale, at)
		if err != nil {
			log.Printf("[DamageSystem] Failed to spawn split child: %v", err)
			return
		}
		ctx.Emit(event.Event{Type: event.EnemySpawned, Target: uint64(child), Kind: parent.SplitInto, X: x, Y: y, Reason: "split"})
	}
}
