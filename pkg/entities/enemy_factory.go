package entities

import (
	"fmt"
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
)

// EnemyScaling multiplies the authored stats of a spawned enemy. Difficulty
// and endless multipliers are combined into one value per stat by the
// caller.
type EnemyScaling struct {
	HP     float64
	Speed  float64
	Reward float64
}

// NoScaling leaves authored stats unchanged.
var NoScaling = EnemyScaling{HP: 1, Speed: 1, Reward: 1}

// SpawnPoint places an enemy on the route.
type SpawnPoint struct {
	X, Y          float64
	WaypointIndex int // waypoint the enemy walks towards
	Wave          int
}

// NewEnemy creates an enemy entity from its definition.
func NewEnemy(em *ecs.EntityManager, typeID string, def *config.EnemyDef, scale EnemyScaling, at SpawnPoint) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}
	if def == nil {
		return ecs.InvalidEntity, fmt.Errorf("enemy %s: %w", typeID, config.ErrUnknownEnemy)
	}
	if scale.HP <= 0 {
		scale.HP = 1
	}
	if scale.Speed <= 0 {
		scale.Speed = 1
	}
	if scale.Reward <= 0 {
		scale.Reward = 1
	}

	hp := math.Max(1, math.Round(float64(def.HP)*scale.HP))
	speed := def.Speed * scale.Speed

	enemy := &components.EnemyComponent{
		TypeID:        typeID,
		BaseSpeed:     speed,
		Speed:         speed,
		SlowFactor:    1,
		Reward:        int(math.Round(float64(def.Reward) * scale.Reward)),
		ContactDamage: def.ContactDamage,
		BlastDamage:   def.BlastDamage,
		Resistances:   def.Resistances,
		WaypointIndex: at.WaypointIndex,
		Flying:        def.Flying,
		Melee:         def.Melee,
		Boss:          def.Boss,
		Kamikaze:      def.Kamikaze,
		Splits:        def.Splits,
		SplitInto:     def.SplitInto,
		RegenPerSec:   def.RegenPerSec,
		TowerDPS:      def.TowerDPS,
		Wave:          at.Wave,
		HPScale:       scale.HP,
		SpeedScale:    scale.Speed,
		RewardScale:   scale.Reward,
	}
	if def.Ability != nil {
		enemy.Ability = components.ParseBossAbility(def.Ability.Kind)
		enemy.AbilityDef = def.Ability
		enemy.AbilityTimer = def.Ability.IntervalMs
	}

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: at.X, Y: at.Y})
	ecs.AddComponent(em, id, &components.HealthComponent{HP: hp, MaxHP: hp})
	ecs.AddComponent(em, id, enemy)
	return id, nil
}
