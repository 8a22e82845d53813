package entities

import (
	"fmt"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/grid"
)

// NewTower creates a tower entity at tier 0.
//
// The effective stat fields start equal to the authored base stats; callers
// that apply profile boosts or runes recompute them afterwards.
//
// Parameters:
//   - em: entity manager
//   - typeID: tower type key in the tower table
//   - def: the tower definition
//   - cell: grid cell the tower occupies
//   - pos: pixel center of the cell
//   - maxHP: hit points after boosts
//
// Returns the new entity, or an error if the definition cannot be turned into
// a tower.
func NewTower(em *ecs.EntityManager, typeID string, def *config.TowerDef, cell grid.Cell, pos grid.Point, maxHP float64) (ecs.EntityID, error) {
	if em == nil {
		return ecs.InvalidEntity, fmt.Errorf("entity manager cannot be nil")
	}
	if def == nil || len(def.Tiers) == 0 {
		return ecs.InvalidEntity, fmt.Errorf("tower %s: %w", typeID, config.ErrUnknownTower)
	}
	kind, err := components.ParseTowerKind(def.Kind)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("tower %s: %w", typeID, err)
	}
	damageType, err := components.ParseDamageType(def.DamageType)
	if err != nil {
		return ecs.InvalidEntity, fmt.Errorf("tower %s: %w", typeID, err)
	}

	base := def.StatsAt(0)
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: pos.X, Y: pos.Y})
	ecs.AddComponent(em, id, &components.HealthComponent{HP: maxHP, MaxHP: maxHP})
	ecs.AddComponent(em, id, &components.TowerComponent{
		TypeID:          typeID,
		Kind:            kind,
		Cell:            cell,
		Base:            base,
		Damage:          base.Damage,
		Range:           base.Range,
		FireIntervalMs:  base.FireIntervalMs,
		SplashRadius:    base.SplashRadius,
		SlowFactor:      base.SlowFactor,
		SlowDurationMs:  base.SlowDurationMs,
		DamageType:      damageType,
		Trajectory:      components.ParseTrajectory(def.Trajectory),
		AutoHealRate:    def.AutoHealRate,
		TargetMode:      components.TargetFirst,
		TotalInvestment: def.Cost,
		MaxStacks:       def.MaxStacks,
	})
	return id, nil
}
