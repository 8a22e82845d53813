package entities

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
)

// NewProjectile creates a projectile entity at (x, y).
func NewProjectile(em *ecs.EntityManager, x, y float64, p components.ProjectileComponent) ecs.EntityID {
	p.OriginX, p.OriginY = x, y
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &p)
	return id
}
