package entities

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
)

// NewDeployable creates a persistent weapon entity (mine or gas cloud).
func NewDeployable(em *ecs.EntityManager, x, y float64, d components.DeployableComponent) ecs.EntityID {
	d.Active = true
	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.PositionComponent{X: x, Y: y})
	ecs.AddComponent(em, id, &d)
	return id
}
