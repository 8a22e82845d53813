package ecs

import "reflect"

// EntityID is a generation-checked handle.
//
// The low 32 bits hold the slot index (starting at 1, 0 means "no entity") and
// the high 32 bits hold the slot generation. A slot is reused only after the
// entity that owned it has been removed, and reuse bumps the generation, so a
// stale ID held by a projectile or a tower never resolves to the new owner.
type EntityID uint64

// InvalidEntity is the zero handle.
const InvalidEntity EntityID = 0

func makeID(index, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index of the handle.
func (id EntityID) Index() uint32 { return uint32(id) }

// Generation returns the slot generation of the handle.
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }

type slot struct {
	generation uint32
	live       bool
	dying      bool
	components map[reflect.Type]interface{}
}

// EntityManager owns all entities and their components.
//
// Responsibilities:
//   - issue generation-checked IDs
//   - keep insertion order so every query is deterministic
//   - defer destruction until RemoveMarkedEntities, while hiding dying
//     entities from queries immediately
type EntityManager struct {
	slots []slot // slots[0] is unused
	free  []uint32
	order []EntityID

	entitiesToDestroy []EntityID
}

// NewEntityManager creates an empty EntityManager.
func NewEntityManager() *EntityManager {
	return &EntityManager{
		slots:             make([]slot, 1),
		free:              make([]uint32, 0),
		order:             make([]EntityID, 0),
		entitiesToDestroy: make([]EntityID, 0),
	}
}

// CreateEntity creates a new entity and returns its handle.
func (em *EntityManager) CreateEntity() EntityID {
	var index uint32
	if n := len(em.free); n > 0 {
		index = em.free[n-1]
		em.free = em.free[:n-1]
	} else {
		em.slots = append(em.slots, slot{})
		index = uint32(len(em.slots) - 1)
	}

	s := &em.slots[index]
	s.live = true
	s.dying = false
	s.components = make(map[reflect.Type]interface{})

	id := makeID(index, s.generation)
	em.order = append(em.order, id)
	return id
}

func (em *EntityManager) resolve(id EntityID) *slot {
	index := id.Index()
	if index == 0 || int(index) >= len(em.slots) {
		return nil
	}
	s := &em.slots[index]
	if !s.live || s.generation != id.Generation() {
		return nil
	}
	return s
}

// Exists reports whether the handle still refers to a stored entity,
// including entities marked for destruction in the current tick.
func (em *EntityManager) Exists(id EntityID) bool {
	return em.resolve(id) != nil
}

// IsAlive reports whether the handle refers to a stored entity that has not
// been marked for destruction.
func (em *EntityManager) IsAlive(id EntityID) bool {
	s := em.resolve(id)
	return s != nil && !s.dying
}

// DestroyEntity marks an entity for removal. The entity disappears from
// queries at once; its storage is released by RemoveMarkedEntities.
func (em *EntityManager) DestroyEntity(id EntityID) {
	s := em.resolve(id)
	if s == nil || s.dying {
		return
	}
	s.dying = true
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// RemoveMarkedEntities releases all entities marked by DestroyEntity.
func (em *EntityManager) RemoveMarkedEntities() {
	if len(em.entitiesToDestroy) == 0 {
		return
	}
	for _, id := range em.entitiesToDestroy {
		s := em.resolve(id)
		if s == nil {
			continue
		}
		s.live = false
		s.dying = false
		s.components = nil
		s.generation++
		em.free = append(em.free, id.Index())
	}
	em.entitiesToDestroy = em.entitiesToDestroy[:0]

	kept := em.order[:0]
	for _, id := range em.order {
		if em.resolve(id) != nil {
			kept = append(kept, id)
		}
	}
	em.order = kept
}

// Clear drops every entity. Handles issued before Clear never resolve again.
func (em *EntityManager) Clear() {
	for _, id := range em.order {
		em.DestroyEntity(id)
	}
	em.RemoveMarkedEntities()
}

// Count returns the number of alive entities.
func (em *EntityManager) Count() int {
	n := 0
	for _, id := range em.order {
		if em.IsAlive(id) {
			n++
		}
	}
	return n
}

// Entities returns alive entities in creation order.
func (em *EntityManager) Entities() []EntityID {
	result := make([]EntityID, 0, len(em.order))
	for _, id := range em.order {
		if em.IsAlive(id) {
			result = append(result, id)
		}
	}
	return result
}

func (em *EntityManager) addComponent(id EntityID, component interface{}) {
	if s := em.resolve(id); s != nil {
		s.components[reflect.TypeOf(component)] = component
	}
}

func (em *EntityManager) getComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	s := em.resolve(id)
	if s == nil {
		return nil, false
	}
	comp, ok := s.components[componentType]
	return comp, ok
}

func (em *EntityManager) removeComponent(id EntityID, componentType reflect.Type) {
	if s := em.resolve(id); s != nil {
		delete(s.components, componentType)
	}
}

// entitiesWith returns alive entities owning every listed component type,
// in creation order.
func (em *EntityManager) entitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	for _, id := range em.order {
		s := em.resolve(id)
		if s == nil || s.dying {
			continue
		}
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := s.components[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}
	return result
}
