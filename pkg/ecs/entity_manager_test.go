package ecs

import "testing"

type testPositionComponent struct {
	X, Y float64
}

type testVelocityComponent struct {
	VX, VY float64
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}
	if id1 == InvalidEntity || id2 == InvalidEntity {
		t.Error("CreateEntity must never return the invalid handle")
	}
	if id1.Index() != 1 {
		t.Errorf("First entity index should be 1, got %d", id1.Index())
	}
	if id2.Index() != 2 {
		t.Errorf("Second entity index should be 2, got %d", id2.Index())
	}
}

func TestAddAndGetComponent(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()

	AddComponent(em, id, &testPositionComponent{X: 100, Y: 200})

	pos, ok := GetComponent[*testPositionComponent](em, id)
	if !ok {
		t.Fatal("Component should be found")
	}
	if pos.X != 100 || pos.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", pos.X, pos.Y)
	}

	if HasComponent[*testVelocityComponent](em, id) {
		t.Error("Velocity component should not exist")
	}

	RemoveComponent[*testPositionComponent](em, id)
	if HasComponent[*testPositionComponent](em, id) {
		t.Error("Position component should be removed")
	}
}

func TestDestroyEntityIsDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testPositionComponent{})

	em.DestroyEntity(id)

	if em.IsAlive(id) {
		t.Error("Marked entity should no longer be alive")
	}
	if !em.Exists(id) {
		t.Error("Marked entity should still be stored before cleanup")
	}
	if !HasComponent[*testPositionComponent](em, id) {
		t.Error("Components of a marked entity stay readable until cleanup")
	}
	if got := GetEntitiesWith1[*testPositionComponent](em); len(got) != 0 {
		t.Errorf("Queries should skip marked entities, got %v", got)
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after cleanup")
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	em := NewEntityManager()
	old := em.CreateEntity()
	AddComponent(em, old, &testPositionComponent{X: 1})
	em.DestroyEntity(old)
	em.RemoveMarkedEntities()

	reused := em.CreateEntity()
	AddComponent(em, reused, &testPositionComponent{X: 2})

	if reused.Index() != old.Index() {
		t.Fatalf("Expected slot reuse, got index %d want %d", reused.Index(), old.Index())
	}
	if reused.Generation() == old.Generation() {
		t.Fatal("Reused slot must bump generation")
	}
	if em.IsAlive(old) {
		t.Error("Stale handle must not resolve")
	}
	if _, ok := GetComponent[*testPositionComponent](em, old); ok {
		t.Error("Stale handle must not read the new owner's components")
	}
	AddComponent(em, old, &testVelocityComponent{})
	if HasComponent[*testVelocityComponent](em, reused) {
		t.Error("Writing through a stale handle must be a no-op")
	}
}

func TestGetEntitiesWithKeepsCreationOrder(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	AddComponent(em, id1, &testPositionComponent{})
	AddComponent(em, id1, &testVelocityComponent{})

	id2 := em.CreateEntity()
	AddComponent(em, id2, &testPositionComponent{})

	id3 := em.CreateEntity()
	AddComponent(em, id3, &testVelocityComponent{})

	id4 := em.CreateEntity()
	AddComponent(em, id4, &testPositionComponent{})

	both := GetEntitiesWith2[*testPositionComponent, *testVelocityComponent](em)
	if len(both) != 1 || both[0] != id1 {
		t.Errorf("Expected only id1 with both components, got %v", both)
	}

	posEntities := GetEntitiesWith1[*testPositionComponent](em)
	want := []EntityID{id1, id2, id4}
	if len(posEntities) != len(want) {
		t.Fatalf("Expected %d entities with Position, got %d", len(want), len(posEntities))
	}
	for i := range want {
		if posEntities[i] != want[i] {
			t.Errorf("posEntities[%d] = %v, want %v", i, posEntities[i], want[i])
		}
	}
}

func TestDestroyMultipleEntities(t *testing.T) {
	em := NewEntityManager()

	id1 := em.CreateEntity()
	id2 := em.CreateEntity()
	id3 := em.CreateEntity()

	em.DestroyEntity(id1)
	em.DestroyEntity(id3)
	em.DestroyEntity(id3)
	em.RemoveMarkedEntities()

	if em.Exists(id1) || em.Exists(id3) {
		t.Error("id1 and id3 should be removed")
	}
	if !em.IsAlive(id2) {
		t.Error("id2 should still exist")
	}
	if em.Count() != 1 {
		t.Errorf("Count() = %d, want 1", em.Count())
	}

	em.Clear()
	if em.Count() != 0 || em.Exists(id2) {
		t.Error("Clear should drop every entity")
	}
}
