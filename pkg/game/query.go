package game

import (
	"math"
	"sort"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/grid"
)

// Queries over the entity manager. Every query skips dead and dying
// entities and returns results in creation order unless stated otherwise.

// IsTargetableEnemy reports whether id is a live enemy with hit points left.
func IsTargetableEnemy(em *ecs.EntityManager, id ecs.EntityID) bool {
	if id == ecs.InvalidEntity || !em.IsAlive(id) {
		return false
	}
	if !ecs.HasComponent[*components.EnemyComponent](em, id) {
		return false
	}
	hp, ok := ecs.GetComponent[*components.HealthComponent](em, id)
	return ok && !hp.IsDead()
}

// IsLiveTower reports whether id is a standing tower.
func IsLiveTower(em *ecs.EntityManager, id ecs.EntityID) bool {
	return id != ecs.InvalidEntity && em.IsAlive(id) && ecs.HasComponent[*components.TowerComponent](em, id)
}

// Position returns the position of an entity.
func Position(em *ecs.EntityManager, id ecs.EntityID) (grid.Point, bool) {
	pos, ok := ecs.GetComponent[*components.PositionComponent](em, id)
	if !ok {
		return grid.Point{}, false
	}
	return grid.Point{X: pos.X, Y: pos.Y}, true
}

// TowerAt returns the tower standing on a cell.
func TowerAt(em *ecs.EntityManager, cell grid.Cell) (ecs.EntityID, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.TowerComponent](em) {
		t, _ := ecs.GetComponent[*components.TowerComponent](em, id)
		if t.Cell == cell {
			return id, true
		}
	}
	return ecs.InvalidEntity, false
}

// Towers returns every standing tower.
func Towers(em *ecs.EntityManager) []ecs.EntityID {
	return ecs.GetEntitiesWith2[*components.TowerComponent, *components.PositionComponent](em)
}

// Enemies returns every enemy with hit points left.
func Enemies(em *ecs.EntityManager) []ecs.EntityID {
	ids := ecs.GetEntitiesWith2[*components.EnemyComponent, *components.HealthComponent](em)
	out := ids[:0]
	for _, id := range ids {
		hp, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		if !hp.IsDead() {
			out = append(out, id)
		}
	}
	return out
}

// LiveEnemyCount returns the number of enemies still on the board.
func LiveEnemyCount(em *ecs.EntityManager) int {
	return len(Enemies(em))
}

// EnemiesInRadius returns live enemies whose distance to p is <= r.
func EnemiesInRadius(em *ecs.EntityManager, p grid.Point, r float64) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range Enemies(em) {
		pos, ok := Position(em, id)
		if ok && pos.Distance(p) <= r {
			out = append(out, id)
		}
	}
	return out
}

// TowersInRadius returns standing towers whose distance to p is <= r.
func TowersInRadius(em *ecs.EntityManager, p grid.Point, r float64) []ecs.EntityID {
	var out []ecs.EntityID
	for _, id := range Towers(em) {
		pos, _ := Position(em, id)
		if pos.Distance(p) <= r {
			out = append(out, id)
		}
	}
	return out
}

// NearestTower returns the closest standing tower within maxDist of p.
// Ties keep the earlier-built tower.
func NearestTower(em *ecs.EntityManager, p grid.Point, maxDist float64) (ecs.EntityID, bool) {
	best := ecs.InvalidEntity
	bestDist := math.Inf(1)
	for _, id := range Towers(em) {
		pos, _ := Position(em, id)
		if d := pos.Distance(p); d <= maxDist && d < bestDist {
			best, bestDist = id, d
		}
	}
	return best, best != ecs.InvalidEntity
}

// DistanceToNextWaypoint measures how far an enemy still is from the
// waypoint it walks towards. Smaller means further along.
func DistanceToNextWaypoint(em *ecs.EntityManager, route *grid.Route, id ecs.EntityID) float64 {
	enemy, ok := ecs.GetComponent[*components.EnemyComponent](em, id)
	if !ok {
		return math.Inf(1)
	}
	pos, _ := Position(em, id)
	idx := enemy.WaypointIndex
	if idx >= route.Len() {
		idx = route.Len() - 1
	}
	return pos.Distance(route.Waypoints[idx])
}

// EnemiesByProgress returns live enemies ordered furthest-along first:
// higher waypoint index, then smaller distance to the next waypoint, then
// creation order.
func EnemiesByProgress(em *ecs.EntityManager, route *grid.Route) []ecs.EntityID {
	ids := Enemies(em)
	type keyed struct {
		id   ecs.EntityID
		idx  int
		dist float64
	}
	ks := make([]keyed, len(ids))
	for i, id := range ids {
		e, _ := ecs.GetComponent[*components.EnemyComponent](em, id)
		ks[i] = keyed{id: id, idx: e.WaypointIndex, dist: DistanceToNextWaypoint(em, route, id)}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].idx != ks[j].idx {
			return ks[i].idx > ks[j].idx
		}
		return ks[i].dist < ks[j].dist
	})
	out := make([]ecs.EntityID, len(ks))
	for i, k := range ks {
		out[i] = k.id
	}
	return out
}

// FeaturesAround returns the set of feature kinds in the 8-neighbourhood of
// a cell.
func FeaturesAround(em *ecs.EntityManager, g *grid.Grid, cell grid.Cell) map[components.FeatureKind]bool {
	near := make(map[grid.Cell]bool, 8)
	for _, n := range g.Neighbors8(cell) {
		near[n] = true
	}
	kinds := make(map[components.FeatureKind]bool)
	for _, id := range ecs.GetEntitiesWith1[*components.FeatureComponent](em) {
		f, _ := ecs.GetComponent[*components.FeatureComponent](em, id)
		if near[f.Cell] {
			kinds[f.Kind] = true
		}
	}
	return kinds
}
