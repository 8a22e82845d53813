package grid

import "fmt"

// Route is the resolved enemy path for a level.
type Route struct {
	Cells     []Cell
	Waypoints []Point
}

// Len returns the number of waypoints.
func (r *Route) Len() int { return len(r.Waypoints) }

// ResolvePath runs a breadth-first search from the unique spawn cell through
// walkable cells and reconstructs the route to the first exit reached.
//
// Levels are authored with exactly one simple path, so BFS and the parent
// walk both terminate deterministically. A grid without a reachable exit is a
// level-data error and is returned as such.
func ResolvePath(g *Grid) (*Route, error) {
	spawns := g.Find(Spawn)
	switch {
	case len(spawns) == 0:
		return nil, ErrNoSpawn
	case len(spawns) > 1:
		return nil, fmt.Errorf("%d spawn cells: %w", len(spawns), ErrMultipleSpawns)
	}
	start := spawns[0]

	visited := map[Cell]bool{start: true}
	parent := map[Cell]Cell{}
	queue := []Cell{start}
	found := false
	var end Cell

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if g.At(cur) == Exit {
			end = cur
			found = true
			break
		}
		for _, d := range orthogonal {
			next := Cell{Row: cur.Row + d.Row, Col: cur.Col + d.Col}
			if !g.InBounds(next) || visited[next] || !g.At(next).IsWalkable() {
				continue
			}
			visited[next] = true
			parent[next] = cur
			queue = append(queue, next)
		}
	}

	if !found {
		return nil, fmt.Errorf("spawn at (%d,%d): %w", start.Row, start.Col, ErrNoPath)
	}

	var cells []Cell
	for cur := end; ; {
		cells = append(cells, cur)
		p, ok := parent[cur]
		if !ok {
			break
		}
		cur = p
	}
	for i, j := 0, len(cells)-1; i < j; i, j = i+1, j-1 {
		cells[i], cells[j] = cells[j], cells[i]
	}

	waypoints := make([]Point, len(cells))
	for i, c := range cells {
		waypoints[i] = g.CellCenter(c)
	}
	return &Route{Cells: cells, Waypoints: waypoints}, nil
}
