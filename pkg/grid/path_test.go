package grid

import (
	"errors"
	"testing"
)

func mustGrid(t *testing.T, rows [][]int) *Grid {
	t.Helper()
	g, err := New(rows, DefaultTileSize)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return g
}

func TestResolvePathProperties(t *testing.T) {
	tests := []struct {
		name string
		rows [][]int
		want int
	}{
		{
			name: "straight line",
			rows: [][]int{
				{0, 0, 0, 0},
				{2, 1, 1, 3},
				{0, 0, 0, 0},
			},
			want: 4,
		},
		{
			name: "snake with features",
			rows: [][]int{
				{2, 1, 1, 0, 4},
				{0, 6, 1, 0, 0},
				{0, 0, 1, 1, 1},
				{5, 7, 0, 8, 1},
				{0, 0, 3, 1, 1},
			},
			want: 11,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.rows)
			route, err := ResolvePath(g)
			if err != nil {
				t.Fatalf("ResolvePath() error: %v", err)
			}
			if route.Len() != tt.want {
				t.Fatalf("route length = %d, want %d", route.Len(), tt.want)
			}

			spawn := g.Find(Spawn)[0]
			exit := g.Find(Exit)[0]
			if route.Waypoints[0] != g.CellCenter(spawn) {
				t.Errorf("route starts at %v, want spawn center %v", route.Waypoints[0], g.CellCenter(spawn))
			}
			if route.Waypoints[route.Len()-1] != g.CellCenter(exit) {
				t.Errorf("route ends at %v, want exit center %v", route.Waypoints[route.Len()-1], g.CellCenter(exit))
			}

			for i := 1; i < len(route.Cells); i++ {
				a, b := route.Cells[i-1], route.Cells[i]
				dr, dc := abs(a.Row-b.Row), abs(a.Col-b.Col)
				if dr+dc != 1 {
					t.Errorf("step %d: %v -> %v is not an orthogonal neighbour", i, a, b)
				}
				if !g.At(b).IsWalkable() {
					t.Errorf("step %d: %v is not walkable", i, b)
				}
			}
		})
	}
}

func TestResolvePathErrors(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]int
		wantErr error
	}{
		{"no spawn", [][]int{{1, 1, 3}}, ErrNoSpawn},
		{"two spawns", [][]int{{2, 1, 2, 3}}, ErrMultipleSpawns},
		{"exit unreachable", [][]int{{2, 1, 0, 3}}, ErrNoPath},
		{"no exit at all", [][]int{{2, 1, 1, 1}}, ErrNoPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, tt.rows)
			_, err := ResolvePath(g)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolvePath() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewRejectsMalformedGrids(t *testing.T) {
	if _, err := New(nil, 64); !errors.Is(err, ErrEmptyGrid) {
		t.Errorf("empty grid: got %v", err)
	}
	if _, err := New([][]int{{0, 0}, {0}}, 64); !errors.Is(err, ErrRaggedGrid) {
		t.Errorf("ragged grid: got %v", err)
	}
	if _, err := New([][]int{{0, 9}}, 64); !errors.Is(err, ErrUnknownCell) {
		t.Errorf("unknown code: got %v", err)
	}
}

func TestCoordinates(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 0}, {2, 3}})
	c := Cell{Row: 1, Col: 1}
	p := g.CellCenter(c)
	if p.X != 96 || p.Y != 96 {
		t.Errorf("CellCenter(%v) = %v, want (96,96)", c, p)
	}
	if got := g.PixelToCell(Point{X: 127.9, Y: 64}); got != c {
		t.Errorf("PixelToCell = %v, want %v", got, c)
	}
	if n := len(g.Neighbors8(Cell{0, 0})); n != 3 {
		t.Errorf("corner Neighbors8 = %d, want 3", n)
	}
	if g.IsBuildable(Cell{1, 0}) || !g.IsBuildable(Cell{0, 1}) {
		t.Error("IsBuildable mismatch")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
