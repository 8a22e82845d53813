// Package grid holds the immutable level tile map and derives the enemy route
// from it.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// CellCode is the value stored in one tile of a level grid.
type CellCode int

const (
	Buildable   CellCode = 0
	Path        CellCode = 1
	Spawn       CellCode = 2
	Exit        CellCode = 3
	GoldDeposit CellCode = 4
	Chest       CellCode = 5
	RuneDamage  CellCode = 6
	RuneSpeed   CellCode = 7
	RuneRange   CellCode = 8
)

// DefaultTileSize is the tile edge length in pixels.
const DefaultTileSize = 64.0

// IsWalkable reports whether enemies can traverse the cell.
func (c CellCode) IsWalkable() bool {
	return c == Path || c == Spawn || c == Exit
}

// IsRune reports whether the cell is one of the rune tiles.
func (c CellCode) IsRune() bool {
	return c >= RuneDamage && c <= RuneRange
}

func (c CellCode) String() string {
	switch c {
	case Buildable:
		return "buildable"
	case Path:
		return "path"
	case Spawn:
		return "spawn"
	case Exit:
		return "exit"
	case GoldDeposit:
		return "goldDeposit"
	case Chest:
		return "chest"
	case RuneDamage:
		return "runeDamage"
	case RuneSpeed:
		return "runeSpeed"
	case RuneRange:
		return "runeRange"
	default:
		return fmt.Sprintf("CellCode(%d)", int(c))
	}
}

// Cell addresses one tile.
type Cell struct {
	Row int `msgpack:"r" json:"row"`
	Col int `msgpack:"c" json:"col"`
}

// Point is a pixel-space position.
type Point struct {
	X float64 `msgpack:"x" json:"x"`
	Y float64 `msgpack:"y" json:"y"`
}

// Distance returns the euclidean distance between two points.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

var (
	ErrEmptyGrid      = errors.New("grid is empty")
	ErrRaggedGrid     = errors.New("grid rows have different lengths")
	ErrUnknownCell    = errors.New("grid contains an unknown cell code")
	ErrNoSpawn        = errors.New("grid has no spawn cell")
	ErrMultipleSpawns = errors.New("grid has more than one spawn cell")
	ErrNoPath         = errors.New("no exit reachable from spawn")
)

// Grid is a rectangular, immutable tile map.
type Grid struct {
	cells    [][]CellCode
	tileSize float64
}

// New validates raw level rows and builds a Grid.
func New(rows [][]int, tileSize float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	width := len(rows[0])
	cells := make([][]CellCode, len(rows))
	for r, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", r, len(row), width, ErrRaggedGrid)
		}
		cells[r] = make([]CellCode, width)
		for c, v := range row {
			code := CellCode(v)
			if code < Buildable || code > RuneRange {
				return nil, fmt.Errorf("cell (%d,%d)=%d: %w", r, c, v, ErrUnknownCell)
			}
			cells[r][c] = code
		}
	}
	return &Grid{cells: cells, tileSize: tileSize}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return len(g.cells) }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return len(g.cells[0]) }

// TileSize returns the tile edge length in pixels.
func (g *Grid) TileSize() float64 { return g.tileSize }

// InBounds reports whether the cell lies inside the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.Rows() && c.Col >= 0 && c.Col < g.Cols()
}

// At returns the code of a cell. Out-of-bounds cells report -1.
func (g *Grid) At(c Cell) CellCode {
	if !g.InBounds(c) {
		return -1
	}
	return g.cells[c.Row][c.Col]
}

// IsBuildable reports whether a tower may stand on the cell.
func (g *Grid) IsBuildable(c Cell) bool {
	return g.InBounds(c) && g.cells[c.Row][c.Col] == Buildable
}

// Find returns every cell holding the given code in row-major order.
func (g *Grid) Find(code CellCode) []Cell {
	var result []Cell
	for r, row := range g.cells {
		for c, v := range row {
			if v == code {
				result = append(result, Cell{Row: r, Col: c})
			}
		}
	}
	return result
}

// CellCenter converts a cell to the pixel position of its center.
func (g *Grid) CellCenter(c Cell) Point {
	return Point{
		X: float64(c.Col)*g.tileSize + g.tileSize/2,
		Y: float64(c.Row)*g.tileSize + g.tileSize/2,
	}
}

// PixelToCell converts a pixel position to the cell under it.
func (g *Grid) PixelToCell(p Point) Cell {
	return Cell{
		Row: int(math.Floor(p.Y / g.tileSize)),
		Col: int(math.Floor(p.X / g.tileSize)),
	}
}

// 4-neighbour expansion order: right, left, down, up.
var orthogonal = [4]Cell{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Neighbors8 returns in-bounds cells surrounding c, diagonals included.
func (g *Grid) Neighbors8(c Cell) []Cell {
	result := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{Row: c.Row + dr, Col: c.Col + dc}
			if g.InBounds(n) {
				result = append(result, n)
			}
		}
	}
	return result
}
