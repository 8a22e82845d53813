package engine

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
)

// TowerView is the render state of one tower.
type TowerView struct {
	ID         uint64  `msgpack:"id" json:"id"`
	Type       string  `msgpack:"type" json:"type"`
	Row        int     `msgpack:"row" json:"row"`
	Col        int     `msgpack:"col" json:"col"`
	X          float64 `msgpack:"x" json:"x"`
	Y          float64 `msgpack:"y" json:"y"`
	Level      int     `msgpack:"lvl" json:"level"`
	HP         float64 `msgpack:"hp" json:"hp"`
	MaxHP      float64 `msgpack:"maxHp" json:"maxHp"`
	Range      float64 `msgpack:"range" json:"range"`
	TargetMode string  `msgpack:"mode" json:"targetMode"`
	SellValue  int     `msgpack:"sell" json:"sellValue"`
	Stacks     int     `msgpack:"stacks,omitempty" json:"stacks,omitempty"`
}

// EnemyView is the render state of one enemy.
type EnemyView struct {
	ID     uint64  `msgpack:"id" json:"id"`
	Type   string  `msgpack:"type" json:"type"`
	X      float64 `msgpack:"x" json:"x"`
	Y      float64 `msgpack:"y" json:"y"`
	HP     float64 `msgpack:"hp" json:"hp"`
	MaxHP  float64 `msgpack:"maxHp" json:"maxHp"`
	Slowed bool    `msgpack:"slowed,omitempty" json:"slowed,omitempty"`
	Flying bool    `msgpack:"flying,omitempty" json:"flying,omitempty"`
	Boss   bool    `msgpack:"boss,omitempty" json:"boss,omitempty"`
}

// ProjectileView is the render state of a shot in flight.
type ProjectileView struct {
	ID     uint64  `msgpack:"id" json:"id"`
	Type   string  `msgpack:"type" json:"type"`
	X      float64 `msgpack:"x" json:"x"`
	Y      float64 `msgpack:"y" json:"y"`
	Height float64 `msgpack:"h,omitempty" json:"height,omitempty"`
}

// GemView is an uncollected gem drop.
type GemView struct {
	ID     uint64  `msgpack:"id" json:"id"`
	X      float64 `msgpack:"x" json:"x"`
	Y      float64 `msgpack:"y" json:"y"`
	Amount int     `msgpack:"amt" json:"amount"`
}

// FeatureView is a map feature: rune, deposit or chest.
type FeatureView struct {
	ID     uint64 `msgpack:"id" json:"id"`
	Kind   string `msgpack:"kind" json:"kind"`
	Row    int    `msgpack:"row" json:"row"`
	Col    int    `msgpack:"col" json:"col"`
	Opened bool   `msgpack:"opened,omitempty" json:"opened,omitempty"`
}

// DeployableView is a placed mine or gas cloud.
type DeployableView struct {
	ID     uint64  `msgpack:"id" json:"id"`
	Kind   string  `msgpack:"kind" json:"kind"`
	X      float64 `msgpack:"x" json:"x"`
	Y      float64 `msgpack:"y" json:"y"`
	Radius float64 `msgpack:"r" json:"radius"`
}

// Snapshot is a read-only copy of the simulation state published after
// every tick. It shares no memory with the simulation.
type Snapshot struct {
	TimeMs     float64        `msgpack:"t" json:"t"`
	Level      int            `msgpack:"level" json:"level"`
	Phase      string         `msgpack:"phase" json:"phase"`
	Difficulty string         `msgpack:"diff" json:"difficulty"`
	Endless    bool           `msgpack:"endless,omitempty" json:"endless,omitempty"`
	Wave       int            `msgpack:"wave" json:"wave"`
	WaveCount  int            `msgpack:"waves" json:"waveCount"` // authored waves
	Gold       int            `msgpack:"gold" json:"gold"`
	Gems       int            `msgpack:"gems" json:"gems"`
	Lives      int            `msgpack:"lives" json:"lives"`
	MaxLives   int            `msgpack:"maxLives" json:"maxLives"`
	Combo      int            `msgpack:"combo,omitempty" json:"combo,omitempty"`
	Speed      int            `msgpack:"speed" json:"speed"`
	Paused     bool           `msgpack:"paused,omitempty" json:"paused,omitempty"`
	Selected   string         `msgpack:"sel,omitempty" json:"selected,omitempty"`
	MenuTower  uint64         `msgpack:"menu,omitempty" json:"menuTower,omitempty"`
	Focus      uint64         `msgpack:"focus,omitempty" json:"focus,omitempty"`
	Charges    map[string]int `msgpack:"charges" json:"charges"`

	Towers      []TowerView      `msgpack:"towers" json:"towers"`
	Enemies     []EnemyView      `msgpack:"enemies" json:"enemies"`
	Projectiles []ProjectileView `msgpack:"proj" json:"projectiles"`
	GemDrops    []GemView        `msgpack:"gemDrops" json:"gemDrops"`
	Features    []FeatureView    `msgpack:"features" json:"features"`
	Deployables []DeployableView `msgpack:"deploy" json:"deployables"`
}

// MapView is the static layout of a level.
type MapView struct {
	Rows      int          `msgpack:"rows" json:"rows"`
	Cols      int          `msgpack:"cols" json:"cols"`
	TileSize  float64      `msgpack:"tile" json:"tileSize"`
	Cells     [][]int      `msgpack:"cells" json:"cells"`
	Waypoints []grid.Point `msgpack:"path" json:"path"`
}

// Snapshot copies the current state.
func (s *Simulation) Snapshot() Snapshot {
	ctx := s.ctx
	em := ctx.EM
	snap := Snapshot{
		TimeMs:     ctx.Now(),
		Level:      ctx.Level.Index,
		Phase:      ctx.Phase.String(),
		Difficulty: ctx.Difficulty,
		Endless:    ctx.Endless,
		Wave:       ctx.Wave.Number,
		WaveCount:  len(ctx.Level.Waves),
		Gold:       ctx.Ledger.Gold(),
		Gems:       ctx.Ledger.Gems(),
		Lives:      ctx.Ledger.Lives(),
		MaxLives:   ctx.Ledger.MaxLives(),
		Combo:      ctx.Combo.Count(),
		Speed:      s.speed,
		Paused:     s.paused,
		Selected:   s.selectedType,
		MenuTower:  uint64(s.menuTower),
		Focus:      uint64(ctx.FocusTarget),
		Charges:    make(map[string]int, len(ctx.Charges)),
	}
	for kind, n := range ctx.Charges {
		snap.Charges[kind.String()] = n
	}

	for _, id := range game.Towers(em) {
		t, _ := ecs.GetComponent[*components.TowerComponent](em, id)
		pos, _ := game.Position(em, id)
		hp, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		snap.Towers = append(snap.Towers, TowerView{
			ID: uint64(id), Type: t.TypeID, Row: t.Cell.Row, Col: t.Cell.Col, X: pos.X, Y: pos.Y,
			Level: t.Level, HP: hp.HP, MaxHP: hp.MaxHP, Range: t.Range, TargetMode: t.TargetMode.String(),
			SellValue: game.SellValue(ctx, t), Stacks: t.StackCount,
		})
	}
	for _, id := range game.Enemies(em) {
		e, _ := ecs.GetComponent[*components.EnemyComponent](em, id)
		pos, _ := game.Position(em, id)
		hp, _ := ecs.GetComponent[*components.HealthComponent](em, id)
		snap.Enemies = append(snap.Enemies, EnemyView{
			ID: uint64(id), Type: e.TypeID, X: pos.X, Y: pos.Y, HP: hp.HP, MaxHP: hp.MaxHP,
			Slowed: e.SlowTimer > 0, Flying: e.Flying, Boss: e.Boss,
		})
	}
	for _, id := range ecs.GetEntitiesWith2[*components.ProjectileComponent, *components.PositionComponent](em) {
		p, _ := ecs.GetComponent[*components.ProjectileComponent](em, id)
		pos, _ := game.Position(em, id)
		snap.Projectiles = append(snap.Projectiles, ProjectileView{ID: uint64(id), Type: p.TypeID, X: pos.X, Y: pos.Y, Height: p.Height})
	}
	for _, id := range ecs.GetEntitiesWith2[*components.GemDropComponent, *components.PositionComponent](em) {
		g, _ := ecs.GetComponent[*components.GemDropComponent](em, id)
		pos, _ := game.Position(em, id)
		snap.GemDrops = append(snap.GemDrops, GemView{ID: uint64(id), X: pos.X, Y: pos.Y, Amount: g.Amount})
	}
	for _, id := range ecs.GetEntitiesWith1[*components.FeatureComponent](em) {
		f, _ := ecs.GetComponent[*components.FeatureComponent](em, id)
		snap.Features = append(snap.Features, FeatureView{ID: uint64(id), Kind: f.Kind.String(), Row: f.Cell.Row, Col: f.Cell.Col, Opened: f.Opened})
	}
	for _, id := range ecs.GetEntitiesWith2[*components.DeployableComponent, *components.PositionComponent](em) {
		d, _ := ecs.GetComponent[*components.DeployableComponent](em, id)
		pos, _ := game.Position(em, id)
		snap.Deployables = append(snap.Deployables, DeployableView{ID: uint64(id), Kind: d.Kind.String(), X: pos.X, Y: pos.Y, Radius: d.Radius})
	}
	return snap
}

// Map copies the level layout and resolved path.
func (s *Simulation) Map() MapView {
	g := s.ctx.Grid
	m := MapView{
		Rows:      g.Rows(),
		Cols:      g.Cols(),
		TileSize:  g.TileSize(),
		Cells:     make([][]int, g.Rows()),
		Waypoints: append([]grid.Point(nil), s.ctx.Route.Waypoints...),
	}
	for r := range m.Cells {
		m.Cells[r] = make([]int, g.Cols())
		for c := range m.Cells[r] {
			m.Cells[r][c] = int(g.At(grid.Cell{Row: r, Col: c}))
		}
	}
	return m
}
