package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/grid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	hudHeight  = 96
	lineHeight = 16
	// floatMs is how long a floating damage number stays on screen.
	floatMs = 600.0
)

var (
	colorGround   = color.RGBA{R: 70, G: 120, B: 60, A: 255}
	colorPath     = color.RGBA{R: 170, G: 140, B: 90, A: 255}
	colorSpawn    = color.RGBA{R: 150, G: 60, B: 60, A: 255}
	colorExit     = color.RGBA{R: 60, G: 60, B: 150, A: 255}
	colorDeposit  = color.RGBA{R: 220, G: 190, B: 40, A: 255}
	colorChest    = color.RGBA{R: 140, G: 90, B: 40, A: 255}
	colorRune     = color.RGBA{R: 120, G: 80, B: 200, A: 255}
	colorGrid     = color.RGBA{R: 0, G: 0, B: 0, A: 40}
	colorTower    = color.RGBA{R: 80, G: 200, B: 230, A: 255}
	colorEnemy    = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	colorFlying   = color.RGBA{R: 240, G: 150, B: 200, A: 255}
	colorBoss     = color.RGBA{R: 200, G: 40, B: 220, A: 255}
	colorShot     = color.RGBA{R: 255, G: 255, B: 200, A: 255}
	colorGem      = color.RGBA{R: 100, G: 240, B: 255, A: 255}
	colorMine     = color.RGBA{R: 90, G: 90, B: 90, A: 160}
	colorGas      = color.RGBA{R: 120, G: 220, B: 80, A: 90}
	colorHPBack   = color.RGBA{R: 40, G: 0, B: 0, A: 255}
	colorHP       = color.RGBA{R: 60, G: 220, B: 60, A: 255}
	colorSelected = color.RGBA{R: 255, G: 255, B: 255, A: 200}
	colorRange    = color.RGBA{R: 255, G: 255, B: 255, A: 70}
	colorHUD      = color.RGBA{R: 20, G: 20, B: 30, A: 255}
	colorDenied   = color.RGBA{R: 255, G: 110, B: 110, A: 255}
)

var hudFace = text.NewGoXFace(basicfont.Face7x13)

var digitKeys = [...]ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5,
	ebiten.Key6, ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

type floater struct {
	x, y   float64
	amount float64
	ageMs  float64
}

// Game is the ebiten front end. It draws whatever the source reports and
// turns mouse and keyboard input into intents.
type Game struct {
	src   source
	m     engine.MapView
	types []string

	snap     engine.Snapshot
	selected int
	denied   string
	floaters []floater
	showDmg  bool
}

func newGame(src source, towerTypes []string, showDamage bool) *Game {
	return &Game{src: src, m: src.Map(), types: towerTypes, showDmg: showDamage}
}

// Update advances one frame.
func (g *Game) Update() error {
	dt := 1000.0 / float64(ebiten.TPS())
	g.handleInput()

	snap, events := g.src.Step(dt)
	g.snap = snap
	for _, e := range events {
		switch e.Type {
		case event.IntentDenied:
			g.denied = e.Kind + ": " + e.Reason
		case event.HitLanded:
			if g.showDmg {
				g.floaters = append(g.floaters, floater{x: e.X, y: e.Y, amount: e.Amount})
			}
		}
	}
	kept := g.floaters[:0]
	for _, f := range g.floaters {
		f.ageMs += dt
		if f.ageMs < floatMs {
			kept = append(kept, f)
		}
	}
	g.floaters = kept
	return nil
}

func (g *Game) handleInput() {
	for i := range g.types {
		if i < len(digitKeys) && inpututil.IsKeyJustPressed(digitKeys[i]) {
			g.selected = i
			g.src.Send(engine.Intent{Kind: engine.IntentSelectTowerType, TowerType: g.types[i]})
		}
	}

	mx, my := ebiten.CursorPosition()
	mouse := grid.Point{X: float64(mx), Y: float64(my)}
	cell := grid.Cell{Row: int(mouse.Y / g.m.TileSize), Col: int(mouse.X / g.m.TileSize)}

	keys := []struct {
		key ebiten.Key
		in  func() (engine.Intent, bool)
	}{
		{ebiten.KeySpace, always(engine.Intent{Kind: engine.IntentTogglePause})},
		{ebiten.KeyN, always(engine.Intent{Kind: engine.IntentStartNextWave})},
		{ebiten.KeyF1, always(engine.Intent{Kind: engine.IntentSetGameSpeed, Speed: 1})},
		{ebiten.KeyF2, always(engine.Intent{Kind: engine.IntentSetGameSpeed, Speed: 2})},
		{ebiten.KeyF3, always(engine.Intent{Kind: engine.IntentSetGameSpeed, Speed: 3})},
		{ebiten.KeyEscape, always(engine.Intent{Kind: engine.IntentCloseMenu})},
		{ebiten.KeyU, g.onMenuTower(engine.IntentUpgrade)},
		{ebiten.KeyS, g.onMenuTower(engine.IntentSell)},
		{ebiten.KeyR, g.onMenuTower(engine.IntentRepair)},
		{ebiten.KeyT, g.cycleMode},
		{ebiten.KeyM, g.deploy(components.DeployMine, mouse)},
		{ebiten.KeyG, g.deploy(components.DeployGas, mouse)},
		{ebiten.KeyK, g.deploy(components.DeployKeg, mouse)},
	}
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k.key) {
			if in, ok := k.in(); ok {
				g.src.Send(in)
			}
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if in, ok := g.click(mouse, cell); ok {
			g.src.Send(in)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		// focus the enemy under the cursor, or clear the focus
		target := ecs.InvalidEntity
		if id, ok := g.enemyNear(mouse); ok {
			target = id
		}
		in := engine.Intent{Kind: engine.IntentSetManualTarget, Target: target}
		if g.snap.MenuTower != 0 {
			in.Tower = ecs.EntityID(g.snap.MenuTower)
		}
		g.src.Send(in)
	}
}

func always(in engine.Intent) func() (engine.Intent, bool) {
	return func() (engine.Intent, bool) { return in, true }
}

func (g *Game) onMenuTower(kind engine.IntentKind) func() (engine.Intent, bool) {
	return func() (engine.Intent, bool) {
		if g.snap.MenuTower == 0 {
			return engine.Intent{}, false
		}
		return engine.Intent{Kind: kind, Tower: ecs.EntityID(g.snap.MenuTower)}, true
	}
}

func (g *Game) cycleMode() (engine.Intent, bool) {
	t, ok := g.menuTowerView()
	if !ok {
		return engine.Intent{}, false
	}
	mode, _ := components.ParseTargetMode(t.TargetMode)
	next := (mode + 1) % (components.TargetClose + 1)
	return engine.Intent{Kind: engine.IntentSetTargetMode, Tower: ecs.EntityID(t.ID), Mode: next}, true
}

func (g *Game) deploy(kind components.DeployableKind, p grid.Point) func() (engine.Intent, bool) {
	return func() (engine.Intent, bool) {
		return engine.Intent{Kind: engine.IntentDeployWeapon, Weapon: kind, X: p.X, Y: p.Y}, true
	}
}

// click resolves a left click: gems and chests first, then towers, then an
// empty tile to build on.
func (g *Game) click(p grid.Point, cell grid.Cell) (engine.Intent, bool) {
	for _, gem := range g.snap.GemDrops {
		if math.Hypot(gem.X-p.X, gem.Y-p.Y) <= g.m.TileSize/3 {
			return engine.Intent{Kind: engine.IntentCollectGem, Target: ecs.EntityID(gem.ID)}, true
		}
	}
	for _, f := range g.snap.Features {
		if f.Kind == "chest" && !f.Opened && f.Row == cell.Row && f.Col == cell.Col {
			return engine.Intent{Kind: engine.IntentOpenChest, Target: ecs.EntityID(f.ID)}, true
		}
	}
	for _, t := range g.snap.Towers {
		if t.Row == cell.Row && t.Col == cell.Col {
			return engine.Intent{Kind: engine.IntentOpenTowerMenu, Tower: ecs.EntityID(t.ID)}, true
		}
	}
	if cell.Row < 0 || cell.Row >= g.m.Rows || cell.Col < 0 || cell.Col >= g.m.Cols || len(g.types) == 0 {
		return engine.Intent{}, false
	}
	return engine.Intent{Kind: engine.IntentPlaceTower, TowerType: g.types[g.selected], Cell: cell}, true
}

func (g *Game) enemyNear(p grid.Point) (ecs.EntityID, bool) {
	best, bestDist := ecs.InvalidEntity, g.m.TileSize/2
	for _, e := range g.snap.Enemies {
		if d := math.Hypot(e.X-p.X, e.Y-p.Y); d <= bestDist {
			best, bestDist = ecs.EntityID(e.ID), d
		}
	}
	return best, best != ecs.InvalidEntity
}

func (g *Game) menuTowerView() (engine.TowerView, bool) {
	for _, t := range g.snap.Towers {
		if t.ID == g.snap.MenuTower && t.ID != 0 {
			return t, true
		}
	}
	return engine.TowerView{}, false
}

// Draw renders the board and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	ts := float32(g.m.TileSize)
	for r, row := range g.m.Cells {
		for c, code := range row {
			x, y := float32(c)*ts, float32(r)*ts
			vector.DrawFilledRect(screen, x, y, ts, ts, cellColor(grid.CellCode(code)), false)
			vector.StrokeRect(screen, x, y, ts, ts, 1, colorGrid, false)
		}
	}

	for _, d := range g.snap.Deployables {
		c := colorMine
		if d.Kind == components.DeployGas.String() {
			c = colorGas
		}
		vector.DrawFilledCircle(screen, float32(d.X), float32(d.Y), float32(d.Radius), c, true)
	}

	for _, t := range g.snap.Towers {
		x, y := float32(t.X), float32(t.Y)
		vector.DrawFilledCircle(screen, x, y, ts*0.35, colorTower, true)
		if t.ID == g.snap.MenuTower {
			vector.StrokeCircle(screen, x, y, float32(t.Range), 1, colorRange, true)
			vector.StrokeCircle(screen, x, y, ts*0.4, 2, colorSelected, true)
		}
		drawLabel(screen, fmt.Sprintf("%c%d", t.Type[0], t.Level+1), float64(x)-7, float64(y)-6, color.Black)
		drawBar(screen, x-ts*0.4, y+ts*0.38, ts*0.8, t.HP/t.MaxHP)
	}

	for _, e := range g.snap.Enemies {
		c, r := colorEnemy, ts*0.2
		switch {
		case e.Boss:
			c, r = colorBoss, ts*0.35
		case e.Flying:
			c = colorFlying
		}
		vector.DrawFilledCircle(screen, float32(e.X), float32(e.Y), r, c, true)
		if e.Slowed {
			vector.StrokeCircle(screen, float32(e.X), float32(e.Y), r+2, 1, colorGem, true)
		}
		if e.ID == g.snap.Focus {
			vector.StrokeCircle(screen, float32(e.X), float32(e.Y), r+4, 2, colorSelected, true)
		}
		drawBar(screen, float32(e.X)-r, float32(e.Y)-r-5, 2*r, e.HP/e.MaxHP)
	}

	for _, p := range g.snap.Projectiles {
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y-p.Height), 3, colorShot, true)
	}
	for _, gem := range g.snap.GemDrops {
		vector.DrawFilledCircle(screen, float32(gem.X), float32(gem.Y), 6, colorGem, true)
	}
	for _, f := range g.floaters {
		drawLabel(screen, fmt.Sprintf("%.0f", f.amount), f.x, f.y-20-f.ageMs/floatMs*16, color.White)
	}

	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	top := float32(g.m.Rows) * float32(g.m.TileSize)
	w := float32(g.m.Cols) * float32(g.m.TileSize)
	vector.DrawFilledRect(screen, 0, top, w, hudHeight, colorHUD, false)

	s := g.snap
	status := s.Phase
	if s.Paused {
		status += " (paused)"
	}
	wave := fmt.Sprintf("%d/%d", s.Wave, s.WaveCount)
	if s.Endless {
		wave = fmt.Sprintf("%d (endless)", s.Wave)
	}
	y := float64(top) + 4
	drawLabel(screen, fmt.Sprintf("Gold %d   Gems %d   Lives %d/%d   Wave %s   Speed %dx   Combo %d   %s",
		s.Gold, s.Gems, s.Lives, s.MaxLives, wave, s.Speed, s.Combo, status), 8, y, color.White)
	y += lineHeight

	sel := ""
	for i, id := range g.types {
		mark := " "
		if i == g.selected {
			mark = ">"
		}
		sel += fmt.Sprintf("%s%d %s  ", mark, i+1, id)
	}
	drawLabel(screen, fmt.Sprintf("%s  mines %d gas %d kegs %d", sel, s.Charges["mine"], s.Charges["gas"], s.Charges["keg"]), 8, y, color.White)
	y += lineHeight

	if t, ok := g.menuTowerView(); ok {
		drawLabel(screen, fmt.Sprintf("%s L%d  hp %.0f/%.0f  range %.0f  mode %s  sell %d  stacks %d   [U]pgrade [S]ell [R]epair [T]arget",
			t.Type, t.Level+1, t.HP, t.MaxHP, t.Range, t.TargetMode, t.SellValue, t.Stacks), 8, y, color.White)
	}
	y += lineHeight
	if g.denied != "" {
		drawLabel(screen, g.denied, 8, y, colorDenied)
	}
	y += lineHeight
	drawLabel(screen, "click build/select  right-click focus  space pause  N next wave  F1-F3 speed  M/G/K mine/gas/keg", 8, y, color.Gray{Y: 170})
}

// Layout fixes the logical screen to the board plus the HUD.
func (g *Game) Layout(int, int) (int, int) {
	return int(float64(g.m.Cols) * g.m.TileSize), int(float64(g.m.Rows)*g.m.TileSize) + hudHeight
}

func cellColor(c grid.CellCode) color.Color {
	switch {
	case c == grid.Path:
		return colorPath
	case c == grid.Spawn:
		return colorSpawn
	case c == grid.Exit:
		return colorExit
	case c == grid.GoldDeposit:
		return colorDeposit
	case c == grid.Chest:
		return colorChest
	case c.IsRune():
		return colorRune
	}
	return colorGround
}

func drawBar(screen *ebiten.Image, x, y, w float32, frac float64) {
	frac = math.Max(0, math.Min(1, frac))
	vector.DrawFilledRect(screen, x, y, w, 3, colorHPBack, false)
	vector.DrawFilledRect(screen, x, y, w*float32(frac), 3, colorHP, false)
}

func drawLabel(screen *ebiten.Image, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, hudFace, op)
}
