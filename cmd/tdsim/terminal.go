package main

import (
	"fmt"
	"strings"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/grid"
	"github.com/gdamore/tcell/v2"
)

const cellWidth = 2

var (
	styleDefault = tcell.StyleDefault
	styleGround  = tcell.StyleDefault.Foreground(tcell.ColorDarkGreen)
	stylePath    = tcell.StyleDefault.Foreground(tcell.ColorTan)
	styleFeature = tcell.StyleDefault.Foreground(tcell.ColorGold)
	styleTower   = tcell.StyleDefault.Foreground(tcell.ColorAqua).Bold(true)
	styleHurt    = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleEnemy   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleBoss    = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	styleCursor  = tcell.StyleDefault.Reverse(true)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDenied  = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

var cellGlyph = map[grid.CellCode]rune{
	grid.Buildable:   '.',
	grid.Path:        '#',
	grid.Spawn:       'S',
	grid.Exit:        'X',
	grid.GoldDeposit: '$',
	grid.Chest:       'c',
	grid.RuneDamage:  'd',
	grid.RuneSpeed:   's',
	grid.RuneRange:   'r',
}

// terminalView draws snapshots with tcell and turns key presses into
// intents for the tile under the cursor.
type terminalView struct {
	screen tcell.Screen
	events chan tcell.Event
	m      engine.MapView
	types  []string

	cursor   grid.Cell
	selected int
	last     engine.Snapshot
	denied   string
}

func newTerminalView(towerTypes []string, m engine.MapView) (*terminalView, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	v := &terminalView{screen: screen, events: make(chan tcell.Event, 100), m: m, types: towerTypes}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			v.events <- ev
		}
	}()
	return v, nil
}

// Close restores the terminal.
func (v *terminalView) Close() {
	v.screen.Fini()
}

// Poll drains pending key presses. It returns false when the player quits.
func (v *terminalView) Poll() ([]engine.Intent, bool) {
	var out []engine.Intent
	for {
		select {
		case ev := <-v.events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				in, ok, quit := v.handleKey(ev)
				if quit {
					return nil, false
				}
				if ok {
					out = append(out, in...)
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}
		default:
			return out, true
		}
	}
}

func (v *terminalView) handleKey(ev *tcell.EventKey) ([]engine.Intent, bool, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, false, true
	case tcell.KeyUp:
		v.move(-1, 0)
	case tcell.KeyDown:
		v.move(1, 0)
	case tcell.KeyLeft:
		v.move(0, -1)
	case tcell.KeyRight:
		v.move(0, 1)
	case tcell.KeyTab:
		v.cycleType()
	case tcell.KeyEnter:
		return v.placeAtCursor(), true, false
	case tcell.KeyRune:
		return v.handleRune(ev.Rune())
	}
	return nil, false, false
}

func (v *terminalView) handleRune(r rune) ([]engine.Intent, bool, bool) {
	tower, hasTower := v.towerAtCursor()
	one := func(in engine.Intent) ([]engine.Intent, bool, bool) { return []engine.Intent{in}, true, false }

	switch r {
	case 'q':
		return nil, false, true
	case 'h':
		v.move(0, -1)
	case 'j':
		v.move(1, 0)
	case 'k':
		v.move(-1, 0)
	case 'l':
		v.move(0, 1)
	case 't':
		v.cycleType()
	case 'b':
		return v.placeAtCursor(), true, false
	case 'n':
		return one(engine.Intent{Kind: engine.IntentStartNextWave})
	case ' ', 'p':
		return one(engine.Intent{Kind: engine.IntentTogglePause})
	case '1', '2', '3':
		return one(engine.Intent{Kind: engine.IntentSetGameSpeed, Speed: int(r - '0')})
	case 'u', 'x', 'r', 'm', 'f':
		if !hasTower {
			return nil, false, false
		}
		switch r {
		case 'u':
			return one(engine.Intent{Kind: engine.IntentUpgrade, Tower: tower.id})
		case 'x':
			return one(engine.Intent{Kind: engine.IntentSell, Tower: tower.id})
		case 'r':
			return one(engine.Intent{Kind: engine.IntentRepair, Tower: tower.id})
		case 'm':
			return one(engine.Intent{Kind: engine.IntentOpenTowerMenu, Tower: tower.id})
		default:
			mode, _ := components.ParseTargetMode(tower.mode)
			return one(engine.Intent{Kind: engine.IntentSetTargetMode, Tower: tower.id, Mode: (mode + 1) % (components.TargetClose + 1)})
		}
	case 'g':
		var out []engine.Intent
		for _, g := range v.last.GemDrops {
			out = append(out, engine.Intent{Kind: engine.IntentCollectGem, Target: ecs.EntityID(g.ID)})
		}
		return out, true, false
	case 'o':
		for _, f := range v.last.Features {
			if f.Row == v.cursor.Row && f.Col == v.cursor.Col {
				return one(engine.Intent{Kind: engine.IntentOpenChest, Target: ecs.EntityID(f.ID)})
			}
		}
	case 'Z', 'G', 'K':
		kind := map[rune]components.DeployableKind{'Z': components.DeployMine, 'G': components.DeployGas, 'K': components.DeployKeg}[r]
		c := v.cursorCenter()
		return one(engine.Intent{Kind: engine.IntentDeployWeapon, Weapon: kind, X: c.X, Y: c.Y})
	}
	return nil, false, false
}

type towerRef struct {
	id   ecs.EntityID
	mode string
}

func (v *terminalView) towerAtCursor() (towerRef, bool) {
	for _, t := range v.last.Towers {
		if t.Row == v.cursor.Row && t.Col == v.cursor.Col {
			return towerRef{id: ecs.EntityID(t.ID), mode: t.TargetMode}, true
		}
	}
	return towerRef{}, false
}

func (v *terminalView) placeAtCursor() []engine.Intent {
	if len(v.types) == 0 {
		return nil
	}
	return []engine.Intent{{Kind: engine.IntentPlaceTower, TowerType: v.types[v.selected], Cell: v.cursor}}
}

func (v *terminalView) cycleType() {
	if len(v.types) > 0 {
		v.selected = (v.selected + 1) % len(v.types)
	}
}

func (v *terminalView) move(dr, dc int) {
	r, c := v.cursor.Row+dr, v.cursor.Col+dc
	if r >= 0 && r < v.m.Rows && c >= 0 && c < v.m.Cols {
		v.cursor = grid.Cell{Row: r, Col: c}
	}
}

func (v *terminalView) cursorCenter() grid.Point {
	ts := v.m.TileSize
	return grid.Point{X: (float64(v.cursor.Col) + 0.5) * ts, Y: (float64(v.cursor.Row) + 0.5) * ts}
}

// Draw renders one frame.
func (v *terminalView) Draw(snap engine.Snapshot, events []event.Event) {
	v.last = snap
	for _, e := range events {
		if e.Type == event.IntentDenied {
			v.denied = e.Kind + ": " + e.Reason
		}
	}

	s := v.screen
	s.Clear()
	for r, row := range v.m.Cells {
		for c, code := range row {
			style := styleGround
			cc := grid.CellCode(code)
			switch {
			case cc.IsWalkable():
				style = stylePath
			case cc != grid.Buildable:
				style = styleFeature
			}
			v.put(r, c, cellGlyph[cc], style)
		}
	}
	for _, t := range snap.Towers {
		style := styleTower
		if t.HP < t.MaxHP/2 {
			style = styleHurt
		}
		glyph := '?'
		if t.Type != "" {
			glyph = []rune(strings.ToUpper(t.Type[:1]))[0]
		}
		v.put(t.Row, t.Col, glyph, style)
	}
	ts := v.m.TileSize
	for _, e := range snap.Enemies {
		glyph, style := 'e', styleEnemy
		if e.Flying {
			glyph = 'f'
		}
		if e.Boss {
			glyph, style = '@', styleBoss
		}
		v.put(int(e.Y/ts), int(e.X/ts), glyph, style)
	}
	for _, g := range snap.GemDrops {
		v.put(int(g.Y/ts), int(g.X/ts), '*', styleFeature)
	}
	cx, cy := v.cursor.Col*cellWidth, v.cursor.Row
	mainc, _, style, _ := s.GetContent(cx, cy)
	s.SetContent(cx, cy, mainc, nil, style.Reverse(true))
	s.SetContent(cx+1, cy, ' ', nil, styleCursor)

	y := v.m.Rows + 1
	status := snap.Phase
	if snap.Paused {
		status += " (paused)"
	}
	v.text(0, y, fmt.Sprintf("Gold %d  Gems %d  Lives %d/%d  Wave %d/%d  Speed %dx  %s",
		snap.Gold, snap.Gems, snap.Lives, snap.MaxLives, snap.Wave, snap.WaveCount, snap.Speed, status), styleHUD)
	sel := "-"
	if len(v.types) > 0 {
		sel = v.types[v.selected]
	}
	v.text(0, y+1, fmt.Sprintf("Build: %s  Mines %d  Gas %d  Kegs %d  Combo %d",
		sel, snap.Charges["mine"], snap.Charges["gas"], snap.Charges["keg"], snap.Combo), styleHUD)
	if t, ok := v.towerAtCursor(); ok {
		for _, tv := range snap.Towers {
			if ecs.EntityID(tv.ID) == t.id {
				v.text(0, y+2, fmt.Sprintf("%s L%d  hp %.0f/%.0f  range %.0f  mode %s  sell %d",
					tv.Type, tv.Level, tv.HP, tv.MaxHP, tv.Range, tv.TargetMode, tv.SellValue), styleHUD)
			}
		}
	}
	if v.denied != "" {
		v.text(0, y+3, v.denied, styleDenied)
	}
	v.text(0, y+5, "arrows/hjkl move  tab/t type  enter/b build  u upgrade  x sell  r repair  f mode  m menu", styleDefault)
	v.text(0, y+6, "n next wave  space pause  1-3 speed  g gems  o chest  Z/G/K mine/gas/keg  q quit", styleDefault)
	s.Show()
}

func (v *terminalView) put(row, col int, glyph rune, style tcell.Style) {
	if row < 0 || row >= v.m.Rows || col < 0 || col >= v.m.Cols {
		return
	}
	v.screen.SetContent(col*cellWidth, row, glyph, nil, style)
	v.screen.SetContent(col*cellWidth+1, row, ' ', nil, style)
}

func (v *terminalView) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}
