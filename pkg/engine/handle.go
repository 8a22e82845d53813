package engine

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/game"
	"github.com/decker502/towers/pkg/grid"
	"github.com/decker502/towers/pkg/systems"
)

// Denial reasons that do not come from an economy or system error.
const (
	ReasonPaused        = "game is paused"
	ReasonNoSelection   = "no tower type selected"
	ReasonUnavailable   = "tower type not available"
	ReasonNoSuchTower   = "no such tower"
	ReasonNoSuchTarget  = "no such target"
	ReasonInvalidSpeed  = "invalid game speed"
	ReasonUnknownIntent = "unknown intent"
)

// HandleIntent validates and executes one player action. It reports whether
// the action took effect; a rejected action emits IntentDenied with the
// reason and changes nothing.
func (s *Simulation) HandleIntent(in Intent) bool {
	name := in.Kind.String()
	if s.closed {
		return false
	}
	if s.paused && !allowedWhilePaused(in.Kind) {
		return s.deny(name, ReasonPaused)
	}

	ctx := s.ctx
	switch in.Kind {
	case IntentSelectTowerType:
		if in.TowerType != "" && !ctx.Catalog.TowerAvailable(ctx.Level, in.TowerType) {
			return s.deny(name, ReasonUnavailable)
		}
		s.selectedType = in.TowerType
		return true

	case IntentPlaceTower:
		typeID := in.TowerType
		if typeID == "" {
			typeID = s.selectedType
		}
		if typeID == "" {
			return s.deny(name, ReasonNoSelection)
		}
		_, err := game.BuildTower(ctx, typeID, in.Cell)
		return s.outcome(name, err)

	case IntentOpenTowerMenu:
		if !game.IsLiveTower(ctx.EM, in.Tower) {
			return s.deny(name, ReasonNoSuchTower)
		}
		s.openMenu(in.Tower)
		return true

	case IntentCloseMenu:
		s.closeMenu()
		return true

	case IntentUpgrade:
		return s.outcome(name, game.UpgradeTower(ctx, in.Tower))

	case IntentSell:
		_, err := game.SellTower(ctx, in.Tower)
		if err == nil && s.menuTower == in.Tower {
			s.closeMenu()
		}
		return s.outcome(name, err)

	case IntentRepair:
		_, err := game.RepairTower(ctx, in.Tower)
		return s.outcome(name, err)

	case IntentSetTargetMode:
		return s.outcome(name, game.SetTargetMode(ctx, in.Tower, in.Mode))

	case IntentDeployWeapon:
		_, err := systems.Deploy(ctx, in.Weapon, grid.Point{X: in.X, Y: in.Y})
		return s.outcome(name, err)

	case IntentSetManualTarget:
		return s.setManualTarget(name, in.Tower, in.Target)

	case IntentCollectGem:
		_, err := game.CollectGem(ctx, in.Target)
		return s.outcome(name, err)

	case IntentOpenChest:
		_, err := game.OpenChest(ctx, in.Target)
		return s.outcome(name, err)

	case IntentStartNextWave:
		return s.outcome(name, s.waves.StartNextWave())

	case IntentSetGameSpeed:
		if in.Speed < MinSpeed || in.Speed > MaxSpeed {
			return s.deny(name, ReasonInvalidSpeed)
		}
		s.speed = in.Speed
		ctx.Emit(event.Event{Type: event.SpeedChanged, Amount: float64(in.Speed)})
		return true

	case IntentTogglePause:
		s.paused = !s.paused
		amount := 0.0
		if s.paused {
			amount = 1
		}
		ctx.Emit(event.Event{Type: event.PauseToggled, Amount: amount})
		return true
	}
	return s.deny(name, ReasonUnknownIntent)
}

func allowedWhilePaused(k IntentKind) bool {
	switch k {
	case IntentTogglePause, IntentSetGameSpeed, IntentSelectTowerType, IntentCloseMenu:
		return true
	}
	return false
}

func (s *Simulation) deny(intent, reason string) bool {
	s.ctx.Deny(intent, reason)
	return false
}

// outcome turns an operation error into a denial.
func (s *Simulation) outcome(intent string, err error) bool {
	if err != nil {
		return s.deny(intent, err.Error())
	}
	return true
}

// setManualTarget locks a tower onto an enemy, or sets the global focus
// target when no tower is given. A zero target clears the lock.
func (s *Simulation) setManualTarget(name string, tower, target ecs.EntityID) bool {
	ctx := s.ctx
	if target != ecs.InvalidEntity && !game.IsTargetableEnemy(ctx.EM, target) {
		return s.deny(name, ReasonNoSuchTarget)
	}
	if tower == ecs.InvalidEntity {
		ctx.FocusTarget = target
		return true
	}
	if !game.IsLiveTower(ctx.EM, tower) {
		return s.deny(name, ReasonNoSuchTower)
	}
	t, _ := ecs.GetComponent[*components.TowerComponent](ctx.EM, tower)
	t.ManualTarget = target
	return true
}

// openMenu shows the menu of a tower and arms its auto-close timer. Opening
// another tower's menu replaces the current one.
func (s *Simulation) openMenu(tower ecs.EntityID) {
	ctx := s.ctx
	if s.menuTower != ecs.InvalidEntity {
		ctx.Scheduler.Cancel(s.menuTimer)
	}
	s.menuTower = tower
	s.menuTimer = ctx.Scheduler.After(ctx.Tuning.MenuAutoCloseMs, func() {
		if s.menuTower == tower {
			s.closeMenu()
		}
	})
	ctx.Emit(event.Event{Type: event.MenuOpened, Target: uint64(tower)})
}

func (s *Simulation) closeMenu() {
	if s.menuTower == ecs.InvalidEntity {
		return
	}
	tower := s.menuTower
	s.ctx.Scheduler.Cancel(s.menuTimer)
	s.menuTower = ecs.InvalidEntity
	s.ctx.Emit(event.Event{Type: event.MenuClosed, Target: uint64(tower)})
}
