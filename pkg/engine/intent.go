package engine

import (
	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/grid"
)

// IntentKind names a player action delivered by an input collaborator.
type IntentKind int

const (
	IntentSelectTowerType IntentKind = iota
	IntentPlaceTower
	IntentOpenTowerMenu
	IntentCloseMenu
	IntentUpgrade
	IntentSell
	IntentRepair
	IntentSetTargetMode
	IntentDeployWeapon
	IntentSetManualTarget
	IntentCollectGem
	IntentOpenChest
	IntentStartNextWave
	IntentSetGameSpeed
	IntentTogglePause
)

var intentNames = [...]string{
	IntentSelectTowerType: "select-tower-type",
	IntentPlaceTower:      "place-tower",
	IntentOpenTowerMenu:   "open-tower-menu",
	IntentCloseMenu:       "close-menu",
	IntentUpgrade:         "upgrade",
	IntentSell:            "sell",
	IntentRepair:          "repair",
	IntentSetTargetMode:   "set-target-mode",
	IntentDeployWeapon:    "deploy-weapon",
	IntentSetManualTarget: "set-manual-target",
	IntentCollectGem:      "collect-gem",
	IntentOpenChest:       "open-chest",
	IntentStartNextWave:   "start-next-wave",
	IntentSetGameSpeed:    "set-game-speed",
	IntentTogglePause:     "pause-toggle",
}

func (k IntentKind) String() string {
	if k >= 0 && int(k) < len(intentNames) {
		return intentNames[k]
	}
	return "unknown"
}

// ParseIntentKind maps a wire name such as "place-tower" to its kind.
func ParseIntentKind(s string) (IntentKind, bool) {
	for k, name := range intentNames {
		if name == s {
			return IntentKind(k), true
		}
	}
	return 0, false
}

// Intent is one player action. Only the fields the kind uses are read:
//
//	select-tower-type  TowerType ("" clears the selection)
//	place-tower        Cell, TowerType (defaults to the selection)
//	open-tower-menu    Tower
//	upgrade/sell/repair Tower
//	set-target-mode    Tower, Mode
//	deploy-weapon      Weapon, X, Y
//	set-manual-target  Target, Tower (zero Tower sets the global focus)
//	collect-gem        Target
//	open-chest         Target
//	set-game-speed     Speed
type Intent struct {
	Kind      IntentKind
	TowerType string
	Cell      grid.Cell
	Tower     ecs.EntityID
	Target    ecs.EntityID
	Mode      components.TargetMode
	Weapon    components.DeployableKind
	X, Y      float64
	Speed     int
}
