package components

import "github.com/decker502/towers/pkg/grid"

// FeatureComponent is a static map feature (rune, gold deposit, chest).
type FeatureComponent struct {
	Kind        FeatureKind
	Cell        grid.Cell
	Gold        int     // chest contents
	Opened      bool    // chest
	IncomeTimer float64 // deposit ms until next payout
}
