package game

// Ledger tracks the run's gold, gems and lives.
//
// Gold and lives never go negative: Spend rejects a debit it cannot cover
// instead of clamping it, LoseLives clamps at zero.
type Ledger struct {
	gold     int
	gems     int
	lives    int
	maxLives int
	peakGold int
}

// NewLedger creates a ledger with starting gold and lives.
func NewLedger(gold, lives int) *Ledger {
	if gold < 0 {
		gold = 0
	}
	if lives < 0 {
		lives = 0
	}
	return &Ledger{gold: gold, lives: lives, maxLives: lives, peakGold: gold}
}

// Gold returns the current gold.
func (l *Ledger) Gold() int { return l.gold }

// Gems returns gems collected during the run.
func (l *Ledger) Gems() int { return l.gems }

// Lives returns the remaining lives.
func (l *Ledger) Lives() int { return l.lives }

// MaxLives returns the lives the run started with.
func (l *Ledger) MaxLives() int { return l.maxLives }

// PeakGold returns the most gold held at any point.
func (l *Ledger) PeakGold() int { return l.peakGold }

// CanAfford reports whether cost can be paid.
func (l *Ledger) CanAfford(cost int) bool {
	return cost >= 0 && l.gold >= cost
}

// Spend debits cost if the ledger can cover it.
// Returns false, leaving the ledger untouched, otherwise.
func (l *Ledger) Spend(cost int) bool {
	if !l.CanAfford(cost) {
		return false
	}
	l.gold -= cost
	return true
}

// Earn credits gold. Non-positive amounts are ignored.
func (l *Ledger) Earn(amount int) {
	if amount <= 0 {
		return
	}
	l.gold += amount
	if l.gold > l.peakGold {
		l.peakGold = l.gold
	}
}

// AddGems credits collected gems.
func (l *Ledger) AddGems(n int) {
	if n > 0 {
		l.gems += n
	}
}

// LoseLives subtracts lives, clamped at zero, and returns the remainder.
func (l *Ledger) LoseLives(n int) int {
	if n <= 0 {
		return l.lives
	}
	l.lives -= n
	if l.lives < 0 {
		l.lives = 0
	}
	return l.lives
}
