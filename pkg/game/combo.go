package game

import (
	"math"

	"github.com/decker502/towers/pkg/config"
)

// Combo is the rolling kill-streak counter.
type Combo struct {
	cfg       config.ComboTuning
	count     int
	remaining float64 // ms left in the window
}

// NewCombo creates an idle combo counter.
func NewCombo(cfg config.ComboTuning) *Combo {
	return &Combo{cfg: cfg}
}

// Count returns the current streak.
func (c *Combo) Count() int { return c.count }

// RemainingMs returns how long the current window still lasts.
func (c *Combo) RemainingMs() float64 { return c.remaining }

// RegisterKill extends the streak, resets the window and returns the bonus
// gold for this kill: floor((combo - (threshold-1)) * reward * factor) once the
// streak reaches the threshold, else 0.
func (c *Combo) RegisterKill(reward int) int {
	if c.count < c.cfg.Max {
		c.count++
	}
	c.remaining = c.cfg.WindowMs
	if c.count < c.cfg.Threshold || reward <= 0 {
		return 0
	}
	steps := float64(c.count - (c.cfg.Threshold - 1))
	return int(math.Floor(steps * float64(reward) * c.cfg.BonusFactor))
}

// Update decays the window and reports whether the streak just expired.
func (c *Combo) Update(dtMs float64) bool {
	if c.count == 0 {
		return false
	}
	c.remaining -= dtMs
	if c.remaining > 0 {
		return false
	}
	c.count = 0
	c.remaining = 0
	return true
}

// Reset clears the streak.
func (c *Combo) Reset() {
	c.count = 0
	c.remaining = 0
}
