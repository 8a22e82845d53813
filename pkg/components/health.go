package components

// HealthComponent stores hit points for towers and enemies.
// HP may drop below zero on the lethal hit; the owner is dead at HP <= 0.
type HealthComponent struct {
	HP    float64
	MaxHP float64
}

// IsDead reports whether the owner has no hit points left.
func (h *HealthComponent) IsDead() bool {
	return h.HP <= 0
}

// Missing returns how many hit points are below max.
func (h *HealthComponent) Missing() float64 {
	if h.HP >= h.MaxHP {
		return 0
	}
	return h.MaxHP - h.HP
}

// Heal adds hit points up to MaxHP.
func (h *HealthComponent) Heal(amount float64) {
	h.HP += amount
	if h.HP > h.MaxHP {
		h.HP = h.MaxHP
	}
}
