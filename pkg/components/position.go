package components

// PositionComponent is a pixel-space position.
type PositionComponent struct {
	X, Y float64
}
