package components

// GemDropComponent is a gem pickup waiting to be collected.
type GemDropComponent struct {
	Amount        int
	AutoCollectAt float64 // sim ms
}
