package components

// DeployableComponent is a placed player weapon. Kegs resolve at placement
// and never carry one.
type DeployableComponent struct {
	Kind          DeployableKind
	Radius        float64
	TriggerRadius float64 // mines
	Damage        float64 // mines, per blast
	DPS           float64 // gas
	SlowFactor    float64 // gas
	SlowMs        float64 // gas
	DamageType    DamageType
	RemainingMs   float64 // gas lifetime
	PulseMs       float64 // gas damage period
	PulseTimer    float64
	Active        bool
}
