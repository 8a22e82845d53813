package entities

import (
	"errors"
	"testing"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/grid"
)

func f(v float64) *float64 { return &v }

func TestNewTower(t *testing.T) {
	em := ecs.NewEntityManager()
	def := &config.TowerDef{
		Kind: config.TowerKindStacking, DamageType: config.DamageMagical, Cost: 80, MaxStacks: 5,
		Tiers: []config.TowerTier{{Damage: f(8), Range: f(140), FireIntervalMs: f(400)}},
	}

	id, err := NewTower(em, "scout", def, grid.Cell{Row: 1, Col: 2}, grid.Point{X: 160, Y: 96}, 100)
	if err != nil {
		t.Fatalf("NewTower() error: %v", err)
	}
	tower, ok := ecs.GetComponent[*components.TowerComponent](em, id)
	if !ok {
		t.Fatal("tower component missing")
	}
	if tower.Kind != components.TowerStacking || tower.DamageType != components.DamageMagical {
		t.Errorf("tagged fields wrong: %+v", tower)
	}
	if tower.Damage != 8 || tower.TotalInvestment != 80 || tower.MaxStacks != 5 {
		t.Errorf("stats wrong: %+v", tower)
	}
	if !tower.ReadyToFire(0) {
		t.Error("a fresh tower should be ready to fire")
	}

	if _, err := NewTower(em, "ghost", nil, grid.Cell{}, grid.Point{}, 1); !errors.Is(err, config.ErrUnknownTower) {
		t.Errorf("nil def: got %v", err)
	}
}

func TestNewEnemyAppliesScaling(t *testing.T) {
	em := ecs.NewEntityManager()
	def := &config.EnemyDef{
		HP: 100, Speed: 50, Reward: 10,
		Ability: &config.BossAbilityDef{Kind: config.AbilitySlam, IntervalMs: 4000, Damage: 40, Radius: 120},
	}

	id, err := NewEnemy(em, "troll", def, EnemyScaling{HP: 1.8, Speed: 1.5, Reward: 1.5}, SpawnPoint{X: 32, Y: 32, WaypointIndex: 1})
	if err != nil {
		t.Fatalf("NewEnemy() error: %v", err)
	}
	hp, _ := ecs.GetComponent[*components.HealthComponent](em, id)
	enemy, _ := ecs.GetComponent[*components.EnemyComponent](em, id)

	if hp.HP != 180 || hp.MaxHP != 180 {
		t.Errorf("hp = %v/%v, want 180", hp.HP, hp.MaxHP)
	}
	if enemy.BaseSpeed != 75 || enemy.Speed != 75 {
		t.Errorf("speed = %v, want 75", enemy.Speed)
	}
	if enemy.Reward != 15 {
		t.Errorf("reward = %d, want 15", enemy.Reward)
	}
	if enemy.Ability != components.AbilitySlam || enemy.AbilityTimer != 4000 {
		t.Errorf("ability not set up: %+v", enemy)
	}

	if _, err := NewEnemy(em, "x", nil, NoScaling, SpawnPoint{}); !errors.Is(err, config.ErrUnknownEnemy) {
		t.Errorf("nil def: got %v", err)
	}
}

func TestFeatureKindForCell(t *testing.T) {
	tests := []struct {
		code grid.CellCode
		want components.FeatureKind
		ok   bool
	}{
		{grid.RuneDamage, components.FeatureRuneDamage, true},
		{grid.RuneRange, components.FeatureRuneRange, true},
		{grid.GoldDeposit, components.FeatureDeposit, true},
		{grid.Chest, components.FeatureChest, true},
		{grid.Path, 0, false},
	}
	for _, tt := range tests {
		got, ok := FeatureKindForCell(tt.code)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("FeatureKindForCell(%v) = %v,%v want %v,%v", tt.code, got, ok, tt.want, tt.ok)
		}
	}
}
