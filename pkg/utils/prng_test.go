package utils

import (
	"math"
	"testing"
)

func TestPRNGIsReproducible(t *testing.T) {
	a, b := NewPRNG(42), NewPRNG(42)
	for i := 0; i < 50; i++ {
		if a.Intn(1000) != b.Intn(1000) {
			t.Fatal("same seed produced different sequences")
		}
	}
	if a.Seed() != 42 {
		t.Errorf("Seed() = %d, want 42", a.Seed())
	}
}

func TestChooseWeighted(t *testing.T) {
	p := NewPRNG(7)

	if got := p.ChooseWeighted(nil); got != "" {
		t.Errorf("empty table = %q, want empty", got)
	}
	if got := p.ChooseWeighted([]Weighted{{"a", 0}, {"b", 0}}); got != "a" {
		t.Errorf("zero weights = %q, want first entry", got)
	}

	counts := map[string]int{}
	table := []Weighted{{"common", 9}, {"never", 0}, {"rare", 1}}
	for i := 0; i < 2000; i++ {
		counts[p.ChooseWeighted(table)]++
	}
	if counts["never"] != 0 {
		t.Errorf("zero-weight entry chosen %d times", counts["never"])
	}
	if counts["common"] <= counts["rare"] {
		t.Errorf("weights not respected: %v", counts)
	}
}

func TestChanceBounds(t *testing.T) {
	p := NewPRNG(1)
	for i := 0; i < 100; i++ {
		if p.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !p.Chance(1) {
			t.Fatal("Chance(1) returned false")
		}
	}
}

func TestMoveTowards(t *testing.T) {
	x, y, reached := MoveTowards(0, 0, 10, 0, 4)
	if reached || x != 4 || y != 0 {
		t.Errorf("MoveTowards partial = (%v,%v,%v)", x, y, reached)
	}
	x, y, reached = MoveTowards(0, 0, 3, 4, 6)
	if !reached || x != 3 || y != 4 {
		t.Errorf("MoveTowards overshoot = (%v,%v,%v)", x, y, reached)
	}
}

func TestAngleBetween(t *testing.T) {
	if got := AngleBetween(1, 0, 0, 1); math.Abs(got-math.Pi/2) > 1e-9 {
		t.Errorf("AngleBetween right angle = %v", got)
	}
	if got := AngleBetween(0, 0, 1, 1); got != 0 {
		t.Errorf("zero vector angle = %v, want 0", got)
	}
}
