package core_test

import (
	"math/rand"
	"testing"

	"github.com/vovakirdan/tui-blast/internal/games/blast/core"
)

func TestChooseKindColorsOnlyWithoutQuotas(t *testing.T) {
	p := core.NewGenerationPolicy(rand.New(rand.NewSource(1)), nil, core.DefaultOverflowChance)

	seen := make(map[core.Kind]int)
	for i := 0; i < 500; i++ {
		k := p.ChooseKind(i%7, i%9)
		if !k.IsColor() {
			t.Fatalf("expected only colors, got %s", k)
		}
		seen[k]++
	}
	if len(seen) != len(core.ColorKinds) {
		t.Errorf("expected every color to appear, got %v", seen)
	}
}

func TestChooseKindNeverDuckOnBottomRow(t *testing.T) {
	quotas := map[core.Kind]int{core.KindDuck: 1000, core.KindBalloon: 1000}
	p := core.NewGenerationPolicy(rand.New(rand.NewSource(9)), quotas, 1.0)

	balloons := 0
	for i := 0; i < 2000; i++ {
		k := p.ChooseKind(i%8, 0)
		if k == core.KindDuck {
			t.Fatal("duck generated on row 0")
		}
		if k == core.KindBalloon {
			balloons++
		}
	}
	if balloons == 0 {
		t.Error("balloons may still be generated on row 0")
	}
}

func TestChooseKindQuota(t *testing.T) {
	rng := &core.ScriptedRand{
		Ints:   []int{5}, // last candidate: the duck when eligible
		Floats: []float64{0.9},
	}
	p := core.NewGenerationPolicy(rng, map[core.Kind]int{core.KindDuck: 2}, 0.15)

	if k := p.ChooseKind(0, 3); k != core.KindDuck {
		t.Fatalf("expected duck under quota, got %s", k)
	}
	if k := p.ChooseKind(0, 3); k != core.KindDuck {
		t.Fatalf("expected second duck under quota, got %s", k)
	}
	// quota reached and the override roll fails: five colors remain, 5%5 = 0
	if k := p.ChooseKind(0, 3); k != core.KindRed {
		t.Fatalf("expected red once the quota is reached, got %s", k)
	}

	q := p.Quota(core.KindDuck)
	if q.Placed != 2 || q.Allowed != 2 || q.Overflow != 0 {
		t.Errorf("unexpected quota %+v", q)
	}
}

func TestChooseKindOverride(t *testing.T) {
	rng := &core.ScriptedRand{
		Ints:   []int{5},
		Floats: []float64{0.1},
	}
	p := core.NewGenerationPolicy(rng, map[core.Kind]int{core.KindDuck: 1}, 0.15)
	p.Note(core.KindDuck)

	if k := p.ChooseKind(2, 4); k != core.KindDuck {
		t.Fatalf("expected override to allow a duck, got %s", k)
	}
	q := p.Quota(core.KindDuck)
	if q.Placed != 2 || q.Overflow != 1 {
		t.Errorf("expected placed 2 with 1 overflow, got %+v", q)
	}
}

func TestChooseKindQuotaProperty(t *testing.T) {
	quotas := map[core.Kind]int{core.KindDuck: 5, core.KindBalloon: 3}
	p := core.NewGenerationPolicy(rand.New(rand.NewSource(77)), quotas, core.DefaultOverflowChance)

	for i := 0; i < 3000; i++ {
		row := i % 10
		k := p.ChooseKind(i%6, row)
		if row == 0 && k.BottomRestricted() {
			t.Fatalf("bottom-restricted %s on row 0", k)
		}
		for kind, allowed := range quotas {
			q := p.Quota(kind)
			if q.Placed > allowed+q.Overflow {
				t.Fatalf("%s placed %d exceeds allowed %d plus overflow %d", kind, q.Placed, allowed, q.Overflow)
			}
		}
	}
}

func TestGenerationReset(t *testing.T) {
	p := core.NewGenerationPolicy(&core.ScriptedRand{Ints: []int{5}}, map[core.Kind]int{core.KindBalloon: 1}, 0)
	if k := p.ChooseKind(0, 0); k != core.KindBalloon {
		t.Fatalf("expected balloon, got %s", k)
	}
	p.Reset(map[core.Kind]int{core.KindBalloon: 1})
	if q := p.Quota(core.KindBalloon); q.Placed != 0 {
		t.Errorf("expected reset counter, got %+v", q)
	}
}

func TestSuspendOverflow(t *testing.T) {
	rng := &core.ScriptedRand{
		Ints:   []int{5}, // the duck when it is a candidate
		Floats: []float64{0},
	}
	p := core.NewGenerationPolicy(rng, map[core.Kind]int{core.KindDuck: 1}, 1.0)
	p.Note(core.KindDuck)

	if k := p.ChooseKind(0, 2); k != core.KindDuck {
		t.Fatalf("override roll should allow a duck past its quota, got %s", k)
	}

	restore := p.SuspendOverflow()
	for i := 0; i < 10; i++ {
		if k := p.ChooseKind(0, 2); k == core.KindDuck {
			t.Fatal("duck generated past its quota while the override is suspended")
		}
	}
	restore()

	if k := p.ChooseKind(0, 2); k != core.KindDuck {
		t.Errorf("override roll should apply again after restore, got %s", k)
	}
	if q := p.Quota(core.KindDuck); q.Placed != 3 || q.Overflow != 2 {
		t.Errorf("unexpected counters %+v", q)
	}
}
