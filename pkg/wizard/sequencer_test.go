package wizard

import (
	"math/rand"
	"testing"
)

func TestClamp(t *testing.T) {
	cases := []struct {
		index, count, want int
	}{
		{index: 0, count: 0, want: 0},
		{index: 4, count: 0, want: 0},
		{index: -2, count: 3, want: 0},
		{index: 1, count: 3, want: 1},
		{index: 5, count: 3, want: 2},
		{index: 3, count: 3, want: 2},
	}
	for _, tc := range cases {
		if got := Clamp(tc.index, tc.count); got != tc.want {
			t.Fatalf("Clamp(%d, %d) = %d, want %d", tc.index, tc.count, got, tc.want)
		}
	}
}

func TestSequencer_Scenario(t *testing.T) {
	steps := []string{"A", "B", "C"}
	seq := NewSequencer()
	seq.Evaluate(len(steps))

	if seq.CanRetreat() {
		t.Fatalf("expected canRetreat false at start")
	}
	if !seq.CanAdvance(len(steps)) {
		t.Fatalf("expected canAdvance true at start")
	}

	seq.Advance()
	if got := seq.Index(); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	seq.Advance()
	if got := seq.Index(); got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
	if seq.CanAdvance(len(steps)) {
		t.Fatalf("expected canAdvance false on last step")
	}
	seq.Retreat()
	if got := seq.Index(); got != 1 {
		t.Fatalf("expected index 1 after retreat, got %d", got)
	}
}

func TestSequencer_RetreatAtFirstIsNoop(t *testing.T) {
	seq := NewSequencer()
	seq.Evaluate(3)
	seq.Retreat()
	if got := seq.Stored(); got != 0 {
		t.Fatalf("expected stored index 0, got %d", got)
	}
}

func TestSequencer_AdvanceAtLastIsNoop(t *testing.T) {
	seq := NewSequencer(WithInitialStep(2))
	seq.Evaluate(3)
	seq.Advance()
	if got := seq.Stored(); got != 2 {
		t.Fatalf("expected stored index 2, got %d", got)
	}
}

func TestSequencer_AdvanceIf(t *testing.T) {
	for start := 0; start < 3; start++ {
		seq := NewSequencer(WithInitialStep(start))
		seq.Evaluate(3)
		seq.AdvanceIf(false)
		if got := seq.Index(); got != start {
			t.Fatalf("advance(false) from %d moved to %d", start, got)
		}
	}

	gated := NewSequencer()
	plain := NewSequencer()
	gated.Evaluate(4)
	plain.Evaluate(4)
	for i := 0; i < 6; i++ {
		gated.AdvanceIf(true)
		plain.Advance()
		if gated.Index() != plain.Index() {
			t.Fatalf("advance(true) diverged from advance() at call %d: %d vs %d", i, gated.Index(), plain.Index())
		}
	}
}

func TestSequencer_SetStepClampsOnEvaluation(t *testing.T) {
	var corrections []int
	seq := NewSequencer(WithCorrection(func(index int) {
		corrections = append(corrections, index)
	}))
	seq.Evaluate(3)

	seq.SetStep(5)
	if got := seq.Stored(); got != 5 {
		t.Fatalf("expected SetStep to store raw value, got %d", got)
	}
	if got := seq.Evaluate(3); got != 2 {
		t.Fatalf("expected clamped index 2, got %d", got)
	}
	if got := seq.Stored(); got != 2 {
		t.Fatalf("expected stored index corrected to 2, got %d", got)
	}

	// A second evaluation of an in-range index must not correct again.
	seq.Evaluate(3)
	if len(corrections) != 1 || corrections[0] != 2 {
		t.Fatalf("expected exactly one correction to 2, got %v", corrections)
	}
}

func TestSequencer_NegativeSetStep(t *testing.T) {
	seq := NewSequencer()
	seq.SetStep(-4)
	if got := seq.Evaluate(3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
}

func TestSequencer_ShrinkingStepList(t *testing.T) {
	seq := NewSequencer()
	seq.Evaluate(3)
	seq.Advance()
	seq.Advance()
	if got := seq.Index(); got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
	if got := seq.Evaluate(1); got != 0 {
		t.Fatalf("expected index 0 after shrinking to one step, got %d", got)
	}
}

func TestSequencer_WithoutAutoCorrect(t *testing.T) {
	calls := 0
	seq := NewSequencer(WithoutAutoCorrect(), WithCorrection(func(int) { calls++ }))
	seq.SetStep(7)
	if got := seq.Evaluate(2); got != 1 {
		t.Fatalf("expected reported index 1, got %d", got)
	}
	if got := seq.Stored(); got != 7 {
		t.Fatalf("expected stored index untouched, got %d", got)
	}
	if calls != 0 {
		t.Fatalf("expected no correction callbacks, got %d", calls)
	}
	seq.Retreat()
	if got := seq.Index(); got != 0 {
		t.Fatalf("expected retreat from reported index 1 to 0, got %d", got)
	}
}

func TestSequencer_EmptyList(t *testing.T) {
	seq := NewSequencer()
	seq.Evaluate(0)
	seq.Advance()
	seq.Retreat()
	if got := seq.Index(); got != 0 {
		t.Fatalf("expected index 0 for empty list, got %d", got)
	}
	if seq.CanAdvance(0) || seq.CanRetreat() {
		t.Fatalf("expected no navigation on empty list")
	}
}

func TestSequencer_RandomWalkStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for n := 0; n < 8; n++ {
		seq := NewSequencer()
		seq.Evaluate(n)
		for i := 0; i < 200; i++ {
			switch rng.Intn(3) {
			case 0:
				seq.Advance()
			case 1:
				seq.Retreat()
			default:
				seq.AdvanceIf(rng.Intn(2) == 0)
			}
			idx := seq.Index()
			upper := n - 1
			if upper < 0 {
				upper = 0
			}
			if idx < 0 || idx > upper {
				t.Fatalf("n=%d: index %d escaped [0, %d]", n, idx, upper)
			}
			if seq.Stored() != idx {
				t.Fatalf("n=%d: stored %d diverged from reported %d", n, seq.Stored(), idx)
			}
		}
	}
}
