package lifecycle

import (
	"testing"
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

func TestCreateIdeaStartsInVapor(t *testing.T) {
	m := NewManager(DefaultConfig())
	pulse := resonance.Pulse{Content: "cache invalidation scheme"}

	idea := m.CreateIdea(pulse, map[string]string{"origin": "repl"})
	if idea.ID == "" {
		t.Fatal("expected non-empty ID")
	}
	if idea.State != StateVapor {
		t.Fatalf("state = %s, want vapor", idea.State)
	}
	if len(idea.History) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(idea.History))
	}
	if idea.Content != pulse.Content {
		t.Fatalf("content = %q", idea.Content)
	}
	if idea.Metadata["origin"] != "repl" {
		t.Fatal("metadata not carried over")
	}
}

func TestCrystallizeAtThreshold(t *testing.T) {
	m := NewManager(DefaultConfig())
	idea := m.CreateIdea(resonance.Pulse{Content: "x"}, nil)

	result := m.CheckCrystallization(idea, resonance.Resonance{Score: 0.95})
	if result.Transition != TransitionCrystallize {
		t.Fatalf("transition = %s, want crystallize", result.Transition)
	}
	if result.Idea.State != StateCrystal {
		t.Fatalf("state = %s, want crystal", result.Idea.State)
	}
	if len(result.Idea.History) != 1 || result.Idea.History[0] != 0.95 {
		t.Fatalf("history = %v", result.Idea.History)
	}
}

func TestNoCrystallizeJustBelowThreshold(t *testing.T) {
	m := NewManager(DefaultConfig())
	idea := m.CreateIdea(resonance.Pulse{Content: "x"}, nil)

	result := m.CheckCrystallization(idea, resonance.Resonance{Score: 0.949})
	if result.Transition != TransitionNone {
		t.Fatalf("transition = %s, want none", result.Transition)
	}
	if result.Idea.State != StateVapor {
		t.Fatalf("state = %s, want vapor", result.Idea.State)
	}
}

func TestRevertAfterThreeLowReadings(t *testing.T) {
	m := NewManager(DefaultConfig())
	idea := m.CreateIdea(resonance.Pulse{Content: "x"}, nil)

	result := m.CheckCrystallization(idea, resonance.Resonance{Score: 0.96})
	if result.Idea.State != StateCrystal {
		t.Fatalf("setup: state = %s, want crystal", result.Idea.State)
	}

	for i, score := range []float64{0.80, 0.80} {
		result = m.CheckCrystallization(result.Idea, resonance.Resonance{Score: score})
		if result.Idea.State != StateCrystal {
			t.Fatalf("reading %d: reverted too early", i+1)
		}
	}

	result = m.CheckCrystallization(result.Idea, resonance.Resonance{Score: 0.80})
	if result.Transition != TransitionRevert {
		t.Fatalf("transition = %s, want revert", result.Transition)
	}
	if result.Idea.State != StateVapor {
		t.Fatalf("state = %s, want vapor", result.Idea.State)
	}
}

func TestHighReadingBreaksRevertStreak(t *testing.T) {
	m := NewManager(DefaultConfig())
	idea := m.CreateIdea(resonance.Pulse{Content: "x"}, nil)

	result := m.CheckCrystallization(idea, resonance.Resonance{Score: 0.96})
	for _, score := range []float64{0.80, 0.80, 0.96} {
		result = m.CheckCrystallization(result.Idea, resonance.Resonance{Score: score})
	}
	if result.Idea.State != StateCrystal {
		t.Fatalf("state = %s, want crystal", result.Idea.State)
	}
}

func TestNoRevertWithShortHistory(t *testing.T) {
	m := NewManager(DefaultConfig())
	idea := Idea{ID: "i1", State: StateCrystal, History: []float64{0.80}}

	result := m.CheckCrystallization(idea, resonance.Resonance{Score: 0.80})
	// Only two readings available; fewer than the revert threshold.
	if result.Transition != TransitionNone {
		t.Fatalf("transition = %s, want none", result.Transition)
	}
	if result.Idea.State != StateCrystal {
		t.Fatalf("state = %s, want crystal", result.Idea.State)
	}
}

func TestCheckCrystallizationPure(t *testing.T) {
	m := NewManager(DefaultConfig())
	original := Idea{ID: "i1", State: StateVapor, History: []float64{0.5}}

	result := m.CheckCrystallization(original, resonance.Resonance{Score: 0.96})
	if len(original.History) != 1 {
		t.Fatalf("input idea mutated: history = %v", original.History)
	}
	if original.State != StateVapor {
		t.Fatal("input idea state mutated")
	}
	if len(result.Idea.History) != 2 {
		t.Fatalf("result history = %v", result.Idea.History)
	}
}

func TestLastStateChangeOnlyOnTransition(t *testing.T) {
	m := NewManager(DefaultConfig())
	stamp := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	idea := Idea{ID: "i1", State: StateVapor, LastStateChange: stamp}

	result := m.CheckCrystallization(idea, resonance.Resonance{Score: 0.5})
	if !result.Idea.LastStateChange.Equal(stamp) {
		t.Fatal("LastStateChange moved without a transition")
	}

	result = m.CheckCrystallization(result.Idea, resonance.Resonance{Score: 0.99})
	if result.Idea.LastStateChange.Equal(stamp) {
		t.Fatal("LastStateChange not updated on crystallize")
	}
}

func TestFilterByState(t *testing.T) {
	ideas := []Idea{
		{ID: "a", State: StateVapor},
		{ID: "b", State: StateCrystal},
		{ID: "c", State: StateVapor},
	}

	vapor := FilterByState(ideas, StateVapor)
	if len(vapor) != 2 || vapor[0].ID != "a" || vapor[1].ID != "c" {
		t.Fatalf("vapor filter = %+v", vapor)
	}
	crystal := FilterByState(ideas, StateCrystal)
	if len(crystal) != 1 || crystal[0].ID != "b" {
		t.Fatalf("crystal filter = %+v", crystal)
	}
}

func TestMeanResonance(t *testing.T) {
	if got := MeanResonance(Idea{}); got != 0 {
		t.Fatalf("empty history mean = %f, want 0", got)
	}
	idea := Idea{History: []float64{0.8, 0.9, 1.0}}
	if got := MeanResonance(idea); got < 0.899 || got > 0.901 {
		t.Fatalf("mean = %f, want 0.9", got)
	}
}
