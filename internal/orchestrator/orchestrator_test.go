package orchestrator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/logging"
	"github.com/vaporfield/crystalline/go-core/internal/loopguard"
	"github.com/vaporfield/crystalline/go-core/internal/registry"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
	"github.com/vaporfield/crystalline/go-core/internal/store"
)

func tempOrchestrator(t *testing.T) (*Orchestrator, *store.Store) {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	o, err := NewOrchestrator(s, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o, s
}

// alignedInput builds an input whose pulse matches its context perfectly, so
// resonance scores 1.0.
func alignedInput(turnID, intent string) TurnInput {
	dir := []float64{1, 0, 0.5}
	return TurnInput{
		TurnID: turnID,
		Intent: intent,
		Pulse: resonance.Pulse{
			Content:   intent,
			Direction: dir,
			Magnitude: 0.6,
			Frequency: 0.4,
		},
		Context: resonance.Context{
			Patterns:          []float64{0.6},
			ExpectedDirection: dir,
			SystemFrequency:   0.4,
		},
	}
}

func TestClassifyIntent(t *testing.T) {
	cases := []struct {
		intent string
		class  string
		domain string
	}{
		{"find all stored records about resonance", "query", "records"},
		{"write a short report on the rollout", "create", "documents"},
		{"update the service config", "update", "system"},
		{"remove the stale config entries", "delete", "system"},
		{"hello there", "general", "general"},
	}
	for _, tc := range cases {
		class, domain := ClassifyIntent(tc.intent)
		if class != tc.class || domain != tc.domain {
			t.Errorf("ClassifyIntent(%q) = (%s, %s), want (%s, %s)",
				tc.intent, class, domain, tc.class, tc.domain)
		}
	}
}

func TestDerivePulseDeterministic(t *testing.T) {
	a, err := DerivePulse("stabilize the ingestion pipeline", 16)
	if err != nil {
		t.Fatalf("DerivePulse: %v", err)
	}
	b, err := DerivePulse("stabilize the ingestion pipeline", 16)
	if err != nil {
		t.Fatalf("DerivePulse: %v", err)
	}
	if len(a.Direction) != 16 {
		t.Fatalf("direction length = %d", len(a.Direction))
	}
	for i := range a.Direction {
		if a.Direction[i] != b.Direction[i] {
			t.Fatalf("direction[%d] differs between identical calls", i)
		}
	}
	if a.Magnitude < 0 || a.Magnitude > 1 || a.Frequency < 0 || a.Frequency > 1 {
		t.Fatalf("magnitude %f or frequency %f out of [0,1]", a.Magnitude, a.Frequency)
	}
}

func TestEvaluateTurnCreatesIdeaAndLogs(t *testing.T) {
	o, s := tempOrchestrator(t)

	input := alignedInput("turn-1", "find all entries about resonance")
	input.Pulse.Magnitude = 0.1 // misaligned, keeps score below threshold

	result, err := o.EvaluateTurn(input)
	if err != nil {
		t.Fatalf("EvaluateTurn: %v", err)
	}
	if result.Blocked {
		t.Fatal("unexpected block")
	}
	if result.Decision != "hold" {
		t.Fatalf("decision = %s, want hold", result.Decision)
	}
	if result.Idea.State != lifecycle.StateVapor {
		t.Fatalf("state = %s, want vapor", result.Idea.State)
	}
	if result.Idea.Metadata["classification"] != "query" {
		t.Fatalf("metadata classification = %q", result.Idea.Metadata["classification"])
	}

	stored, err := s.GetIdea(result.Idea.ID)
	if err != nil {
		t.Fatalf("GetIdea: %v", err)
	}
	if len(stored.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(stored.History))
	}

	entries, err := logging.RecentEvaluations(s.DB(), 5)
	if err != nil {
		t.Fatalf("RecentEvaluations: %v", err)
	}
	if len(entries) != 1 || entries[0].Decision != "hold" {
		t.Fatalf("unexpected log entries: %+v", entries)
	}
}

func TestEvaluateTurnCrystallizes(t *testing.T) {
	o, s := tempOrchestrator(t)

	result, err := o.EvaluateTurn(alignedInput("turn-1", "stabilize the pipeline"))
	if err != nil {
		t.Fatalf("EvaluateTurn: %v", err)
	}
	if result.Resonance.Score < 0.999 {
		t.Fatalf("aligned input scored %f, want ~1.0", result.Resonance.Score)
	}
	if result.Decision != "crystallize" {
		t.Fatalf("decision = %s, want crystallize", result.Decision)
	}

	stored, err := s.GetIdea(result.Idea.ID)
	if err != nil {
		t.Fatalf("GetIdea: %v", err)
	}
	if stored.State != lifecycle.StateCrystal {
		t.Fatalf("persisted state = %s, want crystal", stored.State)
	}
}

func TestEvaluateTurnFollowsExistingIdea(t *testing.T) {
	o, _ := tempOrchestrator(t)

	first, err := o.EvaluateTurn(alignedInput("turn-1", "stabilize the pipeline"))
	if err != nil {
		t.Fatalf("EvaluateTurn: %v", err)
	}

	next := alignedInput("turn-2", "stabilize the pipeline")
	next.IdeaID = first.Idea.ID
	second, err := o.EvaluateTurn(next)
	if err != nil {
		t.Fatalf("EvaluateTurn: %v", err)
	}
	if second.Idea.ID != first.Idea.ID {
		t.Fatalf("idea ID changed: %s vs %s", second.Idea.ID, first.Idea.ID)
	}
	if len(second.Idea.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(second.Idea.History))
	}
}

func TestEvaluateTurnBlocksLoops(t *testing.T) {
	o, s := tempOrchestrator(t)

	now := time.Now().UTC()
	history := []loopguard.Action{
		{ID: "a1", Type: "query", Payload: "find the missing entries", Timestamp: now.Add(-3 * time.Minute)},
		{ID: "a2", Type: "query", Payload: "find the missing entries", Timestamp: now.Add(-2 * time.Minute)},
	}

	input := alignedInput("turn-3", "find the missing entries")
	input.History = history

	result, err := o.EvaluateTurn(input)
	if err != nil {
		t.Fatalf("EvaluateTurn: %v", err)
	}
	if !result.Blocked {
		t.Fatal("expected loop block")
	}
	if result.Decision != "loop_blocked" {
		t.Fatalf("decision = %s", result.Decision)
	}
	if result.SuggestedPivot == "" {
		t.Fatal("expected a pivot suggestion")
	}

	entries, err := logging.RecentEvaluations(s.DB(), 5)
	if err != nil {
		t.Fatalf("RecentEvaluations: %v", err)
	}
	if len(entries) != 1 || entries[0].Decision != "loop_blocked" {
		t.Fatalf("unexpected log entries: %+v", entries)
	}
}

func TestEvaluateTurnGuardDisabled(t *testing.T) {
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	config := DefaultConfig()
	config.GuardEnabled = false
	o, err := NewOrchestrator(s, nil, config)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	now := time.Now().UTC()
	input := alignedInput("turn-3", "find the missing entries")
	input.History = []loopguard.Action{
		{ID: "a1", Type: "query", Payload: "find the missing entries", Timestamp: now.Add(-3 * time.Minute)},
		{ID: "a2", Type: "query", Payload: "find the missing entries", Timestamp: now.Add(-2 * time.Minute)},
	}

	result, err := o.EvaluateTurn(input)
	if err != nil {
		t.Fatalf("EvaluateTurn: %v", err)
	}
	if result.Blocked {
		t.Fatal("disabled guard must not block")
	}
}

func TestEvaluateTurnAppliesPatternAndReinforces(t *testing.T) {
	o, s := tempOrchestrator(t)

	intent := "stabilize the ingestion pipeline before scaling"
	if err := s.SavePattern(registry.Pattern{
		ID:         "p1",
		Title:      "Stabilize first",
		Text:       intent,
		Confidence: 0.9,
		Retention:  registry.RetentionPending,
	}); err != nil {
		t.Fatalf("SavePattern: %v", err)
	}

	result, err := o.EvaluateTurn(alignedInput("turn-1", intent))
	if err != nil {
		t.Fatalf("EvaluateTurn: %v", err)
	}
	if !result.Search.Applied {
		t.Fatalf("pattern not applied: best=%+v", result.Search.Best)
	}
	if result.Search.AppliedPattern != intent {
		t.Fatalf("applied pattern text = %q", result.Search.AppliedPattern)
	}

	links, err := o.links.Neighbors(result.Idea.ID, 0)
	if err != nil {
		t.Fatalf("Neighbors: %v", err)
	}
	if len(links) != 1 || links[0].TargetID != "p1" {
		t.Fatalf("expected provenance link to p1, got %+v", links)
	}
}
