package replay

import (
	"testing"
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/registry"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

func testContext() resonance.Context {
	return resonance.Context{
		State:             "steady",
		Patterns:          []float64{0.7},
		ExpectedDirection: []float64{1, 0},
		SystemFrequency:   0.5,
	}
}

// alignedPulse scores 1.0 against testContext.
func alignedPulse(content string) resonance.Pulse {
	return resonance.Pulse{Content: content, Direction: []float64{1, 0}, Magnitude: 0.7, Frequency: 0.5}
}

// weakPulse scores 0.82 against testContext.
func weakPulse(content string) resonance.Pulse {
	return resonance.Pulse{Content: content, Direction: []float64{1, 0}, Magnitude: 0.1, Frequency: 0.5}
}

func TestReplayCrystallizesAlignedTurn(t *testing.T) {
	interactions := []Interaction{
		{TurnID: "t1", Intent: "stabilize the ingestion flow", IdeaRef: "idea-a", Pulse: alignedPulse("stabilize"), Offset: 0},
		{TurnID: "t2", Intent: "review the backlog ordering", IdeaRef: "idea-b", Pulse: weakPulse("review"), Offset: 6 * time.Minute},
	}

	results, ideas, err := Replay(nil, testContext(), interactions, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Decision != "crystallize" {
		t.Fatalf("t1 decision = %s, want crystallize", results[0].Decision)
	}
	if results[1].Decision != "hold" {
		t.Fatalf("t2 decision = %s, want hold", results[1].Decision)
	}
	if ideas["idea-a"].State != lifecycle.StateCrystal {
		t.Fatalf("idea-a state = %s", ideas["idea-a"].State)
	}
	if ideas["idea-b"].State != lifecycle.StateVapor {
		t.Fatalf("idea-b state = %s", ideas["idea-b"].State)
	}
}

func TestReplayRevertsAfterSustainedWeakness(t *testing.T) {
	interactions := []Interaction{
		{TurnID: "t1", Intent: "stabilize the ingestion flow", IdeaRef: "idea-a", Pulse: alignedPulse("a"), Offset: 0},
		{TurnID: "t2", Intent: "review the backlog ordering", IdeaRef: "idea-a", Pulse: weakPulse("b"), Offset: 6 * time.Minute},
		{TurnID: "t3", Intent: "collect fresh telemetry", IdeaRef: "idea-a", Pulse: weakPulse("c"), Offset: 12 * time.Minute},
		{TurnID: "t4", Intent: "summarize open issues", IdeaRef: "idea-a", Pulse: weakPulse("d"), Offset: 18 * time.Minute},
	}

	results, ideas, err := Replay(nil, testContext(), interactions, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if results[3].Decision != "revert" {
		t.Fatalf("t4 decision = %s, want revert", results[3].Decision)
	}
	if ideas["idea-a"].State != lifecycle.StateVapor {
		t.Fatalf("idea-a state = %s, want vapor", ideas["idea-a"].State)
	}
	if len(ideas["idea-a"].History) != 4 {
		t.Fatalf("history length = %d, want 4", len(ideas["idea-a"].History))
	}
}

func TestReplayBlocksRepeatedIntent(t *testing.T) {
	intent := "find the missing entries"
	interactions := []Interaction{
		{TurnID: "t1", Intent: intent, IdeaRef: "idea-a", Pulse: weakPulse("a"), Offset: 0},
		{TurnID: "t2", Intent: intent, IdeaRef: "idea-a", Pulse: weakPulse("a"), Offset: time.Minute},
		{TurnID: "t3", Intent: intent, IdeaRef: "idea-a", Pulse: weakPulse("a"), Offset: 2 * time.Minute},
	}

	results, ideas, err := Replay(nil, testContext(), interactions, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if results[0].Decision != "hold" || results[1].Decision != "hold" {
		t.Fatalf("early turns: %s, %s", results[0].Decision, results[1].Decision)
	}
	if results[2].Decision != "loop_blocked" {
		t.Fatalf("t3 decision = %s, want loop_blocked", results[2].Decision)
	}
	if results[2].SuggestedPivot == "" {
		t.Fatal("expected a pivot suggestion")
	}
	// Blocked turn never reached the lifecycle stage.
	if len(ideas["idea-a"].History) != 2 {
		t.Fatalf("history length = %d, want 2", len(ideas["idea-a"].History))
	}
}

func TestReplayAppliesPatterns(t *testing.T) {
	intent := "stabilize the ingestion flow before scaling"
	patterns := []registry.Pattern{
		{ID: "p1", Title: "Stabilize first", Text: intent, Confidence: 0.9, Retention: registry.RetentionPending},
	}
	interactions := []Interaction{
		{TurnID: "t1", Intent: intent, IdeaRef: "idea-a", Pulse: weakPulse("a"), Offset: 0},
	}

	results, _, err := Replay(patterns, testContext(), interactions, DefaultReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if !results[0].PatternApplied || results[0].AppliedPattern != "p1" {
		t.Fatalf("pattern stage: %+v", results[0])
	}
}

func TestSummarize(t *testing.T) {
	results := []ReplayResult{
		{Decision: "crystallize", PatternApplied: true},
		{Decision: "hold"},
		{Decision: "hold"},
		{Decision: "revert"},
		{Decision: "loop_blocked"},
	}
	s := Summarize(results, map[string]lifecycle.Idea{"idea-a": {}})
	if s.TotalTurns != 5 || s.Crystallized != 1 || s.Held != 2 || s.Reverted != 1 || s.Blocked != 1 {
		t.Fatalf("summary: %+v", s)
	}
	if s.PatternsApplied != 1 {
		t.Fatalf("patterns applied = %d", s.PatternsApplied)
	}
}

func TestVerify(t *testing.T) {
	results := []ReplayResult{
		{TurnID: "t1", Decision: "crystallize"},
		{TurnID: "t2", Decision: "hold"},
	}
	expected := []FixtureExpectedResult{
		{TurnID: "t1", Decision: "crystallize"},
		{TurnID: "t2", Decision: "revert"},
		{TurnID: "t3", Decision: "hold"},
	}
	mismatches := Verify(results, expected)
	if len(mismatches) != 2 {
		t.Fatalf("expected 2 mismatches, got %v", mismatches)
	}
}
