package replay

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/registry"
)

const sampleFixture = `{
  "description": "two-turn smoke fixture",
  "patterns": [
    {"pattern_id": "p1", "title": "Stabilize first", "text": "stabilize the flow", "confidence": 0.9, "validation_count": 2, "retention": "permanent"}
  ],
  "context": {
    "state": "steady",
    "patterns": [0.7],
    "expected_direction": [1, 0],
    "system_frequency": 0.5
  },
  "config": {
    "guard_config": {"window_ms": 120000, "min_repetitions": 2}
  },
  "interactions": [
    {"turn_id": "t1", "intent": "stabilize the flow", "idea_ref": "idea-a",
     "pulse": {"content": "stabilize", "direction": [1, 0], "magnitude": 0.7, "frequency": 0.5},
     "offset_ms": 0}
  ],
  "expected_results": [
    {"turn_id": "t1", "decision": "crystallize"}
  ]
}`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, sampleFixture))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	if f.Description != "two-turn smoke fixture" {
		t.Fatalf("description = %q", f.Description)
	}
	if len(f.Patterns) != 1 || len(f.Interactions) != 1 || len(f.ExpectedResults) != 1 {
		t.Fatalf("unexpected shape: %+v", f)
	}

	p := f.Patterns[0].ToPattern()
	if p.ID != "p1" || p.Retention != registry.RetentionPermanent || p.ValidationCount != 2 {
		t.Fatalf("pattern: %+v", p)
	}

	ctx := f.Context.ToContext()
	if len(ctx.ExpectedDirection) != 2 || ctx.SystemFrequency != 0.5 {
		t.Fatalf("context: %+v", ctx)
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := LoadFixture(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadFixtureBadJSON(t *testing.T) {
	if _, err := LoadFixture(writeFixture(t, "{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestToReplayConfigDefaultsAndOverrides(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, sampleFixture))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}
	config := f.Config.ToReplayConfig()

	if config.Guard.Window != 2*time.Minute {
		t.Fatalf("window = %s, want 2m", config.Guard.Window)
	}
	if config.Guard.MinRepetitions != 2 {
		t.Fatalf("min repetitions = %d", config.Guard.MinRepetitions)
	}
	// Unset fields keep their defaults.
	if config.Guard.SimilarityThreshold != 0.7 {
		t.Fatalf("similarity threshold = %f", config.Guard.SimilarityThreshold)
	}
	if config.Resonance.RealityThreshold != 0.95 {
		t.Fatalf("reality threshold = %f", config.Resonance.RealityThreshold)
	}
	if config.Lifecycle.VaporRevertThreshold != 3 {
		t.Fatalf("revert threshold = %d", config.Lifecycle.VaporRevertThreshold)
	}
}

func TestFixtureRoundTripThroughReplay(t *testing.T) {
	f, err := LoadFixture(writeFixture(t, sampleFixture))
	if err != nil {
		t.Fatalf("LoadFixture: %v", err)
	}

	results, _, err := Replay(f.ToPatterns(), f.Context.ToContext(), f.ToInteractions(), f.Config.ToReplayConfig())
	if err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if mismatches := Verify(results, f.ExpectedResults); len(mismatches) != 0 {
		t.Fatalf("mismatches: %v", mismatches)
	}
}
