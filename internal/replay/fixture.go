package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/loopguard"
	"github.com/vaporfield/crystalline/go-core/internal/registry"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture.
type Fixture struct {
	Description     string                  `json:"description"`
	Patterns        []FixturePattern        `json:"patterns"`
	Context         FixtureContext          `json:"context"`
	Config          FixtureConfig           `json:"config"`
	Interactions    []FixtureInteraction    `json:"interactions"`
	ExpectedResults []FixtureExpectedResult `json:"expected_results"`
}

// FixturePattern mirrors registry.Pattern with JSON tags.
type FixturePattern struct {
	ID              string  `json:"pattern_id"`
	Title           string  `json:"title"`
	Text            string  `json:"text"`
	Confidence      float64 `json:"confidence"`
	ValidationCount int     `json:"validation_count"`
	Performance     string  `json:"performance"`
	Retention       string  `json:"retention"`
}

// FixtureContext mirrors resonance.Context with JSON tags. One context serves
// the whole run.
type FixtureContext struct {
	State             string    `json:"state"`
	Patterns          []float64 `json:"patterns"`
	ExpectedDirection []float64 `json:"expected_direction"`
	SystemFrequency   float64   `json:"system_frequency"`
}

// FixturePulse mirrors resonance.Pulse with JSON tags.
type FixturePulse struct {
	Content   string    `json:"content"`
	Direction []float64 `json:"direction"`
	Magnitude float64   `json:"magnitude"`
	Frequency float64   `json:"frequency"`
}

// FixtureInteraction is a single recorded turn. OffsetMs places the turn on
// the replay clock relative to the run start; IdeaRef is a fixture-local
// label, first use creates the idea and later uses follow it.
type FixtureInteraction struct {
	TurnID   string       `json:"turn_id"`
	Intent   string       `json:"intent"`
	IdeaRef  string       `json:"idea_ref"`
	Pulse    FixturePulse `json:"pulse"`
	OffsetMs int64        `json:"offset_ms"`
}

// FixtureExpectedResult captures the expected decision per turn.
type FixtureExpectedResult struct {
	TurnID   string `json:"turn_id"`
	Decision string `json:"decision"`
}

// FixtureConfig bundles all sub-configs for a replay run.
type FixtureConfig struct {
	Resonance FixtureResonanceConfig `json:"resonance_config"`
	Guard     FixtureGuardConfig     `json:"guard_config"`
	Lifecycle FixtureLifecycleConfig `json:"lifecycle_config"`
}

// FixtureResonanceConfig mirrors resonance.Config with JSON tags.
type FixtureResonanceConfig struct {
	RealityThreshold float64 `json:"reality_threshold"`
}

// FixtureGuardConfig mirrors loopguard.Config with JSON tags.
type FixtureGuardConfig struct {
	WindowMs            int64   `json:"window_ms"`
	MinRepetitions      int     `json:"min_repetitions"`
	SimilarityThreshold float64 `json:"similarity_threshold"`
}

// FixtureLifecycleConfig mirrors lifecycle.Config with JSON tags.
type FixtureLifecycleConfig struct {
	CrystallizationThreshold float64 `json:"crystallization_threshold"`
	VaporRevertThreshold     int     `json:"vapor_revert_threshold"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToPattern converts a FixturePattern to a domain Pattern.
func (fp *FixturePattern) ToPattern() registry.Pattern {
	return registry.Pattern{
		ID:              fp.ID,
		Title:           fp.Title,
		Text:            fp.Text,
		Confidence:      fp.Confidence,
		ValidationCount: fp.ValidationCount,
		Performance:     fp.Performance,
		Retention:       registry.Retention(fp.Retention),
	}
}

// ToContext converts a FixtureContext to a domain Context.
func (fc *FixtureContext) ToContext() resonance.Context {
	return resonance.Context{
		State:             fc.State,
		Patterns:          fc.Patterns,
		ExpectedDirection: fc.ExpectedDirection,
		SystemFrequency:   fc.SystemFrequency,
	}
}

// ToPulse converts a FixturePulse to a domain Pulse.
func (fp *FixturePulse) ToPulse() resonance.Pulse {
	return resonance.Pulse{
		Content:   fp.Content,
		Direction: fp.Direction,
		Magnitude: fp.Magnitude,
		Frequency: fp.Frequency,
	}
}

// ToInteractions converts the fixture's interactions to domain Interactions.
func (f *Fixture) ToInteractions() []Interaction {
	interactions := make([]Interaction, len(f.Interactions))
	for i, fi := range f.Interactions {
		interactions[i] = Interaction{
			TurnID:  fi.TurnID,
			Intent:  fi.Intent,
			IdeaRef: fi.IdeaRef,
			Pulse:   fi.Pulse.ToPulse(),
			Offset:  time.Duration(fi.OffsetMs) * time.Millisecond,
		}
	}
	return interactions
}

// ToPatterns converts the fixture's pattern catalog.
func (f *Fixture) ToPatterns() []registry.Pattern {
	patterns := make([]registry.Pattern, len(f.Patterns))
	for i := range f.Patterns {
		patterns[i] = f.Patterns[i].ToPattern()
	}
	return patterns
}

// ToReplayConfig converts a FixtureConfig to a domain ReplayConfig. Zero
// values fall back to the defaults so sparse fixtures stay short.
func (fc *FixtureConfig) ToReplayConfig() ReplayConfig {
	config := DefaultReplayConfig()
	if fc.Resonance.RealityThreshold > 0 {
		config.Resonance.RealityThreshold = fc.Resonance.RealityThreshold
	}
	if fc.Guard.WindowMs > 0 {
		config.Guard.Window = time.Duration(fc.Guard.WindowMs) * time.Millisecond
	}
	if fc.Guard.MinRepetitions > 0 {
		config.Guard.MinRepetitions = fc.Guard.MinRepetitions
	}
	if fc.Guard.SimilarityThreshold > 0 {
		config.Guard.SimilarityThreshold = fc.Guard.SimilarityThreshold
	}
	if fc.Lifecycle.CrystallizationThreshold > 0 {
		config.Lifecycle.CrystallizationThreshold = fc.Lifecycle.CrystallizationThreshold
	}
	if fc.Lifecycle.VaporRevertThreshold > 0 {
		config.Lifecycle.VaporRevertThreshold = fc.Lifecycle.VaporRevertThreshold
	}
	return config
}

// #endregion fixture-loader

// #region config

// ReplayConfig bundles the stage configs for a replay run.
type ReplayConfig struct {
	Resonance resonance.Config
	Guard     loopguard.Config
	Lifecycle lifecycle.Config
}

// DefaultReplayConfig returns the standard thresholds for all stages.
func DefaultReplayConfig() ReplayConfig {
	return ReplayConfig{
		Resonance: resonance.DefaultConfig(),
		Guard:     loopguard.DefaultConfig(),
		Lifecycle: lifecycle.DefaultConfig(),
	}
}

// #endregion config
