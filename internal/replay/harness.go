package replay

import (
	"fmt"
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/loopguard"
	"github.com/vaporfield/crystalline/go-core/internal/orchestrator"
	"github.com/vaporfield/crystalline/go-core/internal/registry"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

// #region types

// Interaction represents a single recorded turn for replay.
type Interaction struct {
	TurnID  string
	Intent  string
	IdeaRef string // fixture-local idea label; first use creates the idea
	Pulse   resonance.Pulse
	Offset  time.Duration // position on the replay clock
}

// ReplayResult captures the outcome of replaying one interaction through the
// full pipeline.
type ReplayResult struct {
	TurnID   string
	IdeaRef  string
	Decision string // "crystallize" | "revert" | "hold" | "loop_blocked"
	Reason   string

	// Guard stage
	SuggestedPivot string

	// Search stage (zero when blocked)
	PatternApplied bool
	AppliedPattern string // best match's pattern ID when applied

	// Resonance and lifecycle stages (zero when blocked)
	Resonance resonance.Resonance
	IdeaState lifecycle.State
}

// ReplaySummary provides aggregate stats from a replay run.
type ReplaySummary struct {
	TotalTurns      int
	Crystallized    int
	Reverted        int
	Held            int
	Blocked         int
	PatternsApplied int
	FinalIdeas      map[string]lifecycle.Idea // by fixture idea ref
}

// #endregion types

// #region replay

// Replay iterates through interactions, applying the full pipeline per turn:
// classify, loop guard, pattern search, resonance, lifecycle. Operates
// entirely in-memory; the guard reads time from the replay clock, so fixture
// offsets are reproducible.
func Replay(patterns []registry.Pattern, ctx resonance.Context, interactions []Interaction, config ReplayConfig) ([]ReplayResult, map[string]lifecycle.Idea, error) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := base
	guard := loopguard.NewGuardWithClock(config.Guard, func() time.Time { return clock })
	engine := resonance.NewEngine(config.Resonance)
	manager := lifecycle.NewManager(config.Lifecycle)

	ideas := make(map[string]lifecycle.Idea)
	var history []loopguard.Action
	results := make([]ReplayResult, 0, len(interactions))

	for _, inter := range interactions {
		clock = base.Add(inter.Offset)
		class, domain := orchestrator.ClassifyIntent(inter.Intent)

		candidate := loopguard.Action{
			ID:        inter.TurnID,
			Type:      class,
			Payload:   inter.Intent,
			Timestamp: clock,
		}
		guarded := guard.BeforeAction(candidate, history)
		if !guarded.ShouldProceed {
			// Blocked actions were never taken, so they stay out of history.
			results = append(results, ReplayResult{
				TurnID:         inter.TurnID,
				IdeaRef:        inter.IdeaRef,
				Decision:       "loop_blocked",
				Reason:         guarded.Reason,
				SuggestedPivot: guarded.SuggestedPivot,
			})
			continue
		}
		history = append(history, candidate)

		search, err := registry.Search(inter.Intent, class, domain, patterns)
		if err != nil {
			return results, ideas, fmt.Errorf("replay turn %s: %w", inter.TurnID, err)
		}

		res, err := engine.Measure(inter.Pulse, ctx)
		if err != nil {
			return results, ideas, fmt.Errorf("replay turn %s: %w", inter.TurnID, err)
		}

		idea, ok := ideas[inter.IdeaRef]
		if !ok {
			idea = manager.CreateIdea(inter.Pulse, nil)
		}
		check := manager.CheckCrystallization(idea, res)
		ideas[inter.IdeaRef] = check.Idea

		result := ReplayResult{
			TurnID:         inter.TurnID,
			IdeaRef:        inter.IdeaRef,
			Decision:       decisionFor(check.Transition),
			Reason:         check.Reason,
			PatternApplied: search.Applied,
			Resonance:      res,
			IdeaState:      check.Idea.State,
		}
		if search.Applied {
			result.AppliedPattern = search.Best.Pattern.ID
		}
		results = append(results, result)
	}

	return results, ideas, nil
}

// #endregion replay

// #region summarize

// Summarize computes aggregate stats from replay results.
func Summarize(results []ReplayResult, finalIdeas map[string]lifecycle.Idea) ReplaySummary {
	s := ReplaySummary{
		TotalTurns: len(results),
		FinalIdeas: finalIdeas,
	}
	for _, r := range results {
		switch r.Decision {
		case "crystallize":
			s.Crystallized++
		case "revert":
			s.Reverted++
		case "hold":
			s.Held++
		case "loop_blocked":
			s.Blocked++
		}
		if r.PatternApplied {
			s.PatternsApplied++
		}
	}
	return s
}

// #endregion summarize

// #region verify

// Verify compares replay results against the fixture's expectations and
// returns one message per mismatch. Turns without an expectation are skipped.
func Verify(results []ReplayResult, expected []FixtureExpectedResult) []string {
	byTurn := make(map[string]ReplayResult, len(results))
	for _, r := range results {
		byTurn[r.TurnID] = r
	}

	var mismatches []string
	for _, exp := range expected {
		got, ok := byTurn[exp.TurnID]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("turn %s: no result", exp.TurnID))
			continue
		}
		if got.Decision != exp.Decision {
			mismatches = append(mismatches, fmt.Sprintf("turn %s: decision %s, expected %s",
				exp.TurnID, got.Decision, exp.Decision))
		}
	}
	return mismatches
}

// #endregion verify

// #region helpers

func decisionFor(t lifecycle.Transition) string {
	switch t {
	case lifecycle.TransitionCrystallize:
		return "crystallize"
	case lifecycle.TransitionRevert:
		return "revert"
	default:
		return "hold"
	}
}

// #endregion helpers
