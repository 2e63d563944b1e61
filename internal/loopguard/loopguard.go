package loopguard

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// #region guard
// Guard detects repetitive behavior over an externally supplied action
// history. It keeps no state of its own; every call works on the snapshot the
// caller passes in.
type Guard struct {
	config Config
	now    func() time.Time
}

// NewGuard creates a guard with the given configuration.
func NewGuard(config Config) *Guard {
	return &Guard{config: config, now: time.Now}
}

// NewGuardWithClock creates a guard that reads time from now instead of the
// wall clock. Used by replay, where action timestamps come from a fixture.
func NewGuardWithClock(config Config, now func() time.Time) *Guard {
	return &Guard{config: config, now: now}
}

// #endregion guard

// #region detect
// DetectLoop inspects a time-ordered history for a repetition loop. Actions
// outside the look-back window are ignored; the most recent remaining action
// is compared against each earlier one, and a loop is reported once the
// similar count (the most recent action included) reaches MinRepetitions.
func (g *Guard) DetectLoop(actions []Action) LoopCheck {
	if len(actions) < g.config.MinRepetitions {
		return LoopCheck{}
	}

	cutoff := g.now().Add(-g.config.Window)
	var recent []Action
	for _, a := range actions {
		if !a.Timestamp.Before(cutoff) {
			recent = append(recent, a)
		}
	}
	if len(recent) < g.config.MinRepetitions {
		return LoopCheck{}
	}

	latest := recent[len(recent)-1]
	count := 1 // the latest action counts as its own first occurrence
	for _, earlier := range recent[:len(recent)-1] {
		if actionSimilarity(latest, earlier) > g.config.SimilarityThreshold {
			count++
		}
	}

	if count >= g.config.MinRepetitions {
		return LoopCheck{
			Detected:    true,
			Pattern:     latest.Type,
			Repetitions: count,
		}
	}
	return LoopCheck{}
}

// #endregion detect

// #region before-action
// BeforeAction appends the candidate to a copy of the history and runs loop
// detection. A blocked result carries a reason and a pivot suggestion keyed
// off the action type; the caller's history slice is never mutated.
func (g *Guard) BeforeAction(candidate Action, history []Action) BeforeActionResult {
	appended := make([]Action, 0, len(history)+1)
	appended = append(appended, history...)
	appended = append(appended, candidate)

	check := g.DetectLoop(appended)
	if !check.Detected {
		return BeforeActionResult{ShouldProceed: true}
	}

	return BeforeActionResult{
		ShouldProceed: false,
		Reason: fmt.Sprintf("loop detected: %q repeated %d times within %s",
			check.Pattern, check.Repetitions, g.config.Window),
		SuggestedPivot: pivotFor(candidate.Type),
	}
}

// #endregion before-action

// #region pivots
// pivotFor maps an action type to a fixed alternate-approach suggestion.
func pivotFor(actionType string) string {
	switch strings.ToLower(actionType) {
	case "query", "search":
		return "try rephrasing the query or narrowing its scope"
	case "create", "generate":
		return "refine the requirements before generating again"
	case "update", "modify":
		return "step back and try a different strategy"
	case "delete", "remove":
		return "verify the removal is still necessary"
	default:
		return "pause and reconsider the current approach"
	}
}

// #endregion pivots

// #region similarity
// actionSimilarity scores two actions in [0, 1]. Different types never
// match. String payloads use Jaccard similarity over lowercase word sets,
// map payloads use matching key/value pairs over the key union, anything
// else is exact equality.
func actionSimilarity(a, b Action) float64 {
	if a.Type != b.Type {
		return 0
	}

	switch pa := a.Payload.(type) {
	case string:
		pb, ok := b.Payload.(string)
		if !ok {
			return 0
		}
		return jaccard(wordSet(pa), wordSet(pb))
	case map[string]string:
		pb, ok := b.Payload.(map[string]string)
		if !ok {
			return 0
		}
		return mapSimilarity(pa, pb)
	default:
		if reflect.DeepEqual(a.Payload, b.Payload) {
			return 1
		}
		return 0
	}
}

// wordSet lowercases and whitespace-tokenizes text into a set.
func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = true
	}
	return set
}

// jaccard computes |intersection| / |union| of two word sets.
func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// mapSimilarity computes the fraction of keys present in both maps with equal
// values, over the union of keys.
func mapSimilarity(a, b map[string]string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	union := make(map[string]bool, len(a)+len(b))
	for k := range a {
		union[k] = true
	}
	for k := range b {
		union[k] = true
	}

	matching := 0
	for k := range a {
		if vb, ok := b[k]; ok && vb == a[k] {
			matching++
		}
	}
	return float64(matching) / float64(len(union))
}

// #endregion similarity
