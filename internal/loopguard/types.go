package loopguard

import "time"

// #region config
// Config holds thresholds for loop detection.
type Config struct {
	Window              time.Duration // look-back window over the action history
	MinRepetitions      int           // similar actions required to call it a loop
	SimilarityThreshold float64       // per-pair similarity above which actions count as repeats
}

// DefaultConfig returns the standard detection thresholds.
func DefaultConfig() Config {
	return Config{
		Window:              5 * time.Minute,
		MinRepetitions:      3,
		SimilarityThreshold: 0.7,
	}
}

// #endregion config

// #region action
// Action is one entry in a caller-owned, time-ordered history. Payload is a
// string, a map[string]string, or any comparable value; the guard never
// stores actions itself, and callers must bound their history length and age.
type Action struct {
	ID        string
	Type      string
	Payload   any
	Timestamp time.Time
}

// #endregion action

// #region loop-check
// LoopCheck is the outcome of a detection pass.
type LoopCheck struct {
	Detected    bool
	Pattern     string // repeated action type, when detected
	Repetitions int    // similar actions counted, when detected
}

// #endregion loop-check

// #region before-action-result
// BeforeActionResult gates a candidate action against the history.
type BeforeActionResult struct {
	ShouldProceed  bool
	Reason         string // human-readable, set when blocked
	SuggestedPivot string // alternate approach, set when blocked
}

// #endregion before-action-result
