package logging

import "time"

// #region evaluation-entry
// EvaluationEntry is a single row in the evaluation_log table, recording one
// turn's scoring decision for inspection and fixture export.
type EvaluationEntry struct {
	TurnID          string
	IdeaID          string
	PatternID       string
	MatchConfidence float64
	ResonanceScore  float64
	Decision        string // "crystallize" | "revert" | "hold" | "loop_blocked"
	Reason          string
	CreatedAt       time.Time
}

// #endregion evaluation-entry
