package resonance

import "errors"

// #region constants
const (
	// RealityThreshold is the score at or above which a single reading is
	// strong enough to crystallize an idea.
	RealityThreshold = 0.95

	// Component weights for the overall resonance score.
	directionWeight = 0.5
	magnitudeWeight = 0.3
	frequencyWeight = 0.2
)

// #endregion constants

// #region errors
// ErrDimensionMismatch is returned when a pulse direction and the expected
// direction differ in length. Mismatched vectors are never truncated.
var ErrDimensionMismatch = errors.New("resonance: direction dimension mismatch")

// #endregion errors

// #region pulse
// Pulse is a single evaluated input signal. Direction arrives raw and is
// normalized during measurement; Magnitude and Frequency lie in [0, 1].
type Pulse struct {
	Content   string
	Direction []float64
	Magnitude float64
	Frequency float64
}

// #endregion pulse

// #region context
// Context is the expected system state a pulse is measured against. Supplied
// by the caller from telemetry; read-only during scoring.
type Context struct {
	State             string
	Patterns          []float64 // historical pattern-strength samples
	ExpectedDirection []float64
	SystemFrequency   float64 // in [0, 1]
}

// #endregion context

// #region resonance
// Resonance is the composite alignment between a pulse and a context. Score
// and each component lie in [0, 1]. Derived, ephemeral.
type Resonance struct {
	Score              float64
	DirectionAlignment float64
	MagnitudeAlignment float64
	FrequencyAlignment float64
}

// #endregion resonance

// #region config
// Config holds the engine thresholds.
type Config struct {
	RealityThreshold float64
}

// DefaultConfig returns the standard reality threshold.
func DefaultConfig() Config {
	return Config{RealityThreshold: RealityThreshold}
}

// #endregion config
