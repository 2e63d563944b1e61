package harmonic

import "errors"

// #region constants
const (
	// DefaultDim is the standard embedding dimension used across the system.
	DefaultDim = 128

	// magSteps and phaseSteps quantize the hash seed into the two bands.
	magSteps   = 500
	phaseSteps = 10000

	// harmonicWeight and keywordWeight blend vector similarity with
	// keyword overlap in PatternMatchConfidence.
	harmonicWeight = 0.7
	keywordWeight  = 0.3
)

// #endregion constants

// #region errors
// ErrInvalidDim is returned when an embedding dimension is zero or negative.
var ErrInvalidDim = errors.New("harmonic: embedding dimension must be positive")

// ErrDimensionMismatch is returned when two vectors of different lengths are
// compared. Mismatched vectors are never truncated or padded.
var ErrDimensionMismatch = errors.New("harmonic: vector dimension mismatch")

// #endregion errors

// #region harmonic
// Harmonic is a single (magnitude, phase) component of an embedding vector.
// Magnitude lies in [0.5, 1.5), phase in [-pi, pi).
type Harmonic struct {
	Mag   float64
	Phase float64
}

// Vector is a fixed-length sequence of harmonics derived from text.
// Vectors are recomputed on demand and never persisted apart from their
// source text.
type Vector []Harmonic

// #endregion harmonic
