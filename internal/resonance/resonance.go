package resonance

import "math"

// #region engine
// Engine scores pulse/context alignment. Stateless apart from config; safe
// for concurrent use.
type Engine struct {
	config Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(config Config) *Engine {
	return &Engine{config: config}
}

// #endregion engine

// #region measure
// Measure computes the resonance between a pulse and a context:
// direction alignment maps cosine similarity from [-1, 1] onto [0, 1],
// magnitude alignment compares the pulse against the mean historical pattern
// strength (0.5 when no history), and frequency alignment compares the two
// frequencies directly. The overall score weighs them 0.5/0.3/0.2.
func (e *Engine) Measure(pulse Pulse, ctx Context) (Resonance, error) {
	if len(pulse.Direction) != len(ctx.ExpectedDirection) {
		return Resonance{}, ErrDimensionMismatch
	}

	pulseDir := normalize(pulse.Direction)
	expectedDir := normalize(ctx.ExpectedDirection)

	direction := (cosineSimilarity(pulseDir, expectedDir) + 1) / 2

	meanStrength := 0.5
	if len(ctx.Patterns) > 0 {
		var sum float64
		for _, p := range ctx.Patterns {
			sum += p
		}
		meanStrength = sum / float64(len(ctx.Patterns))
	}
	magnitude := clamp(1 - math.Abs(pulse.Magnitude-meanStrength))

	frequency := clamp(1 - math.Abs(pulse.Frequency-ctx.SystemFrequency))

	direction = clamp(direction)
	return Resonance{
		Score:              directionWeight*direction + magnitudeWeight*magnitude + frequencyWeight*frequency,
		DirectionAlignment: direction,
		MagnitudeAlignment: magnitude,
		FrequencyAlignment: frequency,
	}, nil
}

// #endregion measure

// #region should-crystallize
// ShouldCrystallize reports whether a single reading clears the reality
// threshold.
func (e *Engine) ShouldCrystallize(r Resonance) bool {
	return r.Score >= e.config.RealityThreshold
}

// #endregion should-crystallize

// #region helpers
// normalize returns v scaled to unit length. A zero vector is returned
// unchanged: it is treated as the zero direction, not an error.
func normalize(v []float64) []float64 {
	var sumSq float64
	for _, x := range v {
		sumSq += x * x
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// cosineSimilarity computes cosine similarity between equal-length vectors.
// Returns 0 when either vector is zero.
func cosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

// clamp restricts v to [0, 1].
func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// #endregion helpers
