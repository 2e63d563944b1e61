package orchestrator

// #region imports
import (
	"strings"

	"github.com/vaporfield/crystalline/go-core/internal/harmonic"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

// #endregion

// #region derive-pulse

// DerivePulse builds a pulse from raw intent text for callers that have no
// upstream signal source. Direction comes from the harmonic embedding
// magnitudes recentered around zero, magnitude from length, frequency from
// lexical diversity. Deterministic for a given text and dim.
func DerivePulse(intent string, dim int) (resonance.Pulse, error) {
	vec, err := harmonic.Embed(intent, dim)
	if err != nil {
		return resonance.Pulse{}, err
	}

	direction := make([]float64, len(vec))
	for i, h := range vec {
		// Magnitudes lie in [0.5, 1.5); recentering spreads them over [-0.5, 0.5).
		direction[i] = h.Mag - 1.0
	}

	words := strings.Fields(strings.ToLower(intent))
	magnitude := float64(len(words)) / 20.0
	if magnitude > 1.0 {
		magnitude = 1.0
	}

	frequency := 0.0
	if len(words) > 0 {
		unique := make(map[string]bool, len(words))
		for _, w := range words {
			unique[w] = true
		}
		frequency = float64(len(unique)) / float64(len(words))
	}

	return resonance.Pulse{
		Content:   intent,
		Direction: direction,
		Magnitude: magnitude,
		Frequency: frequency,
	}, nil
}

// #endregion
