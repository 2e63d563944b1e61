package harmonic

import (
	"math"
	"strconv"
)

// #region hash
// fnv1a computes the 64-bit FNV-1a hash of s. Order-sensitive, no per-process
// salt, identical on every platform.
func fnv1a(s string) uint64 {
	const (
		offset = 14695981039346656037
		prime  = 1099511628211
	)
	h := uint64(offset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= prime
	}
	return h
}

// #endregion hash

// #region embed
// Embed derives a deterministic harmonic vector from text. Each dimension i
// hashes text concatenated with i, then maps the seed onto the magnitude band
// [0.5, 1.5) and the phase band [-pi, pi). Identical text and dim always
// produce an identical vector, across processes and platforms.
//
// The hash stands in for a learned embedding: it is a cheap, reproducible
// similarity proxy, not a semantic model.
func Embed(text string, dim int) (Vector, error) {
	if dim <= 0 {
		return nil, ErrInvalidDim
	}

	vec := make(Vector, dim)
	for i := 0; i < dim; i++ {
		seed := fnv1a(text + strconv.Itoa(i))
		vec[i] = Harmonic{
			Mag:   0.5 + float64(seed%magSteps)/magSteps,
			Phase: -math.Pi + float64(seed%phaseSteps)/phaseSteps*2*math.Pi,
		}
	}
	return vec, nil
}

// #endregion embed
