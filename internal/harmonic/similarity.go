package harmonic

import (
	"math"
	"strings"
)

// #region harmonic-similarity
// Similarity scores how closely two harmonic vectors align, in [0, 1].
// Per dimension the score is 0.5*magnitude similarity + 0.5*phase similarity;
// the result is the arithmetic mean across dimensions. Phase distance is
// circular, so -pi and pi are treated as adjacent.
func Similarity(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	if len(a) == 0 {
		return 0, nil
	}

	var total float64
	for i := range a {
		dMag := math.Abs(a[i].Mag - b[i].Mag)
		magSim := 1 - math.Min(dMag, 1)

		dPhase := math.Abs(a[i].Phase - b[i].Phase)
		circ := math.Min(dPhase, 2*math.Pi-dPhase)
		phaseSim := 1 - circ/math.Pi

		total += 0.5*magSim + 0.5*phaseSim
	}
	return total / float64(len(a)), nil
}

// #endregion harmonic-similarity

// #region match-confidence
// PatternMatchConfidence scores how well an intent matches a stored pattern
// text, in [0, 1]. Both texts are lowercased and embedded at DefaultDim; the
// harmonic similarity is blended 0.7/0.3 with a keyword overlap boost.
func PatternMatchConfidence(intentText, patternText string) (float64, error) {
	intentVec, err := Embed(strings.ToLower(intentText), DefaultDim)
	if err != nil {
		return 0, err
	}
	patternVec, err := Embed(strings.ToLower(patternText), DefaultDim)
	if err != nil {
		return 0, err
	}

	sim, err := Similarity(intentVec, patternVec)
	if err != nil {
		return 0, err
	}

	overlap := keywordOverlap(intentText, patternText)
	return harmonicWeight*sim + keywordWeight*overlap, nil
}

// #endregion match-confidence

// #region keyword-overlap
// keywordOverlap returns the fraction of pattern words longer than 3 chars
// that also appear in the intent. Returns 0 when the pattern has no
// qualifying words.
func keywordOverlap(intentText, patternText string) float64 {
	intentWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(intentText)) {
		intentWords[w] = true
	}

	qualifying := 0
	shared := 0
	for _, w := range strings.Fields(strings.ToLower(patternText)) {
		if len(w) <= 3 {
			continue
		}
		qualifying++
		if intentWords[w] {
			shared++
		}
	}
	if qualifying == 0 {
		return 0
	}
	return float64(shared) / float64(qualifying)
}

// #endregion keyword-overlap
