package registry

// #region constants
const (
	// ApplyThreshold is the minimum match confidence at which a pattern is
	// applied rather than merely reported.
	ApplyThreshold = 0.85

	// validationBoostStep is the per-validation multiplier increment.
	validationBoostStep = 0.05

	// permanentBoost is the multiplier for permanent patterns whose own
	// baseline confidence is at least permanentConfidenceFloor.
	permanentBoost          = 1.1
	permanentConfidenceFloor = 0.9

	// Unvalidated marks a pattern whose validation count is unknown.
	Unvalidated = -1
)

// #endregion constants

// #region retention
// Retention classifies how long a pattern is kept in the catalog.
type Retention string

const (
	RetentionPermanent Retention = "permanent"
	RetentionPending   Retention = "pending"
)

// #endregion retention

// #region pattern
// Pattern is a stored, reusable text template with trust metadata. Patterns
// are minted by an external process and are read-only to the matcher; the
// catalog is append-only during a session.
type Pattern struct {
	ID              string
	Title           string
	Text            string
	Confidence      float64 // baseline confidence in [0, 1]
	ValidationCount int     // times validated, or Unvalidated
	Performance     string  // qualitative note from the minting process
	Retention       Retention
}

// #endregion pattern

// #region match-result
// MatchResult scores one pattern against an intent. Created fresh per search;
// never persisted.
type MatchResult struct {
	Pattern         Pattern
	MatchConfidence float64 // in [0, 1]
	ShouldApply     bool    // MatchConfidence >= ApplyThreshold
}

// #endregion match-result

// #region search-result
// SearchResult is the full output of a catalog search. Best is nil when the
// catalog is empty; AppliedPattern holds the best match's text only when its
// confidence clears ApplyThreshold.
type SearchResult struct {
	Matches        []MatchResult
	Best           *MatchResult
	AppliedPattern string
	Applied        bool
}

// #endregion search-result
