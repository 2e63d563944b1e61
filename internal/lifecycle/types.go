package lifecycle

import (
	"time"

	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

// #region state
// State is the lifecycle stage of an idea.
type State string

const (
	// StateVapor marks a tentative idea awaiting resonance evidence.
	StateVapor State = "vapor"
	// StateCrystal marks an idea treated as realized.
	StateCrystal State = "crystal"
)

// #endregion state

// #region idea
// Idea tracks a unit of emerging work through the vapor/crystal lifecycle.
// History is append-only; only CheckCrystallization mutates an idea, and it
// does so by returning an updated copy. Deletion is the caller's job.
type Idea struct {
	ID              string
	Content         string
	State           State
	History         []float64 // resonance scores, oldest first
	CreatedAt       time.Time
	LastStateChange time.Time
	Metadata        map[string]string
}

// #endregion idea

// #region config
// Config holds the transition thresholds.
type Config struct {
	// CrystallizationThreshold promotes a vapor idea the moment one reading
	// reaches it. Defaults to the reality threshold.
	CrystallizationThreshold float64
	// VaporRevertThreshold is how many consecutive sub-threshold readings
	// demote a crystal idea.
	VaporRevertThreshold int
}

// DefaultConfig returns the standard lifecycle thresholds.
func DefaultConfig() Config {
	return Config{
		CrystallizationThreshold: resonance.RealityThreshold,
		VaporRevertThreshold:     3,
	}
}

// #endregion config

// #region transition
// Transition names what a crystallization check did.
type Transition string

const (
	TransitionNone        Transition = "none"
	TransitionCrystallize Transition = "crystallize"
	TransitionRevert      Transition = "revert"
)

// #endregion transition

// #region result
// Result bundles everything returned by CheckCrystallization.
type Result struct {
	Idea       Idea
	Transition Transition
	Reason     string
}

// #endregion result
