package orchestrator

// #region imports
import (
	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/loopguard"
	"github.com/vaporfield/crystalline/go-core/internal/registry"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

// #endregion

// #region config

// Config bundles the per-stage configurations for a turn pipeline.
type Config struct {
	Resonance resonance.Config
	Guard     loopguard.Config
	Lifecycle lifecycle.Config

	// GuardEnabled disables the loop guard when false; evaluation still runs
	// so every turn is logged.
	GuardEnabled bool
}

// DefaultConfig returns defaults for all pipeline stages.
func DefaultConfig() Config {
	return Config{
		Resonance:    resonance.DefaultConfig(),
		Guard:        loopguard.DefaultConfig(),
		Lifecycle:    lifecycle.DefaultConfig(),
		GuardEnabled: true,
	}
}

// #endregion

// #region turn-input

// TurnInput carries one evaluation request through the pipeline. History is
// the caller-owned action record; IdeaID selects an existing idea, empty
// mints a new one.
type TurnInput struct {
	TurnID  string
	Intent  string
	Pulse   resonance.Pulse
	Context resonance.Context
	History []loopguard.Action
	IdeaID  string
}

// #endregion

// #region turn-result

// TurnResult is the full output of one pipeline pass.
type TurnResult struct {
	Classification string
	Domain         string

	// Loop guard stage; when Blocked, the remaining fields are zero.
	Blocked        bool
	BlockReason    string
	SuggestedPivot string

	Search     registry.SearchResult
	Resonance  resonance.Resonance
	Idea       lifecycle.Idea
	Transition lifecycle.Transition
	Decision   string // "crystallize" | "revert" | "hold" | "loop_blocked"
}

// #endregion
