package lifecycle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

// #region manager
// Manager applies the two-state idea lifecycle. Stateless apart from config;
// ideas live wherever the caller keeps them.
type Manager struct {
	config Config
	now    func() time.Time
}

// NewManager creates a manager with the given configuration.
func NewManager(config Config) *Manager {
	return &Manager{config: config, now: time.Now}
}

// #endregion manager

// #region create-idea
// CreateIdea mints a new idea in the vapor state from a pulse. metadata may
// be nil.
func (m *Manager) CreateIdea(pulse resonance.Pulse, metadata map[string]string) Idea {
	now := m.now().UTC()
	return Idea{
		ID:              uuid.New().String(),
		Content:         pulse.Content,
		State:           StateVapor,
		History:         nil,
		CreatedAt:       now,
		LastStateChange: now,
		Metadata:        metadata,
	}
}

// #endregion create-idea

// #region check-crystallization
// CheckCrystallization appends the resonance score to the idea's history and
// applies the transition rules, returning an updated copy. Vapor promotes the
// instant a reading reaches the crystallization threshold; crystal reverts
// only after VaporRevertThreshold consecutive sub-threshold readings.
// LastStateChange moves only on an actual transition.
func (m *Manager) CheckCrystallization(idea Idea, r resonance.Resonance) Result {
	updated := idea
	updated.History = make([]float64, len(idea.History), len(idea.History)+1)
	copy(updated.History, idea.History)
	updated.History = append(updated.History, r.Score)

	switch updated.State {
	case StateVapor:
		if r.Score >= m.config.CrystallizationThreshold {
			updated.State = StateCrystal
			updated.LastStateChange = m.now().UTC()
			return Result{
				Idea:       updated,
				Transition: TransitionCrystallize,
				Reason: fmt.Sprintf("resonance %.4f reached threshold %.4f",
					r.Score, m.config.CrystallizationThreshold),
			}
		}
	case StateCrystal:
		n := m.config.VaporRevertThreshold
		if len(updated.History) >= n && allBelow(updated.History[len(updated.History)-n:], m.config.CrystallizationThreshold) {
			updated.State = StateVapor
			updated.LastStateChange = m.now().UTC()
			return Result{
				Idea:       updated,
				Transition: TransitionRevert,
				Reason: fmt.Sprintf("last %d readings below threshold %.4f",
					n, m.config.CrystallizationThreshold),
			}
		}
	}

	return Result{Idea: updated, Transition: TransitionNone, Reason: "no state change"}
}

// #endregion check-crystallization

// #region queries
// FilterByState returns the ideas currently in the given state.
func FilterByState(ideas []Idea, state State) []Idea {
	var out []Idea
	for _, idea := range ideas {
		if idea.State == state {
			out = append(out, idea)
		}
	}
	return out
}

// MeanResonance computes the mean of an idea's score history, 0 when empty.
func MeanResonance(idea Idea) float64 {
	if len(idea.History) == 0 {
		return 0
	}
	var sum float64
	for _, s := range idea.History {
		sum += s
	}
	return sum / float64(len(idea.History))
}

// #endregion queries

// #region helpers
func allBelow(scores []float64, threshold float64) bool {
	for _, s := range scores {
		if s >= threshold {
			return false
		}
	}
	return true
}

// #endregion helpers
