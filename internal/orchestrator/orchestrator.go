package orchestrator

// #region imports
import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vaporfield/crystalline/go-core/internal/graph"
	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/logging"
	"github.com/vaporfield/crystalline/go-core/internal/loopguard"
	"github.com/vaporfield/crystalline/go-core/internal/registry"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
	"github.com/vaporfield/crystalline/go-core/internal/store"
)

// #endregion

// #region orchestrator-struct

// Orchestrator is the top-level coordinator for one evaluation turn: intent
// tagging, loop guarding, pattern search, resonance measurement, lifecycle
// update, and outcome recording.
type Orchestrator struct {
	config  Config
	engine  *resonance.Engine
	guard   *loopguard.Guard
	manager *lifecycle.Manager
	store   *store.Store
	links   *graph.LinkGraph
	logger  *zap.Logger
	now     func() time.Time
}

// #endregion

// #region constructor

// NewOrchestrator creates a fully wired orchestrator on top of an open store.
// logger may be nil; a no-op logger is used then.
func NewOrchestrator(s *store.Store, logger *zap.Logger, config Config) (*Orchestrator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	links, err := graph.NewLinkGraph(s.DB())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}
	return &Orchestrator{
		config:  config,
		engine:  resonance.NewEngine(config.Resonance),
		guard:   loopguard.NewGuard(config.Guard),
		manager: lifecycle.NewManager(config.Lifecycle),
		store:   s,
		links:   links,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// #endregion

// #region evaluate-turn

// EvaluateTurn runs the full pipeline for one input. Stages run in fixed
// order: classify, loop guard, pattern search, resonance, lifecycle. Every
// turn leaves an evaluation_log row, blocked ones included.
func (o *Orchestrator) EvaluateTurn(input TurnInput) (TurnResult, error) {
	var result TurnResult
	result.Classification, result.Domain = ClassifyIntent(input.Intent)

	o.logger.Debug("classified turn",
		zap.String("turn_id", input.TurnID),
		zap.String("classification", result.Classification),
		zap.String("domain", result.Domain),
	)

	if o.config.GuardEnabled {
		candidate := loopguard.Action{
			ID:        input.TurnID,
			Type:      result.Classification,
			Payload:   input.Intent,
			Timestamp: o.now().UTC(),
		}
		guarded := o.guard.BeforeAction(candidate, input.History)
		if !guarded.ShouldProceed {
			result.Blocked = true
			result.BlockReason = guarded.Reason
			result.SuggestedPivot = guarded.SuggestedPivot
			result.Decision = "loop_blocked"

			o.logger.Warn("turn blocked by loop guard",
				zap.String("turn_id", input.TurnID),
				zap.String("reason", guarded.Reason),
				zap.String("pivot", guarded.SuggestedPivot),
			)
			if err := logging.LogEvaluation(o.store.DB(), logging.EvaluationEntry{
				TurnID:   input.TurnID,
				IdeaID:   input.IdeaID,
				Decision: result.Decision,
				Reason:   guarded.Reason,
			}); err != nil {
				return result, err
			}
			return result, nil
		}
	}

	patterns, err := o.store.ListPatterns()
	if err != nil {
		return result, fmt.Errorf("evaluate turn %s: %w", input.TurnID, err)
	}
	search, err := registry.Search(input.Intent, result.Classification, result.Domain, patterns)
	if err != nil {
		return result, fmt.Errorf("evaluate turn %s: %w", input.TurnID, err)
	}
	result.Search = search

	res, err := o.engine.Measure(input.Pulse, input.Context)
	if err != nil {
		return result, fmt.Errorf("evaluate turn %s: %w", input.TurnID, err)
	}
	result.Resonance = res

	idea, created, err := o.resolveIdea(input, result.Classification, result.Domain)
	if err != nil {
		return result, err
	}

	check := o.manager.CheckCrystallization(idea, res)
	result.Idea = check.Idea
	result.Transition = check.Transition
	result.Decision = decisionFor(check.Transition)

	if created {
		err = o.store.SaveIdea(check.Idea)
	} else {
		err = o.store.UpdateIdea(check.Idea)
	}
	if err != nil {
		return result, err
	}

	if err := o.recordOutcome(input.TurnID, check, search, res); err != nil {
		return result, err
	}

	o.logger.Info("turn evaluated",
		zap.String("turn_id", input.TurnID),
		zap.String("idea_id", check.Idea.ID),
		zap.Float64("resonance", res.Score),
		zap.String("decision", result.Decision),
		zap.Bool("pattern_applied", search.Applied),
	)
	return result, nil
}

// #endregion

// #region resolve-idea

// resolveIdea loads the addressed idea or mints a new vapor one. New ideas
// carry the turn's tags as metadata so inspection does not re-classify.
func (o *Orchestrator) resolveIdea(input TurnInput, class, domain string) (lifecycle.Idea, bool, error) {
	if input.IdeaID == "" {
		idea := o.manager.CreateIdea(input.Pulse, map[string]string{
			"classification": class,
			"domain":         domain,
		})
		return idea, true, nil
	}
	idea, err := o.store.GetIdea(input.IdeaID)
	if err != nil {
		return lifecycle.Idea{}, false, fmt.Errorf("evaluate turn %s: %w", input.TurnID, err)
	}
	return idea, false, nil
}

// #endregion

// #region record-outcome

// recordOutcome persists the pattern outcome, reinforces the provenance
// graph for applied patterns, and appends the evaluation_log row.
func (o *Orchestrator) recordOutcome(turnID string, check lifecycle.Result, search registry.SearchResult, res resonance.Resonance) error {
	patternID := ""
	matchConf := 0.0
	if search.Best != nil {
		patternID = search.Best.Pattern.ID
		matchConf = search.Best.MatchConfidence
		if err := o.store.RecordPatternOutcome(store.PatternOutcome{
			TurnID:     turnID,
			PatternID:  patternID,
			Confidence: matchConf,
			Applied:    search.Applied,
			Resonance:  res.Score,
		}); err != nil {
			return err
		}
		if search.Applied {
			if err := o.links.Reinforce(check.Idea.ID, patternID, "applied_pattern", reinforceDelta); err != nil {
				return fmt.Errorf("reinforce link: %w", err)
			}
		}
	}

	return logging.LogEvaluation(o.store.DB(), logging.EvaluationEntry{
		TurnID:          turnID,
		IdeaID:          check.Idea.ID,
		PatternID:       patternID,
		MatchConfidence: matchConf,
		ResonanceScore:  res.Score,
		Decision:        decisionFor(check.Transition),
		Reason:          check.Reason,
	})
}

// reinforceDelta is the per-application weight increment for provenance links.
const reinforceDelta = 0.1

// #endregion

// #region helpers

func decisionFor(t lifecycle.Transition) string {
	switch t {
	case lifecycle.TransitionCrystallize:
		return "crystallize"
	case lifecycle.TransitionRevert:
		return "revert"
	default:
		return "hold"
	}
}

// #endregion
