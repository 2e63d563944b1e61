package main

// #region imports
import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/loopguard"
	"github.com/vaporfield/crystalline/go-core/internal/orchestrator"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

// #endregion

// #region command

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive evaluation loop",
	Long: `Read intents from stdin and run each through the full pipeline.
Every line is one turn: it is classified, guarded against loops, matched
against the pattern catalog, scored for resonance, and applied to the
session's idea.

Session commands:
  :new    start a fresh idea for subsequent turns
  :idea   show the current idea
  :quit   exit`,
	RunE: runRepl,
}

// #endregion

// #region session-context

// sessionContext accumulates telemetry across REPL turns. The expected
// direction and system frequency track recent pulses with an exponential
// moving average, and pattern strengths collect the resonance scores seen so
// far, so the context sharpens as the session converges on a theme.
type sessionContext struct {
	ctx   resonance.Context
	alpha float64
}

func newSessionContext(dim int) *sessionContext {
	return &sessionContext{
		ctx: resonance.Context{
			State:             "session",
			ExpectedDirection: make([]float64, dim),
			SystemFrequency:   0.5,
		},
		alpha: 0.3,
	}
}

// absorb folds a finished turn back into the context.
func (sc *sessionContext) absorb(pulse resonance.Pulse, score float64) {
	for i := range sc.ctx.ExpectedDirection {
		sc.ctx.ExpectedDirection[i] = (1-sc.alpha)*sc.ctx.ExpectedDirection[i] + sc.alpha*pulse.Direction[i]
	}
	sc.ctx.SystemFrequency = (1-sc.alpha)*sc.ctx.SystemFrequency + sc.alpha*pulse.Frequency
	sc.ctx.Patterns = append(sc.ctx.Patterns, score)
	if len(sc.ctx.Patterns) > 20 {
		sc.ctx.Patterns = sc.ctx.Patterns[len(sc.ctx.Patterns)-20:]
	}
}

// #endregion

// #region run

func runRepl(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	o, err := buildOrchestrator(s)
	if err != nil {
		return err
	}

	session := newSessionContext(cfg.Dim)
	var history []loopguard.Action
	ideaID := ""

	fmt.Println("crystalline repl - one intent per line, :quit to exit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch line {
		case ":quit", ":q":
			return nil
		case ":new":
			ideaID = ""
			fmt.Println("next turn starts a fresh idea")
			continue
		case ":idea":
			if ideaID == "" {
				fmt.Println("no idea yet; evaluate an intent first")
				continue
			}
			idea, err := s.GetIdea(ideaID)
			if err != nil {
				return err
			}
			fmt.Printf("  %s [%s] turns=%d mean=%.3f\n  %s\n",
				idea.ID, idea.State, len(idea.History), lifecycle.MeanResonance(idea), idea.Content)
			continue
		}

		pulse, err := orchestrator.DerivePulse(line, cfg.Dim)
		if err != nil {
			return err
		}

		turnID := uuid.New().String()
		result, err := o.EvaluateTurn(orchestrator.TurnInput{
			TurnID:  turnID,
			Intent:  line,
			Pulse:   pulse,
			Context: session.ctx,
			History: history,
			IdeaID:  ideaID,
		})
		if err != nil {
			return err
		}

		if result.Blocked {
			fmt.Printf("  blocked: %s\n  pivot:   %s\n", result.BlockReason, result.SuggestedPivot)
			continue
		}

		history = append(history, loopguard.Action{
			ID:        turnID,
			Type:      result.Classification,
			Payload:   line,
			Timestamp: time.Now().UTC(),
		})
		ideaID = result.Idea.ID
		session.absorb(pulse, result.Resonance.Score)

		fmt.Printf("  [%s/%s] resonance=%.3f decision=%s state=%s\n",
			result.Classification, result.Domain,
			result.Resonance.Score, result.Decision, result.Idea.State)
		if result.Search.Applied {
			fmt.Printf("  applied pattern: %s (%.3f)\n",
				result.Search.Best.Pattern.Title, result.Search.Best.MatchConfidence)
		}
	}
	return scanner.Err()
}

// #endregion
