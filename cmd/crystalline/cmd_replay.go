package main

// #region imports
import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaporfield/crystalline/go-core/internal/replay"
)

// #endregion

// #region command

var replaySummaryOnly bool

var replayCmd = &cobra.Command{
	Use:   "replay <fixture.json>",
	Short: "Replay a recorded fixture through the pipeline",
	Long: `Load a JSON fixture and replay its interactions through the full
pipeline in-memory. When the fixture carries expected results, each turn's
decision is verified against them and mismatches fail the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&replaySummaryOnly, "summary", false, "print only the aggregate summary")
}

// #endregion

// #region run

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := replay.LoadFixture(args[0])
	if err != nil {
		return err
	}
	if f.Description != "" {
		fmt.Printf("fixture: %s\n", f.Description)
	}

	results, ideas, err := replay.Replay(
		f.ToPatterns(), f.Context.ToContext(), f.ToInteractions(), f.Config.ToReplayConfig(),
	)
	if err != nil {
		return err
	}

	if !replaySummaryOnly {
		for _, r := range results {
			line := fmt.Sprintf("%-10s %-14s", r.TurnID, r.Decision)
			if r.Decision == "loop_blocked" {
				line += " " + r.SuggestedPivot
			} else {
				line += fmt.Sprintf(" resonance=%.3f idea=%s[%s]", r.Resonance.Score, r.IdeaRef, r.IdeaState)
				if r.PatternApplied {
					line += " pattern=" + r.AppliedPattern
				}
			}
			fmt.Println(line)
		}
	}

	s := replay.Summarize(results, ideas)
	fmt.Printf("turns=%d crystallized=%d reverted=%d held=%d blocked=%d patterns_applied=%d\n",
		s.TotalTurns, s.Crystallized, s.Reverted, s.Held, s.Blocked, s.PatternsApplied)

	if mismatches := replay.Verify(results, f.ExpectedResults); len(mismatches) > 0 {
		for _, m := range mismatches {
			fmt.Println("MISMATCH:", m)
		}
		return fmt.Errorf("%d expectation(s) failed", len(mismatches))
	}
	return nil
}

// #endregion
