package main

// #region imports
import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaporfield/crystalline/go-core/internal/logging"
	"github.com/vaporfield/crystalline/go-core/internal/orchestrator"
	"github.com/vaporfield/crystalline/go-core/internal/replay"
)

// #endregion

// #region command

var (
	exportLast int
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recent evaluation history as a replay fixture",
	Long: `Rebuild a replay fixture from the evaluation log: the pattern
catalog, one interaction per logged turn (pulses re-derived from the idea
content), and the recorded decisions as expected results.

The exported context is synthesized from the first turn's pulse, so replays
approximate the original session rather than reproduce it bit-for-bit. Edit
the fixture before using it as a regression gate.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().IntVar(&exportLast, "last", 20, "number of most recent turns to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (stdout when empty)")
}

// #endregion

// #region run

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := logging.RecentEvaluations(s.DB(), exportLast)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("evaluation log is empty")
	}
	// RecentEvaluations is newest-first; fixtures run oldest-first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	patterns, err := s.ListPatterns()
	if err != nil {
		return err
	}

	f := replay.Fixture{
		Description: fmt.Sprintf("exported from %s (%d turns)", cfg.DBPath, len(entries)),
	}
	for _, p := range patterns {
		f.Patterns = append(f.Patterns, replay.FixturePattern{
			ID:              p.ID,
			Title:           p.Title,
			Text:            p.Text,
			Confidence:      p.Confidence,
			ValidationCount: p.ValidationCount,
			Performance:     p.Performance,
			Retention:       string(p.Retention),
		})
	}

	for i, e := range entries {
		intent := ""
		if e.IdeaID != "" {
			idea, err := s.GetIdea(e.IdeaID)
			if err != nil {
				return err
			}
			intent = idea.Content
		}
		pulse, err := orchestrator.DerivePulse(intent, cfg.Dim)
		if err != nil {
			return err
		}

		if i == 0 {
			f.Context = replay.FixtureContext{
				State:             "exported",
				ExpectedDirection: pulse.Direction,
				SystemFrequency:   pulse.Frequency,
			}
		}

		f.Interactions = append(f.Interactions, replay.FixtureInteraction{
			TurnID:  e.TurnID,
			Intent:  intent,
			IdeaRef: e.IdeaID,
			Pulse: replay.FixturePulse{
				Content:   pulse.Content,
				Direction: pulse.Direction,
				Magnitude: pulse.Magnitude,
				Frequency: pulse.Frequency,
			},
			// Six minutes apart keeps exported turns outside the default
			// five-minute loop window.
			OffsetMs: int64(i) * 360000,
		})
		f.ExpectedResults = append(f.ExpectedResults, replay.FixtureExpectedResult{
			TurnID:   e.TurnID,
			Decision: e.Decision,
		})
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	data = append(data, '\n')

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	fmt.Printf("wrote %d turns to %s\n", len(f.Interactions), exportOut)
	return nil
}

// #endregion
