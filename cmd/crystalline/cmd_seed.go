package main

// #region imports
import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vaporfield/crystalline/go-core/internal/registry"
)

// #endregion

// #region command

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Bootstrap the catalog with starter patterns",
	Long: `Insert a small set of starter patterns into an empty or existing
catalog. Patterns already present (by ID) are skipped, so seeding is safe to
re-run.`,
	RunE: runSeed,
}

// #endregion

// #region starter-patterns

var starterPatterns = []registry.Pattern{
	{
		ID:              "seed-stabilize-first",
		Title:           "Stabilize before scaling",
		Text:            "stabilize the current flow and confirm steady state before scaling it up",
		Confidence:      0.9,
		ValidationCount: 3,
		Performance:     "reliable across ingestion and deployment work",
		Retention:       registry.RetentionPermanent,
	},
	{
		ID:              "seed-narrow-search",
		Title:           "Narrow failing searches",
		Text:            "when a search returns nothing useful narrow the query scope and retry once",
		Confidence:      0.8,
		ValidationCount: 1,
		Retention:       registry.RetentionPending,
	},
	{
		ID:              "seed-measure-twice",
		Title:           "Measure before mutating",
		Text:            "collect fresh telemetry and measure the system state before making changes",
		Confidence:      0.85,
		ValidationCount: registry.Unvalidated,
		Retention:       registry.RetentionPending,
	},
	{
		ID:              "seed-small-reversible",
		Title:           "Prefer small reversible steps",
		Text:            "prefer small reversible changes over large rewrites when the outcome is uncertain",
		Confidence:      0.9,
		ValidationCount: 5,
		Performance:     "strong track record on refactoring turns",
		Retention:       registry.RetentionPermanent,
	},
}

// #endregion

// #region run

func runSeed(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	existing, err := s.ListPatterns()
	if err != nil {
		return err
	}
	present := make(map[string]bool, len(existing))
	for _, p := range existing {
		present[p.ID] = true
	}

	inserted := 0
	for _, p := range starterPatterns {
		if present[p.ID] {
			continue
		}
		if err := s.SavePattern(p); err != nil {
			return err
		}
		inserted++
	}

	fmt.Printf("seeded %d patterns (%d already present)\n", inserted, len(starterPatterns)-inserted)
	return nil
}

// #endregion
