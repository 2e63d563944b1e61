package main

// #region imports
import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vaporfield/crystalline/go-core/internal/graph"
	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/logging"
)

// #endregion

// #region commands

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect stored ideas, patterns, and evaluation history",
}

var inspectIdeasCmd = &cobra.Command{
	Use:   "ideas [vapor|crystal]",
	Short: "List ideas, optionally filtered by state",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspectIdeas,
}

var inspectPatternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the pattern catalog",
	RunE:  runInspectPatterns,
}

var inspectLogCmd = &cobra.Command{
	Use:   "log [n]",
	Short: "Show the most recent evaluation entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInspectLog,
}

var inspectBestCmd = &cobra.Command{
	Use:   "best",
	Short: "Show the best-performing applied pattern",
	RunE:  runInspectBest,
}

var inspectGraphCmd = &cobra.Command{
	Use:   "graph <node-id>",
	Short: "Walk provenance links from an idea or pattern",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectGraph,
}

func init() {
	inspectCmd.AddCommand(inspectIdeasCmd)
	inspectCmd.AddCommand(inspectPatternsCmd)
	inspectCmd.AddCommand(inspectLogCmd)
	inspectCmd.AddCommand(inspectBestCmd)
	inspectCmd.AddCommand(inspectGraphCmd)
}

// #endregion

// #region ideas

func runInspectIdeas(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	ideas, err := s.ListIdeas()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		ideas = lifecycle.FilterByState(ideas, lifecycle.State(args[0]))
	}
	if len(ideas) == 0 {
		fmt.Println("no ideas")
		return nil
	}
	for _, idea := range ideas {
		fmt.Printf("%-36s %-8s turns=%-3d mean=%.3f %s\n",
			idea.ID, idea.State, len(idea.History), lifecycle.MeanResonance(idea), idea.Content)
	}
	return nil
}

// #endregion

// #region patterns

func runInspectPatterns(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	patterns, err := s.ListPatterns()
	if err != nil {
		return err
	}
	if len(patterns) == 0 {
		fmt.Println("catalog is empty; run `crystalline seed` to bootstrap")
		return nil
	}
	for _, p := range patterns {
		validated := "unvalidated"
		if p.ValidationCount >= 0 {
			validated = strconv.Itoa(p.ValidationCount) + "x"
		}
		fmt.Printf("%-24s conf=%.2f %-11s %-9s %s\n",
			p.ID, p.Confidence, validated, p.Retention, p.Title)
	}
	return nil
}

// #endregion

// #region log

func runInspectLog(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	limit := 20
	if len(args) == 1 {
		limit, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid limit %q: %w", args[0], err)
		}
	}

	entries, err := logging.RecentEvaluations(s.DB(), limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Printf("%s %-10s %-14s res=%.3f conf=%.3f %s\n",
			e.CreatedAt.Format("15:04:05"), e.TurnID, e.Decision,
			e.ResonanceScore, e.MatchConfidence, e.Reason)
	}
	return nil
}

// #endregion

// #region best

func runInspectBest(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	id, score, err := s.BestPattern()
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println("not enough applied samples yet (3 per pattern required)")
		return nil
	}
	fmt.Printf("%s decay-weighted resonance %.3f\n", id, score)
	return nil
}

// #endregion

// #region graph

func runInspectGraph(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	g, err := graph.NewLinkGraph(s.DB())
	if err != nil {
		return err
	}
	walk, err := g.Walk(args[0], 3, 0.1, 10)
	if err != nil {
		return err
	}
	if len(walk.IDs) <= 1 {
		fmt.Println("no links from", args[0])
		return nil
	}
	for i, id := range walk.IDs {
		fmt.Printf("%.3f %s\n", walk.Scores[i], id)
	}
	return nil
}

// #endregion
