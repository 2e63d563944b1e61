package main

// #region imports
import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vaporfield/crystalline/go-core/internal/config"
	"github.com/vaporfield/crystalline/go-core/internal/orchestrator"
	"github.com/vaporfield/crystalline/go-core/internal/store"
)

// #endregion

// #region globals

var (
	configPath string
	dbPath     string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

// #endregion

// #region root

var rootCmd = &cobra.Command{
	Use:   "crystalline",
	Short: "crystalline - resonance-gated idea lifecycle engine",
	Long: `crystalline scores intents against a pattern catalog, measures how
strongly each pulse resonates with the expected system state, and promotes
ideas from vapor to crystal when the evidence is sustained. A loop guard
blocks repetitive action sequences before they burn turns.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.DBPath = dbPath
		}

		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// #endregion

// #region helpers

// openStore opens the configured database. Caller closes.
func openStore() (*store.Store, error) {
	s, err := store.NewStore(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
	}
	return s, nil
}

// buildOrchestrator wires the pipeline on top of an open store.
func buildOrchestrator(s *store.Store) (*orchestrator.Orchestrator, error) {
	return orchestrator.NewOrchestrator(s, logger, cfg.ToOrchestratorConfig())
}

// #endregion

// #region main

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to crystalline.yaml")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the database (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion
