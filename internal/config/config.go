package config

// #region imports
import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vaporfield/crystalline/go-core/internal/harmonic"
	"github.com/vaporfield/crystalline/go-core/internal/lifecycle"
	"github.com/vaporfield/crystalline/go-core/internal/loopguard"
	"github.com/vaporfield/crystalline/go-core/internal/orchestrator"
	"github.com/vaporfield/crystalline/go-core/internal/resonance"
)

// #endregion

// #region types

// Config is the full runtime configuration, loadable from YAML with
// CRYSTALLINE_* environment overrides.
type Config struct {
	DBPath   string `mapstructure:"db_path"`
	Dim      int    `mapstructure:"dim"`
	LogLevel string `mapstructure:"log_level"`

	Resonance ResonanceConfig `mapstructure:"resonance"`
	Guard     GuardConfig     `mapstructure:"guard"`
	Lifecycle LifecycleConfig `mapstructure:"lifecycle"`
}

// ResonanceConfig mirrors resonance.Config.
type ResonanceConfig struct {
	RealityThreshold float64 `mapstructure:"reality_threshold"`
}

// GuardConfig mirrors loopguard.Config, with the window in milliseconds.
type GuardConfig struct {
	Enabled             bool    `mapstructure:"enabled"`
	WindowMs            int64   `mapstructure:"window_ms"`
	MinRepetitions      int     `mapstructure:"min_repetitions"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
}

// LifecycleConfig mirrors lifecycle.Config.
type LifecycleConfig struct {
	CrystallizationThreshold float64 `mapstructure:"crystallization_threshold"`
	VaporRevertThreshold     int     `mapstructure:"vapor_revert_threshold"`
}

// #endregion

// #region load

// Load reads configuration from the given file, or from crystalline.yaml in
// the working directory when path is empty. A missing file is not an error;
// defaults and CRYSTALLINE_* environment variables still apply.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("crystalline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CRYSTALLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := validate(config); err != nil {
		return Config{}, err
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "crystalline.db")
	v.SetDefault("dim", harmonic.DefaultDim)
	v.SetDefault("log_level", "info")

	v.SetDefault("resonance.reality_threshold", resonance.RealityThreshold)

	guard := loopguard.DefaultConfig()
	v.SetDefault("guard.enabled", true)
	v.SetDefault("guard.window_ms", guard.Window.Milliseconds())
	v.SetDefault("guard.min_repetitions", guard.MinRepetitions)
	v.SetDefault("guard.similarity_threshold", guard.SimilarityThreshold)

	life := lifecycle.DefaultConfig()
	v.SetDefault("lifecycle.crystallization_threshold", life.CrystallizationThreshold)
	v.SetDefault("lifecycle.vapor_revert_threshold", life.VaporRevertThreshold)
}

func validate(config Config) error {
	if config.Dim <= 0 {
		return fmt.Errorf("config: dim must be positive, got %d", config.Dim)
	}
	if config.Guard.MinRepetitions < 2 {
		return fmt.Errorf("config: guard.min_repetitions must be at least 2, got %d", config.Guard.MinRepetitions)
	}
	if config.Resonance.RealityThreshold <= 0 || config.Resonance.RealityThreshold > 1 {
		return fmt.Errorf("config: resonance.reality_threshold must lie in (0, 1], got %f", config.Resonance.RealityThreshold)
	}
	return nil
}

// #endregion

// #region conversion

// ToOrchestratorConfig maps the loaded file onto the pipeline's config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Resonance: resonance.Config{RealityThreshold: c.Resonance.RealityThreshold},
		Guard: loopguard.Config{
			Window:              time.Duration(c.Guard.WindowMs) * time.Millisecond,
			MinRepetitions:      c.Guard.MinRepetitions,
			SimilarityThreshold: c.Guard.SimilarityThreshold,
		},
		Lifecycle: lifecycle.Config{
			CrystallizationThreshold: c.Lifecycle.CrystallizationThreshold,
			VaporRevertThreshold:     c.Lifecycle.VaporRevertThreshold,
		},
		GuardEnabled: c.Guard.Enabled,
	}
}

// #endregion
