package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvModelsTypes       = "ATLAS_MODELS_TYPES"
	EnvModelsDefaultType = "ATLAS_MODELS_DEFAULT_TYPE"
	EnvModelsMinExamples = "ATLAS_MODELS_MIN_EXAMPLES"
	EnvModelsTopFeatures = "ATLAS_MODELS_TOP_FEATURES"
)

// ModelsConfig holds training and classification tuning parameters.
type ModelsConfig struct {
	Types        []string `toml:"types"`
	DefaultType  string   `toml:"default_type"`
	MinExamples  int      `toml:"min_examples"`
	HoldoutRatio float64  `toml:"holdout_ratio"`
	MinDocFreq   int      `toml:"min_doc_freq"`
	Smoothing    float64  `toml:"smoothing"`
	TopFeatures  int      `toml:"top_features"`
	TrainSeed    int64    `toml:"train_seed"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ModelsConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if c.MinExamples < 2 {
		return fmt.Errorf("invalid min_examples: %d", c.MinExamples)
	}
	if c.HoldoutRatio < 0 || c.HoldoutRatio >= 1 {
		return fmt.Errorf("invalid holdout_ratio: %g", c.HoldoutRatio)
	}
	if c.Smoothing <= 0 {
		return fmt.Errorf("invalid smoothing: %g", c.Smoothing)
	}
	if c.TopFeatures < 1 {
		return fmt.Errorf("invalid top_features: %d", c.TopFeatures)
	}

	var found bool
	for _, t := range c.Types {
		if strings.EqualFold(t, c.DefaultType) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("default_type %q not in types", c.DefaultType)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *ModelsConfig) Merge(overlay *ModelsConfig) {
	if len(overlay.Types) > 0 {
		c.Types = overlay.Types
	}
	if overlay.DefaultType != "" {
		c.DefaultType = overlay.DefaultType
	}
	if overlay.MinExamples != 0 {
		c.MinExamples = overlay.MinExamples
	}
	if overlay.HoldoutRatio != 0 {
		c.HoldoutRatio = overlay.HoldoutRatio
	}
	if overlay.MinDocFreq != 0 {
		c.MinDocFreq = overlay.MinDocFreq
	}
	if overlay.Smoothing != 0 {
		c.Smoothing = overlay.Smoothing
	}
	if overlay.TopFeatures != 0 {
		c.TopFeatures = overlay.TopFeatures
	}
	if overlay.TrainSeed != 0 {
		c.TrainSeed = overlay.TrainSeed
	}
}

func (c *ModelsConfig) loadDefaults() {
	if len(c.Types) == 0 {
		c.Types = []string{"GENERAL", "SENTIMENT", "TOPIC", "INTENT"}
	}
	if c.DefaultType == "" {
		c.DefaultType = "GENERAL"
	}
	if c.MinExamples == 0 {
		c.MinExamples = 4
	}
	if c.HoldoutRatio == 0 {
		c.HoldoutRatio = 0.2
	}
	if c.MinDocFreq == 0 {
		c.MinDocFreq = 1
	}
	if c.Smoothing == 0 {
		c.Smoothing = 1.0
	}
	if c.TopFeatures == 0 {
		c.TopFeatures = 10
	}
	if c.TrainSeed == 0 {
		c.TrainSeed = 42
	}
}

func (c *ModelsConfig) loadEnv() {
	if v := os.Getenv(EnvModelsTypes); v != "" {
		parts := strings.Split(v, ",")
		types := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				types = append(types, trimmed)
			}
		}
		if len(types) > 0 {
			c.Types = types
		}
	}
	if v := os.Getenv(EnvModelsDefaultType); v != "" {
		c.DefaultType = v
	}
	if v := os.Getenv(EnvModelsMinExamples); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinExamples = n
		}
	}
	if v := os.Getenv(EnvModelsTopFeatures); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TopFeatures = n
		}
	}
}
