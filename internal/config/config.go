// Package config holds the static tuning parameters for the measurement
// pipeline.
//
// All thresholds and sizes in the pipeline come from a single Config value
// created at startup; nothing in the core reads the environment directly.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config is the pipeline's static configuration object.
//
// A Config is created once at startup (Default, optionally overridden by
// FromEnv) and passed by value to the components that need it. The zero
// value is not usable; always start from Default.
type Config struct {
	// CornerThreshold is the intensity delta a circle sample must exceed
	// relative to the candidate center pixel to count as brighter/darker.
	CornerThreshold float64

	// MatchThreshold is the minimum corner-match score for a marker search
	// candidate to be accepted as the marker's new position.
	MatchThreshold float64

	// RegionSize is the side length in pixels of the square patch extracted
	// around each marker position.
	RegionSize int

	// SearchRadius is the maximum offset in pixels searched around a
	// marker's last known position. Zero disables the grid search and
	// re-extracts at the last position only.
	SearchRadius int

	// SearchStep is the grid-search stride in pixels.
	SearchStep int

	// MarkerCount is the number of reference markers the tracker manages.
	// Historical deployments used either a single marker or a set of four.
	MarkerCount int

	// ConfidenceThreshold gates decoded detections on objectness*class score.
	ConfidenceThreshold float64

	// IoUThreshold is the minimum overlap for two same-class boxes to be
	// merged into one cluster.
	IoUThreshold float64

	// ModelInputSize is the side length of the detector's square input.
	ModelInputSize int

	// Labels maps class indices to human-readable names. Indices beyond
	// this list decode as "unknown".
	Labels []string
}

// Default returns the production configuration.
func Default() Config {
	return Config{
		CornerThreshold:     20,
		MatchThreshold:      0.5,
		RegionSize:          40,
		SearchRadius:        20,
		SearchStep:          5,
		MarkerCount:         4,
		ConfidenceThreshold: 0.5,
		IoUThreshold:        0.3,
		ModelInputSize:      640,
		Labels:              []string{"ball", "club"},
	}
}

// FromEnv returns Default overridden by any LAUNCHMETER_* environment
// variables that are set. Unparseable values are reported as errors rather
// than silently ignored.
//
// Recognized variables:
//
//	LAUNCHMETER_CORNER_THRESHOLD      float
//	LAUNCHMETER_MATCH_THRESHOLD       float
//	LAUNCHMETER_REGION_SIZE           int
//	LAUNCHMETER_SEARCH_RADIUS         int
//	LAUNCHMETER_SEARCH_STEP           int
//	LAUNCHMETER_MARKER_COUNT          int
//	LAUNCHMETER_CONFIDENCE_THRESHOLD  float
//	LAUNCHMETER_IOU_THRESHOLD         float
//	LAUNCHMETER_MODEL_INPUT_SIZE      int
//	LAUNCHMETER_LABELS                comma-separated names
func FromEnv() (Config, error) {
	cfg := Default()

	floats := map[string]*float64{
		"LAUNCHMETER_CORNER_THRESHOLD":     &cfg.CornerThreshold,
		"LAUNCHMETER_MATCH_THRESHOLD":      &cfg.MatchThreshold,
		"LAUNCHMETER_CONFIDENCE_THRESHOLD": &cfg.ConfidenceThreshold,
		"LAUNCHMETER_IOU_THRESHOLD":        &cfg.IoUThreshold,
	}
	for name, dst := range floats {
		if v := os.Getenv(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return cfg, fmt.Errorf("invalid %s: %w", name, err)
			}
			*dst = f
		}
	}

	ints := map[string]*int{
		"LAUNCHMETER_REGION_SIZE":      &cfg.RegionSize,
		"LAUNCHMETER_SEARCH_RADIUS":    &cfg.SearchRadius,
		"LAUNCHMETER_SEARCH_STEP":      &cfg.SearchStep,
		"LAUNCHMETER_MARKER_COUNT":     &cfg.MarkerCount,
		"LAUNCHMETER_MODEL_INPUT_SIZE": &cfg.ModelInputSize,
	}
	for name, dst := range ints {
		if v := os.Getenv(name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return cfg, fmt.Errorf("invalid %s: %w", name, err)
			}
			*dst = n
		}
	}

	if v := os.Getenv("LAUNCHMETER_LABELS"); v != "" {
		cfg.Labels = strings.Split(v, ",")
		for i := range cfg.Labels {
			cfg.Labels[i] = strings.TrimSpace(cfg.Labels[i])
		}
	}

	return cfg, cfg.Validate()
}

// Validate reports the first configuration value that cannot work.
func (c Config) Validate() error {
	switch {
	case c.MarkerCount < 1:
		return fmt.Errorf("marker count must be at least 1, got %d", c.MarkerCount)
	case c.RegionSize < 7:
		return fmt.Errorf("region size must be at least 7, got %d", c.RegionSize)
	case c.SearchRadius < 0:
		return fmt.Errorf("search radius must not be negative, got %d", c.SearchRadius)
	case c.SearchRadius > 0 && c.SearchStep < 1:
		return fmt.Errorf("search step must be at least 1, got %d", c.SearchStep)
	case c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1:
		return fmt.Errorf("confidence threshold must be in [0,1], got %g", c.ConfidenceThreshold)
	case c.IoUThreshold < 0 || c.IoUThreshold > 1:
		return fmt.Errorf("iou threshold must be in [0,1], got %g", c.IoUThreshold)
	case c.ModelInputSize < 1:
		return fmt.Errorf("model input size must be positive, got %d", c.ModelInputSize)
	}
	return nil
}
