package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("LAUNCHMETER_MARKER_COUNT", "1")
	t.Setenv("LAUNCHMETER_SEARCH_RADIUS", "0")
	t.Setenv("LAUNCHMETER_CONFIDENCE_THRESHOLD", "0.25")
	t.Setenv("LAUNCHMETER_LABELS", "ball, tee")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv failed: %v", err)
	}
	if cfg.MarkerCount != 1 {
		t.Errorf("MarkerCount: got %d, want 1", cfg.MarkerCount)
	}
	if cfg.SearchRadius != 0 {
		t.Errorf("SearchRadius: got %d, want 0", cfg.SearchRadius)
	}
	if cfg.ConfidenceThreshold != 0.25 {
		t.Errorf("ConfidenceThreshold: got %g, want 0.25", cfg.ConfidenceThreshold)
	}
	if len(cfg.Labels) != 2 || cfg.Labels[0] != "ball" || cfg.Labels[1] != "tee" {
		t.Errorf("Labels: got %v, want [ball tee]", cfg.Labels)
	}
}

func TestFromEnvRejectsGarbage(t *testing.T) {
	t.Setenv("LAUNCHMETER_REGION_SIZE", "forty")
	if _, err := FromEnv(); err == nil {
		t.Error("expected error for non-numeric region size")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero markers", func(c *Config) { c.MarkerCount = 0 }},
		{"tiny region", func(c *Config) { c.RegionSize = 5 }},
		{"negative radius", func(c *Config) { c.SearchRadius = -1 }},
		{"zero step with search", func(c *Config) { c.SearchStep = 0 }},
		{"confidence above 1", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
		{"negative iou", func(c *Config) { c.IoUThreshold = -0.1 }},
		{"zero input size", func(c *Config) { c.ModelInputSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}
