package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Generation.Mode != ModeStandard {
		t.Errorf("mode = %q, want standard", cfg.Generation.Mode)
	}
	if cfg.Generation.Intensity != 0.5 {
		t.Errorf("intensity = %.2f, want 0.50", cfg.Generation.Intensity)
	}
	if cfg.Generation.Workers != 4 {
		t.Errorf("workers = %d, want 4", cfg.Generation.Workers)
	}
	if cfg.Thresholds.CoverageTarget != 0.95 {
		t.Errorf("coverage_target = %.2f, want 0.95", cfg.Thresholds.CoverageTarget)
	}
	if cfg.Thresholds.AssertionStrength != 0.6 {
		t.Errorf("assertion_strength = %.2f, want 0.60", cfg.Thresholds.AssertionStrength)
	}
}

func TestLoad_FileMergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".tddguard.yaml")
	content := []byte(`generation:
  mode: comprehensive
  intensity: 0.8
  workers: 8
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Generation.Mode != ModeComprehensive {
		t.Errorf("mode = %q, want comprehensive", cfg.Generation.Mode)
	}
	if cfg.Generation.Workers != 8 {
		t.Errorf("workers = %d, want 8", cfg.Generation.Workers)
	}
	// Untouched sections keep their defaults.
	if cfg.Thresholds.CoverageTarget != 0.95 {
		t.Errorf("coverage_target = %.2f, want default 0.95", cfg.Thresholds.CoverageTarget)
	}
}

func TestLoad_MissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config path")
	}
	if !strings.Contains(err.Error(), "config file") {
		t.Errorf("error should mention 'config file', got: %s", err)
	}
}

func TestLoad_InvalidModeRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".tddguard.yaml")
	content := []byte(`generation:
  mode: exhaustive
  intensity: 0.5
  workers: 4
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid mode")
	}
	if !strings.Contains(err.Error(), "invalid mode") {
		t.Errorf("unexpected error message: %s", err)
	}
}

func TestLoad_IntensityOutOfRangeRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".tddguard.yaml")
	content := []byte(`generation:
  mode: standard
  intensity: 1.5
  workers: 4
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected error for intensity > 1")
	}
}

func TestOverride_FlagsApply(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Override(ModeComprehensive, 0.9, 2); err != nil {
		t.Fatalf("Override error: %v", err)
	}
	if cfg.Generation.Mode != ModeComprehensive {
		t.Errorf("mode = %q, want comprehensive", cfg.Generation.Mode)
	}
	if cfg.Generation.Intensity != 0.9 {
		t.Errorf("intensity = %.2f, want 0.90", cfg.Generation.Intensity)
	}
	if cfg.Generation.Workers != 2 {
		t.Errorf("workers = %d, want 2", cfg.Generation.Workers)
	}
}

func TestOverride_SentinelsLeaveConfigUntouched(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Override("", -1, 0); err != nil {
		t.Fatalf("Override error: %v", err)
	}
	if cfg.Generation.Mode != ModeStandard || cfg.Generation.Intensity != 0.5 || cfg.Generation.Workers != 4 {
		t.Errorf("sentinel overrides changed config: %+v", cfg.Generation)
	}
}

func TestOverride_InvalidValueRejected(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Override("exhaustive", -1, 0); err == nil {
		t.Fatal("expected error for invalid mode override")
	}
}
