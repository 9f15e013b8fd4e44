package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRunGuard_InvalidFormat(t *testing.T) {
	err := runGuard(guardParams{
		pkgPath:   "./...",
		format:    "xml",
		intensity: -1,
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for invalid format")
	}
	if !strings.Contains(err.Error(), `invalid format "xml"`) {
		t.Errorf("unexpected error message: %s", err)
	}
}

func TestRunGuard_InvalidModeOverride(t *testing.T) {
	err := runGuard(guardParams{
		pkgPath:   "./...",
		format:    "text",
		mode:      "exhaustive",
		intensity: -1,
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for invalid mode override")
	}
	if !strings.Contains(err.Error(), "invalid mode") {
		t.Errorf("unexpected error message: %s", err)
	}
}

func TestRunGuard_NonexistentPackage(t *testing.T) {
	err := runGuard(guardParams{
		pkgPath:   "github.com/nonexistent/package/that/does/not/exist",
		format:    "text",
		intensity: -1,
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
	})
	if err == nil {
		t.Fatal("expected error for nonexistent package")
	}
}

func TestRunGuard_JSONOutput(t *testing.T) {
	var out bytes.Buffer
	err := runGuard(guardParams{
		pkgPath:   "github.com/unbound-force/tddguard/internal/config",
		format:    "json",
		mode:      "minimal",
		intensity: 0.1,
		workers:   2,
		stdout:    &out,
		stderr:    &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("runGuard failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if _, ok := parsed["results"]; !ok {
		t.Error("JSON output missing 'results'")
	}
}

func TestRunGuard_TextOutput(t *testing.T) {
	var out bytes.Buffer
	err := runGuard(guardParams{
		pkgPath:   "github.com/unbound-force/tddguard/internal/config",
		format:    "text",
		mode:      "minimal",
		intensity: 0.1,
		workers:   2,
		stdout:    &out,
		stderr:    &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("runGuard failed: %v", err)
	}

	if !strings.Contains(out.String(), "unit(s) guarded") {
		t.Errorf("text output missing summary line:\n%s", out.String())
	}
}

func TestSchemaCmd_PrintsValidJSON(t *testing.T) {
	cmd := newSchemaCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("schema command failed: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &parsed); err != nil {
		t.Fatalf("schema output is not valid JSON: %v", err)
	}
	if parsed["$schema"] != "https://json-schema.org/draft/2020-12/schema" {
		t.Errorf("unexpected $schema value: %v", parsed["$schema"])
	}
}
