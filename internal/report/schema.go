package report

// Schema is the JSON Schema (Draft 2020-12) for the tddguard guard
// JSON output. It documents the structure returned by WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/tddguard/guardian-report.schema.json",
  "title": "Guardian Report",
  "description": "Output schema for tddguard guard --format=json",
  "type": "object",
  "required": ["version", "results"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Schema version (semver)"
    },
    "results": {
      "type": "array",
      "items": { "$ref": "#/$defs/GuardianResult" }
    }
  },
  "$defs": {
    "NullableArray": {
      "oneOf": [
        { "type": "array" },
        { "type": "null" }
      ]
    },
    "GuardianResult": {
      "type": "object",
      "required": ["model", "specs", "suite", "violations", "quality", "metadata"],
      "properties": {
        "model": { "$ref": "#/$defs/StructuralModel" },
        "specs": {
          "oneOf": [
            { "type": "array", "items": { "$ref": "#/$defs/TestGenerationSpec" } },
            { "type": "null" }
          ]
        },
        "suite": {
          "oneOf": [
            { "type": "array", "items": { "$ref": "#/$defs/GeneratedTest" } },
            { "type": "null" }
          ]
        },
        "violations": {
          "oneOf": [
            { "type": "array", "items": { "$ref": "#/$defs/Violation" } },
            { "type": "null" }
          ]
        },
        "quality": { "$ref": "#/$defs/QualityReport" },
        "cycles": {
          "oneOf": [
            { "type": "array", "items": { "$ref": "#/$defs/TDDCycle" } },
            { "type": "null" }
          ]
        },
        "diagnostics": {
          "oneOf": [
            { "type": "array", "items": { "$ref": "#/$defs/Diagnostic" } },
            { "type": "null" }
          ]
        },
        "metadata": { "$ref": "#/$defs/Metadata" }
      }
    },
    "StructuralModel": {
      "type": "object",
      "required": ["unit_id", "language", "functions"],
      "properties": {
        "unit_id": { "type": "string" },
        "language": { "type": "string" },
        "functions": { "$ref": "#/$defs/NullableArray" }
      }
    },
    "TestGenerationSpec": {
      "type": "object",
      "required": ["id", "unit_id", "function", "coverage_target"],
      "properties": {
        "id": {
          "type": "string",
          "pattern": "^spec-[0-9a-f]{8}$",
          "description": "Stable identifier (spec-XXXXXXXX)"
        },
        "unit_id": { "type": "string" },
        "function": { "type": "object" },
        "edge_cases": { "$ref": "#/$defs/NullableArray" },
        "coverage_target": {
          "type": "number",
          "minimum": 0,
          "maximum": 1
        }
      }
    },
    "GeneratedTest": {
      "type": "object",
      "required": ["id", "name", "spec_id", "category", "expected"],
      "properties": {
        "id": {
          "type": "string",
          "pattern": "^gt-[0-9a-f]{8}$",
          "description": "Stable identifier (gt-XXXXXXXX)"
        },
        "name": { "type": "string" },
        "spec_id": { "type": "string" },
        "category": {
          "type": "string",
          "enum": ["normal", "edge", "property", "mutation"]
        },
        "expected": {
          "type": "string",
          "enum": ["pass", "fail", "exception"]
        }
      }
    },
    "Violation": {
      "type": "object",
      "required": ["id", "type", "severity", "location"],
      "properties": {
        "id": { "type": "string" },
        "type": {
          "type": "string",
          "enum": [
            "code-without-test", "test-not-first",
            "premature-implementation", "insufficient-tests",
            "poor-test-quality", "missing-edge-cases",
            "no-refactor-step", "skipped-red-phase",
            "weak-assertions"
          ]
        },
        "severity": {
          "type": "integer",
          "minimum": 1,
          "maximum": 5,
          "description": "Ordinal severity (1=info .. 5=critical)"
        },
        "location": { "type": "string" },
        "evidence": { "$ref": "#/$defs/NullableArray" },
        "remediation": { "type": "string" }
      }
    },
    "QualityReport": {
      "type": "object",
      "required": ["assertion_strength", "estimated_coverage", "edge_case_coverage"],
      "properties": {
        "assertion_strength": { "type": "number", "minimum": 0, "maximum": 1 },
        "estimated_coverage": { "type": "number", "minimum": 0, "maximum": 1 },
        "edge_case_coverage": { "type": "number", "minimum": 0, "maximum": 1 },
        "deficiencies": { "$ref": "#/$defs/NullableArray" }
      }
    },
    "TDDCycle": {
      "type": "object",
      "required": ["id", "unit_id", "phase"],
      "properties": {
        "id": { "type": "string" },
        "unit_id": { "type": "string" },
        "phase": {
          "type": "string",
          "enum": ["red", "green", "blue"]
        },
        "history": { "$ref": "#/$defs/NullableArray" },
        "archived": { "type": "boolean" }
      }
    },
    "Diagnostic": {
      "type": "object",
      "required": ["stage", "message"],
      "properties": {
        "stage": { "type": "string" },
        "generator": { "type": "string" },
        "function": { "type": "string" },
        "message": { "type": "string" }
      }
    },
    "Metadata": {
      "type": "object",
      "required": ["guardian_version", "duration_ms"],
      "properties": {
        "guardian_version": { "type": "string" },
        "duration_ms": {
          "type": "integer",
          "description": "Run duration in milliseconds"
        },
        "timestamp": { "type": "string" }
      }
    }
  }
}`
