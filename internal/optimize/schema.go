package optimize

// TestSchema is the JSON Schema (Draft 2020-12) every generated test
// must satisfy before entering the optimized suite. It mirrors the
// model.GeneratedTest wire shape.
const TestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/tddguard/generated-test.schema.json",
  "title": "Generated Test",
  "description": "A single synthesized test case",
  "type": "object",
  "required": ["id", "name", "spec_id", "category", "act", "assert", "expected"],
  "properties": {
    "id": {
      "type": "string",
      "pattern": "^gt-[0-9a-f]{8}$",
      "description": "Stable identifier (gt-XXXXXXXX)"
    },
    "name": {
      "type": "string",
      "minLength": 1,
      "description": "Human-readable test name"
    },
    "spec_id": {
      "type": "string",
      "pattern": "^spec-[0-9a-f]{8}$",
      "description": "Owning generation spec"
    },
    "category": {
      "type": "string",
      "enum": ["normal", "edge", "property", "mutation"]
    },
    "arrange": {
      "oneOf": [
        { "type": "array", "items": { "$ref": "#/$defs/Statement" } },
        { "type": "null" }
      ]
    },
    "act": { "$ref": "#/$defs/Statement" },
    "assert": {
      "type": "array",
      "minItems": 1,
      "items": { "$ref": "#/$defs/Assertion" }
    },
    "expected": {
      "type": "string",
      "enum": ["pass", "fail", "exception"]
    },
    "depends_on": {
      "type": "array",
      "items": { "type": "string" }
    },
    "property": { "$ref": "#/$defs/PropertySpec" },
    "mutant": { "$ref": "#/$defs/MutantSpec" },
    "seq": { "type": "integer", "minimum": 0 }
  },
  "$defs": {
    "Value": {
      "type": "object",
      "required": ["kind", "literal"],
      "properties": {
        "kind": {
          "type": "string",
          "enum": ["int", "float", "string", "bool", "null", "sequence", "map"]
        },
        "literal": { "type": "string" }
      }
    },
    "Statement": {
      "type": "object",
      "properties": {
        "assign": { "type": "string" },
        "call": { "type": "string" },
        "args": {
          "type": "array",
          "items": { "$ref": "#/$defs/Value" }
        }
      }
    },
    "Assertion": {
      "type": "object",
      "required": ["kind", "actual"],
      "properties": {
        "kind": {
          "type": "string",
          "enum": [
            "equals", "not_equal", "true", "not_null",
            "raises", "property_holds"
          ]
        },
        "actual": { "type": "string", "minLength": 1 },
        "expected": { "$ref": "#/$defs/Value" }
      }
    },
    "PropertySpec": {
      "type": "object",
      "required": ["property", "trials", "seed"],
      "properties": {
        "property": { "type": "string" },
        "trials": { "type": "integer", "minimum": 1 },
        "seed": { "type": "integer" },
        "shrink": { "type": "boolean" }
      }
    },
    "MutantSpec": {
      "type": "object",
      "required": ["kind", "original_op", "mutated_op"],
      "properties": {
        "kind": {
          "type": "string",
          "enum": ["operator_swap", "boundary_shift", "boolean_inversion"]
        },
        "original_op": { "type": "string" },
        "mutated_op": { "type": "string" },
        "killed_by": { "type": "string" }
      }
    }
  }
}`
