package analysis

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchemaJSON constrains the shape the model is asked to return. It is
// advisory: validation failures are logged and the normalizer backfills
// defaults rather than rejecting the payload.
const resultSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "documentType": {"type": "string"},
    "summary": {"type": "string"},
    "wordCount": {"type": "number", "minimum": 0},
    "riskScore": {"type": "number"},
    "riskAssessment": {
      "type": "object",
      "properties": {
        "favorable": {"$ref": "#/$defs/riskItems"},
        "moderate": {"$ref": "#/$defs/riskItems"},
        "critical": {"$ref": "#/$defs/riskItems"}
      }
    },
    "vagueTerms": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "term": {"type": "string"},
          "issue": {"type": "string"},
          "suggestion": {"type": "string"}
        },
        "required": ["term"]
      }
    },
    "keyTerms": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "term": {"type": "string"},
          "definition": {"type": "string"}
        },
        "required": ["term"]
      }
    },
    "legalReferences": {"type": "array", "items": {"type": "string"}},
    "recommendations": {"type": "array", "items": {"type": "string"}},
    "redFlags": {"type": "array", "items": {"type": "string"}},
    "suggestedQuestions": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "question": {"type": "string"},
          "answer": {"type": "string"}
        },
        "required": ["question"]
      }
    },
    "flowchart": {
      "type": "object",
      "properties": {
        "nodes": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "id": {"type": "string"},
              "type": {"enum": ["start", "party", "process", "decision", "end"]},
              "label": {"type": "string"}
            },
            "required": ["id", "type"]
          }
        },
        "edges": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "id": {"type": "string"},
              "source": {"type": "string"},
              "target": {"type": "string"},
              "label": {"type": "string"}
            },
            "required": ["source", "target"]
          }
        }
      }
    }
  },
  "required": ["summary"],
  "$defs": {
    "riskItems": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string"},
          "description": {"type": "string"},
          "location": {"type": "string"}
        },
        "required": ["description"]
      }
    }
  }
}`

var resultSchema = jsonschema.MustCompileString("analysis_result.json", resultSchemaJSON)

// validateResultShape checks parsed model output against the result schema.
func validateResultShape(parsed any) error {
	if err := resultSchema.Validate(parsed); err != nil {
		return err
	}
	return nil
}

// stripCodeFences removes a surrounding markdown code fence, with or without
// a language tag, from model output.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		// drop a language tag like "json" on the opening fence
		if firstLine == "" || !strings.ContainsAny(firstLine, "{[") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
