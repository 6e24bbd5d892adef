// Package schemas provides JSON Schema validation for the raw summary exposed by the in-page instrumentation.
package schemas

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SummarySchema describes the shape the in-page instrumentation must expose.
// The instrumentation is external code, so its output is validated before any
// enhancement runs on it. The schema is published as schemas/check_overflow.schema.json
// for instrumentation authors; the embedded copy here is the one enforced.
const SummarySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["totalSlides", "slidesWithIssues", "totalViolations", "reports"],
  "properties": {
    "generatedAt": {"type": "string"},
    "totalSlides": {"type": "integer", "minimum": 0},
    "slidesWithIssues": {"type": "integer", "minimum": 0},
    "totalViolations": {"type": "integer", "minimum": 0},
    "reports": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["slideIndex", "slideTitle", "violations"],
        "properties": {
          "slideIndex": {"type": "integer", "minimum": 0},
          "slideTitle": {"type": "string"},
          "violations": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["type", "message"],
              "properties": {
                "type": {"type": "string"},
                "message": {"type": "string"},
                "overflowAmount": {"type": "number"},
                "actual": {"type": "number"},
                "expected": {"type": "number"},
                "elementInfo": {"type": "string"},
                "element": {"type": "string"}
              }
            }
          }
        }
      }
    }
  }
}`

// ValidationError represents a schema validation failure with field paths.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("summary validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateSummary validates a raw summary document against the summary schema.
// Returns a *ValidationError describing every failing field, or a plain error
// when the document is not valid JSON at all.
func ValidateSummary(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(SummarySchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("summary document could not be loaded: %w", err)
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
