// Package schemas provides JSON Schema validation functionality for component metadata.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	rootschemas "github.com/jonathan/framecraft/schemas"
)

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaContent)
	documentLoader := gojsonschema.NewStringLoader(jsonContent)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return resultError(result)
}

var (
	componentConfigOnce   sync.Once
	componentConfigSchema *gojsonschema.Schema
	componentConfigErr    error
)

func loadComponentConfigSchema() (*gojsonschema.Schema, error) {
	componentConfigOnce.Do(func() {
		content, err := rootschemas.Read(rootschemas.ComponentConfigFile)
		if err != nil {
			componentConfigErr = &SchemaLoadError{Path: rootschemas.ComponentConfigFile, Message: "schema not embedded", Cause: err}
			return
		}
		componentConfigSchema, err = gojsonschema.NewSchema(gojsonschema.NewStringLoader(content))
		if err != nil {
			componentConfigErr = &SchemaLoadError{Path: rootschemas.ComponentConfigFile, Message: "invalid schema", Cause: err}
		}
	})
	return componentConfigSchema, componentConfigErr
}

// ValidateComponentConfig validates a decoded config document (as produced by
// encoding/json or yaml.v3 into map[string]any) against the component config schema.
func ValidateComponentConfig(document any) error {
	schema, err := loadComponentConfigSchema()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return &SchemaLoadError{
			Path:    rootschemas.ComponentConfigFile,
			Message: "document could not be loaded",
			Cause:   err,
		}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
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
