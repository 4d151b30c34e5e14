package ml

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const bundleSchemaURL = "schema://model-bundle.json"

const bundleSchema = `{
  "type": "object",
  "required": ["features", "model"],
  "properties": {
    "features": {
      "type": "array",
      "items": {"type": "string", "minLength": 1},
      "minItems": 1,
      "uniqueItems": true
    },
    "model": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"type": "string", "minLength": 1},
        "coef": {"type": "array", "items": {"type": "number"}},
        "intercept": {"type": "number"},
        "classes": {"type": "array", "items": {"type": "integer"}},
        "scaler": {
          "type": "object",
          "required": ["mean", "scale"],
          "properties": {
            "mean": {"type": "array", "items": {"type": "number"}},
            "scale": {"type": "array", "items": {"type": "number"}}
          }
        },
        "nodes": {"type": "array", "items": {"type": "object"}}
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func bundleValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(bundleSchema), &doc); err != nil {
			compileErr = fmt.Errorf("parse bundle schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(bundleSchemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile(bundleSchemaURL)
	})
	return compiledSchema, compileErr
}

// validateBundleJSON checks raw artifact bytes against the bundle schema
// before they are decoded into concrete model types.
func validateBundleJSON(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", ErrInvalidBundle, err)
	}
	schema, err := bundleValidator()
	if err != nil {
		return err
	}
	if err := schema.Validate(parsed); err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", ErrInvalidBundle, err)
	}
	return nil
}
