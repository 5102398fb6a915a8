// Package generate is the boundary to the remote sentence-generation
// service. It builds the model input from a canonical document, calls
// the service once (no retries; failures surface to the caller), and
// validates the response shape before reconciliation sees it.
package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cindysoftware/hero/internal/worksheet"
)

// ErrService wraps any failure of the remote generation service or an
// unusable response from it.
var ErrService = errors.New("generation service error")

// Adapter produces sentences for a canonical document. Implementations
// must echo back the document checksum and one sentence per entry
// checksum; reconciliation enforces the contract.
type Adapter interface {
	Generate(ctx context.Context, doc *worksheet.Document) (*worksheet.GenerationResult, error)
}

// responseSchema is the JSON schema of a generation response. It is
// both sent to the model as the required output format and used locally
// to validate whatever comes back.
const responseSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["subtitle", "doc_checksum", "data"],
  "properties": {
    "subtitle": {"type": "string"},
    "doc_checksum": {"type": "string"},
    "data": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["checksum", "sentence"],
        "properties": {
          "checksum": {"type": "string"},
          "sentence": {"type": "string"}
        }
      }
    }
  }
}`

var compiledResponseSchema = mustCompileResponseSchema()

func mustCompileResponseSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("response.json", bytes.NewReader([]byte(responseSchema))); err != nil {
		panic(err)
	}
	return compiler.MustCompile("response.json")
}

// responseSchemaMap returns the schema as a generic map, the form the
// OpenAI response_format parameter wants.
func responseSchemaMap() map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(responseSchema), &m); err != nil {
		panic(err)
	}
	return m
}

// parseResult parses and schema-validates a raw response body.
func parseResult(raw []byte) (*worksheet.GenerationResult, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: response is not valid JSON: %v", ErrService, err)
	}
	if err := compiledResponseSchema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("%w: response does not match schema: %v", ErrService, err)
	}

	var result worksheet.GenerationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrService, err)
	}
	return &result, nil
}
