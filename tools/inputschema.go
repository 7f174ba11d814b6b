package tools

import (
	"encoding/json"
	"fmt"

	toolschema "github.com/google/jsonschema-go/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const inputSchemaURL = "https://godot-docs-mcp.local/schema/docs-tool-input.json"

// InputValidator checks tool arguments against a JSON Schema whose version
// enum is the configured closed set
type InputValidator struct {
	schema *jsonschema.Schema
}

// NewInputValidator compiles the schema for versions
func NewInputValidator(versions []string) (*InputValidator, error) {
	enum := make([]interface{}, 0, len(versions))
	for _, v := range versions {
		enum = append(enum, v)
	}

	schemaDoc := map[string]interface{}{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]interface{}{
			"searchTerm": map[string]interface{}{"type": "string"},
			"version":    map[string]interface{}{"type": "string", "enum": enum},
		},
		"required": []interface{}{"searchTerm"},
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(inputSchemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("failed to add input schema: %w", err)
	}

	schema, err := compiler.Compile(inputSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile input schema: %w", err)
	}

	return &InputValidator{schema: schema}, nil
}

// Validate rejects arguments outside the schema, e.g. an unknown version.
// An empty Version is treated as omitted.
func (v *InputValidator) Validate(input DocsInput) error {
	args := map[string]interface{}{"searchTerm": input.SearchTerm}
	if input.Version != "" {
		args["version"] = input.Version
	}

	if err := v.schema.Validate(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// NewToolInputSchema is the schema advertised to clients for both tools: the
// DocsInput shape with version restricted to versions and defaulting to defaultVersion
func NewToolInputSchema(versions []string, defaultVersion string) (*toolschema.Schema, error) {
	schema, err := toolschema.For[DocsInput](nil)
	if err != nil {
		return nil, fmt.Errorf("failed to infer tool input schema: %w", err)
	}

	version, ok := schema.Properties["version"]
	if !ok {
		return nil, fmt.Errorf("tool input schema has no version property")
	}

	version.Enum = make([]any, 0, len(versions))
	for _, v := range versions {
		version.Enum = append(version.Enum, v)
	}
	if version.Default, err = json.Marshal(defaultVersion); err != nil {
		return nil, fmt.Errorf("failed to encode default version: %w", err)
	}
	version.Description = fmt.Sprintf("Documentation version (optional, defaults to %s)", defaultVersion)

	return schema, nil
}
