package rime

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Schema describes the engine's input schema, loaded from schema.yaml in
// the shared data directory.
type Schema struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// schemaDoc mirrors the schema.yaml document.
type schemaDoc struct {
	Schema    Schema `yaml:"schema"`
	ToneInput struct {
		Scheme string `yaml:"scheme"`
	} `yaml:"tone_input"`
	Corrector struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"corrector"`
}

// loadSchema parses schema.yaml at the given path.
func loadSchema(path string) (schemaDoc, error) {
	var doc schemaDoc

	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read schema: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("parse schema: %w", err)
	}
	if doc.Schema.ID == "" {
		return doc, fmt.Errorf("schema %s has no id", path)
	}
	return doc, nil
}
