package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the configuration schema version understood by this build.
const SchemaVersion = "1.0.0"

//go:embed schemas/docsync-config-v1.0.0.json
var configSchemaV1 []byte

// ValidateConfig validates JSON configuration data against the embedded schema.
func ValidateConfig(configData []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(configSchemaV1)
	documentLoader := gojsonschema.NewBytesLoader(configData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}

	if !result.Valid() {
		var errs []string
		for _, desc := range result.Errors() {
			errs = append(errs, desc.String())
		}
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}

// ValidateFile validates a YAML, JSON or TOML configuration file against the
// embedded schema.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path) // #nosec G304 -- config path chosen by the user
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	jsonData, err := toJSON(data, filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := ValidateConfig(jsonData); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func toJSON(data []byte, ext string) ([]byte, error) {
	var doc interface{}
	switch strings.ToLower(ext) {
	case ".json":
		return data, nil
	case ".toml":
		var m map[string]interface{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		doc = m
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
	}
	return json.Marshal(doc)
}
