package biome

import (
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// catalogSchema validates template catalog documents before any
// template reaches the registry. Catalog mistakes are configuration
// errors and fail fast.
const catalogSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["templates"],
  "properties": {
    "templates": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "weight", "size", "noise_scale", "noise_height", "falloff_curve", "water_level", "decoration_density", "decorations"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "weight": {"type": "number", "minimum": 0},
          "climate": {"type": "string"},
          "size": {"$ref": "#/$defs/range"},
          "noise_scale": {"$ref": "#/$defs/range"},
          "noise_height": {"$ref": "#/$defs/range"},
          "falloff_curve": {"$ref": "#/$defs/range"},
          "culling": {"type": "boolean"},
          "water_level": {"type": "number"},
          "decoration_density": {"$ref": "#/$defs/range"},
          "decorations": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["type", "percent"],
              "properties": {
                "type": {"type": "string", "minLength": 1},
                "percent": {"type": "integer", "minimum": 0}
              }
            }
          },
          "shore_color": {"$ref": "#/$defs/color"},
          "land_color": {"$ref": "#/$defs/color"}
        }
      }
    }
  },
  "$defs": {
    "range": {
      "type": "object",
      "required": ["min", "max"],
      "properties": {
        "min": {"type": "number"},
        "max": {"type": "number"}
      }
    },
    "color": {
      "type": "object",
      "properties": {
        "r": {"type": "number", "minimum": 0, "maximum": 1},
        "g": {"type": "number", "minimum": 0, "maximum": 1},
        "b": {"type": "number", "minimum": 0, "maximum": 1}
      }
    }
  }
}`

type catalogFile struct {
	Templates []*Template `yaml:"templates"`
}

// LoadCatalog reads a YAML template catalog, validates it against the
// catalog schema, and registers every template into reg. Templates
// re-using an id already in reg overwrite it.
func LoadCatalog(path string, reg *Registry) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(raw, reg)
}

// ParseCatalog validates and registers a raw YAML catalog document.
func ParseCatalog(raw []byte, reg *Registry) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	sch, err := jsonschema.CompileString("catalog.schema.json", catalogSchema)
	if err != nil {
		return fmt.Errorf("compile catalog schema: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}
	for _, t := range file.Templates {
		if err := reg.Add(t); err != nil {
			return fmt.Errorf("register template: %w", err)
		}
	}
	return nil
}
