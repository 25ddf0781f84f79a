package biome

import (
	"os"
	"path/filepath"
	"testing"
)

const validCatalog = `
templates:
  - id: atoll
    name: Coral Atoll
    weight: 12
    climate: tropical
    size: {min: 200, max: 350}
    noise_scale: {min: 80, max: 140}
    noise_height: {min: 5, max: 10}
    falloff_curve: {min: 1.0, max: 1.5}
    culling: false
    water_level: 0.5
    decoration_density: {min: 0.1, max: 0.3}
    decorations:
      - {type: palm, percent: 70}
      - {type: coral, percent: 30}
    shore_color: {r: 0.95, g: 0.92, b: 0.75}
    land_color: {r: 0.3, g: 0.65, b: 0.35}
`

func TestParseCatalogRegistersTemplates(t *testing.T) {
	reg := NewRegistry()
	if err := ParseCatalog([]byte(validCatalog), reg); err != nil {
		t.Fatal(err)
	}

	tpl, ok := reg.Get("atoll")
	if !ok {
		t.Fatal("atoll not registered")
	}
	if tpl.Name != "Coral Atoll" || tpl.Weight != 12 {
		t.Errorf("template fields not loaded: %+v", tpl)
	}
	if len(tpl.Decorations) != 2 || tpl.Decorations[0].Type != "palm" {
		t.Errorf("decorations not loaded: %+v", tpl.Decorations)
	}
	if tpl.ShoreColor.R != 0.95 {
		t.Errorf("shore color not loaded: %+v", tpl.ShoreColor)
	}
}

func TestParseCatalogRejectsMissingFields(t *testing.T) {
	bad := `
templates:
  - id: broken
    name: Broken
    weight: 5
`
	if err := ParseCatalog([]byte(bad), NewRegistry()); err == nil {
		t.Error("catalog missing required fields was accepted")
	}
}

func TestParseCatalogRejectsWrongTypes(t *testing.T) {
	bad := `
templates:
  - id: broken
    name: Broken
    weight: "heavy"
    size: {min: 100, max: 200}
    noise_scale: {min: 50, max: 100}
    noise_height: {min: 10, max: 20}
    falloff_curve: {min: 1, max: 2}
    water_level: 0.5
    decoration_density: {min: 0.1, max: 0.3}
    decorations:
      - {type: palm, percent: 100}
`
	if err := ParseCatalog([]byte(bad), NewRegistry()); err == nil {
		t.Error("catalog with a string weight was accepted")
	}
}

func TestParseCatalogRejectsEmpty(t *testing.T) {
	if err := ParseCatalog([]byte("templates: []"), NewRegistry()); err == nil {
		t.Error("empty catalog was accepted")
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(validCatalog), 0o644); err != nil {
		t.Fatal(err)
	}

	reg := NewDefaultRegistry()
	before := reg.Len()
	if err := LoadCatalog(path, reg); err != nil {
		t.Fatal(err)
	}
	if reg.Len() != before+1 {
		t.Errorf("Len() = %d, want %d", reg.Len(), before+1)
	}
}

func TestLoadCatalogMissingFile(t *testing.T) {
	if err := LoadCatalog(filepath.Join(t.TempDir(), "nope.yaml"), NewRegistry()); err == nil {
		t.Error("missing catalog file should error")
	}
}

func TestCatalogOverridesBuiltin(t *testing.T) {
	override := `
templates:
  - id: tropical
    name: Custom Tropical
    weight: 99
    size: {min: 100, max: 200}
    noise_scale: {min: 50, max: 100}
    noise_height: {min: 10, max: 20}
    falloff_curve: {min: 1, max: 2}
    water_level: 0.5
    decoration_density: {min: 0.1, max: 0.3}
    decorations:
      - {type: palm, percent: 100}
`
	reg := NewDefaultRegistry()
	before := reg.Len()
	if err := ParseCatalog([]byte(override), reg); err != nil {
		t.Fatal(err)
	}
	if reg.Len() != before {
		t.Errorf("override changed template count: %d -> %d", before, reg.Len())
	}
	tpl, _ := reg.Get("tropical")
	if tpl.Name != "Custom Tropical" {
		t.Errorf("Get returned %q, want the override", tpl.Name)
	}
}
