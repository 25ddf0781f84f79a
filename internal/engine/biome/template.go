// Package biome holds the catalog of island archetypes and turns
// "pick one and parameterize it" into a concrete island spec.
package biome

import (
	"fmt"

	"github.com/islandforge/archipelago/internal/engine/decor"
	"github.com/islandforge/archipelago/internal/engine/terrain"
	"github.com/islandforge/archipelago/pkg/random"
)

// Range is an inclusive numeric parameter range.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (r Range) valid() bool { return r.Min <= r.Max }

// Template is one immutable island archetype: a weighted bundle of
// parameter ranges that concrete islands are drawn from.
type Template struct {
	ID      string  `json:"id" yaml:"id"`
	Name    string  `json:"name" yaml:"name"`
	Weight  float64 `json:"weight" yaml:"weight"`
	Climate string  `json:"climate" yaml:"climate"`

	Size         Range `json:"size" yaml:"size"`
	NoiseScale   Range `json:"noise_scale" yaml:"noise_scale"`
	NoiseHeight  Range `json:"noise_height" yaml:"noise_height"`
	FalloffCurve Range `json:"falloff_curve" yaml:"falloff_curve"`

	CullingEnabled bool    `json:"culling" yaml:"culling"`
	WaterLevel     float64 `json:"water_level" yaml:"water_level"`

	DecorationDensity Range              `json:"decoration_density" yaml:"decoration_density"`
	Decorations       decor.Distribution `json:"decorations" yaml:"decorations"`

	ShoreColor terrain.Color `json:"shore_color" yaml:"shore_color"`
	LandColor  terrain.Color `json:"land_color" yaml:"land_color"`
}

// validate reports the first configuration error in the template.
func (t *Template) validate() error {
	switch {
	case t.ID == "":
		return fmt.Errorf("template missing id")
	case t.Name == "":
		return fmt.Errorf("template %q missing name", t.ID)
	case t.Weight < 0:
		return fmt.Errorf("template %q has negative weight", t.ID)
	case !t.Size.valid() || t.Size.Max <= 0:
		return fmt.Errorf("template %q has invalid size range", t.ID)
	case !t.NoiseScale.valid() || t.NoiseScale.Max <= 0:
		return fmt.Errorf("template %q has invalid noise_scale range", t.ID)
	case !t.NoiseHeight.valid() || t.NoiseHeight.Max <= 0:
		return fmt.Errorf("template %q has invalid noise_height range", t.ID)
	case !t.FalloffCurve.valid():
		return fmt.Errorf("template %q has invalid falloff_curve range", t.ID)
	case !t.DecorationDensity.valid() || t.DecorationDensity.Min < 0 || t.DecorationDensity.Max > 1:
		return fmt.Errorf("template %q has invalid decoration_density range", t.ID)
	case len(t.Decorations) == 0:
		return fmt.Errorf("template %q has no decoration distribution", t.ID)
	}
	for _, s := range t.Decorations {
		if s.Type == "" || s.Percent < 0 {
			return fmt.Errorf("template %q has an invalid decoration share", t.ID)
		}
	}
	return nil
}

// Registry maps template IDs to templates. Lookup ignores registration
// order; deterministic listing and weighted selection honor it.
type Registry struct {
	order     []string
	templates map[string]*Template
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*Template)}
}

// Add validates and registers a template, overwriting a previous
// registration of the same id in place.
func (r *Registry) Add(t *Template) error {
	if err := t.validate(); err != nil {
		return err
	}
	if _, exists := r.templates[t.ID]; !exists {
		r.order = append(r.order, t.ID)
	}
	r.templates[t.ID] = t
	return nil
}

// Get returns the template with the given id.
func (r *Registry) Get(id string) (*Template, bool) {
	t, ok := r.templates[id]
	return t, ok
}

// IDs returns template ids in registration order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.order) }

// SelectRandom picks a template by cumulative weight, walking templates
// in registration order. Excluded ids and zero-weight templates are
// never returned. Selecting from a registry where everything is
// excluded (or carries zero weight) is a configuration error.
func (r *Registry) SelectRandom(rng random.Source, exclude map[string]bool) (*Template, error) {
	total := 0.0
	for _, id := range r.order {
		if exclude[id] {
			continue
		}
		total += r.templates[id].Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("no selectable template: all excluded or zero total weight")
	}

	draw := rng.Next() * total
	cum := 0.0
	var last *Template
	for _, id := range r.order {
		if exclude[id] {
			continue
		}
		t := r.templates[id]
		if t.Weight <= 0 {
			continue
		}
		cum += t.Weight
		last = t
		if draw < cum {
			return t, nil
		}
	}
	// Floating-point accumulation can leave draw == total.
	return last, nil
}
