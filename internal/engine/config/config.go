// Package config holds the world generation configuration and the
// rules for applying partial updates to it.
package config

import "fmt"

// Config holds every knob of the world generator and streaming loop.
type Config struct {
	Seed       int64   `json:"seed"`
	WorldWidth float64 `json:"world_width"`
	WorldDepth float64 `json:"world_depth"`
	Density    float64 `json:"density"` // fraction of the island budget to realize
	MinSpacing float64 `json:"min_spacing"`
	MaxSpacing float64 `json:"max_spacing"`

	MaxIslandRenderDistance float64 `json:"max_island_render_distance"`
	MaxObjectRenderDistance float64 `json:"max_object_render_distance"`
	DecorationsEnabled      bool    `json:"decorations_enabled"`
	LODEnabled              bool    `json:"lod_enabled"`

	// Template selection bias. The exact probability and template lists
	// are tunable, not fixed law.
	BiasProbability     float64  `json:"bias_probability"`
	CentralTemplates    []string `json:"central_templates"`
	PeripheralTemplates []string `json:"peripheral_templates"`
	OuterExcluded       []string `json:"outer_excluded"`

	CacheCapacity      int     `json:"cache_capacity"`
	SamplerMaxAttempts int     `json:"sampler_max_attempts"`
	JobsPerTick        int     `json:"jobs_per_tick"`
	LODMinMove         float64 `json:"lod_min_move"` // observer displacement that schedules a tick
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Seed:       12345,
		WorldWidth: 10000,
		WorldDepth: 10000,
		Density:    0.3,
		MinSpacing: 800,
		MaxSpacing: 1500,

		MaxIslandRenderDistance: 5000,
		MaxObjectRenderDistance: 2500,
		DecorationsEnabled:      true,
		LODEnabled:              true,

		BiasProbability:     0.6,
		CentralTemplates:    []string{"tropical", "meadow"},
		PeripheralTemplates: []string{"volcanic", "rocky"},
		OuterExcluded:       []string{"mangrove"},

		CacheCapacity:      128,
		SamplerMaxAttempts: 30,
		JobsPerTick:        4,
		LODMinMove:         50,
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.WorldWidth <= 0 || c.WorldDepth <= 0:
		return fmt.Errorf("world bounds must be positive")
	case c.Density <= 0 || c.Density > 1:
		return fmt.Errorf("density must be in (0, 1]")
	case c.MinSpacing <= 0:
		return fmt.Errorf("min spacing must be positive")
	case c.MaxSpacing < c.MinSpacing:
		return fmt.Errorf("max spacing must be >= min spacing")
	case c.BiasProbability < 0 || c.BiasProbability > 1:
		return fmt.Errorf("bias probability must be in [0, 1]")
	case c.CacheCapacity < 1:
		return fmt.Errorf("cache capacity must be at least 1")
	}
	return nil
}

// Patch is a partial configuration update; nil fields are left alone.
type Patch struct {
	Seed       *int64   `json:"seed,omitempty"`
	WorldWidth *float64 `json:"world_width,omitempty"`
	WorldDepth *float64 `json:"world_depth,omitempty"`
	Density    *float64 `json:"density,omitempty"`
	MinSpacing *float64 `json:"min_spacing,omitempty"`
	MaxSpacing *float64 `json:"max_spacing,omitempty"`

	MaxIslandRenderDistance *float64 `json:"max_island_render_distance,omitempty"`
	MaxObjectRenderDistance *float64 `json:"max_object_render_distance,omitempty"`
	DecorationsEnabled      *bool    `json:"decorations_enabled,omitempty"`
	LODEnabled              *bool    `json:"lod_enabled,omitempty"`
	BiasProbability         *float64 `json:"bias_probability,omitempty"`
}

// Apply writes the patch into c and reports whether any structural
// field changed. Structural fields (seed, bounds, density, spacing)
// invalidate the generated layout; everything else takes effect on the
// next streaming tick.
func (p Patch) Apply(c *Config) (structural bool) {
	setI64 := func(dst *int64, src *int64) {
		if src != nil && *dst != *src {
			*dst = *src
			structural = true
		}
	}
	setF := func(dst *float64, src *float64) {
		if src != nil && *dst != *src {
			*dst = *src
			structural = true
		}
	}

	setI64(&c.Seed, p.Seed)
	setF(&c.WorldWidth, p.WorldWidth)
	setF(&c.WorldDepth, p.WorldDepth)
	setF(&c.Density, p.Density)
	setF(&c.MinSpacing, p.MinSpacing)
	setF(&c.MaxSpacing, p.MaxSpacing)

	// Runtime knobs: applied without flagging.
	if p.MaxIslandRenderDistance != nil {
		c.MaxIslandRenderDistance = *p.MaxIslandRenderDistance
	}
	if p.MaxObjectRenderDistance != nil {
		c.MaxObjectRenderDistance = *p.MaxObjectRenderDistance
	}
	if p.DecorationsEnabled != nil {
		c.DecorationsEnabled = *p.DecorationsEnabled
	}
	if p.LODEnabled != nil {
		c.LODEnabled = *p.LODEnabled
	}
	if p.BiasProbability != nil {
		c.BiasProbability = *p.BiasProbability
	}
	return structural
}

// Merge applies file-loaded values into cfg for fields that were NOT
// explicitly set via CLI flags. explicitFlags holds the flag names
// provided on the command line.
func Merge(cfg *Config, fromFile *Config, explicitFlags map[string]bool) {
	if !explicitFlags["seed"] {
		cfg.Seed = fromFile.Seed
	}
	if !explicitFlags["world-width"] {
		cfg.WorldWidth = fromFile.WorldWidth
	}
	if !explicitFlags["world-depth"] {
		cfg.WorldDepth = fromFile.WorldDepth
	}
	if !explicitFlags["density"] {
		cfg.Density = fromFile.Density
	}
	if !explicitFlags["min-spacing"] {
		cfg.MinSpacing = fromFile.MinSpacing
	}
	if !explicitFlags["max-spacing"] {
		cfg.MaxSpacing = fromFile.MaxSpacing
	}
	if !explicitFlags["island-distance"] {
		cfg.MaxIslandRenderDistance = fromFile.MaxIslandRenderDistance
	}
	if !explicitFlags["object-distance"] {
		cfg.MaxObjectRenderDistance = fromFile.MaxObjectRenderDistance
	}
}
