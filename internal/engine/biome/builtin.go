package biome

import (
	"github.com/islandforge/archipelago/internal/engine/decor"
	"github.com/islandforge/archipelago/internal/engine/terrain"
)

// builtinTemplates are the stock island archetypes registered into
// every new registry. Catalog files may overwrite any of them by id.
var builtinTemplates = []*Template{
	{
		ID:      "tropical",
		Name:    "Tropical Island",
		Weight:  30,
		Climate: "tropical",

		Size:         Range{Min: 350, Max: 700},
		NoiseScale:   Range{Min: 90, Max: 160},
		NoiseHeight:  Range{Min: 18, Max: 32},
		FalloffCurve: Range{Min: 1.4, Max: 2.2},

		CullingEnabled: true,
		WaterLevel:     0.5,

		DecorationDensity: Range{Min: 0.25, Max: 0.5},
		Decorations: decor.Distribution{
			{Type: "palm", Percent: 55},
			{Type: "fern", Percent: 25},
			{Type: "rock", Percent: 20},
		},
		ShoreColor: terrain.Color{R: 0.93, G: 0.87, B: 0.64},
		LandColor:  terrain.Color{R: 0.22, G: 0.62, B: 0.27},
	},
	{
		ID:      "meadow",
		Name:    "Meadow Island",
		Weight:  25,
		Climate: "temperate",

		Size:         Range{Min: 300, Max: 550},
		NoiseScale:   Range{Min: 110, Max: 200},
		NoiseHeight:  Range{Min: 10, Max: 20},
		FalloffCurve: Range{Min: 1.1, Max: 1.8},

		CullingEnabled: true,
		WaterLevel:     0.5,

		DecorationDensity: Range{Min: 0.3, Max: 0.55},
		Decorations: decor.Distribution{
			{Type: "oak", Percent: 35},
			{Type: "wildflower", Percent: 40},
			{Type: "bush", Percent: 25},
		},
		ShoreColor: terrain.Color{R: 0.85, G: 0.82, B: 0.6},
		LandColor:  terrain.Color{R: 0.35, G: 0.68, B: 0.3},
	},
	{
		ID:      "volcanic",
		Name:    "Volcanic Island",
		Weight:  15,
		Climate: "arid",

		Size:         Range{Min: 400, Max: 800},
		NoiseScale:   Range{Min: 70, Max: 120},
		NoiseHeight:  Range{Min: 35, Max: 60},
		FalloffCurve: Range{Min: 2.0, Max: 3.0},

		CullingEnabled: true,
		WaterLevel:     0.5,

		DecorationDensity: Range{Min: 0.05, Max: 0.18},
		Decorations: decor.Distribution{
			{Type: "boulder", Percent: 50},
			{Type: "dead_tree", Percent: 30},
			{Type: "vent", Percent: 20},
		},
		ShoreColor: terrain.Color{R: 0.35, G: 0.32, B: 0.3},
		LandColor:  terrain.Color{R: 0.25, G: 0.22, B: 0.2},
	},
	{
		ID:      "rocky",
		Name:    "Rocky Island",
		Weight:  15,
		Climate: "cold",

		Size:         Range{Min: 250, Max: 500},
		NoiseScale:   Range{Min: 60, Max: 110},
		NoiseHeight:  Range{Min: 28, Max: 48},
		FalloffCurve: Range{Min: 1.8, Max: 2.6},

		CullingEnabled: true,
		WaterLevel:     0.5,

		DecorationDensity: Range{Min: 0.1, Max: 0.25},
		Decorations: decor.Distribution{
			{Type: "pine", Percent: 40},
			{Type: "boulder", Percent: 45},
			{Type: "shrub", Percent: 15},
		},
		ShoreColor: terrain.Color{R: 0.6, G: 0.58, B: 0.55},
		LandColor:  terrain.Color{R: 0.45, G: 0.5, B: 0.4},
	},
	{
		ID:      "desert",
		Name:    "Desert Island",
		Weight:  10,
		Climate: "arid",

		Size:         Range{Min: 300, Max: 600},
		NoiseScale:   Range{Min: 130, Max: 220},
		NoiseHeight:  Range{Min: 8, Max: 16},
		FalloffCurve: Range{Min: 1.0, Max: 1.6},

		CullingEnabled: false,
		WaterLevel:     0.5,

		DecorationDensity: Range{Min: 0.04, Max: 0.12},
		Decorations: decor.Distribution{
			{Type: "cactus", Percent: 45},
			{Type: "dead_bush", Percent: 35},
			{Type: "rock", Percent: 20},
		},
		ShoreColor: terrain.Color{R: 0.95, G: 0.9, B: 0.68},
		LandColor:  terrain.Color{R: 0.88, G: 0.8, B: 0.55},
	},
	{
		ID:      "mangrove",
		Name:    "Mangrove Island",
		Weight:  5,
		Climate: "tropical",

		Size:         Range{Min: 280, Max: 450},
		NoiseScale:   Range{Min: 100, Max: 170},
		NoiseHeight:  Range{Min: 6, Max: 12},
		FalloffCurve: Range{Min: 0.9, Max: 1.4},

		CullingEnabled: false,
		WaterLevel:     0.5,

		DecorationDensity: Range{Min: 0.35, Max: 0.6},
		Decorations: decor.Distribution{
			{Type: "mangrove", Percent: 70},
			{Type: "reed", Percent: 30},
		},
		ShoreColor: terrain.Color{R: 0.5, G: 0.52, B: 0.4},
		LandColor:  terrain.Color{R: 0.28, G: 0.5, B: 0.3},
	},
}

// NewDefaultRegistry returns a registry pre-loaded with the builtin
// archetypes.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, t := range builtinTemplates {
		if err := r.Add(t); err != nil {
			// Builtins are validated by tests; a failure here is a
			// programming error.
			panic(err)
		}
	}
	return r
}
