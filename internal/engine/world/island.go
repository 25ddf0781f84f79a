// Package world ties layout, biomes, terrain, and decorations together
// and runs the distance-keyed streaming loop around the observer.
package world

import (
	"github.com/islandforge/archipelago/internal/engine/biome"
	"github.com/islandforge/archipelago/internal/engine/decor"
	"github.com/islandforge/archipelago/internal/engine/scene"
	"github.com/islandforge/archipelago/internal/engine/terrain"
)

// Placement is one fixed world slot. Placements persist for the life
// of the world; only their materialization comes and goes.
type Placement struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Z              float64 `json:"z"`
	LocalSeed      int64   `json:"local_seed"`
	DistFromCenter float64 `json:"dist_from_center"`
}

// Island wraps a placement with its assigned template and runtime
// materialization state. It is the unit the streaming loop loads and
// unloads.
type Island struct {
	Placement

	Template *biome.Template
	Params   *biome.Params

	surface       *terrain.Surface
	terrainHandle scene.Handle
	loaded        bool

	decorations []decor.PlacedDecoration
	hasObjects  bool
	// decorEpoch invalidates queued decoration batches from a previous
	// load cycle.
	decorEpoch int

	distToObserver float64
}

// IsLoaded reports whether the island's terrain is materialized.
func (i *Island) IsLoaded() bool { return i.loaded }

// HasObjects reports whether the island's decoration pass has run.
func (i *Island) HasObjects() bool { return i.hasObjects }

// Surface returns the materialized terrain surface, or nil when the
// island is unloaded.
func (i *Island) Surface() *terrain.Surface { return i.surface }

// Decorations returns the island's materialized decorations.
func (i *Island) Decorations() []decor.PlacedDecoration { return i.decorations }

// DistanceToObserver returns the distance recorded at the last LOD pass.
func (i *Island) DistanceToObserver() float64 { return i.distToObserver }
