package decor

import (
	"log/slog"
	"math"

	"github.com/islandforge/archipelago/internal/engine/scene"
	"github.com/islandforge/archipelago/internal/engine/terrain"
	"github.com/islandforge/archipelago/pkg/random"
)

const (
	// The placement grid overlaid on a surface is gridSize x gridSize.
	gridSize = 16

	// Cell centers are jittered by up to this fraction of the cell size
	// before the final surface probe.
	maxJitter = 0.6

	// A cell is viable when the probed height sits strictly inside
	// (water level + clearance, fraction of the noise height).
	viableClearance   = 1.0
	viableMaxFraction = 0.85
)

// PersistentStore is an optional warm-start tier behind the in-memory
// cache, surviving process restarts.
type PersistentStore interface {
	Load(key Key) ([]Placement, bool)
	Save(key Key, placements []Placement) error
}

// PlacedDecoration pairs a materialized placement with its scene handle.
type PlacedDecoration struct {
	Placement Placement
	Handle    scene.Handle
}

// Engine turns terrain surfaces and density/distribution specs into
// cached, materialized decoration placements.
type Engine struct {
	graph   *scene.Graph
	factory Factory
	cache   *Cache
	store   PersistentStore // may be nil
	log     *slog.Logger
}

// NewEngine creates a placement engine. store may be nil to run with
// the in-memory cache only.
func NewEngine(graph *scene.Graph, factory Factory, cache *Cache, store PersistentStore, log *slog.Logger) *Engine {
	return &Engine{graph: graph, factory: factory, cache: cache, store: store, log: log}
}

// Cache exposes the in-memory cache tier.
func (e *Engine) Cache() *Cache { return e.cache }

// Request describes one island's decoration configuration.
type Request struct {
	IslandID     string
	LocalSeed    int64
	Density      float64
	Distribution Distribution
	Size         float64
}

// Plan computes the pure-data placement list for a request, consulting
// the cache tiers first. hit reports whether any cache tier answered.
//
// Zero viable cells or zero target count are valid outcomes and yield
// an empty (non-nil) list.
func (e *Engine) Plan(surf *terrain.Surface, req Request) (placements []Placement, hit bool) {
	key := NewKey(req.IslandID, req.LocalSeed, req.Density, req.Distribution, req.Size)

	if cached, ok := e.cache.Get(key); ok {
		return cached, true
	}
	if e.store != nil {
		if cached, ok := e.store.Load(key); ok {
			e.cache.Put(key, cached)
			return cached, true
		}
	}

	placements = e.compute(surf, req)
	e.cache.Put(key, placements)
	if e.store != nil {
		if err := e.store.Save(key, placements); err != nil {
			e.log.Warn("persist placements", "island", req.IslandID, "error", err)
		}
	}
	return placements, false
}

// compute runs grid analysis, cell selection, type distribution, and
// placement resolution for one island.
func (e *Engine) compute(surf *terrain.Surface, req Request) []Placement {
	rng := random.New(req.LocalSeed)
	spec := surf.Spec()
	minX, minZ, maxX, maxZ := surf.Bounds()
	cellW := (maxX - minX) / gridSize
	cellD := (maxZ - minZ) / gridSize

	minH := spec.WaterLevel + viableClearance
	maxH := spec.NoiseHeight * viableMaxFraction

	// Grid analysis: probe each cell center for viability.
	type cell struct{ cx, cz int }
	var viable []cell
	for cz := 0; cz < gridSize; cz++ {
		for cx := 0; cx < gridSize; cx++ {
			x := minX + (float64(cx)+0.5)*cellW
			z := minZ + (float64(cz)+0.5)*cellD
			h, ok := surf.HeightAt(x, z)
			if ok && h > minH && h < maxH {
				viable = append(viable, cell{cx, cz})
			}
		}
	}

	target := int(math.Round(float64(len(viable)) * req.Density))
	placements := make([]Placement, 0, target)
	if target == 0 {
		return placements
	}

	rng.Shuffle(len(viable), func(i, j int) { viable[i], viable[j] = viable[j], viable[i] })
	selected := viable[:target]

	skipped := 0
	for _, c := range selected {
		typ := req.Distribution.Pick(rng.NextFloat(0, 100))

		// Jitter inside the cell, then re-probe for the final height.
		x := minX + (float64(c.cx)+0.5)*cellW + rng.NextFloat(-maxJitter, maxJitter)*cellW
		z := minZ + (float64(c.cz)+0.5)*cellD + rng.NextFloat(-maxJitter, maxJitter)*cellD
		yaw := rng.NextFloat(0, 2*math.Pi)

		h, ok := surf.HeightAt(x, z)
		if !ok {
			skipped++
			e.log.Warn("placement probe missed surface", "island", req.IslandID, "x", x, "z", z)
			continue
		}
		placements = append(placements, Placement{
			Type: typ, X: x, Y: h, Z: z, Yaw: yaw, CellX: c.cx, CellZ: c.cz,
		})
	}
	if skipped > 0 {
		e.log.Info("placement pass finished with skips",
			"island", req.IslandID, "placed", len(placements), "skipped", skipped)
	}
	return placements
}

// Materialize invokes the factory for each placement and inserts the
// results into the scene graph. Failed creations are logged and
// skipped; the batch always continues.
func (e *Engine) Materialize(placements []Placement) []PlacedDecoration {
	out := make([]PlacedDecoration, 0, len(placements))
	for _, p := range placements {
		d, err := e.factory.Create(p.Type, p.X, p.Y, p.Z, p.Yaw)
		if err != nil {
			e.log.Warn("decoration factory failed", "type", p.Type, "error", err)
			continue
		}
		d.Generated = true
		d.CellX, d.CellZ = p.CellX, p.CellZ
		out = append(out, PlacedDecoration{Placement: p, Handle: e.graph.Add(d)})
	}
	return out
}

// Generate is the batch path: Plan then Materialize.
func (e *Engine) Generate(surf *terrain.Surface, req Request) []PlacedDecoration {
	placements, hit := e.Plan(surf, req)
	if hit {
		e.log.Debug("placement cache hit", "island", req.IslandID, "count", len(placements))
	}
	return e.Materialize(placements)
}

// RemoveGenerated removes each decoration in list from the scene graph
// and returns the number actually removed. Safe to call with stale
// handles.
func (e *Engine) RemoveGenerated(list []PlacedDecoration) int {
	removed := 0
	for _, pd := range list {
		if _, ok := e.graph.Remove(pd.Handle); ok {
			removed++
		}
	}
	return removed
}

// RemoveAllGenerated sweeps the whole scene graph for tagged
// decorations. Recovery path for when per-island bookkeeping is lost.
func (e *Engine) RemoveAllGenerated() int {
	var stale []scene.Handle
	e.graph.ForEach(func(h scene.Handle, obj scene.Object) {
		if d, ok := obj.(*Decoration); ok && d.Generated {
			stale = append(stale, h)
		}
	})
	for _, h := range stale {
		e.graph.Remove(h)
	}
	return len(stale)
}
