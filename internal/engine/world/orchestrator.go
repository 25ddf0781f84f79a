package world

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/islandforge/archipelago/internal/engine/biome"
	"github.com/islandforge/archipelago/internal/engine/config"
	"github.com/islandforge/archipelago/internal/engine/decor"
	"github.com/islandforge/archipelago/internal/engine/scene"
	"github.com/islandforge/archipelago/internal/engine/terrain"
	"github.com/islandforge/archipelago/pkg/random"
	"github.com/islandforge/archipelago/pkg/sampler"
)

// Decoration materialization is chunked so a single island never
// occupies a whole host tick.
const decorBatchSize = 3

// Inner and outer thirds of the normalized center distance get biased
// template selection.
const (
	innerThird = 1.0 / 3.0
	outerThird = 2.0 / 3.0
)

// Orchestrator owns the end-to-end generation pipeline and the
// continuous LOD lifecycle. All of its state is mutated from a single
// control-flow path: the generation pipeline or the streaming tick.
type Orchestrator struct {
	cfg      *config.Config
	log      *slog.Logger
	registry *biome.Registry
	graph    *scene.Graph
	engine   *decor.Engine

	islands       []*Island
	targetIslands int
	meta          Metadata
	queue         workQueue

	generated         bool
	needsRegeneration bool

	obsX, obsY, obsZ     float64
	lastTickX, lastTickZ float64
	lodPending           bool
}

// New creates an orchestrator. The registry, scene graph, and
// placement engine are owned by the caller and injected here; their
// lifecycle is tied to this instance.
func New(cfg *config.Config, registry *biome.Registry, graph *scene.Graph, engine *decor.Engine, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:      cfg,
		log:      log,
		registry: registry,
		graph:    graph,
		engine:   engine,
	}
}

// Config returns a copy of the current configuration.
func (o *Orchestrator) Config() config.Config { return *o.cfg }

// Metadata returns the current derived world metadata.
func (o *Orchestrator) Metadata() Metadata { return o.meta }

// Islands returns the current island set. Callers must not mutate it.
func (o *Orchestrator) Islands() []*Island { return o.islands }

// NeedsRegeneration reports whether a structural config change is
// pending a GenerateWorld call.
func (o *Orchestrator) NeedsRegeneration() bool { return o.needsRegeneration }

// PendingJobs returns the number of queued work items.
func (o *Orchestrator) PendingJobs() int { return o.queue.len() }

// GenerateWorld runs the full pipeline: layout, template assignment,
// terrain and decoration materialization (LOD-gated), and metadata
// refresh. A previously generated world is cleared first.
func (o *Orchestrator) GenerateWorld() error {
	if err := o.cfg.Validate(); err != nil {
		return fmt.Errorf("world config: %w", err)
	}
	if o.generated {
		o.ClearGeneratedWorld()
	}

	o.layout()
	if err := o.assignTemplates(); err != nil {
		o.islands = nil
		return err
	}

	// Materialize within render range; the streaming loop picks up the
	// rest as the observer moves.
	loaded := 0
	for _, isl := range o.islands {
		d := math.Hypot(isl.X-o.obsX, isl.Z-o.obsZ)
		isl.distToObserver = d
		if !o.cfg.LODEnabled || d <= o.cfg.MaxIslandRenderDistance {
			o.loadTerrain(isl)
			loaded++
		}
	}
	if o.cfg.DecorationsEnabled {
		for _, isl := range o.islands {
			if isl.loaded && (!o.cfg.LODEnabled || isl.distToObserver <= o.cfg.MaxObjectRenderDistance) {
				o.enqueueDecorations(isl)
			}
		}
	}
	// Generation is a batch operation: run the queued work to completion.
	o.queue.drain()

	o.generated = true
	o.needsRegeneration = false
	o.lastTickX, o.lastTickZ = o.obsX, o.obsZ
	o.refreshMetadata()

	o.log.Info("world generated",
		"seed", o.cfg.Seed,
		"islands", len(o.islands),
		"target", o.targetIslands,
		"loaded", loaded,
		"decorations", o.meta.DecorationTotal,
	)
	return nil
}

// layout computes the island budget, samples placements, and assigns
// stable ids and independent local seeds.
func (o *Orchestrator) layout() {
	rng := random.New(o.cfg.Seed)

	area := o.cfg.WorldWidth * o.cfg.WorldDepth
	mean := (o.cfg.MinSpacing + o.cfg.MaxSpacing) / 2
	target := int(math.Round(area / (mean * mean) * o.cfg.Density))
	if target < 1 {
		target = 1
	}
	o.targetIslands = target

	points := sampler.Generate(sampler.Options{
		Width:       o.cfg.WorldWidth,
		Height:      o.cfg.WorldDepth,
		MinDistance: o.cfg.MinSpacing,
		MaxAttempts: o.cfg.SamplerMaxAttempts,
	}, rng)
	if len(points) > target {
		points = points[:target]
	}

	o.islands = make([]*Island, len(points))
	for i, p := range points {
		// Sampler space has its origin in a corner; the world is
		// centered on the origin.
		x := p.X - o.cfg.WorldWidth/2
		z := p.Y - o.cfg.WorldDepth/2

		// Local seeds come from the layout stream but seed independent
		// generators, so island interiors are decoupled from layout
		// randomness.
		o.islands[i] = &Island{
			Placement: Placement{
				ID:             fmt.Sprintf("island_%d_%d", o.cfg.Seed, i),
				X:              x,
				Z:              z,
				LocalSeed:      int64(rng.NextInt(1, math.MaxInt32)),
				DistFromCenter: math.Hypot(x, z),
			},
		}
	}
}

// assignTemplates picks a template and synthesizes parameters for
// every placement, biasing by normalized distance from world center.
func (o *Orchestrator) assignTemplates() error {
	maxDist := math.Hypot(o.cfg.WorldWidth/2, o.cfg.WorldDepth/2)
	for _, isl := range o.islands {
		irng := random.New(isl.LocalSeed)
		tpl, err := o.chooseTemplate(isl.DistFromCenter/maxDist, irng)
		if err != nil {
			return fmt.Errorf("assign template for %s: %w", isl.ID, err)
		}
		isl.Template = tpl
		isl.Params = biome.GenerateParameters(tpl, irng)
	}
	return nil
}

// chooseTemplate biases selection by position: the inner third of the
// world favors the central archetypes, the outer third favors the
// peripheral ones and excludes some entirely. The bias is honored with
// the configured probability; otherwise selection falls through to the
// registry-wide weighted draw.
func (o *Orchestrator) chooseTemplate(normDist float64, rng random.Source) (*biome.Template, error) {
	exclude := map[string]bool{}
	var biasList []string
	switch {
	case normDist < innerThird:
		biasList = o.cfg.CentralTemplates
	case normDist > outerThird:
		biasList = o.cfg.PeripheralTemplates
		for _, id := range o.cfg.OuterExcluded {
			exclude[id] = true
		}
	}

	if len(biasList) > 0 && rng.NextBool(o.cfg.BiasProbability) {
		if tpl, err := o.selectFrom(biasList, exclude, rng); err == nil {
			return tpl, nil
		}
		// Bias list unusable (unknown ids, zero weight): fall through.
	}
	return o.registry.SelectRandom(rng, exclude)
}

// selectFrom restricts weighted selection to the given ids.
func (o *Orchestrator) selectFrom(ids []string, exclude map[string]bool, rng random.Source) (*biome.Template, error) {
	allowed := map[string]bool{}
	for _, id := range ids {
		allowed[id] = true
	}
	restricted := map[string]bool{}
	for _, id := range o.registry.IDs() {
		if !allowed[id] || exclude[id] {
			restricted[id] = true
		}
	}
	return o.registry.SelectRandom(rng, restricted)
}

// loadTerrain materializes the island's terrain surface and inserts it
// into the scene graph.
func (o *Orchestrator) loadTerrain(isl *Island) {
	isl.surface = terrain.Build(isl.X, isl.Z, isl.LocalSeed, isl.Params.TerrainSpec())
	isl.terrainHandle = o.graph.Add(isl.surface)
	isl.loaded = true
}

// unloadIsland tears the island all the way down: decorations first,
// then the terrain handle, then flags.
func (o *Orchestrator) unloadIsland(isl *Island) {
	o.teardownDecorations(isl)
	if isl.terrainHandle != 0 {
		o.graph.Remove(isl.terrainHandle)
		isl.terrainHandle = 0
	}
	isl.surface = nil
	isl.loaded = false
}

// teardownDecorations removes the island's decorations from the scene
// and invalidates any queued decoration batches.
func (o *Orchestrator) teardownDecorations(isl *Island) {
	if len(isl.decorations) > 0 {
		o.engine.RemoveGenerated(isl.decorations)
	}
	isl.decorations = nil
	isl.hasObjects = false
	isl.decorEpoch++
}

func (o *Orchestrator) decorRequest(isl *Island) decor.Request {
	return decor.Request{
		IslandID:     isl.ID,
		LocalSeed:    isl.LocalSeed,
		Density:      isl.Params.DecorationDensity,
		Distribution: isl.Params.Decorations,
		Size:         isl.Params.Size,
	}
}

// enqueueDecorations schedules the island's decoration pass: one
// planning item, then materialization in small batches. Items verify
// the island's state and epoch when they run, so teardown between
// enqueue and execution leaves them as no-ops.
func (o *Orchestrator) enqueueDecorations(isl *Island) {
	epoch := isl.decorEpoch
	o.queue.push(func() {
		if epoch != isl.decorEpoch || !isl.loaded || isl.hasObjects || isl.surface == nil {
			return
		}
		placements, _ := o.engine.Plan(isl.surface, o.decorRequest(isl))
		isl.hasObjects = true
		for start := 0; start < len(placements); start += decorBatchSize {
			batch := placements[start:min(start+decorBatchSize, len(placements))]
			o.queue.push(func() {
				if epoch != isl.decorEpoch || !isl.loaded {
					return
				}
				isl.decorations = append(isl.decorations, o.engine.Materialize(batch)...)
			})
		}
	})
}

// UpdatePlayerPosition records the observer's position and schedules
// (but does not run) the next LOD tick once displacement since the
// last tick is significant.
func (o *Orchestrator) UpdatePlayerPosition(x, y, z float64) {
	o.obsX, o.obsY, o.obsZ = x, y, z
	if math.Hypot(x-o.lastTickX, z-o.lastTickZ) >= o.cfg.LODMinMove {
		o.lodPending = true
	}
}

// Tick is the host's cadence hook: it runs a pending LOD pass and
// drains a bounded number of queued work items.
func (o *Orchestrator) Tick() {
	if o.lodPending && o.cfg.LODEnabled && o.generated {
		o.UpdateLOD()
		o.lodPending = false
	}
	if o.queue.runN(o.cfg.JobsPerTick) > 0 {
		o.refreshMetadata()
	}
}

// UpdateLOD evaluates every island against the observer's position:
// terrain materializes inside the island range and unloads outside it;
// decorations materialize inside the object range and tear down
// outside it. Unload always fully precedes any later reload.
func (o *Orchestrator) UpdateLOD() {
	if !o.generated {
		return
	}

	for _, isl := range o.islands {
		d := math.Hypot(isl.X-o.obsX, isl.Z-o.obsZ)
		isl.distToObserver = d

		switch {
		case isl.loaded && d > o.cfg.MaxIslandRenderDistance:
			o.unloadIsland(isl)
		case !isl.loaded && d <= o.cfg.MaxIslandRenderDistance:
			o.loadTerrain(isl)
		}
		if !isl.loaded {
			continue
		}

		inObjectRange := d <= o.cfg.MaxObjectRenderDistance
		switch {
		case isl.hasObjects && !inObjectRange:
			o.teardownDecorations(isl)
		case !isl.hasObjects && inObjectRange && o.cfg.DecorationsEnabled:
			o.enqueueDecorations(isl)
		}
	}
	o.lastTickX, o.lastTickZ = o.obsX, o.obsZ
	o.refreshMetadata()
}

// ClearGeneratedWorld tears down every loaded island and decoration,
// clears the placement cache, and drops the layout. Calling it twice
// is safe; the second call is a no-op.
func (o *Orchestrator) ClearGeneratedWorld() {
	for _, isl := range o.islands {
		o.unloadIsland(isl)
	}
	o.islands = nil
	o.targetIslands = 0
	o.queue.clear()
	o.engine.Cache().Clear()
	o.generated = false
	o.refreshMetadata()
}

// UpdateConfig applies a partial configuration update. Structural
// changes (seed, bounds, density, spacing) clear the generated world
// and report that regeneration is needed; runtime knobs take effect on
// the next streaming tick.
func (o *Orchestrator) UpdateConfig(p config.Patch) (needsRegeneration bool, err error) {
	prev := *o.cfg
	structural := p.Apply(o.cfg)
	if err := o.cfg.Validate(); err != nil {
		*o.cfg = prev
		return o.needsRegeneration, fmt.Errorf("config update: %w", err)
	}

	if structural {
		o.needsRegeneration = true
		o.ClearGeneratedWorld()
	} else {
		o.lodPending = true
	}
	return o.needsRegeneration, nil
}
