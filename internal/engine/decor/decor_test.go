package decor

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/islandforge/archipelago/internal/engine/scene"
	"github.com/islandforge/archipelago/internal/engine/terrain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSurface() *terrain.Surface {
	return terrain.Build(0, 0, 42, terrain.Spec{
		Size:         400,
		NoiseScale:   120,
		NoiseHeight:  30,
		FalloffCurve: 1.5,
		WaterLevel:   0.5,
		ShoreColor:   terrain.Color{R: 0.9, G: 0.85, B: 0.6},
		LandColor:    terrain.Color{R: 0.2, G: 0.6, B: 0.25},
	})
}

func testRequest() Request {
	return Request{
		IslandID:  "island_1_0",
		LocalSeed: 777,
		Density:   0.4,
		Distribution: Distribution{
			{Type: "palm", Percent: 50},
			{Type: "rock", Percent: 30},
			{Type: "bush", Percent: 20},
		},
		Size: 400,
	}
}

func newTestEngine() *Engine {
	return NewEngine(scene.NewGraph(), SimpleFactory(), NewCache(8), nil, discardLogger())
}

func TestDistributionPick(t *testing.T) {
	d := Distribution{
		{Type: "palm", Percent: 50},
		{Type: "rock", Percent: 30},
		{Type: "bush", Percent: 20},
	}

	tests := []struct {
		draw float64
		want string
	}{
		{0, "palm"},
		{49.9, "palm"},
		{50, "palm"}, // tie resolves to the earlier entry
		{50.1, "rock"},
		{80, "rock"},
		{80.1, "bush"},
		{99.9, "bush"},
	}
	for _, tt := range tests {
		if got := d.Pick(tt.draw); got != tt.want {
			t.Errorf("Pick(%v) = %q, want %q", tt.draw, got, tt.want)
		}
	}
}

func TestKeyDistinguishesConfigs(t *testing.T) {
	dist := Distribution{{Type: "palm", Percent: 100}}

	base := NewKey("a", 1, 0.5, dist, 400)
	variants := []Key{
		NewKey("a", 1, 0.6, dist, 400),
		NewKey("a", 1, 0.5, dist, 500),
		NewKey("a", 1, 0.5, Distribution{{Type: "rock", Percent: 100}}, 400),
		NewKey("a", 1, 0.5, Distribution{{Type: "palm", Percent: 99}, {Type: "rock", Percent: 1}}, 400),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collides with base key", i)
		}
	}

	if again := NewKey("a", 1, 0.5, dist, 400); again != base {
		t.Error("identical inputs produced different keys")
	}
}

func TestCacheFIFOEviction(t *testing.T) {
	c := NewCache(3)
	keys := make([]Key, 5)
	for i := range keys {
		keys[i] = NewKey("isl", int64(i), 0.5, nil, 100)
		c.Put(keys[i], []Placement{{Type: "palm"}})
	}

	if c.Len() != 3 {
		t.Fatalf("Len() = %d, want capacity 3", c.Len())
	}
	for _, old := range keys[:2] {
		if _, ok := c.Get(old); ok {
			t.Errorf("oldest key %v survived eviction", old)
		}
	}
	for _, recent := range keys[2:] {
		if _, ok := c.Get(recent); !ok {
			t.Errorf("recent key %v was evicted", recent)
		}
	}
}

func TestCacheReinsertDoesNotEvict(t *testing.T) {
	c := NewCache(2)
	k1 := NewKey("a", 1, 0.5, nil, 100)
	k2 := NewKey("b", 2, 0.5, nil, 100)
	c.Put(k1, nil)
	c.Put(k2, nil)
	c.Put(k1, []Placement{{Type: "rock"}})

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if got, ok := c.Get(k1); !ok || len(got) != 1 {
		t.Error("re-insert did not refresh value")
	}
	if _, ok := c.Get(k2); !ok {
		t.Error("re-insert evicted an unrelated entry")
	}
}

func TestPlanDeterministic(t *testing.T) {
	surf := testSurface()
	req := testRequest()

	a, hitA := newTestEngine().Plan(surf, req)
	b, hitB := newTestEngine().Plan(surf, req)

	if hitA || hitB {
		t.Fatal("fresh engines should not report cache hits")
	}
	if len(a) == 0 {
		t.Fatal("expected placements on a viable island")
	}
	if len(a) != len(b) {
		t.Fatalf("placement counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placement %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPlanCacheHitReproducesList(t *testing.T) {
	e := newTestEngine()
	surf := testSurface()
	req := testRequest()

	miss, hit := e.Plan(surf, req)
	if hit {
		t.Fatal("first Plan should miss")
	}
	cached, hit := e.Plan(surf, req)
	if !hit {
		t.Fatal("second Plan should hit")
	}
	if len(miss) != len(cached) {
		t.Fatalf("hit list length %d, miss list length %d", len(cached), len(miss))
	}
	for i := range miss {
		if miss[i] != cached[i] {
			t.Fatalf("placement %d differs after cache hit", i)
		}
	}
}

func TestZeroDensityYieldsEmptyList(t *testing.T) {
	e := newTestEngine()
	req := testRequest()
	req.Density = 0

	placements, _ := e.Plan(testSurface(), req)
	if placements == nil {
		t.Fatal("empty result should be a non-nil list")
	}
	if len(placements) != 0 {
		t.Errorf("density 0 produced %d placements", len(placements))
	}
}

func TestPlacementsOnViableGround(t *testing.T) {
	e := newTestEngine()
	surf := testSurface()
	placements, _ := e.Plan(surf, testRequest())

	spec := surf.Spec()
	for _, p := range placements {
		h, ok := surf.HeightAt(p.X, p.Z)
		if !ok {
			t.Fatalf("placement at (%v,%v) is off the surface", p.X, p.Z)
		}
		if p.Y != h {
			t.Errorf("placement height %v does not match probe %v", p.Y, h)
		}
		if p.Y <= spec.WaterLevel {
			t.Errorf("placement at height %v is underwater", p.Y)
		}
	}
}

func TestMaterializeSkipsFactoryFailures(t *testing.T) {
	graph := scene.NewGraph()
	calls := 0
	factory := FactoryFunc(func(typeID string, x, y, z, yaw float64) (*Decoration, error) {
		calls++
		if calls%2 == 0 {
			return nil, errors.New("out of models")
		}
		return &Decoration{Type: typeID, X: x, Y: y, Z: z, Yaw: yaw}, nil
	})
	e := NewEngine(graph, factory, NewCache(4), nil, discardLogger())

	placements := []Placement{{Type: "palm"}, {Type: "rock"}, {Type: "bush"}, {Type: "palm"}}
	placed := e.Materialize(placements)

	if len(placed) != 2 {
		t.Fatalf("materialized %d, want 2 (every other call fails)", len(placed))
	}
	if graph.Len() != 2 {
		t.Errorf("scene graph has %d objects, want 2", graph.Len())
	}
}

func TestRemoveGenerated(t *testing.T) {
	e := newTestEngine()
	placed := e.Generate(testSurface(), testRequest())
	if len(placed) == 0 {
		t.Fatal("expected decorations")
	}

	removed := e.RemoveGenerated(placed)
	if removed != len(placed) {
		t.Errorf("removed %d, want %d", removed, len(placed))
	}
	if e.graph.Len() != 0 {
		t.Errorf("scene graph still holds %d objects", e.graph.Len())
	}

	// Removing again must be a no-op, not a double free.
	if again := e.RemoveGenerated(placed); again != 0 {
		t.Errorf("second removal removed %d objects", again)
	}
}

func TestRemoveAllGeneratedSweep(t *testing.T) {
	e := newTestEngine()
	e.Generate(testSurface(), testRequest())
	if e.graph.Len() == 0 {
		t.Fatal("expected decorations")
	}

	// An untagged object must survive the sweep.
	keep := e.graph.Add(&Decoration{Type: "statue"})

	swept := e.RemoveAllGenerated()
	if swept == 0 {
		t.Error("sweep found nothing")
	}
	if !e.graph.Contains(keep) {
		t.Error("sweep removed an untagged object")
	}
	if e.graph.Len() != 1 {
		t.Errorf("scene graph has %d objects after sweep, want 1", e.graph.Len())
	}
}
