package biome

import (
	"testing"

	"github.com/islandforge/archipelago/pkg/random"
)

func TestGenerateParametersWithinRanges(t *testing.T) {
	tpl := minimalTemplate("t", 10)
	rng := random.New(42)

	for i := 0; i < 200; i++ {
		p := GenerateParameters(tpl, rng)
		checks := []struct {
			name string
			val  float64
			r    Range
		}{
			{"size", p.Size, tpl.Size},
			{"noise_scale", p.NoiseScale, tpl.NoiseScale},
			{"noise_height", p.NoiseHeight, tpl.NoiseHeight},
			{"falloff_curve", p.FalloffCurve, tpl.FalloffCurve},
			{"decoration_density", p.DecorationDensity, tpl.DecorationDensity},
		}
		for _, c := range checks {
			if c.val < c.r.Min || c.val >= c.r.Max {
				t.Fatalf("iteration %d: %s = %v outside [%v,%v)", i, c.name, c.val, c.r.Min, c.r.Max)
			}
		}
	}
}

func TestGenerateParametersCopiesFlags(t *testing.T) {
	tpl := minimalTemplate("t", 10)
	tpl.CullingEnabled = true
	tpl.WaterLevel = 0.75

	p := GenerateParameters(tpl, random.New(1))
	if !p.CullingEnabled {
		t.Error("culling flag not copied")
	}
	if p.WaterLevel != 0.75 {
		t.Errorf("water level = %v, want 0.75", p.WaterLevel)
	}
	if p.TemplateID != "t" || p.TemplateName != tpl.Name {
		t.Error("template identity not recorded")
	}
}

func TestDistributionSumsToExactlyHundred(t *testing.T) {
	// Every builtin template, many seeds: the jittered distribution
	// must always renormalize to exactly 100.
	reg := NewDefaultRegistry()
	for _, id := range reg.IDs() {
		tpl, _ := reg.Get(id)
		for seed := int64(0); seed < 100; seed++ {
			p := GenerateParameters(tpl, random.New(seed))
			if got := p.Decorations.Total(); got != 100 {
				t.Fatalf("template %q seed %d: distribution sums to %d", id, seed, got)
			}
			if len(p.Decorations) != len(tpl.Decorations) {
				t.Fatalf("template %q: type count changed from %d to %d",
					id, len(tpl.Decorations), len(p.Decorations))
			}
			for i, s := range p.Decorations {
				if s.Type != tpl.Decorations[i].Type {
					t.Fatalf("template %q: type order changed at %d", id, i)
				}
				if s.Percent < 0 {
					t.Fatalf("template %q: negative share %d", id, s.Percent)
				}
			}
		}
	}
}

func TestGenerateParametersDeterministic(t *testing.T) {
	tpl := minimalTemplate("t", 10)
	a := GenerateParameters(tpl, random.New(99))
	b := GenerateParameters(tpl, random.New(99))

	if a.Size != b.Size || a.NoiseScale != b.NoiseScale ||
		a.NoiseHeight != b.NoiseHeight || a.FalloffCurve != b.FalloffCurve ||
		a.DecorationDensity != b.DecorationDensity {
		t.Error("numeric parameters not reproducible")
	}
	for i := range a.Decorations {
		if a.Decorations[i] != b.Decorations[i] {
			t.Errorf("distribution entry %d differs", i)
		}
	}
}
