package biome

import (
	"math"
	"sort"

	"github.com/islandforge/archipelago/internal/engine/decor"
	"github.com/islandforge/archipelago/internal/engine/terrain"
	"github.com/islandforge/archipelago/pkg/random"
)

// Relative jitter applied per decoration type before renormalization.
const distributionJitter = 0.10

// Params is one concrete parameter instance drawn from a template.
type Params struct {
	TemplateID   string  `json:"template_id"`
	TemplateName string  `json:"template_name"`
	Climate      string  `json:"climate"`
	Size         float64 `json:"size"`
	NoiseScale   float64 `json:"noise_scale"`
	NoiseHeight  float64 `json:"noise_height"`
	FalloffCurve float64 `json:"falloff_curve"`

	CullingEnabled bool    `json:"culling"`
	WaterLevel     float64 `json:"water_level"`

	DecorationDensity float64            `json:"decoration_density"`
	Decorations       decor.Distribution `json:"decorations"`

	ShoreColor terrain.Color `json:"shore_color"`
	LandColor  terrain.Color `json:"land_color"`
}

// TerrainSpec converts the params into a buildable surface spec.
func (p *Params) TerrainSpec() terrain.Spec {
	return terrain.Spec{
		Size:           p.Size,
		NoiseScale:     p.NoiseScale,
		NoiseHeight:    p.NoiseHeight,
		FalloffCurve:   p.FalloffCurve,
		WaterLevel:     p.WaterLevel,
		CullingEnabled: p.CullingEnabled,
		ShoreColor:     p.ShoreColor,
		LandColor:      p.LandColor,
	}
}

// GenerateParameters draws a concrete parameter set from the template.
// Ranged parameters are drawn independently; fixed flags are copied
// verbatim; the decoration distribution gets an independent ±10%
// relative jitter per type and is then renormalized to sum to exactly
// 100 integer percent.
func GenerateParameters(t *Template, rng random.Source) *Params {
	return &Params{
		TemplateID:        t.ID,
		TemplateName:      t.Name,
		Climate:           t.Climate,
		Size:              rng.NextFloat(t.Size.Min, t.Size.Max),
		NoiseScale:        rng.NextFloat(t.NoiseScale.Min, t.NoiseScale.Max),
		NoiseHeight:       rng.NextFloat(t.NoiseHeight.Min, t.NoiseHeight.Max),
		FalloffCurve:      rng.NextFloat(t.FalloffCurve.Min, t.FalloffCurve.Max),
		CullingEnabled:    t.CullingEnabled,
		WaterLevel:        t.WaterLevel,
		DecorationDensity: rng.NextFloat(t.DecorationDensity.Min, t.DecorationDensity.Max),
		Decorations:       jitterDistribution(t.Decorations, rng),
		ShoreColor:        t.ShoreColor,
		LandColor:         t.LandColor,
	}
}

// jitterDistribution applies per-type relative jitter and renormalizes
// to exactly 100 using the largest-remainder method, so callers can
// always treat the result as a complete probability partition.
func jitterDistribution(base decor.Distribution, rng random.Source) decor.Distribution {
	if len(base) == 0 {
		return nil
	}

	weights := make([]float64, len(base))
	sum := 0.0
	for i, s := range base {
		weights[i] = float64(s.Percent) * rng.NextFloat(1-distributionJitter, 1+distributionJitter)
		sum += weights[i]
	}
	if sum <= 0 {
		// Degenerate all-zero base: give everything to the first type.
		out := make(decor.Distribution, len(base))
		copy(out, base)
		out[0].Percent = 100
		for i := 1; i < len(out); i++ {
			out[i].Percent = 0
		}
		return out
	}

	out := make(decor.Distribution, len(base))
	fracs := make([]float64, len(base))
	assigned := 0
	for i, s := range base {
		exact := weights[i] / sum * 100
		floor := math.Floor(exact)
		out[i] = decor.TypeShare{Type: s.Type, Percent: int(floor)}
		fracs[i] = exact - floor
		assigned += int(floor)
	}

	// Hand the remainder to the largest fractional parts, earlier
	// registration order breaking ties.
	idx := make([]int, len(base))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return fracs[idx[a]] > fracs[idx[b]] })
	for i := 0; assigned < 100; i++ {
		out[idx[i%len(idx)]].Percent++
		assigned++
	}
	return out
}
