// Package terrain builds height-mapped island surfaces from a seeded
// noise field and answers downward probes against them.
package terrain

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	// Heights are forced toward this floor beyond the island's radius
	// so every island sits in open water.
	underwaterFloor = -14.0

	// The falloff transition band ends at 1.3x the effective radius.
	falloffBandEnd = 1.3

	defaultResolution = 48

	// Vertices above this fraction of the noise height get a darkened
	// land color (rock above the tree line).
	darkenThreshold = 0.7
	darkenFactor    = 0.8
)

// Color is an RGB triple with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Darken returns the color scaled by f.
func (c Color) Darken(f float64) Color {
	return Color{R: c.R * f, G: c.G * f, B: c.B * f}
}

// Spec describes the geometry and parameters of one island surface.
type Spec struct {
	Size           float64 // island diameter in world units
	Resolution     int     // vertices per side; 0 = default
	NoiseScale     float64 // world units per noise unit
	NoiseHeight    float64 // maximum terrain height
	FalloffCurve   float64 // exponent of the radial falloff
	WaterLevel     float64
	CullingEnabled bool
	ShoreColor     Color
	LandColor      Color
}

// Surface is a built height-mapped island surface. Heights and colors
// are per-vertex on a square grid centered on the island position.
type Surface struct {
	centerX, centerZ float64
	size             float64
	res              int
	cell             float64
	spec             Spec
	heights          []float64
	colors           []Color
}

// Build constructs a surface at the given world position. Identical
// inputs produce an identical surface: the noise field is fully
// determined by noiseSeed.
func Build(centerX, centerZ float64, noiseSeed int64, spec Spec) *Surface {
	res := spec.Resolution
	if res <= 0 {
		res = defaultResolution
	}

	// Base and detail octaves, mirroring a coarse/fine noise split.
	base := perlin.NewPerlin(2, 2, 3, noiseSeed)
	detail := perlin.NewPerlin(2, 2, 3, noiseSeed+1)

	// The grid extends to the end of the falloff band so the probe can
	// see the underwater skirt.
	extent := spec.Size * falloffBandEnd
	s := &Surface{
		centerX: centerX,
		centerZ: centerZ,
		size:    extent,
		res:     res,
		cell:    extent / float64(res-1),
		spec:    spec,
		heights: make([]float64, res*res),
		colors:  make([]Color, res*res),
	}

	radius := spec.Size / 2
	for j := 0; j < res; j++ {
		for i := 0; i < res; i++ {
			wx := centerX - extent/2 + float64(i)*s.cell
			wz := centerZ - extent/2 + float64(j)*s.cell

			n := base.Noise2D(wx/spec.NoiseScale, wz/spec.NoiseScale)*0.75 +
				detail.Noise2D(wx/(spec.NoiseScale/4), wz/(spec.NoiseScale/4))*0.25
			h := (n + 1) / 2 * spec.NoiseHeight

			d := math.Hypot(wx-centerX, wz-centerZ) / radius
			switch {
			case d <= 1:
				h *= math.Pow(math.Max(0, 1-d), spec.FalloffCurve)
			case d < falloffBandEnd:
				// Smooth transition down to the underwater floor.
				t := (d - 1) / (falloffBandEnd - 1)
				t = t * t * (3 - 2*t)
				h = underwaterFloor * t
			default:
				h = underwaterFloor
			}

			idx := j*res + i
			s.heights[idx] = h
			s.colors[idx] = vertexColor(h, spec)
		}
	}
	return s
}

// vertexColor picks the shore/land tone for a vertex height, darkening
// high ground.
func vertexColor(h float64, spec Spec) Color {
	shoreline := spec.WaterLevel + 0.12*spec.NoiseHeight
	c := spec.LandColor
	if h <= shoreline {
		c = spec.ShoreColor
	}
	if h >= darkenThreshold*spec.NoiseHeight {
		c = c.Darken(darkenFactor)
	}
	return c
}

// HeightAt casts a downward ray at world (x, z) and returns the surface
// height there. ok is false when (x, z) lies outside the surface bounds.
func (s *Surface) HeightAt(x, z float64) (height float64, ok bool) {
	lx := x - (s.centerX - s.size/2)
	lz := z - (s.centerZ - s.size/2)
	if lx < 0 || lz < 0 || lx > s.size || lz > s.size {
		return 0, false
	}

	// Bilinear interpolation over the vertex grid.
	fi := lx / s.cell
	fj := lz / s.cell
	i := int(fi)
	j := int(fj)
	if i >= s.res-1 {
		i = s.res - 2
	}
	if j >= s.res-1 {
		j = s.res - 2
	}
	tx := fi - float64(i)
	tz := fj - float64(j)

	h00 := s.heights[j*s.res+i]
	h10 := s.heights[j*s.res+i+1]
	h01 := s.heights[(j+1)*s.res+i]
	h11 := s.heights[(j+1)*s.res+i+1]

	top := h00*(1-tx) + h10*tx
	bottom := h01*(1-tx) + h11*tx
	return top*(1-tz) + bottom*tz, true
}

// Bounds returns the world-space extent of the surface.
func (s *Surface) Bounds() (minX, minZ, maxX, maxZ float64) {
	half := s.size / 2
	return s.centerX - half, s.centerZ - half, s.centerX + half, s.centerZ + half
}

// Resolution returns the number of vertices per side.
func (s *Surface) Resolution() int { return s.res }

// Height returns the height of vertex (i, j).
func (s *Surface) Height(i, j int) float64 { return s.heights[j*s.res+i] }

// SetHeight overwrites the height of vertex (i, j).
func (s *Surface) SetHeight(i, j int, h float64) { s.heights[j*s.res+i] = h }

// ColorAt returns the color of vertex (i, j).
func (s *Surface) ColorAt(i, j int) Color { return s.colors[j*s.res+i] }

// Spec returns the parameters the surface was built with.
func (s *Surface) Spec() Spec { return s.spec }

// WorldPosition returns the surface's world-space anchor.
func (s *Surface) WorldPosition() (x, y, z float64) {
	return s.centerX, 0, s.centerZ
}
