// Package sampler implements Poisson-disk sampling over a rectangular
// domain: randomly distributed points with a guaranteed minimum pairwise
// distance, using Bridson's acceleration-grid algorithm.
package sampler

import (
	"math"

	"github.com/islandforge/archipelago/pkg/random"
)

// Point is a 2D coordinate in sampler-local space, with the origin at
// the domain's corner.
type Point struct {
	X, Y float64
}

// Options configures a sampling run.
type Options struct {
	Width       float64
	Height      float64
	MinDistance float64
	// MaxAttempts is the candidate budget per active point before the
	// point is retired. Defaults to 30 when zero.
	MaxAttempts int
}

// Generate produces points such that no two are closer than
// opts.MinDistance. The injected source makes output reproducible.
//
// A domain too small relative to MinDistance simply yields few points;
// that is a valid outcome, not an error.
func Generate(opts Options, rng random.Source) []Point {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 30
	}
	d := opts.MinDistance

	// Grid cells of d/sqrt(2) hold at most one point each, so the
	// distance check only needs a 5x5 neighborhood.
	cellSize := d / math.Sqrt2
	cols := int(math.Ceil(opts.Width / cellSize))
	rows := int(math.Ceil(opts.Height / cellSize))
	if cols < 1 || rows < 1 {
		return nil
	}
	grid := make([]int, cols*rows) // index into points, -1 = empty
	for i := range grid {
		grid[i] = -1
	}

	var points []Point
	var active []int

	place := func(p Point) {
		idx := len(points)
		points = append(points, p)
		active = append(active, idx)
		cx := int(p.X / cellSize)
		cy := int(p.Y / cellSize)
		grid[cy*cols+cx] = idx
	}

	fits := func(p Point) bool {
		if p.X < 0 || p.X >= opts.Width || p.Y < 0 || p.Y >= opts.Height {
			return false
		}
		cx := int(p.X / cellSize)
		cy := int(p.Y / cellSize)
		for gy := cy - 2; gy <= cy+2; gy++ {
			if gy < 0 || gy >= rows {
				continue
			}
			for gx := cx - 2; gx <= cx+2; gx++ {
				if gx < 0 || gx >= cols {
					continue
				}
				idx := grid[gy*cols+gx]
				if idx < 0 {
					continue
				}
				q := points[idx]
				if math.Hypot(p.X-q.X, p.Y-q.Y) < d {
					return false
				}
			}
		}
		return true
	}

	place(Point{
		X: rng.NextFloat(0, opts.Width),
		Y: rng.NextFloat(0, opts.Height),
	})

	for len(active) > 0 {
		slot := rng.NextInt(0, len(active)-1)
		base := points[active[slot]]

		placed := false
		for attempt := 0; attempt < opts.MaxAttempts; attempt++ {
			// Candidate in the annulus [d, 2d) around the base point.
			r := rng.NextFloat(d, 2*d)
			theta := rng.NextFloat(0, 2*math.Pi)
			cand := Point{
				X: base.X + r*math.Cos(theta),
				Y: base.Y + r*math.Sin(theta),
			}
			if fits(cand) {
				place(cand)
				placed = true
				break
			}
		}
		if !placed {
			// Retire the exhausted point so the loop terminates.
			active[slot] = active[len(active)-1]
			active = active[:len(active)-1]
		}
	}

	return points
}
