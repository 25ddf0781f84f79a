// Package decor converts built terrain surfaces into concrete, cached
// decoration placements and materializes them into the scene graph.
package decor

import "math"

// TypeShare is one decoration type's slice of the distribution, as an
// integer percentage.
type TypeShare struct {
	Type    string `json:"type" yaml:"type"`
	Percent int    `json:"percent" yaml:"percent"`
}

// Distribution is an ordered list of type shares. Order matters: type
// selection walks cumulative percentages in this order, so ties resolve
// to the earlier entry.
type Distribution []TypeShare

// Total returns the sum of all shares.
func (d Distribution) Total() int {
	sum := 0
	for _, s := range d {
		sum += s.Percent
	}
	return sum
}

// Pick selects the type for a uniform draw in [0, 100): the first type
// whose cumulative share reaches the draw.
func (d Distribution) Pick(draw float64) string {
	cum := 0
	for _, s := range d {
		cum += s.Percent
		if float64(cum) >= draw {
			return s.Type
		}
	}
	if len(d) == 0 {
		return ""
	}
	return d[len(d)-1].Type
}

// Placement is the pure-data record of one decoration: everything
// needed to rebuild the renderable, and nothing renderer-owned.
type Placement struct {
	Type  string  `json:"type"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Yaw   float64 `json:"yaw"`
	CellX int     `json:"cell_x"`
	CellZ int     `json:"cell_z"`
}

// Decoration is a materialized decoration instance living in the scene
// graph.
type Decoration struct {
	Type         string
	X, Y, Z      float64
	Yaw          float64
	CellX, CellZ int
	// Generated marks engine-owned decorations so a scene-wide sweep
	// can find them when per-island bookkeeping is lost.
	Generated bool
}

// WorldPosition implements scene.Object.
func (d *Decoration) WorldPosition() (x, y, z float64) {
	return d.X, d.Y, d.Z
}

// Yaw values stay in [0, 2π).
func normalizeYaw(yaw float64) float64 {
	yaw = math.Mod(yaw, 2*math.Pi)
	if yaw < 0 {
		yaw += 2 * math.Pi
	}
	return yaw
}

// Factory produces decoration instances. Implementations may build
// renderables asynchronously; the returned Decoration is inserted into
// the scene immediately and becomes visible when the factory completes
// it. A per-call error skips that single placement only.
type Factory interface {
	Create(typeID string, x, y, z, yaw float64) (*Decoration, error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(typeID string, x, y, z, yaw float64) (*Decoration, error)

// Create implements Factory.
func (f FactoryFunc) Create(typeID string, x, y, z, yaw float64) (*Decoration, error) {
	return f(typeID, x, y, z, yaw)
}

// SimpleFactory returns a Factory that materializes plain Decoration
// records with no renderer attached.
func SimpleFactory() Factory {
	return FactoryFunc(func(typeID string, x, y, z, yaw float64) (*Decoration, error) {
		return &Decoration{Type: typeID, X: x, Y: y, Z: z, Yaw: normalizeYaw(yaw)}, nil
	})
}
