package world

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// Metadata is the derived read model of the generated world,
// recomputed after every structural change.
type Metadata struct {
	TotalIslands    int            `json:"total_islands"`
	TargetIslands   int            `json:"target_islands"`
	AchievedDensity float64        `json:"achieved_density"`
	BiomeCounts     map[string]int `json:"biome_counts"`
	Templates       []string       `json:"templates"`
	DecorationTotal int            `json:"decoration_total"`
	LoadedCount     int            `json:"loaded_count"`
	DecoratedCount  int            `json:"decorated_count"`
}

// refreshMetadata recomputes the metadata from the current island set.
func (o *Orchestrator) refreshMetadata() {
	m := Metadata{
		TotalIslands:  len(o.islands),
		TargetIslands: o.targetIslands,
		BiomeCounts:   make(map[string]int),
		Templates:     o.registry.IDs(),
	}
	if o.targetIslands > 0 {
		m.AchievedDensity = float64(len(o.islands)) / float64(o.targetIslands)
	}
	for _, isl := range o.islands {
		if isl.Template != nil {
			m.BiomeCounts[isl.Template.ID]++
		}
		m.DecorationTotal += len(isl.decorations)
		if isl.loaded {
			m.LoadedCount++
		}
		if isl.hasObjects {
			m.DecoratedCount++
		}
	}
	o.meta = m
}

// Digest returns a deterministic fingerprint of the generated layout:
// placements, template assignments, and resolved parameters. Two runs
// from the same configuration produce the same digest.
func (o *Orchestrator) Digest() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	writeF := func(v float64) {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}

	for _, isl := range o.islands {
		h.Write([]byte(isl.ID))
		writeF(isl.X)
		writeF(isl.Z)
		binary.BigEndian.PutUint64(buf[:], uint64(isl.LocalSeed))
		h.Write(buf[:])
		if isl.Params != nil {
			h.Write([]byte(isl.Params.TemplateID))
			writeF(isl.Params.Size)
			writeF(isl.Params.NoiseScale)
			writeF(isl.Params.NoiseHeight)
			writeF(isl.Params.FalloffCurve)
			writeF(isl.Params.DecorationDensity)
			for _, s := range isl.Params.Decorations {
				h.Write([]byte(s.Type))
				binary.BigEndian.PutUint64(buf[:], uint64(s.Percent))
				h.Write(buf[:])
			}
		}
	}
	return h.Sum64()
}
