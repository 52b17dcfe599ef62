package pcb

import (
	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

// Zone represents a filled copper zone.
type Zone struct {
	Net          *Net             // Connected net
	Layer        string           // Layer name
	LayerMask    tracks.LayerSet  // Resolved layer set
	Name         string           // Optional zone name
	Outline      []tracks.Point   // Zone outline polygon
	Fills        [][]tracks.Point // Filled polygon segments
	MinThickness int64            // Minimum fill thickness
}

// NetCode returns the zone's net number, 0 when unconnected.
func (z *Zone) NetCode() int {
	if z.Net == nil {
		return 0
	}
	return z.Net.Number
}

// HitTestFilledArea reports whether the zone's poured copper covers the
// point. Zones without stored fills fall back to the outline, which is
// what an unfilled board file gives us to work with.
func (z *Zone) HitTestFilledArea(pos tracks.Point) bool {
	if len(z.Fills) == 0 {
		return pointInPolygon(pos, z.Outline)
	}
	for _, poly := range z.Fills {
		if pointInPolygon(pos, poly) {
			return true
		}
	}
	return false
}

// pointInPolygon is the even-odd crossing test. Points exactly on an
// edge may land either way; zone boundaries are not exact geometry here.
func pointInPolygon(p tracks.Point, poly []tracks.Point) bool {
	if len(poly) < 3 {
		return false
	}
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			x := float64(b.X-a.X)*float64(p.Y-a.Y)/float64(b.Y-a.Y) + float64(a.X)
			if float64(p.X) < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Zones is the board's zone collection. It satisfies the zone lookup
// interface the dangling-track pass queries.
type Zones []*Zone

// HitTestFilledArea reports whether any zone of the given net covers the
// point on one of the given layers.
func (zs Zones) HitTestFilledArea(pos tracks.Point, layers tracks.LayerSet, netCode int) bool {
	for _, z := range zs {
		if z.NetCode() != netCode || !z.LayerMask.Overlaps(layers) {
			continue
		}
		if z.HitTestFilledArea(pos) {
			return true
		}
	}
	return false
}
