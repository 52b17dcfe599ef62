package pcb

import (
	"math"

	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

// Footprint represents a component footprint.
type Footprint struct {
	Library   string       // Library name
	Name      string       // Footprint name
	Layer     string       // Layer (F.Cu or B.Cu typically)
	Position  tracks.Point // Placement on the board
	Angle     float64      // Rotation in degrees
	Reference string       // Reference designator (e.g., "R1")
	Value     string       // Component value
	Pads      []*Pad       // Pads, placed in board coordinates
}

// Pad is a footprint pad in absolute board coordinates. It satisfies the
// hit testing interface the copper engine queries during connectivity
// builds.
type Pad struct {
	Number string // Pad number/name within the footprint
	Type   string // Pad type (thru_hole, smd, np_thru_hole, connect)
	Shape  string // Pad shape (circle, rect, oval, roundrect, ...)

	Center tracks.Point // Absolute position on the board
	SizeX  int64        // Copper size along the pad's own x axis
	SizeY  int64
	Angle  float64 // Absolute rotation in degrees
	Drill  int64   // Drill diameter, 0 for SMD

	Net       *Net // Connected net, nil when unconnected
	LayerMask tracks.LayerSet
}

// NetCode returns the pad's net number, 0 when unconnected.
func (p *Pad) NetCode() int {
	if p.Net == nil {
		return 0
	}
	return p.Net.Number
}

// Position returns the pad center.
func (p *Pad) Position() tracks.Point { return p.Center }

// Layers returns the copper layers the pad appears on.
func (p *Pad) Layers() tracks.LayerSet { return p.LayerMask }

// HitTest reports whether the point lies on the pad's copper. The point
// is rotated into the pad's own frame first, so rotated rectangles and
// ovals test exactly against their true outline.
func (p *Pad) HitTest(q tracks.Point) bool {
	dx := float64(q.X - p.Center.X)
	dy := float64(q.Y - p.Center.Y)
	if p.Angle != 0 {
		sin, cos := math.Sincos(-p.Angle * math.Pi / 180)
		dx, dy = dx*cos-dy*sin, dx*sin+dy*cos
	}

	hx := float64(p.SizeX) / 2
	hy := float64(p.SizeY) / 2

	switch p.Shape {
	case "circle":
		return dx*dx+dy*dy <= hx*hx
	case "oval":
		// A stadium: a rectangle capped by half circles along the long
		// axis. Collapse the test to distance from the center segment.
		if hx >= hy {
			cx := clampf(dx, hy-hx, hx-hy)
			ex, ey := dx-cx, dy
			return ex*ex+ey*ey <= hy*hy
		}
		cy := clampf(dy, hx-hy, hy-hx)
		ex, ey := dx, dy-cy
		return ex*ex+ey*ey <= hx*hx
	default:
		// rect, roundrect, trapezoid and custom shapes test against the
		// bounding rectangle.
		return dx >= -hx && dx <= hx && dy >= -hy && dy <= hy
	}
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ConnectedPads returns the footprint's pads attached to the given net.
func (f *Footprint) ConnectedPads(netCode int) []*Pad {
	var pads []*Pad
	for _, pad := range f.Pads {
		if pad.NetCode() == netCode {
			pads = append(pads, pad)
		}
	}
	return pads
}
