// Package tracks maintains the copper network of a board: the net-ordered
// track list, its per-net head index, net-scoped traversal, connectivity
// between track items and pads, and the cleanup passes that keep the
// network duplicate-free, gap-free, short-circuit-free and geometrically
// minimal.
//
// The package is single-writer: scans and connectivity builds are read-only
// and must not run concurrently with list mutation or cleanup.
package tracks

import (
	"math"

	"github.com/google/uuid"
)

// Point is a board location in integer nanometers. Integer coordinates
// keep the geometric predicates (coincidence, collinearity) exact.
type Point struct {
	X int64
	Y int64
}

// DistanceTo returns the euclidean distance to q in nanometers.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// LayerID is the ordinal of a board layer. Copper layers use the KiCad
// numbering: 0 is F.Cu, 31 is B.Cu, inner layers in between.
type LayerID int

// Copper layer ordinals used throughout the package.
const (
	FrontCopper LayerID = 0
	BackCopper  LayerID = 31
)

// LayerSet is a bitmask of layers, one bit per LayerID.
type LayerSet uint64

// MakeLayerSet builds a set from individual layer ordinals.
func MakeLayerSet(ids ...LayerID) LayerSet {
	var s LayerSet
	for _, id := range ids {
		s |= 1 << uint(id)
	}
	return s
}

// LayerRange builds a set covering every ordinal from top to bottom
// inclusive. Used for the layer span of a via.
func LayerRange(top, bottom LayerID) LayerSet {
	if top > bottom {
		top, bottom = bottom, top
	}
	var s LayerSet
	for id := top; id <= bottom; id++ {
		s |= 1 << uint(id)
	}
	return s
}

// Contains reports whether the set includes the given layer.
func (s LayerSet) Contains(id LayerID) bool {
	return s&(1<<uint(id)) != 0
}

// ContainsAll reports whether the set is a superset of o.
func (s LayerSet) ContainsAll(o LayerSet) bool {
	return s&o == o
}

// Overlaps reports whether the two sets share any layer.
func (s LayerSet) Overlaps(o LayerSet) bool {
	return s&o != 0
}

// Kind discriminates the two concrete track item variants.
type Kind int

const (
	// Trace is a straight copper segment on a single layer.
	Trace Kind = iota
	// Via is a plated hole joining a pair of copper layers at one point.
	Via
)

// String returns the variant name used in reports.
func (k Kind) String() string {
	if k == Via {
		return "via"
	}
	return "trace"
}

// ViaType distinguishes through vias from the high density kinds. Only
// through vias participate in duplicate removal; blind and micro vias
// are left untouched by cleanup.
type ViaType int

const (
	ViaThrough ViaType = iota
	ViaBlind
	ViaMicro
)

// Endpoint selects one end of a track item.
type Endpoint int

const (
	AtStart Endpoint = iota
	AtEnd
)

// Pad is the read-only view of a footprint pad the copper engine needs.
// Pads are owned by footprints outside this package and are never mutated
// here; connectivity building only queries them.
type Pad interface {
	// NetCode returns the pad's net, 0 for unconnected.
	NetCode() int
	// Position returns the pad center in board coordinates.
	Position() Point
	// HitTest reports whether the point lies on the pad's copper.
	HitTest(p Point) bool
	// Layers returns the copper layers the pad appears on.
	Layers() LayerSet
}

// ZoneFinder answers whether a filled copper area covers a point. The
// dangling-track pass uses it to accept endpoints that terminate inside
// a zone fill of the same net.
type ZoneFinder interface {
	HitTestFilledArea(pos Point, layers LayerSet, netCode int) bool
}

// Item is a single entry of the net-ordered track list: a trace or a via.
// Items are owned by the List holding them; cleanup passes hand removed
// items to the commit Recorder before unlinking them, and callers must
// not retain references past that point.
type Item struct {
	ID uuid.UUID

	kind    Kind
	start   Point
	end     Point
	width   int64
	layer   LayerID // trace only
	top     LayerID // via only
	bottom  LayerID // via only
	viaType ViaType

	netCode int
	seq     int // original insertion order, the stable-sort tie break

	prev, next *Item

	// Transient connectivity record, valid after a connectivity build
	// and until the next list restructuring.
	padsConnected  []Pad
	itemsConnected []*Item
	startPad       Pad
	endPad         Pad
	startOnPad     bool
	endOnPad       bool
	flagged        bool // marked for removal by the current pass
}

// NewTrace creates a straight segment on a single copper layer.
func NewTrace(start, end Point, width int64, layer LayerID, netCode int) *Item {
	return &Item{
		ID:      uuid.New(),
		kind:    Trace,
		start:   start,
		end:     end,
		width:   width,
		layer:   layer,
		netCode: netCode,
	}
}

// NewVia creates a via at a single point. A via's end always equals its
// start; the pair (top, bottom) is the copper span it joins.
func NewVia(at Point, width int64, top, bottom LayerID, vt ViaType, netCode int) *Item {
	if top > bottom {
		top, bottom = bottom, top
	}
	return &Item{
		ID:      uuid.New(),
		kind:    Via,
		start:   at,
		end:     at,
		width:   width,
		top:     top,
		bottom:  bottom,
		viaType: vt,
		netCode: netCode,
	}
}

// Kind returns the item variant.
func (it *Item) Kind() Kind { return it.kind }

// NetCode returns the item's net, 0 for unassigned.
func (it *Item) NetCode() int { return it.netCode }

// Start returns the start point. For a via this is the via position.
func (it *Item) Start() Point { return it.start }

// End returns the end point. For a well-formed via End equals Start.
func (it *Item) End() Point { return it.end }

// Width returns the trace width or via diameter in nanometers.
func (it *Item) Width() int64 { return it.width }

// Layer returns the copper layer of a trace. For a via it returns the
// top layer of the pair.
func (it *Item) Layer() LayerID {
	if it.kind == Via {
		return it.top
	}
	return it.layer
}

// LayerPair returns the copper span of a via. For a trace both values
// are the trace layer.
func (it *Item) LayerPair() (top, bottom LayerID) {
	if it.kind == Via {
		return it.top, it.bottom
	}
	return it.layer, it.layer
}

// ViaType returns the via kind; meaningless for traces.
func (it *Item) ViaType() ViaType { return it.viaType }

// Layers returns the item's copper span as a set.
func (it *Item) Layers() LayerSet {
	if it.kind == Via {
		return LayerRange(it.top, it.bottom)
	}
	return MakeLayerSet(it.layer)
}

// IsOnLayer reports whether the item occupies the given copper layer.
func (it *Item) IsOnLayer(id LayerID) bool {
	if it.kind == Via {
		return id >= it.top && id <= it.bottom
	}
	return it.layer == id
}

// IsNull reports whether a trace has zero length. Vias are points by
// definition and are never null.
func (it *Item) IsNull() bool {
	return it.kind == Trace && it.start == it.end
}

// Endpoint returns the selected end's coordinates.
func (it *Item) Endpoint(e Endpoint) Point {
	if e == AtStart {
		return it.start
	}
	return it.end
}

// HasEndpoint reports whether p coincides with either end.
func (it *Item) HasEndpoint(p Point) bool {
	return it.start == p || it.end == p
}

// Length returns the geometric length in nanometers. A via has length 0.
func (it *Item) Length() float64 {
	return it.start.DistanceTo(it.end)
}

// Next returns the following item in the global list, nil at the tail.
func (it *Item) Next() *Item { return it.next }

// Prev returns the preceding item in the global list, nil at the head.
func (it *Item) Prev() *Item { return it.prev }

// OnPad reports whether the selected endpoint is locked to a pad. Valid
// after a connectivity build.
func (it *Item) OnPad(e Endpoint) bool {
	if e == AtStart {
		return it.startOnPad
	}
	return it.endOnPad
}

// PadAt returns the pad locking the selected endpoint, or nil.
func (it *Item) PadAt(e Endpoint) Pad {
	if e == AtStart {
		return it.startPad
	}
	return it.endPad
}

// ConnectedPads returns the pads touching this item. Valid after a
// connectivity build; invalidated by any removal.
func (it *Item) ConnectedPads() []Pad { return it.padsConnected }

// ConnectedItems returns the other track items sharing an endpoint with
// this one. Valid after a connectivity build; invalidated by any removal.
func (it *Item) ConnectedItems() []*Item { return it.itemsConnected }

// clearConnectivity resets the transient per-build record.
func (it *Item) clearConnectivity() {
	it.padsConnected = nil
	it.itemsConnected = nil
	it.startPad = nil
	it.endPad = nil
	it.startOnPad = false
	it.endOnPad = false
	it.flagged = false
}
