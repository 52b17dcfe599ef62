package tracks

import "testing"

// squarePad is a minimal axis-aligned pad for connectivity tests.
type squarePad struct {
	net    int
	pos    Point
	half   int64
	layers LayerSet
}

func (p *squarePad) NetCode() int    { return p.net }
func (p *squarePad) Position() Point { return p.pos }
func (p *squarePad) Layers() LayerSet {
	return p.layers
}

func (p *squarePad) HitTest(q Point) bool {
	dx := q.X - p.pos.X
	dy := q.Y - p.pos.Y
	return dx >= -p.half && dx <= p.half && dy >= -p.half && dy <= p.half
}

func allCopperPad(net int, pos Point) *squarePad {
	return &squarePad{net: net, pos: pos, half: 500000, layers: LayerRange(FrontCopper, BackCopper)}
}

func smdPad(net int, pos Point, layer LayerID) *squarePad {
	return &squarePad{net: net, pos: pos, half: 500000, layers: MakeLayerSet(layer)}
}

// pointZones reports a filled area at exactly the listed points.
type pointZones map[Point]int

func (z pointZones) HitTestFilledArea(pos Point, layers LayerSet, netCode int) bool {
	net, ok := z[pos]
	return ok && net == netCode
}

func TestBuildConnectivityPads(t *testing.T) {
	tr := trace(2, 0, 0, 10000000, 0)
	l := buildSorted(tr)

	onStart := allCopperPad(2, pt(0, 0))
	shorting := allCopperPad(5, pt(10000000, 0)) // different net still connects
	wrongLayer := smdPad(2, pt(0, 0), BackCopper)
	elsewhere := allCopperPad(2, pt(5000000, 5000000))
	l.BuildConnectivity([]Pad{onStart, shorting, wrongLayer, elsewhere})

	if len(tr.ConnectedPads()) != 2 {
		t.Fatalf("connected pads = %d, want 2", len(tr.ConnectedPads()))
	}
	if !tr.OnPad(AtStart) || tr.PadAt(AtStart) != Pad(onStart) {
		t.Errorf("start not locked to its pad")
	}
	if !tr.OnPad(AtEnd) || tr.PadAt(AtEnd) != Pad(shorting) {
		t.Errorf("end not locked to the shorting pad")
	}
}

func TestBuildConnectivityItems(t *testing.T) {
	a := trace(2, 0, 0, 10, 0)
	b := trace(2, 10, 0, 20, 0)
	back := NewTrace(pt(10, 0), pt(10, 10), 250000, BackCopper, 2)
	v := via(2, 10, 0)
	apart := trace(2, 100, 100, 200, 100)
	l := buildSorted(a, b, back, v, apart)

	l.BuildConnectivity(nil)

	if !containsItem(a.ConnectedItems(), b) || !containsItem(b.ConnectedItems(), a) {
		t.Errorf("traces sharing an endpoint not connected")
	}
	if containsItem(a.ConnectedItems(), back) {
		t.Errorf("traces on disjoint layers must not connect")
	}
	// The via spans both layers and joins everything at the junction.
	for _, it := range []*Item{a, b, back} {
		if !containsItem(it.ConnectedItems(), v) {
			t.Errorf("%v trace not connected to the via", it.Start())
		}
	}
	if len(apart.ConnectedItems()) != 0 {
		t.Errorf("isolated trace has %d connections", len(apart.ConnectedItems()))
	}
}

func TestDetachEverywhere(t *testing.T) {
	a := trace(2, 0, 0, 10, 0)
	b := trace(2, 10, 0, 20, 0)
	l := buildSorted(a, b)
	l.BuildConnectivity(nil)

	a.detachEverywhere()

	if containsItem(b.ConnectedItems(), a) {
		t.Errorf("neighbor still references the detached item")
	}
	if len(a.ConnectedItems()) != 0 || a.OnPad(AtStart) {
		t.Errorf("detached item kept its connectivity record")
	}
}
