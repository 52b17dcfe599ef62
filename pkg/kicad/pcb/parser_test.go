package pcb

import (
	"strings"
	"testing"

	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

const sampleBoard = `(kicad_pcb
  (version 20221018)
  (generator "pcbnew")
  (general (thickness 1.6))
  (layers
    (0 "F.Cu" signal)
    (31 "B.Cu" signal)
    (36 "B.SilkS" user "B.Silkscreen")
    (37 "F.SilkS" user "F.Silkscreen")
  )
  (net 0 "")
  (net 1 "GND")
  (net 2 "Net-(R1-Pad1)")
  (footprint "Resistor_SMD:R_0603"
    (layer "F.Cu")
    (at 10 20)
    (property "Reference" "R1")
    (property "Value" "10k")
    (pad "1" smd rect (at -0.8 0) (size 0.8 0.9) (layers "F.Cu")
      (net 2 "Net-(R1-Pad1)"))
    (pad "2" smd rect (at 0.8 0) (size 0.8 0.9) (layers "F.Cu")
      (net 1 "GND"))
  )
  (footprint "Connector:Pin"
    (layer "F.Cu")
    (at 30 20)
    (property "Reference" "J1")
    (pad "1" thru_hole circle (at 0 0) (size 1.8 1.8) (drill 1.0)
      (layers "*.Cu") (net 1 "GND"))
  )
  (footprint "Connector:Pin"
    (layer "F.Cu")
    (at 15 24)
    (property "Reference" "J2")
    (pad "1" thru_hole circle (at 0 0) (size 1.8 1.8) (drill 1.0)
      (layers "*.Cu") (net 2 "Net-(R1-Pad1)"))
  )
  (segment (start 9.2 20) (end 15 24) (width 0.25) (layer "F.Cu") (net 2)
    (uuid "d8a9c4f2-73f5-4c44-9f06-2a61a5ae41a7"))
  (segment (start 10.8 20) (end 20 20) (width 0.25) (layer "F.Cu") (net 1))
  (via (at 20 20) (size 0.6) (drill 0.3) (layers "F.Cu" "B.Cu") (net 1))
  (zone (net 1) (net_name "GND") (layer "B.Cu") (name "gnd_pour")
    (min_thickness 0.25)
    (polygon (pts (xy 0 0) (xy 40 0) (xy 40 40) (xy 0 40)))
    (filled_polygon (layer "B.Cu")
      (pts (xy 1 1) (xy 39 1) (xy 39 39) (xy 1 39)))
  )
)`

func parseSample(t *testing.T) *Board {
	t.Helper()
	board, err := Parse(strings.NewReader(sampleBoard))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return board
}

func TestParseHeader(t *testing.T) {
	board := parseSample(t)
	if board.Version != 20221018 {
		t.Errorf("Version = %d, want 20221018", board.Version)
	}
	if board.Generator != "pcbnew" {
		t.Errorf("Generator = %q, want pcbnew", board.Generator)
	}
	if board.General.Thickness != 1.6 {
		t.Errorf("Thickness = %v, want 1.6", board.General.Thickness)
	}
}

func TestParseRejectsNonBoard(t *testing.T) {
	if _, err := Parse(strings.NewReader("(kicad_sch (version 1))")); err == nil {
		t.Fatalf("expected an error for a schematic file")
	}
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Fatalf("expected an error for an empty file")
	}
}

func TestParseLayers(t *testing.T) {
	board := parseSample(t)
	if len(board.Layers) != 4 {
		t.Fatalf("layer count = %d, want 4", len(board.Layers))
	}

	front, ok := board.LayerMap.GetByName("F.Cu")
	if !ok || front.Number != tracks.FrontCopper {
		t.Errorf("F.Cu lookup failed: %+v", front)
	}
	if !board.LayerMap.IsCopperLayer("B.Cu") {
		t.Errorf("B.Cu not recognized as copper")
	}
	if board.LayerMap.IsCopperLayer("F.SilkS") {
		t.Errorf("silkscreen recognized as copper")
	}

	wantMask := tracks.MakeLayerSet(tracks.FrontCopper, tracks.BackCopper)
	if got := board.LayerMap.CopperMask(); got != wantMask {
		t.Errorf("CopperMask = %b, want %b", got, wantMask)
	}
}

func TestParseNets(t *testing.T) {
	board := parseSample(t)
	if len(board.Nets) != 3 {
		t.Fatalf("net count = %d, want 3", len(board.Nets))
	}
	gnd, ok := board.NetMap.GetByName("GND")
	if !ok || gnd.Number != 1 {
		t.Fatalf("GND lookup failed: %+v", gnd)
	}
	// Net names containing parentheses only survive quote-aware reading.
	if _, ok := board.NetMap.GetByName("Net-(R1-Pad1)"); !ok {
		t.Errorf("parenthesized net name lost during parsing")
	}
	if !board.NetMap.IsUnconnected(0) || board.NetMap.IsUnconnected(1) {
		t.Errorf("unconnected net classification wrong")
	}
}

func TestParseCopper(t *testing.T) {
	board := parseSample(t)
	if board.Tracks.Len() != 3 {
		t.Fatalf("track count = %d, want 3", board.Tracks.Len())
	}

	// The list comes out net ordered with the index in place.
	last := -1
	for it := board.Tracks.Front(); it != nil; it = it.Next() {
		if it.NetCode() < last {
			t.Fatalf("track list not net ordered")
		}
		last = it.NetCode()
	}

	first := board.Tracks.FirstInNet(2)
	if first == nil || first.Kind() != tracks.Trace {
		t.Fatalf("FirstInNet(2) = %v", first)
	}
	if first.Start() != (tracks.Point{X: 9200000, Y: 20000000}) {
		t.Errorf("segment start = %v, want 9.2mm, 20mm in nm", first.Start())
	}
	if first.Width() != 250000 {
		t.Errorf("segment width = %d, want 250000", first.Width())
	}
	if first.ID.String() != "d8a9c4f2-73f5-4c44-9f06-2a61a5ae41a7" {
		t.Errorf("segment did not keep its file uuid: %s", first.ID)
	}

	v := board.Tracks.ViaAt(1, tracks.Point{X: 20000000, Y: 20000000})
	if v == nil {
		t.Fatalf("via not found at 20mm, 20mm")
	}
	if v.ViaType() != tracks.ViaThrough {
		t.Errorf("via type = %v, want through", v.ViaType())
	}
	top, bottom := v.LayerPair()
	if top != tracks.FrontCopper || bottom != tracks.BackCopper {
		t.Errorf("via layer pair = %d..%d", top, bottom)
	}
}

func TestParseFootprintsAndPads(t *testing.T) {
	board := parseSample(t)
	if len(board.Footprints) != 3 {
		t.Fatalf("footprint count = %d, want 3", len(board.Footprints))
	}

	r1 := board.Footprints[0]
	if r1.Reference != "R1" || r1.Value != "10k" {
		t.Errorf("R1 identity = %q/%q", r1.Reference, r1.Value)
	}
	if len(r1.Pads) != 2 {
		t.Fatalf("R1 pad count = %d, want 2", len(r1.Pads))
	}

	pad1 := r1.Pads[0]
	want := tracks.Point{X: 9200000, Y: 20000000}
	if pad1.Center != want {
		t.Errorf("pad 1 center = %v, want %v", pad1.Center, want)
	}
	if !pad1.HitTest(want) {
		t.Errorf("pad does not hit its own center")
	}
	if pad1.HitTest(tracks.Point{X: 9200000 + 500000, Y: 20000000}) {
		t.Errorf("pad hit beyond its copper (size 0.8mm)")
	}

	j1 := board.Footprints[1].Pads[0]
	if !j1.Layers().ContainsAll(board.LayerMap.CopperMask()) {
		t.Errorf("*.Cu pad does not cover the copper mask")
	}
	if j1.NetCode() != 1 {
		t.Errorf("J1 pad net = %d, want 1", j1.NetCode())
	}
}

func TestParseZones(t *testing.T) {
	board := parseSample(t)
	if len(board.Zones) != 1 {
		t.Fatalf("zone count = %d, want 1", len(board.Zones))
	}
	z := board.Zones[0]
	if z.Name != "gnd_pour" || z.NetCode() != 1 {
		t.Errorf("zone identity = %q net %d", z.Name, z.NetCode())
	}
	if len(z.Outline) != 4 || len(z.Fills) != 1 {
		t.Fatalf("zone geometry: %d outline points, %d fills", len(z.Outline), len(z.Fills))
	}

	back := tracks.MakeLayerSet(tracks.BackCopper)
	inside := tracks.Point{X: 20000000, Y: 20000000}
	if !board.Zones.HitTestFilledArea(inside, back, 1) {
		t.Errorf("fill does not cover an interior point")
	}
	if board.Zones.HitTestFilledArea(inside, back, 2) {
		t.Errorf("fill answered for the wrong net")
	}
	if board.Zones.HitTestFilledArea(inside, tracks.MakeLayerSet(tracks.FrontCopper), 1) {
		t.Errorf("fill answered for the wrong layer")
	}
	outside := tracks.Point{X: 50000000, Y: 20000000}
	if board.Zones.HitTestFilledArea(outside, back, 1) {
		t.Errorf("fill covers a point outside the polygon")
	}
}

func TestNetInfo(t *testing.T) {
	board := parseSample(t)
	info := board.GetNetInfo("GND")
	if info == nil {
		t.Fatalf("GetNetInfo returned nil for GND")
	}
	if info.Traces != 1 || info.Vias != 1 {
		t.Errorf("GND copper = %d traces, %d vias; want 1 and 1", info.Traces, info.Vias)
	}
	if len(info.Pads) != 2 {
		t.Errorf("GND pads = %d, want 2", len(info.Pads))
	}
	// 10.8mm to 20mm on one axis.
	if got := info.Length; got != 9200000 {
		t.Errorf("GND length = %v, want 9200000", got)
	}
	if board.GetNetInfo("nonexistent") != nil {
		t.Errorf("GetNetInfo for unknown net must be nil")
	}
}

func TestBoardCleanerWiring(t *testing.T) {
	board := parseSample(t)
	log := &tracks.ChangeLog{}
	cleaner := board.NewCleaner(log)

	// The sample board is already consistent.
	if cleaner.Cleanup(tracks.Options{
		CleanVias:          true,
		MergeSegments:      true,
		RemoveMisConnected: true,
		DeleteDangling:     true,
	}) {
		t.Fatalf("cleanup changed a consistent board: %+v", log.Changes)
	}
}
