// Package pcb holds the board document model: layers, nets, footprints
// with their pads, filled zones and the copper track list, loaded from a
// .kicad_pcb file. The copper consistency engine itself lives in the
// tracks package; pcb supplies it with the board's fixed copper.
package pcb

import (
	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

// Coordinate conversion constants. Board files store millimeters; the
// document model works in integer nanometers.
const (
	MMToNanometers = 1e6
	NanometersToMM = 1e-6
)

// Layer represents a PCB layer definition from the board's layer table.
type Layer struct {
	Number tracks.LayerID // Layer ordinal
	Name   string         // Layer name (e.g., "F.Cu", "B.Cu", "F.SilkS")
	Type   string         // Layer type (e.g., "signal", "user")
}

// IsCopper reports whether the layer carries copper.
func (l Layer) IsCopper() bool {
	return l.Type == "signal" || l.Type == "power" || l.Type == "mixed"
}

// Net represents an electrical net.
type Net struct {
	Number int    // Net number (ordinal)
	Name   string // Net name
}

// LayerMap provides lookup of layers by number or name, and the mask of
// the board's copper layers.
type LayerMap struct {
	byNumber map[tracks.LayerID]*Layer
	byName   map[string]*Layer
	copper   tracks.LayerSet
}

// NewLayerMap creates a LayerMap from a slice of layers.
func NewLayerMap(layers []Layer) *LayerMap {
	lm := &LayerMap{
		byNumber: make(map[tracks.LayerID]*Layer),
		byName:   make(map[string]*Layer),
	}

	for i := range layers {
		layer := &layers[i]
		lm.byNumber[layer.Number] = layer
		lm.byName[layer.Name] = layer
		if layer.IsCopper() {
			lm.copper |= tracks.MakeLayerSet(layer.Number)
		}
	}

	return lm
}

// GetByName retrieves a layer by its name (e.g., "F.Cu").
func (lm *LayerMap) GetByName(name string) (*Layer, bool) {
	layer, ok := lm.byName[name]
	return layer, ok
}

// GetByNumber retrieves a layer by its number.
func (lm *LayerMap) GetByNumber(num tracks.LayerID) (*Layer, bool) {
	layer, ok := lm.byNumber[num]
	return layer, ok
}

// IsCopperLayer checks if a named layer is a copper layer.
func (lm *LayerMap) IsCopperLayer(name string) bool {
	layer, ok := lm.byName[name]
	if !ok {
		return false
	}
	return layer.IsCopper()
}

// CopperMask returns the set of copper layers the board defines.
func (lm *LayerMap) CopperMask() tracks.LayerSet {
	return lm.copper
}

// ResolveSet maps layer names to a layer set. Unknown names are skipped;
// the wildcard pair "*.Cu" expands to every copper layer.
func (lm *LayerMap) ResolveSet(names []string) tracks.LayerSet {
	var set tracks.LayerSet
	for _, name := range names {
		if name == "*.Cu" {
			set |= lm.copper
			continue
		}
		if layer, ok := lm.byName[name]; ok {
			set |= tracks.MakeLayerSet(layer.Number)
		}
	}
	return set
}

// NetMap provides efficient lookup of nets by number or name.
type NetMap struct {
	byNumber map[int]*Net
	byName   map[string]*Net
	max      int
}

// NewNetMap creates a NetMap from a slice of nets.
func NewNetMap(nets []Net) *NetMap {
	nm := &NetMap{
		byNumber: make(map[int]*Net),
		byName:   make(map[string]*Net),
	}

	for i := range nets {
		net := &nets[i]
		nm.byNumber[net.Number] = net
		if net.Number > nm.max {
			nm.max = net.Number
		}
		// Only index non-empty names
		if net.Name != "" {
			nm.byName[net.Name] = net
		}
	}

	return nm
}

// GetByName retrieves a net by its name (e.g., "GND", "+5V").
func (nm *NetMap) GetByName(name string) (*Net, bool) {
	net, ok := nm.byName[name]
	return net, ok
}

// GetByNumber retrieves a net by its number.
func (nm *NetMap) GetByNumber(num int) (*Net, bool) {
	net, ok := nm.byNumber[num]
	return net, ok
}

// MaxNumber returns the highest net number the board defines.
func (nm *NetMap) MaxNumber() int {
	return nm.max
}

// IsUnconnected checks if a net number represents an unconnected net.
// In KiCad, net 0 is reserved for unconnected pins.
func (nm *NetMap) IsUnconnected(num int) bool {
	return num == 0
}
