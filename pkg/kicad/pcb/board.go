package pcb

import (
	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

// Board represents a complete KiCad PCB.
type Board struct {
	Version    int          // File format version
	Generator  string       // Generator info (e.g., "pcbnew")
	General    General      // General board properties
	Layers     []Layer      // Layer definitions
	Nets       []Net        // Electrical nets
	Footprints []*Footprint // Component footprints
	Zones      Zones        // Filled zones
	Tracks     *tracks.List // Copper traces and vias, net ordered

	LayerMap *LayerMap // Layer lookups and the copper mask
	NetMap   *NetMap   // Net lookups
}

// General contains general board properties.
type General struct {
	Thickness float64 // Board thickness in mm
}

// GetNet returns a net by name, or nil if not found.
func (b *Board) GetNet(name string) *Net {
	if net, ok := b.NetMap.GetByName(name); ok {
		return net
	}
	return nil
}

// AllPads returns every pad of every footprint as the flat collection
// the connectivity builder consumes.
func (b *Board) AllPads() []tracks.Pad {
	var pads []tracks.Pad
	for _, fp := range b.Footprints {
		for _, pad := range fp.Pads {
			pads = append(pads, pad)
		}
	}
	return pads
}

// GetNetPads returns all pads connected to a specific net.
func (b *Board) GetNetPads(netCode int) []*Pad {
	var pads []*Pad
	for _, fp := range b.Footprints {
		pads = append(pads, fp.ConnectedPads(netCode)...)
	}
	return pads
}

// NewCleaner wires the cleanup engine to this board's copper.
func (b *Board) NewCleaner(rec tracks.Recorder) *tracks.Cleaner {
	return tracks.NewCleaner(b.Tracks, b.AllPads(), b.Zones, b.LayerMap.CopperMask(), rec)
}

// NetInfo summarizes a net's copper.
type NetInfo struct {
	Net    *Net
	Pads   []*Pad
	Traces int
	Vias   int
	Length float64 // Routed trace length in nanometers
}

// GetNetInfo returns a summary of the named net, or nil when the board
// has no such net.
func (b *Board) GetNetInfo(netName string) *NetInfo {
	net := b.GetNet(netName)
	if net == nil {
		return nil
	}
	traces, vias := b.Tracks.NetItemCount(net.Number)
	return &NetInfo{
		Net:    net,
		Pads:   b.GetNetPads(net.Number),
		Traces: traces,
		Vias:   vias,
		Length: b.Tracks.NetLength(net.Number),
	}
}

// GetAllNetNames returns a list of all net names in the board.
func (b *Board) GetAllNetNames() []string {
	names := make([]string, len(b.Nets))
	for i, net := range b.Nets {
		names[i] = net.Name
	}
	return names
}
