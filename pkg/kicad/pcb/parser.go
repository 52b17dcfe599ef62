package pcb

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/google/uuid"

	"github.com/NoelAshdown/kicad-devel/pkg/kicad/sexpr"
	"github.com/NoelAshdown/kicad-devel/pkg/kicad/tracks"
)

// ParseFile reads and parses a KiCad board file.
func ParseFile(filename string) (*Board, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads and parses a KiCad board from an io.Reader.
func Parse(r io.Reader) (*Board, error) {
	sexps, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse s-expression: %w", err)
	}

	if len(sexps) == 0 {
		return nil, fmt.Errorf("empty file or no valid s-expressions found")
	}

	root := sexps[0]
	if root.Name() != "kicad_pcb" {
		return nil, fmt.Errorf("not a KiCad PCB file: expected 'kicad_pcb', got '%s'", root.Name())
	}

	board := &Board{}

	if version, found := root.Find("version"); found {
		v, err := version.Int(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse version: %w", err)
		}
		board.Version = v
	}
	if generator, found := root.Find("generator"); found {
		board.Generator, _ = generator.Str(1)
	}

	if general, found := root.Find("general"); found {
		if thickness, ok := general.Find("thickness"); ok {
			board.General.Thickness, _ = thickness.Float(1)
		}
	}

	if layersNode, found := root.Find("layers"); found {
		layers, err := parseLayers(layersNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layers section: %w", err)
		}
		board.Layers = layers
	}
	board.LayerMap = NewLayerMap(board.Layers)

	nets, err := parseNets(root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse nets: %w", err)
	}
	board.Nets = nets
	board.NetMap = NewNetMap(board.Nets)

	footprints, err := parseFootprints(root, board.LayerMap, board.NetMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse footprints: %w", err)
	}
	board.Footprints = footprints

	trackList, err := parseCopper(root, board.LayerMap, board.NetMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracks: %w", err)
	}
	board.Tracks = trackList

	zones, err := parseZones(root, board.LayerMap, board.NetMap)
	if err != nil {
		return nil, fmt.Errorf("failed to parse zones: %w", err)
	}
	board.Zones = zones

	return board, nil
}

// nm converts a millimeter file value to integer nanometers.
func nm(mm float64) int64 {
	return int64(math.Round(mm * MMToNanometers))
}

// parsePoint reads (key x y) into board coordinates.
func parsePoint(node sexpr.Value) (tracks.Point, error) {
	x, err := node.Float(1)
	if err != nil {
		return tracks.Point{}, fmt.Errorf("failed to parse x: %w", err)
	}
	y, err := node.Float(2)
	if err != nil {
		return tracks.Point{}, fmt.Errorf("failed to parse y: %w", err)
	}
	return tracks.Point{X: nm(x), Y: nm(y)}, nil
}

// parseLayers reads the board layer table.
// Expected format: (layers (0 "F.Cu" signal) (31 "B.Cu" signal) ...)
func parseLayers(node sexpr.Value) ([]Layer, error) {
	var layers []Layer
	for _, entry := range node.Items() {
		if !entry.IsList {
			continue
		}
		num, err := entry.Int(0)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer number: %w", err)
		}
		name, err := entry.Str(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse layer name: %w", err)
		}
		typ, _ := entry.Str(2)
		layers = append(layers, Layer{
			Number: tracks.LayerID(num),
			Name:   name,
			Type:   typ,
		})
	}
	return layers, nil
}

// parseNets reads the net declarations.
// Expected format: (net 0 "") (net 1 "GND") ...
func parseNets(root sexpr.Value) ([]Net, error) {
	var nets []Net
	for _, node := range root.FindAll("net") {
		num, err := node.Int(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse net number: %w", err)
		}
		name, err := node.Str(2)
		if err != nil {
			return nil, fmt.Errorf("failed to parse net %d name: %w", num, err)
		}
		nets = append(nets, Net{Number: num, Name: name})
	}
	return nets, nil
}

// parseCopper reads segments and vias into a sorted track list.
func parseCopper(root sexpr.Value, layers *LayerMap, nets *NetMap) (*tracks.List, error) {
	list := tracks.NewList(nets.MaxNumber())

	for _, node := range root.FindAll("segment") {
		item, err := parseSegment(node, layers)
		if err != nil {
			return nil, err
		}
		list.Append(item)
	}
	for _, node := range root.FindAll("via") {
		item, err := parseVia(node, layers)
		if err != nil {
			return nil, err
		}
		list.Append(item)
	}

	list.Sort()
	return list, nil
}

// parseSegment reads one copper trace.
// Expected format: (segment (start x y) (end x y) (width w) (layer "F.Cu") (net n) (uuid ...))
func parseSegment(node sexpr.Value, layers *LayerMap) (*tracks.Item, error) {
	startNode, found := node.Find("start")
	if !found {
		return nil, fmt.Errorf("segment missing start")
	}
	start, err := parsePoint(startNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse segment start: %w", err)
	}

	endNode, found := node.Find("end")
	if !found {
		return nil, fmt.Errorf("segment missing end")
	}
	end, err := parsePoint(endNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse segment end: %w", err)
	}

	var width int64
	if widthNode, ok := node.Find("width"); ok {
		w, err := widthNode.Float(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse segment width: %w", err)
		}
		width = nm(w)
	}

	layer := tracks.FrontCopper
	if layerNode, ok := node.Find("layer"); ok {
		name, _ := layerNode.Str(1)
		def, ok := layers.GetByName(name)
		if !ok {
			return nil, fmt.Errorf("segment on unknown layer %q", name)
		}
		layer = def.Number
	}

	item := tracks.NewTrace(start, end, width, layer, parseNetRef(node))
	applyIdentity(item, node)
	return item, nil
}

// parseVia reads one via.
// Expected format: (via [blind|micro] (at x y) (size s) (drill d) (layers "F.Cu" "B.Cu") (net n))
func parseVia(node sexpr.Value, layers *LayerMap) (*tracks.Item, error) {
	atNode, found := node.Find("at")
	if !found {
		return nil, fmt.Errorf("via missing position")
	}
	at, err := parsePoint(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse via position: %w", err)
	}

	var size int64
	if sizeNode, ok := node.Find("size"); ok {
		s, err := sizeNode.Float(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse via size: %w", err)
		}
		size = nm(s)
	}

	viaType := tracks.ViaThrough
	switch {
	case node.Has("blind"):
		viaType = tracks.ViaBlind
	case node.Has("micro"):
		viaType = tracks.ViaMicro
	}

	top, bottom := tracks.FrontCopper, tracks.BackCopper
	if layersNode, ok := node.Find("layers"); ok {
		topName, _ := layersNode.Str(1)
		bottomName, _ := layersNode.Str(2)
		if def, ok := layers.GetByName(topName); ok {
			top = def.Number
		}
		if def, ok := layers.GetByName(bottomName); ok {
			bottom = def.Number
		}
	}

	item := tracks.NewVia(at, size, top, bottom, viaType, parseNetRef(node))
	applyIdentity(item, node)
	return item, nil
}

// parseNetRef reads a (net n) child, returning 0 when absent.
func parseNetRef(node sexpr.Value) int {
	netNode, found := node.Find("net")
	if !found {
		return 0
	}
	n, err := netNode.Int(1)
	if err != nil {
		return 0
	}
	return n
}

// applyIdentity carries the file's uuid (or older tstamp) onto the item
// so cleanup reports can reference the original object. Items without a
// parseable identity keep the one generated at construction.
func applyIdentity(item *tracks.Item, node sexpr.Value) {
	for _, key := range []string{"uuid", "tstamp"} {
		if idNode, ok := node.Find(key); ok {
			if text, err := idNode.Str(1); err == nil {
				if id, err := uuid.Parse(text); err == nil {
					item.ID = id
					return
				}
			}
		}
	}
}

// parseFootprints reads footprints with their pads placed into absolute
// board coordinates.
func parseFootprints(root sexpr.Value, layers *LayerMap, nets *NetMap) ([]*Footprint, error) {
	var footprints []*Footprint
	for _, node := range root.FindAll("footprint") {
		fp, err := parseFootprint(node, layers, nets)
		if err != nil {
			return nil, err
		}
		footprints = append(footprints, fp)
	}
	// Older files use the module keyword with the same shape.
	for _, node := range root.FindAll("module") {
		fp, err := parseFootprint(node, layers, nets)
		if err != nil {
			return nil, err
		}
		footprints = append(footprints, fp)
	}
	return footprints, nil
}

func parseFootprint(node sexpr.Value, layers *LayerMap, nets *NetMap) (*Footprint, error) {
	fp := &Footprint{}
	fp.Library, _ = node.Str(1)

	if layerNode, ok := node.Find("layer"); ok {
		fp.Layer, _ = layerNode.Str(1)
	}
	if atNode, ok := node.Find("at"); ok {
		pos, err := parsePoint(atNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse footprint position: %w", err)
		}
		fp.Position = pos
		fp.Angle, _ = atNode.Float(3)
	}

	for _, prop := range node.FindAll("property") {
		key, _ := prop.Str(1)
		switch key {
		case "Reference":
			fp.Reference, _ = prop.Str(2)
		case "Value":
			fp.Value, _ = prop.Str(2)
		}
	}
	// Older files carry the reference in fp_text nodes.
	for _, text := range node.FindAll("fp_text") {
		kind, _ := text.Str(1)
		switch kind {
		case "reference":
			fp.Reference, _ = text.Str(2)
		case "value":
			fp.Value, _ = text.Str(2)
		}
	}

	for _, padNode := range node.FindAll("pad") {
		pad, err := parsePad(padNode, fp, layers, nets)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad in %q: %w", fp.Reference, err)
		}
		fp.Pads = append(fp.Pads, pad)
	}

	return fp, nil
}

// parsePad reads one pad and places it in board coordinates: the pad's
// local offset is rotated by the footprint angle and added to the
// footprint position. The pad's own rotation in the file is already
// absolute, so it is carried over unchanged.
func parsePad(node sexpr.Value, fp *Footprint, layers *LayerMap, nets *NetMap) (*Pad, error) {
	pad := &Pad{}
	pad.Number, _ = node.Str(1)
	pad.Type, _ = node.Str(2)
	pad.Shape, _ = node.Str(3)

	atNode, found := node.Find("at")
	if !found {
		return nil, fmt.Errorf("pad %q missing position", pad.Number)
	}
	local, err := parsePoint(atNode)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad position: %w", err)
	}
	pad.Angle, _ = atNode.Float(3)
	pad.Center = placeOnBoard(local, fp.Position, fp.Angle)

	sizeNode, found := node.Find("size")
	if !found {
		return nil, fmt.Errorf("pad %q missing size", pad.Number)
	}
	sx, err := sizeNode.Float(1)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad size: %w", err)
	}
	sy, err := sizeNode.Float(2)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pad size: %w", err)
	}
	pad.SizeX = nm(sx)
	pad.SizeY = nm(sy)

	if drillNode, ok := node.Find("drill"); ok {
		if d, err := drillNode.Float(1); err == nil {
			pad.Drill = nm(d)
		}
	}

	if layersNode, ok := node.Find("layers"); ok {
		var names []string
		for _, item := range layersNode.Items() {
			if !item.IsList {
				names = append(names, item.Atom)
			}
		}
		pad.LayerMask = layers.ResolveSet(names)
	}

	if netNode, ok := node.Find("net"); ok {
		num, err := netNode.Int(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse pad net: %w", err)
		}
		if net, ok := nets.GetByNumber(num); ok {
			pad.Net = net
		}
	}

	return pad, nil
}

// placeOnBoard rotates a footprint-local offset by the footprint angle
// and translates it to the footprint position. Board y grows downward,
// so a positive angle turns counterclockwise on screen.
func placeOnBoard(local, origin tracks.Point, angleDeg float64) tracks.Point {
	if angleDeg == 0 {
		return tracks.Point{X: origin.X + local.X, Y: origin.Y + local.Y}
	}
	sin, cos := math.Sincos(angleDeg * math.Pi / 180)
	x := float64(local.X)*cos + float64(local.Y)*sin
	y := -float64(local.X)*sin + float64(local.Y)*cos
	return tracks.Point{
		X: origin.X + int64(math.Round(x)),
		Y: origin.Y + int64(math.Round(y)),
	}
}

// parseZones reads filled zones with their outlines and stored fills.
func parseZones(root sexpr.Value, layers *LayerMap, nets *NetMap) (Zones, error) {
	var zones Zones
	for _, node := range root.FindAll("zone") {
		zone, err := parseZone(node, layers, nets)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

func parseZone(node sexpr.Value, layers *LayerMap, nets *NetMap) (*Zone, error) {
	zone := &Zone{}

	if netNode, ok := node.Find("net"); ok {
		num, err := netNode.Int(1)
		if err != nil {
			return nil, fmt.Errorf("failed to parse zone net: %w", err)
		}
		if net, ok := nets.GetByNumber(num); ok {
			zone.Net = net
		}
	}
	if nameNode, ok := node.Find("name"); ok {
		zone.Name, _ = nameNode.Str(1)
	}

	if layerNode, ok := node.Find("layer"); ok {
		zone.Layer, _ = layerNode.Str(1)
		zone.LayerMask = layers.ResolveSet([]string{zone.Layer})
	} else if layersNode, ok := node.Find("layers"); ok {
		var names []string
		for _, item := range layersNode.Items() {
			if !item.IsList {
				names = append(names, item.Atom)
			}
		}
		zone.LayerMask = layers.ResolveSet(names)
		if len(names) > 0 {
			zone.Layer = names[0]
		}
	}

	if minNode, ok := node.Find("min_thickness"); ok {
		if m, err := minNode.Float(1); err == nil {
			zone.MinThickness = nm(m)
		}
	}

	if polyNode, ok := node.Find("polygon"); ok {
		pts, err := parsePolygonPoints(polyNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse zone outline: %w", err)
		}
		zone.Outline = pts
	}

	for _, fillNode := range node.FindAll("filled_polygon") {
		pts, err := parsePolygonPoints(fillNode)
		if err != nil {
			return nil, fmt.Errorf("failed to parse zone fill: %w", err)
		}
		zone.Fills = append(zone.Fills, pts)
	}

	return zone, nil
}

// parsePolygonPoints reads the (pts (xy ..) (xy ..) ...) child of a
// polygon or filled_polygon node.
func parsePolygonPoints(node sexpr.Value) ([]tracks.Point, error) {
	ptsNode, found := node.Find("pts")
	if !found {
		return nil, fmt.Errorf("polygon missing pts")
	}
	var points []tracks.Point
	for _, xy := range ptsNode.FindAll("xy") {
		p, err := parsePoint(xy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse polygon point: %w", err)
		}
		points = append(points, p)
	}
	return points, nil
}
