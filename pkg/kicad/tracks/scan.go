package tracks

// ScanNet visits the items of start's net from start forward, stopping at
// the end of the net's contiguous run. The visit callback returns true to
// stop early; ScanNet then returns the item it stopped on, or nil when
// the run was exhausted. The list must be in net order.
func (l *List) ScanNet(start *Item, visit func(*Item) bool) *Item {
	if start == nil {
		return nil
	}
	net := start.netCode
	for it := start; it != nil && it.netCode == net; it = it.next {
		if visit(it) {
			return it
		}
	}
	return nil
}

// ScanNetReverse visits the items of start's net from start backward,
// stopping at the head of the net's contiguous run.
func (l *List) ScanNetReverse(start *Item, visit func(*Item) bool) *Item {
	if start == nil {
		return nil
	}
	net := start.netCode
	for it := start; it != nil && it.netCode == net; it = it.prev {
		if visit(it) {
			return it
		}
	}
	return nil
}

// ViaAt returns a via of the net sitting exactly at pos, or nil.
func (l *List) ViaAt(netCode int, pos Point) *Item {
	return l.ScanNet(l.FirstInNet(netCode), func(it *Item) bool {
		return it.kind == Via && it.start == pos
	})
}

// ViaAtStart returns a via of the item's net at the item's start point.
// The search runs backward from the item through the earlier part of the
// net, then forward from the item itself, so the nearest via in list
// order wins.
func (l *List) ViaAtStart(it *Item) *Item {
	if it == nil {
		return nil
	}
	pos := it.start
	if v := l.ScanNetReverse(it, func(c *Item) bool {
		return c.kind == Via && c.start == pos
	}); v != nil {
		return v
	}
	if it.next == nil || it.next.netCode != it.netCode {
		return nil
	}
	return l.ScanNet(it.next, func(c *Item) bool {
		return c.kind == Via && c.start == pos
	})
}

// ViaAtEnd returns a via of the item's net at the item's end point,
// scanning the whole net forward from its head.
func (l *List) ViaAtEnd(it *Item) *Item {
	if it == nil {
		return nil
	}
	pos := it.end
	return l.ScanNet(l.FirstInNet(it.netCode), func(c *Item) bool {
		return c != it && c.kind == Via && c.start == pos
	})
}

// BadConnectedVias returns the vias of the net that sit close enough to
// pos to overlap a via there without landing on it exactly: distance
// greater than zero and below half the via width. These are drawing
// defects a cleanup report should call out.
func (l *List) BadConnectedVias(netCode int, pos Point) []*Item {
	var bad []*Item
	l.ScanNet(l.FirstInNet(netCode), func(it *Item) bool {
		if it.kind != Via || it.start == pos {
			return false
		}
		if it.start.DistanceTo(pos) < float64(it.width)/2 {
			bad = append(bad, it)
		}
		return false
	})
	return bad
}

// NetLength returns the total routed copper length of the net in
// nanometers. Vias contribute nothing; only trace geometry counts.
func (l *List) NetLength(netCode int) float64 {
	var total float64
	l.ScanNet(l.FirstInNet(netCode), func(it *Item) bool {
		if it.kind == Trace {
			total += it.Length()
		}
		return false
	})
	return total
}

// NetItemCount returns how many traces and vias the net holds.
func (l *List) NetItemCount(netCode int) (traces, vias int) {
	l.ScanNet(l.FirstInNet(netCode), func(it *Item) bool {
		if it.kind == Via {
			vias++
		} else {
			traces++
		}
		return false
	})
	return traces, vias
}
