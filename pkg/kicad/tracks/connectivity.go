package tracks

// BuildConnectivity recomputes the transient connectivity record of every
// item in the list: the pads each item touches, the endpoint-locked pad
// per end, and the other items sharing an endpoint on a common layer.
// Any previous record, including removal flags, is discarded.
//
// Pad matching deliberately ignores nets: a trace ending on a pad of a
// different net is exactly the condition the short-circuit pass needs to
// see, so filtering here would blind it.
func (l *List) BuildConnectivity(pads []Pad) {
	for it := l.head; it != nil; it = it.next {
		it.clearConnectivity()
	}

	for it := l.head; it != nil; it = it.next {
		for _, pad := range pads {
			if !pad.Layers().Overlaps(it.Layers()) {
				continue
			}
			hitStart := pad.HitTest(it.start)
			hitEnd := it.kind != Via && pad.HitTest(it.end)
			if !hitStart && !hitEnd {
				continue
			}
			it.padsConnected = append(it.padsConnected, pad)
			if hitStart {
				it.startOnPad = true
				if it.startPad == nil {
					it.startPad = pad
				}
			}
			if hitEnd {
				it.endOnPad = true
				if it.endPad == nil {
					it.endPad = pad
				}
			}
		}
	}

	// Items meet when they share an exact endpoint on a common layer.
	byPoint := make(map[Point][]*Item, l.count)
	add := func(p Point, it *Item) {
		byPoint[p] = append(byPoint[p], it)
	}
	for it := l.head; it != nil; it = it.next {
		add(it.start, it)
		if it.kind != Via && it.end != it.start {
			add(it.end, it)
		}
	}
	for _, group := range byPoint {
		for i, a := range group {
			for _, b := range group[i+1:] {
				if a == b || !a.Layers().Overlaps(b.Layers()) {
					continue
				}
				if !containsItem(a.itemsConnected, b) {
					a.itemsConnected = append(a.itemsConnected, b)
				}
				if !containsItem(b.itemsConnected, a) {
					b.itemsConnected = append(b.itemsConnected, a)
				}
			}
		}
	}
}

// ClearConnectivity drops every item's transient connectivity record.
func (l *List) ClearConnectivity() {
	for it := l.head; it != nil; it = it.next {
		it.clearConnectivity()
	}
}

func containsItem(items []*Item, target *Item) bool {
	for _, it := range items {
		if it == target {
			return true
		}
	}
	return false
}

// detachEverywhere scrubs the item out of its neighbors' connectivity
// records so a removal cannot leave dangling references behind.
func (it *Item) detachEverywhere() {
	for _, other := range it.itemsConnected {
		for i, c := range other.itemsConnected {
			if c == it {
				other.itemsConnected = append(other.itemsConnected[:i], other.itemsConnected[i+1:]...)
				break
			}
		}
	}
	it.clearConnectivity()
}
