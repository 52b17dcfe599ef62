package tracks

// Options selects the cleanup passes to run. The zero value runs nothing.
type Options struct {
	// CleanVias removes duplicate through vias and vias made redundant
	// by a pad spanning every copper layer.
	CleanVias bool
	// MergeSegments removes null and duplicate traces and merges
	// collinear trace pairs meeting at a plain junction.
	MergeSegments bool
	// RemoveMisConnected removes traces and vias that short two nets
	// together. Without MergeSegments it also drops null traces first.
	RemoveMisConnected bool
	// DeleteDangling removes track stubs with an unsupported end,
	// iterating until no stub remains.
	DeleteDangling bool
}

// Any reports whether at least one pass is enabled.
func (o Options) Any() bool {
	return o.CleanVias || o.MergeSegments || o.RemoveMisConnected || o.DeleteDangling
}

// Cleaner runs the cleanup passes over one track list. The pads and
// zones are the board's fixed copper the passes test against; copperMask
// is the set of copper layers the board actually has.
type Cleaner struct {
	list       *List
	pads       []Pad
	zones      ZoneFinder
	recorder   Recorder
	copperMask LayerSet
}

// NewCleaner builds a cleaner. zones and recorder may be nil.
func NewCleaner(list *List, pads []Pad, zones ZoneFinder, copperMask LayerSet, rec Recorder) *Cleaner {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Cleaner{
		list:       list,
		pads:       pads,
		zones:      zones,
		recorder:   rec,
		copperMask: copperMask,
	}
}

// Cleanup runs the selected passes in their fixed order and reports
// whether anything changed. The order matters: via cleanup first so
// merged traces do not resurrect junctions, short-circuit removal before
// dangling removal so a shorting stub does not count as support, and a
// final merge pass because dangling removal can expose new plain
// junctions.
func (c *Cleaner) Cleanup(opts Options) bool {
	modified := false

	if c.repairVias() {
		modified = true
	}

	c.list.BuildConnectivity(c.pads)

	if opts.CleanVias && c.cleanVias() {
		modified = true
	}

	if opts.MergeSegments {
		if c.mergeSegments() {
			modified = true
		}
	} else if opts.RemoveMisConnected {
		if c.removeNullSegments() {
			modified = true
		}
	}

	if opts.RemoveMisConnected && c.removeShortCircuits() {
		modified = true
	}

	if opts.DeleteDangling {
		if c.deleteDanglingTracks() {
			modified = true
			if opts.MergeSegments && c.mergeSegments() {
				modified = true
			}
		}
	}

	return modified
}

// repairVias forces every via's end back onto its start. A split via is
// a file defect; fixing it up front keeps the point-equality predicates
// honest for the rest of the run.
func (c *Cleaner) repairVias() bool {
	modified := false
	for it := c.list.Front(); it != nil; it = it.next {
		if it.kind == Via && it.end != it.start {
			before := it.Snapshot()
			it.end = it.start
			c.recorder.Modified(it, before)
			modified = true
		}
	}
	return modified
}

// cleanVias removes through vias stacked on the same point, keeping the
// first, and through vias made redundant by a connected pad that spans
// every copper layer of the board.
func (c *Cleaner) cleanVias() bool {
	modified := false
	it := c.list.Front()
	for it != nil {
		next := it.next
		if it.kind != Via || it.viaType != ViaThrough {
			it = next
			continue
		}
		removed := false
		for _, pad := range it.padsConnected {
			if pad.Layers().ContainsAll(c.copperMask) {
				c.remove(it)
				modified = true
				removed = true
				break
			}
		}
		if !removed {
			// Stacked duplicates can belong to different nets, so the
			// search covers the whole list, not just this net's run.
			alt := it.next
			for alt != nil {
				altNext := alt.next
				if alt.kind == Via && alt.viaType == ViaThrough && alt.start == it.start {
					if alt == next {
						next = altNext
					}
					c.remove(alt)
					modified = true
				}
				alt = altNext
			}
		}
		it = next
	}
	return modified
}

// mergeSegments removes null and duplicate traces, then repeatedly merges
// collinear trace pairs that meet at a plain two-way junction until the
// list is stable.
func (c *Cleaner) mergeSegments() bool {
	modified := false
	if c.removeNullSegments() {
		modified = true
	}
	if c.removeDuplicateSegments() {
		modified = true
	}
	for {
		c.list.BuildConnectivity(c.pads)
		merged := false
	scan:
		for it := c.list.Front(); it != nil; it = it.next {
			if it.kind != Trace {
				continue
			}
			for _, e := range []Endpoint{AtStart, AtEnd} {
				if other := c.mergeCandidate(it, e); other != nil {
					c.mergeInto(it, other, e)
					modified = true
					merged = true
					// Connectivity is stale after a merge; restart.
					break scan
				}
			}
		}
		if !merged {
			return modified
		}
	}
}

// mergeCandidate returns the single trace that meets it at the selected
// endpoint and may be merged into it, or nil. Merging needs a plain
// junction: exactly two traces meet, no via sits there, the junction is
// not on a pad, and the traces agree on net, layer, width and direction.
func (c *Cleaner) mergeCandidate(it *Item, e Endpoint) *Item {
	if it.OnPad(e) {
		return nil
	}
	pos := it.Endpoint(e)
	var other *Item
	for _, cand := range it.itemsConnected {
		if !cand.HasEndpoint(pos) {
			continue
		}
		if cand.kind == Via {
			return nil
		}
		if other != nil {
			return nil
		}
		other = cand
	}
	if other == nil {
		return nil
	}
	if other.netCode != it.netCode || other.layer != it.layer || other.width != it.width {
		return nil
	}
	if !collinearTraces(it, other) {
		return nil
	}
	return other
}

// mergeInto extends it over other and removes other. The merged span is
// the widest pair among the three distinct junction points, so a trace
// doubling back over its neighbor never loses copper.
func (c *Cleaner) mergeInto(it, other *Item, e Endpoint) {
	shared := it.Endpoint(e)
	far := it.Endpoint(1 - e)
	otherFar := other.start
	if otherFar == shared {
		otherFar = other.end
	}

	a, b := mergedSpan(far, otherFar, shared)
	before := it.Snapshot()
	it.start = a
	it.end = b
	c.recorder.Modified(it, before)
	c.remove(other)
}

// mergedSpan picks the two of the three collinear points that span the
// other one.
func mergedSpan(a, b, shared Point) (Point, Point) {
	switch {
	case pointOnSegment(shared, a, b):
		return a, b
	case pointOnSegment(b, a, shared):
		return a, shared
	default:
		return b, shared
	}
}

// removeNullSegments drops zero length traces.
func (c *Cleaner) removeNullSegments() bool {
	modified := false
	it := c.list.Front()
	for it != nil {
		next := it.next
		if it.IsNull() {
			c.remove(it)
			modified = true
		}
		it = next
	}
	return modified
}

// removeDuplicateSegments drops traces that duplicate an earlier trace
// of the same net: same layer, same width, same endpoints in either
// orientation. Duplicates lie within one net's run, so the scan is
// net-scoped.
func (c *Cleaner) removeDuplicateSegments() bool {
	modified := false
	it := c.list.Front()
	for it != nil {
		next := it.next
		if it.kind != Trace {
			it = next
			continue
		}
		alt := next
		for alt != nil && alt.netCode == it.netCode {
			altNext := alt.next
			if alt.kind == Trace && alt.layer == it.layer && alt.width == it.width &&
				((alt.start == it.start && alt.end == it.end) ||
					(alt.start == it.end && alt.end == it.start)) {
				if alt == next {
					next = altNext
				}
				c.remove(alt)
				modified = true
			}
			alt = altNext
		}
		it = next
	}
	return modified
}

// removeShortCircuits flags and removes items that join two nets: items
// touching a pad of another net, and items touching a not yet flagged
// item of another net. The sweep is a single forward pass, so of two
// items shorting only each other the earlier is flagged and the later,
// seeing its partner already flagged, survives for the dangling pass to
// judge.
func (c *Cleaner) removeShortCircuits() bool {
	for it := c.list.Front(); it != nil; it = it.next {
		it.flagged = false
		for _, pad := range it.padsConnected {
			if pad.NetCode() != it.netCode {
				it.flagged = true
				break
			}
		}
		if it.flagged {
			continue
		}
		for _, other := range it.itemsConnected {
			if other.netCode != it.netCode && !other.flagged {
				it.flagged = true
				break
			}
		}
	}

	modified := false
	it := c.list.Front()
	for it != nil {
		next := it.next
		if it.flagged {
			c.remove(it)
			modified = true
		}
		it = next
	}
	if modified {
		c.list.BuildConnectivity(c.pads)
	}
	return modified
}

// deleteDanglingTracks removes items with an unsupported end until none
// remain. Removing a stub can strand its neighbor, hence the fixpoint
// loop with a fresh connectivity build per round.
func (c *Cleaner) deleteDanglingTracks() bool {
	modified := false
	for {
		c.list.BuildConnectivity(c.pads)
		removedAny := false
		it := c.list.Front()
		for it != nil {
			next := it.next
			if c.isDangling(it) {
				c.remove(it)
				modified = true
				removedAny = true
			}
			it = next
		}
		if !removedAny {
			return modified
		}
	}
}

// isDangling reports whether the item has an end nothing holds up.
func (c *Cleaner) isDangling(it *Item) bool {
	if it.kind == Via {
		return !c.endpointSupported(it, AtStart, map[*Item]bool{})
	}
	return !c.endpointSupported(it, AtStart, map[*Item]bool{}) ||
		!c.endpointSupported(it, AtEnd, map[*Item]bool{})
}

// endpointSupported reports whether anything anchors the selected end: a
// pad under it, a zone fill of the same net, or another same-net item at
// the same point. A via only counts as an anchor when something beyond
// the current chain anchors the via in turn, so a trace ending on an
// otherwise isolated via is still dangling. The visited set bounds the
// via chase on cyclic connectivity.
func (c *Cleaner) endpointSupported(it *Item, e Endpoint, visited map[*Item]bool) bool {
	if it.OnPad(e) {
		return true
	}
	pos := it.Endpoint(e)
	if c.zones != nil && c.zones.HitTestFilledArea(pos, it.Layers(), it.netCode) {
		return true
	}
	visited[it] = true
	for _, other := range it.itemsConnected {
		if visited[other] || other.netCode != it.netCode || !other.HasEndpoint(pos) {
			continue
		}
		if other.kind == Via {
			if c.viaAnchored(other, visited) {
				return true
			}
			continue
		}
		return true
	}
	return false
}

// viaAnchored reports whether the via connects to something outside the
// chain that led to it.
func (c *Cleaner) viaAnchored(v *Item, visited map[*Item]bool) bool {
	visited[v] = true
	if v.startOnPad {
		return true
	}
	if c.zones != nil && c.zones.HitTestFilledArea(v.start, v.Layers(), v.netCode) {
		return true
	}
	for _, other := range v.itemsConnected {
		if visited[other] || other.netCode != v.netCode {
			continue
		}
		if other.kind == Via {
			if c.viaAnchored(other, visited) {
				return true
			}
			continue
		}
		return true
	}
	return false
}

// remove reports the item to the recorder, scrubs it out of its
// neighbors' connectivity records and unlinks it from the list.
func (c *Cleaner) remove(it *Item) {
	c.recorder.Removed(it)
	it.detachEverywhere()
	c.list.Remove(it)
}
