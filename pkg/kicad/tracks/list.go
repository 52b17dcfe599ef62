package tracks

import "sort"

// List is the net-ordered doubly linked track list plus its per-net head
// index. The structural invariant is that items of one net are contiguous
// and nets appear in ascending net code order; the index maps each net
// code to the first item carrying it.
//
// The index is allowed to go stale between maintenance points: lookups
// resynchronize lazily by walking backwards from the recorded head to the
// true first item of the net.
type List struct {
	head  *Item
	tail  *Item
	count int
	seq   int

	firstInNet []*Item
}

// NewList returns an empty track list sized for net codes up to maxNet.
// The index grows on demand, so maxNet is only a hint.
func NewList(maxNet int) *List {
	if maxNet < 0 {
		maxNet = 0
	}
	return &List{firstInNet: make([]*Item, maxNet+1)}
}

// Front returns the first item, nil when empty.
func (l *List) Front() *Item { return l.head }

// Back returns the last item, nil when empty.
func (l *List) Back() *Item { return l.tail }

// Len returns the number of items.
func (l *List) Len() int { return l.count }

// Append links the item at the tail without regard for net ordering.
// Callers loading a board append everything and Sort once.
func (l *List) Append(it *Item) {
	it.seq = l.seq
	l.seq++
	it.prev = l.tail
	it.next = nil
	if l.tail != nil {
		l.tail.next = it
	} else {
		l.head = it
	}
	l.tail = it
	l.count++
	l.indexInsert(it)
}

// InsertAfter links the item immediately after pos. A nil pos inserts at
// the front of the list.
func (l *List) InsertAfter(it *Item, pos *Item) {
	it.seq = l.seq
	l.seq++
	if pos == nil {
		it.prev = nil
		it.next = l.head
		if l.head != nil {
			l.head.prev = it
		} else {
			l.tail = it
		}
		l.head = it
	} else {
		it.prev = pos
		it.next = pos.next
		if pos.next != nil {
			pos.next.prev = it
		} else {
			l.tail = it
		}
		pos.next = it
	}
	l.count++
	l.indexInsert(it)
}

// InsertOrdered places the item at its net-ordered position: after the
// predecessor returned by BestInsertPoint for the item's net.
func (l *List) InsertOrdered(it *Item) {
	l.InsertAfter(it, l.BestInsertPoint(it.netCode))
}

// Remove unlinks the item and repairs the net head index. The item's
// links are cleared; it must not be reused in the list afterwards.
func (l *List) Remove(it *Item) {
	l.indexRemove(it)
	if it.prev != nil {
		it.prev.next = it.next
	} else {
		l.head = it.next
	}
	if it.next != nil {
		it.next.prev = it.prev
	} else {
		l.tail = it.prev
	}
	it.prev = nil
	it.next = nil
	l.count--
}

// FirstInNet returns the first item of the net, resynchronizing the index
// entry if list edits left it pointing mid-run. Returns nil when the net
// has no items.
func (l *List) FirstInNet(netCode int) *Item {
	if netCode < 0 || netCode >= len(l.firstInNet) {
		return nil
	}
	it := l.firstInNet[netCode]
	if it == nil {
		return nil
	}
	// The recorded head can be stale after inserts before it; walk back
	// to the true first item of the run.
	for it.prev != nil && it.prev.netCode == netCode {
		it = it.prev
	}
	l.firstInNet[netCode] = it
	return it
}

// BestInsertPoint returns the item a new member of the net should be
// linked after, or nil to insert at the very front. With the list in net
// order the result keeps it in net order: the predecessor of the net's
// first item when the net exists, the predecessor of the next populated
// net's first item otherwise, and the list tail when no later net exists.
func (l *List) BestInsertPoint(netCode int) *Item {
	if l.head == nil {
		return nil
	}
	if netCode <= l.head.netCode {
		return nil
	}
	if first := l.FirstInNet(netCode); first != nil {
		return first.prev
	}
	for nc := netCode + 1; nc < len(l.firstInNet); nc++ {
		if first := l.FirstInNet(nc); first != nil {
			return first.prev
		}
	}
	return l.tail
}

// Sort rebuilds the list in ascending net code order, preserving the
// relative order of items within a net, and rebuilds the index from
// scratch. Loading and bulk edits call this once instead of paying for
// ordered insertion per item.
func (l *List) Sort() {
	if l.count < 2 {
		return
	}
	items := make([]*Item, 0, l.count)
	for it := l.head; it != nil; it = it.next {
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].netCode != items[j].netCode {
			return items[i].netCode < items[j].netCode
		}
		return items[i].seq < items[j].seq
	})
	for i := range l.firstInNet {
		l.firstInNet[i] = nil
	}
	l.head = nil
	l.tail = nil
	var prev *Item
	for _, it := range items {
		it.prev = prev
		it.next = nil
		if prev != nil {
			prev.next = it
		} else {
			l.head = it
		}
		l.tail = it
		prev = it
		if nc := it.netCode; nc >= 0 {
			l.growIndex(nc)
			if l.firstInNet[nc] == nil {
				l.firstInNet[nc] = it
			}
		}
	}
}

func (l *List) growIndex(netCode int) {
	if netCode < len(l.firstInNet) {
		return
	}
	grown := make([]*Item, netCode+1)
	copy(grown, l.firstInNet)
	l.firstInNet = grown
}

// indexInsert makes the item the net head when the net had none or when
// the item now precedes the recorded head.
func (l *List) indexInsert(it *Item) {
	nc := it.netCode
	if nc < 0 {
		return
	}
	l.growIndex(nc)
	if l.firstInNet[nc] == nil {
		l.firstInNet[nc] = it
		return
	}
	// Only repoint if it truly became the first of the run.
	if it.prev == nil || it.prev.netCode < nc {
		l.firstInNet[nc] = it
	}
}

// indexRemove repoints the net head away from the item being unlinked:
// to the previous item when it shares the net, else to the next item
// when it shares the net, else the net becomes empty.
func (l *List) indexRemove(it *Item) {
	nc := it.netCode
	if nc < 0 || nc >= len(l.firstInNet) {
		return
	}
	if l.FirstInNet(nc) != it {
		return
	}
	switch {
	case it.prev != nil && it.prev.netCode == nc:
		l.firstInNet[nc] = it.prev
	case it.next != nil && it.next.netCode == nc:
		l.firstInNet[nc] = it.next
	default:
		l.firstInNet[nc] = nil
	}
}

// MaxNetCode returns the highest net code the index can currently hold.
func (l *List) MaxNetCode() int { return len(l.firstInNet) - 1 }
