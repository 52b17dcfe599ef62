package tracks

import "github.com/google/uuid"

// ItemState is the mutable geometry of an item captured at one moment,
// used to report what a modification changed.
type ItemState struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
	Width int64 `json:"width"`
}

// Snapshot captures the item's current geometry.
func (it *Item) Snapshot() ItemState {
	return ItemState{Start: it.start, End: it.end, Width: it.width}
}

// Recorder receives the cleanup passes' edits as they happen. The board
// document uses it to stay in sync with the track list; the CLI uses it
// to build the change report.
type Recorder interface {
	// Removed is called before the item is unlinked from the list.
	Removed(it *Item)
	// Modified is called after an in-place geometry change, with the
	// state the item had before the edit.
	Modified(it *Item, before ItemState)
}

// Change is one recorded edit in a cleanup run.
type Change struct {
	Op      string     `json:"op"` // "removed" or "modified"
	Kind    string     `json:"kind"`
	ID      uuid.UUID  `json:"id"`
	NetCode int        `json:"net_code"`
	Start   Point      `json:"start"`
	End     Point      `json:"end"`
	Before  *ItemState `json:"before,omitempty"`
}

// ChangeLog is a Recorder that accumulates changes in memory.
type ChangeLog struct {
	Changes []Change
}

func (c *ChangeLog) Removed(it *Item) {
	c.Changes = append(c.Changes, Change{
		Op:      "removed",
		Kind:    it.kind.String(),
		ID:      it.ID,
		NetCode: it.netCode,
		Start:   it.start,
		End:     it.end,
	})
}

func (c *ChangeLog) Modified(it *Item, before ItemState) {
	b := before
	c.Changes = append(c.Changes, Change{
		Op:      "modified",
		Kind:    it.kind.String(),
		ID:      it.ID,
		NetCode: it.netCode,
		Start:   it.start,
		End:     it.end,
		Before:  &b,
	})
}

// Removals counts the removed entries.
func (c *ChangeLog) Removals() int {
	n := 0
	for _, ch := range c.Changes {
		if ch.Op == "removed" {
			n++
		}
	}
	return n
}

// nopRecorder discards everything; used when no recorder is supplied.
type nopRecorder struct{}

func (nopRecorder) Removed(*Item)             {}
func (nopRecorder) Modified(*Item, ItemState) {}
