package workbench

import (
	"github.com/workgrid/workgrid-studio/internal/models"
)

// SashDrag turns continuous pointer motion over a pane divider into discrete
// resize calls on the store. It is a two-state machine: idle until
// PointerDown, dragging until PointerUp. Each move reports its delta against
// the previous move's coordinate, so the resize per event is incremental and
// a slow pointer and a fast pointer converge on the same final ratio.
type SashDrag struct {
	store *Store

	dragging  bool
	nodeID    string
	direction models.SplitDirection
	lastPos   float64
}

// NewSashDrag creates a controller bound to the store it resizes.
func NewSashDrag(store *Store) *SashDrag {
	return &SashDrag{store: store}
}

// Dragging reports whether a drag is in progress.
func (d *SashDrag) Dragging() bool {
	return d.dragging
}

// PointerDown starts a drag on the divider of nodeID. The coordinate is the
// pointer position along the node's split axis.
func (d *SashDrag) PointerDown(nodeID string, direction models.SplitDirection, pos float64) {
	d.dragging = true
	d.nodeID = nodeID
	d.direction = direction
	d.lastPos = pos
}

// PointerMove forwards one motion event. extent is the container size along
// the drag axis measured at drag time: height for a horizontal divider,
// width for a vertical one. A zero extent contributes no delta, so there is
// never a division by zero. Moves while idle are ignored.
func (d *SashDrag) PointerMove(pos, extent float64) {
	if !d.dragging {
		return
	}
	delta := pos - d.lastPos
	d.lastPos = pos

	if extent <= 0 || delta == 0 {
		return
	}
	node := models.FindNode(d.store.Snapshot(), d.nodeID)
	if node == nil {
		return
	}
	d.store.ResizeNode(d.nodeID, node.Ratio+delta/extent)
}

// PointerUp ends the drag and returns to idle.
func (d *SashDrag) PointerUp() {
	d.dragging = false
	d.nodeID = ""
}
