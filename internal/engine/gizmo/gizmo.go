// Package gizmo implements the axis-constrained transform gizmo and its
// drag state machine.
package gizmo

import (
	"github.com/aerostudio/aerocalc/internal/engine/picking"
	"github.com/aerostudio/aerocalc/pkg/math"
)

// Handle geometry shared by hit testing and rendering.
const (
	HandleLength  float32 = 2.0
	PickThreshold float32 = 0.25
)

// State of the manipulation controller.
type State int

const (
	StateIdle State = iota
	StateAxisHover
	StateDragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAxisHover:
		return "axis-hover"
	case StateDragging:
		return "dragging"
	}
	return "idle"
}

// Controller tracks which gizmo handle is hot and runs drags against a
// position snapshot taken when the drag starts.
type Controller struct {
	state State
	axis  picking.Axis

	snapshot math.Vec3
	accumX   float32
	accumY   float32
}

// NewController returns a controller in the idle state.
func NewController() *Controller {
	return &Controller{}
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Axis returns the hot axis, or AxisNone when idle.
func (c *Controller) Axis() picking.Axis {
	if c.state == StateIdle {
		return picking.AxisNone
	}
	return c.axis
}

// Snapshot returns the position captured at drag start. Only meaningful
// while dragging.
func (c *Controller) Snapshot() math.Vec3 {
	return c.snapshot
}

// Hover updates the hot axis from a hit test. Ignored mid-drag so a
// fast mouse cannot switch axes under an active drag.
func (c *Controller) Hover(axis picking.Axis) {
	if c.state == StateDragging {
		return
	}
	if axis == picking.AxisNone {
		c.state = StateIdle
		c.axis = picking.AxisNone
		return
	}
	c.state = StateAxisHover
	c.axis = axis
}

// BeginDrag starts a drag from the hovered axis, capturing the object's
// current position. Returns false if no axis is hovered.
func (c *Controller) BeginDrag(position math.Vec3) bool {
	if c.state != StateAxisHover {
		return false
	}
	c.state = StateDragging
	c.snapshot = position
	c.accumX = 0
	c.accumY = 0
	return true
}

// Drag accumulates a screen-space delta and returns the new object
// position: the accumulated delta is mapped through the camera basis
// and projected onto the locked axis, so only that component moves.
// Speed scales with zoom for consistent feel at any distance.
func (c *Controller) Drag(dx, dy float32, right, up math.Vec3, zoom float32) (math.Vec3, bool) {
	if c.state != StateDragging {
		return math.Vec3{}, false
	}

	c.accumX += dx
	c.accumY += dy

	// Screen Y grows downward.
	world := right.Scale(c.accumX).Add(up.Scale(-c.accumY))
	dir := c.axis.Direction()
	amount := world.Dot(dir) * zoom * 0.002

	return c.snapshot.Add(dir.Scale(amount)), true
}

// EndDrag completes the drag. The snapshot does not persist; the next
// drag starts fresh. The handle stays hot until the next hit test.
func (c *Controller) EndDrag() {
	if c.state != StateDragging {
		return
	}
	c.state = StateAxisHover
	c.accumX = 0
	c.accumY = 0
}

// Cancel aborts any drag and returns to idle, reporting the snapshot so
// the caller can restore the object. The bool is false when no drag was
// in progress.
func (c *Controller) Cancel() (math.Vec3, bool) {
	wasDragging := c.state == StateDragging
	snap := c.snapshot
	c.state = StateIdle
	c.axis = picking.AxisNone
	c.accumX = 0
	c.accumY = 0
	return snap, wasDragging
}
