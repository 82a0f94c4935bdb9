// Package scene owns the viewport state: the loaded mesh and its GPU
// buffer, the wind-source plane, the camera, selection, and the
// manipulation state machine. All mutation happens on the render thread
// through the controller; nothing here touches OpenGL directly.
package scene

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aerostudio/aerocalc/internal/aero"
	"github.com/aerostudio/aerocalc/internal/engine/camera"
	"github.com/aerostudio/aerocalc/internal/engine/gizmo"
	"github.com/aerostudio/aerocalc/internal/engine/picking"
	"github.com/aerostudio/aerocalc/internal/logger"
	"github.com/aerostudio/aerocalc/pkg/math"
	"github.com/aerostudio/aerocalc/pkg/obj"
)

// ObjectKind tags what is currently selected.
type ObjectKind int

const (
	KindNone ObjectKind = iota
	KindMesh
	KindWindPlane
)

// String returns the kind name.
func (k ObjectKind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindWindPlane:
		return "wind-plane"
	}
	return "none"
}

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// WindPlane is the wind-source plane scene object. Only its position is
// manipulated through the gizmo; size and rotation come from direct edits.
type WindPlane struct {
	Size     math.Vec2 // width (X) by height (Y)
	Position math.Vec3
	Rotation math.Vec3 // degrees
}

// Selection pairs the picked object with the hot gizmo axis.
// Axis != none only ever holds while an object is selected.
type Selection struct {
	Object ObjectKind
	Axis   picking.Axis
}

// Buffers is the GPU buffer slot the controller owns. Upload replaces
// the previous contents; Release is idempotent.
type Buffers interface {
	Upload(positions, normals []float32) error
	SetColors(colors []float32) error
	Release()
}

// Default wind-plane placement: upstream of the model on +X.
var defaultPlanePosition = math.Vec3{X: 6}

// Controller orchestrates the viewport.
type Controller struct {
	Camera *camera.Camera

	mesh     *obj.Mesh
	meshPath string
	buffers  Buffers

	windPlane *WindPlane

	selection Selection
	manip     *gizmo.Controller

	ShowGrid bool
	ShowAxes bool

	width  int
	height int

	computeForces aero.Calculator
	flow          aero.FlowConditions
	forces        *aero.Forces

	onMeshLoaded       func(*obj.Mesh)
	onSelectionChanged func(Selection)
}

// NewController creates a controller rendering into the given viewport
// size, with buffers as its GPU slot.
func NewController(buffers Buffers, width, height int) *Controller {
	return &Controller{
		Camera:        camera.New(),
		buffers:       buffers,
		manip:         gizmo.NewController(),
		ShowGrid:      true,
		ShowAxes:      true,
		width:         width,
		height:        height,
		computeForces: aero.Compute,
	}
}

// OnMeshLoaded registers an observer for successful mesh loads.
func (c *Controller) OnMeshLoaded(fn func(*obj.Mesh)) {
	c.onMeshLoaded = fn
}

// OnSelectionChanged registers an observer for selection changes.
func (c *Controller) OnSelectionChanged(fn func(Selection)) {
	c.onSelectionChanged = fn
}

// SetCalculator swaps the force-calculation collaborator.
func (c *Controller) SetCalculator(calc aero.Calculator) {
	c.computeForces = calc
}

// SetFlow updates the flow conditions used by ComputeForces.
func (c *Controller) SetFlow(flow aero.FlowConditions) {
	c.flow = flow
}

// Flow returns the current flow conditions.
func (c *Controller) Flow() aero.FlowConditions {
	return c.flow
}

// Mesh returns the loaded mesh, or nil.
func (c *Controller) Mesh() *obj.Mesh {
	return c.mesh
}

// MeshPath returns the path of the loaded mesh, or empty.
func (c *Controller) MeshPath() string {
	return c.meshPath
}

// WindPlane returns the scene's wind plane, or nil.
func (c *Controller) WindPlane() *WindPlane {
	return c.windPlane
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection {
	return c.selection
}

// Forces returns the last computed loads, or nil.
func (c *Controller) Forces() *aero.Forces {
	return c.forces
}

// Resize updates the viewport dimensions used for picking and projection.
func (c *Controller) Resize(width, height int) {
	if width > 0 && height > 0 {
		c.width = width
		c.height = height
	}
}

// LoadMesh parses a mesh file and swaps it into the scene. On any
// failure the previous mesh, buffer and selection stay authoritative.
func (c *Controller) LoadMesh(path string) error {
	mesh, err := obj.Load(path)
	if err != nil {
		return fmt.Errorf("loading mesh: %w", err)
	}

	// Upload releases the previous buffer only after its own
	// precondition checks pass, so a failed upload keeps the old data.
	if err := c.buffers.Upload(mesh.FlatPositions(), mesh.FlatNormals()); err != nil {
		return fmt.Errorf("uploading mesh: %w", err)
	}

	if c.selection.Object == KindMesh {
		c.setSelection(Selection{})
		c.manip.Cancel()
	}

	c.mesh = mesh
	c.meshPath = path
	c.forces = nil // stale pressure overlay does not survive a reload

	logger.Info("mesh loaded",
		zap.String("path", path),
		zap.Int("vertices", mesh.VertexCount()),
		zap.Int("triangles", mesh.TriangleCount()),
	)

	if c.onMeshLoaded != nil {
		c.onMeshLoaded(mesh)
	}
	return nil
}

// CreateWindPlane adds the wind-source plane, replacing any existing
// one. Width and height must be positive.
func (c *Controller) CreateWindPlane(width, height float32) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid wind plane size %gx%g", width, height)
	}
	c.windPlane = &WindPlane{
		Size:     math.Vec2{X: width, Y: height},
		Position: defaultPlanePosition,
	}
	return nil
}

// RemoveWindPlane deletes the plane. A drag in progress on it is
// cancelled and the selection cleared, so the controller never applies
// a transform to a deleted object.
func (c *Controller) RemoveWindPlane() {
	if c.windPlane == nil {
		return
	}
	c.windPlane = nil
	if c.selection.Object == KindWindPlane {
		c.manip.Cancel()
		c.setSelection(Selection{})
	}
}

// ComputeForces runs the force calculator against the loaded mesh and
// pushes the resulting pressure overlay into the color buffer.
func (c *Controller) ComputeForces() (*aero.Forces, error) {
	if c.mesh == nil {
		return nil, aero.ErrEmptyMesh
	}

	forces, err := c.computeForces(c.mesh, c.flow)
	if err != nil {
		return nil, err
	}
	c.forces = forces

	if err := c.buffers.SetColors(aero.CpColors(forces.Cp)); err != nil {
		return nil, fmt.Errorf("applying pressure overlay: %w", err)
	}

	logger.Info("forces computed",
		zap.Float32("lift", forces.Lift),
		zap.Float32("drag", forces.Drag),
		zap.Float32("moment", forces.Moment),
	)
	return forces, nil
}

// ResetView restores the default camera pose.
func (c *Controller) ResetView() {
	c.Camera.Reset()
}

// OnScroll zooms the camera.
func (c *Controller) OnScroll(ticks float32) {
	c.Camera.ZoomDelta(ticks)
}

// ClearSelection drops the selection unless a drag is in progress; an
// active drag must complete or be cancelled through its own path.
func (c *Controller) ClearSelection() {
	if c.manip.State() == gizmo.StateDragging {
		return
	}
	c.manip.Cancel()
	c.setSelection(Selection{})
}

// OnPointerDown handles a button press at pixel (x, y).
func (c *Controller) OnPointerDown(x, y float32, button Button) {
	if button != ButtonLeft {
		return
	}

	// Re-test the handles at the press position; the last hover may be
	// stale if the press arrives without an intervening move.
	c.updateHover(x, y)

	// Press on a hot axis starts a drag against the selected object.
	if c.selection.Object == KindWindPlane && c.manip.State() == gizmo.StateAxisHover {
		if c.windPlane != nil && c.manip.BeginDrag(c.windPlane.Position) {
			c.setSelection(Selection{Object: KindWindPlane, Axis: c.manip.Axis()})
			return
		}
	}

	// Otherwise this is a pick attempt.
	ray := c.cursorRay(x, y)

	type candidate struct {
		kind   ObjectKind
		center math.Vec3
	}
	var candidates []candidate
	if c.windPlane != nil {
		candidates = append(candidates, candidate{KindWindPlane, c.windPlane.Position})
	}
	if c.mesh != nil {
		// The mesh is normalized around the origin.
		candidates = append(candidates, candidate{KindMesh, math.Vec3{}})
	}

	centers := make([]math.Vec3, len(candidates))
	for i, cand := range candidates {
		centers[i] = cand.center
	}

	idx := picking.PickNearest(ray, centers, pickThreshold)
	if idx < 0 {
		// Click-away clears the selection.
		c.ClearSelection()
		return
	}
	c.manip.Cancel()
	c.setSelection(Selection{Object: candidates[idx].kind})
}

// OnPointerMove handles cursor motion. left/middle report buttons held
// during the move.
func (c *Controller) OnPointerMove(x, y, dx, dy float32, left, middle bool) {
	// An active gizmo drag consumes the motion.
	if c.manip.State() == gizmo.StateDragging {
		if c.windPlane == nil {
			// Dragged object vanished; discard the drag.
			c.manip.Cancel()
			c.setSelection(Selection{})
			return
		}
		right, up, _ := c.Camera.Basis()
		if pos, ok := c.manip.Drag(dx, dy, right, up, c.Camera.Zoom); ok {
			c.windPlane.Position = pos
		}
		return
	}

	switch {
	case left:
		c.Camera.Orbit(dx, dy)
	case middle:
		c.Camera.PanDelta(dx, dy)
	default:
		c.updateHover(x, y)
	}
}

// OnPointerUp handles a button release.
func (c *Controller) OnPointerUp(x, y float32, button Button) {
	if button != ButtonLeft {
		return
	}
	if c.manip.State() == gizmo.StateDragging {
		c.manip.EndDrag()
		// Handle stays hot; the axis remains part of the selection
		// until the cursor leaves it.
		c.updateHover(x, y)
	}
}

// updateHover runs the axis hit test for the selected wind plane.
func (c *Controller) updateHover(x, y float32) {
	if c.selection.Object != KindWindPlane || c.windPlane == nil {
		return
	}

	ray := c.cursorRay(x, y)
	axis := picking.NearestAxis(ray, c.windPlane.Position, gizmo.HandleLength, gizmo.PickThreshold)
	c.manip.Hover(axis)

	if c.selection.Axis != axis {
		c.setSelection(Selection{Object: KindWindPlane, Axis: axis})
	}
}

func (c *Controller) cursorRay(x, y float32) picking.Ray {
	view := c.Camera.ViewMatrix()
	proj := c.Camera.ProjectionMatrix(float32(c.width) / float32(c.height))
	return picking.ScreenToRay(x, y, c.width, c.height, view, proj)
}

func (c *Controller) setSelection(s Selection) {
	if c.selection == s {
		return
	}
	c.selection = s
	if c.onSelectionChanged != nil {
		c.onSelectionChanged(s)
	}
}

// Close releases the GPU buffer slot.
func (c *Controller) Close() {
	c.buffers.Release()
}

// Coarse object pick distance, in world units.
const pickThreshold float32 = 1.5
