package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aerostudio/aerocalc/internal/aero"
	"github.com/aerostudio/aerocalc/internal/engine/gizmo"
	"github.com/aerostudio/aerocalc/internal/engine/picking"
	"github.com/aerostudio/aerocalc/internal/logger"
	"github.com/aerostudio/aerocalc/pkg/math"
	"github.com/aerostudio/aerocalc/pkg/obj"
)

func TestMain(m *testing.M) {
	logger.InitWithFileConfig("error", logger.FileConfig{}, false)
	os.Exit(m.Run())
}

// fakeBuffers stands in for the GPU slot: it tracks how many buffer
// generations are live and can fail the next upload on demand.
type fakeBuffers struct {
	live       int
	uploads    int
	releases   int
	lastColors []float32
	failUpload error
}

func (f *fakeBuffers) Upload(positions, normals []float32) error {
	if f.failUpload != nil {
		// Precondition failures happen before the old buffer is touched.
		return f.failUpload
	}
	if f.live > 0 {
		f.Release()
	}
	f.live++
	f.uploads++
	return nil
}

func (f *fakeBuffers) SetColors(colors []float32) error {
	if f.live == 0 {
		return errors.New("no live buffer")
	}
	f.lastColors = colors
	return nil
}

func (f *fakeBuffers) Release() {
	if f.live > 0 {
		f.live--
		f.releases++
	}
}

const cubeOBJ = `# unit cube
v -1 -1 -1
v 1 -1 -1
v 1 1 -1
v -1 1 -1
v -1 -1 1
v 1 -1 1
v 1 1 1
v -1 1 1
f 1 2 3 4
f 5 8 7 6
f 1 5 6 2
f 2 6 7 3
f 3 7 8 4
f 5 1 4 8
`

func writeCube(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestController() (*Controller, *fakeBuffers) {
	buf := &fakeBuffers{}
	return NewController(buf, 800, 600), buf
}

func TestLoadMesh(t *testing.T) {
	c, buf := newTestController()

	var loaded *obj.Mesh
	c.OnMeshLoaded(func(m *obj.Mesh) { loaded = m })

	path := writeCube(t)
	if err := c.LoadMesh(path); err != nil {
		t.Fatalf("LoadMesh failed: %v", err)
	}

	if c.Mesh() == nil || c.Mesh().VertexCount() != 36 {
		t.Errorf("cube should triangulate to 36 vertices")
	}
	if c.MeshPath() != path {
		t.Errorf("mesh path = %q, want %q", c.MeshPath(), path)
	}
	if buf.uploads != 1 || buf.live != 1 {
		t.Errorf("uploads=%d live=%d, want 1/1", buf.uploads, buf.live)
	}
	if loaded == nil {
		t.Error("mesh-loaded observer not fired")
	}
}

func TestLoadMeshParseFailureKeepsState(t *testing.T) {
	c, buf := newTestController()
	if err := c.LoadMesh(writeCube(t)); err != nil {
		t.Fatal(err)
	}
	old := c.Mesh()

	bad := filepath.Join(t.TempDir(), "bad.obj")
	if err := os.WriteFile(bad, []byte("# nothing here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := c.LoadMesh(bad)
	if !errors.Is(err, obj.ErrNoVertices) {
		t.Fatalf("LoadMesh(bad) = %v, want ErrNoVertices", err)
	}
	if c.Mesh() != old {
		t.Error("failed load replaced the mesh")
	}
	if buf.live != 1 {
		t.Errorf("failed load disturbed the buffer: live=%d", buf.live)
	}
}

func TestLoadMeshUploadFailureKeepsState(t *testing.T) {
	c, buf := newTestController()
	if err := c.LoadMesh(writeCube(t)); err != nil {
		t.Fatal(err)
	}
	old := c.Mesh()

	buf.failUpload = errors.New("no context")
	if err := c.LoadMesh(writeCube(t)); err == nil {
		t.Fatal("expected upload failure to surface")
	}
	if c.Mesh() != old {
		t.Error("failed upload replaced the mesh")
	}
	if buf.live != 1 {
		t.Errorf("failed upload left live=%d, want the old buffer intact", buf.live)
	}
}

func TestRepeatedLoadsKeepOneLiveBuffer(t *testing.T) {
	c, buf := newTestController()
	path := writeCube(t)

	for i := 0; i < 5; i++ {
		if err := c.LoadMesh(path); err != nil {
			t.Fatal(err)
		}
	}
	if buf.live != 1 {
		t.Errorf("after 5 loads live=%d, want 1", buf.live)
	}
	if buf.uploads != 5 || buf.releases != 4 {
		t.Errorf("uploads=%d releases=%d, want 5/4", buf.uploads, buf.releases)
	}
}

func TestReloadClearsStaleOverlayAndSelection(t *testing.T) {
	c, buf := newTestController()
	path := writeCube(t)
	if err := c.LoadMesh(path); err != nil {
		t.Fatal(err)
	}

	c.SetFlow(aero.FlowConditions{AirDensity: 1.225, Velocity: 10})
	if _, err := c.ComputeForces(); err != nil {
		t.Fatalf("ComputeForces failed: %v", err)
	}
	if c.Forces() == nil || len(buf.lastColors) == 0 {
		t.Fatal("overlay not applied")
	}

	c.setSelection(Selection{Object: KindMesh})
	if err := c.LoadMesh(path); err != nil {
		t.Fatal(err)
	}
	if c.Forces() != nil {
		t.Error("stale forces survived a reload")
	}
	if c.Selection().Object != KindNone {
		t.Error("mesh selection survived a reload")
	}
}

func TestComputeForcesWithoutMesh(t *testing.T) {
	c, _ := newTestController()
	if _, err := c.ComputeForces(); !errors.Is(err, aero.ErrEmptyMesh) {
		t.Errorf("ComputeForces with no mesh = %v, want ErrEmptyMesh", err)
	}
}

func TestCreateWindPlaneValidation(t *testing.T) {
	c, _ := newTestController()
	if err := c.CreateWindPlane(0, 5); err == nil {
		t.Error("zero width should be rejected")
	}
	if err := c.CreateWindPlane(5, -1); err == nil {
		t.Error("negative height should be rejected")
	}
	if err := c.CreateWindPlane(5, 5); err != nil {
		t.Fatalf("CreateWindPlane failed: %v", err)
	}
	if c.WindPlane() == nil || c.WindPlane().Position != defaultPlanePosition {
		t.Errorf("plane = %+v, want default position %v", c.WindPlane(), defaultPlanePosition)
	}
}

// lookDownX points the camera straight down the +X axis at the origin,
// so the default plane position sits dead center in the viewport.
func lookDownX(c *Controller) {
	c.Camera.Pitch = 0
	c.Camera.Yaw = 90
}

func TestClickSelectsWindPlane(t *testing.T) {
	c, _ := newTestController()
	c.CreateWindPlane(5, 5)
	lookDownX(c)

	var observed []Selection
	c.OnSelectionChanged(func(s Selection) { observed = append(observed, s) })

	c.OnPointerDown(400, 300, ButtonLeft)
	if c.Selection().Object != KindWindPlane {
		t.Fatalf("selection = %v, want wind-plane", c.Selection())
	}
	if len(observed) == 0 {
		t.Error("selection observer not fired")
	}
}

func TestClickAwayClearsSelection(t *testing.T) {
	c, _ := newTestController()
	c.CreateWindPlane(5, 5)
	lookDownX(c)

	c.OnPointerDown(400, 300, ButtonLeft)
	if c.Selection().Object != KindWindPlane {
		t.Fatal("setup: plane not selected")
	}

	// Corner of the viewport is nowhere near the plane.
	c.OnPointerDown(5, 5, ButtonLeft)
	if c.Selection() != (Selection{}) {
		t.Errorf("click-away left selection %v", c.Selection())
	}
}

func TestHoverAndDragYAxis(t *testing.T) {
	c, _ := newTestController()
	c.CreateWindPlane(5, 5)
	lookDownX(c)

	c.OnPointerDown(400, 300, ButtonLeft)

	// Cursor above center tracks the Y handle.
	c.OnPointerMove(400, 250, 0, -50, false, false)
	if c.Selection().Axis != picking.AxisY {
		t.Fatalf("hover axis = %v, want y", c.Selection().Axis)
	}

	start := c.WindPlane().Position
	c.OnPointerDown(400, 250, ButtonLeft)

	// Upward drag raises the plane; only Y moves.
	c.OnPointerMove(400, 240, 0, -10, true, false)
	pos := c.WindPlane().Position
	if pos.Y <= start.Y {
		t.Errorf("upward drag gave y=%v, want > %v", pos.Y, start.Y)
	}
	if pos.X != start.X || pos.Z != start.Z {
		t.Errorf("drag leaked into other axes: %v", pos)
	}

	c.OnPointerUp(400, 240, ButtonLeft)
	final := c.WindPlane().Position
	if final != pos {
		t.Errorf("release moved the plane from %v to %v", pos, final)
	}
}

func TestEscapeIgnoredDuringDrag(t *testing.T) {
	c, _ := newTestController()
	c.CreateWindPlane(5, 5)
	lookDownX(c)

	c.OnPointerDown(400, 300, ButtonLeft)
	c.OnPointerMove(400, 250, 0, -50, false, false)
	c.OnPointerDown(400, 250, ButtonLeft) // begin drag

	c.ClearSelection()
	if c.Selection().Object != KindWindPlane {
		t.Error("escape cleared selection mid-drag")
	}

	c.OnPointerUp(400, 250, ButtonLeft)
	c.ClearSelection()
	if c.Selection() != (Selection{}) {
		t.Error("escape after release should clear selection")
	}
}

func TestMidDragDeletionFallsBackToIdle(t *testing.T) {
	c, _ := newTestController()
	c.CreateWindPlane(5, 5)
	lookDownX(c)

	c.OnPointerDown(400, 300, ButtonLeft)
	c.OnPointerMove(400, 250, 0, -50, false, false)
	c.OnPointerDown(400, 250, ButtonLeft) // begin drag

	c.RemoveWindPlane()
	if c.WindPlane() != nil {
		t.Fatal("plane not removed")
	}
	if c.Selection() != (Selection{}) {
		t.Errorf("selection after deletion = %v, want none", c.Selection())
	}
	if c.manip.State() != gizmo.StateIdle {
		t.Errorf("manip state = %v, want idle", c.manip.State())
	}

	// Motion after the deletion must not panic or move anything.
	c.OnPointerMove(400, 240, 0, -10, true, false)
}

func TestSelectionAxisImpliesObject(t *testing.T) {
	c, _ := newTestController()
	c.CreateWindPlane(5, 5)
	lookDownX(c)

	c.OnPointerDown(400, 300, ButtonLeft)
	c.OnPointerMove(400, 250, 0, -50, false, false)

	s := c.Selection()
	if s.Axis != picking.AxisNone && s.Object == KindNone {
		t.Errorf("invariant violated: axis %v with no object", s.Axis)
	}

	c.OnPointerDown(5, 5, ButtonLeft) // click away
	s = c.Selection()
	if s.Axis != picking.AxisNone {
		t.Errorf("cleared selection kept axis %v", s.Axis)
	}
}

func TestOrbitPanZoomRouting(t *testing.T) {
	c, _ := newTestController()

	yaw := c.Camera.Yaw
	c.OnPointerMove(100, 100, 10, 0, true, false)
	if c.Camera.Yaw == yaw {
		t.Error("left drag did not orbit")
	}

	pan := c.Camera.Pan
	c.OnPointerMove(100, 100, 10, 0, false, true)
	if c.Camera.Pan == pan {
		t.Error("middle drag did not pan")
	}

	zoom := c.Camera.Zoom
	c.OnScroll(1)
	if c.Camera.Zoom >= zoom {
		t.Error("scroll did not zoom in")
	}

	for i := 0; i < 1000; i++ {
		c.OnScroll(-1)
	}
	if c.Camera.Zoom != c.Camera.MaxZoom {
		t.Errorf("zoom = %v, want clamp at %v", c.Camera.Zoom, c.Camera.MaxZoom)
	}

	c.ResetView()
	if c.Camera.Zoom != 15 {
		t.Errorf("reset zoom = %v, want 15", c.Camera.Zoom)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	c, _ := newTestController()
	c.CreateWindPlane(4, 3)
	c.WindPlane().Position.Y = 2
	c.WindPlane().Rotation = math.Vec3{Y: 45}
	c.Camera.Orbit(20, 10)
	c.OnScroll(2)
	c.ShowGrid = false
	c.SetFlow(aero.FlowConditions{AirDensity: 1.1, Velocity: 25, TurbulenceModel: "k-epsilon"})

	s := c.ExportState()

	restored, _ := newTestController()
	restored.ImportState(s)

	if restored.Camera.Pitch != c.Camera.Pitch || restored.Camera.Yaw != c.Camera.Yaw {
		t.Error("camera rotation not restored")
	}
	if restored.Camera.Zoom != c.Camera.Zoom {
		t.Errorf("zoom = %v, want %v", restored.Camera.Zoom, c.Camera.Zoom)
	}
	if restored.ShowGrid {
		t.Error("grid visibility not restored")
	}
	if restored.WindPlane() == nil || restored.WindPlane().Position.Y != 2 {
		t.Error("wind plane not restored")
	}
	if p := restored.WindPlane(); p != nil {
		if p.Size != (math.Vec2{X: 4, Y: 3}) {
			t.Errorf("plane size = %+v, want 4x3", p.Size)
		}
		if p.Rotation != (math.Vec3{Y: 45}) {
			t.Errorf("plane rotation = %+v, want 45 about y", p.Rotation)
		}
	}
	if restored.Flow().Velocity != 25 || restored.Flow().TurbulenceModel != "k-epsilon" {
		t.Errorf("flow not restored: %+v", restored.Flow())
	}
}

func TestImportStateWithMissingMesh(t *testing.T) {
	c, _ := newTestController()
	s := Session{
		MeshPath:   filepath.Join(t.TempDir(), "gone.obj"),
		CameraZoom: 22,
		ShowGrid:   true,
		ShowAxes:   true,
	}
	c.ImportState(s)

	if c.Mesh() != nil {
		t.Error("missing mesh should not load")
	}
	if c.Camera.Zoom != 22 {
		t.Errorf("zoom = %v, want 22 despite mesh failure", c.Camera.Zoom)
	}
}

func TestCloseReleasesBuffer(t *testing.T) {
	c, buf := newTestController()
	if err := c.LoadMesh(writeCube(t)); err != nil {
		t.Fatal(err)
	}
	c.Close()
	if buf.live != 0 {
		t.Errorf("after close live=%d, want 0", buf.live)
	}
	c.Close() // idempotent
}
