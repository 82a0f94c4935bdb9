package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/aerostudio/aerocalc/internal/engine/gizmo"
	"github.com/aerostudio/aerocalc/internal/engine/gpu"
	"github.com/aerostudio/aerocalc/internal/engine/picking"
	"github.com/aerostudio/aerocalc/internal/engine/render"
	"github.com/aerostudio/aerocalc/pkg/math"
)

// Renderer draws a controller's scene. It owns the shader programs and
// line buffers; the mesh buffer is borrowed from the controller's slot.
type Renderer struct {
	lines *render.LineRenderer
	mesh  *render.MeshRenderer
	flat  *render.FlatRenderer

	gridSize    int
	gridSpacing float32
	gridVerts   []float32
	axisVerts   []float32
}

// NewRenderer compiles the scene shaders. Requires a current GL context.
func NewRenderer(gridSize int, gridSpacing float32) (*Renderer, error) {
	lines, err := render.NewLineRenderer()
	if err != nil {
		return nil, err
	}
	mesh, err := render.NewMeshRenderer()
	if err != nil {
		lines.Release()
		return nil, err
	}
	flat, err := render.NewFlatRenderer()
	if err != nil {
		lines.Release()
		mesh.Release()
		return nil, err
	}

	return &Renderer{
		lines:       lines,
		mesh:        mesh,
		flat:        flat,
		gridSize:    gridSize,
		gridSpacing: gridSpacing,
		gridVerts:   render.GridLines(gridSize, gridSpacing, [3]float32{0.32, 0.32, 0.36}),
		axisVerts:   render.AxisLines(3),
	}, nil
}

// RenderFrame clears and draws one frame: grid, axes, mesh, wind plane,
// then the gizmo overlay. The order is fixed so the semi-transparent
// plane blends over the opaque scene and the gizmo stays readable on top.
func (r *Renderer) RenderFrame(c *Controller, buf *gpu.MeshBuffer, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", width, height)
	}

	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0.13, 0.14, 0.17, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view := c.Camera.ViewMatrix()
	proj := c.Camera.ProjectionMatrix(float32(width) / float32(height))
	vp := proj.Mul(view)

	if c.ShowGrid {
		r.lines.Draw(r.gridVerts, vp, render.State{DepthTest: true, LineWidth: 1})
	}
	if c.ShowAxes {
		r.lines.Draw(r.axisVerts, vp, render.State{DepthTest: true, LineWidth: 2})
	}

	if buf != nil && c.Mesh() != nil {
		base := [3]float32{0.75, 0.78, 0.82}
		r.mesh.Draw(buf, math.Identity(), view, proj, base)
	}

	if p := c.WindPlane(); p != nil {
		quad := render.PlaneQuad(p.Position, p.Rotation, p.Size)
		r.flat.Draw(quad, vp, [4]float32{0.25, 0.55, 0.95, 0.3},
			render.State{DepthTest: true, Blend: true})

		outline := render.PlaneOutline(p.Position, p.Rotation, p.Size, [3]float32{0.35, 0.65, 1.0})
		r.lines.Draw(outline, vp, render.State{DepthTest: true, LineWidth: 2})
	}

	// Gizmo draws over everything so handles stay pickable.
	sel := c.Selection()
	if sel.Object == KindWindPlane && c.WindPlane() != nil {
		hot := -1
		switch sel.Axis {
		case picking.AxisX:
			hot = 0
		case picking.AxisY:
			hot = 1
		case picking.AxisZ:
			hot = 2
		}
		verts := render.GizmoLines(c.WindPlane().Position, gizmo.HandleLength, hot)
		r.lines.Draw(verts, vp, render.State{DepthTest: false, LineWidth: 3})
	}

	return nil
}

// Release frees the shader programs and line buffers.
func (r *Renderer) Release() {
	if r.lines != nil {
		r.lines.Release()
	}
	if r.mesh != nil {
		r.mesh.Release()
	}
	if r.flat != nil {
		r.flat.Release()
	}
	r.lines, r.mesh, r.flat = nil, nil, nil
}
