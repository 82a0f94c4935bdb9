package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/aerostudio/aerocalc/internal/engine/gpu"
	"github.com/aerostudio/aerocalc/internal/engine/shader"
	"github.com/aerostudio/aerocalc/pkg/math"
)

// MeshRenderer draws the lit model with its per-vertex tint buffer.
type MeshRenderer struct {
	program  uint32
	modelLoc int32
	viewLoc  int32
	projLoc  int32
	lightLoc int32
	baseLoc  int32
}

// NewMeshRenderer compiles the mesh shader. Requires a current GL context.
func NewMeshRenderer() (*MeshRenderer, error) {
	program, err := shader.CompileProgram(meshVertexSrc, meshFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}

	return &MeshRenderer{
		program:  program,
		modelLoc: shader.MustGetUniform(program, "uModel"),
		viewLoc:  shader.MustGetUniform(program, "uView"),
		projLoc:  shader.MustGetUniform(program, "uProj"),
		lightLoc: shader.MustGetUniform(program, "uLightDir"),
		baseLoc:  shader.MustGetUniform(program, "uBaseColor"),
	}, nil
}

// Draw renders the buffer with a fixed key light slanting in from
// above-right of the default camera.
func (m *MeshRenderer) Draw(buf *gpu.MeshBuffer, model, view, proj math.Mat4, base [3]float32) {
	restore := Apply(State{DepthTest: true})
	defer restore()

	gl.UseProgram(m.program)
	gl.UniformMatrix4fv(m.modelLoc, 1, false, model.Ptr())
	gl.UniformMatrix4fv(m.viewLoc, 1, false, view.Ptr())
	gl.UniformMatrix4fv(m.projLoc, 1, false, proj.Ptr())
	gl.Uniform3f(m.lightLoc, -0.5, -1.0, -0.3)
	gl.Uniform3f(m.baseLoc, base[0], base[1], base[2])

	buf.Draw()
}

// Release frees the shader program.
func (m *MeshRenderer) Release() {
	if m.program != 0 {
		gl.DeleteProgram(m.program)
	}
	m.program = 0
}

// FlatRenderer draws untinted geometry with one RGBA color, used for
// the semi-transparent wind-plane face.
type FlatRenderer struct {
	program  uint32
	vao      uint32
	vbo      uint32
	mvpLoc   int32
	colorLoc int32
}

// NewFlatRenderer compiles the flat shader and allocates a dynamic
// buffer. Requires a current GL context.
func NewFlatRenderer() (*FlatRenderer, error) {
	program, err := shader.CompileProgram(flatVertexSrc, flatFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("flat shader: %w", err)
	}

	r := &FlatRenderer{
		program:  program,
		mvpLoc:   shader.MustGetUniform(program, "uMVP"),
		colorLoc: shader.MustGetUniform(program, "uColor"),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return r, nil
}

// Draw renders a triangle list with one RGBA color under the given state.
func (r *FlatRenderer) Draw(vertices []float32, mvp math.Mat4, color [4]float32, st State) {
	if len(vertices) == 0 {
		return
	}

	restore := Apply(st)
	defer restore()

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, mvp.Ptr())
	gl.Uniform4f(r.colorLoc, color[0], color[1], color[2], color[3])

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/3))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Release frees the GL objects.
func (r *FlatRenderer) Release() {
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
	}
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
	r.vbo, r.vao, r.program = 0, 0, 0
}
