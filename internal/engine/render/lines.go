package render

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/aerostudio/aerocalc/internal/engine/shader"
	"github.com/aerostudio/aerocalc/pkg/math"
)

// LineRenderer streams colored line lists through one dynamic VBO.
type LineRenderer struct {
	program uint32
	vao     uint32
	vbo     uint32
	mvpLoc  int32
}

// NewLineRenderer compiles the line shader and allocates the buffers.
// Requires a current GL context.
func NewLineRenderer() (*LineRenderer, error) {
	program, err := shader.CompileProgram(lineVertexSrc, lineFragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}

	r := &LineRenderer{
		program: program,
		mvpLoc:  shader.MustGetUniform(program, "uMVP"),
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)
	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)

	// Interleaved position + color
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, lineStride*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, lineStride*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	return r, nil
}

// Draw renders a line list under the given state.
func (r *LineRenderer) Draw(vertices []float32, mvp math.Mat4, st State) {
	if len(vertices) == 0 {
		return
	}

	restore := Apply(st)
	defer restore()

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.mvpLoc, 1, false, mvp.Ptr())

	gl.BindVertexArray(r.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(vertices)/lineStride))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Release frees the GL objects.
func (r *LineRenderer) Release() {
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
