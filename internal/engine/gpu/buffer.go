// Package gpu owns OpenGL buffer objects for mesh data.
package gpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/aerostudio/aerocalc/internal/logger"
)

// ErrNoContext is returned when a GPU operation is attempted without a
// current OpenGL context.
var ErrNoContext = errors.New("no current OpenGL context")

// MeshBuffer holds the GPU-side copy of one mesh: a VAO with position,
// normal and color attribute buffers. The zero value is an empty buffer
// that owns no GL objects.
type MeshBuffer struct {
	vao      uint32
	posVBO   uint32
	normVBO  uint32
	colorVBO uint32

	vertexCount int32
	allocated   bool
}

// requireContext reports whether an OpenGL context is current on this thread.
func requireContext() error {
	if sdl.GLGetCurrentContext() == nil {
		return ErrNoContext
	}
	return nil
}

// Upload replaces the buffer contents with new vertex data. Any
// previously held GL objects are released first, so a MeshBuffer never
// owns two generations of data. positions and normals are flat xyz
// triples and must have equal length.
func (b *MeshBuffer) Upload(positions, normals []float32) error {
	if err := requireContext(); err != nil {
		return err
	}
	if len(positions) != len(normals) {
		return fmt.Errorf("position/normal length mismatch: %d vs %d", len(positions), len(normals))
	}
	if len(positions) == 0 || len(positions)%3 != 0 {
		return fmt.Errorf("invalid vertex data length %d", len(positions))
	}

	b.Release()

	gl.GenVertexArrays(1, &b.vao)
	gl.BindVertexArray(b.vao)

	gl.GenBuffers(1, &b.posVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.posVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 0, nil)

	gl.GenBuffers(1, &b.normVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.normVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(normals)*4, gl.Ptr(normals), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, 0, nil)

	// Color attribute starts neutral; SetColors swaps in a real overlay.
	white := make([]float32, len(positions))
	for i := range white {
		white[i] = 1
	}
	gl.GenBuffers(1, &b.colorVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, b.colorVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(white)*4, gl.Ptr(white), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 3, gl.FLOAT, false, 0, nil)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	b.vertexCount = int32(len(positions) / 3)
	b.allocated = true
	return nil
}

// SetColors replaces the per-vertex RGB color attribute. The slice must
// cover every vertex of the current upload.
func (b *MeshBuffer) SetColors(colors []float32) error {
	if err := requireContext(); err != nil {
		return err
	}
	if !b.allocated {
		return errors.New("SetColors on an empty buffer")
	}
	if int32(len(colors)/3) != b.vertexCount {
		return fmt.Errorf("color data covers %d vertices, buffer has %d", len(colors)/3, b.vertexCount)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, b.colorVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(colors)*4, gl.Ptr(colors), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return nil
}

// Draw issues the draw call for the whole buffer. A shader program must
// already be bound.
func (b *MeshBuffer) Draw() {
	if !b.allocated {
		return
	}
	gl.BindVertexArray(b.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, b.vertexCount)
	gl.BindVertexArray(0)
}

// VertexCount returns the number of vertices in the current upload.
func (b *MeshBuffer) VertexCount() int {
	return int(b.vertexCount)
}

// Release frees all GL objects. Safe to call on an empty buffer and
// safe to call more than once. Without a current context the handles
// are kept untouched; freeing them would corrupt driver state, and
// context teardown reclaims them anyway.
func (b *MeshBuffer) Release() {
	if !b.allocated {
		return
	}
	if err := requireContext(); err != nil {
		logger.Warn("buffer release skipped", zap.Error(err))
		return
	}
	gl.DeleteBuffers(1, &b.posVBO)
	gl.DeleteBuffers(1, &b.normVBO)
	gl.DeleteBuffers(1, &b.colorVBO)
	gl.DeleteVertexArrays(1, &b.vao)

	b.vao, b.posVBO, b.normVBO, b.colorVBO = 0, 0, 0, 0
	b.vertexCount = 0
	b.allocated = false
}
