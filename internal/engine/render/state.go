// Package render draws the viewport primitives: grid, axes, gizmo
// handles and the lit mesh. Fixed-function state is set explicitly per
// draw and restored afterwards, so no pass depends on what the previous
// one left behind.
package render

import (
	"github.com/go-gl/gl/v4.1-core/gl"
)

// State is the GL fixed-function state a draw call runs under.
type State struct {
	DepthTest bool
	Blend     bool
	LineWidth float32
}

// Apply sets the state and returns a restore function for the previous
// state. Callers defer the restore around each draw.
func Apply(s State) func() {
	prevDepth := gl.IsEnabled(gl.DEPTH_TEST)
	prevBlend := gl.IsEnabled(gl.BLEND)
	var prevWidth float32
	gl.GetFloatv(gl.LINE_WIDTH, &prevWidth)

	setEnabled(gl.DEPTH_TEST, s.DepthTest)
	setEnabled(gl.BLEND, s.Blend)
	if s.Blend {
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	if s.LineWidth > 0 {
		gl.LineWidth(s.LineWidth)
	}

	return func() {
		setEnabled(gl.DEPTH_TEST, prevDepth)
		setEnabled(gl.BLEND, prevBlend)
		gl.LineWidth(prevWidth)
	}
}

func setEnabled(cap uint32, on bool) {
	if on {
		gl.Enable(cap)
	} else {
		gl.Disable(cap)
	}
}
