package render

import (
	gomath "math"

	"github.com/aerostudio/aerocalc/pkg/math"
)

// Line vertices are flat [x y z r g b] records.
const lineStride = 6

// GridLines builds the ground-plane grid: size cells in each direction
// from the origin, spaced along X and Z at y=0.
func GridLines(size int, spacing float32, color [3]float32) []float32 {
	if size <= 0 || spacing <= 0 {
		return nil
	}

	extent := float32(size) * spacing
	out := make([]float32, 0, (2*size+1)*4*lineStride)

	for i := -size; i <= size; i++ {
		v := float32(i) * spacing
		// Line parallel to X
		out = appendLine(out, math.Vec3{X: -extent, Z: v}, math.Vec3{X: extent, Z: v}, color)
		// Line parallel to Z
		out = appendLine(out, math.Vec3{X: v, Z: -extent}, math.Vec3{X: v, Z: extent}, color)
	}
	return out
}

// AxisLines builds the world axis indicator: X red, Y green, Z blue.
func AxisLines(length float32) []float32 {
	out := make([]float32, 0, 6*lineStride)
	out = appendLine(out, math.Vec3{}, math.Vec3{X: length}, [3]float32{0.9, 0.2, 0.2})
	out = appendLine(out, math.Vec3{}, math.Vec3{Y: length}, [3]float32{0.2, 0.9, 0.2})
	out = appendLine(out, math.Vec3{}, math.Vec3{Z: length}, [3]float32{0.2, 0.4, 0.9})
	return out
}

// GizmoLines builds the three translation handles rooted at origin.
// The hot axis is highlighted.
func GizmoLines(origin math.Vec3, length float32, hot int) []float32 {
	colors := [3][3]float32{
		{0.8, 0.1, 0.1},
		{0.1, 0.8, 0.1},
		{0.1, 0.3, 0.8},
	}
	highlight := [3]float32{1.0, 0.9, 0.2}

	dirs := [3]math.Vec3{{X: 1}, {Y: 1}, {Z: 1}}

	out := make([]float32, 0, 6*lineStride)
	for i := 0; i < 3; i++ {
		c := colors[i]
		if i == hot {
			c = highlight
		}
		out = appendLine(out, origin, origin.Add(dirs[i].Scale(length)), c)
	}
	return out
}

// planeCorners builds the four corners of a wind-source plane. An
// unrotated plane faces +X, spanning size.X across Z and size.Y across
// Y; rotation is Euler degrees applied Z·Y·X about the center.
func planeCorners(center, rotation math.Vec3, size math.Vec2) [4]math.Vec3 {
	hw, hh := size.X/2, size.Y/2
	local := [4]math.Vec3{
		{Y: -hh, Z: -hw},
		{Y: -hh, Z: hw},
		{Y: hh, Z: hw},
		{Y: hh, Z: -hw},
	}

	const degToRad = gomath.Pi / 180
	rot := math.RotateZ(rotation.Z * degToRad).
		Mul(math.RotateY(rotation.Y * degToRad)).
		Mul(math.RotateX(rotation.X * degToRad))

	var out [4]math.Vec3
	for i, p := range local {
		out[i] = rot.TransformPoint(p).Add(center)
	}
	return out
}

// PlaneOutline builds the rectangle border of a wind-source plane.
func PlaneOutline(center, rotation math.Vec3, size math.Vec2, color [3]float32) []float32 {
	corners := planeCorners(center, rotation, size)

	out := make([]float32, 0, 8*lineStride)
	for i := 0; i < 4; i++ {
		out = appendLine(out, corners[i], corners[(i+1)%4], color)
	}
	return out
}

// PlaneQuad builds two triangles filling the wind-plane rectangle, for
// the semi-transparent face pass. Layout is [x y z] only.
func PlaneQuad(center, rotation math.Vec3, size math.Vec2) []float32 {
	c := planeCorners(center, rotation, size)

	out := make([]float32, 0, 18)
	for _, idx := range [6]int{0, 1, 2, 0, 2, 3} {
		out = append(out, c[idx].X, c[idx].Y, c[idx].Z)
	}
	return out
}

func appendLine(dst []float32, a, b math.Vec3, color [3]float32) []float32 {
	dst = append(dst, a.X, a.Y, a.Z, color[0], color[1], color[2])
	dst = append(dst, b.X, b.Y, b.Z, color[0], color[1], color[2])
	return dst
}
