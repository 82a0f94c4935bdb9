// Package picking converts screen clicks into world-space rays and
// answers proximity queries against scene geometry.
package picking

import (
	"github.com/aerostudio/aerocalc/pkg/math"
)

// Axis identifies a gizmo handle.
type Axis int

const (
	AxisNone Axis = iota
	AxisX
	AxisY
	AxisZ
)

// String returns the axis name.
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "none"
}

// Direction returns the world-space unit vector of the axis, or zero
// for AxisNone.
func (a Axis) Direction() math.Vec3 {
	switch a {
	case AxisX:
		return math.Vec3{X: 1}
	case AxisY:
		return math.Vec3{Y: 1}
	case AxisZ:
		return math.Vec3{Z: 1}
	}
	return math.Vec3{}
}

// Ray is a half-line in world space. Direction is unit length.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// ScreenToRay unprojects a pixel coordinate into a world-space ray
// using the camera's view and projection matrices.
func ScreenToRay(x, y float32, width, height int, view, proj math.Mat4) Ray {
	ndcX := 2*x/float32(width) - 1
	ndcY := 1 - 2*y/float32(height)

	inv := proj.Mul(view).Inverse()

	near := inv.MulVec4(math.Vec4{ndcX, ndcY, -1, 1})
	far := inv.MulVec4(math.Vec4{ndcX, ndcY, 1, 1})

	nearPt := perspectiveDivide(near)
	farPt := perspectiveDivide(far)

	return Ray{
		Origin:    nearPt,
		Direction: farPt.Sub(nearPt).Normalize(),
	}
}

func perspectiveDivide(v math.Vec4) math.Vec3 {
	w := v[3]
	if w == 0 {
		w = 1
	}
	return math.Vec3{X: v[0] / w, Y: v[1] / w, Z: v[2] / w}
}

// DistanceToPoint returns the shortest distance from the ray to a point.
// Points behind the origin measure to the origin itself.
func (r Ray) DistanceToPoint(p math.Vec3) float32 {
	t := p.Sub(r.Origin).Dot(r.Direction)
	if t < 0 {
		t = 0
	}
	closest := r.Origin.Add(r.Direction.Scale(t))
	return closest.Distance(p)
}

// DistanceToSegment returns the shortest distance between the ray and
// the segment [a, b].
func (r Ray) DistanceToSegment(a, b math.Vec3) float32 {
	// Closest points between the ray (t >= 0) and segment (s in [0,1]),
	// after Ericson, Real-Time Collision Detection §5.1.9.
	d1 := r.Direction
	d2 := b.Sub(a)
	w := r.Origin.Sub(a)

	aa := d1.Dot(d1)
	bb := d1.Dot(d2)
	cc := d2.Dot(d2)
	dd := d1.Dot(w)
	ee := d2.Dot(w)

	denom := aa*cc - bb*bb

	var t, s float32
	if denom > 1e-9 {
		t = (bb*ee - cc*dd) / denom
	}
	if t < 0 {
		t = 0
	}

	if cc > 1e-9 {
		s = (bb*t + ee) / cc
	}
	if s < 0 {
		s = 0
		t = -dd / aa
		if t < 0 {
			t = 0
		}
	} else if s > 1 {
		s = 1
		t = (bb - dd) / aa
		if t < 0 {
			t = 0
		}
	}

	p1 := r.Origin.Add(d1.Scale(t))
	p2 := a.Add(d2.Scale(s))
	return p1.Distance(p2)
}

// NearestAxis tests the three gizmo handles rooted at origin with the
// given length and returns the closest one within threshold, or
// AxisNone. On equal distances X wins over Y over Z.
func NearestAxis(r Ray, origin math.Vec3, length, threshold float32) Axis {
	best := AxisNone
	bestDist := threshold

	for _, axis := range []Axis{AxisX, AxisY, AxisZ} {
		end := origin.Add(axis.Direction().Scale(length))
		if d := r.DistanceToSegment(origin, end); d < bestDist {
			best = axis
			bestDist = d
		}
	}
	return best
}

// PickNearest returns the index of the center closest to the ray within
// threshold, or -1. Coarse by design: objects are picked by their
// anchor point, not their surface.
func PickNearest(r Ray, centers []math.Vec3, threshold float32) int {
	best := -1
	bestDist := threshold

	for i, c := range centers {
		if d := r.DistanceToPoint(c); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
