// Package camera implements the orbit camera used by the viewport.
package camera

import (
	gomath "math"

	"github.com/aerostudio/aerocalc/pkg/math"
)

// Default orbit pose: looking down at the origin from above-right.
const (
	DefaultPitch float32 = 30.0
	DefaultYaw   float32 = 45.0
	DefaultZoom  float32 = 15.0
)

// Camera orbits around a pannable target point. Angles are in degrees,
// Zoom is the distance from the target.
type Camera struct {
	Pitch float32
	Yaw   float32
	Zoom  float32

	// Target point the camera orbits and looks at.
	Pan math.Vec3

	// Constraints and sensitivity
	MinZoom          float32
	MaxZoom          float32
	ZoomSpeed        float32
	OrbitSensitivity float32 // degrees per pixel

	// Projection
	FovY float32 // degrees
	Near float32
	Far  float32
}

// New creates a camera with the default pose and constraints.
func New() *Camera {
	return &Camera{
		Pitch:            DefaultPitch,
		Yaw:              DefaultYaw,
		Zoom:             DefaultZoom,
		MinZoom:          0.1,
		MaxZoom:          100.0,
		ZoomSpeed:        0.1,
		OrbitSensitivity: 0.5,
		FovY:             45.0,
		Near:             0.1,
		Far:              1000.0,
	}
}

// Reset restores the default pose without touching constraints.
func (c *Camera) Reset() {
	c.Pitch = DefaultPitch
	c.Yaw = DefaultYaw
	c.Zoom = DefaultZoom
	c.Pan = math.Vec3{}
}

// Orbit updates pitch and yaw from a mouse drag delta in pixels.
// Pitch is deliberately unclamped; ViewMatrix handles the poles.
func (c *Camera) Orbit(dx, dy float32) {
	c.Yaw += dx * c.OrbitSensitivity
	c.Pitch += dy * c.OrbitSensitivity
}

// PanDelta shifts the target point along the camera's screen axes.
// Speed scales with distance for consistent feel.
func (c *Camera) PanDelta(dx, dy float32) {
	right, up, _ := c.Basis()
	speed := c.Zoom * 0.002
	c.Pan = c.Pan.Add(right.Scale(-dx * speed)).Add(up.Scale(dy * speed))
}

// ZoomDelta applies scroll-wheel ticks multiplicatively and clamps the
// result, so repeated scrolling can never push the distance out of
// [MinZoom, MaxZoom].
func (c *Camera) ZoomDelta(ticks float32) {
	c.Zoom *= 1 - ticks*c.ZoomSpeed
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
	if c.Zoom > c.MaxZoom {
		c.Zoom = c.MaxZoom
	}
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() math.Vec3 {
	pitch := float64(c.Pitch) * gomath.Pi / 180
	yaw := float64(c.Yaw) * gomath.Pi / 180

	x := c.Zoom * float32(gomath.Cos(pitch)*gomath.Sin(yaw))
	y := c.Zoom * float32(gomath.Sin(pitch))
	z := c.Zoom * float32(gomath.Cos(pitch)*gomath.Cos(yaw))

	return c.Pan.Add(math.Vec3{X: x, Y: y, Z: z})
}

// Target returns the point the camera looks at.
func (c *Camera) Target() math.Vec3 {
	return c.Pan
}

// up returns the world-up vector, or a yaw-aligned substitute when the
// view direction is (nearly) parallel to world up.
func (c *Camera) up() math.Vec3 {
	pitch := float64(c.Pitch) * gomath.Pi / 180
	cosPitch := gomath.Cos(pitch)
	if gomath.Abs(cosPitch) > 1e-4 {
		up := math.Vec3{Y: 1}
		if cosPitch < 0 {
			// Past the pole the camera is upside down.
			up = math.Vec3{Y: -1}
		}
		return up
	}

	// Looking straight down (or up) the Y axis: use the horizontal
	// direction the camera approached the pole from.
	yaw := float64(c.Yaw) * gomath.Pi / 180
	horiz := math.Vec3{
		X: float32(gomath.Sin(yaw)),
		Z: float32(gomath.Cos(yaw)),
	}
	if gomath.Sin(pitch) > 0 {
		return horiz.Scale(-1)
	}
	return horiz
}

// Basis returns the camera's right, up and forward vectors in world space.
func (c *Camera) Basis() (right, up, forward math.Vec3) {
	forward = c.Target().Sub(c.Eye()).Normalize()
	right = forward.Cross(c.up()).Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

// ViewMatrix returns the view matrix for the current pose.
func (c *Camera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Eye(), c.Target(), c.up())
}

// ProjectionMatrix returns the perspective projection for the given
// viewport aspect ratio (width / height).
func (c *Camera) ProjectionMatrix(aspect float32) math.Mat4 {
	fov := c.FovY * gomath.Pi / 180
	return math.Perspective(fov, aspect, c.Near, c.Far)
}
