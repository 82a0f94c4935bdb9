// Package aero computes approximate aerodynamic loads on a triangulated
// mesh using a Newtonian impact model. The numbers are first-order
// estimates meant to drive the viewport's pressure visualization, not a
// CFD solution.
package aero

import (
	"errors"
	stdmath "math"

	"github.com/aerostudio/aerocalc/pkg/math"
	"github.com/aerostudio/aerocalc/pkg/obj"
)

// ErrEmptyMesh is returned when the mesh has no triangles to integrate over.
var ErrEmptyMesh = errors.New("mesh has no triangles")

// TurbulenceModels lists the selectable turbulence closures. Only "None"
// affects the placeholder model; the others are recorded with the session
// for future solvers.
var TurbulenceModels = []string{"None", "k-epsilon", "k-omega", "Spalart-Allmaras"}

// FlowConditions describes the free-stream the mesh is exposed to.
type FlowConditions struct {
	AirDensity    float32 // kg/m^3
	Temperature   float32 // Celsius
	Velocity      float32 // m/s
	AngleOfAttack float32 // degrees, positive nose-up

	TurbulenceModel string
}

// Forces holds integrated loads plus the per-vertex pressure field that
// drives the color-mapped overlay.
type Forces struct {
	Lift   float32 // N, perpendicular to the free stream
	Drag   float32 // N, along the free stream
	Moment float32 // N*m, pitching moment about the origin

	PressureByVertex []float32 // Pa, one entry per mesh vertex
	Cp               []float32 // dimensionless, one entry per mesh vertex
}

// Calculator computes loads for a mesh under given flow conditions.
// The viewport depends on this signature, not on the model behind it.
type Calculator func(mesh *obj.Mesh, flow FlowConditions) (*Forces, error)

// DynamicPressure returns q = 1/2 * rho * V^2.
func (f FlowConditions) DynamicPressure() float32 {
	return 0.5 * f.AirDensity * f.Velocity * f.Velocity
}

// direction returns the unit free-stream vector. Zero angle of attack
// flows along +X; a positive angle tilts the stream downward so the
// mesh sees it nose-up.
func (f FlowConditions) direction() math.Vec3 {
	rad := float64(f.AngleOfAttack) * stdmath.Pi / 180
	return math.Vec3{
		X: float32(stdmath.Cos(rad)),
		Y: float32(-stdmath.Sin(rad)),
	}
}

// Compute integrates Newtonian surface pressure over the mesh.
// Panels facing the stream carry Cp = 2*cos^2(theta); shadowed panels
// carry zero. Lift and drag are the force components perpendicular and
// parallel to the free stream, the moment is taken about the origin.
func Compute(mesh *obj.Mesh, flow FlowConditions) (*Forces, error) {
	if mesh == nil || mesh.TriangleCount() == 0 {
		return nil, ErrEmptyMesh
	}

	n := mesh.VertexCount()
	out := &Forces{
		PressureByVertex: make([]float32, n),
		Cp:               make([]float32, n),
	}

	q := flow.DynamicPressure()
	dir := flow.direction()
	liftDir := math.Vec3{X: -dir.Y, Y: dir.X} // 90 deg from the stream, in the pitch plane

	var force math.Vec3
	var moment float32

	for tri := 0; tri < mesh.TriangleCount(); tri++ {
		i := tri * 3
		a, b, c := mesh.Positions[i], mesh.Positions[i+1], mesh.Positions[i+2]

		cross := b.Sub(a).Cross(c.Sub(a))
		area := cross.Length() / 2
		if area < 1e-10 {
			continue
		}
		normal := cross.Scale(1 / (2 * area))

		// Impact angle: panels whose outward normal opposes the
		// stream are wetted, the rest sit in the shadow region.
		facing := -normal.Dot(dir)
		if facing <= 0 {
			continue
		}

		cp := 2 * facing * facing
		p := cp * q
		for k := i; k < i+3; k++ {
			out.Cp[k] = cp
			out.PressureByVertex[k] = p
		}

		// Pressure pushes opposite the outward normal.
		df := normal.Scale(-p * area)
		force = force.Add(df)

		centroid := a.Add(b).Add(c).Scale(1.0 / 3.0)
		moment += centroid.Cross(df).Z
	}

	out.Drag = force.Dot(dir)
	out.Lift = force.Dot(liftDir)
	out.Moment = moment
	return out, nil
}
