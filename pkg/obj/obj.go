// Package obj parses Wavefront OBJ polygon meshes into triangle soup
// suitable for GPU upload. Faces are fan-triangulated, normals are taken
// from the file when fully specified and computed per face otherwise, and
// the result is re-centered on the origin and scaled to a fixed size.
package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aerostudio/aerocalc/pkg/math"
)

// TargetSize is the largest bounding-box dimension of a normalized mesh.
const TargetSize float32 = 5.0

// OBJ format errors.
var (
	ErrNoVertices        = errors.New("no vertices found in OBJ data")
	ErrNoFaces           = errors.New("no faces found in OBJ data")
	ErrIndexOutOfRange   = errors.New("face index out of range")
	ErrUnsupportedFormat = errors.New("unsupported model format")
)

// Mesh is a parsed, triangulated, normalized mesh. Positions and Normals
// hold one entry per vertex instance (three per triangle) and always have
// equal length. A Mesh is immutable once built.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
}

// VertexCount returns the number of vertex instances (a multiple of 3).
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (min, max math.Vec3) {
	if len(m.Positions) == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return min, max
}

// FlatPositions returns positions as a flat x,y,z float32 slice for upload.
func (m *Mesh) FlatPositions() []float32 {
	return flatten(m.Positions)
}

// FlatNormals returns normals as a flat x,y,z float32 slice for upload.
func (m *Mesh) FlatNormals() []float32 {
	return flatten(m.Normals)
}

func flatten(vs []math.Vec3) []float32 {
	out := make([]float32, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, v.X, v.Y, v.Z)
	}
	return out
}

// corner is one vertex reference of a face: a position index plus an
// optional normal index (-1 when the face does not specify one).
type corner struct {
	vert int
	norm int
}

// Load reads and parses a mesh file. Only the .obj extension is accepted;
// recognized but unimplemented formats fail before any file I/O.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
	case ".fbx":
		return nil, fmt.Errorf("%w: FBX is not yet supported", ErrUnsupportedFormat)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	return Parse(data)
}

// Parse parses OBJ data into a normalized Mesh.
func Parse(data []byte) (*Mesh, error) {
	var (
		verts   []math.Vec3
		norms   []math.Vec3
		faces   [][]corner
		lineNum int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, err := parseVec3(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: vertex: %w", lineNum, err)
			}
			verts = append(verts, p)

		case "vn":
			n, err := parseVec3(fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: normal: %w", lineNum, err)
			}
			norms = append(norms, n)

		case "f":
			face := make([]corner, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				c, err := parseCorner(ref, len(verts), len(norms))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				face = append(face, c)
			}
			faces = append(faces, face)

		default:
			// Unknown record types (vt, o, g, s, mtllib, ...) are ignored
			// for forward compatibility.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning OBJ data: %w", err)
	}

	if len(verts) == 0 {
		return nil, ErrNoVertices
	}

	mesh := assemble(verts, norms, faces)
	if mesh.VertexCount() == 0 {
		return nil, ErrNoFaces
	}
	mesh.normalize()
	return mesh, nil
}

func parseVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 4 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(fields)-1)
	}
	var out [3]float32
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i+1], 32)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("parsing %q: %w", fields[i+1], err)
		}
		out[i] = float32(f)
	}
	return math.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}

// parseCorner parses one face vertex reference of the form
// "v", "v/t", "v//n" or "v/t/n". OBJ indices are 1-based.
func parseCorner(ref string, vertCount, normCount int) (corner, error) {
	parts := strings.Split(ref, "/")

	vi, err := strconv.Atoi(parts[0])
	if err != nil {
		return corner{}, fmt.Errorf("parsing face reference %q: %w", ref, err)
	}
	vi--
	if vi < 0 || vi >= vertCount {
		return corner{}, fmt.Errorf("%w: vertex %d of %d", ErrIndexOutOfRange, vi+1, vertCount)
	}

	c := corner{vert: vi, norm: -1}
	if len(parts) > 2 && parts[2] != "" {
		ni, err := strconv.Atoi(parts[2])
		if err != nil {
			return corner{}, fmt.Errorf("parsing normal reference %q: %w", ref, err)
		}
		ni--
		if ni < 0 || ni >= normCount {
			return corner{}, fmt.Errorf("%w: normal %d of %d", ErrIndexOutOfRange, ni+1, normCount)
		}
		c.norm = ni
	}
	return c, nil
}

// assemble fan-triangulates each face around its first vertex and resolves
// per-corner normals. A face with fewer than 3 corners emits nothing.
func assemble(verts, norms []math.Vec3, faces [][]corner) *Mesh {
	mesh := &Mesh{}
	for _, face := range faces {
		for i := 1; i < len(face)-1; i++ {
			tri := [3]corner{face[0], face[i], face[i+1]}

			p0 := verts[tri[0].vert]
			p1 := verts[tri[1].vert]
			p2 := verts[tri[2].vert]
			mesh.Positions = append(mesh.Positions, p0, p1, p2)

			if tri[0].norm >= 0 && tri[1].norm >= 0 && tri[2].norm >= 0 {
				mesh.Normals = append(mesh.Normals,
					norms[tri[0].norm], norms[tri[1].norm], norms[tri[2].norm])
			} else {
				n := faceNormal(p0, p1, p2)
				mesh.Normals = append(mesh.Normals, n, n, n)
			}
		}
	}
	return mesh
}

// faceNormal computes the flat normal of a triangle. Degenerate triangles
// (zero-area, collinear edges) fall back to the up vector instead of
// producing NaN.
func faceNormal(p0, p1, p2 math.Vec3) math.Vec3 {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Length() < 1e-10 {
		return math.Vec3{Y: 1}
	}
	return n.Normalize()
}

// normalize re-centers the mesh on its bounding-box centroid and uniformly
// scales it so the largest box dimension equals TargetSize. A zero-extent
// mesh is centered but not scaled.
func (m *Mesh) normalize() {
	if len(m.Positions) == 0 {
		return
	}

	min, max := m.Bounds()
	center := min.Add(max).Scale(0.5)

	size := max.Sub(min)
	largest := size.X
	if size.Y > largest {
		largest = size.Y
	}
	if size.Z > largest {
		largest = size.Z
	}

	scale := float32(1.0)
	if largest > 0 {
		scale = TargetSize / largest
	}

	for i := range m.Positions {
		m.Positions[i] = m.Positions[i].Sub(center).Scale(scale)
	}
}
