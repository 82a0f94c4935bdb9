package obj

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// cubeOBJ is a unit cube defined with quad faces, exercising fan
// triangulation (2 triangles per quad, 12 total).
const cubeOBJ = `# unit cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 2 3 4
f 5 8 7 6
f 1 5 6 2
f 2 6 7 3
f 3 7 8 4
f 4 8 5 1
`

func TestParseCube(t *testing.T) {
	mesh, err := Parse([]byte(cubeOBJ))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	// 6 quads fan-triangulate to 12 triangles, 36 vertex instances.
	if got := mesh.VertexCount(); got != 36 {
		t.Errorf("VertexCount = %d, want 36", got)
	}
	if mesh.VertexCount()%3 != 0 {
		t.Error("vertex count is not a multiple of 3")
	}
	if len(mesh.Positions) != len(mesh.Normals) {
		t.Errorf("positions (%d) and normals (%d) length mismatch",
			len(mesh.Positions), len(mesh.Normals))
	}
}

func TestParseNormalization(t *testing.T) {
	mesh, err := Parse([]byte(cubeOBJ))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	min, max := mesh.Bounds()
	center := min.Add(max).Scale(0.5)
	const eps = 1e-4
	if center.Length() > eps {
		t.Errorf("bounding box center = %v, want origin", center)
	}

	size := max.Sub(min)
	largest := size.X
	if size.Y > largest {
		largest = size.Y
	}
	if size.Z > largest {
		largest = size.Z
	}
	if largest < TargetSize-eps || largest > TargetSize+eps {
		t.Errorf("largest bounding-box dimension = %v, want %v", largest, TargetSize)
	}
}

func TestParseNormalsFromFile(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f 1//1 2//1 3//1
`
	mesh, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := mesh.Normals[0]
	if want.X != 0 || want.Y != 0 || want.Z != 1 {
		t.Errorf("normal = %v, want (0,0,1)", want)
	}
}

func TestParseComputedFlatNormal(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`
	mesh, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	n := mesh.Normals[0]
	// CCW triangle in the XY plane faces +Z.
	if n.Z < 0.999 {
		t.Errorf("computed normal = %v, want ~(0,0,1)", n)
	}
	for _, other := range mesh.Normals[1:] {
		if other != n {
			t.Errorf("flat normal not shared by all corners: %v vs %v", other, n)
		}
	}
}

func TestParseDegenerateFaceNormal(t *testing.T) {
	// All three vertices collinear: zero-area triangle.
	data := `
v 0 0 0
v 1 0 0
v 2 0 0
f 1 2 3
`
	mesh, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	for _, n := range mesh.Normals {
		if !n.IsFinite() {
			t.Fatalf("degenerate face produced non-finite normal %v", n)
		}
		if n != (mesh.Normals[0]) || n.Y != 1 {
			t.Errorf("degenerate face normal = %v, want (0,1,0)", n)
		}
	}
}

func TestParseNoVertices(t *testing.T) {
	_, err := Parse([]byte("# empty file\n"))
	if !errors.Is(err, ErrNoVertices) {
		t.Errorf("Parse() error = %v, want ErrNoVertices", err)
	}
}

func TestParseNoFaces(t *testing.T) {
	_, err := Parse([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\n"))
	if !errors.Is(err, ErrNoFaces) {
		t.Errorf("Parse() error = %v, want ErrNoFaces", err)
	}
}

func TestParseIndexOutOfRange(t *testing.T) {
	data := `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 9
`
	_, err := Parse([]byte(data))
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Parse() error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestParseIgnoresUnknownRecords(t *testing.T) {
	data := `
mtllib cube.mtl
o cube
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
s off
usemtl body
f 1 2 3
`
	mesh, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if mesh.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", mesh.VertexCount())
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.fbx")
	if err := os.WriteFile(path, []byte("binary junk"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.fbx) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cube.obj")
	if err := os.WriteFile(path, []byte(cubeOBJ), 0644); err != nil {
		t.Fatal(err)
	}

	mesh, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if mesh.VertexCount() != 36 {
		t.Errorf("VertexCount = %d, want 36", mesh.VertexCount())
	}
}

func TestFlatSlices(t *testing.T) {
	mesh, err := Parse([]byte(cubeOBJ))
	if err != nil {
		t.Fatal(err)
	}
	if len(mesh.FlatPositions()) != mesh.VertexCount()*3 {
		t.Error("FlatPositions length mismatch")
	}
	if len(mesh.FlatNormals()) != mesh.VertexCount()*3 {
		t.Error("FlatNormals length mismatch")
	}
}
