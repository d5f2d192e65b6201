package mesh

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/mapmodel/pkg/math"
)

func TestSynthesizeNormalsSingleTriangle(t *testing.T) {
	m := &Mesh{
		Indices:   []uint32{0, 1, 2},
		Positions: []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}},
	}

	if degenerate := SynthesizeNormals(m); degenerate != 0 {
		t.Errorf("degenerate: got %d, want 0", degenerate)
	}

	want := math.Vec3{X: 0, Y: 0, Z: 1}
	for i, n := range m.Normals {
		if !n.ApproxEqual(want, 1e-6) {
			t.Errorf("normal %d: got %v, want %v", i, n, want)
		}
	}
}

func TestSynthesizeNormalsNoTriangles(t *testing.T) {
	m := &Mesh{
		Indices:   []uint32{0, 1},
		Positions: []math.Vec3{{X: 1}, {Y: 1}, {Z: 1}},
		Normals:   []math.Vec3{{X: 9}},
	}

	degenerate := SynthesizeNormals(m)
	if degenerate != 3 {
		t.Errorf("degenerate: got %d, want 3", degenerate)
	}
	if len(m.Normals) != 3 {
		t.Fatalf("normals: got %d, want 3", len(m.Normals))
	}
	for i, n := range m.Normals {
		if isNaN(n) {
			t.Errorf("normal %d is NaN", i)
		}
		if !n.IsZero() {
			t.Errorf("normal %d: got %v, want zero", i, n)
		}
	}
}

func TestSynthesizeNormalsUnreferencedVertex(t *testing.T) {
	m := &Mesh{
		Indices: []uint32{0, 1, 2},
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 7, Y: 7, Z: 7},
		},
	}

	if degenerate := SynthesizeNormals(m); degenerate != 1 {
		t.Errorf("degenerate: got %d, want 1", degenerate)
	}
	if n := m.Normals[3]; isNaN(n) || !n.IsZero() {
		t.Errorf("unreferenced vertex normal: got %v, want zero", n)
	}
}

func TestSynthesizeNormalsAreaWeighted(t *testing.T) {
	// Two triangles share vertex 0: a large one facing +Z and a small one
	// facing +X. The shared normal leans towards the larger triangle.
	m := &Mesh{
		Indices: []uint32{0, 1, 2, 0, 3, 4},
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 4, Y: 0, Z: 0}, {X: 0, Y: 4, Z: 0},
			{X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1},
		},
	}
	SynthesizeNormals(m)

	n := m.Normals[0]
	if n.Z <= n.X {
		t.Errorf("shared normal %v should favor the larger +Z triangle", n)
	}
	if l := n.Length(); gomath.Abs(float64(l)-1) > 1e-5 {
		t.Errorf("shared normal length: got %f, want 1", l)
	}
}

func isNaN(v math.Vec3) bool {
	return v.X != v.X || v.Y != v.Y || v.Z != v.Z
}
