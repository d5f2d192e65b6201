package mesh

import (
	"errors"
	"testing"

	"github.com/Faultbox/mapmodel/pkg/math"
)

// corner builds a corner referencing position p and normal n with no texcoord.
func corner(p, n int32) Corner {
	return Corner{Position: p, Normal: n, TexCoord: NoIndex}
}

// unitSquare returns a counter-clockwise unit square in the XY plane with no
// normals.
func unitSquare() *Source {
	return &Source{
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0},
			{X: 1, Y: 0, Z: 0},
			{X: 1, Y: 1, Z: 0},
			{X: 0, Y: 1, Z: 0},
		},
		Faces: []Face{
			{corner(0, NoIndex), corner(1, NoIndex), corner(2, NoIndex)},
			{corner(0, NoIndex), corner(2, NoIndex), corner(3, NoIndex)},
		},
	}
}

func TestBuildDistinctCorners(t *testing.T) {
	up := math.Vec3{X: 0, Y: 0, Z: 1}
	src := &Source{
		Positions: []math.Vec3{
			{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0},
			{X: 2, Y: 0, Z: 0}, {X: 3, Y: 0, Z: 0}, {X: 2, Y: 1, Z: 0},
		},
		Normals: []math.Vec3{up},
		Faces: []Face{
			{corner(0, 0), corner(1, 0), corner(2, 0)},
			{corner(3, 0), corner(4, 0), corner(5, 0)},
		},
	}

	m, stats, err := Build(src, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(m.Positions) != 6 {
		t.Errorf("positions: got %d, want 6", len(m.Positions))
	}
	if len(m.Normals) != 6 {
		t.Errorf("normals: got %d, want 6", len(m.Normals))
	}
	if len(m.Indices) != 3*len(src.Faces) {
		t.Errorf("indices: got %d, want %d", len(m.Indices), 3*len(src.Faces))
	}
	if stats.CacheHits != 0 {
		t.Errorf("cache hits: got %d, want 0", stats.CacheHits)
	}
	if stats.NormalsSynthesized {
		t.Error("source normals should have been kept")
	}
	for i, n := range m.Normals {
		if n != up {
			t.Errorf("normal %d: got %v, want %v", i, n, up)
		}
	}
}

func TestBuildSharedCorners(t *testing.T) {
	m, stats, err := Build(unitSquare(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(m.Positions) >= 3*2 {
		t.Errorf("expected fewer than 6 positions, got %d", len(m.Positions))
	}
	if len(m.Positions) != 4 {
		t.Errorf("positions: got %d, want 4", len(m.Positions))
	}
	if stats.CacheHits != 2 {
		t.Errorf("cache hits: got %d, want 2", stats.CacheHits)
	}

	// Corner 0 of both faces must resolve to the same output vertex.
	if m.Indices[0] != m.Indices[3] {
		t.Errorf("shared corner mapped to %d and %d", m.Indices[0], m.Indices[3])
	}
}

func TestBuildWinding(t *testing.T) {
	src := &Source{
		Positions: []math.Vec3{{X: 0}, {X: 1}, {Y: 1}},
		Faces:     []Face{{corner(0, NoIndex), corner(1, NoIndex), corner(2, NoIndex)}},
	}

	tests := []struct {
		name string
		opts BuildOptions
		want []uint32
	}{
		{"source order", BuildOptions{FlipWinding: false}, []uint32{0, 1, 2}},
		{"flipped", BuildOptions{FlipWinding: true}, []uint32{0, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, err := Build(src, tt.opts)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			for i := range tt.want {
				if m.Indices[i] != tt.want[i] {
					t.Fatalf("indices: got %v, want %v", m.Indices, tt.want)
				}
			}
		})
	}
}

func TestBuildUnitSquareSynthesizesNormals(t *testing.T) {
	m, stats, err := Build(unitSquare(), BuildOptions{FlipWinding: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(m.Positions) != 4 {
		t.Errorf("positions: got %d, want 4", len(m.Positions))
	}
	if len(m.Indices) != 6 {
		t.Errorf("indices: got %d, want 6", len(m.Indices))
	}
	if !stats.NormalsSynthesized {
		t.Error("expected normals to be synthesized")
	}
	if len(m.Normals) != 4 {
		t.Fatalf("normals: got %d, want 4", len(m.Normals))
	}

	// The source is counter-clockwise seen from +Z; flipped winding faces -Z.
	want := math.Vec3{X: 0, Y: 0, Z: -1}
	for i, n := range m.Normals {
		if !n.ApproxEqual(want, 1e-6) {
			t.Errorf("normal %d: got %v, want %v", i, n, want)
		}
	}
}

func TestBuildPartialNormalsAreReplaced(t *testing.T) {
	src := unitSquare()
	src.Normals = []math.Vec3{{X: 1, Y: 0, Z: 0}}
	// Only the first corner carries a normal.
	src.Faces[0][0] = corner(0, 0)

	m, stats, err := Build(src, BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !stats.NormalsSynthesized {
		t.Fatal("partial normals should trigger synthesis")
	}
	if len(m.Normals) != len(m.Positions) {
		t.Fatalf("normals: got %d, want %d", len(m.Normals), len(m.Positions))
	}
	want := math.Vec3{X: 0, Y: 0, Z: 1}
	for i, n := range m.Normals {
		if !n.ApproxEqual(want, 1e-6) {
			t.Errorf("normal %d: got %v, want %v", i, n, want)
		}
	}
}

func TestBuilderReuseDoesNotLeak(t *testing.T) {
	b := NewBuilder(BuildOptions{})

	if _, _, err := b.Build(unitSquare()); err != nil {
		t.Fatalf("first Build: %v", err)
	}

	other := &Source{
		Positions: []math.Vec3{{X: 5}, {X: 6}, {X: 5, Y: 1}},
		Faces:     []Face{{corner(0, NoIndex), corner(1, NoIndex), corner(2, NoIndex)}},
	}
	m, stats, err := b.Build(other)
	if err != nil {
		t.Fatalf("second Build: %v", err)
	}
	if stats.CacheHits != 0 {
		t.Errorf("stale cache entries hit %d times", stats.CacheHits)
	}
	if len(m.Positions) != 3 || m.Positions[0].X != 5 {
		t.Errorf("unexpected positions %v", m.Positions)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     *Source
		wantErr error
	}{
		{
			name:    "no faces",
			src:     &Source{Positions: []math.Vec3{{}, {}, {}}},
			wantErr: ErrEmptyMesh,
		},
		{
			name:    "empty source",
			src:     &Source{},
			wantErr: ErrEmptyMesh,
		},
		{
			name: "position out of range",
			src: &Source{
				Positions: []math.Vec3{{}, {}},
				Faces:     []Face{{corner(0, NoIndex), corner(1, NoIndex), corner(2, NoIndex)}},
			},
			wantErr: ErrIndexOutOfRange,
		},
		{
			name: "normal out of range",
			src: &Source{
				Positions: []math.Vec3{{}, {}, {}},
				Faces:     []Face{{corner(0, 3), corner(1, NoIndex), corner(2, NoIndex)}},
			},
			wantErr: ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, err := Build(tt.src, BuildOptions{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
			if m != nil {
				t.Error("mesh must be nil on failure")
			}
		})
	}
}

func TestMeshBounds(t *testing.T) {
	m, _, err := Build(unitSquare(), BuildOptions{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	b := m.Bounds()
	if b.Min != (math.Vec3{}) || b.Max != (math.Vec3{X: 1, Y: 1}) {
		t.Errorf("bounds: got %+v", b)
	}
	if got := b.Size(); got != (math.Vec3{X: 1, Y: 1}) {
		t.Errorf("size: got %v", got)
	}
}
