// Package mesh turns attribute-indexed source geometry into compact indexed
// triangle meshes ready for GPU upload.
package mesh

import (
	"errors"

	"github.com/Faultbox/mapmodel/pkg/math"
)

// NoIndex marks an attribute a corner does not reference.
const NoIndex int32 = -1

// Mesh build errors.
var (
	ErrEmptyMesh       = errors.New("mesh has no triangles")
	ErrIndexOutOfRange = errors.New("attribute index out of range")
)

// Corner references one face vertex's attributes in a Source.
// Normal and TexCoord may be NoIndex.
type Corner struct {
	Position int32
	Normal   int32
	TexCoord int32
}

// Face is a triangle given as three corners in source winding order.
type Face [3]Corner

// Source holds decoded but not yet deduplicated geometry: flat attribute
// arrays plus triangulated faces indexing into them.
type Source struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	TexCoords []math.Vec2
	Faces     []Face
}

// Mesh is an indexed triangle list.
// len(Indices) is a multiple of 3 and every index is < len(Positions).
// After Build, len(Normals) == len(Positions).
type Mesh struct {
	Indices   []uint32
	Positions []math.Vec3
	Normals   []math.Vec3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the box extent on every axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Bounds returns the bounding box of the mesh positions.
// An empty mesh yields the zero box.
func (m *Mesh) Bounds() Bounds {
	if len(m.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		b.Min = b.Min.Min(p)
		b.Max = b.Max.Max(p)
	}
	return b
}

// BuildOptions contains options for mesh building.
type BuildOptions struct {
	// FlipWinding emits each face as (c0, c2, c1) instead of (c0, c1, c2).
	// OBJ sources are authored for the opposite handedness of the map's
	// Mercator space and need this set.
	FlipWinding bool
}

// Stats describes how a mesh was built.
type Stats struct {
	Faces              int
	CacheHits          int
	NormalsSynthesized bool

	// DegenerateNormals counts vertices no triangle contributed to. They keep
	// a zero normal.
	DegenerateNormals int
}
