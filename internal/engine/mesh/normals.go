package mesh

import "github.com/Faultbox/mapmodel/pkg/math"

// SynthesizeNormals replaces m.Normals with per-vertex normals accumulated
// from the triangles' unnormalized face normals, so larger triangles weigh
// more. Vertices no triangle touches keep a zero normal; their count is
// returned.
func SynthesizeNormals(m *Mesh) int {
	normals := make([]math.Vec3, len(m.Positions))
	m.Normals = normals

	// No triangles to derive direction from
	if len(m.Indices) < 3 {
		return len(normals)
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		i0, i1, i2 := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		v0 := m.Positions[i0]
		a := m.Positions[i1].Sub(v0)
		b := m.Positions[i2].Sub(v0)
		n := a.Cross(b)

		normals[i0] = normals[i0].Add(n)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
	}

	degenerate := 0
	for i, n := range normals {
		if n.IsZero() {
			degenerate++
			continue
		}
		normals[i] = n.Normalize()
	}
	return degenerate
}
