package mesh

import "github.com/Faultbox/mapmodel/pkg/math"

// FallbackTriangle returns the single upright triangle drawn in place of a
// model whose source could not be imported.
func FallbackTriangle() *Mesh {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return &Mesh{
		Indices: []uint32{0, 1, 2},
		Positions: []math.Vec3{
			{X: 0, Y: 1, Z: 0},
			{X: 1, Y: -1, Z: 0},
			{X: -1, Y: -1, Z: 0},
		},
		Normals: []math.Vec3{up, up, up},
	}
}
