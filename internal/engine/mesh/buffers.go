package mesh

// vec3Size is the byte size of one packed float32 Vec3.
const vec3Size = 3 * 4

// VertexData packs the mesh for a single vertex buffer: every position, then
// every normal. The two regions are contiguous and not interleaved per vertex.
func VertexData(m *Mesh) []float32 {
	data := make([]float32, 0, 3*(len(m.Positions)+len(m.Normals)))
	for _, p := range m.Positions {
		data = append(data, p.X, p.Y, p.Z)
	}
	for _, n := range m.Normals {
		data = append(data, n.X, n.Y, n.Z)
	}
	return data
}

// NormalOffset returns the byte offset of the normal region in VertexData.
func NormalOffset(m *Mesh) int {
	return len(m.Positions) * vec3Size
}

// IndexBufferSize returns the byte size of the index buffer.
func IndexBufferSize(m *Mesh) int {
	return len(m.Indices) * 4
}
