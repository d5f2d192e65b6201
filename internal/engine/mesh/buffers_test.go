package mesh

import "testing"

func TestVertexDataLayout(t *testing.T) {
	m := FallbackTriangle()
	data := VertexData(m)

	if len(data) != 3*3*2 {
		t.Fatalf("length: got %d, want 18", len(data))
	}

	// Positions first
	if data[0] != 0 || data[1] != 1 || data[2] != 0 {
		t.Errorf("first position: got %v", data[0:3])
	}
	// Normal region starts right after the last position.
	offset := NormalOffset(m)
	if offset != 36 {
		t.Errorf("normal offset: got %d, want 36", offset)
	}
	n := data[offset/4 : offset/4+3]
	if n[0] != 0 || n[1] != 1 || n[2] != 0 {
		t.Errorf("first normal: got %v", n)
	}
	if IndexBufferSize(m) != 12 {
		t.Errorf("index buffer size: got %d, want 12", IndexBufferSize(m))
	}
}

func TestFallbackTriangleIsComplete(t *testing.T) {
	m := FallbackTriangle()
	if len(m.Indices) != 3 || len(m.Positions) != 3 || len(m.Normals) != 3 {
		t.Errorf("fallback triangle incomplete: %+v", m)
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			t.Errorf("index %d out of range", idx)
		}
	}
}
