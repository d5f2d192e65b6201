package layer

import (
	"github.com/Faultbox/mapmodel/internal/engine/mesh"
	"github.com/Faultbox/mapmodel/internal/engine/shader"
	"github.com/Faultbox/mapmodel/pkg/math"
)

// ProgramHandle identifies a linked program and its MVP uniform.
type ProgramHandle struct {
	ID  uint32
	MVP int32
}

// MeshHandle identifies uploaded mesh buffers.
type MeshHandle struct {
	VAO          uint32
	VertexBuffer uint32
	IndexBuffer  uint32
	IndexCount   int32
}

// Device performs the GPU work of a ModelLayer.
type Device interface {
	CreateProgram(src shader.ProgramSource) (ProgramHandle, error)
	UploadMesh(m *mesh.Mesh) (MeshHandle, error)
	// BeginFrame sets the render state for model drawing and EndFrame
	// restores what the host expects.
	BeginFrame()
	Draw(p ProgramHandle, h MeshHandle, mvp math.Mat4)
	EndFrame()
	DeleteMesh(h MeshHandle)
	DeleteProgram(p ProgramHandle)
}
