package layer

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/mapmodel/internal/engine/mesh"
	"github.com/Faultbox/mapmodel/internal/engine/shader"
	"github.com/Faultbox/mapmodel/pkg/math"
)

// ErrMissingUniform is returned when a linked program lacks the MVP uniform.
var ErrMissingUniform = errors.New("program has no MVP uniform")

// GLDevice implements Device on the current OpenGL 4.1 core context.
// All methods must be called on the thread owning the context.
type GLDevice struct{}

// NewGLDevice returns a device for the current context. gl.Init must have
// been called.
func NewGLDevice() *GLDevice {
	return &GLDevice{}
}

// CreateProgram compiles and links src.
func (d *GLDevice) CreateProgram(src shader.ProgramSource) (ProgramHandle, error) {
	id, err := src.Compile()
	if err != nil {
		return ProgramHandle{}, err
	}
	loc := shader.GetUniform(id, shader.MVPUniform)
	if loc < 0 {
		gl.DeleteProgram(id)
		return ProgramHandle{}, fmt.Errorf("%w: %s", ErrMissingUniform, shader.MVPUniform)
	}
	return ProgramHandle{ID: id, MVP: loc}, nil
}

// UploadMesh creates the vertex array, a vertex buffer holding all positions
// followed by all normals, and an index buffer.
func (d *GLDevice) UploadMesh(m *mesh.Mesh) (MeshHandle, error) {
	if len(m.Indices) == 0 || len(m.Positions) == 0 {
		return MeshHandle{}, mesh.ErrEmptyMesh
	}

	var h MeshHandle
	gl.GenVertexArrays(1, &h.VAO)
	gl.BindVertexArray(h.VAO)

	data := mesh.VertexData(m)
	gl.GenBuffers(1, &h.VertexBuffer)
	gl.BindBuffer(gl.ARRAY_BUFFER, h.VertexBuffer)
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)

	// Positions and normals are separate tightly packed regions.
	gl.VertexAttribPointerWithOffset(shader.PositionLocation, 3, gl.FLOAT, false, 0, 0)
	gl.EnableVertexAttribArray(shader.PositionLocation)
	gl.VertexAttribPointerWithOffset(shader.NormalLocation, 3, gl.FLOAT, false, 0, uintptr(mesh.NormalOffset(m)))
	gl.EnableVertexAttribArray(shader.NormalLocation)

	gl.GenBuffers(1, &h.IndexBuffer)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, h.IndexBuffer)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, mesh.IndexBufferSize(m), gl.Ptr(m.Indices), gl.STATIC_DRAW)

	h.IndexCount = int32(len(m.Indices))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return h, nil
}

// BeginFrame enables blending and read-only depth testing, and disables
// culling.
func (d *GLDevice) BeginFrame() {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthMask(false)
	gl.DepthFunc(gl.LEQUAL)

	gl.Disable(gl.CULL_FACE)
	gl.CullFace(gl.BACK)
	gl.FrontFace(gl.CCW)
}

// Draw renders one mesh with the given model-view-projection.
func (d *GLDevice) Draw(p ProgramHandle, h MeshHandle, mvp math.Mat4) {
	gl.UseProgram(p.ID)
	gl.UniformMatrix4fv(p.MVP, 1, false, mvp.Ptr())
	gl.BindVertexArray(h.VAO)
	gl.DrawElements(gl.TRIANGLES, h.IndexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

// EndFrame re-enables depth writes.
func (d *GLDevice) EndFrame() {
	gl.DepthMask(true)
	gl.UseProgram(0)
}

// DeleteMesh releases the buffers of h.
func (d *GLDevice) DeleteMesh(h MeshHandle) {
	gl.DeleteVertexArrays(1, &h.VAO)
	buffers := []uint32{h.VertexBuffer, h.IndexBuffer}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
}

// DeleteProgram releases p.
func (d *GLDevice) DeleteProgram(p ProgramHandle) {
	gl.DeleteProgram(p.ID)
}
