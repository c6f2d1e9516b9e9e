package renderer

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

// meshStride is position + normal, in floats.
const meshStride = 6

// lightPosition places the directional light; it shines toward the origin.
var lightPosition = math.Vec3{X: 1, Y: 2, Z: 3}

// LightDirection is the unit vector the directional light travels along.
func LightDirection() math.Vec3 {
	return lightPosition.Scale(-1).Normalize()
}

// Interleave packs a mesh as position/normal pairs for upload.
func Interleave(m *scene.Mesh) []float32 {
	if m == nil {
		return nil
	}
	out := make([]float32, 0, len(m.Positions)*meshStride)
	for i, p := range m.Positions {
		var n math.Vec3
		if i < len(m.Normals) {
			n = m.Normals[i]
		}
		out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
	}
	return out
}

// gpuMesh is one part's geometry in GL buffers. A zero vao means the part
// has no mesh and is drawn as its bounds.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

func uploadMesh(m *scene.Mesh) gpuMesh {
	vertices := Interleave(m)
	if len(vertices) == 0 || len(m.Indices) == 0 {
		return gpuMesh{}
	}

	var g gpuMesh
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, meshStride*4, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, meshStride*4, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	g.indexCount = int32(len(m.Indices))
	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) draw() {
	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (g *gpuMesh) release() {
	if g.vao != 0 {
		gl.DeleteVertexArrays(1, &g.vao)
	}
	if g.vbo != 0 {
		gl.DeleteBuffers(1, &g.vbo)
	}
	if g.ebo != 0 {
		gl.DeleteBuffers(1, &g.ebo)
	}
	*g = gpuMesh{}
}
