package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/anatomy-viewer/internal/engine/camera"
	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
)

var (
	partColor      = [4]float32{0.85, 0.78, 0.70, 1}
	highlightColor = [4]float32{1.0, 0.55, 0.2, 1}
	boundsColor    = [4]float32{0.35, 0.4, 0.5, 0.6}
)

// Shade modulates c by the scene lights. Alpha is kept.
func Shade(c [4]float32, l scene.Lights) [4]float32 {
	f := min(1, 0.2+0.5*l.Ambient+0.3*l.Directional)
	return [4]float32{c[0] * f, c[1] * f, c[2] * f, c[3]}
}

// Panel is one sub-rectangle of the window. It satisfies the viewport
// renderer contract.
type Panel struct {
	r *Renderer

	// Origin and size are in window coordinates; ratio converts them to
	// drawable pixels.
	x, y          int
	width, height int
	ratio         float32
	highlight     string

	// GPU copies of the current model's part meshes, index-aligned with
	// its parts.
	model  *scene.Model
	meshes []gpuMesh
}

// SetOrigin places the panel's lower-left corner.
func (p *Panel) SetOrigin(x, y int) {
	p.x, p.y = x, y
}

// SetSize sets the panel size.
func (p *Panel) SetSize(width, height int) {
	p.width, p.height = width, height
}

// SetPixelRatio sets drawable pixels per window unit. Non-positive
// values mean 1.
func (p *Panel) SetPixelRatio(r float32) {
	p.ratio = r
}

// Rect returns the panel rectangle in drawable pixels.
func (p *Panel) Rect() (x, y, width, height int32) {
	r := p.ratio
	if r <= 0 {
		r = 1
	}
	return int32(float32(p.x) * r), int32(float32(p.y) * r),
		int32(float32(p.width) * r), int32(float32(p.height) * r)
}

// Highlight marks the named part; an empty name clears it.
func (p *Panel) Highlight(name string) {
	p.highlight = name
}

// Render clears the panel and draws the model. Parts with a mesh are
// shaded by the scene lights; the rest, and the highlighted part, are drawn
// as bounding wireframes.
func (p *Panel) Render(s *scene.Scene, cam *camera.Camera) {
	x, y, w, h := p.Rect()
	gl.Viewport(x, y, w, h)
	gl.Enable(gl.SCISSOR_TEST)
	gl.Scissor(x, y, w, h)
	gl.ClearColor(Background[0], Background[1], Background[2], Background[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	m := s.Model()
	p.sync(m)
	if m == nil {
		return
	}

	parts := m.Parts()
	lights := s.Lights()
	viewProj := cam.ViewProjection()

	prog := p.r.meshes
	prog.Use()
	prog.SetMat4("uViewProj", viewProj)
	prog.SetVec3("uLightDir", LightDirection())
	prog.SetFloat("uAmbient", lights.Ambient)
	prog.SetFloat("uDirectional", lights.Directional)
	for i := range p.meshes {
		if p.meshes[i].vao == 0 {
			continue
		}
		prog.SetVec4("uColor", p.partColor(parts[i].Name))
		p.meshes[i].draw()
	}

	lines := p.r.lines
	lines.Use()
	lines.SetMat4("uViewProj", viewProj)
	lines.SetVec4("uColor", Shade(boundsColor, lights))
	draw(p.r.lineVAO, p.r.lineVBO, gl.LINES, 3, WireframeVertices(m.WorldBounds()))

	for i, part := range parts {
		if p.meshes[i].vao != 0 && !p.highlighted(part.Name) {
			continue
		}
		lines.SetVec4("uColor", Shade(p.partColor(part.Name), lights))
		draw(p.r.lineVAO, p.r.lineVBO, gl.LINES, 3, WireframeVertices(part.Bounds))
	}
}

func (p *Panel) highlighted(name string) bool {
	return name != "" && name == p.highlight
}

func (p *Panel) partColor(name string) [4]float32 {
	if p.highlighted(name) {
		return highlightColor
	}
	return partColor
}

// sync uploads m's meshes when the scene's model changed.
func (p *Panel) sync(m *scene.Model) {
	if m == p.model {
		return
	}
	p.Release()
	p.model = m
	if m == nil {
		return
	}
	parts := m.Parts()
	p.meshes = make([]gpuMesh, len(parts))
	for i, part := range parts {
		p.meshes[i] = uploadMesh(part.Mesh)
	}
}

// Release frees the panel's GPU meshes.
func (p *Panel) Release() {
	for i := range p.meshes {
		p.meshes[i].release()
	}
	p.meshes = nil
	p.model = nil
}
