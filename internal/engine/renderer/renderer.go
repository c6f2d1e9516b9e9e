// Package renderer draws the viewer's panels and heads-up display with
// OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/anatomy-viewer/internal/engine/renderer/shaders"
	"github.com/Faultbox/anatomy-viewer/internal/engine/shader"
	"github.com/Faultbox/anatomy-viewer/internal/logger"
)

// Background is the panel clear colour.
var Background = [4]float32{0.1, 0.1, 0.15, 1.0}

// Renderer owns the GL state shared by all panels and the HUD.
type Renderer struct {
	width, height int

	lines  *shader.Program
	meshes *shader.Program
	hud    *shader.Program

	// Streamed line geometry, re-uploaded per draw.
	lineVAO uint32
	lineVBO uint32
	hudVAO  uint32
	hudVBO  uint32
}

// New initializes OpenGL and compiles the shared programs.
// Must be called after the GL context is current.
func New(width, height int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r := &Renderer{width: width, height: height}

	var err error
	if r.lines, err = shader.New(shaders.LineVertex, shaders.LineFragment); err != nil {
		return nil, fmt.Errorf("line program: %w", err)
	}
	if r.meshes, err = shader.New(shaders.MeshVertex, shaders.MeshFragment); err != nil {
		r.lines.Delete()
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	if r.hud, err = shader.New(shaders.HUDVertex, shaders.HUDFragment); err != nil {
		r.lines.Delete()
		r.meshes.Delete()
		return nil, fmt.Errorf("hud program: %w", err)
	}

	r.lineVAO, r.lineVBO = newStream(3)
	r.hudVAO, r.hudVBO = newStream(2)

	logger.Debug("renderer ready",
		zap.Uint32("lineProgram", r.lines.ID),
		zap.Uint32("meshProgram", r.meshes.ID),
		zap.Uint32("hudProgram", r.hud.ID),
	)
	return r, nil
}

// newStream creates a VAO with one float attribute of the given width at
// location 0.
func newStream(components int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.VertexAttribPointer(0, components, gl.FLOAT, false, components*4, nil)
	gl.EnableVertexAttribArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	return vao, vbo
}

// draw uploads vertices into vbo and issues one draw call.
func draw(vao, vbo uint32, mode uint32, components int, vertices []float32) {
	if len(vertices) == 0 {
		return
	}
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(mode, 0, int32(len(vertices)/components))
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
}

// Close releases GL resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, vao := range []*uint32{&r.lineVAO, &r.hudVAO} {
		if *vao != 0 {
			gl.DeleteVertexArrays(1, vao)
		}
	}
	for _, vbo := range []*uint32{&r.lineVBO, &r.hudVBO} {
		if *vbo != 0 {
			gl.DeleteBuffers(1, vbo)
		}
	}
	r.lines.Delete()
	r.meshes.Delete()
	r.hud.Delete()
}

// Resize records the drawable size of the whole window.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Size returns the drawable size.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// Begin starts a new frame by clearing the whole window.
func (r *Renderer) Begin() {
	gl.Disable(gl.SCISSOR_TEST)
	gl.Viewport(0, 0, int32(r.width), int32(r.height))
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// End finishes the current frame.
func (r *Renderer) End() {
	gl.Disable(gl.SCISSOR_TEST)
}

// NewPanel creates a panel drawn with this renderer's programs. Call
// Panel.Release before Close.
func (r *Renderer) NewPanel() *Panel {
	return &Panel{r: r, width: 1, height: 1, ratio: 1}
}
