// Package viewport binds one scene, camera, renderer and orbit controls to
// an on-screen panel.
package viewport

import (
	"fmt"

	"github.com/Faultbox/anatomy-viewer/internal/engine/camera"
	"github.com/Faultbox/anatomy-viewer/internal/engine/picking"
	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
)

// Renderer draws a scene through a camera onto a panel surface.
type Renderer interface {
	SetSize(width, height int)
	Render(s *scene.Scene, cam *camera.Camera)
}

// Options configure a new controller.
type Options struct {
	Width, Height int

	FOVDegrees  float32
	Near, Far   float32
	MinDistance float32
	MaxDistance float32

	Lights scene.Lights
}

// Controller owns exactly one {Scene, Camera, Renderer, Controls} tuple.
type Controller struct {
	index    int
	scene    *scene.Scene
	camera   *camera.Camera
	controls *camera.OrbitControls
	renderer Renderer

	width, height int
	baseFar       float32
}

// New creates a controller for panel index.
func New(index int, r Renderer, opts Options) (*Controller, error) {
	if r == nil {
		return nil, fmt.Errorf("viewport %d: renderer is required", index)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("viewport %d: size must be positive, got %dx%d", index, opts.Width, opts.Height)
	}

	cam := camera.New(opts.FOVDegrees, float32(opts.Width)/float32(opts.Height), opts.Near, opts.Far)
	c := &Controller{
		index:    index,
		scene:    scene.New(opts.Lights),
		camera:   cam,
		controls: camera.NewOrbitControls(cam, opts.MinDistance, opts.MaxDistance),
		renderer: r,
		width:    opts.Width,
		height:   opts.Height,
		baseFar:  opts.Far,
	}
	r.SetSize(opts.Width, opts.Height)
	return c, nil
}

// Index returns the panel index.
func (c *Controller) Index() int { return c.index }

// Scene returns the owned scene.
func (c *Controller) Scene() *scene.Scene { return c.scene }

// Camera returns the owned camera.
func (c *Controller) Camera() *camera.Camera { return c.camera }

// Controls returns the orbit controls.
func (c *Controller) Controls() *camera.OrbitControls { return c.controls }

// HasModel reports whether a model is attached.
func (c *Controller) HasModel() bool { return !c.scene.IsEmpty() }

// Size returns the panel size in pixels.
func (c *Controller) Size() (width, height int) { return c.width, c.height }

// Resize updates camera aspect and renderer size. Repeating the current
// size is a no-op.
func (c *Controller) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("viewport %d: size must be positive, got %dx%d", c.index, width, height)
	}
	if width == c.width && height == c.height {
		return nil
	}
	c.width, c.height = width, height
	c.camera.Aspect = float32(width) / float32(height)
	c.renderer.SetSize(width, height)
	return nil
}

// RenderFrame draws the scene. An empty scene draws only the background.
func (c *Controller) RenderFrame() {
	c.renderer.Render(c.scene, c.camera)
}

// ApplyFraming places the camera, points the orbit target at the model
// and widens the far plane if the model would be clipped.
func (c *Controller) ApplyFraming(f scene.Framing) {
	c.camera.Position = f.CameraPosition
	c.camera.LookAt(f.Target)
	c.controls.SetTarget(f.Target)
	c.camera.Far = max(c.baseFar, (f.Distance+f.Radius)*2)
}

// ShowModel attaches m to the scene, evicting the previous model, and
// frames it.
func (c *Controller) ShowModel(m *scene.Model) {
	c.scene.SetModel(m)
	c.ApplyFraming(m.Framing())
}

// Pick returns the nearest part under panel-local pixel (x, y).
func (c *Controller) Pick(x, y float32) (picking.Hit, bool) {
	r := picking.ScreenToRay(c.camera, x, y, float32(c.width), float32(c.height))
	return picking.Nearest(r, c.scene.Objects())
}
