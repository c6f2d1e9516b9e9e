// Package camera provides the perspective camera and orbit controls used
// by each viewport.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

// Pose is the part of a camera that synchronization copies.
type Pose struct {
	Position    math.Vec3
	Orientation math.Quat
}

// Camera is a perspective camera looking down its local -Z axis.
type Camera struct {
	Position    math.Vec3
	Orientation math.Quat

	FOV    float32 // vertical, radians
	Aspect float32
	Near   float32
	Far    float32
}

// New creates a camera at the origin looking down -Z.
func New(fovDegrees, aspect, near, far float32) *Camera {
	return &Camera{
		Orientation: math.QuatIdentity(),
		FOV:         fovDegrees * math32.Pi / 180,
		Aspect:      aspect,
		Near:        near,
		Far:         far,
	}
}

// Pose returns the current position and orientation.
func (c *Camera) Pose() Pose {
	return Pose{Position: c.Position, Orientation: c.Orientation}
}

// SetPose overwrites position and orientation.
func (c *Camera) SetPose(p Pose) {
	c.Position = p.Position
	c.Orientation = p.Orientation
}

// LookAt turns the camera towards target keeping +Y up.
func (c *Camera) LookAt(target math.Vec3) {
	c.Orientation = math.QuatLookAt(c.Position, target, math.Vec3{Y: 1})
}

// Forward returns the viewing direction.
func (c *Camera) Forward() math.Vec3 {
	return c.Orientation.Rotate(math.Vec3{Z: -1})
}

// Right returns the camera's local +X axis in world space.
func (c *Camera) Right() math.Vec3 {
	return c.Orientation.Rotate(math.Vec3{X: 1})
}

// Up returns the camera's local +Y axis in world space.
func (c *Camera) Up() math.Vec3 {
	return c.Orientation.Rotate(math.Vec3{Y: 1})
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() math.Mat4 {
	p := c.Position
	return c.Orientation.Conjugate().ToMat4().Mul(math.Translate(-p.X, -p.Y, -p.Z))
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FOV, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Ray returns the world-space ray through normalized device coordinates
// (ndcX, ndcY), each in [-1, 1] with +Y up.
func (c *Camera) Ray(ndcX, ndcY float32) (origin, dir math.Vec3) {
	h := math32.Tan(c.FOV / 2)
	local := math.Vec3{X: ndcX * h * c.Aspect, Y: ndcY * h, Z: -1}.Normalize()
	return c.Position, c.Orientation.Rotate(local).Normalize()
}
