package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

// OrbitControls rotates, dollies and pans a camera around a target point.
// Spherical state is re-derived from the camera pose before every
// interaction, so an externally overwritten pose is picked up as-is.
type OrbitControls struct {
	camera *Camera

	// Target is the point the camera orbits.
	Target math.Vec3

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	RotateSensitivity float32
	ZoomSensitivity   float32
	PanSensitivity    float32

	enabled   bool
	listeners []listener
	nextID    int
}

type listener struct {
	id int
	fn func()
}

// NewOrbitControls creates enabled controls for cam.
func NewOrbitControls(cam *Camera, minDistance, maxDistance float32) *OrbitControls {
	return &OrbitControls{
		camera:            cam,
		MinDistance:       minDistance,
		MaxDistance:       maxDistance,
		MinPitch:          -1.5,
		MaxPitch:          1.5,
		RotateSensitivity: 0.005,
		ZoomSensitivity:   0.1,
		PanSensitivity:    0.002,
		enabled:           true,
	}
}

// Camera returns the controlled camera.
func (o *OrbitControls) Camera() *Camera { return o.camera }

// Enabled reports whether input is accepted.
func (o *OrbitControls) Enabled() bool { return o.enabled }

// SetEnabled turns input handling on or off. Disabled controls ignore
// input and emit no change notifications.
func (o *OrbitControls) SetEnabled(v bool) { o.enabled = v }

// OnChange registers fn to run after every interaction-driven pose
// change. The returned function unsubscribes.
func (o *OrbitControls) OnChange(fn func()) (unsubscribe func()) {
	id := o.nextID
	o.nextID++
	o.listeners = append(o.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range o.listeners {
			if l.id == id {
				o.listeners = append(o.listeners[:i:i], o.listeners[i+1:]...)
				return
			}
		}
	}
}

func (o *OrbitControls) emit() {
	for _, l := range o.listeners {
		l.fn()
	}
}

// Distance returns the camera's distance from the target.
func (o *OrbitControls) Distance() float32 {
	return o.camera.Position.Distance(o.Target)
}

// spherical returns distance, pitch and yaw of the camera around Target.
func (o *OrbitControls) spherical() (dist, pitch, yaw float32) {
	off := o.camera.Position.Sub(o.Target)
	dist = off.Length()
	if dist == 0 {
		return 0, 0, 0
	}
	pitch = math32.Asin(clamp(off.Y/dist, -1, 1))
	yaw = math32.Atan2(off.X, off.Z)
	return dist, pitch, yaw
}

func (o *OrbitControls) place(dist, pitch, yaw float32) {
	cp := math32.Cos(pitch)
	o.camera.Position = math.Vec3{
		X: o.Target.X + dist*cp*math32.Sin(yaw),
		Y: o.Target.Y + dist*math32.Sin(pitch),
		Z: o.Target.Z + dist*cp*math32.Cos(yaw),
	}
	o.camera.LookAt(o.Target)
}

// Rotate orbits by a pointer drag delta in pixels. It reports whether the
// pose changed.
func (o *OrbitControls) Rotate(dx, dy float32) bool {
	if !o.enabled {
		return false
	}
	dist, pitch, yaw := o.spherical()
	if dist == 0 {
		return false
	}
	yaw -= dx * o.RotateSensitivity
	pitch = clamp(pitch+dy*o.RotateSensitivity, o.MinPitch, o.MaxPitch)

	o.place(dist, pitch, yaw)
	o.emit()
	return true
}

// Dolly moves towards (positive delta) or away from the target, clamped
// to [MinDistance, MaxDistance].
func (o *OrbitControls) Dolly(delta float32) bool {
	if !o.enabled {
		return false
	}
	off := o.camera.Position.Sub(o.Target)
	dist := off.Length()
	dir := off.Normalize()
	if dist == 0 {
		dir = o.camera.Forward().Scale(-1)
	}

	dist -= delta * dist * o.ZoomSensitivity
	dist = clamp(dist, o.MinDistance, o.MaxDistance)

	o.camera.Position = o.Target.Add(dir.Scale(dist))
	o.emit()
	return true
}

// Pan translates camera and target in the view plane. Speed scales with
// distance for a consistent feel.
func (o *OrbitControls) Pan(dx, dy float32) bool {
	if !o.enabled {
		return false
	}
	speed := math32.Max(o.Distance(), o.MinDistance) * o.PanSensitivity
	move := o.camera.Right().Scale(-dx * speed).Add(o.camera.Up().Scale(dy * speed))

	o.Target = o.Target.Add(move)
	o.camera.Position = o.camera.Position.Add(move)
	o.emit()
	return true
}

// SetTarget sets the orbit target without moving the camera or notifying.
func (o *OrbitControls) SetTarget(t math.Vec3) {
	o.Target = t
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
