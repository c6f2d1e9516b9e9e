// Package picking casts pointer rays into a scene and resolves the part
// under the pointer.
package picking

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/anatomy-viewer/internal/engine/camera"
	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // normalized
}

// ScreenToNDC converts pixel coordinates (origin top-left) to normalized
// device coordinates.
func ScreenToNDC(screenX, screenY, viewportW, viewportH float32) (ndcX, ndcY float32) {
	ndcX = 2*screenX/viewportW - 1
	ndcY = 1 - 2*screenY/viewportH // flip Y
	return ndcX, ndcY
}

// ScreenToRay builds the world-space ray under a pixel of a viewport.
func ScreenToRay(cam *camera.Camera, screenX, screenY, viewportW, viewportH float32) Ray {
	ndcX, ndcY := ScreenToNDC(screenX, screenY, viewportW, viewportH)
	origin, dir := cam.Ray(ndcX, ndcY)
	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectBox tests ray intersection with an axis-aligned box using the
// slab method. It returns the entry distance, or the exit distance when
// the ray starts inside the box.
func (r Ray) IntersectBox(box math.Box3) (t float32, hit bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin, dir := r.Origin.Array(), r.Direction.Array()
	lo, hi := box.Min.Array(), box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is the nearest part under a ray.
type Hit struct {
	Part     scene.Part
	Distance float32
	Point    math.Vec3
}

// Nearest intersects r with every part and returns the closest hit.
func Nearest(r Ray, parts []scene.Part) (Hit, bool) {
	best := Hit{Distance: float32(gomath.MaxFloat32)}
	found := false
	for _, p := range parts {
		t, ok := r.IntersectBox(p.Bounds)
		if !ok || t >= best.Distance {
			continue
		}
		best = Hit{Part: p, Distance: t, Point: r.At(t)}
		found = true
	}
	return best, found
}
