package loader

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

// ErrDegenerateModel is returned when a model has no spatial extent.
var ErrDegenerateModel = errors.New("model has zero extent")

// FrameOptions are the presentation inputs to framing.
type FrameOptions struct {
	DesiredSize float32 // target max extent after normalization
	BaseFactor  float32 // per-model multiplier; 0 means 1
	Zoom        float32 // camera distance multiplier; 0 means 1
}

// Frame normalizes a model to the desired display size and places the
// camera on +Z from the centroid at twice the bounding radius times zoom.
func Frame(bounds math.Box3, opts FrameOptions) (scene.Framing, error) {
	if opts.DesiredSize <= 0 {
		return scene.Framing{}, fmt.Errorf("desired display size must be positive, got %v", opts.DesiredSize)
	}
	base := opts.BaseFactor
	if base == 0 {
		base = 1
	}
	zoom := opts.Zoom
	if zoom == 0 {
		zoom = 1
	}

	maxExtent := bounds.MaxExtent()
	if bounds.IsEmpty() || maxExtent <= 0 || math32.IsInf(maxExtent, 0) || math32.IsNaN(maxExtent) {
		return scene.Framing{}, ErrDegenerateModel
	}

	scale := opts.DesiredSize / maxExtent
	applied := scale * base

	centroid, radius := bounds.ScaleUniform(applied).BoundingSphere()
	distance := radius * 2 * zoom
	position := centroid.Add(math.Vec3{Z: distance})

	return scene.Framing{
		RawBounds:      bounds,
		MaxExtent:      maxExtent,
		ScaleFactor:    scale,
		BaseFactor:     base,
		AppliedScale:   applied,
		Zoom:           zoom,
		Centroid:       centroid,
		Radius:         radius,
		Distance:       distance,
		CameraPosition: position,
		Target:         centroid,
	}, nil
}
