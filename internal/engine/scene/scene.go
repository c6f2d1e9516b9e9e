// Package scene holds the per-viewport scene: lights and at most one
// loaded model with its pickable parts.
package scene

import (
	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

// Lights are the two light intensities applied to a scene.
type Lights struct {
	Ambient     float32
	Directional float32
}

// Part is a named, pickable mesh node. Bounds and Mesh are in world space
// after the model's applied scale. Mesh is nil when the asset's vertex
// buffers were not available.
type Part struct {
	Name   string
	Bounds math.Box3
	Mesh   *Mesh
}

// Framing is the normalization and camera placement derived from a model's
// bounding box.
type Framing struct {
	RawBounds    math.Box3
	MaxExtent    float32
	ScaleFactor  float32 // desired display size / max extent
	BaseFactor   float32
	AppliedScale float32 // ScaleFactor * BaseFactor
	Zoom         float32

	Centroid math.Vec3 // world space
	Radius   float32   // world space bounding sphere
	Distance float32   // camera to centroid

	CameraPosition math.Vec3
	Target         math.Vec3
}

// Model is a loaded asset. It is never mutated after construction.
type Model struct {
	name    string
	parts   []Part
	framing Framing
}

// NewModel creates a model from parts whose bounds and meshes are in raw
// asset space. The framing's applied scale is baked into the stored parts.
func NewModel(name string, rawParts []Part, f Framing) *Model {
	parts := make([]Part, len(rawParts))
	for i, p := range rawParts {
		parts[i] = Part{
			Name:   p.Name,
			Bounds: p.Bounds.ScaleUniform(f.AppliedScale),
			Mesh:   p.Mesh.scaled(f.AppliedScale),
		}
	}
	return &Model{name: name, parts: parts, framing: f}
}

// Name returns the model identifier.
func (m *Model) Name() string { return m.name }

// Triangles returns the total triangle count of all part meshes.
func (m *Model) Triangles() int {
	n := 0
	for _, p := range m.parts {
		n += p.Mesh.TriangleCount()
	}
	return n
}

// Parts returns a copy of the pickable parts.
func (m *Model) Parts() []Part {
	out := make([]Part, len(m.parts))
	copy(out, m.parts)
	return out
}

// Framing returns the model's framing.
func (m *Model) Framing() Framing { return m.framing }

// RawBounds returns the bounding box before scaling.
func (m *Model) RawBounds() math.Box3 { return m.framing.RawBounds }

// WorldBounds returns the bounding box after the applied scale.
func (m *Model) WorldBounds() math.Box3 {
	return m.framing.RawBounds.ScaleUniform(m.framing.AppliedScale)
}

// Centroid returns the world-space centre.
func (m *Model) Centroid() math.Vec3 { return m.framing.Centroid }

// Radius returns the world-space bounding sphere radius.
func (m *Model) Radius() float32 { return m.framing.Radius }

// AppliedScale returns the uniform scale applied to the asset.
func (m *Model) AppliedScale() float32 { return m.framing.AppliedScale }

// Scene is owned by exactly one viewport.
type Scene struct {
	lights Lights
	model  *Model
}

// New creates an empty scene with the given lights.
func New(lights Lights) *Scene {
	return &Scene{lights: lights}
}

// Model returns the current model or nil.
func (s *Scene) Model() *Model { return s.model }

// SetModel attaches m, evicting the previous model. It returns the
// evicted model, if any.
func (s *Scene) SetModel(m *Model) *Model {
	old := s.model
	s.model = m
	return old
}

// Clear removes the model.
func (s *Scene) Clear() *Model {
	return s.SetModel(nil)
}

// IsEmpty reports whether no model is attached.
func (s *Scene) IsEmpty() bool { return s.model == nil }

// Objects returns the pickable parts of the current model.
func (s *Scene) Objects() []Part {
	if s.model == nil {
		return nil
	}
	return s.model.Parts()
}

// Lights returns the current light intensities.
func (s *Scene) Lights() Lights { return s.lights }

// SetAmbient sets the ambient intensity, clamped at zero.
func (s *Scene) SetAmbient(v float32) {
	s.lights.Ambient = max(v, 0)
}

// SetDirectional sets the directional intensity, clamped at zero.
func (s *Scene) SetDirectional(v float32) {
	s.lights.Directional = max(v, 0)
}
