package math

import "github.com/chewxy/math32"

// Box3 is an axis-aligned bounding box. The zero value is a degenerate box
// at the origin; use EmptyBox for an accumulator.
type Box3 struct {
	Min, Max Vec3
}

// EmptyBox returns a box that contains nothing. Expanding it by a point
// yields a box around that point.
func EmptyBox() Box3 {
	inf := math32.Inf(1)
	return Box3{
		Min: Vec3{inf, inf, inf},
		Max: Vec3{-inf, -inf, -inf},
	}
}

// NewBox3 creates a box from two corners in any order.
func NewBox3(a, b Vec3) Box3 {
	return Box3{Min: a.Min(b), Max: a.Max(b)}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max.X < b.Min.X || b.Max.Y < b.Min.Y || b.Max.Z < b.Min.Z
}

// ExpandByPoint grows the box to include p.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	return Box3{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(other Box3) Box3 {
	if other.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return other
	}
	return Box3{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Size returns the extents along each axis.
func (b Box3) Size() Vec3 {
	if b.IsEmpty() {
		return Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// MaxExtent returns the largest of the three extents.
func (b Box3) MaxExtent() float32 {
	return b.Size().MaxComponent()
}

// BoundingSphere returns the sphere around the box: centred on the box
// centre with half the diagonal as radius.
func (b Box3) BoundingSphere() (center Vec3, radius float32) {
	return b.Center(), b.Size().Length() / 2
}

// Corners returns the eight corners of the box.
func (b Box3) Corners() [8]Vec3 {
	lo, hi := b.Min, b.Max
	return [8]Vec3{
		{lo.X, lo.Y, lo.Z}, {hi.X, lo.Y, lo.Z},
		{hi.X, lo.Y, hi.Z}, {lo.X, lo.Y, hi.Z},
		{lo.X, hi.Y, lo.Z}, {hi.X, hi.Y, lo.Z},
		{hi.X, hi.Y, hi.Z}, {lo.X, hi.Y, hi.Z},
	}
}

// Transform returns the axis-aligned box enclosing this box after m.
func (b Box3) Transform(m Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for _, c := range b.Corners() {
		out = out.ExpandByPoint(m.TransformVec3(c))
	}
	return out
}

// ScaleUniform scales both corners about the origin.
func (b Box3) ScaleUniform(s float32) Box3 {
	if b.IsEmpty() {
		return b
	}
	return NewBox3(b.Min.Scale(s), b.Max.Scale(s))
}
