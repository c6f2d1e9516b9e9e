package gltfscene

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

// Geometry is a triangle list in scene space.
type Geometry struct {
	Positions []math.Vec3
	Indices   []uint32
}

// meshGeometry reads the triangle primitives of mesh and transforms them by
// world. Primitives whose buffers are missing or malformed are skipped.
func (w *walker) meshGeometry(mesh *gltf.Mesh, world math.Mat4) *Geometry {
	var g Geometry
	for _, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		pos, idx, ok := w.readPrimitive(prim)
		if !ok {
			continue
		}
		base := uint32(len(g.Positions))
		for _, p := range pos {
			g.Positions = append(g.Positions, world.TransformVec3(math.Vec3{X: p[0], Y: p[1], Z: p[2]}))
		}
		for _, i := range idx {
			g.Indices = append(g.Indices, base+i)
		}
	}
	if len(g.Indices) == 0 {
		return nil
	}
	return &g
}

func (w *walker) readPrimitive(prim *gltf.Primitive) ([][3]float32, []uint32, bool) {
	doc := w.doc
	pi, ok := prim.Attributes[gltf.POSITION]
	if !ok || !w.readable(int(pi)) {
		return nil, nil, false
	}
	pos, err := modeler.ReadPosition(doc, doc.Accessors[pi], nil)
	if err != nil || len(pos) == 0 {
		return nil, nil, false
	}

	if prim.Indices == nil {
		idx := make([]uint32, len(pos))
		for i := range idx {
			idx[i] = uint32(i)
		}
		return pos, idx, true
	}
	if !w.readable(int(*prim.Indices)) {
		return nil, nil, false
	}
	idx, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
	if err != nil || len(idx) == 0 {
		return nil, nil, false
	}
	return pos, idx, true
}

// readable reports whether accessor i has data behind it. Accessors with
// neither a buffer view nor sparse storage carry only min/max.
func (w *walker) readable(i int) bool {
	if i < 0 || i >= len(w.doc.Accessors) {
		return false
	}
	acc := w.doc.Accessors[i]
	return acc.BufferView != nil || acc.Sparse != nil
}
