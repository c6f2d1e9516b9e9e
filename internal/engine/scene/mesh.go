package scene

import (
	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

// normalEpsilon is the grid used to weld positions when smoothing normals.
const normalEpsilon float32 = 0.001

// Mesh is indexed triangle geometry with one normal per vertex.
type Mesh struct {
	Positions []math.Vec3
	Normals   []math.Vec3
	Indices   []uint32
}

// NewMesh builds a mesh from triangle lists. Out-of-range and degenerate
// triangles are dropped. Normals are smoothed across vertices that share a
// position. Returns nil when no triangle survives.
func NewMesh(positions []math.Vec3, indices []uint32) *Mesh {
	n := uint32(len(positions))
	faceNormals := make([]math.Vec3, len(positions))
	kept := make([]uint32, 0, len(indices))

	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := indices[t], indices[t+1], indices[t+2]
		if a >= n || b >= n || c >= n {
			continue
		}
		cross := positions[b].Sub(positions[a]).Cross(positions[c].Sub(positions[a]))
		if cross == (math.Vec3{}) {
			continue
		}
		// Area-weighted: the raw cross product is accumulated.
		for _, v := range [3]uint32{a, b, c} {
			faceNormals[v] = faceNormals[v].Add(cross)
		}
		kept = append(kept, a, b, c)
	}
	if len(kept) == 0 {
		return nil
	}

	return &Mesh{
		Positions: append([]math.Vec3(nil), positions...),
		Normals:   SmoothNormals(positions, faceNormals),
		Indices:   kept,
	}
}

// SmoothNormals averages normals at shared vertex positions and returns
// unit normals. Positions are grouped by a quantized key so split vertices
// along UV seams shade as one surface.
func SmoothNormals(positions, normals []math.Vec3) []math.Vec3 {
	groups := make(map[[3]int32][]int)
	for i, p := range positions {
		key := [3]int32{
			int32(p.X / normalEpsilon),
			int32(p.Y / normalEpsilon),
			int32(p.Z / normalEpsilon),
		}
		groups[key] = append(groups[key], i)
	}

	out := make([]math.Vec3, len(normals))
	for _, idxs := range groups {
		var sum math.Vec3
		for _, i := range idxs {
			sum = sum.Add(normals[i])
		}
		avg := sum.Normalize()
		for _, i := range idxs {
			out[i] = avg
		}
	}
	return out
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// scaled returns a copy with positions multiplied by s. Normals are
// unchanged under a positive uniform scale.
func (m *Mesh) scaled(s float32) *Mesh {
	if m == nil {
		return nil
	}
	pos := make([]math.Vec3, len(m.Positions))
	for i, p := range m.Positions {
		pos[i] = p.Scale(s)
	}
	return &Mesh{Positions: pos, Normals: m.Normals, Indices: m.Indices}
}
