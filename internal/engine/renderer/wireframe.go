package renderer

import "github.com/Faultbox/anatomy-viewer/pkg/math"

// boxEdges indexes Box3.Corners: bottom face, top face, then verticals.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// WireframeVertexCount is the number of vertices in one box wireframe.
const WireframeVertexCount = len(boxEdges) * 2

// WireframeVertices returns line-list vertices, [x, y, z] per vertex, for
// the 12 edges of b. An empty box yields nil.
func WireframeVertices(b math.Box3) []float32 {
	if b.IsEmpty() {
		return nil
	}
	c := b.Corners()
	out := make([]float32, 0, WireframeVertexCount*3)
	for _, e := range boxEdges {
		out = append(out,
			c[e[0]].X, c[e[0]].Y, c[e[0]].Z,
			c[e[1]].X, c[e[1]].Y, c[e[1]].Z,
		)
	}
	return out
}
