// Package gltfscene extracts named mesh parts, their world-space bounds
// and, when vertex buffers are present, their triangle geometry from glTF
// 2.0 assets. Bounds come from the POSITION accessor min/max so a part is
// usable even when its buffers are not.
package gltfscene

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

var (
	// ErrUnsupportedFormat is returned for assets that are not glTF 2.0.
	ErrUnsupportedFormat = errors.New("unsupported scene format")
	// ErrNoMesh is returned when the scene contains no bounded mesh.
	ErrNoMesh = errors.New("scene contains no mesh")
)

// Supported formats.
const (
	FormatGLTF = "gltf"
	FormatGLB  = "glb"
)

// maxDepth bounds node recursion so a cyclic hierarchy cannot hang a load.
const maxDepth = 64

// Part is one mesh node with its bounds in scene space. Geometry is nil
// when none of the node's primitives could be read.
type Part struct {
	Name     string
	Mesh     string
	Bounds   math.Box3
	Geometry *Geometry
}

// Scene is the parsed description of an asset.
type Scene struct {
	Name   string
	Parts  []Part
	Bounds math.Box3
}

// FormatOf returns the format implied by a file extension.
func FormatOf(p string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
}

// glbMagic starts every binary container.
var glbMagic = []byte("glTF")

// IsGLB reports whether data starts with the binary container magic.
func IsGLB(data []byte) bool {
	return bytes.HasPrefix(data, glbMagic)
}

// Decode reads a .gltf or .glb asset into a document. An empty format is
// sniffed from the data. Embedded buffers (GLB BIN chunk, data URIs) are
// decoded; buffers with relative URIs are left without data for the caller
// to resolve.
func Decode(data []byte, format string) (*gltf.Document, error) {
	if format == "" {
		format = FormatGLTF
		if IsGLB(data) {
			format = FormatGLB
		}
	}

	switch format {
	case FormatGLTF:
	case FormatGLB:
		if !IsGLB(data) {
			return nil, fmt.Errorf("%w: missing glb magic", ErrUnsupportedFormat)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", format, err)
	}
	if v := doc.Asset.Version; v != "" && !strings.HasPrefix(v, "2.") {
		return nil, fmt.Errorf("%w: glTF version %s", ErrUnsupportedFormat, v)
	}
	return doc, nil
}

// Parse decodes an asset and builds its scene description.
func Parse(data []byte, format string) (*Scene, error) {
	doc, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// ExternalBuffers returns the relative URIs of buffers that still need
// their data, keyed by buffer index.
func ExternalBuffers(doc *gltf.Document) map[int]string {
	out := make(map[int]string)
	for i, b := range doc.Buffers {
		if b.Data == nil && b.URI != "" && !b.IsEmbeddedResource() {
			out[i] = b.URI
		}
	}
	return out
}

// Build walks the default scene of doc and collects its mesh parts.
func Build(doc *gltf.Document) (*Scene, error) {
	w := walker{doc: doc, scene: &Scene{Bounds: math.EmptyBox()}}

	for _, root := range w.roots() {
		if err := w.visit(root, math.Identity(), 0); err != nil {
			return nil, err
		}
	}

	if len(w.scene.Parts) == 0 {
		return nil, ErrNoMesh
	}
	return w.scene, nil
}

type walker struct {
	doc   *gltf.Document
	scene *Scene
}

// roots returns the node indices of the default scene. Documents without
// scenes fall back to every node that is nobody's child.
func (w *walker) roots() []int {
	doc := w.doc
	if len(doc.Scenes) > 0 {
		s := doc.Scenes[0]
		if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
			s = doc.Scenes[*doc.Scene]
		}
		w.scene.Name = s.Name
		roots := make([]int, 0, len(s.Nodes))
		for _, n := range s.Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	isChild := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if int(c) < len(isChild) {
				isChild[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (w *walker) visit(idx int, parent math.Mat4, depth int) error {
	if depth > maxDepth {
		return fmt.Errorf("node hierarchy deeper than %d", maxDepth)
	}
	if idx < 0 || idx >= len(w.doc.Nodes) {
		return fmt.Errorf("node index %d out of range", idx)
	}
	node := w.doc.Nodes[idx]
	world := parent.Mul(localTransform(node))

	if node.Mesh != nil {
		if int(*node.Mesh) >= len(w.doc.Meshes) {
			return fmt.Errorf("node %d: mesh index %d out of range", idx, *node.Mesh)
		}
		mesh := w.doc.Meshes[*node.Mesh]
		if local, ok := w.meshBounds(mesh); ok {
			bounds := local.Transform(world)
			name := node.Name
			if name == "" {
				name = mesh.Name
			}
			w.scene.Parts = append(w.scene.Parts, Part{
				Name:     name,
				Mesh:     mesh.Name,
				Bounds:   bounds,
				Geometry: w.meshGeometry(mesh, world),
			})
			w.scene.Bounds = w.scene.Bounds.Union(bounds)
		}
	}

	for _, c := range node.Children {
		if err := w.visit(int(c), world, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// meshBounds unions the POSITION min/max of every primitive.
func (w *walker) meshBounds(mesh *gltf.Mesh) (math.Box3, bool) {
	box := math.EmptyBox()
	found := false
	for _, prim := range mesh.Primitives {
		idx, ok := prim.Attributes["POSITION"]
		if !ok || int(idx) >= len(w.doc.Accessors) {
			continue
		}
		acc := w.doc.Accessors[idx]
		if len(acc.Min) < 3 || len(acc.Max) < 3 {
			continue
		}
		box = box.Union(math.NewBox3(
			math.Vec3{X: float32(acc.Min[0]), Y: float32(acc.Min[1]), Z: float32(acc.Min[2])},
			math.Vec3{X: float32(acc.Max[0]), Y: float32(acc.Max[1]), Z: float32(acc.Max[2])},
		))
		found = true
	}
	return box, found
}

// localTransform returns the node matrix, or T*R*S when no explicit matrix
// is set. Zero-valued TRS fields mean "unset".
func localTransform(n *gltf.Node) math.Mat4 {
	var m math.Mat4
	for i := range m {
		m[i] = float32(n.Matrix[i])
	}
	if m != (math.Mat4{}) && m != math.Identity() {
		return m
	}

	t := math.Vec3{X: float32(n.Translation[0]), Y: float32(n.Translation[1]), Z: float32(n.Translation[2])}
	r := math.Quat{X: float32(n.Rotation[0]), Y: float32(n.Rotation[1]), Z: float32(n.Rotation[2]), W: float32(n.Rotation[3])}
	if r == (math.Quat{}) {
		r = math.QuatIdentity()
	}
	s := math.Vec3{X: float32(n.Scale[0]), Y: float32(n.Scale[1]), Z: float32(n.Scale[2])}
	if s == (math.Vec3{}) {
		s = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	return math.Compose(t, r, s)
}
