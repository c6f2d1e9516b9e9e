package renderer

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/anatomy-viewer/internal/engine/scene"
	"github.com/Faultbox/anatomy-viewer/pkg/math"
)

func TestWireframeVertices(t *testing.T) {
	b := math.NewBox3(math.Vec3{X: -1, Y: -2, Z: -3}, math.Vec3{X: 1, Y: 2, Z: 3})
	v := WireframeVertices(b)
	require.Len(t, v, WireframeVertexCount*3)

	// Every edge is axis aligned: endpoints differ on exactly one axis.
	for i := 0; i < len(v); i += 6 {
		diff := 0
		for k := range 3 {
			if v[i+k] != v[i+3+k] {
				diff++
			}
		}
		assert.Equal(t, 1, diff, "edge %d", i/6)
	}

	for i := 0; i < len(v); i += 3 {
		assert.Contains(t, []float32{-1, 1}, v[i])
		assert.Contains(t, []float32{-2, 2}, v[i+1])
		assert.Contains(t, []float32{-3, 3}, v[i+2])
	}
}

func TestWireframeEmptyBox(t *testing.T) {
	assert.Nil(t, WireframeVertices(math.EmptyBox()))
}

func TestShade(t *testing.T) {
	c := [4]float32{1, 1, 1, 0.5}

	dark := Shade(c, scene.Lights{})
	assert.InDelta(t, 0.2, dark[0], 1e-6)
	assert.Equal(t, float32(0.5), dark[3])

	bright := Shade(c, scene.Lights{Ambient: 3, Directional: 3})
	assert.Equal(t, float32(1), bright[0])

	lo := Shade(c, scene.Lights{Ambient: 0.5})
	hi := Shade(c, scene.Lights{Ambient: 1.0})
	assert.Less(t, lo[0], hi[0])
}

func TestBarVertices(t *testing.T) {
	assert.Nil(t, BarVertices(0))

	half := BarVertices(50)
	require.Len(t, half, 12)
	assert.InDelta(t, -barHalfWidth, half[0], 1e-6)
	assert.InDelta(t, 0, half[2], 1e-6)

	over := BarVertices(150)
	assert.InDelta(t, barHalfWidth, over[2], 1e-6)
}

func TestSpinnerVertices(t *testing.T) {
	v := SpinnerVertices(0, 1)
	require.Len(t, v, spinnerSpokes*4)
	assert.InDelta(t, spinnerInner, v[0], 1e-6)
	assert.InDelta(t, spinnerOuter, v[2], 1e-6)

	wide := SpinnerVertices(0, 2)
	assert.InDelta(t, spinnerOuter/2, wide[2], 1e-6)
}

func TestHUDState(t *testing.T) {
	h := &HUD{}
	h.ShowSpinner()
	h.SetProgress(140)
	h.SetSyncState(true)
	assert.True(t, h.Spinning())
	assert.Equal(t, float64(100), h.Percent())
	assert.True(t, h.Synced())

	h.SetProgress(-3)
	assert.Equal(t, float64(0), h.Percent())
	h.HideSpinner()
	assert.False(t, h.Spinning())
}

func TestPanelRect(t *testing.T) {
	p := (&Renderer{}).NewPanel()
	p.SetOrigin(800, 0)
	p.SetSize(800, 600)

	x, y, w, h := p.Rect()
	assert.Equal(t, []int32{800, 0, 800, 600}, []int32{x, y, w, h})

	p.SetPixelRatio(2)
	x, _, w, h = p.Rect()
	assert.Equal(t, []int32{1600, 1600, 1200}, []int32{x, w, h})

	p.SetPixelRatio(0)
	_, _, w, _ = p.Rect()
	assert.Equal(t, int32(800), w)
}

func TestFlipRGBA(t *testing.T) {
	// Two rows, one pixel each: bottom red, top blue.
	pixels := []byte{255, 0, 0, 255, 0, 0, 255, 255}
	img, err := FlipRGBA(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 255, 255}, img.Pix[0:4])
	assert.Equal(t, []byte{255, 0, 0, 255}, img.Pix[4:8])

	_, err = FlipRGBA(pixels, 2, 2)
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	img, err := FlipRGBA(make([]byte, 4*4*4), 4, 4)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "shots")
	at := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	path, err := WritePNG(dir, "anatomy", at, img)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "anatomy_2026-03-01_12-30-00.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, decoded.Bounds().Dx())
}

func TestInterleave(t *testing.T) {
	m := scene.NewMesh([]math.Vec3{{}, {X: 1}, {Y: 1}}, []uint32{0, 1, 2})
	require.NotNil(t, m)

	v := Interleave(m)
	require.Len(t, v, 3*meshStride)
	assert.Equal(t, []float32{1, 0, 0, 0, 0, 1}, v[meshStride:2*meshStride])

	assert.Nil(t, Interleave(nil))
}

func TestLightDirection(t *testing.T) {
	d := LightDirection()
	assert.InDelta(t, 1, d.Length(), 1e-6)
	// Shines down and away from the default camera on +Z.
	assert.Less(t, d.Y, float32(0))
	assert.Less(t, d.Z, float32(0))
}

func TestPartColorHighlight(t *testing.T) {
	p := (&Renderer{}).NewPanel()
	assert.Equal(t, partColor, p.partColor("Ulna"))

	p.Highlight("Ulna")
	assert.Equal(t, highlightColor, p.partColor("Ulna"))
	assert.Equal(t, partColor, p.partColor("Radius"))

	// Unnamed parts never match a cleared highlight.
	p.Highlight("")
	assert.Equal(t, partColor, p.partColor(""))
}
