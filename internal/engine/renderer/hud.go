package renderer

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
)

const (
	spinnerSpokes  = 12
	spinnerPeriod  = time.Second
	spinnerInner   = 0.04
	spinnerOuter   = 0.09
	barHalfWidth   = 0.5
	barY, barThick = -0.9, 0.03
)

var (
	barTrackColor = [4]float32{0.2, 0.2, 0.25, 0.8}
	barFillColor  = [4]float32{0.3, 0.7, 1.0, 0.9}
	spinnerColor  = [4]float32{0.9, 0.9, 0.95, 0.9}
	syncOnColor   = [4]float32{0.2, 0.8, 0.3, 1}
	syncOffColor  = [4]float32{0.6, 0.2, 0.2, 1}
)

// HUD draws the loading spinner, the progress bar and the sync marker on
// top of both panels. It implements the progress and sync indicators.
type HUD struct {
	r *Renderer

	spinning bool
	percent  float64
	synced   bool
	started  time.Time
}

// NewHUD creates a HUD drawn with r.
func (r *Renderer) NewHUD() *HUD {
	return &HUD{r: r, started: time.Now()}
}

// ShowSpinner makes the spinner and bar visible.
func (h *HUD) ShowSpinner() {
	if !h.spinning {
		h.started = time.Now()
	}
	h.spinning = true
}

// HideSpinner hides the spinner and bar.
func (h *HUD) HideSpinner() { h.spinning = false }

// SetProgress sets the bar fill, in percent.
func (h *HUD) SetProgress(percent float64) {
	h.percent = min(max(percent, 0), 100)
}

// SetSyncState sets the sync marker colour.
func (h *HUD) SetSyncState(enabled bool) { h.synced = enabled }

// Spinning reports whether the spinner is shown.
func (h *HUD) Spinning() bool { return h.spinning }

// Percent returns the last progress value.
func (h *HUD) Percent() float64 { return h.percent }

// Synced returns the last sync state.
func (h *HUD) Synced() bool { return h.synced }

// Draw renders the HUD over the whole window.
func (h *HUD) Draw() {
	w, ht := h.r.Size()
	gl.Disable(gl.SCISSOR_TEST)
	gl.Disable(gl.DEPTH_TEST)
	defer gl.Enable(gl.DEPTH_TEST)
	gl.Viewport(0, 0, int32(w), int32(ht))

	prog := h.r.hud
	prog.Use()

	c := syncOffColor
	if h.synced {
		c = syncOnColor
	}
	prog.SetVec4("uColor", c)
	draw(h.r.hudVAO, h.r.hudVBO, gl.TRIANGLES, 2, quad(-0.02, 0.9, 0.02, 0.96))

	if !h.spinning {
		return
	}
	prog.SetVec4("uColor", barTrackColor)
	draw(h.r.hudVAO, h.r.hudVBO, gl.TRIANGLES, 2, BarVertices(100))
	prog.SetVec4("uColor", barFillColor)
	draw(h.r.hudVAO, h.r.hudVBO, gl.TRIANGLES, 2, BarVertices(h.percent))

	elapsed := time.Since(h.started) % spinnerPeriod
	angle := 2 * math32.Pi * float32(elapsed) / float32(spinnerPeriod)
	prog.SetVec4("uColor", spinnerColor)
	draw(h.r.hudVAO, h.r.hudVBO, gl.LINES, 2, SpinnerVertices(angle, float32(w)/float32(max(ht, 1))))
}

// BarVertices returns two triangles, in NDC, covering percent of the bar.
func BarVertices(percent float64) []float32 {
	if percent <= 0 {
		return nil
	}
	f := float32(min(percent, 100) / 100)
	x0 := float32(-barHalfWidth)
	x1 := x0 + 2*barHalfWidth*f
	return quad(x0, barY-barThick/2, x1, barY+barThick/2)
}

// SpinnerVertices returns spoke line segments, in NDC, rotated by angle
// and corrected for the window aspect ratio.
func SpinnerVertices(angle, aspect float32) []float32 {
	if aspect <= 0 {
		aspect = 1
	}
	out := make([]float32, 0, spinnerSpokes*4)
	for i := range spinnerSpokes {
		a := angle + 2*math32.Pi*float32(i)/spinnerSpokes
		s, c := math32.Sincos(a)
		out = append(out,
			c*spinnerInner/aspect, s*spinnerInner,
			c*spinnerOuter/aspect, s*spinnerOuter,
		)
	}
	return out
}

func quad(x0, y0, x1, y1 float32) []float32 {
	return []float32{
		x0, y0, x1, y0, x1, y1,
		x0, y0, x1, y1, x0, y1,
	}
}
