package app

import "slices"

// panelAt maps a window x coordinate to a panel index and panel-local x.
// Panels split the window width in half; the right panel takes the odd
// pixel.
func panelAt(x, width int) (view, localX int) {
	half := width / 2
	if half <= 0 || x < half {
		return 0, x
	}
	return 1, x - half
}

// panelRects returns the origin x and width of both panels.
func panelRects(width int) (x [2]int, w [2]int) {
	half := width / 2
	return [2]int{0, half}, [2]int{max(half, 1), max(width-half, 1)}
}

// nextModel returns the identifier after current in names, wrapping
// around. An unknown current yields the first name.
func nextModel(names []string, current string) string {
	if len(names) == 0 {
		return ""
	}
	i := slices.Index(names, current)
	return names[(i+1)%len(names)]
}

// stepIntensity moves v by delta, clamped to [0, limit].
func stepIntensity(v, delta, limit float32) float32 {
	return min(max(v+delta, 0), limit)
}
