package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPanelAt(t *testing.T) {
	tests := []struct {
		x, width  int
		view, loc int
	}{
		{0, 1600, 0, 0},
		{799, 1600, 0, 799},
		{800, 1600, 1, 0},
		{1599, 1600, 1, 799},
		{5, 1, 0, 5},
	}
	for _, tt := range tests {
		view, loc := panelAt(tt.x, tt.width)
		assert.Equal(t, tt.view, view, "x=%d width=%d", tt.x, tt.width)
		assert.Equal(t, tt.loc, loc, "x=%d width=%d", tt.x, tt.width)
	}
}

func TestPanelRects(t *testing.T) {
	xs, ws := panelRects(1601)
	assert.Equal(t, [2]int{0, 800}, xs)
	assert.Equal(t, [2]int{800, 801}, ws)

	_, ws = panelRects(1)
	assert.Equal(t, [2]int{1, 1}, ws)
}

func TestNextModel(t *testing.T) {
	names := []string{"Heart", "Skull", "Upperlimb_diffuse"}
	assert.Equal(t, "Skull", nextModel(names, "Heart"))
	assert.Equal(t, "Heart", nextModel(names, "Upperlimb_diffuse"))
	assert.Equal(t, "Heart", nextModel(names, "Spleen"))
	assert.Equal(t, "", nextModel(nil, "Heart"))
}

func TestStepIntensity(t *testing.T) {
	assert.InDelta(t, 1.1, stepIntensity(1, 0.1, 4), 1e-6)
	assert.Equal(t, float32(0), stepIntensity(0.05, -0.1, 4))
	assert.Equal(t, float32(4), stepIntensity(3.95, 0.1, 4))
}

func TestTitleInfo(t *testing.T) {
	var info titleInfo
	info.ShowInfo("Humerus bone")
	assert.Equal(t, "Humerus bone", info.text)
	info.HideInfo()
	assert.Empty(t, info.text)
}
