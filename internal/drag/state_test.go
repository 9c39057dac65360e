package drag

import (
	"testing"

	"github.com/1broseidon/chordwm/internal/x11"
	"github.com/stretchr/testify/assert"
)

func TestDragApply(t *testing.T) {
	base := x11.Geometry{X: 100, Y: 100, Width: 50, Height: 50}
	anchor := Point{X: 200, Y: 200}

	tests := []struct {
		name string
		mode Mode
		at   Point
		want x11.Geometry
	}{
		{"move right and up", ModeMove, Point{210, 195}, x11.Geometry{X: 110, Y: 95, Width: 50, Height: 50}},
		{"move past origin", ModeMove, Point{0, 0}, x11.Geometry{X: -100, Y: -100, Width: 50, Height: 50}},
		{"resize grow", ModeResize, Point{230, 260}, x11.Geometry{X: 100, Y: 100, Width: 80, Height: 110}},
		{"resize clamps width", ModeResize, Point{90, 190}, x11.Geometry{X: 100, Y: 100, Width: 1, Height: 40}},
		{"resize to exactly zero clamps", ModeResize, Point{150, 150}, x11.Geometry{X: 100, Y: 100, Width: 1, Height: 1}},
		{"no displacement", ModeResize, anchor, base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Drag{Window: 1, Mode: tt.mode, Anchor: anchor, Base: base}
			assert.Equal(t, tt.want, d.Apply(tt.at))
		})
	}
}

func TestClampDimension(t *testing.T) {
	assert.Equal(t, uint32(1), clampDimension(-5))
	assert.Equal(t, uint32(1), clampDimension(0))
	assert.Equal(t, uint32(640), clampDimension(640))
	assert.Equal(t, ^uint32(0), clampDimension(1<<40))
}
