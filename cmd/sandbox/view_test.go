package main

import (
	"testing"

	"github.com/lixenwraith/particle-sandbox/vmath"
)

// TestView_RoundTrip verifies a cell maps to a model point that maps back to the same cell
func TestView_RoundTrip(t *testing.T) {
	views := []view{
		newView(4, 80, 24),
		newView(0.5, 81, 25),
		{center: vmath.V(150, -40), scale: 3, width: 120, height: 40},
	}

	for _, v := range views {
		for sx := 0; sx < v.width; sx += 7 {
			for sy := 0; sy < v.height; sy += 3 {
				x, y := v.toScreen(v.toModel(sx, sy))
				if x != sx || y != sy {
					t.Fatalf("view %+v: cell (%d, %d) round trips to (%d, %d)", v, sx, sy, x, y)
				}
			}
		}
	}
}

func TestView_CenterAndAspect(t *testing.T) {
	v := newView(4, 80, 24)

	if x, y := v.toScreen(vmath.V(0, 0)); x != 40 || y != 12 {
		t.Errorf("Expected origin at (40, 12), got (%d, %d)", x, y)
	}
	// One row is 4 units; one column is 2
	if x, y := v.toScreen(vmath.V(8, 8)); x != 44 || y != 14 {
		t.Errorf("Expected (8, 8) at (44, 14), got (%d, %d)", x, y)
	}
}

func TestView_PanZoom(t *testing.T) {
	v := newView(4, 80, 24)

	v.pan(3, -2)
	if v.center != vmath.V(6, -8) {
		t.Errorf("Expected center (6, -8), got %v", v.center)
	}

	for i := 0; i < 100; i++ {
		v.zoomIn()
	}
	if v.scale != minScale {
		t.Errorf("Expected scale clamped to %v, got %v", minScale, v.scale)
	}
	for i := 0; i < 100; i++ {
		v.zoomOut()
	}
	if v.scale != maxScale {
		t.Errorf("Expected scale clamped to %v, got %v", maxScale, v.scale)
	}
}
