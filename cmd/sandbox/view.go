package main

import (
	"math"

	"github.com/lixenwraith/particle-sandbox/vmath"
)

// Terminal cells are roughly twice as tall as wide; one row spans scale model units
const cellAspect = 2.0

const (
	zoomFactor = 1.25
	minScale   = 1.0 / 64
	maxScale   = 1024.0
)

// view maps model space onto terminal cells
// Model y grows downward like terminal rows
type view struct {
	center        vmath.Vec // Model point at the middle of the screen
	scale         float64   // Model units per row
	width, height int
}

func newView(scale float64, width, height int) view {
	return view{scale: scale, width: width, height: height}
}

// toScreen returns the cell containing model point p, possibly off screen
func (v *view) toScreen(p vmath.Vec) (int, int) {
	x := (p.X-v.center.X)/v.scale*cellAspect + float64(v.width)/2
	y := (p.Y-v.center.Y)/v.scale + float64(v.height)/2
	return int(math.Floor(x)), int(math.Floor(y))
}

// toModel returns the model point at the center of cell (sx, sy)
func (v *view) toModel(sx, sy int) vmath.Vec {
	return vmath.V(
		(float64(sx)+0.5-float64(v.width)/2)/cellAspect*v.scale+v.center.X,
		(float64(sy)+0.5-float64(v.height)/2)*v.scale+v.center.Y,
	)
}

// cellSize returns the model extent of one cell
func (v *view) cellSize() (w, h float64) {
	return v.scale / cellAspect, v.scale
}

// pan moves the center by whole cells
func (v *view) pan(dx, dy int) {
	w, h := v.cellSize()
	v.center.X += float64(dx) * w
	v.center.Y += float64(dy) * h
}

func (v *view) zoomIn()  { v.scale = max(v.scale/zoomFactor, minScale) }
func (v *view) zoomOut() { v.scale = min(v.scale*zoomFactor, maxScale) }

func (v *view) resize(width, height int) {
	v.width, v.height = width, height
}

// contains reports whether the cell lies on screen
func (v *view) contains(sx, sy int) bool {
	return sx >= 0 && sx < v.width && sy >= 0 && sy < v.height
}
