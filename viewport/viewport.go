// Package viewport converts pointer positions between screen space and graph
// space.
//
// The rendering engine owns the pan/zoom state. It hands the editor an
// Instance once it has finished initializing, and a Translator refuses to
// project anything before that happens.
package viewport

import (
	"errors"

	"dndflow/diagram"
)

// ErrNotReady is returned when a projection is requested before the
// rendering engine has been initialized.
var ErrNotReady = errors.New("viewport: rendering engine not initialized")

// Instance is the handle the rendering engine provides after initialization.
// Project maps a point relative to the canvas' top-left corner into graph
// space using the engine's current pan/zoom.
type Instance interface {
	Project(p diagram.Point) diagram.Point
}

// Transform is a pan offset and zoom scale. A screen point s relates to a
// graph point g by s = g*Zoom + (X, Y).
type Transform struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Zoom float64 `json:"zoom"`
}

// Identity returns the transform with no pan and a zoom of 1.
func Identity() Transform {
	return Transform{Zoom: 1}
}

func (t Transform) scale() float64 {
	if t.Zoom <= 0 {
		return 1
	}
	return t.Zoom
}

// Project converts a canvas-relative screen point into graph space.
// A non-positive zoom is treated as 1.
func (t Transform) Project(p diagram.Point) diagram.Point {
	z := t.scale()
	return diagram.Point{
		X: (p.X - t.X) / z,
		Y: (p.Y - t.Y) / z,
	}
}

// Translator gates screen-to-graph conversion on engine readiness.
type Translator struct {
	instance Instance
}

// Init stores the engine's instance handle. It is called from the engine's
// initialization callback and may be called again to replace the handle.
func (tr *Translator) Init(inst Instance) error {
	if inst == nil {
		return errors.New("viewport: nil instance")
	}
	tr.instance = inst
	return nil
}

// Ready reports whether an instance handle is available.
func (tr *Translator) Ready() bool {
	return tr.instance != nil
}

// Project converts a raw pointer position into graph space. bounds is the
// canvas' on-screen box and must be captured when the drop happens, since the
// canvas may have moved since the drag started.
func (tr *Translator) Project(screen diagram.Point, bounds diagram.Rect) (diagram.Point, error) {
	if tr.instance == nil {
		return diagram.Point{}, ErrNotReady
	}
	return tr.instance.Project(screen.Sub(bounds.Origin())), nil
}
