package editor

import (
	"strings"

	"dndflow/diagram"
)

// Direction is a nudge direction.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionUp
	DirectionDown
	DirectionLeft
	DirectionRight
)

// String returns the direction name as used by the control surfaces.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	default:
		return "none"
	}
}

// ParseDirection maps a direction name to a Direction. Unknown names map to
// DirectionNone.
func ParseDirection(s string) Direction {
	switch strings.ToLower(s) {
	case "up":
		return DirectionUp
	case "down":
		return DirectionDown
	case "left":
		return DirectionLeft
	case "right":
		return DirectionRight
	default:
		return DirectionNone
	}
}

// delta returns the position offset for one nudge.
func (d Direction) delta(step float64) diagram.Point {
	switch d {
	case DirectionUp:
		return diagram.Point{Y: -step}
	case DirectionDown:
		return diagram.Point{Y: step}
	case DirectionLeft:
		return diagram.Point{X: -step}
	case DirectionRight:
		return diagram.Point{X: step}
	default:
		return diagram.Point{}
	}
}

// Nudge moves the selected node one step in direction. Nothing happens when
// no node is selected. DirectionNone leaves the position unchanged.
func (e *Editor) Nudge(direction Direction) {
	if e.selectedNodeID == "" {
		return
	}

	d := direction.delta(e.step)
	nodes := e.store.Nodes()
	for i := range nodes {
		if nodes[i].ID == e.selectedNodeID {
			nodes[i].Position = nodes[i].Position.Add(d)
		}
	}
	if err := e.store.ReplaceNodes(nodes); err != nil {
		e.logger.Error("Failed to nudge node", "id", e.selectedNodeID, "error", err)
		return
	}

	e.logger.Debug("Nudged node", "id", e.selectedNodeID, "direction", direction.String())
}
