package editor

import (
	"dndflow/diagram"
)

// DropEffectMove is the drag feedback cursor shown over the canvas.
const DropEffectMove = "move"

// DataTransfer carries the drag payload between the palette and the canvas.
type DataTransfer struct {
	data       map[string]string
	DropEffect string
}

// NewDataTransfer creates an empty data transfer.
func NewDataTransfer() *DataTransfer {
	return &DataTransfer{data: make(map[string]string)}
}

// SetData stores value under format.
func (dt *DataTransfer) SetData(format, value string) {
	if dt.data == nil {
		dt.data = make(map[string]string)
	}
	dt.data[format] = value
}

// GetData returns the value stored under format, or "" when there is none.
func (dt *DataTransfer) GetData(format string) string {
	if dt == nil {
		return ""
	}
	return dt.data[format]
}

// DragEvent is a drag-over or drop event positioned in screen space.
type DragEvent struct {
	ClientX      float64
	ClientY      float64
	DataTransfer *DataTransfer

	defaultPrevented bool
}

// PreventDefault marks the event as handled so the host skips its default
// drop behavior.
func (ev *DragEvent) PreventDefault() {
	ev.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (ev *DragEvent) DefaultPrevented() bool {
	return ev.defaultPrevented
}

// Point returns the pointer position of the event.
func (ev *DragEvent) Point() diagram.Point {
	return diagram.Point{X: ev.ClientX, Y: ev.ClientY}
}

// DragOver handles the event fired repeatedly while a drag hovers the
// canvas. Each occurrence must be accepted, not just the first one.
func (e *Editor) DragOver(ev *DragEvent) {
	ev.PreventDefault()
	if ev.DataTransfer != nil {
		ev.DataTransfer.DropEffect = DropEffectMove
	}
}

// Drop handles a drop on the canvas. bounds is the canvas' on-screen box at
// the time of the drop. It returns the created node, or false when the drop
// was ignored.
func (e *Editor) Drop(ev *DragEvent, bounds diagram.Rect) (diagram.Node, bool) {
	ev.PreventDefault()
	payload := ev.DataTransfer.GetData(e.dragFormat)
	return e.DropPayload(payload, ev.Point(), bounds)
}

// DropPayload inserts a node of type payload at the graph position under
// screen. Drops without a payload come from outside the palette and are
// ignored, as are drops that arrive before the rendering engine is ready.
func (e *Editor) DropPayload(payload string, screen diagram.Point, bounds diagram.Rect) (diagram.Node, bool) {
	if payload == "" {
		e.logger.Debug("Ignoring drop without payload")
		return diagram.Node{}, false
	}

	position, err := e.translator.Project(screen, bounds)
	if err != nil {
		e.logger.Debug("Ignoring drop", "type", payload, "error", err)
		return diagram.Node{}, false
	}

	node := diagram.Node{
		ID:       e.ids.Next(),
		Type:     payload,
		Position: position,
		Data:     diagram.NodeData{Label: payload + " node"},
	}
	if err := e.store.AddNode(node); err != nil {
		e.logger.Error("Failed to add dropped node", "id", node.ID, "error", err)
		return diagram.Node{}, false
	}

	e.logger.Debug("Dropped node", "id", node.ID, "type", node.Type, "x", position.X, "y", position.Y)
	return node, true
}
