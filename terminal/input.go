package terminal

import (
	"github.com/gdamore/tcell/v2"

	"dndflow/diagram"
	"dndflow/editor"
	"dndflow/store"
)

// handleEvent processes one event and reports whether the app should quit.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.screen.Sync()
		a.dirty = true
	case *tcell.EventInterrupt:
		return true
	case *tcell.EventKey:
		return a.handleKey(ev)
	case *tcell.EventMouse:
		a.handleMouse(ev)
	}
	return false
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	state := a.editor.State()

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyUp:
		a.editor.Nudge(editor.DirectionUp)
	case tcell.KeyDown:
		a.editor.Nudge(editor.DirectionDown)
	case tcell.KeyLeft:
		a.editor.Nudge(editor.DirectionLeft)
	case tcell.KeyRight:
		a.editor.Nudge(editor.DirectionRight)
	case tcell.KeyEnter:
		a.commit()
	case tcell.KeyTab:
		a.selectNext()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		value := []rune(state.EditValue)
		if len(value) > 0 {
			a.editor.HandleChange(string(value[:len(value)-1]))
		}
	case tcell.KeyRune:
		a.editor.HandleChange(state.EditValue + string(ev.Rune()))
	}

	a.dirty = true
	return false
}

// commit runs the Update action.
func (a *App) commit() {
	id := a.editor.SelectedNode()
	a.editor.HandleEdit()
	if id != "" {
		a.setStatus("Updated %s", id)
	}
}

// selectNext moves the selection to the next node in store order.
func (a *App) selectNext() {
	nodes := a.store.Nodes()
	if len(nodes) == 0 {
		return
	}
	next := 0
	current := a.editor.SelectedNode()
	for i, node := range nodes {
		if node.ID == current {
			next = (i + 1) % len(nodes)
			break
		}
	}
	a.editor.NodeClick(nodes[next])
}

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()

	switch {
	case buttons&tcell.Button1 != 0 && !a.leftDown:
		a.leftPress(x, y)
	case buttons&tcell.Button1 != 0:
		a.leftMove(x, y)
	case a.leftDown:
		a.leftRelease(x, y)
	}

	switch {
	case buttons&tcell.Button2 != 0 && !a.rightDown:
		a.rightDown = true
		a.connectFrom = a.nodeAt(x, y)
	case buttons&tcell.Button2 == 0 && a.rightDown:
		a.rightDown = false
		a.rightRelease(x, y)
	}

	a.dirty = true
}

func (a *App) leftPress(x, y int) {
	a.leftDown = true
	a.downX, a.downY = x, y
	a.downNode = ""
	a.moved = false

	if nodeType, ok := a.paletteItemAt(x, y); ok {
		dt := editor.NewDataTransfer()
		dt.SetData(a.editor.DragFormat(), nodeType)
		a.drag = &paletteDrag{nodeType: nodeType, transfer: dt}
		a.setStatus("Dragging %s", nodeType)
		return
	}

	if action, ok := a.panelButtonAt(x, y); ok {
		action()
		return
	}

	if id := a.nodeAt(x, y); id != "" {
		a.downNode = id
		node, _ := a.store.Node(id)
		a.downOrigin = node.Position
	}
}

func (a *App) leftMove(x, y int) {
	if x != a.downX || y != a.downY {
		a.moved = true
	}

	if a.drag != nil {
		if !a.canvasBounds().Contains(cellPoint(x, y)) {
			return
		}
		ev := &editor.DragEvent{ClientX: float64(x), ClientY: float64(y), DataTransfer: a.drag.transfer}
		a.editor.DragOver(ev)
		a.drag.overs++
		return
	}

	// Dragging a node moves it, reported to the store the way an engine
	// reports its own drag-to-move.
	if a.downNode != "" && a.moved {
		pos := a.downOrigin.Add(diagram.Point{
			X: float64(x-a.downX) * cellUnits,
			Y: float64(y-a.downY) * cellUnits,
		})
		err := a.store.ApplyNodeChanges([]store.NodeChange{{Type: store.ChangePosition, ID: a.downNode, Position: &pos}})
		if err != nil {
			a.logger.Error("Failed to move node", "id", a.downNode, "error", err)
		}
	}
}

func (a *App) leftRelease(x, y int) {
	defer func() {
		a.leftDown = false
		a.drag = nil
		a.downNode = ""
	}()

	if a.drag != nil {
		if !a.canvasBounds().Contains(cellPoint(x, y)) {
			a.logger.Debug("Drag aborted outside canvas", "type", a.drag.nodeType)
			a.setStatus("Drop cancelled")
			return
		}
		ev := &editor.DragEvent{ClientX: float64(x), ClientY: float64(y), DataTransfer: a.drag.transfer}
		// Bounds are taken now, not when the drag started.
		if node, ok := a.editor.Drop(ev, a.canvasBounds()); ok {
			a.setStatus("Added %s", node.ID)
		}
		return
	}

	if a.downNode != "" && !a.moved {
		if node, ok := a.store.Node(a.downNode); ok {
			a.editor.NodeClick(node)
		}
	}
}

func (a *App) rightRelease(x, y int) {
	from := a.connectFrom
	a.connectFrom = ""
	if from == "" {
		return
	}
	to := a.nodeAt(x, y)
	if to == "" {
		return
	}
	if _, err := a.editor.Connect(diagram.Connection{Source: from, Target: to}); err != nil {
		a.logger.Error("Failed to connect nodes", "source", from, "target", to, "error", err)
		a.setStatus("Cannot connect %s -> %s", from, to)
		return
	}
	a.setStatus("Connected %s -> %s", from, to)
}

// paletteItemAt returns the node type of the palette item at (x, y).
func (a *App) paletteItemAt(x, y int) (string, bool) {
	w, _ := a.screen.Size()
	if x < w-paletteWidth {
		return "", false
	}
	for i, nodeType := range a.palette {
		if y == paletteRow(i) {
			return nodeType, true
		}
	}
	return "", false
}

// panelButtonAt returns the action of the control panel button at (x, y).
func (a *App) panelButtonAt(x, y int) (func(), bool) {
	if x >= panelWidth {
		return nil, false
	}
	for _, b := range a.buttons() {
		if y == b.row {
			return b.action, true
		}
	}
	return nil, false
}

// nodeAt returns the id of the topmost node drawn over cell (x, y).
func (a *App) nodeAt(x, y int) string {
	if !a.canvasBounds().Contains(cellPoint(x, y)) {
		return ""
	}
	nodes := a.store.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if a.nodeBox(nodes[i]).contains(x, y) {
			return nodes[i].ID
		}
	}
	return ""
}

func cellPoint(x, y int) diagram.Point {
	return diagram.Point{X: float64(x), Y: float64(y)}
}
