package terminal

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"dndflow/diagram"
	"dndflow/editor"
)

var (
	styleDefault  = tcell.StyleDefault
	styleBorder   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleButton   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorTeal)
	styleField    = tcell.StyleDefault.Underline(true)
	styleEdge     = tcell.StyleDefault.Foreground(tcell.ColorSteelBlue)
	styleSelected = tcell.StyleDefault.Reverse(true).Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
)

// nodeStyle colors a node by type.
func nodeStyle(nodeType string) tcell.Style {
	switch nodeType {
	case diagram.TypeInput:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case diagram.TypeOutput:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorWhite)
	}
}

// button is a clickable row in the control panel.
type button struct {
	row    int
	label  string
	action func()
}

func (a *App) buttons() []button {
	return []button{
		{row: 3, label: "Update", action: a.commit},
		{row: 5, label: "Move Up", action: func() { a.editor.Nudge(editor.DirectionUp) }},
		{row: 6, label: "Move Down", action: func() { a.editor.Nudge(editor.DirectionDown) }},
		{row: 7, label: "Move Left", action: func() { a.editor.Nudge(editor.DirectionLeft) }},
		{row: 8, label: "Move Right", action: func() { a.editor.Nudge(editor.DirectionRight) }},
	}
}

func paletteRow(i int) int {
	return 2 + 2*i
}

// box is a node's footprint on screen, in cells.
type box struct {
	x, y, w, h int
}

func (b box) contains(x, y int) bool {
	return x >= b.x && x < b.x+b.w && y >= b.y && y < b.y+b.h
}

func (b box) center() (int, int) {
	return b.x + b.w/2, b.y + b.h/2
}

// nodeBox places a node: its position is the top-left corner.
func (a *App) nodeBox(node diagram.Node) box {
	bounds := a.canvasBounds()
	p := a.toCanvas(node.Position)
	return box{
		x: int(math.Floor(bounds.Left + p.X)),
		y: int(math.Floor(bounds.Top + p.Y)),
		w: runewidth.StringWidth(node.Data.Label) + 4,
		h: 3,
	}
}

func (a *App) draw() {
	a.screen.Clear()
	w, h := a.screen.Size()

	a.drawCanvas()
	a.drawPanel()
	a.drawPalette(w)
	a.drawStatus(w, h)
}

func (a *App) drawPanel() {
	state := a.editor.State()

	a.text(0, 0, panelWidth, "Label:", styleTitle)
	field := state.EditValue
	if width := runewidth.StringWidth(field); width > panelWidth-2 {
		// Keep the tail visible while typing.
		field = runewidth.TruncateLeft(field, width-(panelWidth-2), "")
	}
	a.fill(1, 1, panelWidth-2, ' ', styleField)
	a.text(1, 1, panelWidth-2, field, styleField)

	for _, b := range a.buttons() {
		a.text(1, b.row, panelWidth-2, "[ "+b.label+" ]", styleButton)
	}

	a.text(0, 10, panelWidth, "Mode: "+state.Mode.String(), styleDefault)
	if state.SelectedNodeID != "" {
		a.text(0, 11, panelWidth, "Node: "+state.SelectedNodeID, styleDefault)
	}

	_, h := a.screen.Size()
	for y := 0; y < h-statusHeight; y++ {
		a.screen.SetContent(panelWidth-1, y, '│', nil, styleBorder)
	}
}

func (a *App) drawPalette(w int) {
	x := w - paletteWidth
	_, h := a.screen.Size()
	for y := 0; y < h-statusHeight; y++ {
		a.screen.SetContent(x, y, '│', nil, styleBorder)
	}

	a.text(x+2, 0, paletteWidth-2, "Nodes", styleTitle)
	for i, nodeType := range a.palette {
		style := nodeStyle(nodeType).Reverse(true)
		if a.drag != nil && a.drag.nodeType == nodeType {
			style = style.Bold(true)
		}
		a.text(x+2, paletteRow(i), paletteWidth-3, " "+nodeType+" ", style)
	}
}

func (a *App) drawCanvas() {
	nodes := a.store.Nodes()
	boxes := make(map[string]box, len(nodes))
	for _, node := range nodes {
		boxes[node.ID] = a.nodeBox(node)
	}

	// Straight lines between centers; routing is not attempted.
	for _, edge := range a.store.Edges() {
		from, ok := boxes[edge.Source]
		if !ok {
			continue
		}
		to, ok := boxes[edge.Target]
		if !ok {
			continue
		}
		x0, y0 := from.center()
		x1, y1 := to.center()
		a.line(x0, y0, x1, y1)
	}

	selected := a.editor.SelectedNode()
	for _, node := range nodes {
		style := nodeStyle(node.Type)
		if node.ID == selected {
			style = styleSelected
		}
		a.drawNode(boxes[node.ID], node.Data.Label, style)
	}
}

func (a *App) drawNode(b box, label string, style tcell.Style) {
	inner := b.w - 2
	a.canvasCell(b.x, b.y, '┌', style)
	a.canvasCell(b.x+b.w-1, b.y, '┐', style)
	a.canvasCell(b.x, b.y+2, '└', style)
	a.canvasCell(b.x+b.w-1, b.y+2, '┘', style)
	for i := 1; i <= inner; i++ {
		a.canvasCell(b.x+i, b.y, '─', style)
		a.canvasCell(b.x+i, b.y+2, '─', style)
		a.canvasCell(b.x+i, b.y+1, ' ', style)
	}
	a.canvasCell(b.x, b.y+1, '│', style)
	a.canvasCell(b.x+b.w-1, b.y+1, '│', style)

	x := b.x + 2
	for _, r := range label {
		a.canvasCell(x, b.y+1, r, style)
		x += runewidth.RuneWidth(r)
	}
}

// line draws a Bresenham line of dots, leaving the endpoints to the nodes.
func (a *App) line(x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	errAcc := dx + dy
	for {
		a.canvasCell(x0, y0, '·', styleEdge)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x0 += sx
		}
		if e2 <= dx {
			errAcc += dx
			y0 += sy
		}
	}
}

// canvasCell sets a cell if it lies inside the canvas.
func (a *App) canvasCell(x, y int, r rune, style tcell.Style) {
	if !a.canvasBounds().Contains(cellPoint(x, y)) {
		return
	}
	a.screen.SetContent(x, y, r, nil, style)
}

func (a *App) drawStatus(w, h int) {
	y := h - statusHeight
	a.fill(0, y, w, ' ', styleStatus)

	msg := a.status
	if a.drag != nil {
		msg = "Dragging " + a.drag.nodeType
		if a.drag.transfer.DropEffect != "" {
			msg += " (" + a.drag.transfer.DropEffect + ")"
		}
	}
	if msg == "" {
		msg = "drag a node type onto the canvas · right-drag to connect · Esc quits"
	}
	a.text(1, y, w-2, msg, styleStatus)
}

// text writes s at (x, y), clipped to width cells.
func (a *App) text(x, y, width int, s string, style tcell.Style) {
	end := x + width
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if x+rw > end {
			return
		}
		a.screen.SetContent(x, y, r, nil, style)
		x += rw
	}
}

func (a *App) fill(x, y, width int, r rune, style tcell.Style) {
	for i := 0; i < width; i++ {
		a.screen.SetContent(x+i, y, r, nil, style)
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
