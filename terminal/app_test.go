package terminal

import (
	"context"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"dndflow/diagram"
	"dndflow/editor"
	"dndflow/store"
)

const (
	screenW = 100
	screenH = 30
)

func newTestApp(t *testing.T, attach bool) (*App, tcell.SimulationScreen) {
	t.Helper()

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(screenW, screenH)

	s, err := store.New(diagram.Graph{Nodes: []diagram.Node{{
		ID:       "1",
		Type:     diagram.TypeInput,
		Position: diagram.Point{X: 250, Y: 5},
		Data:     diagram.NodeData{Label: "input node"},
	}}})
	require.NoError(t, err)

	ed := editor.New(s, diagram.NewIDGenerator(diagram.DefaultIDPrefix, 0), editor.Options{})
	app := New(screen, ed, []string{"input", "default", "output"}, nil)
	if attach {
		require.NoError(t, app.attach())
		t.Cleanup(app.detach)
	}
	return app, screen
}

func press(app *App, x, y int) {
	app.handleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
}

func moveHeld(app *App, x, y int) {
	app.handleEvent(tcell.NewEventMouse(x, y, tcell.Button1, tcell.ModNone))
}

func release(app *App, x, y int) {
	app.handleEvent(tcell.NewEventMouse(x, y, tcell.ButtonNone, tcell.ModNone))
}

func key(app *App, k tcell.Key, r rune) bool {
	return app.handleEvent(tcell.NewEventKey(k, r, tcell.ModNone))
}

// paletteX is a column inside the palette items.
const paletteX = screenW - paletteWidth + 3

// The initial node sits at graph (250, 5): cells (49..62, 1..3).
const nodeX, nodeY = 50, 2

func TestDragFromPaletteDropsNode(t *testing.T) {
	app, _ := newTestApp(t, true)

	press(app, paletteX, paletteRow(2)) // "output"
	require.NotNil(t, app.drag)

	moveHeld(app, 60, 20)
	moveHeld(app, 40, 10)
	require.Equal(t, 2, app.drag.overs)
	require.Equal(t, editor.DropEffectMove, app.drag.transfer.DropEffect)

	release(app, 40, 10)
	require.Nil(t, app.drag)

	nodes := app.store.Nodes()
	require.Len(t, nodes, 2)
	// (40-22 cells - 2 pan) * 10, (10-0 - 1 pan) * 10
	require.Equal(t, diagram.Node{
		ID:       "dndnode_0",
		Type:     "output",
		Position: diagram.Point{X: 160, Y: 90},
		Data:     diagram.NodeData{Label: "output node"},
	}, nodes[1])
}

func TestDragReleasedOutsideCanvasIsCancelled(t *testing.T) {
	app, _ := newTestApp(t, true)

	press(app, paletteX, paletteRow(0))
	moveHeld(app, 5, 5)
	require.Zero(t, app.drag.overs, "drag-over only fires over the canvas")

	release(app, 5, 5)
	require.Len(t, app.store.Nodes(), 1)
	require.Equal(t, "Drop cancelled", app.status)
}

func TestDropBeforeInitIsIgnored(t *testing.T) {
	app, _ := newTestApp(t, false)

	press(app, paletteX, paletteRow(1))
	release(app, 40, 10)
	require.Len(t, app.store.Nodes(), 1)
}

func TestClickSelectsAndEditsLabel(t *testing.T) {
	app, _ := newTestApp(t, true)

	press(app, nodeX, nodeY)
	release(app, nodeX, nodeY)

	state := app.editor.State()
	require.Equal(t, "1", state.SelectedNodeID)
	require.Equal(t, "input node", state.EditValue)

	for i := 0; i < 4; i++ {
		key(app, tcell.KeyBackspace2, 0)
	}
	for _, r := range "src" {
		key(app, tcell.KeyRune, r)
	}
	require.Equal(t, "input src", app.editor.State().EditValue)
	require.Equal(t, editor.ModeEditing, app.editor.GetMode())

	key(app, tcell.KeyEnter, 0)
	node, _ := app.store.Node("1")
	require.Equal(t, "input src", node.Data.Label)
	require.Equal(t, "", app.editor.State().EditValue)
	require.Equal(t, "1", app.editor.SelectedNode())
}

func TestClickOnEmptyCanvasKeepsSelection(t *testing.T) {
	app, _ := newTestApp(t, true)

	press(app, nodeX, nodeY)
	release(app, nodeX, nodeY)
	press(app, 30, 20)
	release(app, 30, 20)

	require.Equal(t, "1", app.editor.SelectedNode())
}

func TestArrowKeysAndButtonsNudge(t *testing.T) {
	app, _ := newTestApp(t, true)

	// Nothing selected: no change.
	key(app, tcell.KeyUp, 0)
	require.Zero(t, app.store.Version())

	key(app, tcell.KeyTab, 0)
	require.Equal(t, "1", app.editor.SelectedNode())

	key(app, tcell.KeyUp, 0)
	node, _ := app.store.Node("1")
	require.Equal(t, diagram.Point{X: 250, Y: -5}, node.Position)

	press(app, 2, 8) // Move Right
	release(app, 2, 8)
	node, _ = app.store.Node("1")
	require.Equal(t, diagram.Point{X: 260, Y: -5}, node.Position)
}

func TestUpdateButtonCommits(t *testing.T) {
	app, _ := newTestApp(t, true)

	key(app, tcell.KeyTab, 0)
	app.editor.HandleChange("renamed")
	press(app, 2, 3)
	release(app, 2, 3)

	node, _ := app.store.Node("1")
	require.Equal(t, "renamed", node.Data.Label)
}

func TestDragNodeMovesIt(t *testing.T) {
	app, _ := newTestApp(t, true)

	press(app, nodeX, nodeY)
	moveHeld(app, nodeX+3, nodeY+2)
	release(app, nodeX+3, nodeY+2)

	node, _ := app.store.Node("1")
	require.Equal(t, diagram.Point{X: 280, Y: 25}, node.Position)
	require.Empty(t, app.editor.SelectedNode(), "a drag is not a click")
}

func TestRightDragConnects(t *testing.T) {
	app, _ := newTestApp(t, true)

	press(app, paletteX, paletteRow(2))
	release(app, 40, 10)

	app.handleEvent(tcell.NewEventMouse(nodeX, nodeY, tcell.Button2, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(42, 11, tcell.ButtonNone, tcell.ModNone))

	edges := app.store.Edges()
	require.Len(t, edges, 1)
	require.Equal(t, "1", edges[0].Source)
	require.Equal(t, "dndnode_0", edges[0].Target)

	// Releasing over empty canvas connects nothing.
	app.handleEvent(tcell.NewEventMouse(nodeX, nodeY, tcell.Button2, tcell.ModNone))
	app.handleEvent(tcell.NewEventMouse(30, 25, tcell.ButtonNone, tcell.ModNone))
	require.Len(t, app.store.Edges(), 1)
}

func TestStoreChangesMarkDirty(t *testing.T) {
	app, _ := newTestApp(t, true)
	app.dirty = false

	require.NoError(t, app.store.AddNode(diagram.Node{ID: "x"}))
	require.True(t, app.dirty)
}

func TestQuitKeys(t *testing.T) {
	app, _ := newTestApp(t, true)

	require.False(t, key(app, tcell.KeyRune, 'q'))
	require.True(t, key(app, tcell.KeyEscape, 0))
	require.True(t, key(app, tcell.KeyCtrlC, 0))
	require.True(t, app.handleEvent(tcell.NewEventInterrupt(nil)))
}

func TestRunStopsOnCancel(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	s, err := store.New(diagram.Graph{})
	require.NoError(t, err)
	ed := editor.New(s, diagram.NewIDGenerator(diagram.DefaultIDPrefix, 0), editor.Options{})
	app := New(screen, ed, []string{"default"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, app.Run(ctx))
	require.Nil(t, app.unsubscribe, "Run detaches from the store")
}

func screenRow(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Runes[0])
	}
	return sb.String()
}

func TestDraw(t *testing.T) {
	app, screen := newTestApp(t, true)

	key(app, tcell.KeyTab, 0)
	app.draw()
	screen.Show()

	require.Contains(t, screenRow(screen, 0), "Label:")
	require.Contains(t, screenRow(screen, 0), "Nodes")
	require.Contains(t, screenRow(screen, 1), "input node")
	require.Contains(t, screenRow(screen, 2), "│ input node │")
	require.Contains(t, screenRow(screen, 3), "[ Update ]")
	require.Contains(t, screenRow(screen, 6), "output")
	require.Contains(t, screenRow(screen, 10), "Mode: SELECTED")
	require.Contains(t, screenRow(screen, screenH-1), "Esc quits")
}
