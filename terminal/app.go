// Package terminal is the interactive front end: a tcell screen split into a
// control panel, the canvas and the node palette. It plays the rendering
// engine for the editor core, turning mouse and keyboard events into editor
// operations and redrawing whenever the store reports a change.
package terminal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"dndflow/ctxlog"
	"dndflow/diagram"
	"dndflow/editor"
	"dndflow/store"
)

const (
	panelWidth   = 22 // Control panel on the left
	paletteWidth = 16 // Node palette on the right
	statusHeight = 1  // Status line at the bottom

	// cellUnits is the number of graph units covered by one terminal cell,
	// so a default nudge moves a node by one cell.
	cellUnits = 10
)

// App runs the terminal editor.
type App struct {
	screen  tcell.Screen
	editor  *editor.Editor
	store   *store.Store
	palette []string
	logger  *slog.Logger

	// Canvas pan, in cells. Fixed: pan and zoom are not offered.
	pan diagram.Point

	// Left button state
	leftDown   bool
	downX      int
	downY      int
	downNode   string        // Node under the pointer at press time
	downOrigin diagram.Point // That node's position at press time
	moved      bool
	drag       *paletteDrag // Palette drag in progress

	// Right button connects nodes
	rightDown   bool
	connectFrom string

	status      string
	dirty       bool
	unsubscribe func()
}

// paletteDrag is a drag gesture started on a palette item.
type paletteDrag struct {
	nodeType string
	transfer *editor.DataTransfer
	overs    int // drag-over events delivered so far
}

// New creates an App drawing on screen. The screen is initialized by Run.
func New(screen tcell.Screen, ed *editor.Editor, palette []string, logger *slog.Logger) *App {
	if logger == nil {
		logger = ctxlog.Discard()
	}
	return &App{
		screen:  screen,
		editor:  ed,
		store:   ed.Store(),
		palette: palette,
		logger:  logger,
		pan:     diagram.Point{X: 2, Y: 1},
		dirty:   true,
	}
}

// Run initializes the screen and processes events until the user quits or
// ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer a.screen.Fini()

	a.screen.EnableMouse()
	a.screen.HideCursor()
	a.screen.Clear()

	if err := a.attach(); err != nil {
		return err
	}
	defer a.detach()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
		case <-done:
		}
	}()

	for {
		if a.dirty {
			a.draw()
			a.screen.Show()
			a.dirty = false
		}

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if a.handleEvent(ev) {
			return nil
		}
	}
}

// attach subscribes to the store and hands the editor the instance handle,
// the equivalent of the engine's initialization callback.
func (a *App) attach() error {
	a.unsubscribe = a.store.Subscribe(func(snap store.Snapshot) {
		a.logger.Debug("Store changed", "version", snap.Version, "nodes", len(snap.Nodes), "edges", len(snap.Edges))
		a.dirty = true
	})
	if err := a.editor.Init(a); err != nil {
		return fmt.Errorf("failed to initialize editor: %w", err)
	}
	return nil
}

func (a *App) detach() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Project implements viewport.Instance. p is relative to the canvas'
// top-left cell.
func (a *App) Project(p diagram.Point) diagram.Point {
	return diagram.Point{
		X: (p.X - a.pan.X) * cellUnits,
		Y: (p.Y - a.pan.Y) * cellUnits,
	}
}

// toCanvas converts a graph point into a cell relative to the canvas.
func (a *App) toCanvas(p diagram.Point) diagram.Point {
	return diagram.Point{
		X: p.X/cellUnits + a.pan.X,
		Y: p.Y/cellUnits + a.pan.Y,
	}
}

// canvasBounds returns the canvas' current box on screen, in cells.
func (a *App) canvasBounds() diagram.Rect {
	w, h := a.screen.Size()
	return diagram.Rect{
		Left:   panelWidth,
		Top:    0,
		Width:  float64(max(w-panelWidth-paletteWidth, 0)),
		Height: float64(max(h-statusHeight, 0)),
	}
}

func (a *App) setStatus(format string, args ...any) {
	a.status = fmt.Sprintf(format, args...)
	a.dirty = true
}
