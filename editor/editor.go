package editor

import (
	"log/slog"

	"dndflow/ctxlog"
	"dndflow/diagram"
	"dndflow/store"
	"dndflow/viewport"
)

const (
	// DefaultDragFormat is the data transfer key the palette stores the node
	// type under.
	DefaultDragFormat = "application/reactflow"
	// DefaultNudgeStep is the distance, in graph units, a nudge moves a node.
	DefaultNudgeStep = 10.0
)

// Options configures an Editor. Zero values select the defaults.
type Options struct {
	DragFormat string
	NudgeStep  float64
	Logger     *slog.Logger
}

// Editor drives the graph store from user interaction: drops from the
// palette, node clicks, the label field and the nudge buttons.
//
// Several editors may share one store and one id generator (one per
// connected client); each keeps its own edit state and viewport handle.
type Editor struct {
	store      *store.Store
	ids        *diagram.IDGenerator
	translator viewport.Translator
	logger     *slog.Logger

	dragFormat string
	step       float64

	// Edit panel state
	mode           Mode
	selectedNodeID string // Empty when nothing is selected
	editValue      string
}

// New creates an editor operating on s, taking ids for dropped nodes from ids.
func New(s *store.Store, ids *diagram.IDGenerator, opts Options) *Editor {
	e := &Editor{
		store:      s,
		ids:        ids,
		logger:     opts.Logger,
		dragFormat: opts.DragFormat,
		step:       opts.NudgeStep,
		mode:       ModeIdle,
	}
	if e.logger == nil {
		e.logger = ctxlog.Discard()
	}
	if e.dragFormat == "" {
		e.dragFormat = DefaultDragFormat
	}
	if e.step == 0 {
		e.step = DefaultNudgeStep
	}
	return e
}

// Store returns the store the editor mutates.
func (e *Editor) Store() *store.Store {
	return e.store
}

// DragFormat returns the data transfer key drops are read from.
func (e *Editor) DragFormat() string {
	return e.dragFormat
}

// Init receives the rendering engine's instance handle. Drops are ignored
// until it has been called.
func (e *Editor) Init(inst viewport.Instance) error {
	return e.translator.Init(inst)
}

// Ready reports whether the rendering engine has been initialized.
func (e *Editor) Ready() bool {
	return e.translator.Ready()
}

// Connect forwards the engine's connect gesture to the store, appending
// exactly one edge. Both endpoints must exist.
func (e *Editor) Connect(conn diagram.Connection) ([]diagram.Edge, error) {
	edges, err := e.store.Connect(conn)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("Connected nodes", "source", conn.Source, "target", conn.Target, "edges", len(edges))
	return edges, nil
}
