package editor

import (
	"dndflow/diagram"
)

// Mode represents the state of the edit panel
type Mode int

const (
	ModeIdle     Mode = iota // No node selected
	ModeSelected             // A node is selected, label field holds its label or was committed
	ModeEditing              // The label field was changed since the last commit
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeSelected:
		return "SELECTED"
	case ModeEditing:
		return "EDITING"
	default:
		return "UNKNOWN"
	}
}

// EditState is the edit panel's view of the editor.
type EditState struct {
	Mode           Mode   `json:"-"`
	SelectedNodeID string `json:"selectedNodeId,omitempty"`
	EditValue      string `json:"editValue"`
}

// State returns the current edit panel state.
func (e *Editor) State() EditState {
	return EditState{
		Mode:           e.mode,
		SelectedNodeID: e.selectedNodeID,
		EditValue:      e.editValue,
	}
}

// GetMode returns the current mode
func (e *Editor) GetMode() Mode {
	return e.mode
}

// SelectedNode returns the selected node id, or "" when none is selected.
func (e *Editor) SelectedNode() string {
	return e.selectedNodeID
}

// NodeClick selects node and loads its label into the edit field.
// Clicking empty canvas is not routed here, so the last selection sticks.
func (e *Editor) NodeClick(node diagram.Node) {
	e.selectedNodeID = node.ID
	e.editValue = node.Data.Label
	e.mode = ModeSelected
}

// SelectNode selects the node with the given id from the store.
func (e *Editor) SelectNode(id string) bool {
	node, ok := e.store.Node(id)
	if !ok {
		return false
	}
	e.NodeClick(node)
	return true
}

// HandleChange records a keystroke's worth of new field content.
func (e *Editor) HandleChange(value string) {
	e.editValue = value
	if e.selectedNodeID != "" {
		e.mode = ModeEditing
	}
}

// HandleEdit commits the edit field into the selected node's label and
// clears the field. The selection is kept. Without a selection the store is
// left alone.
func (e *Editor) HandleEdit() {
	defer func() { e.editValue = "" }()

	if e.selectedNodeID == "" {
		return
	}

	nodes := e.store.Nodes()
	for i := range nodes {
		if nodes[i].ID == e.selectedNodeID {
			nodes[i].Data.Label = e.editValue
		}
	}
	if err := e.store.ReplaceNodes(nodes); err != nil {
		e.logger.Error("Failed to commit label", "id", e.selectedNodeID, "error", err)
		return
	}

	e.logger.Debug("Committed label", "id", e.selectedNodeID, "label", e.editValue)
	e.mode = ModeSelected
}
