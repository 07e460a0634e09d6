package store

import (
	"fmt"

	"dndflow/diagram"
)

// ChangeType identifies a node change reported by the rendering engine.
type ChangeType string

const (
	// ChangePosition moves a node, e.g. after the engine's own drag-to-move.
	ChangePosition ChangeType = "position"
	// ChangeSelect reports the engine's selection highlight. Selection is
	// tracked by the edit panel, so the store ignores it.
	ChangeSelect ChangeType = "select"
	// ChangeDimensions reports a node's measured size. Sizes are not stored.
	ChangeDimensions ChangeType = "dimensions"
	// ChangeReset replaces an item with the engine's copy; the store's copy
	// stays canonical.
	ChangeReset ChangeType = "reset"
)

// NodeChange is one entry of the engine's node-change notification.
type NodeChange struct {
	Type     ChangeType     `json:"type"`
	ID       string         `json:"id"`
	Position *diagram.Point `json:"position,omitempty"`
}

// ApplyNodeChanges applies a batch of engine notifications as a single
// mutation. Changes naming nodes that are not in the store are skipped.
// Listeners are only notified when at least one node actually changed.
func (s *Store) ApplyNodeChanges(changes []NodeChange) error {
	nodes := diagram.CloneNodes(s.graph.Nodes)
	index := make(map[string]int, len(nodes))
	for i, node := range nodes {
		index[node.ID] = i
	}

	changed := false
	for _, c := range changes {
		switch c.Type {
		case ChangePosition:
			i, ok := index[c.ID]
			if !ok || c.Position == nil {
				continue
			}
			if nodes[i].Position != *c.Position {
				nodes[i].Position = *c.Position
				changed = true
			}
		case ChangeSelect, ChangeDimensions, ChangeReset:
		default:
			return fmt.Errorf("apply change to %q: %w: %q", c.ID, ErrUnknownChange, c.Type)
		}
	}

	if !changed {
		return nil
	}
	s.graph.Nodes = nodes
	s.commit()
	return nil
}

// EdgeChange is one entry of the engine's edge-change notification.
type EdgeChange struct {
	Type ChangeType `json:"type"`
	ID   string     `json:"id"`
}

// ApplyEdgeChanges accepts the engine's edge notifications. Selection and
// reset carry nothing the store keeps, so the edge list never changes here;
// unknown change types are an error and nothing is applied.
func (s *Store) ApplyEdgeChanges(changes []EdgeChange) error {
	for _, c := range changes {
		switch c.Type {
		case ChangeSelect, ChangeReset:
		default:
			return fmt.Errorf("apply change to edge %q: %w: %q", c.ID, ErrUnknownChange, c.Type)
		}
	}
	return nil
}
