// Package store holds the canonical node and edge lists of a flow graph.
//
// A Store is the single source of truth that every editor operation mutates.
// Instead of relying on implicit re-rendering, consumers register listeners
// with Subscribe and receive an immutable Snapshot after each mutation.
//
// A Store is not safe for concurrent use. Callers are expected to funnel all
// operations through one goroutine (the terminal event loop or the server hub).
package store

import (
	"errors"
	"fmt"

	"dndflow/diagram"
)

var (
	// ErrEmptyID is returned when a node without an id is added.
	ErrEmptyID = errors.New("node id is empty")
	// ErrDuplicateID is returned when a node id is already in use.
	ErrDuplicateID = errors.New("duplicate node id")
	// ErrUnknownChange is returned for change types the store does not apply.
	ErrUnknownChange = errors.New("unknown change type")
	// ErrUnknownNode is returned when an edge endpoint is not in the store.
	ErrUnknownNode = errors.New("unknown node")
)

// Snapshot is an immutable copy of the graph at a given version.
type Snapshot struct {
	Version uint64         `json:"version"`
	Nodes   []diagram.Node `json:"nodes"`
	Edges   []diagram.Edge `json:"edges"`
}

// Graph returns the snapshot's node and edge lists as a diagram.Graph.
func (s Snapshot) Graph() diagram.Graph {
	return diagram.Graph{Nodes: s.Nodes, Edges: s.Edges}
}

// Listener is called with the new state after every mutation.
type Listener func(Snapshot)

// Store owns the node and edge collections.
type Store struct {
	graph   diagram.Graph
	version uint64

	listeners map[int]Listener
	order     []int // subscription order
	nextSub   int
}

// New creates a store seeded with the given graph. The input is copied.
// The seed must satisfy the same id rules as AddNode.
func New(initial diagram.Graph) (*Store, error) {
	if err := checkIDs(initial.Nodes); err != nil {
		return nil, fmt.Errorf("initial nodes: %w", err)
	}
	return &Store{
		graph:     initial.Clone(),
		listeners: make(map[int]Listener),
	}, nil
}

// Nodes returns a copy of the current node list.
func (s *Store) Nodes() []diagram.Node {
	return diagram.CloneNodes(s.graph.Nodes)
}

// Edges returns a copy of the current edge list.
func (s *Store) Edges() []diagram.Edge {
	return diagram.CloneEdges(s.graph.Edges)
}

// Node returns the node with the given id.
func (s *Store) Node(id string) (diagram.Node, bool) {
	return s.graph.FindNode(id)
}

// Version returns the number of mutations applied so far.
func (s *Store) Version() uint64 {
	return s.version
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	g := s.graph.Clone()
	return Snapshot{Version: s.version, Nodes: g.Nodes, Edges: g.Edges}
}

// AddNode appends a node. The node must carry a non-empty id that is not
// already in the store.
func (s *Store) AddNode(node diagram.Node) error {
	if node.ID == "" {
		return ErrEmptyID
	}
	if _, exists := s.graph.FindNode(node.ID); exists {
		return fmt.Errorf("add node %q: %w", node.ID, ErrDuplicateID)
	}

	s.graph.Nodes = append(s.graph.Nodes, node)
	s.commit()
	return nil
}

// ReplaceNodes swaps the node list wholesale. It is used by operations that
// derive a new list from the current one (label edits, nudges).
func (s *Store) ReplaceNodes(nodes []diagram.Node) error {
	if err := checkIDs(nodes); err != nil {
		return fmt.Errorf("replace nodes: %w", err)
	}

	s.graph.Nodes = diagram.CloneNodes(nodes)
	s.commit()
	return nil
}

// Connect appends one edge for conn and returns the new edge list. Both
// endpoints must be nodes in the store; duplicate edges and self-loops are
// kept.
func (s *Store) Connect(conn diagram.Connection) ([]diagram.Edge, error) {
	for _, id := range []string{conn.Source, conn.Target} {
		if _, ok := s.graph.FindNode(id); !ok {
			return nil, fmt.Errorf("connect %q to %q: %w: %q", conn.Source, conn.Target, ErrUnknownNode, id)
		}
	}

	s.graph.Edges = diagram.AddEdge(conn, s.graph.Edges)
	s.commit()
	return s.Edges(), nil
}

// Subscribe registers a listener and returns a function that removes it.
// Listeners are notified in subscription order.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.order = append(s.order, id)

	return func() {
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, sub := range s.order {
			if sub == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// commit bumps the version and notifies listeners.
func (s *Store) commit() {
	s.version++
	if len(s.order) == 0 {
		return
	}

	snap := s.Snapshot()
	// Copy the order so a listener may unsubscribe itself.
	order := append([]int(nil), s.order...)
	for _, id := range order {
		if l, ok := s.listeners[id]; ok {
			l(snap)
		}
	}
}

func checkIDs(nodes []diagram.Node) error {
	seen := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		if node.ID == "" {
			return ErrEmptyID
		}
		if seen[node.ID] {
			return fmt.Errorf("node %q: %w", node.ID, ErrDuplicateID)
		}
		seen[node.ID] = true
	}
	return nil
}
