package store

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"dndflow/diagram"
)

func inputNode() diagram.Node {
	return diagram.Node{
		ID:       "1",
		Type:     diagram.TypeInput,
		Position: diagram.Point{X: 250, Y: 5},
		Data:     diagram.NodeData{Label: "input node"},
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(diagram.Graph{Nodes: []diagram.Node{inputNode()}})
	require.NoError(t, err)
	return s
}

func TestNewRejectsDuplicateSeed(t *testing.T) {
	_, err := New(diagram.Graph{Nodes: []diagram.Node{inputNode(), inputNode()}})
	require.ErrorIs(t, err, ErrDuplicateID)
}

func TestNewCopiesSeed(t *testing.T) {
	seed := diagram.Graph{Nodes: []diagram.Node{inputNode()}}
	s, err := New(seed)
	require.NoError(t, err)

	seed.Nodes[0].Data.Label = "mutated"
	require.Equal(t, "input node", s.Nodes()[0].Data.Label)
}

func TestAddNode(t *testing.T) {
	s := newTestStore(t)

	node := diagram.Node{ID: "dndnode_0", Type: diagram.TypeOutput, Data: diagram.NodeData{Label: "output node"}}
	require.NoError(t, s.AddNode(node))

	nodes := s.Nodes()
	require.Len(t, nodes, 2)
	if diff := cmp.Diff(node, nodes[1]); diff != "" {
		t.Errorf("added node mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, uint64(1), s.Version())
}

func TestAddNodeRejectsMalformed(t *testing.T) {
	s := newTestStore(t)

	require.ErrorIs(t, s.AddNode(diagram.Node{}), ErrEmptyID)
	require.ErrorIs(t, s.AddNode(inputNode()), ErrDuplicateID)
	require.Len(t, s.Nodes(), 1)
	require.Zero(t, s.Version())
}

func TestNodesReturnsCopy(t *testing.T) {
	s := newTestStore(t)

	nodes := s.Nodes()
	nodes[0].Position.X = -1

	got, ok := s.Node("1")
	require.True(t, ok)
	require.Equal(t, 250.0, got.Position.X)
}

func TestReplaceNodes(t *testing.T) {
	s := newTestStore(t)

	next := s.Nodes()
	next[0].Data.Label = "renamed"
	require.NoError(t, s.ReplaceNodes(next))

	got, _ := s.Node("1")
	require.Equal(t, "renamed", got.Data.Label)

	dup := append(s.Nodes(), inputNode())
	require.ErrorIs(t, s.ReplaceNodes(dup), ErrDuplicateID)
	require.Len(t, s.Nodes(), 1)
}

func TestConnect(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddNode(diagram.Node{ID: "dndnode_0", Type: diagram.TypeDefault}))

	edges, err := s.Connect(diagram.Connection{Source: "1", Target: "dndnode_0"})
	require.NoError(t, err)
	require.Len(t, edges, 1)
	require.Equal(t, "1", edges[0].Source)
	require.Equal(t, "dndnode_0", edges[0].Target)

	// Duplicates and self-loops are accepted.
	_, err = s.Connect(diagram.Connection{Source: "1", Target: "dndnode_0"})
	require.NoError(t, err)
	_, err = s.Connect(diagram.Connection{Source: "1", Target: "1"})
	require.NoError(t, err)
	require.Len(t, s.Edges(), 3)
}

func TestConnectRejectsMissingEndpoints(t *testing.T) {
	s := newTestStore(t)
	before := s.Version()

	tests := []struct {
		name string
		conn diagram.Connection
	}{
		{"unknown source", diagram.Connection{Source: "ghost", Target: "1"}},
		{"unknown target", diagram.Connection{Source: "1", Target: "ghost"}},
		{"empty target", diagram.Connection{Source: "1"}},
		{"empty both", diagram.Connection{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edges, err := s.Connect(tt.conn)
			require.ErrorIs(t, err, ErrUnknownNode)
			require.Nil(t, edges)
		})
	}

	require.Empty(t, s.Edges())
	require.Equal(t, before, s.Version())
}

func TestSubscribeNotifiesEveryMutation(t *testing.T) {
	s := newTestStore(t)

	var got []Snapshot
	s.Subscribe(func(snap Snapshot) { got = append(got, snap) })

	require.NoError(t, s.AddNode(diagram.Node{ID: "a"}))
	require.NoError(t, s.ReplaceNodes(s.Nodes()))
	_, err := s.Connect(diagram.Connection{Source: "1", Target: "a"})
	require.NoError(t, err)

	require.Len(t, got, 3)
	for i, snap := range got {
		require.Equal(t, uint64(i+1), snap.Version)
	}
	require.Len(t, got[0].Nodes, 2)
	require.Len(t, got[2].Edges, 1)

	// Snapshots are detached from the store.
	got[2].Nodes[0].Data.Label = "changed"
	n, _ := s.Node("1")
	require.Equal(t, "input node", n.Data.Label)
}

func TestUnsubscribe(t *testing.T) {
	s := newTestStore(t)

	var order []string
	unsubA := s.Subscribe(func(Snapshot) { order = append(order, "a") })
	s.Subscribe(func(Snapshot) { order = append(order, "b") })

	require.NoError(t, s.AddNode(diagram.Node{ID: "x"}))
	unsubA()
	unsubA() // idempotent
	require.NoError(t, s.AddNode(diagram.Node{ID: "y"}))

	require.Equal(t, []string{"a", "b", "b"}, order)
}

func TestListenerCanUnsubscribeItself(t *testing.T) {
	s := newTestStore(t)

	calls := 0
	var unsub func()
	unsub = s.Subscribe(func(Snapshot) {
		calls++
		unsub()
	})

	require.NoError(t, s.AddNode(diagram.Node{ID: "x"}))
	require.NoError(t, s.AddNode(diagram.Node{ID: "y"}))
	require.Equal(t, 1, calls)
}

func TestApplyNodeChanges(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.AddNode(diagram.Node{ID: "b"}))

	notified := 0
	s.Subscribe(func(Snapshot) { notified++ })

	err := s.ApplyNodeChanges([]NodeChange{
		{Type: ChangePosition, ID: "1", Position: &diagram.Point{X: 1, Y: 2}},
		{Type: ChangeSelect, ID: "b"},
		{Type: ChangePosition, ID: "missing", Position: &diagram.Point{X: 9, Y: 9}},
	})
	require.NoError(t, err)
	require.Equal(t, 1, notified)

	n, _ := s.Node("1")
	require.Equal(t, diagram.Point{X: 1, Y: 2}, n.Position)
	require.Len(t, s.Nodes(), 2)
}

func TestApplyNodeChangesNoop(t *testing.T) {
	s := newTestStore(t)
	before := s.Version()

	require.NoError(t, s.ApplyNodeChanges([]NodeChange{{Type: ChangeSelect, ID: "1"}}))
	require.Equal(t, before, s.Version())
}

func TestApplyNodeChangesUnknownType(t *testing.T) {
	s := newTestStore(t)

	err := s.ApplyNodeChanges([]NodeChange{
		{Type: ChangePosition, ID: "1", Position: &diagram.Point{X: 1, Y: 2}},
		{Type: "remove", ID: "1"},
	})
	require.ErrorIs(t, err, ErrUnknownChange)

	// The batch is applied atomically.
	n, _ := s.Node("1")
	require.Equal(t, diagram.Point{X: 250, Y: 5}, n.Position)
}

func TestApplyNodeChangesIgnoresMeasurements(t *testing.T) {
	s := newTestStore(t)

	err := s.ApplyNodeChanges([]NodeChange{
		{Type: ChangeDimensions, ID: "1"},
		{Type: ChangePosition, ID: "1", Position: &diagram.Point{X: 300, Y: 5}},
		{Type: ChangeReset, ID: "1"},
	})
	require.NoError(t, err)

	n, _ := s.Node("1")
	require.Equal(t, diagram.Point{X: 300, Y: 5}, n.Position)
	require.Equal(t, uint64(1), s.Version())
}

func TestApplyEdgeChanges(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Connect(diagram.Connection{Source: "1", Target: "1"})
	require.NoError(t, err)
	before := s.Snapshot()

	require.NoError(t, s.ApplyEdgeChanges([]EdgeChange{
		{Type: ChangeSelect, ID: before.Edges[0].ID},
		{Type: ChangeReset, ID: before.Edges[0].ID},
	}))
	require.Equal(t, before, s.Snapshot())

	err = s.ApplyEdgeChanges([]EdgeChange{
		{Type: ChangeSelect, ID: before.Edges[0].ID},
		{Type: "remove", ID: before.Edges[0].ID},
	})
	require.ErrorIs(t, err, ErrUnknownChange)
	require.Equal(t, before, s.Snapshot())
}
