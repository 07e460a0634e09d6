// Package diagram contains the flow graph model shared by the editor core and
// the rendering collaborators.
package diagram

// Point represents a 2D coordinate. Depending on context it is either a
// screen position in pixels (or cells) or a position in graph space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point {
	return Point{X: p.X + d.X, Y: p.Y + d.Y}
}

// Sub returns p translated by -d.
func (p Point) Sub(d Point) Point {
	return Point{X: p.X - d.X, Y: p.Y - d.Y}
}

// Rect is an on-screen bounding box, shaped like the DOM's client rect.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Origin returns the top-left corner of the rect.
func (r Rect) Origin() Point {
	return Point{X: r.Left, Y: r.Top}
}

// Contains checks if a point is inside the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width &&
		p.Y >= r.Top && p.Y < r.Top+r.Height
}

// Well-known node types offered by the default palette. Any other string is
// a valid custom type.
const (
	TypeInput   = "input"
	TypeDefault = "default"
	TypeOutput  = "output"
)

// NodeData carries the user-editable payload of a node.
type NodeData struct {
	Label string `json:"label"`
}

// Node represents a positioned, labeled vertex in the graph.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Point    `json:"position"` // Graph space
	Data     NodeData `json:"data"`
}

// Edge represents a directed connection between two node ids.
type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Connection holds the parameters of a connect gesture as reported by the
// rendering engine.
type Connection struct {
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Graph is a node and edge list pair.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Clone creates a copy of the graph that shares no backing arrays with g.
// Node and Edge are plain values, so copying the slices is a deep copy.
func (g Graph) Clone() Graph {
	return Graph{
		Nodes: CloneNodes(g.Nodes),
		Edges: CloneEdges(g.Edges),
	}
}

// FindNode returns the node with the given id.
func (g Graph) FindNode(id string) (Node, bool) {
	for _, node := range g.Nodes {
		if node.ID == id {
			return node, true
		}
	}
	return Node{}, false
}

// CloneNodes returns a copy of nodes. A nil input yields an empty, non-nil
// slice so JSON consumers always see an array.
func CloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return out
}

// CloneEdges returns a copy of edges, never nil.
func CloneEdges(edges []Edge) []Edge {
	out := make([]Edge, len(edges))
	copy(out, edges)
	return out
}
