package diagram

// EdgeID builds the id of the edge created for conn. Empty handles
// contribute nothing, so two connect gestures between the same handles
// produce the same id.
func EdgeID(conn Connection) string {
	return "reactflow__edge-" + conn.Source + conn.SourceHandle + "-" + conn.Target + conn.TargetHandle
}

// AddEdge returns a new edge list with one edge for conn appended to edges.
// The input slice is never modified. Duplicate edges and self-loops are
// accepted as-is.
func AddEdge(conn Connection, edges []Edge) []Edge {
	out := make([]Edge, len(edges), len(edges)+1)
	copy(out, edges)
	return append(out, Edge{
		ID:           EdgeID(conn),
		Source:       conn.Source,
		Target:       conn.Target,
		SourceHandle: conn.SourceHandle,
		TargetHandle: conn.TargetHandle,
	})
}
