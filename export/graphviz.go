package export

import (
	"fmt"
	"strings"

	"dndflow/diagram"
)

// GraphvizExporter exports graphs to Graphviz DOT syntax
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the graph to DOT. Node positions are emitted as pinned
// pos attributes so neato/fdp reproduce the editor layout; dot ignores them.
func (e *GraphvizExporter) Export(g diagram.Graph) (string, error) {
	if len(g.Nodes) == 0 {
		return "", fmt.Errorf("graph has no nodes")
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  node [shape=box];\n\n")

	known := make(map[string]bool, len(g.Nodes))
	for _, node := range g.Nodes {
		known[node.ID] = true
		// Graph space grows downwards, DOT points grow upwards.
		y := -node.Position.Y
		if y == 0 {
			y = 0 // no "-0"
		}
		sb.WriteString(fmt.Sprintf("  %s [label=\"%s\", shape=%s, pos=\"%g,%g!\"];\n",
			sanitizeID(node.ID), escapeLabel(node.Data.Label), e.shape(node.Type),
			node.Position.X, y))
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}

	for _, edge := range g.Edges {
		if !known[edge.Source] || !known[edge.Target] {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s -> %s;\n", sanitizeID(edge.Source), sanitizeID(edge.Target)))
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func (e *GraphvizExporter) shape(nodeType string) string {
	switch nodeType {
	case diagram.TypeInput:
		return "invhouse"
	case diagram.TypeOutput:
		return "house"
	default:
		return "box"
	}
}

// GetFileExtension returns the file extension for DOT files
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz DOT"
}
