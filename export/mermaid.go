package export

import (
	"fmt"
	"strings"

	"dndflow/diagram"
)

// MermaidExporter exports graphs to Mermaid flowchart syntax
type MermaidExporter struct{}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{}
}

// Export converts the graph to Mermaid syntax. Nodes keep their insertion
// order; edges whose endpoints are missing are skipped.
func (e *MermaidExporter) Export(g diagram.Graph) (string, error) {
	if len(g.Nodes) == 0 {
		return "", fmt.Errorf("graph has no nodes")
	}

	var sb strings.Builder
	sb.WriteString("flowchart TD\n")

	known := make(map[string]string, len(g.Nodes))
	for _, node := range g.Nodes {
		id := sanitizeID(node.ID)
		known[node.ID] = id
		sb.WriteString(fmt.Sprintf("    %s%s\n", id, e.formatNode(node)))
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}

	for _, edge := range g.Edges {
		from, ok := known[edge.Source]
		if !ok {
			continue
		}
		to, ok := known[edge.Target]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", from, to))
	}

	return sb.String(), nil
}

// formatNode picks a shape by node type: inputs are stadiums, outputs are
// subroutines, everything else is a plain box.
func (e *MermaidExporter) formatNode(node diagram.Node) string {
	label := escapeLabel(node.Data.Label)
	switch node.Type {
	case diagram.TypeInput:
		return fmt.Sprintf("([\"%s\"])", label)
	case diagram.TypeOutput:
		return fmt.Sprintf("[[\"%s\"]]", label)
	default:
		return fmt.Sprintf("[\"%s\"]", label)
	}
}

// GetFileExtension returns the file extension for Mermaid files
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
