package export

import (
	"fmt"
	"strings"

	"dndflow/diagram"
)

// D2Exporter exports graphs to D2 syntax
type D2Exporter struct{}

// NewD2Exporter creates a new D2 exporter
func NewD2Exporter() *D2Exporter {
	return &D2Exporter{}
}

// Export converts the graph to D2 syntax. Node positions are not carried
// over: D2 lays the graph out itself.
func (e *D2Exporter) Export(g diagram.Graph) (string, error) {
	if len(g.Nodes) == 0 {
		return "", fmt.Errorf("graph has no nodes")
	}

	var sb strings.Builder

	nodeMap := make(map[string]string, len(g.Nodes))
	for _, node := range g.Nodes {
		nodeID := sanitizeID(node.ID)
		nodeMap[node.ID] = nodeID

		sb.WriteString(fmt.Sprintf("%s: %s\n", nodeID, e.escapeLabel(node.Data.Label)))
		e.writeNodeAttributes(&sb, nodeID, node)
	}

	if len(g.Edges) > 0 {
		sb.WriteString("\n")
	}

	for _, edge := range g.Edges {
		fromID, fromExists := nodeMap[edge.Source]
		toID, toExists := nodeMap[edge.Target]
		if !fromExists || !toExists {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s -> %s\n", fromID, toID))
	}

	return sb.String(), nil
}

// escapeLabel quotes labels containing characters the D2 parser would
// otherwise read as syntax.
func (e *D2Exporter) escapeLabel(label string) string {
	if label == "" {
		return `""`
	}
	if !strings.ContainsAny(label, ":-><|{}[]()\"#;") {
		return label
	}
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return fmt.Sprintf("\"%s\"", label)
}

// writeNodeAttributes writes the D2 shape and fill for a node's type.
func (e *D2Exporter) writeNodeAttributes(sb *strings.Builder, nodeID string, node diagram.Node) {
	switch node.Type {
	case diagram.TypeInput:
		sb.WriteString(fmt.Sprintf("%s.shape: oval\n", nodeID))
		sb.WriteString(fmt.Sprintf("%s.style.fill: \"#%s\"\n", nodeID, mapColorToHex("green")))
	case diagram.TypeOutput:
		sb.WriteString(fmt.Sprintf("%s.shape: document\n", nodeID))
		sb.WriteString(fmt.Sprintf("%s.style.fill: \"#%s\"\n", nodeID, mapColorToHex("yellow")))
	}
}

// GetFileExtension returns the recommended file extension
func (e *D2Exporter) GetFileExtension() string {
	return ".d2"
}

// GetFormatName returns the format name
func (e *D2Exporter) GetFormatName() string {
	return "D2"
}
