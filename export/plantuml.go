package export

import (
	"fmt"
	"strings"

	"dndflow/diagram"
)

// PlantUMLExporter exports graphs to PlantUML component syntax
type PlantUMLExporter struct{}

// NewPlantUMLExporter creates a new PlantUML exporter
func NewPlantUMLExporter() *PlantUMLExporter {
	return &PlantUMLExporter{}
}

// Export converts the graph to PlantUML syntax
func (e *PlantUMLExporter) Export(g diagram.Graph) (string, error) {
	if len(g.Nodes) == 0 {
		return "", fmt.Errorf("graph has no nodes")
	}

	var sb strings.Builder
	sb.WriteString("@startuml\n")
	sb.WriteString("!theme plain\n")
	sb.WriteString("skinparam backgroundColor white\n")
	sb.WriteString("skinparam componentStyle rectangle\n\n")

	nodeMap := make(map[string]string, len(g.Nodes))
	for _, node := range g.Nodes {
		nodeID := sanitizeID(node.ID)
		nodeMap[node.ID] = nodeID
		sb.WriteString(fmt.Sprintf("%s \"%s\" as %s%s\n",
			e.element(node.Type), escapeLabel(node.Data.Label), nodeID, e.color(node.Type)))
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
		sb.WriteString(fmt.Sprintf("%s --> %s\n", fromID, toID))
	}

	sb.WriteString("\n@enduml\n")
	return sb.String(), nil
}

// element maps a node type to a PlantUML element keyword.
func (e *PlantUMLExporter) element(nodeType string) string {
	switch nodeType {
	case diagram.TypeInput:
		return "interface"
	case diagram.TypeOutput:
		return "artifact"
	default:
		return "component"
	}
}

func (e *PlantUMLExporter) color(nodeType string) string {
	switch nodeType {
	case diagram.TypeInput:
		return " #" + mapColorToHex("green")
	case diagram.TypeOutput:
		return " #" + mapColorToHex("yellow")
	default:
		return ""
	}
}

// GetFileExtension returns the recommended file extension
func (e *PlantUMLExporter) GetFileExtension() string {
	return ".puml"
}

// GetFormatName returns the format name
func (e *PlantUMLExporter) GetFormatName() string {
	return "PlantUML"
}

// mapColorToHex maps color names to hex codes
func mapColorToHex(color string) string {
	colorMap := map[string]string{
		"red":    "FF6B6B",
		"green":  "51CF66",
		"blue":   "339AF0",
		"yellow": "FFD43B",
		"gray":   "868E96",
	}

	if hex, ok := colorMap[strings.ToLower(color)]; ok {
		return hex
	}

	// Already a hex code, with or without #
	color = strings.TrimPrefix(color, "#")
	if len(color) == 6 {
		return color
	}

	return "000000"
}
