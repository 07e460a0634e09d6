// Package export renders a flow graph to text formats
package export

import (
	"fmt"
	"strings"

	"dndflow/diagram"
)

// Format represents an export format
type Format string

const (
	// FormatJSON exports nodes and edges as JSON
	FormatJSON Format = "json"
	// FormatMermaid exports to Mermaid flowchart syntax
	FormatMermaid Format = "mermaid"
	// FormatDOT exports to Graphviz DOT syntax
	FormatDOT Format = "dot"
	// FormatPlantUML exports to PlantUML component syntax
	FormatPlantUML Format = "plantuml"
	// FormatD2 exports to D2 syntax
	FormatD2 Format = "d2"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a graph to the target format
	Export(g diagram.Graph) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatJSON:
		return NewJSONExporter(), nil
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatDOT:
		return NewGraphvizExporter(), nil
	case FormatPlantUML:
		return NewPlantUMLExporter(), nil
	case FormatD2:
		return NewD2Exporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "plantuml", "puml":
		return FormatPlantUML, nil
	case "d2":
		return FormatD2, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatJSON,
		FormatMermaid,
		FormatDOT,
		FormatPlantUML,
		FormatD2,
	}
}

// Export is a shortcut for NewExporter followed by Export.
func Export(format Format, g diagram.Graph) (string, error) {
	exp, err := NewExporter(format)
	if err != nil {
		return "", err
	}
	return exp.Export(g)
}

// sanitizeID turns a node id into an identifier every text format accepts
// unquoted. Ids made of letters, digits and underscores pass through.
func sanitizeID(id string) string {
	var sb strings.Builder
	sb.WriteString("n_")
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "_%x_", r)
		}
	}
	return sb.String()
}

// escapeLabel escapes double quotes for quoted labels
func escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	return strings.ReplaceAll(label, `"`, `\"`)
}
