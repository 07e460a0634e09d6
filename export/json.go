package export

import (
	"encoding/json"

	"dndflow/diagram"
)

// JSONExporter exports graphs to JSON format
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts a graph to JSON
func (e *JSONExporter) Export(g diagram.Graph) (string, error) {
	data, err := json.MarshalIndent(g.Clone(), "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// GetFileExtension returns the file extension for JSON
func (e *JSONExporter) GetFileExtension() string {
	return ".json"
}

// GetFormatName returns the format name
func (e *JSONExporter) GetFormatName() string {
	return "JSON"
}
