// Package presentation renders command output as JSON.
package presentation

import (
	"encoding/json"
	"io"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatProjects formats a list of projects as JSON
func (f *Formatter) FormatProjects(projects []ProjectDTO) error {
	return f.encode(projects)
}

// FormatImportResult formats an import result as JSON
func (f *Formatter) FormatImportResult(result ImportResultDTO) error {
	return f.encode(result)
}

func (f *Formatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
