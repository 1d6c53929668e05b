package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/KirkDiggler/remnant-save-analyzer/internal/dataset"
)

// DefaultDumpName is the file JSONDumper writes when no path is configured
const DefaultDumpName = "analyzer.json"

// JSONDumper writes a Dataset as indented JSON. Empty and absent values are omitted.
type JSONDumper struct {
	Path string
}

var _ DumpSink = (*JSONDumper)(nil)

// Dump implements DumpSink
func (d *JSONDumper) Dump(ds *dataset.Dataset) error {
	path := d.Path
	if path == "" {
		path = DefaultDumpName
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal dataset: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write dataset dump: %w", err)
	}
	return nil
}
