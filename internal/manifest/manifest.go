// Package manifest records what a generation batch produced: one entry per
// compiled source file with its output path and exported schema names.
package manifest

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	json "github.com/goccy/go-json"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// FileName is the manifest file written next to generated output.
const FileName = "tsjoi.manifest.json"

//go:embed manifest.schema.json
var schemaSource string

// Entry describes one generated module.
type Entry struct {
	Source  string   `json:"source"`
	Output  string   `json:"output"`
	Hash    string   `json:"hash"`
	Exports []string `json:"exports"`
}

// Manifest is the batch-level record. Entries are sorted by source path so
// repeated runs produce identical files.
type Manifest struct {
	Version string  `json:"version"`
	Entries []Entry `json:"entries"`
}

func New() *Manifest {
	return &Manifest{Version: "1"}
}

// Add appends an entry, normalizing a nil export list to an empty one.
func (m *Manifest) Add(e Entry) {
	if e.Exports == nil {
		e.Exports = []string{}
	}
	m.Entries = append(m.Entries, e)
}

// Validate checks the manifest against the embedded JSON Schema.
func (m *Manifest) Validate() error {
	schema, err := jsonschema.CompileString("manifest.schema.json", schemaSource)
	if err != nil {
		return fmt.Errorf("failed to compile manifest schema: %w", err)
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to normalize manifest: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("manifest schema validation failed: %w", err)
	}
	return nil
}

// Save validates the manifest and writes it into dir.
func (m *Manifest) Save(dir string) error {
	sort.Slice(m.Entries, func(i, j int) bool {
		return m.Entries[i].Source < m.Entries[j].Source
	})
	if err := m.Validate(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(filepath.Join(dir, FileName), b, 0644)
}
