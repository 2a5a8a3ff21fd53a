package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"defnav/internal/document"
)

// Manifest lists the documents that make up a solution, so a graph can be
// built without an IDE host feeding documents in.
type Manifest struct {
	// Documents are the solution's files.
	Documents []ManifestDocument `yaml:"documents"`
}

// ManifestDocument is one manifest entry.
type ManifestDocument struct {
	// Path is the file path, absolute or relative to the manifest.
	Path string `yaml:"path"`

	// Project optionally tags the document with its owning project.
	Project string `yaml:"project,omitempty"`
}

// LoadManifest reads a workspace manifest from a YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// BuildGraph reads every manifest document from disk and registers it.
// Relative entry paths are resolved against baseDir. Unreadable files fail
// the build; a manifest names what must exist.
func (m *Manifest) BuildGraph(baseDir string) (*Graph, error) {
	graph := NewGraph()

	for _, entry := range m.Documents {
		path := entry.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}

		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", entry.Path, err)
		}

		graph.Add(document.New(path, entry.Project, string(text)))
	}

	return graph, nil
}
